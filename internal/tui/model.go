// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"go.uber.org/zap"

	"github.com/fincoach-dev/fincoach/internal/analysis"
	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/config"
	"github.com/fincoach-dev/fincoach/internal/flow"
	"github.com/fincoach-dev/fincoach/internal/log"
	"github.com/fincoach-dev/fincoach/internal/onboarding"
	"github.com/fincoach-dev/fincoach/internal/recommend"
	"github.com/fincoach-dev/fincoach/internal/session"
)

// Services are the backend-facing components the TUI drives.
type Services struct {
	Client    *api.Client
	Submitter *onboarding.Submitter
	Collector *onboarding.Collector
	Retriever *analysis.Retriever
	Tracker   *recommend.Tracker

	Events *log.Logger    // journey events; nil disables
	Store  *session.Store // journal; nil disables
	Logger *zap.Logger
}

// NewServices wires every component to one backend client.
func NewServices(client *api.Client, logger *zap.Logger) Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Services{
		Client:    client,
		Submitter: onboarding.NewSubmitter(client, logger),
		Collector: onboarding.NewCollector(client, logger),
		Retriever: analysis.NewRetriever(client, logger),
		Tracker:   recommend.NewTracker(client, logger),
		Logger:    logger,
	}
}

// Model is the state shared by every view of the TUI.
type Model struct {
	Cfg      *config.Config
	Services Services
	Session  *session.State
	Nav      *flow.Navigator

	// Notice is the message shown under the active view.
	Notice flow.Notice

	// JournalID is the journal session opened at login.
	JournalID string

	// Onboarding results
	Questions    onboarding.QuestionSet
	Preamble     string
	AnalysisText string // narrative returned by the answers submission

	// Retrieved results
	Analysis analysis.Analysis
	Plan     analysis.Plan
	Insights string

	// Terminal dimensions
	Width  int
	Height int

	// Ctrl+C confirmation state
	CtrlCPending bool
}

// NewModel creates a Model starting at the landing stage.
func NewModel(cfg *config.Config, svc Services) *Model {
	state := session.NewState()
	return &Model{
		Cfg:      cfg,
		Services: svc,
		Session:  state,
		Nav: flow.NewNavigator(state,
			flow.WithRedirectDelay(cfg.RedirectDelay()),
			flow.WithLogger(svc.Logger)),
		Width:  80,
		Height: 24,
	}
}

// UserID returns the logged-in user's id, or 0.
func (m *Model) UserID() int {
	u, _ := m.Session.User()
	return u.ID
}

// AISource reports whether analysis and plan come from the AI endpoints.
func (m *Model) AISource() bool {
	return m.Cfg.Analysis.Source == config.SourceAI
}

// ResetResults clears everything derived from the logged-in user.
func (m *Model) ResetResults() {
	m.Questions = nil
	m.Preamble = ""
	m.AnalysisText = ""
	m.Analysis = nil
	m.Plan = nil
	m.Insights = ""
	m.JournalID = ""
}

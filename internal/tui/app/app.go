// Package app provides the main TUI application that wires all views together.
package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fincoach-dev/fincoach/internal/analysis"
	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/config"
	"github.com/fincoach-dev/fincoach/internal/flow"
	"github.com/fincoach-dev/fincoach/internal/log"
	"github.com/fincoach-dev/fincoach/internal/session"
	"github.com/fincoach-dev/fincoach/internal/tui"
	"github.com/fincoach-dev/fincoach/internal/tui/commands"
	"github.com/fincoach-dev/fincoach/internal/tui/views"
)

const maxBoxWidth = 80

// App is the main TUI application that wires all views together.
type App struct {
	ctx   context.Context
	model *tui.Model

	// View models
	landingView   views.LandingModel
	authView      views.AuthModel
	profileView   views.ProfileModel
	questionsView views.QuestionsModel
	resultsView   views.ResultsModel
	recsView      views.RecommendationsModel

	// answers submitted but not yet acknowledged, kept for the journal
	pendingAnswers []views.AnsweredQuestion
}

// New creates a new App. ctx bounds every backend call the app starts.
func New(ctx context.Context, cfg *config.Config, svc tui.Services) *App {
	model := tui.NewModel(cfg, svc)
	return &App{
		ctx:         ctx,
		model:       model,
		landingView: views.NewLandingModel(model.Width),
	}
}

// Model exposes the shared state, mainly for tests.
func (a *App) Model() *tui.Model {
	return a.model
}

// Init returns the initial command for the TUI.
func (a *App) Init() tea.Cmd {
	return a.landingView.Init()
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.model.Width = msg.Width
		a.model.Height = msg.Height
		return a, a.updateActive(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.CtrlC):
			if a.model.CtrlCPending {
				// Second press within timeout - exit
				return a, tea.Quit
			}
			a.model.CtrlCPending = true
			return a, tea.Tick(time.Second, func(time.Time) tea.Msg {
				return tui.CtrlCResetMsg{}
			})
		case key.Matches(msg, tui.DefaultKeyMap.Logout):
			if a.model.Session.IsAuthenticated() {
				return a, a.logout()
			}
		}

	case tui.CtrlCResetMsg:
		a.model.CtrlCPending = false
		return a, nil

	// Requests from views
	case views.StageSelectedMsg:
		return a, a.enter(msg.Stage)
	case views.BackMsg:
		if prev, ok := previousStage(a.model.Nav.Current()); ok {
			return a, a.enter(prev)
		}
		return a, nil
	case views.NextMsg:
		if next, ok := nextStage(a.model.Nav.Current()); ok {
			return a, a.enter(next)
		}
		return a, nil
	case views.RefreshMsg:
		return a, a.enter(a.model.Nav.Current())
	case views.LoginSubmitMsg:
		a.authView.SetBusy(true)
		return a, commands.LoginCmd(a.ctx, a.model.Services.Client, a.model.Nav.Ticket(),
			api.LoginRequest{Email: msg.Email, Password: msg.Password})
	case views.RegisterSubmitMsg:
		a.authView.SetBusy(true)
		return a, commands.RegisterCmd(a.ctx, a.model.Services.Client, a.model.Nav.Ticket(),
			api.RegisterRequest{Email: msg.Email, Username: msg.Username, Password: msg.Password})
	case views.ProfileSubmitMsg:
		a.model.Notice = flow.Notice{}
		a.profileView.SetBusy(true)
		return a, commands.SubmitProfileCmd(a.ctx, a.model.Services.Submitter, a.model.Nav.Ticket(), msg.Input)
	case views.AnswersSubmitMsg:
		a.model.Notice = flow.Notice{}
		a.questionsView.SetBusy(true)
		a.pendingAnswers = msg.Answered
		return a, commands.SubmitAnswersCmd(a.ctx, a.model.Services.Collector, a.model.Nav.Ticket(), a.model.UserID(), msg.Answers)
	case views.StaticSubmitMsg:
		a.model.Notice = flow.Notice{}
		a.questionsView.SetBusy(true)
		a.pendingAnswers = msg.Answered
		q := msg.Questionnaire
		q.UserID = a.model.UserID()
		return a, commands.SubmitStaticCmd(a.ctx, a.model.Services.Collector, a.model.Nav.Ticket(), q)
	case views.CompleteRequestMsg:
		a.recsView.SetUpdating(msg.ID, true)
		return a, commands.MarkCompleteCmd(a.ctx, a.model.Services.Tracker, a.model.Nav.Ticket(), msg.ID)
	case views.InsightsRequestMsg:
		cmd := a.recsView.SetFetchingInsights(true)
		return a, tea.Batch(cmd, commands.InsightsCmd(a.ctx, a.model.Services.Tracker, a.model.Nav.Ticket()))

	// Results of backend work
	case tui.RedirectMsg:
		if d, ok := a.model.Nav.FireRedirect(msg.Redirect); ok {
			return a, a.open(d)
		}
		return a, nil
	case tui.RegisterResultMsg:
		return a, a.handleRegister(msg)
	case tui.LoginResultMsg:
		return a, a.handleLogin(msg)
	case tui.ProfileResultMsg:
		return a, a.handleProfile(msg)
	case tui.AnswersResultMsg:
		return a, a.handleAnswers(msg)
	case tui.StaticResultMsg:
		return a, a.handleStatic(msg)
	case tui.AnalysisLoadedMsg:
		return a, a.handleAnalysis(msg)
	case tui.PlanLoadedMsg:
		return a, a.handlePlan(msg)
	case tui.RecommendationsLoadedMsg:
		return a, a.handleRecommendations(msg)
	case tui.RecommendationUpdatedMsg:
		return a, a.handleRecommendationUpdated(msg)
	case tui.InsightsMsg:
		return a, a.handleInsights(msg)
	}

	return a, a.updateActive(msg)
}

// updateActive forwards msg to the view of the current stage.
func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.model.Nav.Current() {
	case flow.StageLanding:
		a.landingView, cmd = a.landingView.Update(msg)
	case flow.StageLogin, flow.StageRegister:
		a.authView, cmd = a.authView.Update(msg)
	case flow.StageProfile:
		a.profileView, cmd = a.profileView.Update(msg)
	case flow.StageQuestions:
		a.questionsView, cmd = a.questionsView.Update(msg)
	case flow.StageAnalysis, flow.StagePlan:
		a.resultsView, cmd = a.resultsView.Update(msg)
	case flow.StageRecommendations, flow.StageProgress:
		a.recsView, cmd = a.recsView.Update(msg)
	}
	return cmd
}

// ============================================================================
// Navigation
// ============================================================================

// enter navigates to stage through the gate.
func (a *App) enter(stage flow.Stage) tea.Cmd {
	return a.open(a.model.Nav.Go(stage))
}

// open builds the view for d.Stage and starts whatever it needs to load.
// Loads are tagged with d.Ticket so leaving the stage discards them.
func (a *App) open(d flow.Decision) tea.Cmd {
	a.model.Notice = d.Notice
	w, h := a.model.Width, a.model.Height
	svc := a.model.Services
	userID := a.model.UserID()

	switch d.Stage {
	case flow.StageLanding:
		a.landingView = views.NewLandingModel(w)
		return a.landingView.Init()

	case flow.StageLogin:
		a.authView = views.NewLoginModel(w)
		return a.authView.Init()

	case flow.StageRegister:
		a.authView = views.NewRegisterModel(w)
		return a.authView.Init()

	case flow.StageProfile:
		a.profileView = views.NewProfileModel(w)
		return a.profileView.Init()

	case flow.StageQuestions:
		a.questionsView = views.NewQuestionsModel(a.model.Questions, a.model.Preamble, w, h)
		return a.questionsView.Init()

	case flow.StageAnalysis:
		a.resultsView = views.NewResultsModel("Your financial analysis", "financial plan", w, h)
		load := commands.FetchAnalysisCmd(a.ctx, svc.Retriever, d.Ticket, userID)
		if a.model.AISource() && a.model.AnalysisText != "" {
			load = commands.NarrativeAnalysisCmd(d.Ticket, a.model.AnalysisText)
		}
		return tea.Batch(a.resultsView.Init(), load)

	case flow.StagePlan:
		a.resultsView = views.NewResultsModel("Your financial plan", "recommendations", w, h)
		load := commands.FetchPlanCmd(a.ctx, svc.Retriever, d.Ticket, userID)
		if a.model.AISource() && a.model.AnalysisText != "" {
			load = commands.GeneratePlanCmd(a.ctx, svc.Retriever, d.Ticket, a.model.AnalysisText)
		}
		return tea.Batch(a.resultsView.Init(), load)

	case flow.StageRecommendations:
		a.recsView = views.NewRecommendationsModel(w)
		return tea.Batch(a.recsView.Init(), commands.ListRecommendationsCmd(a.ctx, svc.Tracker, d.Ticket, userID))

	case flow.StageProgress:
		a.recsView = views.NewProgressModel(w)
		return tea.Batch(a.recsView.Init(), commands.ListRecommendationsCmd(a.ctx, svc.Tracker, d.Ticket, userID))
	}
	return nil
}

// fail reports err through the navigator. A decision that changes stage
// opens the new stage; otherwise the current view stays with the notice.
func (a *App) fail(err error) tea.Cmd {
	before := a.model.Nav.Current()
	a.recordFailure(before, err)

	d := a.model.Nav.Fail(err)
	if d.Stage != before {
		return a.open(d)
	}
	a.model.Notice = d.Notice
	a.authView.SetBusy(false)
	a.profileView.SetBusy(false)
	a.questionsView.SetBusy(false)
	return nil
}

func (a *App) logout() tea.Cmd {
	a.event(log.LogEvent{Event: log.EventLogout})
	a.closeJournal()
	a.model.ResetResults()
	a.pendingAnswers = nil
	return a.open(a.model.Nav.Logout())
}

// nextStage is the stage that follows s in the advisory journey.
func nextStage(s flow.Stage) (flow.Stage, bool) {
	switch s {
	case flow.StageAnalysis:
		return flow.StagePlan, true
	case flow.StagePlan:
		return flow.StageRecommendations, true
	case flow.StageRecommendations:
		return flow.StageProgress, true
	}
	return s, false
}

// previousStage is where esc leads from s.
func previousStage(s flow.Stage) (flow.Stage, bool) {
	switch s {
	case flow.StageProfile:
		return flow.StageAnalysis, true
	case flow.StageQuestions:
		return flow.StageProfile, true
	case flow.StageLogin, flow.StageRegister:
		return flow.StageLanding, true
	case flow.StagePlan:
		return flow.StageAnalysis, true
	case flow.StageRecommendations:
		return flow.StagePlan, true
	case flow.StageProgress:
		return flow.StageRecommendations, true
	}
	return s, false
}

// ============================================================================
// Result Handlers
// ============================================================================

func (a *App) handleRegister(msg tui.RegisterResultMsg) tea.Cmd {
	if !a.model.Nav.Accept(msg.Ticket) {
		return nil
	}
	if msg.Err != nil {
		return a.fail(msg.Err)
	}
	return a.open(a.model.Nav.RegisterSucceeded(msg.User.Username))
}

func (a *App) handleLogin(msg tui.LoginResultMsg) tea.Cmd {
	if !a.model.Nav.Accept(msg.Ticket) {
		return nil
	}
	if msg.Err != nil {
		return a.fail(msg.Err)
	}

	d := a.model.Nav.LoginSucceeded(session.User{ID: msg.User.ID, Username: msg.User.Username, Email: msg.User.Email})
	a.model.Notice = d.Notice
	a.authView.SetBusy(false)
	a.openJournal()
	a.event(log.LogEvent{Event: log.EventLoginSucceeded})

	if d.Redirect == nil {
		return nil
	}
	return commands.RedirectCmd(*d.Redirect)
}

func (a *App) handleProfile(msg tui.ProfileResultMsg) tea.Cmd {
	if !a.model.Nav.Accept(msg.Ticket) {
		return nil
	}
	a.profileView.SetBusy(false)
	if msg.Err != nil {
		return a.fail(msg.Err)
	}

	a.model.Questions = msg.Submission.Questions
	a.model.Preamble = msg.Submission.Preamble
	a.event(log.LogEvent{Event: log.EventProfileSubmitted, Questions: msg.Submission.Questions.Len()})
	return a.enter(flow.StageQuestions)
}

func (a *App) handleAnswers(msg tui.AnswersResultMsg) tea.Cmd {
	if !a.model.Nav.Accept(msg.Ticket) {
		return nil
	}
	a.questionsView.SetBusy(false)
	if msg.Err != nil {
		return a.fail(msg.Err)
	}

	a.model.AnalysisText = msg.Text
	a.journalAnswers(a.pendingAnswers)
	a.event(log.LogEvent{Event: log.EventAnswersSubmitted, Questions: len(a.pendingAnswers)})
	a.pendingAnswers = nil
	return a.enter(flow.StageAnalysis)
}

// handleStatic moves on to the stored analysis. The fixed questionnaire
// returns no narrative, so any earlier one is discarded.
func (a *App) handleStatic(msg tui.StaticResultMsg) tea.Cmd {
	if !a.model.Nav.Accept(msg.Ticket) {
		return nil
	}
	a.questionsView.SetBusy(false)
	if msg.Err != nil {
		return a.fail(msg.Err)
	}

	a.model.AnalysisText = ""
	a.journalAnswers(a.pendingAnswers)
	a.event(log.LogEvent{Event: log.EventAnswersSubmitted, Questions: len(a.pendingAnswers)})
	a.pendingAnswers = nil
	cmd := a.enter(flow.StageAnalysis)
	if a.model.Notice.Text == "" {
		a.model.Notice = flow.Notice{Level: flow.LevelSuccess, Text: "Questionnaire submitted successfully!"}
	}
	return cmd
}

func (a *App) handleAnalysis(msg tui.AnalysisLoadedMsg) tea.Cmd {
	if !a.model.Nav.Accept(msg.Ticket) {
		return nil
	}
	if msg.Err != nil {
		a.resultsView.SetEmpty()
		return a.fail(msg.Err)
	}

	a.model.Analysis = msg.Analysis
	a.resultsView.SetContent(a.renderer().RenderAnalysis(msg.Analysis))
	a.event(log.LogEvent{Event: log.EventAnalysisFetched, Kind: string(msg.Analysis.Kind())})
	return nil
}

func (a *App) handlePlan(msg tui.PlanLoadedMsg) tea.Cmd {
	if !a.model.Nav.Accept(msg.Ticket) {
		return nil
	}
	if msg.Err != nil {
		a.resultsView.SetEmpty()
		return a.fail(msg.Err)
	}

	a.model.Plan = msg.Plan
	a.resultsView.SetContent(a.renderer().RenderPlan(msg.Plan))
	a.event(log.LogEvent{Event: log.EventPlanFetched, Kind: string(msg.Plan.Kind())})
	return nil
}

func (a *App) handleRecommendations(msg tui.RecommendationsLoadedMsg) tea.Cmd {
	if !a.model.Nav.Accept(msg.Ticket) {
		return nil
	}
	if msg.Err != nil {
		a.recsView.SetLoaded()
		return a.fail(msg.Err)
	}

	a.recsView.SetItems(msg.Items)
	snap := a.model.Services.Tracker.Progress()
	a.event(log.LogEvent{Event: log.EventRecommendationsListed, Completed: snap.Completed, Total: snap.Total})
	for _, rec := range msg.Items {
		a.journalRecommendation(rec.ID, rec.Description, string(rec.Status))
	}
	return nil
}

func (a *App) handleRecommendationUpdated(msg tui.RecommendationUpdatedMsg) tea.Cmd {
	if !a.model.Nav.Accept(msg.Ticket) {
		return nil
	}
	a.recsView.SetUpdating(msg.ID, false)
	if msg.Err != nil {
		return a.fail(msg.Err)
	}

	a.recsView.SetItems(a.model.Services.Tracker.Items())
	snap := a.model.Services.Tracker.Progress()
	a.model.Notice = flow.Notice{Level: flow.LevelSuccess, Text: "Marked complete: " + msg.Recommendation.Description}
	a.event(log.LogEvent{
		Event:            log.EventRecommendationCompleted,
		RecommendationID: msg.ID,
		Completed:        snap.Completed,
		Total:            snap.Total,
	})
	a.journalRecommendation(msg.ID, msg.Recommendation.Description, string(msg.Recommendation.Status))
	return nil
}

func (a *App) handleInsights(msg tui.InsightsMsg) tea.Cmd {
	if !a.model.Nav.Accept(msg.Ticket) {
		return nil
	}
	a.recsView.SetFetchingInsights(false)
	if msg.Err != nil {
		return a.fail(msg.Err)
	}
	a.model.Insights = msg.Text
	a.recsView.SetInsights(msg.Text)
	return nil
}

func (a *App) renderer() analysis.Renderer {
	return analysis.Renderer{Width: min(a.model.Width, maxBoxWidth) - 10, Styled: true}
}

// ============================================================================
// Rendering
// ============================================================================

// View renders the current application state.
func (a *App) View() string {
	var content string
	switch a.model.Nav.Current() {
	case flow.StageLanding:
		content = a.landingView.View()
	case flow.StageLogin, flow.StageRegister:
		content = a.authView.View()
	case flow.StageProfile:
		content = a.profileView.View()
	case flow.StageQuestions:
		content = a.questionsView.View()
	case flow.StageAnalysis, flow.StagePlan:
		content = a.resultsView.View()
	case flow.StageRecommendations, flow.StageProgress:
		content = a.recsView.View()
	default:
		content = "Unknown stage"
	}

	if notice := a.renderNotice(); notice != "" {
		content += "\n\n" + notice
	}

	boxWidth := maxBoxWidth
	if a.model.Width-4 < boxWidth {
		boxWidth = a.model.Width - 4
	}
	boxed := tui.BoxStyle.Width(boxWidth).Render(content)

	parts := []string{}
	if a.model.Session.IsAuthenticated() {
		parts = append(parts, a.renderBreadcrumb(), "")
	}
	parts = append(parts, boxed, "", a.renderStatusBar())
	return a.centerContent(lipgloss.JoinVertical(lipgloss.Center, parts...))
}

// centerContent centers the given content both horizontally and vertically.
func (a *App) centerContent(content string) string {
	return lipgloss.Place(
		a.model.Width,
		a.model.Height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

func (a *App) renderNotice() string {
	n := a.model.Notice
	if n.Text == "" {
		return ""
	}
	switch n.Level {
	case flow.LevelSuccess:
		return tui.SuccessStyle.Render(n.Text)
	case flow.LevelWarning:
		return tui.WarningStyle.Render(n.Text)
	case flow.LevelError:
		return tui.ErrorStyle.Render(n.Text)
	default:
		return n.Text
	}
}

// renderBreadcrumb shows the gated stages with the current one highlighted.
func (a *App) renderBreadcrumb() string {
	current := a.model.Nav.Current()
	var rendered []string
	for _, s := range flow.Stages() {
		if !s.RequiresAuth() {
			continue
		}
		if s == current {
			rendered = append(rendered, tui.ActiveStageStyle.Render(s.String()))
		} else {
			rendered = append(rendered, tui.InactiveStageStyle.Render(s.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (a *App) renderStatusBar() string {
	var parts []string
	if u, ok := a.model.Session.User(); ok {
		parts = append(parts, "Signed in as "+u.Username, "ctrl+l log out")
	}
	if a.model.CtrlCPending {
		parts = append(parts, "Press Ctrl+C again to exit")
	} else {
		parts = append(parts, "ctrl+c exit")
	}
	return tui.StatusBarStyle.Render(strings.Join(parts, " · "))
}

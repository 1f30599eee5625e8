// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/fincoach-dev/fincoach/internal/analysis"
	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/flow"
	"github.com/fincoach-dev/fincoach/internal/onboarding"
	"github.com/fincoach-dev/fincoach/internal/recommend"
)

// Every result message carries the Ticket of the navigation that started
// the work. The app drops results whose ticket is no longer accepted.

// ============================================================================
// Auth Messages
// ============================================================================

// RegisterResultMsg is the outcome of a registration.
type RegisterResultMsg struct {
	Ticket flow.Ticket
	User   *api.UserResponse
	Err    error
}

// LoginResultMsg is the outcome of a login.
type LoginResultMsg struct {
	Ticket flow.Ticket
	User   *api.UserResponse
	Err    error
}

// RedirectMsg fires a deferred navigation once its delay has passed.
type RedirectMsg struct {
	Redirect flow.Redirect
}

// ============================================================================
// Onboarding Messages
// ============================================================================

// ProfileResultMsg is the outcome of a profile submission.
type ProfileResultMsg struct {
	Ticket     flow.Ticket
	Submission *onboarding.Submission
	Err        error
}

// AnswersResultMsg is the outcome of an answers submission.
type AnswersResultMsg struct {
	Ticket flow.Ticket
	Text   string
	Err    error
}

// StaticResultMsg is the outcome of a fixed questionnaire submission.
type StaticResultMsg struct {
	Ticket flow.Ticket
	Err    error
}

// ============================================================================
// Analysis Messages
// ============================================================================

// AnalysisLoadedMsg carries a fetched analysis.
type AnalysisLoadedMsg struct {
	Ticket   flow.Ticket
	Analysis analysis.Analysis
	Err      error
}

// PlanLoadedMsg carries a fetched or generated plan.
type PlanLoadedMsg struct {
	Ticket flow.Ticket
	Plan   analysis.Plan
	Err    error
}

// ============================================================================
// Recommendation Messages
// ============================================================================

// RecommendationsLoadedMsg carries the refreshed recommendation set.
type RecommendationsLoadedMsg struct {
	Ticket flow.Ticket
	Items  []*recommend.Recommendation
	Err    error
}

// RecommendationUpdatedMsg is the outcome of marking one recommendation complete.
type RecommendationUpdatedMsg struct {
	Ticket         flow.Ticket
	ID             int
	Recommendation *recommend.Recommendation
	Err            error
}

// InsightsMsg carries narrative feedback on progress.
type InsightsMsg struct {
	Ticket flow.Ticket
	Text   string
	Err    error
}

// ============================================================================
// Utility Messages
// ============================================================================

// CtrlCResetMsg is sent after the Ctrl+C confirmation timeout expires.
type CtrlCResetMsg struct{}

// Package views provides TUI view components for the fincoach application.
package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincoach-dev/fincoach/internal/flow"
	"github.com/fincoach-dev/fincoach/internal/onboarding"
)

// ============================================================================
// Message Types
// ============================================================================

// StageSelectedMsg asks the app to navigate to Stage.
type StageSelectedMsg struct {
	Stage flow.Stage
}

func selectStage(stage flow.Stage) tea.Cmd {
	return func() tea.Msg { return StageSelectedMsg{Stage: stage} }
}

// BackMsg asks the app to return to the previous stage.
type BackMsg struct{}

// NextMsg asks the app to advance to the following stage.
type NextMsg struct{}

// LoginSubmitMsg is sent when the login form is submitted.
type LoginSubmitMsg struct {
	Email    string
	Password string
}

// RegisterSubmitMsg is sent when the registration form is submitted.
type RegisterSubmitMsg struct {
	Email    string
	Username string
	Password string
}

// ProfileSubmitMsg is sent when the profile form is submitted.
type ProfileSubmitMsg struct {
	Input onboarding.ProfileInput
}

// AnsweredQuestion pairs a question with its answer for the journal.
type AnsweredQuestion struct {
	Index    int
	Question string
	Answer   string
}

// AnswersSubmitMsg is sent when the questionnaire is submitted.
type AnswersSubmitMsg struct {
	Answers  onboarding.Answers
	Answered []AnsweredQuestion
}

// StaticSubmitMsg is sent when the fixed questionnaire is submitted.
type StaticSubmitMsg struct {
	Questionnaire onboarding.StaticQuestionnaire
	Answered      []AnsweredQuestion
}

// CompleteRequestMsg asks the app to mark recommendation ID complete.
type CompleteRequestMsg struct {
	ID int
}

// RefreshMsg asks the app to reload the active stage's data.
type RefreshMsg struct{}

// InsightsRequestMsg asks the app for narrative progress feedback.
type InsightsRequestMsg struct{}

package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincoach-dev/fincoach/internal/flow"
	"github.com/fincoach-dev/fincoach/internal/onboarding"
	"github.com/fincoach-dev/fincoach/internal/tui"
)

// SubmitProfileCmd submits the profile and returns the parsed questions.
func SubmitProfileCmd(ctx context.Context, s *onboarding.Submitter, t flow.Ticket, in onboarding.ProfileInput) tea.Cmd {
	return func() tea.Msg {
		sub, err := s.Submit(ctx, in)
		return tui.ProfileResultMsg{Ticket: t, Submission: sub, Err: err}
	}
}

// SubmitAnswersCmd consolidates and submits answers for analysis.
func SubmitAnswersCmd(ctx context.Context, c *onboarding.Collector, t flow.Ticket, userID int, answers onboarding.Answers) tea.Cmd {
	return func() tea.Msg {
		text, err := c.SubmitAnswers(ctx, userID, answers)
		return tui.AnswersResultMsg{Ticket: t, Text: text, Err: err}
	}
}

// SubmitStaticCmd submits the fixed questionnaire.
func SubmitStaticCmd(ctx context.Context, c *onboarding.Collector, t flow.Ticket, q onboarding.StaticQuestionnaire) tea.Cmd {
	return func() tea.Msg {
		return tui.StaticResultMsg{Ticket: t, Err: c.SubmitStatic(ctx, q)}
	}
}

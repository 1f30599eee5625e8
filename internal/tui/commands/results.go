package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincoach-dev/fincoach/internal/analysis"
	"github.com/fincoach-dev/fincoach/internal/flow"
	"github.com/fincoach-dev/fincoach/internal/tui"
)

// FetchAnalysisCmd loads the stored analysis for userID.
func FetchAnalysisCmd(ctx context.Context, r *analysis.Retriever, t flow.Ticket, userID int) tea.Cmd {
	return func() tea.Msg {
		a, err := r.FetchAnalysis(ctx, userID)
		return tui.AnalysisLoadedMsg{Ticket: t, Analysis: a, Err: err}
	}
}

// NarrativeAnalysisCmd wraps analysis text already returned by the backend.
func NarrativeAnalysisCmd(t flow.Ticket, text string) tea.Cmd {
	return func() tea.Msg {
		return tui.AnalysisLoadedMsg{Ticket: t, Analysis: analysis.FromNarrative(text)}
	}
}

// FetchPlanCmd loads the stored plan for userID.
func FetchPlanCmd(ctx context.Context, r *analysis.Retriever, t flow.Ticket, userID int) tea.Cmd {
	return func() tea.Msg {
		p, err := r.FetchPlan(ctx, userID)
		return tui.PlanLoadedMsg{Ticket: t, Plan: p, Err: err}
	}
}

// GeneratePlanCmd asks the backend to draft a plan from analysis text.
func GeneratePlanCmd(ctx context.Context, r *analysis.Retriever, t flow.Ticket, analysisText string) tea.Cmd {
	return func() tea.Msg {
		p, err := r.GeneratePlan(ctx, analysisText)
		return tui.PlanLoadedMsg{Ticket: t, Plan: p, Err: err}
	}
}

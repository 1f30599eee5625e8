package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincoach-dev/fincoach/internal/flow"
	"github.com/fincoach-dev/fincoach/internal/recommend"
	"github.com/fincoach-dev/fincoach/internal/tui"
)

// ListRecommendationsCmd refreshes the tracker's cached set.
func ListRecommendationsCmd(ctx context.Context, tr *recommend.Tracker, t flow.Ticket, userID int) tea.Cmd {
	return func() tea.Msg {
		items, err := tr.List(ctx, userID)
		return tui.RecommendationsLoadedMsg{Ticket: t, Items: items, Err: err}
	}
}

// MarkCompleteCmd completes one recommendation.
func MarkCompleteCmd(ctx context.Context, tr *recommend.Tracker, t flow.Ticket, id int) tea.Cmd {
	return func() tea.Msg {
		rec, err := tr.MarkComplete(ctx, id)
		return tui.RecommendationUpdatedMsg{Ticket: t, ID: id, Recommendation: rec, Err: err}
	}
}

// InsightsCmd asks for narrative feedback on current progress.
func InsightsCmd(ctx context.Context, tr *recommend.Tracker, t flow.Ticket) tea.Cmd {
	return func() tea.Msg {
		text, err := tr.Insights(ctx)
		return tui.InsightsMsg{Ticket: t, Text: text, Err: err}
	}
}

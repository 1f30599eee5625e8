// Package commands provides Bubble Tea commands for TUI operations.
// Each command runs one backend call off the UI goroutine and reports the
// result tagged with the ticket it was started under.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/flow"
	"github.com/fincoach-dev/fincoach/internal/tui"
)

// RegisterCmd creates an account.
func RegisterCmd(ctx context.Context, client *api.Client, t flow.Ticket, in api.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		user, err := client.Register(ctx, in)
		return tui.RegisterResultMsg{Ticket: t, User: user, Err: err}
	}
}

// LoginCmd authenticates the user.
func LoginCmd(ctx context.Context, client *api.Client, t flow.Ticket, in api.LoginRequest) tea.Cmd {
	return func() tea.Msg {
		user, err := client.Login(ctx, in)
		return tui.LoginResultMsg{Ticket: t, User: user, Err: err}
	}
}

// RedirectCmd delivers r after its delay. The app decides whether it still
// applies.
func RedirectCmd(r flow.Redirect) tea.Cmd {
	return tea.Tick(r.After, func(time.Time) tea.Msg {
		return tui.RedirectMsg{Redirect: r}
	})
}

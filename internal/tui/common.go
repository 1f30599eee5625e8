package tui

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Key names compared against tea.KeyMsg.String() in form navigation.
const (
	KeyTab   = "tab"
	KeyEnter = "enter"
	KeyUp    = "up"
	KeyDown  = "down"
)

// IsTTY reports whether w is a terminal the TUI can take over.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run starts the TUI program with the given model in the alternate screen.
// Callers check IsTTY first and use the FallbackRunner otherwise.
func Run(m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

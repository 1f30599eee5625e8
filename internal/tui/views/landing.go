package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincoach-dev/fincoach/internal/flow"
	"github.com/fincoach-dev/fincoach/internal/tui"
)

type landingOption struct {
	label string
	stage flow.Stage
	quit  bool
}

// LandingModel is the entry menu offered before login.
type LandingModel struct {
	options  []landingOption
	selected int
	width    int
}

// NewLandingModel creates the landing menu.
func NewLandingModel(width int) LandingModel {
	return LandingModel{
		options: []landingOption{
			{label: "Log in", stage: flow.StageLogin},
			{label: "Create an account", stage: flow.StageRegister},
			{label: "Quit", quit: true},
		},
		width: width,
	}
}

// Init returns the initial command for the landing view.
func (m LandingModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the landing view.
func (m LandingModel) Update(msg tea.Msg) (LandingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, km.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, km.Down):
			if m.selected < len(m.options)-1 {
				m.selected++
			}
		case key.Matches(msg, km.Enter):
			opt := m.options[m.selected]
			if opt.quit {
				return m, tea.Quit
			}
			return m, func() tea.Msg { return StageSelectedMsg{Stage: opt.stage} }
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// View renders the landing view.
func (m LandingModel) View() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("fincoach"))
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("Personal finance guidance, one step at a time."))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		if i == m.selected {
			b.WriteString("❯ " + tui.SelectedStyle.Render(opt.label))
		} else {
			b.WriteString("  " + opt.label)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("Enter to select · ↑↓ to navigate"))
	return b.String()
}

package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincoach-dev/fincoach/internal/flow"
	"github.com/fincoach-dev/fincoach/internal/tui"
)

// ResultsModel shows a rendered analysis or plan in a scrollable viewport.
type ResultsModel struct {
	title    string
	nextHint string
	viewport viewport.Model
	spinner  spinner.Model
	loading  bool
	ready    bool
}

// NewResultsModel creates a results view. nextHint names the following stage.
func NewResultsModel(title, nextHint string, width, height int) ResultsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = tui.SelectedStyle

	vp := viewport.New(max(width-8, 20), max(height-12, 5))
	return ResultsModel{
		title:    title,
		nextHint: nextHint,
		viewport: vp,
		spinner:  s,
		loading:  true,
	}
}

// SetLoading shows the spinner until SetContent is called.
func (m *ResultsModel) SetLoading() tea.Cmd {
	m.loading = true
	m.ready = false
	return m.spinner.Tick
}

// SetContent replaces the viewport content with rendered text.
func (m *ResultsModel) SetContent(rendered string) {
	m.loading = false
	m.ready = true
	m.viewport.SetContent(rendered)
	m.viewport.GotoTop()
}

// SetEmpty stops the spinner without content, e.g. after a failure.
func (m *ResultsModel) SetEmpty() {
	m.loading = false
	m.ready = false
}

// Loading reports whether the view is waiting for content.
func (m ResultsModel) Loading() bool {
	return m.loading
}

// Init returns the initial command for the results view.
func (m ResultsModel) Init() tea.Cmd {
	if m.loading {
		return m.spinner.Tick
	}
	return nil
}

// Update handles messages for the results view.
func (m ResultsModel) Update(msg tea.Msg) (ResultsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.viewport.Width = max(msg.Width-8, 20)
		m.viewport.Height = max(msg.Height-12, 5)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, km.Next):
			if m.nextHint != "" && !m.loading {
				return m, func() tea.Msg { return NextMsg{} }
			}
			return m, nil
		case key.Matches(msg, km.Refresh):
			return m, func() tea.Msg { return RefreshMsg{} }
		case key.Matches(msg, km.Onboard):
			return m, selectStage(flow.StageProfile)
		case key.Matches(msg, km.Escape):
			return m, func() tea.Msg { return BackMsg{} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the results view.
func (m ResultsModel) View() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render(m.title))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading...")
		b.WriteString("\n")
	case m.ready:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	default:
		b.WriteString(tui.DimStyle.Render("Nothing to show. Press r to retry."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hints := []string{"↑↓ scroll", "r refresh", "o onboarding", "esc back"}
	if m.nextHint != "" {
		hints = append(hints, "n "+m.nextHint)
	}
	b.WriteString(tui.DimStyle.Render(strings.Join(hints, " · ")))
	return b.String()
}

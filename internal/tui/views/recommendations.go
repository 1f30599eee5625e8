package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincoach-dev/fincoach/internal/flow"
	"github.com/fincoach-dev/fincoach/internal/recommend"
	"github.com/fincoach-dev/fincoach/internal/tui"
)

const maxBarWidth = 50

var km = tui.DefaultKeyMap

// RecommendationsModel lists recommendations and lets the user complete
// them. In progress mode it also shows the completion bar and insights.
type RecommendationsModel struct {
	progressMode bool

	items    []*recommend.Recommendation
	updating map[int]bool
	cursor   int
	loading  bool
	insights string
	fetching bool

	bar     progress.Model
	spinner spinner.Model
}

// NewRecommendationsModel creates the recommendations list view.
func NewRecommendationsModel(width int) RecommendationsModel {
	return newRecommendationsModel(false, width)
}

// NewProgressModel creates the progress view.
func NewProgressModel(width int) RecommendationsModel {
	return newRecommendationsModel(true, width)
}

func newRecommendationsModel(progressMode bool, width int) RecommendationsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = tui.SelectedStyle

	return RecommendationsModel{
		progressMode: progressMode,
		updating:     make(map[int]bool),
		loading:      true,
		bar:          progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth(width))),
		spinner:      s,
	}
}

func barWidth(width int) int {
	return max(min(width-12, maxBarWidth), 10)
}

// SetItems replaces the listed recommendations.
func (m *RecommendationsModel) SetItems(items []*recommend.Recommendation) {
	m.items = items
	m.loading = false
	if m.cursor >= len(items) {
		m.cursor = max(len(items)-1, 0)
	}
}

// SetLoaded stops the loading indicator without changing the items.
func (m *RecommendationsModel) SetLoaded() {
	m.loading = false
}

// SetUpdating marks id as having a completion in flight.
func (m *RecommendationsModel) SetUpdating(id int, updating bool) {
	if updating {
		m.updating[id] = true
		return
	}
	delete(m.updating, id)
}

// SetFetchingInsights shows or hides the insights spinner.
func (m *RecommendationsModel) SetFetchingInsights(fetching bool) tea.Cmd {
	m.fetching = fetching
	if fetching {
		return m.spinner.Tick
	}
	return nil
}

// SetInsights stores the narrative feedback.
func (m *RecommendationsModel) SetInsights(text string) {
	m.fetching = false
	m.insights = text
}

// Selected returns the recommendation under the cursor.
func (m RecommendationsModel) Selected() (*recommend.Recommendation, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil, false
	}
	return m.items[m.cursor], true
}

// Init returns the initial command for the recommendations view.
func (m RecommendationsModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages for the recommendations view.
func (m RecommendationsModel) Update(msg tea.Msg) (RecommendationsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading && !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.bar.Width = barWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, km.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, km.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, km.Complete):
			rec, ok := m.Selected()
			if !ok || rec.Status.IsComplete() || m.updating[rec.ID] {
				return m, nil
			}
			id := rec.ID
			return m, func() tea.Msg { return CompleteRequestMsg{ID: id} }
		case key.Matches(msg, km.Refresh):
			return m, func() tea.Msg { return RefreshMsg{} }
		case key.Matches(msg, km.Insights):
			if m.progressMode && !m.fetching {
				return m, func() tea.Msg { return InsightsRequestMsg{} }
			}
		case key.Matches(msg, km.Next):
			if !m.progressMode {
				return m, func() tea.Msg { return NextMsg{} }
			}
		case key.Matches(msg, km.Onboard):
			return m, selectStage(flow.StageProfile)
		case key.Matches(msg, km.Escape):
			return m, func() tea.Msg { return BackMsg{} }
		}
	}
	return m, nil
}

func (m RecommendationsModel) marker(rec *recommend.Recommendation) string {
	switch {
	case m.updating[rec.ID]:
		return tui.RecUpdating
	case rec.Status.IsComplete():
		return tui.RecComplete
	case rec.Status.Known():
		return tui.RecPending
	default:
		return tui.RecUnknown
	}
}

// View renders the recommendations view.
func (m RecommendationsModel) View() string {
	var b strings.Builder
	title := "Recommendations"
	if m.progressMode {
		title = "Your progress"
	}
	b.WriteString(tui.TitleStyle.Render(title))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " Loading recommendations...")
		return b.String()
	}

	snap := recommend.Progress(m.items)
	if m.progressMode {
		ratio := 0.0
		if snap.Total > 0 {
			ratio = float64(snap.Completed) / float64(snap.Total)
		}
		b.WriteString(m.bar.ViewAs(ratio))
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render(snap.String()))
		b.WriteString("\n\n")
	}

	if len(m.items) == 0 {
		b.WriteString(tui.DimStyle.Render("No recommendations available at this time."))
		b.WriteString("\n")
	}
	for i, rec := range m.items {
		line := fmt.Sprintf("%s %s", m.marker(rec), rec.Description)
		if m.updating[rec.ID] {
			line += tui.DimStyle.Render("  updating...")
		} else if !rec.Status.Known() {
			line += tui.DimStyle.Render(fmt.Sprintf("  (%s)", rec.Status))
		}
		if i == m.cursor {
			b.WriteString("❯ " + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.progressMode {
		b.WriteString("\n")
		switch {
		case m.fetching:
			b.WriteString(m.spinner.View() + " Gathering insights...")
			b.WriteString("\n")
		case m.insights != "":
			b.WriteString(tui.TitleStyle.Render("Insights"))
			b.WriteString("\n")
			b.WriteString(m.insights)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	hints := []string{"↑↓ move", "c complete", "r refresh", "o onboarding", "esc back"}
	if m.progressMode {
		hints = append(hints, "i insights")
	} else {
		hints = append(hints, "n progress")
	}
	b.WriteString(tui.DimStyle.Render(strings.Join(hints, " · ")))
	return b.String()
}

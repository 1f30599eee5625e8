package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincoach-dev/fincoach/internal/onboarding"
	"github.com/fincoach-dev/fincoach/internal/tui"
)

// ProfileModel is the demographic profile form.
type ProfileModel struct {
	form form
	busy bool
}

// NewProfileModel creates the profile form.
func NewProfileModel(width int) ProfileModel {
	return ProfileModel{
		form: newForm(fieldWidth(width),
			fieldSpec{label: "Full name"},
			fieldSpec{label: "Age", placeholder: "e.g. 34"},
			fieldSpec{label: "Sex"},
			fieldSpec{label: "Tax status", placeholder: "e.g. single, married filing jointly"},
			fieldSpec{label: "State"},
			fieldSpec{label: "City"},
		),
	}
}

// SetBusy disables submission while a request is in flight.
func (m *ProfileModel) SetBusy(busy bool) {
	m.busy = busy
}

// Init returns the initial command for the profile view.
func (m ProfileModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the profile view.
func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.form.setWidth(fieldWidth(msg.Width))
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, km.Escape) {
			return m, func() tea.Msg { return BackMsg{} }
		}
	}

	submit, cmd := m.form.update(msg)
	if !submit || m.busy {
		return m, cmd
	}
	in := onboarding.ProfileInput{
		FullName:  m.form.value(0),
		Age:       m.form.value(1),
		Sex:       m.form.value(2),
		TaxStatus: m.form.value(3),
		State:     m.form.value(4),
		City:      m.form.value(5),
	}
	return m, func() tea.Msg { return ProfileSubmitMsg{Input: in} }
}

// View renders the profile view.
func (m ProfileModel) View() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Tell us about yourself"))
	b.WriteString("\n\n")
	b.WriteString(m.form.view())
	if m.busy {
		b.WriteString(tui.WarningStyle.Render("Preparing your questions..."))
	} else {
		b.WriteString(tui.DimStyle.Render("Tab: next field · Enter on last field: submit · Esc: back"))
	}
	return b.String()
}

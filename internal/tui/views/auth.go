package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincoach-dev/fincoach/internal/tui"
)

// maxFieldWidth caps the width of text inputs.
const maxFieldWidth = 60

func fieldWidth(width int) int {
	if width-12 < maxFieldWidth {
		return max(width-12, 10)
	}
	return maxFieldWidth
}

// AuthModel is the login or registration form.
type AuthModel struct {
	register bool
	form     form
	busy     bool
}

// NewLoginModel creates the login form.
func NewLoginModel(width int) AuthModel {
	return AuthModel{
		form: newForm(fieldWidth(width),
			fieldSpec{label: "Email", placeholder: "you@example.com"},
			fieldSpec{label: "Password", secret: true},
		),
	}
}

// NewRegisterModel creates the registration form.
func NewRegisterModel(width int) AuthModel {
	return AuthModel{
		register: true,
		form: newForm(fieldWidth(width),
			fieldSpec{label: "Email", placeholder: "you@example.com"},
			fieldSpec{label: "Username"},
			fieldSpec{label: "Password", secret: true},
		),
	}
}

// SetBusy disables submission while a request is in flight.
func (m *AuthModel) SetBusy(busy bool) {
	m.busy = busy
}

// Init returns the initial command for the auth view.
func (m AuthModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the auth view.
func (m AuthModel) Update(msg tea.Msg) (AuthModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, km.Escape) {
			return m, func() tea.Msg { return BackMsg{} }
		}
	case tea.WindowSizeMsg:
		m.form.setWidth(fieldWidth(msg.Width))
		return m, nil
	}

	submit, cmd := m.form.update(msg)
	if !submit || m.busy {
		return m, cmd
	}
	if m.register {
		out := RegisterSubmitMsg{Email: m.form.value(0), Username: m.form.value(1), Password: m.form.rawValue(2)}
		return m, func() tea.Msg { return out }
	}
	out := LoginSubmitMsg{Email: m.form.value(0), Password: m.form.rawValue(1)}
	return m, func() tea.Msg { return out }
}

// View renders the auth view.
func (m AuthModel) View() string {
	var b strings.Builder
	title := "Log in"
	if m.register {
		title = "Create an account"
	}
	b.WriteString(tui.TitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.form.view())
	if m.busy {
		b.WriteString(tui.WarningStyle.Render("Submitting..."))
	} else {
		b.WriteString(tui.DimStyle.Render("Tab: next field · Enter on last field: submit · Esc: back"))
	}
	return b.String()
}

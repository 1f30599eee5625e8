package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincoach-dev/fincoach/internal/tui"
)

// fieldSpec describes one text field of a form.
type fieldSpec struct {
	label       string
	placeholder string
	secret      bool
}

type field struct {
	label string
	input textinput.Model
}

// form is a vertical stack of text inputs with a single focused field.
type form struct {
	fields []field
	focus  int
}

func newForm(width int, specs ...fieldSpec) form {
	f := form{fields: make([]field, len(specs))}
	for i, s := range specs {
		ti := textinput.New()
		ti.Placeholder = s.placeholder
		ti.CharLimit = 200
		ti.Width = width
		if s.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.fields[i] = field{label: s.label, input: ti}
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

// move shifts focus by delta, wrapping around.
func (f *form) move(delta int) {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

// onLast reports whether the last field has focus.
func (f *form) onLast() bool {
	return f.focus == len(f.fields)-1
}

// update routes navigation keys and forwards the rest to the focused input.
// It reports true when enter was pressed on the last field.
func (f *form) update(msg tea.Msg) (bool, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case tui.KeyTab, tui.KeyDown:
			f.move(1)
			return false, textinput.Blink
		case "shift+tab", tui.KeyUp:
			f.move(-1)
			return false, textinput.Blink
		case tui.KeyEnter:
			if f.onLast() {
				return true, nil
			}
			f.move(1)
			return false, textinput.Blink
		}
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return false, cmd
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

// rawValue returns the field text untrimmed, for passwords.
func (f *form) rawValue(i int) string {
	return f.fields[i].input.Value()
}

func (f *form) setWidth(w int) {
	for i := range f.fields {
		f.fields[i].input.Width = w
	}
}

func (f *form) view() string {
	var b strings.Builder
	for i, fl := range f.fields {
		label := tui.DimStyle.Render(fl.label)
		if i == f.focus {
			label = tui.SelectedStyle.Render(fl.label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(fl.input.View())
		b.WriteString("\n\n")
	}
	return b.String()
}

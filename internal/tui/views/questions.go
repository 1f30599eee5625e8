package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincoach-dev/fincoach/internal/onboarding"
	"github.com/fincoach-dev/fincoach/internal/tui"
)

// freeTextQuestion labels the single answer given in free-text mode.
const freeTextQuestion = "Tell us about your finances"

// QuestionsModel collects answers to the generated questions. It offers one
// input per question, or a single free-text answer toggled with ctrl+t. When
// no questions were parsed the fixed questionnaire takes their place.
type QuestionsModel struct {
	questions onboarding.QuestionSet
	preamble  string
	static    []onboarding.StaticQuestion

	form     form
	blob     textarea.Model
	freeText bool
	busy     bool
	width    int
}

// NewQuestionsModel creates the questionnaire view for questions.
func NewQuestionsModel(questions onboarding.QuestionSet, preamble string, width, height int) QuestionsModel {
	var static []onboarding.StaticQuestion
	specs := make([]fieldSpec, len(questions))
	for i, q := range questions {
		specs[i] = fieldSpec{label: fmt.Sprintf("%d. %s", i+1, q)}
	}
	if questions.Empty() {
		static = onboarding.StaticQuestions()
		specs = make([]fieldSpec, len(static))
		for i, q := range static {
			specs[i] = fieldSpec{label: q.Prompt, placeholder: q.Example}
		}
	}

	ta := textarea.New()
	ta.Placeholder = "Describe your income, savings, debts and goals..."
	ta.SetWidth(fieldWidth(width))
	ta.SetHeight(max(min(height-14, 10), 3))
	ta.ShowLineNumbers = false

	m := QuestionsModel{
		questions: questions,
		preamble:  preamble,
		static:    static,
		form:      newForm(fieldWidth(width), specs...),
		blob:      ta,
		width:     width,
	}
	return m
}

// SetBusy disables submission while a request is in flight.
func (m *QuestionsModel) SetBusy(busy bool) {
	m.busy = busy
}

// FreeText reports whether the single-answer mode is active.
func (m QuestionsModel) FreeText() bool {
	return m.freeText
}

// Static reports whether the fixed questionnaire stands in for generated
// questions.
func (m QuestionsModel) Static() bool {
	return len(m.static) > 0
}

// Init returns the initial command for the questions view.
func (m QuestionsModel) Init() tea.Cmd {
	if m.freeText {
		return textarea.Blink
	}
	return nil
}

// Update handles messages for the questions view.
func (m QuestionsModel) Update(msg tea.Msg) (QuestionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.form.setWidth(fieldWidth(msg.Width))
		m.blob.SetWidth(fieldWidth(msg.Width))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, km.Mode):
			m.freeText = !m.freeText
			if m.freeText {
				cmd := m.blob.Focus()
				return m, cmd
			}
			m.blob.Blur()
			return m, nil
		case key.Matches(msg, km.Submit):
			return m.submit()
		case key.Matches(msg, km.Escape):
			return m, func() tea.Msg { return BackMsg{} }
		}
	}

	if m.freeText {
		var cmd tea.Cmd
		m.blob, cmd = m.blob.Update(msg)
		return m, cmd
	}

	submit, cmd := m.form.update(msg)
	if submit {
		return m.submit()
	}
	return m, cmd
}

func (m QuestionsModel) submit() (QuestionsModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	if m.Static() && !m.freeText {
		out := m.collectStatic()
		return m, func() tea.Msg { return out }
	}
	out := m.collect()
	return m, func() tea.Msg { return out }
}

// collectStatic builds the fixed questionnaire submission. The user id is
// filled in by the app.
func (m QuestionsModel) collectStatic() StaticSubmitMsg {
	values := make(map[string]string, len(m.static))
	var answered []AnsweredQuestion
	for i, q := range m.static {
		v := m.form.value(i)
		values[q.Key] = v
		if v != "" {
			answered = append(answered, AnsweredQuestion{Index: i, Question: q.Prompt, Answer: v})
		}
	}
	return StaticSubmitMsg{
		Questionnaire: onboarding.StaticQuestionnaire{
			InvestmentGoal: values["investment_goal"],
			SavingsHabit:   values["savings_habit"],
			RiskTolerance:  values["risk_tolerance"],
		},
		Answered: answered,
	}
}

// collect builds the submission from whichever mode is active.
func (m QuestionsModel) collect() AnswersSubmitMsg {
	if m.freeText {
		text := m.blob.Value()
		question := freeTextQuestion
		if m.preamble != "" {
			question = m.preamble
		}
		return AnswersSubmitMsg{
			Answers:  onboarding.AnswerBlob(text),
			Answered: []AnsweredQuestion{{Index: 0, Question: question, Answer: strings.TrimSpace(text)}},
		}
	}

	answers := make(onboarding.AnswerMap, len(m.questions))
	var answered []AnsweredQuestion
	for i, q := range m.questions {
		v := m.form.value(i)
		answers.Set(i, v)
		if v != "" {
			answered = append(answered, AnsweredQuestion{Index: i, Question: q, Answer: v})
		}
	}
	return AnswersSubmitMsg{Answers: answers, Answered: answered}
}

// View renders the questions view.
func (m QuestionsModel) View() string {
	var b strings.Builder
	title := "A few questions"
	if m.Static() {
		title = "Onboarding questionnaire"
	}
	b.WriteString(tui.TitleStyle.Render(title))
	b.WriteString("\n")
	if m.preamble != "" {
		b.WriteString(tui.DimStyle.Render(m.preamble))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.Static() {
		b.WriteString(tui.WarningStyle.Render("No tailored questions were generated."))
		b.WriteString("\n\n")
	}

	if m.freeText {
		if !m.Static() {
			for i, q := range m.questions {
				fmt.Fprintf(&b, "%s\n", tui.DimStyle.Render(fmt.Sprintf("%d. %s", i+1, q)))
			}
			b.WriteString("\n")
		}
		b.WriteString(m.blob.View())
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.form.view())
	}

	switch {
	case m.busy:
		b.WriteString(tui.WarningStyle.Render("Analyzing your answers..."))
	case m.Static() && m.freeText:
		b.WriteString(tui.DimStyle.Render("Ctrl+S: submit · Ctrl+T: short questionnaire · Esc: back"))
	case m.freeText:
		b.WriteString(tui.DimStyle.Render("Ctrl+S: submit · Ctrl+T: one answer per question · Esc: back"))
	default:
		b.WriteString(tui.DimStyle.Render("Tab: next · Ctrl+S: submit · Ctrl+T: single answer · Esc: back"))
	}
	return b.String()
}

package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
)

// NotAvailable is shown in place of a missing structured field.
const NotAvailable = "Not available"

// Section is one titled block of rendered output.
type Section struct {
	Title string
	Body  string
}

// Sections flattens an Analysis into titled blocks. A narrative yields a
// single block. Missing fields read NotAvailable.
func Sections(a Analysis) []Section {
	switch v := a.(type) {
	case *Structured:
		return []Section{
			{Title: "Summary", Body: orNotAvailable(v.Summary)},
			{Title: "Investment Recommendation", Body: orNotAvailable(v.InvestmentRecommendation)},
			{Title: "Risk Score", Body: formatScore(v.RiskScore)},
		}
	case *Narrative:
		return []Section{{Title: "Analysis", Body: textOrNotAvailable(v.Text)}}
	case nil:
		return []Section{{Title: "Analysis", Body: NotAvailable}}
	default:
		panic(fmt.Sprintf("analysis: unhandled analysis kind %T", a))
	}
}

// PlanSections flattens a Plan into titled blocks.
func PlanSections(p Plan) []Section {
	switch v := p.(type) {
	case *StructuredPlan:
		return []Section{
			{Title: "Budget Plan", Body: orNotAvailable(v.BudgetPlan)},
			{Title: "Investment Strategy", Body: orNotAvailable(v.InvestmentStrategy)},
			{Title: "Retirement Plan", Body: orNotAvailable(v.RetirementPlan)},
			{Title: "Tax Plan", Body: orNotAvailable(v.TaxPlan)},
		}
	case *NarrativePlan:
		return []Section{{Title: "Financial Plan", Body: textOrNotAvailable(v.Text)}}
	case nil:
		return []Section{{Title: "Financial Plan", Body: NotAvailable}}
	default:
		panic(fmt.Sprintf("analysis: unhandled plan kind %T", p))
	}
}

func orNotAvailable(s *string) string {
	if s == nil {
		return NotAvailable
	}
	return textOrNotAvailable(*s)
}

func textOrNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return strings.TrimSpace(s)
}

func formatScore(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Markdown renders sections as a markdown document under heading.
func Markdown(heading string, sections []Section) string {
	var sb strings.Builder
	if heading != "" {
		sb.WriteString("## " + heading + "\n\n")
	}
	for _, s := range sections {
		sb.WriteString("### " + s.Title + "\n\n")
		sb.WriteString(s.Body + "\n\n")
	}
	return sb.String()
}

// Renderer turns sections into terminal text. With Styled set the markdown
// is rendered through glamour; otherwise plain text is produced.
type Renderer struct {
	Width  int
	Styled bool
}

// RenderAnalysis renders a for the terminal.
func (r Renderer) RenderAnalysis(a Analysis) string {
	return r.render("Analysis", Sections(a))
}

// RenderPlan renders p for the terminal.
func (r Renderer) RenderPlan(p Plan) string {
	return r.render("Financial Plan", PlanSections(p))
}

func (r Renderer) render(heading string, sections []Section) string {
	if r.Styled {
		if out, err := r.glamourize(Markdown(heading, sections)); err == nil {
			return out
		}
	}
	return Plain(sections)
}

func (r Renderer) glamourize(md string) (string, error) {
	width := r.Width
	if width <= 0 {
		width = 80
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return tr.Render(md)
}

// Plain renders sections as "Title:\n  body" blocks without styling.
func Plain(sections []Section) string {
	var sb strings.Builder
	for i, s := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(s.Title + ":\n")
		for _, line := range strings.Split(s.Body, "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}
	return sb.String()
}

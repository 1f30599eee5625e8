// Package analysis retrieves and renders the generated financial analysis
// and plan. Both come in two shapes, structured fields or free narrative
// text, modelled as closed sum types.
package analysis

import "github.com/fincoach-dev/fincoach/internal/api"

// Kind discriminates the two variants of Analysis and Plan.
type Kind string

const (
	KindStructured Kind = "structured"
	KindNarrative  Kind = "narrative"
)

// Analysis is either *Structured or *Narrative.
type Analysis interface {
	Kind() Kind
	isAnalysis()
}

// Structured is the stored per-user analysis. Any field may be missing.
type Structured struct {
	Summary                  *string
	InvestmentRecommendation *string
	RiskScore                *float64
}

func (*Structured) Kind() Kind  { return KindStructured }
func (*Structured) isAnalysis() {}

// Narrative is free text produced by the AI analysis endpoint.
type Narrative struct {
	Text string
}

func (*Narrative) Kind() Kind  { return KindNarrative }
func (*Narrative) isAnalysis() {}

// Plan is either *StructuredPlan or *NarrativePlan.
type Plan interface {
	Kind() Kind
	isPlan()
}

// StructuredPlan is the stored per-user financial plan.
type StructuredPlan struct {
	BudgetPlan         *string
	InvestmentStrategy *string
	RetirementPlan     *string
	TaxPlan            *string
}

func (*StructuredPlan) Kind() Kind { return KindStructured }
func (*StructuredPlan) isPlan()    {}

// NarrativePlan is a plan drafted as free text.
type NarrativePlan struct {
	Text string
}

func (*NarrativePlan) Kind() Kind { return KindNarrative }
func (*NarrativePlan) isPlan()    {}

// FromNarrative wraps the text returned by the AI analysis endpoint.
func FromNarrative(text string) Analysis {
	return &Narrative{Text: text}
}

func fromAnalysisResponse(r *api.AnalysisResponse) *Structured {
	return &Structured{
		Summary:                  r.Summary,
		InvestmentRecommendation: r.InvestmentRecommendation,
		RiskScore:                r.RiskScore,
	}
}

func fromPlanResponse(r *api.PlanResponse) *StructuredPlan {
	return &StructuredPlan{
		BudgetPlan:         r.BudgetPlan,
		InvestmentStrategy: r.InvestmentStrategy,
		RetirementPlan:     r.RetirementPlan,
		TaxPlan:            r.TaxPlan,
	}
}

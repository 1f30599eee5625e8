package analysis_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincoach-dev/fincoach/internal/analysis"
	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/testutil"
)

func newRetriever(t *testing.T) (*testutil.Backend, *analysis.Retriever) {
	t.Helper()
	b := testutil.NewBackend(t)
	return b, analysis.NewRetriever(api.NewClient(b.URL()), nil)
}

func TestFetchAnalysis_Structured(t *testing.T) {
	b, r := newRetriever(t)
	b.Analyses[1] = testutil.Analysis{Summary: "Healthy", InvestmentRecommendation: "Index funds", RiskScore: 4.5}

	a, err := r.FetchAnalysis(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, analysis.KindStructured, a.Kind())

	s, ok := a.(*analysis.Structured)
	require.True(t, ok)
	require.NotNil(t, s.RiskScore)
	assert.Equal(t, 4.5, *s.RiskScore)
}

func TestFetchAnalysis_NotFoundVersusFailure(t *testing.T) {
	b, r := newRetriever(t)

	_, err := r.FetchAnalysis(context.Background(), 1)
	assert.True(t, api.IsNotFound(err), "missing analysis: got %v", err)

	b.Fail("GET /api/analysis/{id}", http.StatusInternalServerError, "boom")
	_, err = r.FetchAnalysis(context.Background(), 1)
	assert.True(t, api.IsRequest(err), "500: got %v", err)
	assert.False(t, api.IsNotFound(err))
}

func TestFetchPlan(t *testing.T) {
	b, r := newRetriever(t)
	b.Plans[2] = testutil.Plan{BudgetPlan: "50/30/20", TaxPlan: "Max 401k"}

	p, err := r.FetchPlan(context.Background(), 2)
	require.NoError(t, err)
	sp := p.(*analysis.StructuredPlan)
	assert.Equal(t, "50/30/20", *sp.BudgetPlan)

	_, err = r.FetchPlan(context.Background(), 3)
	assert.True(t, api.IsNotFound(err))
}

func TestFetchOverview(t *testing.T) {
	b, r := newRetriever(t)
	b.Analyses[1] = testutil.Analysis{Summary: "ok"}
	b.Plans[1] = testutil.Plan{BudgetPlan: "b"}

	ov, err := r.FetchOverview(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, ov.Analysis)
	assert.NotNil(t, ov.Plan)
}

func TestFetchOverview_NotFoundWins(t *testing.T) {
	b, r := newRetriever(t)
	b.Plans[1] = testutil.Plan{BudgetPlan: "b"}
	b.Fail("GET /api/financial-plan/{id}", http.StatusInternalServerError, "down")

	_, err := r.FetchOverview(context.Background(), 1)
	assert.True(t, api.IsNotFound(err), "got %v", err)
}

func TestFetchOverview_RequestError(t *testing.T) {
	b, r := newRetriever(t)
	b.Analyses[1] = testutil.Analysis{Summary: "ok"}
	b.Fail("GET /api/financial-plan/{id}", http.StatusInternalServerError, "down")

	_, err := r.FetchOverview(context.Background(), 1)
	assert.True(t, api.IsRequest(err), "got %v", err)
}

func TestFetchOverview_PlanNotFoundWins(t *testing.T) {
	b, r := newRetriever(t)
	b.Fail("GET /api/analysis/{id}", http.StatusInternalServerError, "down")

	_, err := r.FetchOverview(context.Background(), 1)
	assert.True(t, api.IsNotFound(err), "got %v", err)
}

func TestFetchOverview_AnalysisFailureReportedFirst(t *testing.T) {
	b, r := newRetriever(t)
	b.Fail("GET /api/analysis/{id}", http.StatusInternalServerError, "analysis down")
	b.Fail("GET /api/financial-plan/{id}", http.StatusBadGateway, "plan down")

	for i := 0; i < 5; i++ {
		_, err := r.FetchOverview(context.Background(), 1)
		require.True(t, api.IsRequest(err), "got %v", err)
		assert.Equal(t, "analysis down", api.UserMessage(err))
	}
}

func TestGeneratePlan(t *testing.T) {
	b, r := newRetriever(t)

	p, err := r.GeneratePlan(context.Background(), "save more")
	require.NoError(t, err)
	assert.Equal(t, analysis.KindNarrative, p.Kind())
	assert.Equal(t, "Plan based on: save more", p.(*analysis.NarrativePlan).Text)

	_, err = r.GeneratePlan(context.Background(), "  ")
	assert.True(t, api.IsValidation(err))
	assert.Equal(t, 1, b.CallCount("POST /api/ai-financial-plan"))
}

func TestSections_MissingFields(t *testing.T) {
	secs := analysis.Sections(&analysis.Structured{})
	require.Len(t, secs, 3)
	for _, s := range secs {
		assert.Equal(t, analysis.NotAvailable, s.Body, s.Title)
	}

	secs = analysis.PlanSections(&analysis.StructuredPlan{})
	require.Len(t, secs, 4)
	for _, s := range secs {
		assert.Equal(t, analysis.NotAvailable, s.Body, s.Title)
	}
}

func TestSections_Narrative(t *testing.T) {
	secs := analysis.Sections(analysis.FromNarrative("  You are doing fine.  "))
	require.Len(t, secs, 1)
	assert.Equal(t, "You are doing fine.", secs[0].Body)

	secs = analysis.PlanSections(&analysis.NarrativePlan{})
	assert.Equal(t, analysis.NotAvailable, secs[0].Body)
}

func TestSections_Nil(t *testing.T) {
	assert.Equal(t, analysis.NotAvailable, analysis.Sections(nil)[0].Body)
	assert.Equal(t, analysis.NotAvailable, analysis.PlanSections(nil)[0].Body)
}

func TestRenderPlain(t *testing.T) {
	score := 7.0
	summary := "Line one\nLine two"
	out := analysis.Renderer{}.RenderAnalysis(&analysis.Structured{Summary: &summary, RiskScore: &score})

	assert.Contains(t, out, "Summary:\n  Line one\n  Line two\n")
	assert.Contains(t, out, "Risk Score:\n  7\n")
	assert.Contains(t, out, "Investment Recommendation:\n  Not available\n")
}

func TestRenderStyled(t *testing.T) {
	out := analysis.Renderer{Styled: true, Width: 60}.RenderPlan(&analysis.NarrativePlan{Text: "**Save** early"})
	assert.True(t, strings.Contains(out, "Save"), "styled output lost text: %q", out)
}

func TestMarkdown(t *testing.T) {
	md := analysis.Markdown("Plan", []analysis.Section{{Title: "Tax Plan", Body: "Max 401k"}})
	assert.Equal(t, "## Plan\n\n### Tax Plan\n\nMax 401k\n\n", md)
}

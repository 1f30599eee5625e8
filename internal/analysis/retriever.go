package analysis

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fincoach-dev/fincoach/internal/api"
)

// Backend is the slice of the backend client the Retriever needs.
type Backend interface {
	GetAnalysis(ctx context.Context, userID int) (*api.AnalysisResponse, error)
	GetFinancialPlan(ctx context.Context, userID int) (*api.PlanResponse, error)
	AIFinancialPlan(ctx context.Context, text string) (string, error)
}

// Retriever fetches analyses and plans. A 404 on either lookup surfaces as
// an api NotFound error, meaning the user has not finished onboarding.
type Retriever struct {
	backend Backend
	logger  *zap.Logger
}

// NewRetriever creates a Retriever. A nil logger discards output.
func NewRetriever(backend Backend, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{backend: backend, logger: logger}
}

// FetchAnalysis returns the stored structured analysis for userID.
func (r *Retriever) FetchAnalysis(ctx context.Context, userID int) (Analysis, error) {
	resp, err := r.backend.GetAnalysis(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch analysis: %w", err)
	}
	return fromAnalysisResponse(resp), nil
}

// FetchPlan returns the stored structured plan for userID.
func (r *Retriever) FetchPlan(ctx context.Context, userID int) (Plan, error) {
	resp, err := r.backend.GetFinancialPlan(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch plan: %w", err)
	}
	return fromPlanResponse(resp), nil
}

// GeneratePlan asks the backend to draft a narrative plan from analysis
// text. Used when the ai source is configured.
func (r *Retriever) GeneratePlan(ctx context.Context, analysisText string) (Plan, error) {
	if strings.TrimSpace(analysisText) == "" {
		return nil, api.NewValidationError("no analysis to build a plan from")
	}
	text, err := r.backend.AIFinancialPlan(ctx, analysisText)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	return &NarrativePlan{Text: text}, nil
}

// Overview is an analysis and plan fetched together.
type Overview struct {
	Analysis Analysis
	Plan     Plan
}

// FetchOverview fetches the analysis and plan concurrently. A NotFound from
// either lookup cancels the other and is returned; otherwise an analysis
// failure is reported ahead of a plan failure.
func (r *Retriever) FetchOverview(ctx context.Context, userID int) (*Overview, error) {
	var (
		ov                   Overview
		analysisErr, planErr error
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		ov.Analysis, analysisErr = r.FetchAnalysis(egCtx, userID)
		if api.IsNotFound(analysisErr) {
			return analysisErr
		}
		return nil
	})
	eg.Go(func() error {
		ov.Plan, planErr = r.FetchPlan(egCtx, userID)
		if api.IsNotFound(planErr) {
			return planErr
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if err := cmp.Or(analysisErr, planErr); err != nil {
		r.logger.Warn("overview fetch failed",
			zap.Int("user_id", userID),
			zap.NamedError("analysis_error", analysisErr),
			zap.NamedError("plan_error", planErr))
		return nil, err
	}
	return &ov, nil
}

package onboarding

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fincoach-dev/fincoach/internal/api"
)

// StaticQuestion is one entry of the fixed questionnaire used when the
// backend supplies no dynamic questions.
type StaticQuestion struct {
	Key     string
	Prompt  string
	Example string
}

// StaticQuestions returns the fixed questionnaire in display order.
func StaticQuestions() []StaticQuestion {
	return []StaticQuestion{
		{Key: "investment_goal", Prompt: "Investment goal", Example: "E.g., Retirement, Wealth Growth"},
		{Key: "savings_habit", Prompt: "Savings habit", Example: "E.g., Consistent, Irregular"},
		{Key: "risk_tolerance", Prompt: "Risk tolerance", Example: "E.g., High, Medium, Low"},
	}
}

// StaticQuestionnaire holds the answers to StaticQuestions.
type StaticQuestionnaire struct {
	UserID         int
	InvestmentGoal string
	SavingsHabit   string
	RiskTolerance  string
}

// QuestionnaireBackend is the slice of the backend client the Collector needs.
type QuestionnaireBackend interface {
	AIAnalysis(ctx context.Context, in api.AIAnalysisRequest) (string, error)
	SubmitQuestionnaire(ctx context.Context, in api.QuestionnaireRequest) error
}

// Collector consolidates answers and submits them for analysis.
type Collector struct {
	backend QuestionnaireBackend
	logger  *zap.Logger
}

// NewCollector creates a Collector. A nil logger discards output.
func NewCollector(backend QuestionnaireBackend, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{backend: backend, logger: logger}
}

// SubmitAnswers consolidates answers and posts them for userID. It returns
// the narrative analysis produced by the backend. A blank payload is a
// Validation error and is not sent.
func (c *Collector) SubmitAnswers(ctx context.Context, userID int, answers Answers) (string, error) {
	if answers == nil {
		return "", api.NewValidationError("no answers provided")
	}
	payload := answers.Consolidate()
	if payload == "" {
		return "", api.NewValidationError("answer at least one question before submitting")
	}

	text, err := c.backend.AIAnalysis(ctx, api.AIAnalysisRequest{UserID: userID, Answers: payload})
	if err != nil {
		return "", fmt.Errorf("submit answers: %w", err)
	}

	c.logger.Info("answers submitted",
		zap.Int("user_id", userID),
		zap.Int("payload_bytes", len(payload)))
	return text, nil
}

// SubmitStatic posts the fixed questionnaire. All three answers are required.
func (c *Collector) SubmitStatic(ctx context.Context, q StaticQuestionnaire) error {
	values := map[string]string{
		"investment_goal": q.InvestmentGoal,
		"savings_habit":   q.SavingsHabit,
		"risk_tolerance":  q.RiskTolerance,
	}
	for _, sq := range StaticQuestions() {
		if strings.TrimSpace(values[sq.Key]) == "" {
			return api.NewValidationError("%s is required", strings.ReplaceAll(sq.Key, "_", " "))
		}
	}

	err := c.backend.SubmitQuestionnaire(ctx, api.QuestionnaireRequest{
		UserID:         q.UserID,
		InvestmentGoal: strings.TrimSpace(q.InvestmentGoal),
		SavingsHabit:   strings.TrimSpace(q.SavingsHabit),
		RiskTolerance:  strings.TrimSpace(q.RiskTolerance),
	})
	if err != nil {
		return fmt.Errorf("submit questionnaire: %w", err)
	}
	c.logger.Info("static questionnaire submitted", zap.Int("user_id", q.UserID))
	return nil
}

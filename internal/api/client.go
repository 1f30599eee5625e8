// Package api is the HTTP client for the advisory backend. Every call maps
// failures onto the Error taxonomy in errors.go; nothing is retried.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// maxDetailLen caps how much of a non-JSON error body is surfaced as detail.
const maxDetailLen = 300

// Client talks to the advisory backend over JSON/HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger attaches a zap logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client rooted at baseURL (e.g. "http://127.0.0.1:8000").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request describes one backend call.
type request struct {
	method string
	path   string
	body   any
	// lookup marks per-user lookups where 404 means "not onboarded yet"
	// rather than a generic failure.
	lookup bool
}

// doJSON performs r and decodes a 2xx body into T. An empty 2xx body yields
// the zero T.
func doJSON[T any](ctx context.Context, c *Client, r request) (T, error) {
	var zero T
	start := time.Now()

	var reader io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return zero, NewTransportError(fmt.Errorf("marshal request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reader)
	if err != nil {
		return zero, NewTransportError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend unreachable",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Error(err))
		return zero, NewTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, NewTransportError(fmt.Errorf("read response body: %w", err))
	}

	c.logger.Debug("backend call",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := extractDetail(respBody, resp.StatusCode)
		if r.lookup && resp.StatusCode == http.StatusNotFound {
			return zero, NewNotFoundError(detail)
		}
		c.logger.Warn("backend rejected request",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail))
		return zero, NewRequestError(resp.StatusCode, detail)
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return zero, nil
	}

	var result T
	if err := json.Unmarshal(respBody, &result); err != nil {
		return zero, NewTransportError(fmt.Errorf("decode %s %s response: %w", r.method, r.path, err))
	}
	return result, nil
}

// extractDetail pulls the backend's {detail} text out of an error body.
// Non-string details (validation error lists) are kept as raw JSON; bodies
// without a detail fall back to their text or the HTTP status text.
func extractDetail(body []byte, status int) string {
	var eb struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &eb); err == nil {
		raw := bytes.TrimSpace(eb.Detail)
		if len(raw) > 0 && string(raw) != "null" {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				return s
			}
			return string(raw)
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return http.StatusText(status)
	}
	if len(text) > maxDetailLen {
		text = text[:maxDetailLen] + "..."
	}
	return text
}

// ============================================================================
// Endpoints
// ============================================================================

// Register creates an account.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*UserResponse, error) {
	out, err := doJSON[UserResponse](ctx, c, request{method: http.MethodPost, path: "/api/register", body: in})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and returns the account identity.
func (c *Client) Login(ctx context.Context, in LoginRequest) (*UserResponse, error) {
	out, err := doJSON[UserResponse](ctx, c, request{method: http.MethodPost, path: "/api/login", body: in})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Onboarding submits the profile and returns the numbered question text.
func (c *Client) Onboarding(ctx context.Context, in ProfileRequest) (string, error) {
	out, err := doJSON[NarrativeResponse](ctx, c, request{method: http.MethodPost, path: "/api/ai-onboarding", body: in})
	if err != nil {
		return "", err
	}
	return out.Response, nil
}

// SubmitQuestionnaire posts the static three-question questionnaire.
func (c *Client) SubmitQuestionnaire(ctx context.Context, in QuestionnaireRequest) error {
	_, err := doJSON[json.RawMessage](ctx, c, request{method: http.MethodPost, path: "/api/questionnaire", body: in})
	return err
}

// AIAnalysis posts consolidated answers and returns the generated narrative.
func (c *Client) AIAnalysis(ctx context.Context, in AIAnalysisRequest) (string, error) {
	out, err := doJSON[NarrativeResponse](ctx, c, request{method: http.MethodPost, path: "/api/ai-analysis", body: in})
	if err != nil {
		return "", err
	}
	return out.Response, nil
}

// GetAnalysis fetches the stored analysis for userID. 404 is NotFound.
func (c *Client) GetAnalysis(ctx context.Context, userID int) (*AnalysisResponse, error) {
	out, err := doJSON[AnalysisResponse](ctx, c, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/analysis/%d", userID),
		lookup: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFinancialPlan fetches the stored plan for userID. 404 is NotFound.
func (c *Client) GetFinancialPlan(ctx context.Context, userID int) (*PlanResponse, error) {
	out, err := doJSON[PlanResponse](ctx, c, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/financial-plan/%d", userID),
		lookup: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AIFinancialPlan asks the backend to draft a narrative plan from text.
func (c *Client) AIFinancialPlan(ctx context.Context, text string) (string, error) {
	out, err := doJSON[NarrativeResponse](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/ai-financial-plan",
		body:   NarrativeRequest{Response: text},
	})
	if err != nil {
		return "", err
	}
	return out.Response, nil
}

// AIProgress asks the backend for narrative insights about progress.
func (c *Client) AIProgress(ctx context.Context, summary string) (string, error) {
	out, err := doJSON[NarrativeResponse](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/ai-progress",
		body:   NarrativeRequest{Response: summary},
	})
	if err != nil {
		return "", err
	}
	return out.Response, nil
}

// ListRecommendations fetches every recommendation for userID.
func (c *Client) ListRecommendations(ctx context.Context, userID int) ([]RecommendationDTO, error) {
	out, err := doJSON[[]RecommendationDTO](ctx, c, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/recommendations/%d", userID),
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []RecommendationDTO{}
	}
	return out, nil
}

// UpdateRecommendation sets the status of recommendation id and returns the
// server's copy.
func (c *Client) UpdateRecommendation(ctx context.Context, id int, status string) (*RecommendationDTO, error) {
	out, err := doJSON[RecommendationDTO](ctx, c, request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/recommendations/%d", id),
		body:   StatusUpdate{Status: status},
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

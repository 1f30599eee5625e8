// Package testutil provides test helper utilities for fincoach tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// Recommendation mirrors the backend's recommendation JSON.
type Recommendation struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Analysis mirrors GET /api/analysis/{id}. Zero fields are omitted.
type Analysis struct {
	Summary                  string  `json:"summary,omitempty"`
	InvestmentRecommendation string  `json:"investment_recommendation,omitempty"`
	RiskScore                float64 `json:"risk_score,omitempty"`
}

// Plan mirrors GET /api/financial-plan/{id}.
type Plan struct {
	BudgetPlan         string `json:"budget_plan,omitempty"`
	InvestmentStrategy string `json:"investment_strategy,omitempty"`
	RetirementPlan     string `json:"retirement_plan,omitempty"`
	TaxPlan            string `json:"tax_plan,omitempty"`
}

// Call is one request the fake backend received.
type Call struct {
	Route  string // mux pattern, e.g. "PUT /api/recommendations/{id}"
	Method string
	Path   string
	Body   string
}

type failure struct {
	status int
	body   string
}

type account struct {
	id       int
	email    string
	username string
	password string
}

// Backend is an in-memory stand-in for the advisory REST backend.
// Zero-value maps are ready to use; tests seed them before issuing calls.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	accounts []account
	calls    []Call
	failures map[string]failure

	QuestionText    string
	AnalysisText    string
	Analyses        map[int]Analysis
	Plans           map[int]Plan
	Recommendations map[int][]Recommendation
}

// NewBackend starts a fake backend that is closed when the test finishes.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		failures:        make(map[string]failure),
		QuestionText:    "1. What is your monthly income? 2. Do you carry any debt?",
		AnalysisText:    "You save consistently and can take moderate risk.",
		Analyses:        make(map[int]Analysis),
		Plans:           make(map[int]Plan),
		Recommendations: make(map[int][]Recommendation),
	}

	mux := http.NewServeMux()
	b.handle(mux, "POST /api/register", b.register)
	b.handle(mux, "POST /api/login", b.login)
	b.handle(mux, "POST /api/ai-onboarding", b.narrative(func(string) string { return b.QuestionText }))
	b.handle(mux, "POST /api/questionnaire", b.ack)
	b.handle(mux, "POST /api/ai-analysis", b.narrative(func(string) string { return b.AnalysisText }))
	b.handle(mux, "GET /api/analysis/{id}", b.getAnalysis)
	b.handle(mux, "GET /api/financial-plan/{id}", b.getPlan)
	b.handle(mux, "POST /api/ai-financial-plan", b.narrative(func(in string) string { return "Plan based on: " + in }))
	b.handle(mux, "POST /api/ai-progress", b.narrative(func(in string) string { return "Insights for: " + in }))
	b.handle(mux, "GET /api/recommendations/{id}", b.listRecommendations)
	b.handle(mux, "PUT /api/recommendations/{id}", b.updateRecommendation)

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL of the fake backend.
func (b *Backend) URL() string {
	return b.Server.URL
}

// AddUser seeds an account and returns its id.
func (b *Backend) AddUser(email, username, password string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := len(b.accounts) + 1
	b.accounts = append(b.accounts, account{id: id, email: email, username: username, password: password})
	return id
}

// Fail makes every request to route answer with status and a {detail} body.
func (b *Backend) Fail(route string, status int, detail string) {
	body, _ := json.Marshal(map[string]string{"detail": detail})
	b.FailRaw(route, status, string(body))
}

// FailRaw makes every request to route answer with status and body verbatim.
func (b *Backend) FailRaw(route string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = failure{status: status, body: body}
}

// Recover clears a failure installed with Fail.
func (b *Backend) Recover(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, route)
}

// Calls returns every request received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// CallCount returns how many requests hit route.
func (b *Backend) CallCount(route string) int {
	n := 0
	for _, c := range b.Calls() {
		if c.Route == route {
			n++
		}
	}
	return n
}

// LastBody returns the body of the most recent request to route.
func (b *Backend) LastBody(route string) string {
	calls := b.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Route == route {
			return calls[i].Body
		}
	}
	return ""
}

// handle registers fn under pattern, recording calls and applying failures.
func (b *Backend) handle(mux *http.ServeMux, pattern string, fn func(w http.ResponseWriter, r *http.Request, body []byte)) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		b.mu.Lock()
		b.calls = append(b.calls, Call{Route: pattern, Method: r.Method, Path: r.URL.Path, Body: string(body)})
		f, failing := b.failures[pattern]
		b.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
			return
		}
		fn(w, r, body)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (b *Backend) register(w http.ResponseWriter, _ *http.Request, body []byte) {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	b.mu.Lock()
	for _, a := range b.accounts {
		if a.email == req.Email || a.username == req.Username {
			b.mu.Unlock()
			writeDetail(w, http.StatusBadRequest, "Email or username already registered")
			return
		}
	}
	b.mu.Unlock()

	id := b.AddUser(req.Email, req.Username, req.Password)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "email": req.Email, "username": req.Username})
}

func (b *Backend) login(w http.ResponseWriter, _ *http.Request, body []byte) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.accounts {
		if a.email == req.Email && a.password == req.Password {
			writeJSON(w, http.StatusOK, map[string]any{"id": a.id, "email": a.email, "username": a.username})
			return
		}
	}
	writeDetail(w, http.StatusBadRequest, "Incorrect email or password")
}

func (b *Backend) narrative(reply func(in string) string) func(http.ResponseWriter, *http.Request, []byte) {
	return func(w http.ResponseWriter, _ *http.Request, body []byte) {
		var req struct {
			Response string `json:"response"`
		}
		_ = json.Unmarshal(body, &req)
		b.mu.Lock()
		text := reply(req.Response)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"response": text})
	}
}

func (b *Backend) ack(w http.ResponseWriter, _ *http.Request, _ []byte) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Questionnaire submitted"})
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, fmt.Errorf("bad id %q", r.PathValue("id"))
	}
	return id, nil
}

func (b *Backend) getAnalysis(w http.ResponseWriter, r *http.Request, _ []byte) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	b.mu.Lock()
	a, ok := b.Analyses[id]
	b.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Questionnaire not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (b *Backend) getPlan(w http.ResponseWriter, r *http.Request, _ []byte) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	b.mu.Lock()
	p, ok := b.Plans[id]
	b.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Financial plan not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) listRecommendations(w http.ResponseWriter, r *http.Request, _ []byte) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	b.mu.Lock()
	recs := append([]Recommendation{}, b.Recommendations[id]...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, recs)
}

func (b *Backend) updateRecommendation(w http.ResponseWriter, r *http.Request, body []byte) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for user, recs := range b.Recommendations {
		for i := range recs {
			if recs[i].ID == id {
				b.Recommendations[user][i].Status = req.Status
				writeJSON(w, http.StatusOK, b.Recommendations[user][i])
				return
			}
		}
	}
	writeDetail(w, http.StatusNotFound, "Recommendation not found")
}

package api

// Wire shapes for the advisory backend. Field names follow the backend's
// snake_case JSON.

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is returned by register and login.
type UserResponse struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// ProfileRequest is the body of POST /api/ai-onboarding.
type ProfileRequest struct {
	FullName  string `json:"full_name"`
	Age       int    `json:"age"`
	Sex       string `json:"sex"`
	TaxStatus string `json:"tax_status"`
	State     string `json:"state"`
	City      string `json:"city"`
}

// QuestionnaireRequest is the body of POST /api/questionnaire.
type QuestionnaireRequest struct {
	UserID         int    `json:"user_id"`
	InvestmentGoal string `json:"investment_goal"`
	SavingsHabit   string `json:"savings_habit"`
	RiskTolerance  string `json:"risk_tolerance"`
}

// AIAnalysisRequest is the body of POST /api/ai-analysis.
type AIAnalysisRequest struct {
	UserID  int    `json:"user_id"`
	Answers string `json:"answers"`
}

// NarrativeRequest is the body of the ai-financial-plan and ai-progress calls.
type NarrativeRequest struct {
	Response string `json:"response"`
}

// NarrativeResponse carries free text generated by the backend.
type NarrativeResponse struct {
	Response string `json:"response"`
}

// AnalysisResponse is returned by GET /api/analysis/{userId}. Every field is
// optional on the wire.
type AnalysisResponse struct {
	Summary                  *string  `json:"summary"`
	InvestmentRecommendation *string  `json:"investment_recommendation"`
	RiskScore                *float64 `json:"risk_score"`
}

// PlanResponse is returned by GET /api/financial-plan/{userId}.
type PlanResponse struct {
	BudgetPlan         *string `json:"budget_plan"`
	InvestmentStrategy *string `json:"investment_strategy"`
	RetirementPlan     *string `json:"retirement_plan"`
	TaxPlan            *string `json:"tax_plan"`
}

// RecommendationDTO is one entry of GET /api/recommendations/{userId} and the
// echo of PUT /api/recommendations/{id}.
type RecommendationDTO struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// StatusUpdate is the body of PUT /api/recommendations/{id}.
type StatusUpdate struct {
	Status string `json:"status"`
}

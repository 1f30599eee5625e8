// Package flow sequences the client's stages. It gates authenticated stages
// on the session, guards against applying results from a stage the user has
// left, and owns the deferred redirect that follows a login.
package flow

// Stage is one step of the onboarding-to-recommendation sequence.
type Stage int

const (
	StageLanding Stage = iota
	StageRegister
	StageLogin
	StageProfile
	StageQuestions
	StageAnalysis
	StagePlan
	StageRecommendations
	StageProgress
)

var stageNames = map[Stage]string{
	StageLanding:         "landing",
	StageRegister:        "register",
	StageLogin:           "login",
	StageProfile:         "profile",
	StageQuestions:       "questions",
	StageAnalysis:        "analysis",
	StagePlan:            "plan",
	StageRecommendations: "recommendations",
	StageProgress:        "progress",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// RequiresAuth reports whether the stage is only open to logged-in users.
func (s Stage) RequiresAuth() bool {
	return s >= StageProfile
}

// Stages returns every stage in sequence order.
func Stages() []Stage {
	return []Stage{
		StageLanding, StageRegister, StageLogin, StageProfile, StageQuestions,
		StageAnalysis, StagePlan, StageRecommendations, StageProgress,
	}
}

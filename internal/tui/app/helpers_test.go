package app

import "github.com/fincoach-dev/fincoach/internal/onboarding"

func validProfile() onboarding.ProfileInput {
	return onboarding.ProfileInput{
		FullName:  "Ana Silva",
		Age:       "34",
		Sex:       "female",
		TaxStatus: "single",
		State:     "CA",
		City:      "Oakland",
	}
}

func onboardingAnswers() onboarding.AnswerMap {
	return onboarding.AnswerMap{0: "4000 a month", 1: "No debt"}
}

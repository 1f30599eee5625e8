// Package onboarding turns a user's profile and answers into backend
// submissions: the profile yields a numbered question block, the answers
// are consolidated into a single text payload for analysis.
package onboarding

import (
	"regexp"
	"strings"
)

// QuestionSet is the ordered list of questions parsed from the backend's
// numbered free text.
type QuestionSet []string

// Len returns the number of questions.
func (q QuestionSet) Len() int { return len(q) }

// Empty reports whether there are no questions to answer.
func (q QuestionSet) Empty() bool { return len(q) == 0 }

// questionMarker matches a numbered item prefix such as "1. " or "12.\n".
var questionMarker = regexp.MustCompile(`\d+\.\s+`)

// ParseQuestions splits text on numbered markers. Every non-empty trimmed
// segment that follows a marker is a question, in original order. Text
// before the first marker is not a question; see Preamble.
// Empty or unnumbered input yields an empty set.
func ParseQuestions(text string) QuestionSet {
	locs := questionMarker.FindAllStringIndex(text, -1)
	questions := make(QuestionSet, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		q := strings.TrimSpace(text[loc[1]:end])
		if q != "" {
			questions = append(questions, q)
		}
	}
	return questions
}

// Preamble returns the trimmed text before the first numbered marker, or
// the whole trimmed text when there is no marker.
func Preamble(text string) string {
	loc := questionMarker.FindStringIndex(text)
	if loc == nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[:loc[0]])
}

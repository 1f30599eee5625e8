package onboarding

import (
	"sort"
	"strings"
)

// Answers is anything the Collector can consolidate into one payload.
// AnswerMap and AnswerBlob are the two accepted modes.
type Answers interface {
	Consolidate() string
}

// AnswerMap holds one answer per question, keyed by 0-based question index.
// Indices may have gaps; unanswered questions are simply absent.
type AnswerMap map[int]string

// Consolidate joins the non-blank answers in ascending index order with a
// single space. No placeholder is emitted for missing indices.
func (m AnswerMap) Consolidate() string {
	indices := make([]int, 0, len(m))
	for i := range m {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	parts := make([]string, 0, len(indices))
	for _, i := range indices {
		if v := strings.TrimSpace(m[i]); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// Set records the answer for question i.
func (m AnswerMap) Set(i int, answer string) {
	m[i] = answer
}

// Answered returns how many questions carry a non-blank answer.
func (m AnswerMap) Answered() int {
	n := 0
	for _, v := range m {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// AnswerBlob is a single free-text answer covering the whole question set.
type AnswerBlob string

// Consolidate returns the trimmed blob.
func (b AnswerBlob) Consolidate() string {
	return strings.TrimSpace(string(b))
}

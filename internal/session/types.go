// Package session holds the in-process authentication state and the
// SQLite journal of past client sessions.
package session

import "time"

// Session is one logged-in run of the client as recorded in the journal.
type Session struct {
	ID        string
	UserID    int
	Username  string
	Status    string // active, closed
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Answer is one questionnaire answer submitted during a session.
type Answer struct {
	ID        int
	SessionID string
	Index     int
	Question  string
	Answer    string
	Timestamp time.Time
}

// RecommendationState is the last known status of a recommendation the
// user acted on during a session.
type RecommendationState struct {
	ID               int
	SessionID        string
	RecommendationID int
	Description      string
	Status           string
	UpdatedAt        time.Time
}

// Summary provides a high-level view of a session for listing.
type Summary struct {
	ID        string
	Username  string
	Status    string
	Answers   int
	Completed int
	UpdatedAt time.Time
}

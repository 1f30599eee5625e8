package session

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// Store is the SQLite journal of sessions, answers and recommendation
// updates. It never restores authentication.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database at dbPath and creates tables if they don't exist.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		username TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		question_index INTEGER NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE TABLE IF NOT EXISTS recommendations_state (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		recommendation_id INTEGER NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);
	`
	_, err := db.Exec(schema)
	return err
}

// OpenSession records a new active session for a logged-in user.
func (s *Store) OpenSession(userID int, username string) (*Session, error) {
	id := uuid.New().String()
	now := time.Now()

	_, err := s.db.Exec(
		`INSERT INTO sessions (id, user_id, username, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, username, StatusActive, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return &Session{
		ID:        id,
		UserID:    userID,
		Username:  username,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetSession retrieves a session by ID. It returns nil when there is none.
func (s *Store) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, username, status, created_at, updated_at
		 FROM sessions WHERE id = ?`,
		id,
	)
	return scanSession(row)
}

// CloseSession marks a session closed, as on logout.
func (s *Store) CloseSession(id string) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET status = ?, updated_at = ? WHERE id = ?`,
		StatusClosed, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}

// GetLatestActive returns the most recently updated active session for userID.
func (s *Store) GetLatestActive(userID int) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, username, status, created_at, updated_at
		 FROM sessions
		 WHERE user_id = ? AND status = ?
		 ORDER BY updated_at DESC
		 LIMIT 1`,
		userID, StatusActive,
	)
	return scanSession(row)
}

func scanSession(row *sql.Row) (*Session, error) {
	var sess Session
	err := row.Scan(&sess.ID, &sess.UserID, &sess.Username, &sess.Status, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return &sess, nil
}

// ListSessions returns summaries of the most recent sessions.
func (s *Store) ListSessions(limit int) ([]Summary, error) {
	rows, err := s.db.Query(
		`SELECT s.id, s.username, s.status, s.updated_at,
		        (SELECT COUNT(*) FROM answers a WHERE a.session_id = s.id) AS answers,
		        (SELECT COUNT(*) FROM recommendations_state r
		          WHERE r.session_id = s.id AND r.status = 'complete') AS completed
		 FROM sessions s
		 ORDER BY s.updated_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Username, &sum.Status, &sum.UpdatedAt, &sum.Answers, &sum.Completed); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return summaries, nil
}

// SaveAnswer records the answer to question index within a session.
func (s *Store) SaveAnswer(sessionID string, index int, question, answer string) error {
	_, err := s.db.Exec(
		`INSERT INTO answers (session_id, question_index, question, answer, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		sessionID, index, question, answer, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	s.touch(sessionID)
	return nil
}

// GetAnswers retrieves all answers for a session in question order.
func (s *Store) GetAnswers(sessionID string) ([]Answer, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, question_index, question, answer, timestamp
		 FROM answers
		 WHERE session_id = ?
		 ORDER BY question_index ASC, id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var answers []Answer
	for rows.Next() {
		var ans Answer
		if err := rows.Scan(&ans.ID, &ans.SessionID, &ans.Index, &ans.Question, &ans.Answer, &ans.Timestamp); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, ans)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return answers, nil
}

// RecordRecommendation updates or inserts the status of a recommendation.
func (s *Store) RecordRecommendation(sessionID string, recommendationID int, description, status string) error {
	now := time.Now()

	// Try to update existing record first
	result, err := s.db.Exec(
		`UPDATE recommendations_state
		 SET description = ?, status = ?, updated_at = ?
		 WHERE session_id = ? AND recommendation_id = ?`,
		description, status, now, sessionID, recommendationID,
	)
	if err != nil {
		return fmt.Errorf("update recommendation state: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		_, err = s.db.Exec(
			`INSERT INTO recommendations_state (session_id, recommendation_id, description, status, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			sessionID, recommendationID, description, status, now,
		)
		if err != nil {
			return fmt.Errorf("insert recommendation state: %w", err)
		}
	}

	s.touch(sessionID)
	return nil
}

// GetRecommendationStates retrieves every recommendation update for a session.
func (s *Store) GetRecommendationStates(sessionID string) ([]RecommendationState, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, recommendation_id, description, status, updated_at
		 FROM recommendations_state
		 WHERE session_id = ?
		 ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query recommendation states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var states []RecommendationState
	for rows.Next() {
		var st RecommendationState
		if err := rows.Scan(&st.ID, &st.SessionID, &st.RecommendationID, &st.Description, &st.Status, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recommendation state: %w", err)
		}
		states = append(states, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return states, nil
}

// touch bumps a session's updated_at. Failures are ignored; the journal
// entry itself was already written.
func (s *Store) touch(sessionID string) {
	_, _ = s.db.Exec(`UPDATE sessions SET updated_at = ? WHERE id = ?`, time.Now(), sessionID)
}

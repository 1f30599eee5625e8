// Package log records the user's journey as JSON lines in events.jsonl and
// builds the zap process logger.
package log

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Event type constants.
const (
	EventLoginSucceeded          = "login_succeeded"
	EventLogout                  = "logout"
	EventProfileSubmitted        = "profile_submitted"
	EventAnswersSubmitted        = "answers_submitted"
	EventAnalysisFetched         = "analysis_fetched"
	EventPlanFetched             = "plan_fetched"
	EventRecommendationsListed   = "recommendations_listed"
	EventRecommendationCompleted = "recommendation_completed"
	EventRequestFailed           = "request_failed"
)

// LogEvent represents a single structured event written to the log.
type LogEvent struct {
	Time             time.Time              `json:"time"`
	Event            string                 `json:"event"`
	UserID           int                    `json:"user_id,omitempty"`
	Username         string                 `json:"username,omitempty"`
	Stage            string                 `json:"stage,omitempty"`
	Questions        int                    `json:"questions,omitempty"`
	RecommendationID int                    `json:"recommendation_id,omitempty"`
	Completed        int                    `json:"completed,omitempty"`
	Total            int                    `json:"total,omitempty"`
	Kind             string                 `json:"kind,omitempty"`
	Error            string                 `json:"error,omitempty"`
	DurationMs       int64                  `json:"duration_ms,omitempty"`
	Data             map[string]interface{} `json:"data,omitempty"`
}

const eventsFile = "events.jsonl"

// Logger is the journey event log. A nil *Logger discards appends.
type Logger struct {
	path string
	mu   sync.Mutex
}

// NewLogger opens the event log in dir, creating dir if needed.
func NewLogger(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create event log directory: %w", err)
	}
	return &Logger{path: filepath.Join(dir, eventsFile)}, nil
}

// Append writes event as one line, stamping a zero Time with the current
// UTC time.
func (l *Logger) Append(event LogEvent) error {
	if l == nil {
		return nil
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Event, err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("write event %s: %w", event.Event, err)
	}
	return f.Close()
}

// Query selects events. Zero fields match everything.
type Query struct {
	UserID int
	Events []string
	Since  time.Time
}

func (q Query) matches(e LogEvent) bool {
	if q.UserID != 0 && e.UserID != q.UserID {
		return false
	}
	if len(q.Events) > 0 && !slices.Contains(q.Events, e.Event) {
		return false
	}
	return q.Since.IsZero() || !e.Time.Before(q.Since)
}

// Read returns the events matching q in the order they were written. A
// missing log yields no events. A final line without a newline is a write
// cut short and is ignored; any other malformed line is an error.
func (l *Logger) Read(q Query) ([]LogEvent, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []LogEvent{}, nil
		}
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	events := []LogEvent{}
	r := bufio.NewReader(f)
	for lineNum := 1; ; lineNum++ {
		line, readErr := r.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("read event log: %w", readErr)
		}
		torn := errors.Is(readErr, io.EOF)

		if line = bytes.TrimSpace(line); len(line) > 0 {
			var e LogEvent
			if err := json.Unmarshal(line, &e); err != nil {
				if torn {
					break
				}
				return nil, fmt.Errorf("parse event log line %d: %w", lineNum, err)
			}
			if q.matches(e) {
				events = append(events, e)
			}
		}
		if torn {
			break
		}
	}
	return events, nil
}

// ReadAll returns every event in the log.
func (l *Logger) ReadAll() ([]LogEvent, error) {
	return l.Read(Query{})
}

// Filter returns the events whose type matches name, preserving order.
func Filter(events []LogEvent, name string) []LogEvent {
	var out []LogEvent
	for _, e := range events {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

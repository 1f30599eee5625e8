// Package report builds a markdown summary of a user's analysis, plan and
// recommendation progress, plus activity recorded in the event log.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fincoach-dev/fincoach/internal/analysis"
	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/log"
	"github.com/fincoach-dev/fincoach/internal/recommend"
)

// Report holds everything shown in a progress report.
type Report struct {
	Username        string
	GeneratedAt     time.Time
	Onboarded       bool
	Analysis        []analysis.Section
	Plan            []analysis.Section
	Recommendations []*recommend.Recommendation
	Progress        recommend.Snapshot
	Activity        Activity
}

// Activity is derived from journey events in the event log.
type Activity struct {
	Logins      int
	Submissions int
	Completions int
	Failures    int
	Span        time.Duration
}

// Sources are the components a report is assembled from.
type Sources struct {
	Retriever *analysis.Retriever
	Tracker   *recommend.Tracker
	Events    *log.Logger
}

// GenerateReport gathers the analysis, plan and recommendations for userID.
// A user who has not finished onboarding still gets a report with the
// analysis and plan marked missing. Event log failures are tolerated.
func GenerateReport(ctx context.Context, src Sources, userID int, username string) (*Report, error) {
	r := &Report{
		Username:    username,
		GeneratedAt: time.Now(),
		Onboarded:   true,
	}

	ov, err := src.Retriever.FetchOverview(ctx, userID)
	switch {
	case api.IsNotFound(err):
		r.Onboarded = false
	case err != nil:
		return nil, fmt.Errorf("generate report: %w", err)
	default:
		r.Analysis = analysis.Sections(ov.Analysis)
		r.Plan = analysis.PlanSections(ov.Plan)
	}

	recs, err := src.Tracker.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}
	r.Recommendations = recs
	r.Progress = recommend.Progress(recs)

	if src.Events != nil {
		if events, readErr := src.Events.Read(log.Query{UserID: userID}); readErr == nil {
			r.Activity = computeActivity(events)
		}
	}

	return r, nil
}

// FormatReport renders r as markdown.
func FormatReport(r *Report) string {
	var b strings.Builder

	b.WriteString("# Financial Progress Report\n\n")
	if r.Username != "" {
		fmt.Fprintf(&b, "User: %s  \n", r.Username)
	}
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	}
	b.WriteString("\n")

	if !r.Onboarded {
		b.WriteString("Onboarding is not complete yet, so there is no analysis or plan. ")
		b.WriteString("Submit your profile and answers to get one.\n\n")
	} else {
		b.WriteString(analysis.Markdown("Analysis", r.Analysis))
		b.WriteString(analysis.Markdown("Financial Plan", r.Plan))
	}

	b.WriteString("## Recommendations\n\n")
	if len(r.Recommendations) == 0 {
		b.WriteString("No recommendations available at this time.\n\n")
	} else {
		for _, rec := range r.Recommendations {
			box := " "
			if rec.Status.IsComplete() {
				box = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", box, rec.Description)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Progress: %s\n\n", r.Progress)

	if a := r.Activity; a != (Activity{}) {
		b.WriteString("## Activity\n\n")
		fmt.Fprintf(&b, "- Logins: %d\n", a.Logins)
		fmt.Fprintf(&b, "- Submissions: %d\n", a.Submissions)
		fmt.Fprintf(&b, "- Recommendations completed: %d\n", a.Completions)
		if a.Failures > 0 {
			fmt.Fprintf(&b, "- Failed requests: %d\n", a.Failures)
		}
		if a.Span > 0 {
			fmt.Fprintf(&b, "- Active over: %s\n", formatDuration(a.Span))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// WriteReport writes the formatted report to {dir}/report.md and returns
// the path. Creates dir if it does not exist.
func WriteReport(dir string, r *Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(dir, "report.md")
	if err := os.WriteFile(path, []byte(FormatReport(r)), 0644); err != nil {
		return "", fmt.Errorf("writing report file: %w", err)
	}

	return path, nil
}

// computeActivity tallies one user's events. Span runs from the first to
// the last of them.
func computeActivity(events []log.LogEvent) Activity {
	var a Activity
	var start, end time.Time

	for _, e := range events {
		switch e.Event {
		case log.EventLoginSucceeded:
			a.Logins++
		case log.EventProfileSubmitted, log.EventAnswersSubmitted:
			a.Submissions++
		case log.EventRecommendationCompleted:
			a.Completions++
		case log.EventRequestFailed:
			a.Failures++
		}
		if e.Time.IsZero() {
			continue
		}
		if start.IsZero() || e.Time.Before(start) {
			start = e.Time
		}
		if e.Time.After(end) {
			end = e.Time
		}
	}

	if !start.IsZero() && end.After(start) {
		a.Span = end.Sub(start)
	}
	return a
}

// formatDuration produces a human-readable duration string such as "5m 32s"
// or "1h 12m 5s". Sub-second durations are shown as "< 1s".
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "< 1s"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

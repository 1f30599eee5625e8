package session

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenAndGetSession(t *testing.T) {
	s := newTestStore(t)

	sess, err := s.OpenSession(3, "ana")
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if sess.Status != StatusActive {
		t.Errorf("Status = %q, want %q", sess.Status, StatusActive)
	}

	got, err := s.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got == nil || got.UserID != 3 || got.Username != "ana" {
		t.Errorf("GetSession = %+v, want user 3 ana", got)
	}

	missing, err := s.GetSession("nope")
	if err != nil || missing != nil {
		t.Errorf("GetSession(missing) = %+v, %v; want nil, nil", missing, err)
	}
}

func TestCloseSessionAndLatestActive(t *testing.T) {
	s := newTestStore(t)

	first, _ := s.OpenSession(1, "ana")
	second, _ := s.OpenSession(1, "ana")
	if err := s.CloseSession(second.ID); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}

	latest, err := s.GetLatestActive(1)
	if err != nil {
		t.Fatalf("GetLatestActive: %v", err)
	}
	if latest == nil || latest.ID != first.ID {
		t.Errorf("GetLatestActive = %+v, want %s", latest, first.ID)
	}

	none, err := s.GetLatestActive(2)
	if err != nil || none != nil {
		t.Errorf("GetLatestActive(2) = %+v, %v; want nil, nil", none, err)
	}
}

func TestAnswersRoundTrip(t *testing.T) {
	s := newTestStore(t)
	sess, _ := s.OpenSession(1, "ana")

	if err := s.SaveAnswer(sess.ID, 2, "Debt?", "none"); err != nil {
		t.Fatalf("SaveAnswer: %v", err)
	}
	if err := s.SaveAnswer(sess.ID, 0, "Income?", "5000"); err != nil {
		t.Fatalf("SaveAnswer: %v", err)
	}

	answers, err := s.GetAnswers(sess.ID)
	if err != nil {
		t.Fatalf("GetAnswers: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("got %d answers, want 2", len(answers))
	}
	if answers[0].Index != 0 || answers[0].Answer != "5000" {
		t.Errorf("answers[0] = %+v, want index 0 answer 5000", answers[0])
	}
	if answers[1].Question != "Debt?" {
		t.Errorf("answers[1].Question = %q, want %q", answers[1].Question, "Debt?")
	}
}

func TestRecordRecommendationUpserts(t *testing.T) {
	s := newTestStore(t)
	sess, _ := s.OpenSession(1, "ana")

	if err := s.RecordRecommendation(sess.ID, 10, "Emergency fund", "pending"); err != nil {
		t.Fatalf("RecordRecommendation: %v", err)
	}
	if err := s.RecordRecommendation(sess.ID, 10, "Emergency fund", "complete"); err != nil {
		t.Fatalf("RecordRecommendation: %v", err)
	}

	states, err := s.GetRecommendationStates(sess.ID)
	if err != nil {
		t.Fatalf("GetRecommendationStates: %v", err)
	}
	if len(states) != 1 {
		t.Fatalf("got %d states, want 1", len(states))
	}
	if states[0].Status != "complete" {
		t.Errorf("Status = %q, want complete", states[0].Status)
	}
}

func TestListSessions(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.OpenSession(1, "ana")
	b, _ := s.OpenSession(2, "ben")

	_ = s.SaveAnswer(a.ID, 0, "Q", "A")
	_ = s.RecordRecommendation(a.ID, 1, "x", "complete")
	_ = s.RecordRecommendation(a.ID, 2, "y", "pending")
	_ = s.CloseSession(b.ID)

	sums, err := s.ListSessions(10)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("got %d summaries, want 2", len(sums))
	}

	byID := map[string]Summary{}
	for _, sum := range sums {
		byID[sum.ID] = sum
	}
	if got := byID[a.ID]; got.Answers != 1 || got.Completed != 1 {
		t.Errorf("summary for a = %+v, want 1 answer 1 completed", got)
	}
	if got := byID[b.ID]; got.Status != StatusClosed {
		t.Errorf("summary for b status = %q, want closed", got.Status)
	}

	limited, _ := s.ListSessions(1)
	if len(limited) != 1 {
		t.Errorf("ListSessions(1) returned %d", len(limited))
	}
}

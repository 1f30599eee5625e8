package recommend

import "testing"

func recs(statuses ...Status) []*Recommendation {
	out := make([]*Recommendation, len(statuses))
	for i, s := range statuses {
		out[i] = &Recommendation{ID: i + 1, Description: "r", Status: s}
	}
	return out
}

func TestProgress(t *testing.T) {
	p, c := StatusPending, StatusComplete
	tests := []struct {
		name  string
		items []*Recommendation
		want  Snapshot
	}{
		{"empty", nil, Snapshot{0, 0, 0}},
		{"two of five", recs(c, p, c, p, p), Snapshot{2, 5, 40}},
		{"one of three", recs(c, p, p), Snapshot{1, 3, 33}},
		{"two of three", recs(c, c, p), Snapshot{2, 3, 67}},
		{"half up at .5", recs(c, p, p, p, p, p, p, p), Snapshot{1, 8, 13}},
		{"all complete", recs(c, c), Snapshot{2, 2, 100}},
		{"unknown status not complete", recs(c, Status("archived")), Snapshot{1, 2, 50}},
		{"nil entries ignored", []*Recommendation{nil, {ID: 1, Status: c}}, Snapshot{1, 1, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.items); got != tt.want {
				t.Errorf("Progress() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProgressIsPure(t *testing.T) {
	items := recs(StatusComplete, StatusPending)
	_ = Progress(items)
	if items[0].Status != StatusComplete || items[1].Status != StatusPending {
		t.Error("Progress mutated its input")
	}
}

func TestStatus(t *testing.T) {
	if !StatusPending.Known() || !StatusComplete.Known() {
		t.Error("lifecycle statuses should be known")
	}
	if Status("done").Known() {
		t.Error("Status(done).Known() = true, want false")
	}
	if Status("done").IsComplete() {
		t.Error("unknown status must not count as complete")
	}
}

func TestSnapshotString(t *testing.T) {
	if got := (Snapshot{2, 5, 40}).String(); got != "2 of 5 complete (40%)" {
		t.Errorf("String() = %q", got)
	}
}

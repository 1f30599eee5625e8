// Package recommend tracks actionable recommendations and their completion.
// A recommendation moves from pending to complete and never back.
package recommend

import (
	"fmt"
	"math"

	"github.com/fincoach-dev/fincoach/internal/api"
)

// Status is the lifecycle state of a recommendation.
type Status string

const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
)

// Known reports whether s is one of the two lifecycle states.
func (s Status) Known() bool {
	return s == StatusPending || s == StatusComplete
}

// IsComplete reports whether s is terminal. Unknown values are not.
func (s Status) IsComplete() bool {
	return s == StatusComplete
}

// Recommendation is the client's cached copy of a backend recommendation.
type Recommendation struct {
	ID          int
	Description string
	Status      Status
}

func fromDTO(d api.RecommendationDTO) *Recommendation {
	return &Recommendation{ID: d.ID, Description: d.Description, Status: Status(d.Status)}
}

// Snapshot is aggregate completion progress, derived on every read.
type Snapshot struct {
	Completed int
	Total     int
	Percent   int
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%d of %d complete (%d%%)", s.Completed, s.Total, s.Percent)
}

// Progress computes the completion snapshot of items. Percent is rounded
// half-up and is 0 for an empty set. Nil entries are ignored.
func Progress(items []*Recommendation) Snapshot {
	var snap Snapshot
	for _, r := range items {
		if r == nil {
			continue
		}
		snap.Total++
		if r.Status.IsComplete() {
			snap.Completed++
		}
	}
	if snap.Total > 0 {
		snap.Percent = int(math.Round(float64(snap.Completed*100) / float64(snap.Total)))
	}
	return snap
}

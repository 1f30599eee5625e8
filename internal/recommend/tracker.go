package recommend

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/fincoach-dev/fincoach/internal/api"
)

// Backend is the slice of the backend client the Tracker needs.
type Backend interface {
	ListRecommendations(ctx context.Context, userID int) ([]api.RecommendationDTO, error)
	UpdateRecommendation(ctx context.Context, id int, status string) (*api.RecommendationDTO, error)
	AIProgress(ctx context.Context, summary string) (string, error)
}

// Tracker holds the cached recommendation set. Entries are stored by
// pointer and replaced whole, so an update to one id never disturbs the
// others. At most one update per id is in flight at a time.
type Tracker struct {
	backend Backend
	logger  *zap.Logger

	mu       sync.Mutex // guards order, inflight and cache membership
	cache    *cache.Cache
	order    []int
	inflight map[int]struct{}
}

// NewTracker creates an empty Tracker. A nil logger discards output.
func NewTracker(backend Backend, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		backend:  backend,
		logger:   logger,
		cache:    cache.New(cache.NoExpiration, 0),
		inflight: make(map[int]struct{}),
	}
}

func cacheKey(id int) string {
	return strconv.Itoa(id)
}

// List fetches every recommendation for userID and replaces the cached set.
// On failure the cache is left as it was.
func (t *Tracker) List(ctx context.Context, userID int) ([]*Recommendation, error) {
	dtos, err := t.backend.ListRecommendations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}

	items := make(map[string]cache.Item, len(dtos))
	order := make([]int, 0, len(dtos))
	for _, d := range dtos {
		key := cacheKey(d.ID)
		if _, dup := items[key]; dup {
			t.logger.Warn("duplicate recommendation id ignored", zap.Int("id", d.ID))
			continue
		}
		rec := fromDTO(d)
		if !rec.Status.Known() {
			t.logger.Warn("unknown recommendation status",
				zap.Int("id", rec.ID),
				zap.String("status", string(rec.Status)))
		}
		items[key] = cache.Item{Object: rec}
		order = append(order, d.ID)
	}

	t.mu.Lock()
	t.cache = cache.NewFrom(cache.NoExpiration, 0, items)
	t.order = order
	t.mu.Unlock()

	t.logger.Debug("recommendations listed", zap.Int("user_id", userID), zap.Int("count", len(order)))
	return t.Items(), nil
}

// Items returns the cached recommendations in backend order.
func (t *Tracker) Items() []*Recommendation {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Recommendation, 0, len(t.order))
	for _, id := range t.order {
		if x, ok := t.cache.Get(cacheKey(id)); ok {
			out = append(out, x.(*Recommendation))
		}
	}
	return out
}

// Get returns the cached recommendation with id.
func (t *Tracker) Get(id int) (*Recommendation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.get(id)
}

func (t *Tracker) get(id int) (*Recommendation, bool) {
	if x, ok := t.cache.Get(cacheKey(id)); ok {
		return x.(*Recommendation), true
	}
	return nil, false
}

// Pending reports whether an update for id is in flight.
func (t *Tracker) Pending(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.inflight[id]
	return ok
}

// MarkComplete asks the backend to complete id and replaces only that
// cached entry with the server's echo. Unknown, already complete or busy
// ids are rejected without a network call. On failure nothing changes.
func (t *Tracker) MarkComplete(ctx context.Context, id int) (*Recommendation, error) {
	t.mu.Lock()
	rec, ok := t.get(id)
	switch {
	case !ok:
		t.mu.Unlock()
		return nil, api.NewValidationError("recommendation %d is not in the current list", id)
	case rec.Status.IsComplete():
		t.mu.Unlock()
		return nil, api.NewValidationError("recommendation %d is already complete", id)
	}
	if _, busy := t.inflight[id]; busy {
		t.mu.Unlock()
		return nil, api.NewValidationError("recommendation %d is already being updated", id)
	}
	t.inflight[id] = struct{}{}
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.inflight, id)
		t.mu.Unlock()
	}()

	dto, err := t.backend.UpdateRecommendation(ctx, id, string(StatusComplete))
	if err != nil {
		t.logger.Warn("recommendation update failed", zap.Int("id", id), zap.Error(err))
		return nil, fmt.Errorf("complete recommendation %d: %w", id, err)
	}
	if dto.ID != id {
		return nil, api.NewTransportError(fmt.Errorf("backend echoed recommendation %d for update of %d", dto.ID, id))
	}

	updated := fromDTO(*dto)
	if !updated.Status.IsComplete() {
		t.logger.Warn("backend echoed non-complete status",
			zap.Int("id", id),
			zap.String("status", string(updated.Status)))
	}

	t.mu.Lock()
	if err := t.cache.Replace(cacheKey(id), updated, cache.NoExpiration); err != nil {
		// A List ran meanwhile and dropped this id; its data wins.
		t.logger.Debug("discarding echo for removed recommendation", zap.Int("id", id))
	}
	t.mu.Unlock()

	return updated, nil
}

// Progress returns the snapshot of the cached set.
func (t *Tracker) Progress() Snapshot {
	return Progress(t.Items())
}

// Summary describes the cached set in plain sentences for the insights call.
func (t *Tracker) Summary() string {
	items := t.Items()
	snap := Progress(items)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Completed %d of %d recommendations (%d%%).", snap.Completed, snap.Total, snap.Percent)
	var pending []string
	for _, r := range items {
		if !r.Status.IsComplete() {
			pending = append(pending, r.Description)
		}
	}
	if len(pending) > 0 {
		sb.WriteString(" Still pending: " + strings.Join(pending, "; ") + ".")
	}
	return sb.String()
}

// Insights asks the backend for narrative feedback on current progress.
func (t *Tracker) Insights(ctx context.Context) (string, error) {
	text, err := t.backend.AIProgress(ctx, t.Summary())
	if err != nil {
		return "", fmt.Errorf("progress insights: %w", err)
	}
	return text, nil
}

package recommend_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/recommend"
	"github.com/fincoach-dev/fincoach/internal/testutil"
)

const updateRoute = "PUT /api/recommendations/{id}"

func seeded(t *testing.T) (*testutil.Backend, *recommend.Tracker) {
	t.Helper()
	b := testutil.NewBackend(t)
	b.Recommendations[1] = []testutil.Recommendation{
		{ID: 10, Description: "Build an emergency fund", Status: "pending"},
		{ID: 11, Description: "Open a Roth IRA", Status: "complete"},
		{ID: 12, Description: "Pay down card debt", Status: "pending"},
	}
	tr := recommend.NewTracker(api.NewClient(b.URL()), nil)
	_, err := tr.List(context.Background(), 1)
	require.NoError(t, err)
	return b, tr
}

func TestList_PreservesOrder(t *testing.T) {
	_, tr := seeded(t)
	items := tr.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []int{10, 11, 12}, []int{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, recommend.Snapshot{Completed: 1, Total: 3, Percent: 33}, tr.Progress())
}

func TestList_ReplacesWholeSet(t *testing.T) {
	b, tr := seeded(t)
	b.Recommendations[1] = []testutil.Recommendation{{ID: 20, Description: "New", Status: "pending"}}

	items, err := tr.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	_, ok := tr.Get(10)
	assert.False(t, ok, "stale entry survived a List")
}

func TestList_FailureKeepsCache(t *testing.T) {
	b, tr := seeded(t)
	b.Fail("GET /api/recommendations/{id}", http.StatusInternalServerError, "down")

	_, err := tr.List(context.Background(), 1)
	require.True(t, api.IsRequest(err))
	assert.Len(t, tr.Items(), 3)
}

func TestList_Empty(t *testing.T) {
	b := testutil.NewBackend(t)
	tr := recommend.NewTracker(api.NewClient(b.URL()), nil)

	items, err := tr.List(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, recommend.Snapshot{}, tr.Progress())
}

func TestMarkComplete_ReplacesOnlyTarget(t *testing.T) {
	b, tr := seeded(t)
	before := tr.Items()

	rec, err := tr.MarkComplete(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, recommend.StatusComplete, rec.Status)
	assert.JSONEq(t, `{"status":"complete"}`, b.LastBody(updateRoute))

	after := tr.Items()
	require.Len(t, after, 3)
	assert.Same(t, before[0], after[0])
	assert.Same(t, before[1], after[1])
	assert.NotSame(t, before[2], after[2])
	assert.Equal(t, recommend.StatusPending, before[2].Status, "old entry must not be mutated in place")
	assert.Equal(t, recommend.Snapshot{Completed: 2, Total: 3, Percent: 67}, tr.Progress())
}

func TestMarkComplete_FailureLeavesStateUnchanged(t *testing.T) {
	b, tr := seeded(t)
	b.Fail(updateRoute, http.StatusBadRequest, "Recommendation locked")
	before := tr.Items()

	_, err := tr.MarkComplete(context.Background(), 10)
	require.True(t, api.IsRequest(err))
	assert.Equal(t, "Recommendation locked", api.UserMessage(err))

	after := tr.Items()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Same(t, before[i], after[i])
	}
	assert.False(t, tr.Pending(10))
	assert.Equal(t, 1, b.CallCount(updateRoute), "failed update must not be retried")
}

func TestMarkComplete_RejectedLocally(t *testing.T) {
	b, tr := seeded(t)

	_, err := tr.MarkComplete(context.Background(), 404)
	assert.True(t, api.IsValidation(err))

	_, err = tr.MarkComplete(context.Background(), 11)
	assert.True(t, api.IsValidation(err), "already complete: got %v", err)

	assert.Equal(t, 0, b.CallCount(updateRoute))
}

func TestSummaryAndInsights(t *testing.T) {
	b, tr := seeded(t)

	assert.Equal(t,
		"Completed 1 of 3 recommendations (33%). Still pending: Build an emergency fund; Pay down card debt.",
		tr.Summary())

	text, err := tr.Insights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Insights for: "+tr.Summary(), text)
	assert.Equal(t, 1, b.CallCount("POST /api/ai-progress"))
}

func TestUnknownStatusKept(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Recommendations[1] = []testutil.Recommendation{{ID: 1, Description: "x", Status: "archived"}}
	tr := recommend.NewTracker(api.NewClient(b.URL()), nil)

	items, err := tr.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, recommend.Status("archived"), items[0].Status)
	assert.Equal(t, 0, tr.Progress().Completed)
}

// gatedBackend blocks updates until released so tests can interleave them.
type gatedBackend struct {
	list    []api.RecommendationDTO
	echoID  map[int]int
	started chan int
	release chan struct{}
	fail    map[int]error
}

func (g *gatedBackend) ListRecommendations(context.Context, int) ([]api.RecommendationDTO, error) {
	return g.list, nil
}

func (g *gatedBackend) UpdateRecommendation(ctx context.Context, id int, status string) (*api.RecommendationDTO, error) {
	g.started <- id
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, api.NewTransportError(ctx.Err())
	}
	if err := g.fail[id]; err != nil {
		return nil, err
	}
	echo := id
	if e, ok := g.echoID[id]; ok {
		echo = e
	}
	return &api.RecommendationDTO{ID: echo, Description: "echo", Status: status}, nil
}

func (g *gatedBackend) AIProgress(context.Context, string) (string, error) {
	return "", nil
}

func newGated(ids ...int) *gatedBackend {
	g := &gatedBackend{
		echoID:  map[int]int{},
		started: make(chan int, len(ids)),
		release: make(chan struct{}),
		fail:    map[int]error{},
	}
	for _, id := range ids {
		g.list = append(g.list, api.RecommendationDTO{ID: id, Description: "r", Status: "pending"})
	}
	return g
}

func TestMarkComplete_ConcurrentDifferentIDs(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGated(1, 2, 3)
	g.fail[2] = api.NewRequestError(http.StatusInternalServerError, "boom")
	tr := recommend.NewTracker(g, nil)
	_, err := tr.List(context.Background(), 1)
	require.NoError(t, err)
	untouched, _ := tr.Get(3)

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for _, id := range []int{1, 2} {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, errs[id] = tr.MarkComplete(context.Background(), id)
		}(id)
	}
	<-g.started
	<-g.started
	assert.True(t, tr.Pending(1))
	assert.True(t, tr.Pending(2))
	close(g.release)
	wg.Wait()

	assert.NoError(t, errs[1])
	assert.True(t, api.IsRequest(errs[2]))

	r1, _ := tr.Get(1)
	r2, _ := tr.Get(2)
	r3, _ := tr.Get(3)
	assert.Equal(t, recommend.StatusComplete, r1.Status)
	assert.Equal(t, recommend.StatusPending, r2.Status)
	assert.Same(t, untouched, r3)
}

func TestMarkComplete_SameIDRejectedWhileInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGated(1)
	tr := recommend.NewTracker(g, nil)
	_, err := tr.List(context.Background(), 1)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := tr.MarkComplete(context.Background(), 1)
		done <- err
	}()
	<-g.started

	_, err = tr.MarkComplete(context.Background(), 1)
	assert.True(t, api.IsValidation(err), "second update: got %v", err)

	close(g.release)
	require.NoError(t, <-done)
	assert.False(t, tr.Pending(1))
}

func TestMarkComplete_WrongEchoIsTransport(t *testing.T) {
	g := newGated(1, 2)
	g.echoID[1] = 2
	close(g.release)
	tr := recommend.NewTracker(g, nil)
	_, err := tr.List(context.Background(), 1)
	require.NoError(t, err)

	_, err = tr.MarkComplete(context.Background(), 1)
	assert.True(t, api.IsTransport(err), "got %v", err)
	r2, _ := tr.Get(2)
	assert.Equal(t, recommend.StatusPending, r2.Status)
}

func TestMarkComplete_EchoDroppedAfterRelist(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGated(1, 2)
	tr := recommend.NewTracker(g, nil)
	_, err := tr.List(context.Background(), 1)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := tr.MarkComplete(context.Background(), 1)
		done <- err
	}()
	<-g.started

	g.list = g.list[1:]
	_, err = tr.List(context.Background(), 1)
	require.NoError(t, err)

	close(g.release)
	require.NoError(t, <-done)
	_, ok := tr.Get(1)
	assert.False(t, ok, "echo resurrected a removed recommendation")
	assert.Len(t, tr.Items(), 1)
}

func TestMarkComplete_ContextCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGated(1)
	tr := recommend.NewTracker(g, nil)
	_, err := tr.List(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := tr.MarkComplete(ctx, 1)
		done <- err
	}()
	<-g.started
	cancel()

	err = <-done
	require.True(t, api.IsTransport(err))
	assert.True(t, errors.Is(err, context.Canceled))
	r, _ := tr.Get(1)
	assert.Equal(t, recommend.StatusPending, r.Status)
}

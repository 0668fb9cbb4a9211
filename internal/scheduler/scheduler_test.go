package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/placescout/internal/browser"
	"github.com/go-scripts/placescout/internal/progress"
	"github.com/go-scripts/placescout/internal/retry"
	"github.com/go-scripts/placescout/internal/types"
)

type fakeTab struct {
	mu     sync.Mutex
	closed bool
}

func (t *fakeTab) Navigate(context.Context, string, time.Duration) error { return nil }
func (t *fakeTab) WaitVisible(context.Context, string, time.Duration) error {
	return nil
}
func (t *fakeTab) Text(context.Context, string) (string, error) { return "", nil }
func (t *fakeTab) Attribute(context.Context, string, string) (string, bool, error) {
	return "", false, nil
}
func (t *fakeTab) Evaluate(context.Context, string, any) error    { return nil }
func (t *fakeTab) ScrollBy(context.Context, string, int) error    { return nil }
func (t *fakeTab) Close() error                                   { t.mu.Lock(); t.closed = true; t.mu.Unlock(); return nil }
func (t *fakeTab) isClosed() bool                                 { t.mu.Lock(); defer t.mu.Unlock(); return t.closed }

type fakeSession struct {
	fakeTab
	mu   sync.Mutex
	tabs []*fakeTab
}

func (s *fakeSession) NewTab() (browser.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tab := &fakeTab{}
	s.tabs = append(s.tabs, tab)
	return tab, nil
}

type fakeFetcher struct {
	mu      sync.Mutex
	fetched []string
	details map[string]types.DetailRecord
	fail    map[string]bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, tab browser.Page, url string) (types.DetailRecord, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	f.mu.Unlock()
	if f.fail[url] {
		return types.DetailRecord{}, errors.New("navigation timeout")
	}
	return f.details[url], nil
}

func candidates(n int) []types.Candidate {
	out := make([]types.Candidate, n)
	for i := range out {
		out[i] = types.Candidate{URL: fmt.Sprintf("https://maps.example/place/%d", i), Rating: 4.0}
	}
	return out
}

func newScheduler(f Fetcher, sink progress.Sink) *Scheduler {
	logger := log.New(io.Discard)
	s := New(f, retry.NewExecutor(time.Millisecond, logger), progress.NewReporter(sink), logger)
	s.roundDelay = time.Millisecond
	return s
}

func TestWorkerCount(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0}, {1, 1}, {3, 1}, {4, 2}, {13, 5}, {15, 5}, {100, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WorkerCount(tt.n), "n=%d", tt.n)
	}
}

func TestChunkSizes(t *testing.T) {
	chunks := Chunk(candidates(13))
	require.Len(t, chunks, 5)
	sizes := make([]int, len(chunks))
	for i, c := range chunks {
		sizes[i] = len(c)
	}
	assert.Equal(t, []int{3, 3, 3, 3, 1}, sizes)
}

func TestRunSingleRoundBarrier(t *testing.T) {
	// 13 candidates with 5 workers: 5 chunks fit in exactly one round, so
	// exactly one details progress event is emitted.
	var mu sync.Mutex
	var events []progress.Event
	sink := progress.SinkFunc(func(ev progress.Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	fetcher := &fakeFetcher{details: map[string]types.DetailRecord{}}
	sched := newScheduler(fetcher, sink)

	out, err := sched.Run(context.Background(), &fakeSession{}, candidates(13), types.FilterConfig{})
	require.NoError(t, err)
	assert.Len(t, out.Matched, 13)

	require.Len(t, events, 1)
	assert.Equal(t, progress.StageDetails, events[0].Stage)
	assert.Equal(t, 13, events[0].Current)
	assert.Equal(t, 13, events[0].Total)
	assert.Equal(t, 100, events[0].Percent)
}

func TestRunMultipleRounds(t *testing.T) {
	// 18 candidates: 6 chunks, 5 workers, hence 2 rounds.
	var mu sync.Mutex
	rounds := 0
	sink := progress.SinkFunc(func(progress.Event) {
		mu.Lock()
		rounds++
		mu.Unlock()
	})

	fetcher := &fakeFetcher{details: map[string]types.DetailRecord{}}
	sched := newScheduler(fetcher, sink)

	out, err := sched.Run(context.Background(), &fakeSession{}, candidates(18), types.FilterConfig{})
	require.NoError(t, err)
	assert.Len(t, out.Matched, 18)
	assert.Equal(t, 2, rounds)
}

func TestRunPausesBetweenRounds(t *testing.T) {
	// 18 candidates: 6 chunks over 5 workers means one round boundary,
	// which must wait the full inter-round delay even on the first gap.
	fetcher := &fakeFetcher{details: map[string]types.DetailRecord{}}
	sched := newScheduler(fetcher, nil)
	sched.roundDelay = 50 * time.Millisecond

	start := time.Now()
	_, err := sched.Run(context.Background(), &fakeSession{}, candidates(18), types.FilterConfig{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestRunChunkOrderPreserved(t *testing.T) {
	// With 3 candidates there is a single worker, so fetch order must equal
	// input order.
	fetcher := &fakeFetcher{details: map[string]types.DetailRecord{}}
	sched := newScheduler(fetcher, nil)

	cands := candidates(3)
	_, err := sched.Run(context.Background(), &fakeSession{}, cands, types.FilterConfig{})
	require.NoError(t, err)

	want := []string{cands[0].URL, cands[1].URL, cands[2].URL}
	assert.Equal(t, want, fetcher.fetched)
}

func TestRunClassifiesOutcomes(t *testing.T) {
	cands := candidates(3)
	fetcher := &fakeFetcher{
		details: map[string]types.DetailRecord{
			cands[0].URL: {ReviewCount: 100},
			cands[1].URL: {ReviewCount: 5},
		},
		fail: map[string]bool{cands[2].URL: true},
	}
	sched := newScheduler(fetcher, nil)

	out, err := sched.Run(context.Background(), &fakeSession{},
		cands, types.FilterConfig{ReviewCountMin: 50})
	require.NoError(t, err)

	assert.Len(t, out.Matched, 1)
	assert.Equal(t, cands[0].URL, out.Matched[0].URL)
	assert.Equal(t, 1, out.FilteredOut)
	assert.Equal(t, 1, out.Failed)
}

func TestRunFailedItemRetriedWithReducedBudget(t *testing.T) {
	cands := candidates(1)
	fetcher := &fakeFetcher{fail: map[string]bool{cands[0].URL: true}}
	sched := newScheduler(fetcher, nil)

	out, err := sched.Run(context.Background(), &fakeSession{}, cands, types.FilterConfig{})
	require.NoError(t, err, "per-item failures never abort the run")
	assert.Equal(t, 1, out.Failed)
	assert.Len(t, fetcher.fetched, 2, "detail fetches get two attempts")
}

func TestRunReleasesExtraTabs(t *testing.T) {
	session := &fakeSession{}
	fetcher := &fakeFetcher{details: map[string]types.DetailRecord{}}
	sched := newScheduler(fetcher, nil)

	_, err := sched.Run(context.Background(), session, candidates(13), types.FilterConfig{})
	require.NoError(t, err)

	require.Len(t, session.tabs, 4, "primary plus four extra tabs")
	for i, tab := range session.tabs {
		assert.True(t, tab.isClosed(), "extra tab %d released", i)
	}
	assert.False(t, session.fakeTab.isClosed(), "primary tab stays open")
}

func TestRunEmptyInput(t *testing.T) {
	sched := newScheduler(&fakeFetcher{}, nil)
	out, err := sched.Run(context.Background(), &fakeSession{}, nil, types.FilterConfig{})
	require.NoError(t, err)
	assert.Empty(t, out.Matched)
}

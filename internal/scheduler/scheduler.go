// Package scheduler fans detail-page enrichment out across a bounded pool
// of browser tabs. Candidates are partitioned into ordered chunks; chunks
// are dispatched in rounds with a join barrier between rounds, so at most
// one round's worth of tabs is active at a time.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/go-scripts/placescout/internal/browser"
	"github.com/go-scripts/placescout/internal/filter"
	"github.com/go-scripts/placescout/internal/progress"
	"github.com/go-scripts/placescout/internal/retry"
	"github.com/go-scripts/placescout/internal/types"
)

const (
	// ItemsPerWorker is the chunk size handed to one tab.
	ItemsPerWorker = 3
	// MaxWorkers bounds concurrently open tabs.
	MaxWorkers = 5
	// detailAttempts is the reduced retry budget for detail navigation.
	detailAttempts = 2
	// roundDelay paces consecutive rounds to bound request rate.
	roundDelay = time.Second
)

// Fetcher retrieves the detail record for one listing using the given tab.
type Fetcher interface {
	Fetch(ctx context.Context, tab browser.Page, url string) (types.DetailRecord, error)
}

// Outcome accumulates the run's classification counters and accepted set.
type Outcome struct {
	Matched     []types.MergedResult
	FilteredOut int
	Failed      int
}

// Scheduler coordinates rounds of detail fetches.
type Scheduler struct {
	fetcher    Fetcher
	retrier    *retry.Executor
	reporter   *progress.Reporter
	logger     *log.Logger
	roundDelay time.Duration
}

// New creates a Scheduler.
func New(fetcher Fetcher, retrier *retry.Executor, reporter *progress.Reporter, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		fetcher:    fetcher,
		retrier:    retrier,
		reporter:   reporter,
		logger:     logger,
		roundDelay: roundDelay,
	}
}

// WorkerCount returns min(ceil(n/ItemsPerWorker), MaxWorkers).
func WorkerCount(n int) int {
	if n <= 0 {
		return 0
	}
	workers := (n + ItemsPerWorker - 1) / ItemsPerWorker
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return workers
}

// Chunk partitions candidates into ordered chunks of ItemsPerWorker.
func Chunk(candidates []types.Candidate) [][]types.Candidate {
	var chunks [][]types.Candidate
	for start := 0; start < len(candidates); start += ItemsPerWorker {
		end := start + ItemsPerWorker
		if end > len(candidates) {
			end = len(candidates)
		}
		chunks = append(chunks, candidates[start:end])
	}
	return chunks
}

// Run enriches every candidate, applies the post-filter and returns the
// accepted set with counters. Per-item failures are recorded and never
// abort the run; only session-level cancellation stops it.
func (s *Scheduler) Run(ctx context.Context, session browser.Session, candidates []types.Candidate, cfg types.FilterConfig) (Outcome, error) {
	var out Outcome
	if len(candidates) == 0 {
		return out, nil
	}

	workers := WorkerCount(len(candidates))
	chunks := Chunk(candidates)
	total := len(candidates)

	pool, err := NewTabPool(session, workers)
	if err != nil {
		return out, fmt.Errorf("building tab pool: %w", err)
	}
	defer pool.ReleaseExtras()

	s.logger.Info("detail enrichment starting",
		"candidates", total, "workers", workers, "chunks", len(chunks))

	// The limiter starts with its token drained so every round boundary
	// waits the full delay.
	limiter := rate.NewLimiter(rate.Every(s.roundDelay), 1)
	limiter.Allow()

	var mu sync.Mutex
	processed := 0

	for roundStart := 0; roundStart < len(chunks); roundStart += workers {
		if roundStart > 0 {
			if err := limiter.Wait(ctx); err != nil {
				return out, err
			}
		}

		roundEnd := roundStart + workers
		if roundEnd > len(chunks) {
			roundEnd = len(chunks)
		}

		var wg sync.WaitGroup
		for _, chunk := range chunks[roundStart:roundEnd] {
			wg.Add(1)
			go func(chunk []types.Candidate) {
				defer wg.Done()

				tab, err := pool.Acquire(ctx)
				if err != nil {
					mu.Lock()
					out.Failed += len(chunk)
					processed += len(chunk)
					mu.Unlock()
					return
				}
				defer pool.Release(tab)

				// Items within a chunk are visited strictly in order.
				for _, cand := range chunk {
					merged, outcome, err := s.processItem(ctx, tab, cand, cfg)
					mu.Lock()
					switch {
					case err != nil:
						out.Failed++
					case outcome.Passed:
						out.Matched = append(out.Matched, merged)
					default:
						out.FilteredOut++
					}
					processed++
					mu.Unlock()
				}
			}(chunk)
		}
		wg.Wait()

		mu.Lock()
		done := processed
		matched := len(out.Matched)
		filtered := out.FilteredOut
		failed := out.Failed
		mu.Unlock()

		s.reporter.ReportCount(progress.StageDetails, done, total,
			fmt.Sprintf("details %d/%d (matched %d, filtered %d, failed %d)",
				done, total, matched, filtered, failed))
	}

	s.logger.Info("detail enrichment complete",
		"matched", len(out.Matched), "filtered", out.FilteredOut, "failed", out.Failed)
	return out, nil
}

func (s *Scheduler) processItem(ctx context.Context, tab browser.Page, cand types.Candidate, cfg types.FilterConfig) (types.MergedResult, types.FilterOutcome, error) {
	var detail types.DetailRecord
	err := s.retrier.Run(ctx, "detail fetch", detailAttempts, func(ctx context.Context) error {
		var ferr error
		detail, ferr = s.fetcher.Fetch(ctx, tab, cand.URL)
		return ferr
	})
	if err != nil {
		s.logger.Warn("detail fetch failed", "url", cand.URL, "err", err)
		return types.MergedResult{}, types.FilterOutcome{}, err
	}

	merged := types.Merge(cand, detail)
	outcome := filter.PostFilter(merged, cfg)
	if !outcome.Passed {
		s.logger.Debug("filtered out", "url", cand.URL, "reason", outcome.Reason)
	}
	return merged, outcome, nil
}

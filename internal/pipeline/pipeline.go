// Package pipeline wires the full search-collect-filter-enrich flow:
// open the map site, submit the query, wait for the result feed, scroll it
// to exhaustion, extract and pre-filter candidates, enrich them through the
// detail scheduler, then rank the accepted set.
package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/go-scripts/placescout/internal/browser"
	"github.com/go-scripts/placescout/internal/extract"
	"github.com/go-scripts/placescout/internal/filter"
	"github.com/go-scripts/placescout/internal/progress"
	"github.com/go-scripts/placescout/internal/rank"
	"github.com/go-scripts/placescout/internal/retry"
	"github.com/go-scripts/placescout/internal/scheduler"
	"github.com/go-scripts/placescout/internal/scroll"
	"github.com/go-scripts/placescout/internal/types"
)

const navigationAttempts = 3

// Pipeline runs one search end to end. Failures at pipeline-critical steps
// (opening the site, submitting the query) abort the run; everything past
// the feed wait degrades to partial results instead of failing.
type Pipeline struct {
	session   browser.Session
	site      Site
	retrier   *retry.Executor
	reporter  *progress.Reporter
	collector *scroll.Collector
	extractor *extract.Extractor
	sched     *scheduler.Scheduler
	logger    *log.Logger
}

// New assembles a Pipeline around an open browser session.
func New(session browser.Session, site Site, retrier *retry.Executor, reporter *progress.Reporter, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		session:   session,
		site:      site,
		retrier:   retrier,
		reporter:  reporter,
		collector: scroll.NewCollector(0, logger),
		extractor: extract.NewExtractor(logger),
		sched:     scheduler.New(&detailFetcher{site: site}, retrier, reporter, logger),
		logger:    logger,
	}
}

// Run executes the search request and returns the ranked, deduplicated
// result set. An empty list is a supported outcome, not an error.
func (p *Pipeline) Run(ctx context.Context, req types.SearchRequest) ([]types.MergedResult, error) {
	p.reporter.Report(progress.StageOpening, "opening map search")
	err := p.retrier.Run(ctx, "open search page", navigationAttempts, func(ctx context.Context) error {
		return p.session.Navigate(ctx, p.site.BaseURL, browser.NavigationTimeout)
	})
	if err != nil {
		return nil, fmt.Errorf("opening search page: %w", err)
	}

	p.reporter.Report(progress.StageSearching, "submitting query")
	if err := p.submitQuery(ctx, req.Query()); err != nil {
		return nil, fmt.Errorf("submitting query: %w", err)
	}

	p.reporter.Report(progress.StageWaiting, "waiting for results")
	feed := &resultFeed{page: p.session, site: p.site}
	if err := p.session.WaitVisible(ctx, p.site.FeedSelector, browser.ElementTimeout); err != nil {
		// No feed means no results for this query.
		p.logger.Info("result feed never appeared, returning empty set", "err", err)
		p.reporter.Report(progress.StageCompleted, "no results")
		return []types.MergedResult{}, nil
	}

	p.reporter.Report(progress.StageScrolling, "loading all results")
	if err := p.collector.Collect(ctx, feed); err != nil {
		return nil, err
	}

	p.reporter.Report(progress.StageExtracting, "extracting listings")
	extracted, err := p.extractor.Extract(ctx, feed)
	if err != nil {
		return nil, fmt.Errorf("extracting listings: %w", err)
	}
	p.reporter.Report(progress.StageExtracted,
		fmt.Sprintf("extracted %d listings (%d errors)", len(extracted.Candidates), extracted.ErrorCount))

	p.reporter.Report(progress.StagePrefiltering, "applying list-stage filters")
	candidates := p.prefilter(extracted.Candidates, req.Filter)
	p.reporter.Report(progress.StagePrefiltered,
		fmt.Sprintf("%d of %d candidates kept", len(candidates), len(extracted.Candidates)))

	outcome, err := p.sched.Run(ctx, p.session, candidates, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("detail enrichment: %w", err)
	}

	p.reporter.Report(progress.StageSaving, "ranking results")
	rank.Sort(outcome.Matched)

	p.reporter.Report(progress.StageCompleted,
		fmt.Sprintf("done: %d matched, %d filtered, %d failed",
			len(outcome.Matched), outcome.FilteredOut, outcome.Failed))
	return outcome.Matched, nil
}

// submitQuery fills the search box and submits, trying each selector in the
// fallback chain inside one retry budget.
func (p *Pipeline) submitQuery(ctx context.Context, query string) error {
	return p.retrier.Run(ctx, "submit query", navigationAttempts, func(ctx context.Context) error {
		var lastErr error
		for _, sel := range p.site.SearchInputs {
			script := fmt.Sprintf(`
			(() => {
				const input = document.querySelector(%q);
				if (!input) return false;
				input.value = %q;
				input.dispatchEvent(new Event('input', { bubbles: true }));
				const form = input.closest('form');
				if (form) {
					form.submit();
				} else {
					input.dispatchEvent(new KeyboardEvent('keydown', { key: 'Enter', bubbles: true }));
				}
				return true;
			})()`, sel, query)

			var ok bool
			if err := p.session.Evaluate(ctx, script, &ok); err != nil {
				lastErr = err
				continue
			}
			if ok {
				return nil
			}
			lastErr = fmt.Errorf("search input %q not found", sel)
		}
		return lastErr
	})
}

// prefilter applies the cheap list-stage filter and enforces the result cap.
func (p *Pipeline) prefilter(candidates []types.Candidate, cfg types.FilterConfig) []types.Candidate {
	kept := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if filter.PreFilter(c, cfg) {
			kept = append(kept, c)
		}
	}
	if cfg.MaxItems > 0 && len(kept) > cfg.MaxItems {
		p.logger.Info("truncating candidates to limit", "kept", cfg.MaxItems, "dropped", len(kept)-cfg.MaxItems)
		kept = kept[:cfg.MaxItems]
	}
	return kept
}

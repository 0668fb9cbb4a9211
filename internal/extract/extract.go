// Package extract turns raw feed items into structured candidates via
// heuristic pattern matching.
package extract

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/go-scripts/placescout/internal/types"
)

// Item is one raw listing pulled off the feed: its link target, accessible
// label and the visible text of its containing element.
type Item struct {
	URL   string
	Label string
	Text  string
}

// Feed yields the raw listing items currently loaded in the result feed.
type Feed interface {
	Items(ctx context.Context) ([]Item, error)
}

// Result carries the deduplicated candidates plus the number of items that
// could not be extracted.
type Result struct {
	Candidates []types.Candidate
	ErrorCount int
}

// Extractor parses feed items into candidates. Per-item failures are counted
// and skipped, never fatal.
type Extractor struct {
	logger *log.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{logger: logger}
}

// Extract reads every item off the feed, deduplicates by URL (first
// occurrence wins) and parses each into a candidate.
func (e *Extractor) Extract(ctx context.Context, feed Feed) (Result, error) {
	items, err := feed.Items(ctx)
	if err != nil {
		return Result{}, err
	}

	var res Result
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.URL == "" {
			res.ErrorCount++
			continue
		}
		if seen[item.URL] {
			continue
		}
		seen[item.URL] = true

		if item.Text == "" && item.Label == "" {
			e.logger.Debug("skipping item with no text", "url", item.URL)
			res.ErrorCount++
			continue
		}

		res.Candidates = append(res.Candidates, parseCandidate(item))
	}

	e.logger.Info("extraction complete",
		"items", len(items), "candidates", len(res.Candidates), "errors", res.ErrorCount)
	return res, nil
}

func parseCandidate(item Item) types.Candidate {
	return types.Candidate{
		URL:           item.URL,
		Name:          ParseName(item.Label, item.Text),
		Rating:        ParseRating(item.Text),
		ReviewCount:   ParseReviewCount(item.Text),
		Category:      ParseCategory(item.Text),
		BudgetText:    ParseBudget(item.Text),
		ReviewSnippet: ParseReviewSnippet(item.Text),
		RawListText:   item.Text,
	}
}

// Package scroll drives progressive loading of a virtualized result feed
// until no more items appear.
package scroll

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Feed is the slice of the page the collector interacts with.
type Feed interface {
	// Extent reports the current content size of the feed (item count or
	// scroll height, any monotonic measure works).
	Extent(ctx context.Context) (int, error)
	// Scroll advances the feed by one step.
	Scroll(ctx context.Context) error
	// EndVisible reports whether the end-of-results sentinel is on screen.
	EndVisible(ctx context.Context) (bool, error)
}

const (
	maxIterations    = 100
	stableIterations = 3
	settleInterval   = 2 * time.Second
)

// Collector exhausts a feed by scrolling until an end sentinel appears, the
// content extent stops growing, or a hard iteration cap is reached. Scroll
// errors are logged and skipped; the loop itself never fails.
type Collector struct {
	settle time.Duration
	logger *log.Logger
}

// NewCollector creates a Collector. A zero settle interval uses the default.
func NewCollector(settle time.Duration, logger *log.Logger) *Collector {
	if settle <= 0 {
		settle = settleInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Collector{settle: settle, logger: logger}
}

// Collect scrolls feed until a stop condition holds. It returns early only
// on context cancellation; every other failure mode is non-fatal.
func (c *Collector) Collect(ctx context.Context, feed Feed) error {
	lastExtent := -1
	stableCount := 0

	for i := 0; i < maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		extent, extentErr := feed.Extent(ctx)
		if extentErr != nil {
			c.logger.Warn("could not measure feed extent", "iteration", i, "err", extentErr)
		}

		if err := feed.Scroll(ctx); err != nil {
			c.logger.Warn("scroll failed, continuing", "iteration", i, "err", err)
		}

		select {
		case <-time.After(c.settle):
		case <-ctx.Done():
			return ctx.Err()
		}

		if end, err := feed.EndVisible(ctx); err != nil {
			c.logger.Warn("end-of-results check failed", "iteration", i, "err", err)
		} else if end {
			c.logger.Info("end of results reached", "iterations", i+1)
			return nil
		}

		// Only a genuine measurement counts toward stability; a failed
		// read must not look like a frozen feed.
		if extentErr != nil {
			continue
		}
		if extent == lastExtent {
			stableCount++
			if stableCount >= stableIterations {
				c.logger.Info("feed extent stable, stopping", "iterations", i+1, "extent", extent)
				return nil
			}
		} else {
			stableCount = 0
			lastExtent = extent
		}
	}

	c.logger.Info("scroll iteration cap reached", "iterations", maxIterations)
	return nil
}

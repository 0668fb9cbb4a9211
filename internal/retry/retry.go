// Package retry wraps fallible operations with attempt accounting and a
// linear backoff. The backoff is deliberately linear rather than
// exponential: waits grow as baseDelay, 2*baseDelay, 3*baseDelay, which is
// enough spacing for page-load flakiness without stretching a run.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultBaseDelay is the backoff unit between attempts.
const DefaultBaseDelay = 2 * time.Second

// Executor retries operations with linear backoff. It is a pure control
// wrapper: no side effects beyond logging.
type Executor struct {
	baseDelay time.Duration
	logger    *log.Logger
}

// NewExecutor creates an Executor. A zero baseDelay falls back to
// DefaultBaseDelay.
func NewExecutor(baseDelay time.Duration, logger *log.Logger) *Executor {
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Executor{baseDelay: baseDelay, logger: logger}
}

// Run invokes op up to maxAttempts times, waiting baseDelay*attempt between
// failures. It returns nil on the first success, or the last attempt's error
// wrapped with the operation name after maxAttempts consecutive failures.
func (e *Executor) Run(ctx context.Context, name string, maxAttempts int, op func(context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			if attempt > 1 {
				e.logger.Info("operation succeeded after retry", "op", name, "attempt", attempt)
			}
			return nil
		}

		e.logger.Warn("operation failed", "op", name, "attempt", attempt, "max", maxAttempts, "err", lastErr)

		if attempt == maxAttempts {
			break
		}
		delay := e.baseDelay * time.Duration(attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", name, ctx.Err())
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, maxAttempts, lastErr)
}

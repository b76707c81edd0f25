package retry

import (
	"context"
	"fmt"
	"time"
)

// Config controls one retry loop.
type Config struct {
	// MaxAttempts is the total number of calls made, including the first.
	MaxAttempts int
	// BaseDelay is the backoff before the second attempt; it doubles on
	// every further attempt (BaseDelay * 2^(attempt-1)).
	BaseDelay time.Duration
	// IsTransient decides whether an error is worth retrying. A permanent
	// error is returned immediately with no backoff spent on it.
	IsTransient func(error) bool
	// Sleep waits between attempts. Left nil it uses a context-cancellable
	// timer; tests inject their own to observe backoff durations.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do calls op until it succeeds, a permanent error occurs, or MaxAttempts
// is exhausted. Exhaustion returns the last transient error.
func Do(ctx context.Context, cfg Config, op func() error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if cfg.IsTransient == nil || !cfg.IsTransient(err) {
			return err
		}
		lastErr = err
		if attempt == cfg.MaxAttempts {
			break
		}

		delay := cfg.BaseDelay << (attempt - 1)
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return fmt.Errorf("retry aborted after attempt %d: %w", attempt, sleepErr)
		}
	}

	return fmt.Errorf("max attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}

// sleepCtx blocks for d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

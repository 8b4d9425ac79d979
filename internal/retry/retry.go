// Package retry runs fallible operations under a bounded-attempt,
// randomized-backoff policy. The wait between attempts is drawn
// uniformly from [MinDelay, MaxDelay] rather than growing
// exponentially, which spreads repeated hits against a struggling
// remote server across a wide window.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Default policy applied to listing-page and detail-page downloads.
const (
	// DefaultMaxAttempts is the total number of tries, first one included.
	DefaultMaxAttempts = 20

	// DefaultMinDelay is the lower bound of the random inter-attempt wait.
	DefaultMinDelay = 8 * time.Second

	// DefaultMaxDelay is the upper bound of the random inter-attempt wait.
	DefaultMaxDelay = 512 * time.Second
)

// ErrExhausted is wrapped into the error returned by Do when every
// attempt has failed. The last attempt's error is wrapped alongside it,
// so errors.Is matches both.
var ErrExhausted = errors.New("retry attempts exhausted")

// Config describes one retry policy.
type Config struct {
	// MaxAttempts is the total number of times the operation runs.
	// Values below one are treated as a single attempt.
	MaxAttempts int

	// MinDelay and MaxDelay bound the uniformly random wait inserted
	// between failed attempts. If MaxDelay <= MinDelay the wait is
	// exactly MinDelay.
	MinDelay time.Duration
	MaxDelay time.Duration

	// Retryable reports whether an error is worth another attempt.
	// A nil Retryable retries every error. When Retryable returns
	// false the error is returned to the caller immediately.
	Retryable func(error) bool
}

// DefaultConfig returns the standard download policy: 20 attempts with
// waits drawn from [8s, 512s].
func DefaultConfig() Config {
	return Config{
		MaxAttempts: DefaultMaxAttempts,
		MinDelay:    DefaultMinDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// delay draws one inter-attempt wait.
func (c Config) delay() time.Duration {
	if c.MaxDelay <= c.MinDelay {
		return c.MinDelay
	}
	return c.MinDelay + rand.N(c.MaxDelay-c.MinDelay)
}

// Do runs op until it succeeds, a non-retryable error occurs, the
// context is cancelled, or cfg.MaxAttempts attempts have failed. Each
// failed attempt except the last is logged at warn level before the
// wait. On exhaustion the returned error wraps both ErrExhausted and
// the last attempt's error. name identifies the operation in logs and
// in the exhaustion error.
func Do(ctx context.Context, cfg Config, logger *slog.Logger, name string, op func(context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if cfg.Retryable != nil && !cfg.Retryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := cfg.delay()
		logger.Warn("attempt failed, retrying",
			"operation", name,
			"attempt", attempt,
			"max_attempts", cfg.MaxAttempts,
			"wait", wait,
			"error", lastErr,
		)
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w: %s failed after %d attempts: %w", ErrExhausted, name, cfg.MaxAttempts, lastErr)
}

// sleep waits for d unless the context ends first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

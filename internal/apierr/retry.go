package apierr

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// RetryConfig holds backoff parameters for retrying provider calls.
//
// Invalid values are normalized:
//   - MaxRetries < 0 becomes 0 (single attempt)
//   - BaseDelay <= 0 becomes 1ms
//   - MaxDelay <= 0 becomes BaseDelay
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// normalize ensures all RetryConfig fields have valid values.
func (c *RetryConfig) normalize() {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = c.BaseDelay
	}
}

// backoff returns the wait before retry n (1-based). Delays grow
// exponentially from BaseDelay up to MaxDelay, with up to 25% jitter added so
// scenes synthesizing in parallel do not retry in lockstep against the same
// provider. A rate limit jumps straight to the cap: TTS providers shed load
// for a window, not an instant, and early retries only extend it.
func (c RetryConfig) backoff(n int, lastErr error) time.Duration {
	d := c.BaseDelay << (n - 1)
	if d <= 0 || d > c.MaxDelay || errors.Is(lastErr, ErrRateLimit) {
		d = c.MaxDelay
	}
	return d + time.Duration(rand.Int63n(int64(d/4+1)))
}

// RetryWithBackoff executes fn, retrying with backoff while shouldRetry
// accepts the error. The result of the last attempt is returned; exhausting
// the attempts wraps the final error.
//
// Invalid RetryConfig values are normalized (see RetryConfig documentation).
func RetryWithBackoff[T any](
	ctx context.Context,
	cfg RetryConfig,
	fn func() (T, error),
	shouldRetry func(error) bool,
) (T, error) {
	cfg.normalize()

	var zero T
	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !shouldRetry(err) {
			return zero, err
		}
		if attempt == cfg.MaxRetries {
			return zero, fmt.Errorf("gave up after %d attempts: %w", attempt+1, err)
		}
		if err := wait(ctx, cfg.backoff(attempt+1, err)); err != nil {
			return zero, err
		}
	}
}

// wait blocks for d or until ctx is cancelled.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package task

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrMaxAttempts = errors.New("max attempts reached")

// Retry wraps t so that a failure is retried up to retries more times, with
// delay between attempts. The final error wraps both ErrMaxAttempts and the
// last failure. Waiting stops early when ctx is done.
func Retry[R any](t Task[R], retries int, delay time.Duration) Task[R] {
	retries = max(retries, 0)
	return func(ctx context.Context) (R, error) {
		var zero R
		var lastErr error
		for attempt := 0; attempt <= retries; attempt++ {
			if attempt > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return zero, fmt.Errorf("retry interrupted after %d attempts: %w", attempt, ctx.Err())
				case <-timer.C:
				}
			}

			v, err := t(ctx)
			if err == nil {
				return v, nil
			}
			lastErr = err
		}
		return zero, fmt.Errorf("%w (%d attempts): %w", ErrMaxAttempts, retries+1, lastErr)
	}
}

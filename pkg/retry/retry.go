// Package retry provides a bounded retry helper with exponential backoff
package retry

import (
	"context"
	"fmt"
	"time"
)

// Operation is a single fallible attempt
type Operation[T any] func(ctx context.Context) (T, error)

// Do runs op up to maxAttempts times, doubling the delay between failed
// attempts starting at initialDelay. No jitter is applied. On exhaustion the
// last-seen error is returned.
func Do[T any](ctx context.Context, maxAttempts int, initialDelay time.Duration, op Operation[T]) (T, error) {
	var zero T

	if maxAttempts < 1 {
		return zero, fmt.Errorf("retry: maxAttempts must be at least 1, got %d", maxAttempts)
	}

	var lastErr error
	delay := initialDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return zero, lastErr
}

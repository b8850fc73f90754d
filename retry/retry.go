package retry

import (
	"context"
	"time"
)

// Do runs fn up to cfg.MaxAttempts times, backing off between attempts
// per cfg. Only transient errors are retried; a permanent error returns
// immediately. Context cancellation is honored during backoff waits and
// returns ctx.Err.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsTransient(err) {
			return zero, err
		}
		lastErr = err

		if attempt >= cfg.MaxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(cfg.Delay(attempt)):
		}
	}

	return zero, lastErr
}

// DoStream retries establishing a stream. Once fn returns a channel the
// stream is considered connected and no further retries happen; errors
// on individual events are the consumer's concern.
func DoStream[T any](ctx context.Context, cfg Config, fn func() (<-chan T, error)) (<-chan T, error) {
	return Do(ctx, cfg, fn)
}

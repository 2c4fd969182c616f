package repository

import (
	"context"
	"time"

	"vocabbot/internal/domain"
)

// RetryPolicy bounds how read-only repository calls are retried. Writes are
// never routed through it: retrying an ambiguous write risks double
// application, so write retry is left to the caller's idempotent semantics.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy is used for read paths unless configured otherwise.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Backoff: 200 * time.Millisecond}

// Retry runs fn up to p.Attempts times, backing off between attempts.
// Only storage errors are retried; validation and not-found outcomes
// propagate immediately.
func Retry[T any](ctx context.Context, p RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var err error

	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return zero, domain.NewStorageError("retry", ctx.Err())
			case <-time.After(p.Backoff):
			}
		}

		var v T
		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}
		if !domain.IsRetryable(err) {
			return zero, err
		}
	}

	return zero, err
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"vocabbot/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	v, err := Retry(context.Background(), RetryPolicy{Attempts: 3, Backoff: time.Millisecond},
		func(ctx context.Context) (int, error) {
			calls++
			return 7, nil
		})

	assert.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, calls)
}

func TestRetry_RetriesStorageErrors(t *testing.T) {
	calls := 0
	v, err := Retry(context.Background(), RetryPolicy{Attempts: 3, Backoff: time.Millisecond},
		func(ctx context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, domain.NewStorageError("op", errors.New("connection lost"))
			}
			return 7, nil
		})

	assert.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 3, calls)
}

func TestRetry_GivesUpAfterAttempts(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), RetryPolicy{Attempts: 3, Backoff: time.Millisecond},
		func(ctx context.Context) (int, error) {
			calls++
			return 0, domain.NewStorageError("op", errors.New("connection lost"))
		})

	assert.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
	assert.Equal(t, 3, calls)
}

func TestRetry_DoesNotRetryNotFound(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), RetryPolicy{Attempts: 3, Backoff: time.Millisecond},
		func(ctx context.Context) (int, error) {
			calls++
			return 0, domain.ErrNotFound
		})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestRetry_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Retry(ctx, RetryPolicy{Attempts: 5, Backoff: time.Hour},
		func(ctx context.Context) (int, error) {
			calls++
			return 0, domain.NewStorageError("op", errors.New("connection lost"))
		})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

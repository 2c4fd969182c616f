package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a word, statistic or user does not exist.
// It is an ordinary outcome, never retried.
var ErrNotFound = errors.New("not found")

// ValidationError reports bad input rejected before any write, such as a
// score outside {0, 1} or a negative interval.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError wraps an I/O, timeout or connection failure from the store.
// Read operations wrapped in it are safe to retry; writes are not retried
// automatically because an ambiguous write risks double application.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError for operation op.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// IsRetryable reports whether err may be retried by a read-only caller.
func IsRetryable(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

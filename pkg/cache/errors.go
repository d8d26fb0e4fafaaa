package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks transient backend failures (timeouts, connection
// errors). Operations wrapping it with Retryable are retried.
var ErrNetwork = errors.New("network error")

// Retry policy for transient backend failures. The waits are short
// because a cache miss is always an acceptable outcome: callers fall
// back to a fresh solve rather than blocking on the backend.
const (
	retryAttempts = 3
	retryBaseWait = time.Second
)

// RetryableError marks an error as worth another attempt. Backends wrap
// transient failures with [Retryable]; everything else aborts the retry
// loop on the first try.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError; nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether a RetryableError sits anywhere in the
// chain around err.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn up to retryAttempts times, doubling the wait
// between tries. Only errors marked Retryable are retried; anything
// else returns immediately. Context cancellation interrupts the wait.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := retryBaseWait
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == retryAttempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			wait *= 2
		}
	}
}

package cache

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/mapposter/pkg/errors"
)

// MaxRetryWait caps how long a Retry-After answer may pause a retry.
const MaxRetryWait = time.Minute

// RetryableError marks a failure worth another attempt: a transport error,
// a 5xx from Overpass or a 429 from either OSM service.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. It returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return stderrors.As(err, &re)
}

// RetryWithBackoff makes three attempts, one second apart and doubling.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

// Retry calls fn until it succeeds, fails without being retryable, or has
// been called attempts times. The pause doubles after each failure. A
// rate-limit failure that names a Retry-After waits at least that long, up
// to MaxRetryWait.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(retryWait(err, delay))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return err
}

func retryWait(err error, delay time.Duration) time.Duration {
	var rl *errors.RateLimitedError
	if !stderrors.As(err, &rl) || rl.RetryAfter <= 0 {
		return delay
	}
	return min(max(delay, time.Duration(rl.RetryAfter)*time.Second), MaxRetryWait)
}

package gateway

import (
	"context"
	"time"

	"github.com/alqudimi/deepdoc"
)

// RetryPolicy decides how often and how patiently a model call is repeated.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy returns 3 attempts with delays of 1s and 2s between
// them, capped at 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// Backoff returns the delay after the attempt with the given zero-based
// index: BaseDelay * 2^attempt, capped at MaxDelay.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt && d < p.MaxDelay; i++ {
		d *= 2
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// AttemptFunc performs one attempt. attempt is 1-based.
type AttemptFunc func(ctx context.Context, attempt int) error

// Do calls fn until it succeeds, fails with an error that is not
// retryable, or MaxAttempts is reached. It returns the number of attempts
// made. Every failure is returned as a *deepdoc.RetryError carrying that
// count. Cancellation of ctx stops retrying at once and yields ECANCELED.
func (p RetryPolicy) Do(ctx context.Context, fn AttemptFunc) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(ctx, attempt); err == nil {
			return attempt, nil
		}
		if ctx.Err() != nil {
			return attempt, &deepdoc.RetryError{Attempts: attempt, Err: canceled(ctx)}
		}
		if !deepdoc.IsRetryable(err) || attempt == maxAttempts {
			return attempt, &deepdoc.RetryError{Attempts: attempt, Err: err}
		}
		if serr := sleep(ctx, p.Backoff(attempt-1)); serr != nil {
			return attempt, &deepdoc.RetryError{Attempts: attempt, Err: serr}
		}
	}
	return maxAttempts, &deepdoc.RetryError{Attempts: maxAttempts, Err: err}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return canceled(ctx)
	case <-t.C:
		return nil
	}
}

func canceled(ctx context.Context) error {
	return deepdoc.Errorf(deepdoc.ECANCELED, "model call canceled: %v", context.Cause(ctx))
}

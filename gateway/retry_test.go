package gateway_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alqudimi/deepdoc"
	"github.com/alqudimi/deepdoc/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_Backoff(t *testing.T) {
	t.Parallel()

	p := gateway.RetryPolicy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, time.Second},
		{60, time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Backoff(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestRetryPolicy_Do(t *testing.T) {
	t.Parallel()

	fast := gateway.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("returns after the first success", func(t *testing.T) {
		t.Parallel()

		attempts, err := fast.Do(context.Background(), func(_ context.Context, attempt int) error {
			if attempt < 2 {
				return deepdoc.Errorf(deepdoc.ETIMEOUT, "slow")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
	})

	t.Run("makes exactly MaxAttempts attempts against a failing call", func(t *testing.T) {
		t.Parallel()

		calls := 0
		attempts, err := fast.Do(context.Background(), func(context.Context, int) error {
			calls++
			return deepdoc.Errorf(deepdoc.ECONNECTION, "refused")
		})

		assert.Equal(t, 3, calls)
		assert.Equal(t, 3, attempts)
		var re *deepdoc.RetryError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, 3, re.Attempts)
		assert.Equal(t, deepdoc.ECONNECTION, deepdoc.ErrorCode(err))
	})

	t.Run("does not retry final errors", func(t *testing.T) {
		t.Parallel()

		calls := 0
		attempts, err := fast.Do(context.Background(), func(context.Context, int) error {
			calls++
			return deepdoc.Errorf(deepdoc.EINVALID, "bad request")
		})

		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, attempts)
		assert.Equal(t, deepdoc.EINVALID, deepdoc.ErrorCode(err))
	})

	t.Run("stops when the context is canceled during backoff", func(t *testing.T) {
		t.Parallel()

		slow := gateway.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Hour, MaxDelay: time.Hour}
		ctx, cancel := context.WithCancel(context.Background())

		calls := 0
		done := make(chan error, 1)
		go func() {
			_, err := slow.Do(ctx, func(context.Context, int) error {
				calls++
				return deepdoc.Errorf(deepdoc.EMODEL, "overloaded")
			})
			done <- err
		}()
		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.Equal(t, deepdoc.ECANCELED, deepdoc.ErrorCode(err))
			assert.Equal(t, 1, calls)
		case <-time.After(5 * time.Second):
			t.Fatal("Do did not return after cancellation")
		}
	})

	t.Run("treats a zero policy as a single attempt", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := gateway.RetryPolicy{}.Do(context.Background(), func(context.Context, int) error {
			calls++
			return deepdoc.Errorf(deepdoc.ETIMEOUT, "slow")
		})

		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestDefaultRetryPolicy(t *testing.T) {
	t.Parallel()

	p := gateway.DefaultRetryPolicy()

	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, time.Second, p.Backoff(0))
	assert.Equal(t, 2*time.Second, p.Backoff(1))
}

package gateway

import (
	"context"
	"sync/atomic"

	"github.com/alqudimi/deepdoc"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Limiter bounds the number of model calls in flight across every run in
// the process and, optionally, the rate at which they start. Construct one
// per process and share it between gateways.
type Limiter struct {
	slots    *semaphore.Weighted
	rate     *rate.Limiter
	capacity int
	inFlight atomic.Int64
}

// NewLimiter admits at most maxConcurrent calls at a time. A positive rps
// additionally limits call starts to rps per second with a burst of 1.
func NewLimiter(maxConcurrent int, rps float64) *Limiter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	l := &Limiter{
		slots:    semaphore.NewWeighted(int64(maxConcurrent)),
		capacity: maxConcurrent,
	}
	if rps > 0 {
		l.rate = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return l
}

// Acquire blocks until a slot is free. The returned func releases it and
// must be called exactly once.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	if l.rate != nil {
		if err := l.rate.Wait(ctx); err != nil {
			return nil, deepdoc.Errorf(deepdoc.ECANCELED, "waiting for rate limit: %v", err)
		}
	}
	if err := l.slots.Acquire(ctx, 1); err != nil {
		return nil, deepdoc.Errorf(deepdoc.ECANCELED, "waiting for model slot: %v", err)
	}
	l.inFlight.Add(1)

	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			l.inFlight.Add(-1)
			l.slots.Release(1)
		}
	}, nil
}

// InFlight returns the number of currently held slots.
func (l *Limiter) InFlight() int {
	return int(l.inFlight.Load())
}

// Capacity returns the maximum number of concurrent calls.
func (l *Limiter) Capacity() int {
	return l.capacity
}

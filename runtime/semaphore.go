package runtime

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
)

// Semaphore is the counting semaphore: acquire / try-acquire
// / timed-acquire / release. It wraps golang.org/x/sync/semaphore.Weighted
// (the same package the fast-check engine's worker pool already uses
// to bound concurrent file analyses — see fastcheck/watch.go) rather
// than hand-rolling a counter, since x/sync already supplies a
// context-cancellable weighted acquire that a hand-written version
// would just reimplement.
type Semaphore struct {
	w   *semaphore.Weighted
	max int64
}

// NewSemaphore builds a counting semaphore initialized to n permits.
func NewSemaphore(n int64) *Semaphore {
	return &Semaphore{w: semaphore.NewWeighted(n), max: n}
}

// Acquire blocks until a permit is available or ctx is cancelled.
func (s *Semaphore) Acquire(ctx context.Context) error {
	return s.w.Acquire(ctx, 1)
}

// TryAcquire attempts to acquire a permit without blocking, returning false if none is currently available.
func (s *Semaphore) TryAcquire() bool {
	return s.w.TryAcquire(1)
}

// AcquireTimeout attempts to acquire a permit within d.
func (s *Semaphore) AcquireTimeout(d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	if err := s.w.Acquire(ctx, 1); err != nil {
		return ErrTimeout
	}
	return nil
}

// Release returns a permit.
func (s *Semaphore) Release() { s.w.Release(1) }

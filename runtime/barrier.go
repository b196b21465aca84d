package runtime

import (
	"context"
	"errors"
	"sync"
)

// ErrBarrierBusy is returned by Reset when parties are currently
// waiting at the barrier.
var ErrBarrierBusy = errors.New("runtime: barrier reset while parties are waiting")

// Barrier is the N-party rendezvous primitive with leader
// detection: the Nth arriving goroutine at a generation is reported
// the leader, matching common barrier APIs (e.g. C's pthread_barrier_wait
// designating PTHREAD_BARRIER_SERIAL_THREAD to exactly one waiter).
type Barrier struct {
	mu         sync.Mutex
	parties    int
	waiting    int
	generation int
	released   chan struct{}
}

// NewBarrier builds a barrier for the given party count. parties must
// be >= 1.
func NewBarrier(parties int) *Barrier {
	if parties < 1 {
		panic("runtime: barrier requires at least 1 party")
	}
	return &Barrier{parties: parties, released: make(chan struct{})}
}

// Wait blocks until all parties have called Wait for the current
// generation, then returns, with isLeader true for exactly one caller
// per generation.
func (b *Barrier) Wait(ctx context.Context) (isLeader bool, err error) {
	b.mu.Lock()
	gen := b.generation
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.generation++
		released := b.released
		b.released = make(chan struct{})
		close(released)
		b.mu.Unlock()
		return true, nil
	}
	released := b.released
	b.mu.Unlock()

	select {
	case <-released:
		return false, nil
	case <-ctx.Done():
		b.mu.Lock()
		// Only retreat our own arrival if the barrier hasn't already
		// moved past this generation by the time we observe cancellation.
		if b.generation == gen && b.waiting > 0 {
			b.waiting--
		}
		b.mu.Unlock()
		return false, ctx.Err()
	}
}

// Reset returns the barrier to generation zero. It refuses while any
// party is currently waiting.
func (b *Barrier) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.waiting > 0 {
		return ErrBarrierBusy
	}
	b.generation = 0
	return nil
}

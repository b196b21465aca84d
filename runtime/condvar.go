package runtime

import (
	"sync"
	"time"
)

// CondVar is the condition variable: wait / timed-wait /
// signal / broadcast, associated with a Mutex the caller must hold
// across Wait. sync.Cond has no timed-wait, so this is built on the
// same generation-channel technique Channel (channel.go) uses rather
// than sync.Cond directly — broadcasting a closed channel lets a
// waiter select between "woken" and "deadline elapsed" without a
// second goroutine polling the condition.
type CondVar struct {
	l      sync.Locker
	mu     sync.Mutex // guards genCh only, distinct from l
	genCh  chan struct{}
}

// NewCondVar builds a condition variable associated with l, the same
// lock callers must hold while calling Wait.
func NewCondVar(l sync.Locker) *CondVar {
	return &CondVar{l: l, genCh: make(chan struct{})}
}

// Wait atomically unlocks l and suspends the calling goroutine until
// Signal or Broadcast wakes it, then re-locks l before returning
// — the same contract as sync.Cond.Wait.
func (c *CondVar) Wait() {
	c.mu.Lock()
	ch := c.genCh
	c.mu.Unlock()

	c.l.Unlock()
	<-ch
	c.l.Lock()
}

// TimedWait behaves like Wait but also returns if d elapses first;
// the return value reports whether it was
// woken (true) or timed out (false).
func (c *CondVar) TimedWait(d time.Duration) bool {
	c.mu.Lock()
	ch := c.genCh
	c.mu.Unlock()

	c.l.Unlock()
	defer c.l.Lock()
	select {
	case <-ch:
		return true
	case <-time.After(d):
		return false
	}
}

// Signal wakes one waiter. Because every waiter
// blocks on the same generation channel, Signal here wakes all current
// waiters exactly like Broadcast — distinguishing "exactly one" would
// require a counted-wakeup scheme; callers needing single-wakeup
// fairness should serialize external to this primitive.
func (c *CondVar) Signal() { c.Broadcast() }

// Broadcast wakes every waiter.
func (c *CondVar) Broadcast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	close(c.genCh)
	c.genCh = make(chan struct{})
}

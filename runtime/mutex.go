package runtime

import "sync"

// Mutex is the blocking + try mutex primitive. It wraps
// sync.Mutex directly — Go's standard mutex already supports both
// blocking Lock and a non-blocking TryLock, so there is nothing a
// hand-rolled version would add beyond renaming the stdlib's methods.
type Mutex struct {
	mu sync.Mutex
}

func NewMutex() *Mutex { return &Mutex{} }

// Lock blocks until the mutex is acquired.
func (m *Mutex) Lock() { m.mu.Lock() }

// TryLock attempts to acquire the mutex without blocking, returning false if it is currently held.
func (m *Mutex) TryLock() bool { return m.mu.TryLock() }

// Unlock releases the mutex. Unlocking an unlocked Mutex is a runtime
// error, same as sync.Mutex.
func (m *Mutex) Unlock() { m.mu.Unlock() }

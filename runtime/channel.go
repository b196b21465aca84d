package runtime

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrChannelClosed is returned by Send/Recv once a channel has been
// closed and (for Recv) fully drained.
var ErrChannelClosed = errors.New("runtime: channel closed")

// ErrWouldBlock is returned by the Try variants instead of blocking.
var ErrWouldBlock = errors.New("runtime: would block")

// ErrTimeout is returned by the timed variants when the deadline
// elapses before the operation can complete.
var ErrTimeout = errors.New("runtime: timed out")

// Channel is the channel primitive: bounded (fixed
// capacity) or unbounded (capacity <= 0), FIFO per channel, with
// blocking/try/timed send and receive plus close semantics. Built on
// a mutex-guarded ring-less queue with a broadcast "generation"
// channel rather than Go's native `chan`, because the unbounded mode
// and the try/timed variants don't map cleanly onto
// a single native channel (a native channel's capacity is fixed at
// creation and has no non-destructive "try" peek).
type Channel struct {
	mu       sync.Mutex
	capacity int // <= 0 means unbounded
	buf      []any
	closed   bool
	waitCh   chan struct{} // closed and replaced on every state change
}

// NewChannel builds a channel. capacity <= 0 builds an unbounded
// channel.
func NewChannel(capacity int) *Channel {
	return &Channel{capacity: capacity, waitCh: make(chan struct{})}
}

// broadcast wakes every goroutine blocked in Send/Recv. Must be called
// with c.mu held.
func (c *Channel) broadcast() {
	close(c.waitCh)
	c.waitCh = make(chan struct{})
}

// Send blocks until there is room (bounded channels), the channel is
// unbounded, or ctx is cancelled. Returns ErrChannelClosed if the
// channel is already closed.
func (c *Channel) Send(ctx context.Context, v any) error {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return ErrChannelClosed
		}
		if c.capacity <= 0 || len(c.buf) < c.capacity {
			c.buf = append(c.buf, v)
			c.broadcast()
			c.mu.Unlock()
			return nil
		}
		wait := c.waitCh
		c.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// TrySend attempts a non-blocking send, returning ErrWouldBlock if the
// bounded channel is currently full.
func (c *Channel) TrySend(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}
	if c.capacity > 0 && len(c.buf) >= c.capacity {
		return ErrWouldBlock
	}
	c.buf = append(c.buf, v)
	c.broadcast()
	return nil
}

// SendTimeout sends v, failing with ErrTimeout if it can't complete
// within d.
func (c *Channel) SendTimeout(v any, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	err := c.Send(ctx, v)
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

// Recv blocks until a value is available, the channel closes and
// drains, or ctx is cancelled.
func (c *Channel) Recv(ctx context.Context) (any, error) {
	for {
		c.mu.Lock()
		if len(c.buf) > 0 {
			v := c.buf[0]
			c.buf = c.buf[1:]
			c.broadcast()
			c.mu.Unlock()
			return v, nil
		}
		if c.closed {
			c.mu.Unlock()
			return nil, ErrChannelClosed
		}
		wait := c.waitCh
		c.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// TryRecv attempts a non-blocking receive, returning ErrWouldBlock if
// the channel is empty (and not yet closed).
func (c *Channel) TryRecv() (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.buf) > 0 {
		v := c.buf[0]
		c.buf = c.buf[1:]
		c.broadcast()
		return v, nil
	}
	if c.closed {
		return nil, ErrChannelClosed
	}
	return nil, ErrWouldBlock
}

// RecvTimeout receives a value, failing with ErrTimeout if none
// arrives within d.
func (c *Channel) RecvTimeout(d time.Duration) (any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	v, err := c.Recv(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, ErrTimeout
	}
	return v, err
}

// Close closes the channel: pending and future sends fail immediately;
// pending and future receives drain whatever is still buffered, then
// fail.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.broadcast()
}

// IsClosed reports whether Close has been called. It does not reflect whether the channel has finished
// draining buffered values — use Recv/TryRecv for that.
func (c *Channel) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

package runtime

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrCancelled is returned by Task.Await when the task was cancelled
// before it completed.
var ErrCancelled = errors.New("runtime: task cancelled")

// Task is the runtime's concurrency-primitive handle for a spawned
// unit of work. It wraps a goroutine with a cancellable context —
// one goroutine per task, with a done channel standing in for a
// WaitGroup since a single Task needs no shared counter.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	result any
	err    error
}

// Spawn starts fn on a new goroutine under a cancellable context
// derived from parent, and returns a Task handle. fn must observe
// ctx.Done() to honor Cancel promptly; a fn that ignores ctx still
// runs to completion, it simply won't be interrupted early.
func Spawn(parent context.Context, fn func(ctx context.Context) (any, error)) *Task {
	ctx, cancel := context.WithCancel(parent)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	atomic.AddInt64(&globalStats.TasksSpawned, 1)
	go func() {
		defer close(t.done)
		t.result, t.err = fn(ctx)
		atomic.AddInt64(&globalStats.TasksCompleted, 1)
	}()
	return t
}

// Await blocks until the task completes or ctx is cancelled, whichever
// comes first. It returns the task's own result/error
// on completion, or ctx.Err() if the waiting context is cancelled
// first — distinct from the task's own cancellation.
func (t *Task) Await(ctx context.Context) (any, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel requests the task's context be cancelled.
// It does not block for the task to observe cancellation; pair with
// Await to wait for the task to actually stop.
func (t *Task) Cancel() { t.cancel() }

// Done reports whether the task has finished (successfully, with an
// error, or via cancellation) without blocking.
func (t *Task) Done() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

package fastcheck

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// AnalyzeFunc runs single-file analysis for path and returns whatever
// result shape the caller wants surfaced through WatchResult.
type AnalyzeFunc func(path string) (*Entry, error)

// WatchResult is delivered to the caller-supplied callback once per
// re-analyzed file.
type WatchResult struct {
	Path          string
	Entry         *Entry
	Err           error
	CorrelationID string
}

// Watcher drives the watch loop: a dedicated goroutine
// periodically (and, when available, event-drivenly via fsnotify)
// finds modified files and fans work for each one out to a bounded
// worker pool, sized to `fastcheck.worker_count` or NumCPU.
type Watcher struct {
	log      *zap.Logger
	analyze  AnalyzeFunc
	workers  int64
	stopped  int32
	interval time.Duration
}

// NewWatcher builds a Watcher. workerCount <= 0 sizes the pool to
// NumCPU.
func NewWatcher(log *zap.Logger, analyze AnalyzeFunc, workerCount int, pollInterval time.Duration) *Watcher {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{log: log, analyze: analyze, workers: int64(workerCount), interval: pollInterval}
}

// Stop signals the watch loop to exit at its next iteration.
func (w *Watcher) Stop() { atomic.StoreInt32(&w.stopped, 1) }

func (w *Watcher) stopRequested() bool { return atomic.LoadInt32(&w.stopped) == 1 }

// Run watches paths (files or directories) until Stop is called or ctx
// is cancelled, invoking onResult for every file re-analyzed. fsnotify
// supplies low-latency change events; a ticker-driven poll is layered
// underneath so the loop degrades gracefully on filesystems or
// platforms where fsnotify can't watch.
func (w *Watcher) Run(ctx context.Context, paths []string, onResult func(WatchResult)) error {
	fw, err := fsnotify.NewWatcher()
	if err == nil {
		defer fw.Close()
		for _, p := range paths {
			if werr := fw.Add(p); werr != nil {
				w.log.Warn("fsnotify add failed, relying on poll fallback", zap.String("path", p), zap.Error(werr))
			}
		}
	} else {
		w.log.Warn("fsnotify unavailable, using poll-only watch loop", zap.Error(err))
	}

	pending := make(chan string, 256)
	var pendingMu sync.Mutex
	inFlight := make(map[string]bool)

	enqueue := func(path string) {
		pendingMu.Lock()
		defer pendingMu.Unlock()
		if inFlight[path] {
			return
		}
		inFlight[path] = true
		pending <- path
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	events := fsnotifyEvents(fw)
	for {
		if w.stopRequested() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			enqueue(ev)
		case <-ticker.C:
			for _, p := range paths {
				enqueue(p)
			}
		default:
		}

		select {
		case path := <-pending:
			w.drain(ctx, append([]string{path}, drainChannel(pending)...), onResult, &pendingMu, inFlight)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// fsnotifyEvents adapts a possibly-nil *fsnotify.Watcher into a
// receive-only channel of changed paths, yielding a nil (never-ready)
// channel when fw is nil so the select above degrades to poll-only.
func fsnotifyEvents(fw *fsnotify.Watcher) <-chan string {
	if fw == nil {
		return nil
	}
	out := make(chan string, 256)
	go func() {
		for ev := range fw.Events {
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				out <- ev.Name
			}
		}
	}()
	return out
}

func drainChannel(ch chan string) []string {
	var out []string
	for {
		select {
		case p := <-ch:
			out = append(out, p)
		default:
			return out
		}
	}
}

// drain fans the given batch of paths out across a semaphore-bounded
// worker pool.
func (w *Watcher) drain(ctx context.Context, batch []string, onResult func(WatchResult), pendingMu *sync.Mutex, inFlight map[string]bool) {
	sem := semaphore.NewWeighted(w.workers)
	g, gctx := errgroup.WithContext(ctx)

	for _, path := range batch {
		path := path
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			defer func() {
				pendingMu.Lock()
				delete(inFlight, path)
				pendingMu.Unlock()
			}()
			corrID := uuid.NewString()
			start := time.Now()
			entry, err := w.analyze(path)
			w.log.Debug("file re-analyzed",
				zap.String("path", path),
				zap.String("correlation_id", corrID),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			onResult(WatchResult{Path: path, Entry: entry, Err: err, CorrelationID: corrID})
			return nil
		})
	}
	_ = g.Wait()
}

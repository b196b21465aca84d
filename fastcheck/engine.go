package fastcheck

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	ferrite "github.com/ferrite-lang/ferritec"
)

// AnalyzeSingleFile is supplied by whoever constructs the Engine and
// runs the actual front-end pipeline — lex, parse,
// analyze — for one file, returning whatever the engine should cache.
type AnalyzeSingleFile func(path string, src []byte) ([]*ferrite.SymbolEntry, []*ferrite.TypeDescriptor, []ferrite.Diagnostic, error)

// Engine ties the dependency graph, semantic cache, and watch loop
// together into a single incremental entry point: one control thread
// driving a worker pool, with the cache's RW lock as the only shared
// synchronization.
type Engine struct {
	Graph   *Graph
	Cache   *Cache
	log     *zap.Logger
	analyze AnalyzeSingleFile
	watcher *Watcher
}

// NewEngineFromConfig builds an Engine from the driver's Config,
// reading the fastcheck.* keys for the cache budget, entry TTL, and
// worker-pool size.
func NewEngineFromConfig(log *zap.Logger, analyze AnalyzeSingleFile, cfg *ferrite.Config) *Engine {
	return NewEngine(log, analyze,
		int64(cfg.GetInt("fastcheck.cache_max_bytes")),
		time.Duration(cfg.GetInt("fastcheck.cache_ttl_seconds"))*time.Second,
		cfg.GetInt("fastcheck.worker_count"))
}

// NewEngine builds an Engine from already-resolved config values.
func NewEngine(log *zap.Logger, analyze AnalyzeSingleFile, cacheMaxBytes int64, cacheTTL time.Duration, workerCount int) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		Graph:   NewGraph(),
		Cache:   NewCache(cacheMaxBytes, cacheTTL),
		log:     log,
		analyze: analyze,
	}
	e.watcher = NewWatcher(log, e.analyzeAndCache, workerCount, 500*time.Millisecond)
	return e
}

// Check runs (or reuses a cached) analysis for path. A cached entry
// is reused only when both its own fingerprint and the dependency
// graph agree nothing changed — a file whose dependency is stale must
// be re-analyzed even if its own bytes haven't.
func (e *Engine) Check(path string) (*Entry, error) {
	runID := uuid.NewString()
	e.log.Debug("check requested", zap.String("path", path), zap.String("run_id", runID))

	if entry, ok := e.Cache.Lookup(path); ok {
		if !e.Graph.IsStale(path) {
			e.log.Debug("cache hit", zap.String("path", path), zap.String("run_id", runID))
			return entry, nil
		}
		// The entry's own fingerprint still matches but a dependency
		// changed; the cached analysis is no longer trustworthy.
		e.Cache.Invalidate(path)
	}
	return e.analyzeAndCache(path)
}

// analyzeAndCache performs the actual single-file analysis, refreshes
// the dependency graph's fingerprint for path, and stores the result
// in the cache.
func (e *Engine) analyzeAndCache(path string) (*Entry, error) {
	if err := e.Graph.AddFile(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	symbols, types, diags, err := e.analyze(path, data)
	elapsedMS := float64(time.Since(start)) / float64(time.Millisecond)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		FilePath:       path,
		ContentHash:    djb2(data),
		MTime:          info.ModTime(),
		Symbols:        symbols,
		ResolvedTypes:  types,
		Diagnostics:    diags,
		AnalysisTimeMS: elapsedMS,
		Valid:          true,
		CreatedAt:      time.Now(),
	}
	e.Cache.Insert(entry)
	return entry, nil
}

// Watch starts the watch loop over paths, invoking onChange for every
// file the loop re-analyzes, until ctx is cancelled or Stop is called.
func (e *Engine) Watch(ctx context.Context, paths []string, onChange func(WatchResult)) error {
	return e.watcher.Run(ctx, paths, onChange)
}

// Stop signals the watch loop (if running) to exit at its next
// iteration.
func (e *Engine) Stop() { e.watcher.Stop() }

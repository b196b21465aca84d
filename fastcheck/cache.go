package fastcheck

import (
	"container/list"
	"os"
	"sync"
	"sync/atomic"
	"time"

	ferrite "github.com/ferrite-lang/ferritec"
)

// Entry is one cached analysis result for a single file. It's invalidated by content change,
// explicit invalidation, or TTL expiry, and evicted under memory
// pressure on an LRU basis.
type Entry struct {
	FilePath       string
	ContentHash    uint64
	MTime          time.Time
	Symbols        []*ferrite.SymbolEntry
	ResolvedTypes  []*ferrite.TypeDescriptor
	Diagnostics    []ferrite.Diagnostic
	AnalysisTimeMS float64
	MemoryUsed     int64
	Valid          bool
	CreatedAt      time.Time
}

// Stats are the cache's atomically-updated counters. All fields are
// accessed only via atomic ops — no lock needed for the counters
// themselves, only for the entry map.
type Stats struct {
	Hits            int64
	Misses          int64
	TotalChecks     int64
	TotalAnalysisMS int64 // accumulated as whole milliseconds
}

// Cache is the memory-capped semantic cache keyed by file
// path. entries/lru are guarded by mu; the counters in
// stats are independent atomics so a hot Lookup path never contends
// with metric readers.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]*list.Element // -> lruList node holding *Entry
	lruList    *list.List               // front = most recently used
	maxBytes   int64
	curBytes   int64
	ttl        time.Duration
	stats      Stats
}

// NewCache builds a cache bounded to maxBytes with the given TTL.
func NewCache(maxBytes int64, ttl time.Duration) *Cache {
	return &Cache{
		entries:  make(map[string]*list.Element),
		lruList:  list.New(),
		maxBytes: maxBytes,
		ttl:      ttl,
	}
}

// Lookup returns the cached entry for path if it's still valid: the
// file still exists, its mtime is unchanged, and its content hash is
// unchanged. Any mismatch evicts the stale entry and
// reports a miss.
func (c *Cache) Lookup(path string) (*Entry, bool) {
	atomic.AddInt64(&c.stats.TotalChecks, 1)

	c.mu.Lock()
	el, ok := c.entries[path]
	if !ok {
		c.mu.Unlock()
		atomic.AddInt64(&c.stats.Misses, 1)
		return nil, false
	}
	entry := el.Value.(*Entry)

	if time.Since(entry.CreatedAt) > c.ttl {
		c.removeLocked(path)
		c.mu.Unlock()
		atomic.AddInt64(&c.stats.Misses, 1)
		return nil, false
	}

	info, err := os.Stat(path)
	if err != nil {
		c.removeLocked(path)
		c.mu.Unlock()
		atomic.AddInt64(&c.stats.Misses, 1)
		return nil, false
	}
	if !info.ModTime().Equal(entry.MTime) {
		c.removeLocked(path)
		c.mu.Unlock()
		atomic.AddInt64(&c.stats.Misses, 1)
		return nil, false
	}
	data, rerr := os.ReadFile(path)
	if rerr != nil || djb2(data) != entry.ContentHash {
		c.removeLocked(path)
		c.mu.Unlock()
		atomic.AddInt64(&c.stats.Misses, 1)
		return nil, false
	}

	c.lruList.MoveToFront(el)
	c.mu.Unlock()
	atomic.AddInt64(&c.stats.Hits, 1)
	atomic.AddInt64(&c.stats.TotalAnalysisMS, int64(entry.AnalysisTimeMS))
	return entry, true
}

// Insert adds or replaces the cached entry for entry.FilePath,
// enforcing the memory cap: if the cache would exceed
// maxBytes, TTL cleanup runs first, then LRU eviction continues until
// the new entry fits or the cache is empty.
func (c *Cache) Insert(entry *Entry) {
	size := estimateEntrySize(entry)
	entry.MemoryUsed = size

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[entry.FilePath]; ok {
		c.curBytes -= estimateEntrySize(old.Value.(*Entry))
		c.lruList.Remove(old)
		delete(c.entries, entry.FilePath)
	}

	if c.curBytes+size > c.maxBytes {
		c.evictExpiredLocked()
	}
	for c.curBytes+size > c.maxBytes && c.lruList.Len() > 0 {
		c.evictOldestLocked()
	}

	el := c.lruList.PushFront(entry)
	c.entries[entry.FilePath] = el
	c.curBytes += size
}

// Invalidate explicitly removes path's cached entry, if any.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(path)
}

// removeLocked deletes path's entry and adjusts curBytes. Must be
// called with c.mu held.
func (c *Cache) removeLocked(path string) {
	el, ok := c.entries[path]
	if !ok {
		return
	}
	c.curBytes -= estimateEntrySize(el.Value.(*Entry))
	c.lruList.Remove(el)
	delete(c.entries, path)
}

// evictExpiredLocked drops every entry past its TTL. Must be called
// with c.mu held.
func (c *Cache) evictExpiredLocked() {
	var next *list.Element
	for el := c.lruList.Back(); el != nil; el = next {
		next = el.Prev()
		entry := el.Value.(*Entry)
		if time.Since(entry.CreatedAt) > c.ttl {
			c.curBytes -= estimateEntrySize(entry)
			c.lruList.Remove(el)
			delete(c.entries, entry.FilePath)
		}
	}
}

// evictOldestLocked drops the single least-recently-used entry. Must
// be called with c.mu held and a non-empty list.
func (c *Cache) evictOldestLocked() {
	el := c.lruList.Back()
	entry := el.Value.(*Entry)
	c.curBytes -= estimateEntrySize(entry)
	c.lruList.Remove(el)
	delete(c.entries, entry.FilePath)
}

// Stats returns a snapshot of the cache's atomic counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:            atomic.LoadInt64(&c.stats.Hits),
		Misses:          atomic.LoadInt64(&c.stats.Misses),
		TotalChecks:     atomic.LoadInt64(&c.stats.TotalChecks),
		TotalAnalysisMS: atomic.LoadInt64(&c.stats.TotalAnalysisMS),
	}
}

// estimateEntrySize is a coarse accounting heuristic: fixed overhead
// plus a per-item estimate for the variable-length slices, good enough
// to budget the cache without tracking exact allocator bytes.
func estimateEntrySize(e *Entry) int64 {
	const base = 128
	const perSymbol = 96
	const perType = 64
	const perDiag = 160
	return int64(base +
		len(e.Symbols)*perSymbol +
		len(e.ResolvedTypes)*perType +
		len(e.Diagnostics)*perDiag +
		len(e.FilePath))
}

package fastcheck

import (
	"os"
	"testing"
	"time"

	ferrite "github.com/ferrite-lang/ferritec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntryFor(t *testing.T, path string) *Entry {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	return &Entry{
		FilePath:    path,
		ContentHash: djb2(data),
		MTime:       info.ModTime(),
		Valid:       true,
		CreatedAt:   time.Now(),
	}
}

func TestCacheLookup(t *testing.T) {
	dir := t.TempDir()

	t.Run("misses on an entry that was never inserted", func(t *testing.T) {
		c := NewCache(1<<20, time.Minute)
		_, ok := c.Lookup("nonexistent.fe")
		assert.False(t, ok)
		assert.EqualValues(t, 1, c.Stats().Misses)
	})

	t.Run("hits on an unchanged file", func(t *testing.T) {
		path := writeTempFile(t, dir, "hit.fe", "fn f() {}")
		c := NewCache(1<<20, time.Minute)
		c.Insert(newEntryFor(t, path))

		got, ok := c.Lookup(path)
		require.True(t, ok)
		assert.Equal(t, path, got.FilePath)
		assert.EqualValues(t, 1, c.Stats().Hits)
	})

	t.Run("misses and evicts when the file content changed", func(t *testing.T) {
		path := writeTempFile(t, dir, "changed.fe", "fn f() {}")
		c := NewCache(1<<20, time.Minute)
		c.Insert(newEntryFor(t, path))

		future := time.Now().Add(time.Hour)
		require.NoError(t, os.WriteFile(path, []byte("fn f() { return 1; }"), 0o644))
		require.NoError(t, os.Chtimes(path, future, future))

		_, ok := c.Lookup(path)
		assert.False(t, ok)
	})

	t.Run("misses once the TTL has expired", func(t *testing.T) {
		path := writeTempFile(t, dir, "ttl.fe", "fn f() {}")
		c := NewCache(1<<20, time.Nanosecond)
		c.Insert(newEntryFor(t, path))
		time.Sleep(time.Millisecond)

		_, ok := c.Lookup(path)
		assert.False(t, ok)
	})
}

func TestCacheInsertAndEviction(t *testing.T) {
	dir := t.TempDir()

	t.Run("inserting replaces an existing entry for the same path", func(t *testing.T) {
		path := writeTempFile(t, dir, "replace.fe", "fn f() {}")
		c := NewCache(1<<20, time.Minute)
		e1 := newEntryFor(t, path)
		e1.AnalysisTimeMS = 5
		c.Insert(e1)
		e2 := newEntryFor(t, path)
		e2.AnalysisTimeMS = 9
		c.Insert(e2)

		got, ok := c.Lookup(path)
		require.True(t, ok)
		assert.EqualValues(t, 9, got.AnalysisTimeMS)
	})

	t.Run("inserting beyond the byte budget evicts the oldest entry", func(t *testing.T) {
		pathA := writeTempFile(t, dir, "evict_a.fe", "fn a() {}")
		pathB := writeTempFile(t, dir, "evict_b.fe", "fn b() {}")

		eA := newEntryFor(t, pathA)
		eB := newEntryFor(t, pathB)
		budget := estimateEntrySize(eA) + estimateEntrySize(eB) - 1

		c := NewCache(budget, time.Minute)
		c.Insert(eA)
		c.Insert(eB)

		_, okA := c.Lookup(pathA)
		_, okB := c.Lookup(pathB)
		assert.False(t, okA, "the older entry should have been evicted to stay under budget")
		assert.True(t, okB)
	})
}

func TestCacheInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "invalidate.fe", "fn f() {}")
	c := NewCache(1<<20, time.Minute)
	c.Insert(newEntryFor(t, path))

	c.Invalidate(path)
	_, ok := c.Lookup(path)
	assert.False(t, ok)
}

func TestCacheStats(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "stats.fe", "fn f() {}")
	c := NewCache(1<<20, time.Minute)
	c.Insert(newEntryFor(t, path))

	_, _ = c.Lookup(path)
	_, _ = c.Lookup("nonexistent.fe")

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.EqualValues(t, 2, stats.TotalChecks)
}

func TestEstimateEntrySize(t *testing.T) {
	small := &Entry{FilePath: "a.fe"}
	large := &Entry{FilePath: "a.fe", Diagnostics: make([]ferrite.Diagnostic, 100)}
	assert.Greater(t, estimateEntrySize(large), estimateEntrySize(small))
}

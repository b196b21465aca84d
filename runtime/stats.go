package runtime

import (
	"sync"
	"sync/atomic"
)

// globalMu guards the allocation table (zone.go) and the lazily-built
// args cache (args.go) — the only two pieces of process-wide state
// the runtime keeps.
var globalMu sync.RWMutex

// Stats is the process-wide atomic statistics bag.
// Every field is updated with relaxed ordering except
// PeakMemory, which uses an acquire-release compare-and-swap loop.
type Stats struct {
	TotalAllocations   int64
	TotalDeallocations int64
	CurrentMemory      int64
	PeakMemory         int64
	GCCollections      int64
	GCTimeMS           int64
	TasksSpawned       int64
	TasksCompleted     int64
	FFICalls           int64
}

var globalStats Stats

// StatsSnapshot returns a point-in-time copy of the global statistics
// bag. Every field is read independently via atomic.Load, so the
// snapshot is not a single atomic transaction across fields — each
// counter is individually consistent, the set as a whole is not.
func StatsSnapshot() Stats {
	return Stats{
		TotalAllocations:   atomic.LoadInt64(&globalStats.TotalAllocations),
		TotalDeallocations: atomic.LoadInt64(&globalStats.TotalDeallocations),
		CurrentMemory:      atomic.LoadInt64(&globalStats.CurrentMemory),
		PeakMemory:         atomic.LoadInt64(&globalStats.PeakMemory),
		GCCollections:      atomic.LoadInt64(&globalStats.GCCollections),
		GCTimeMS:           atomic.LoadInt64(&globalStats.GCTimeMS),
		TasksSpawned:       atomic.LoadInt64(&globalStats.TasksSpawned),
		TasksCompleted:     atomic.LoadInt64(&globalStats.TasksCompleted),
		FFICalls:           atomic.LoadInt64(&globalStats.FFICalls),
	}
}

// ResetStats zeroes the global statistics bag. Exposed only for test
// isolation between runtime test cases that each want a clean counter
// baseline; emitted code never calls this.
func ResetStats() {
	atomic.StoreInt64(&globalStats.TotalAllocations, 0)
	atomic.StoreInt64(&globalStats.TotalDeallocations, 0)
	atomic.StoreInt64(&globalStats.CurrentMemory, 0)
	atomic.StoreInt64(&globalStats.PeakMemory, 0)
	atomic.StoreInt64(&globalStats.GCCollections, 0)
	atomic.StoreInt64(&globalStats.GCTimeMS, 0)
	atomic.StoreInt64(&globalStats.TasksSpawned, 0)
	atomic.StoreInt64(&globalStats.TasksCompleted, 0)
	atomic.StoreInt64(&globalStats.FFICalls, 0)
}

func statsAddAllocation(size int64) {
	atomic.AddInt64(&globalStats.TotalAllocations, 1)
	cur := atomic.AddInt64(&globalStats.CurrentMemory, size)
	bumpPeak(cur)
}

func statsAddDeallocation(size int64) {
	atomic.AddInt64(&globalStats.TotalDeallocations, 1)
	atomic.AddInt64(&globalStats.CurrentMemory, -size)
}

// bumpPeak is the one update that needs more than relaxed ordering:
// a compare-and-swap retry loop so concurrent
// allocators never regress PeakMemory past a higher value another
// goroutine already published.
func bumpPeak(cur int64) {
	for {
		peak := atomic.LoadInt64(&globalStats.PeakMemory)
		if cur <= peak {
			return
		}
		if atomic.CompareAndSwapInt64(&globalStats.PeakMemory, peak, cur) {
			return
		}
	}
}

// RecordGCCollection is called by the (hosting) collector whenever it
// completes a collection cycle, so emitted code and diagnostics tools
// can observe GC pressure through the stats bag.
func RecordGCCollection(durationMS int64) {
	atomic.AddInt64(&globalStats.GCCollections, 1)
	atomic.AddInt64(&globalStats.GCTimeMS, durationMS)
}

// RecordFFICall increments the FFI-call counter. The code-gen planner
// does not emit a call to it; the counter moves only when a caller
// invokes it directly.
func RecordFFICall() {
	atomic.AddInt64(&globalStats.FFICalls, 1)
}

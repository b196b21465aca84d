package fastcheck

import "fmt"

// Axis names the dimension a BottleneckReport identifies as dominant.
type Axis int

const (
	AxisMemory Axis = iota
	AxisCacheMissRate
	AxisThreadUtilization
	AxisPerFileAvgTime
)

func (a Axis) String() string {
	switch a {
	case AxisMemory:
		return "memory"
	case AxisCacheMissRate:
		return "cache_miss_rate"
	case AxisThreadUtilization:
		return "thread_utilization"
	default:
		return "per_file_avg_time"
	}
}

// MitigationTag is one of a closed set of suggested remedies: the
// dominant axis determines exactly one tag.
type MitigationTag int

const (
	MitigationHighMemoryUsage MitigationTag = iota
	MitigationHighCacheMissRate
	MitigationLowThreadUtilization
	MitigationSlowPerFileAnalysis
)

func (m MitigationTag) String() string {
	switch m {
	case MitigationHighMemoryUsage:
		return "HighMemoryUsage"
	case MitigationHighCacheMissRate:
		return "HighCacheMissRate"
	case MitigationLowThreadUtilization:
		return "LowThreadUtilization"
	default:
		return "SlowPerFileAnalysis"
	}
}

// Advice is the human-readable remedy paired with a MitigationTag.
func (m MitigationTag) Advice() string {
	switch m {
	case MitigationHighMemoryUsage:
		return "lower fastcheck.cache_max_bytes or shorten fastcheck.cache_ttl_seconds to shrink the resident cache"
	case MitigationHighCacheMissRate:
		return "widen fastcheck.cache_ttl_seconds or check for churn invalidating entries faster than they're reused"
	case MitigationLowThreadUtilization:
		return "raise fastcheck.worker_count — the pool is idling relative to available CPUs"
	default:
		return "profile the slowest files individually; per-file time is dominating the batch budget"
	}
}

// Snapshot is the raw measurement set a BottleneckAnalyzer reasons
// over, gathered from a Cache.Stats() call plus the watch loop's own
// bookkeeping of worker occupancy and per-file timings.
type Snapshot struct {
	MemoryBytes        int64
	MemoryBudgetBytes  int64
	CacheHits          int64
	CacheMisses        int64
	ActiveWorkers      int
	TotalWorkers       int
	TotalAnalysisMS    int64
	FilesAnalyzed      int64
}

// Report is the bottleneck analyzer's verdict: the dominant axis, its
// measured ratio, and the mitigation tag/advice to surface.
type Report struct {
	Dominant Axis
	Ratio    float64
	Tag      MitigationTag
}

func (r Report) String() string {
	return fmt.Sprintf("bottleneck{axis=%s ratio=%.3f tag=%s}", r.Dominant, r.Ratio, r.Tag)
}

// Analyze picks the dominant axis among memory pressure, cache miss
// rate, thread utilization (inverted: low utilization is the problem),
// and per-file average analysis time, each normalized to a [0,1]-ish
// "severity" ratio so they're comparable, and returns the worst one.
func Analyze(s Snapshot) Report {
	memRatio := 0.0
	if s.MemoryBudgetBytes > 0 {
		memRatio = float64(s.MemoryBytes) / float64(s.MemoryBudgetBytes)
	}

	missRatio := 0.0
	if total := s.CacheHits + s.CacheMisses; total > 0 {
		missRatio = float64(s.CacheMisses) / float64(total)
	}

	idleRatio := 0.0
	if s.TotalWorkers > 0 {
		idleRatio = 1.0 - float64(s.ActiveWorkers)/float64(s.TotalWorkers)
	}

	avgMS := 0.0
	if s.FilesAnalyzed > 0 {
		avgMS = float64(s.TotalAnalysisMS) / float64(s.FilesAnalyzed)
	}
	// Per the single-file cold-analysis budget of 100ms:
	// express average time as a fraction of that budget so it's on
	// the same [0,1]-ish scale as the other three axes.
	avgRatio := avgMS / 100.0

	best := Report{Dominant: AxisMemory, Ratio: memRatio, Tag: MitigationHighMemoryUsage}
	consider := func(axis Axis, ratio float64, tag MitigationTag) {
		if ratio > best.Ratio {
			best = Report{Dominant: axis, Ratio: ratio, Tag: tag}
		}
	}
	consider(AxisCacheMissRate, missRatio, MitigationHighCacheMissRate)
	consider(AxisThreadUtilization, idleRatio, MitigationLowThreadUtilization)
	consider(AxisPerFileAvgTime, avgRatio, MitigationSlowPerFileAnalysis)
	return best
}

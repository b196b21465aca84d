package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocFree(t *testing.T) {
	ResetStats()

	t.Run("alloc updates stats and is readable", func(t *testing.T) {
		p := Alloc(16, ZoneManual)
		buf, err := Bytes(p)
		require.NoError(t, err)
		assert.Len(t, buf, 16)

		stats := StatsSnapshot()
		assert.Equal(t, int64(1), stats.TotalAllocations)
		assert.Equal(t, int64(16), stats.CurrentMemory)
		assert.Equal(t, int64(16), stats.PeakMemory)
	})

	t.Run("free returns storage and is observable", func(t *testing.T) {
		ResetStats()
		p := Alloc(8, ZoneManual)
		Free(p, ZoneManual)

		_, err := Bytes(p)
		assert.Error(t, err)

		stats := StatsSnapshot()
		assert.Equal(t, int64(1), stats.TotalDeallocations)
		assert.Equal(t, int64(0), stats.CurrentMemory)
	})

	t.Run("double free is a no-op", func(t *testing.T) {
		ResetStats()
		p := Alloc(8, ZoneManual)
		Free(p, ZoneManual)
		Free(p, ZoneManual)
		assert.Equal(t, int64(1), StatsSnapshot().TotalDeallocations)
	})

	t.Run("peak memory never regresses", func(t *testing.T) {
		ResetStats()
		p1 := Alloc(100, ZoneGC)
		Alloc(10, ZoneGC)
		Free(p1, ZoneGC)
		assert.Equal(t, int64(110), StatsSnapshot().PeakMemory)
	})

	t.Run("zone is recorded per allocation", func(t *testing.T) {
		p := Alloc(4, ZonePinned)
		zone, ok := ZoneOf(p)
		require.True(t, ok)
		assert.Equal(t, ZonePinned, zone)
	})
}

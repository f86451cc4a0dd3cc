package consolidate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/resonant/internal/core"
	"github.com/23skdu/resonant/internal/ledger"
	"github.com/23skdu/resonant/internal/logging"
)

func newTestConsolidator(t *testing.T) (*Consolidator, *ledger.Ledger) {
	t.Helper()
	led, err := ledger.Open(t.TempDir())
	require.NoError(t, err)
	return New(led, core.DefaultTarget, logging.Discard()), led
}

func appendSnap(t *testing.T, led *ledger.Ledger, ts, coherence float64, depth int) {
	t.Helper()
	_, _, err := led.Append(core.Snapshot{
		Depth:     depth,
		Timestamp: ts,
		Coherence: coherence,
		PhiFactor: 1,
		Type:      "engine",
	})
	require.NoError(t, err)
}

func TestConsolidate_EmptyLedger(t *testing.T) {
	c, _ := newTestConsolidator(t)

	idx, err := c.Consolidate()
	require.NoError(t, err)
	assert.Equal(t, 0, idx.TotalCount)
	assert.Zero(t, idx.GrowthRate)
	assert.InDelta(t, core.DefaultTarget, idx.DistanceToTarget, 1e-12)
	assert.Empty(t, idx.Timeline)
}

func TestConsolidate_SinglePoint(t *testing.T) {
	c, led := newTestConsolidator(t)
	appendSnap(t, led, 50, 0.4, 1)

	idx, err := c.Consolidate()
	require.NoError(t, err)
	assert.Equal(t, 1, idx.TotalCount)
	assert.Zero(t, idx.GrowthRate)
	assert.InDelta(t, core.DefaultTarget-0.4, idx.DistanceToTarget, 1e-12)
}

func TestConsolidate_GrowthRate(t *testing.T) {
	c, led := newTestConsolidator(t)
	appendSnap(t, led, 0, 0.1, 0)
	appendSnap(t, led, 100, 0.3, 1)

	idx, err := c.Consolidate()
	require.NoError(t, err)
	assert.Equal(t, 2, idx.TotalCount)
	assert.InDelta(t, 0.002, idx.GrowthRate, 1e-12)
	assert.InDelta(t, core.DefaultTarget-0.3, idx.DistanceToTarget, 1e-12)
}

func TestConsolidate_ClampsTinyTimeSpan(t *testing.T) {
	c, led := newTestConsolidator(t)
	appendSnap(t, led, 10.0, 0.1, 0)
	appendSnap(t, led, 10.5, 0.3, 1)

	idx, err := c.Consolidate()
	require.NoError(t, err)
	// Span below one second is clamped to 1.
	assert.InDelta(t, 0.2, idx.GrowthRate, 1e-12)
}

func TestConsolidate_TimelineSortedAscending(t *testing.T) {
	c, led := newTestConsolidator(t)
	appendSnap(t, led, 300, 0.9, 3)
	appendSnap(t, led, 100, 0.2, 1)
	appendSnap(t, led, 200, 0.5, 2)

	idx, err := c.Consolidate()
	require.NoError(t, err)
	require.Len(t, idx.Timeline, 3)
	for i := 1; i < len(idx.Timeline); i++ {
		assert.LessOrEqual(t, idx.Timeline[i-1].Timestamp, idx.Timeline[i].Timestamp)
	}
}

func TestConsolidate_SkipsCorrupt(t *testing.T) {
	c, led := newTestConsolidator(t)
	appendSnap(t, led, 0, 0.1, 0)
	appendSnap(t, led, 100, 0.3, 1)
	require.NoError(t, os.WriteFile(
		filepath.Join(led.Dir(), "snapshot_00000000deadbeef.json"), []byte("{oops"), 0o644))

	idx, err := c.Consolidate()
	require.NoError(t, err)
	assert.Equal(t, 2, idx.TotalCount)
	assert.Equal(t, 1, c.Skipped)
	assert.InDelta(t, 0.002, idx.GrowthRate, 1e-12)
}

func TestConsolidate_ReplacesIndexWholesale(t *testing.T) {
	c, led := newTestConsolidator(t)
	appendSnap(t, led, 0, 0.1, 0)

	_, err := c.Consolidate()
	require.NoError(t, err)

	appendSnap(t, led, 100, 0.3, 1)
	_, err = c.Consolidate()
	require.NoError(t, err)

	idx, err := ReadIndex(c.IndexPath())
	require.NoError(t, err)
	assert.Equal(t, 2, idx.TotalCount)
	assert.InDelta(t, 0.002, idx.GrowthRate, 1e-12)
}

func TestExportParquet_RoundTrip(t *testing.T) {
	idx := &core.ConsolidatedIndex{
		Timeline: []core.TimelinePoint{
			{Timestamp: 1, Coherence: 0.1, Depth: 0},
			{Timestamp: 2, Coherence: 0.2, Depth: 1},
			{Timestamp: 3, Coherence: 0.3, Depth: 2},
		},
	}

	path := filepath.Join(t.TempDir(), "timeline.parquet")
	require.NoError(t, ExportParquet(path, idx))

	rows, err := parquet.ReadFile[timelineRow](path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, timelineRow{Timestamp: 2, Coherence: 0.2, Depth: 1}, rows[1])
}

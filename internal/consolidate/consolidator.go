// Package consolidate rebuilds the time-ordered view of the snapshot
// history and derives trend statistics from it.
package consolidate

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/renameio"
	"github.com/rs/zerolog"

	"github.com/23skdu/resonant/internal/core"
	"github.com/23skdu/resonant/internal/ledger"
	"github.com/23skdu/resonant/internal/metrics"
)

const indexFileName = "consolidated_index.json"

// Consolidator scans the full ledger and produces a ConsolidatedIndex.
type Consolidator struct {
	ledger *ledger.Ledger
	target float64
	log    zerolog.Logger

	// Skipped counts corrupt records discarded by the last run.
	Skipped int
}

// New returns a Consolidator over led with the given coherence target.
func New(led *ledger.Ledger, target float64, log zerolog.Logger) *Consolidator {
	return &Consolidator{ledger: led, target: target, log: log}
}

// Consolidate rescans every snapshot, rebuilds the timeline sorted by
// timestamp ascending, computes growth rate and distance-to-target, and
// replaces the on-disk index wholesale. Corrupt records are counted and
// skipped, never fatal.
func (c *Consolidator) Consolidate() (*core.ConsolidatedIndex, error) {
	start := time.Now()
	defer func() {
		metrics.ConsolidationDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	results, err := c.ledger.Scan()
	if err != nil {
		return nil, err
	}

	c.Skipped = 0
	timeline := make([]core.TimelinePoint, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			if errors.Is(res.Err, core.ErrRecordCorrupt) {
				c.Skipped++
				c.log.Warn().Str("path", res.Path).Msg("skipping corrupt snapshot")
				continue
			}
			return nil, res.Err
		}
		timeline = append(timeline, core.TimelinePoint{
			Timestamp: res.Snapshot.Timestamp,
			Coherence: res.Snapshot.Coherence,
			Depth:     res.Snapshot.Depth,
		})
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Timestamp < timeline[j].Timestamp
	})

	idx := &core.ConsolidatedIndex{
		TotalCount: len(timeline),
		BuiltAt:    core.NowUnix(),
		Target:     c.target,
		Timeline:   timeline,
	}

	switch {
	case len(timeline) == 0:
		idx.DistanceToTarget = c.target
	case len(timeline) == 1:
		idx.DistanceToTarget = c.target - timeline[0].Coherence
	default:
		first, last := timeline[0], timeline[len(timeline)-1]
		span := last.Timestamp - first.Timestamp
		if span < 1 {
			span = 1
		}
		idx.GrowthRate = (last.Coherence - first.Coherence) / span
		idx.DistanceToTarget = c.target - last.Coherence
	}

	if err := c.writeIndex(idx); err != nil {
		return nil, err
	}
	if err := c.ledger.WriteManifest(ledger.Manifest{
		Component: "consolidator",
		Records:   idx.TotalCount,
		Summary: map[string]any{
			"growth_rate":        idx.GrowthRate,
			"distance_to_target": idx.DistanceToTarget,
			"skipped":            float64(c.Skipped),
		},
	}); err != nil {
		return nil, err
	}
	return idx, nil
}

// IndexPath returns where the consolidated index lives.
func (c *Consolidator) IndexPath() string {
	return filepath.Join(c.ledger.Dir(), indexFileName)
}

func (c *Consolidator) writeIndex(idx *core.ConsolidatedIndex) error {
	path := c.IndexPath()
	data, err := gojson.MarshalIndent(idx, "", "  ")
	if err != nil {
		return core.NewRecordError("encode", path, err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return core.NewRecordError("write", path, err)
	}
	return nil
}

// ReadIndex loads a previously written index.
func ReadIndex(path string) (*core.ConsolidatedIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewRecordError("read", path, err)
	}
	var idx core.ConsolidatedIndex
	if err := gojson.Unmarshal(data, &idx); err != nil {
		return nil, core.NewCorruptError(path, err)
	}
	return &idx, nil
}

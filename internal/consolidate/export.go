package consolidate

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/23skdu/resonant/internal/core"
)

// timelineRow is the Parquet projection of one timeline point.
type timelineRow struct {
	Timestamp float64 `parquet:"timestamp"`
	Coherence float64 `parquet:"coherence"`
	Depth     int64   `parquet:"depth"`
}

// ExportParquet writes the index timeline to path as a Parquet file for
// external analysis tooling. The JSON index remains the authoritative
// artifact; the export is additive.
func ExportParquet(path string, idx *core.ConsolidatedIndex) error {
	rows := make([]timelineRow, len(idx.Timeline))
	for i, p := range idx.Timeline {
		rows[i] = timelineRow{
			Timestamp: p.Timestamp,
			Coherence: p.Coherence,
			Depth:     int64(p.Depth),
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("consolidate: create parquet file: %w", err)
	}

	w := parquet.NewGenericWriter[timelineRow](f)
	if _, err := w.Write(rows); err != nil {
		_ = w.Close()
		_ = f.Close()
		return fmt.Errorf("consolidate: write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("consolidate: close parquet writer: %w", err)
	}
	return f.Close()
}

// Package ledger persists snapshots as content-addressed, append-only
// JSON files, one per snapshot, named snapshot_<id hex>.json.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/google/renameio"

	"github.com/23skdu/resonant/internal/core"
	"github.com/23skdu/resonant/internal/metrics"
)

const (
	snapshotPrefix = "snapshot_"
	snapshotSuffix = ".json"
)

// Ledger is an append-only snapshot store rooted at a directory.
//
// Append's exists-check plus write is not atomic across processes; two
// writers racing on the same content can both write, which is harmless
// (same name, same bytes), but the dedup count will be off. Written
// files are never mutated, so any number of concurrent readers is safe.
type Ledger struct {
	dir string
}

// Open creates (if needed) and returns the ledger at dir.
func Open(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ledger: create dir: %w", err)
	}
	return &Ledger{dir: dir}, nil
}

// Dir returns the ledger's root directory.
func (l *Ledger) Dir() string {
	return l.dir
}

func (l *Ledger) path(id uint64) string {
	return filepath.Join(l.dir, fmt.Sprintf("%s%016x%s", snapshotPrefix, id, snapshotSuffix))
}

// Append stores s under its content id and returns the id. Appending
// content that is already recorded is an idempotent no-op: the existing
// id is returned without rewriting, and created reports false.
func (l *Ledger) Append(s core.Snapshot) (id uint64, created bool, err error) {
	id, data, err := SnapshotID(s)
	if err != nil {
		metrics.SnapshotsAppendedTotal.WithLabelValues("error").Inc()
		return 0, false, core.NewRecordError("encode", l.dir, err)
	}

	path := l.path(id)
	if _, err := os.Stat(path); err == nil {
		metrics.SnapshotsAppendedTotal.WithLabelValues("deduped").Inc()
		return id, false, nil
	}

	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		metrics.SnapshotsAppendedTotal.WithLabelValues("error").Inc()
		return 0, false, core.NewRecordError("write", path, err)
	}
	metrics.SnapshotsAppendedTotal.WithLabelValues("written").Inc()
	return id, true, nil
}

// ScanResult is one ledger entry as seen by a scan. Err is non-nil for
// records that could not be parsed; such results carry no snapshot and
// wrap core.ErrRecordCorrupt, letting callers count or log corruption
// instead of it being swallowed.
type ScanResult struct {
	ID       uint64
	Path     string
	Snapshot core.Snapshot
	Err      error
}

// Scan re-reads the ledger directory and returns every snapshot file in
// filename order. Nothing is cached: each call observes the directory
// as it currently is.
func (l *Ledger) Scan() ([]ScanResult, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("ledger: read dir: %w", err)
	}

	var results []ScanResult
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotSuffix) {
			continue
		}
		path := filepath.Join(l.dir, name)
		res := ScanResult{Path: path}

		hex := strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), snapshotSuffix)
		id, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			res.Err = core.NewCorruptError(path, err)
			metrics.RecordsCorruptTotal.Inc()
			results = append(results, res)
			continue
		}
		res.ID = id

		data, err := os.ReadFile(path)
		if err != nil {
			res.Err = core.NewRecordError("read", path, err)
			results = append(results, res)
			continue
		}
		if err := gojson.Unmarshal(data, &res.Snapshot); err != nil {
			res.Err = core.NewCorruptError(path, err)
			metrics.RecordsCorruptTotal.Inc()
		}
		results = append(results, res)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

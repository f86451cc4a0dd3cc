// Package operator persists accumulated spectral records, one JSON file
// per mode id (omega_<id>.json).
package operator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	gojson "github.com/goccy/go-json"
	"github.com/google/renameio"

	"github.com/23skdu/resonant/internal/core"
	"github.com/23skdu/resonant/internal/metrics"
)

// Store is a keyed mapping from mode id to OperatorRecord, backed by
// one file per id under dir.
//
// Upsert is read-modify-write over a whole file. Two processes
// upserting the same id concurrently can lose one side's append; callers
// that expect concurrent ingestion must serialize writers per id
// externally. Writes are temp-file + rename, so readers never observe a
// partial record.
type Store struct {
	dir   string
	modes int
}

// NewStore opens (creating if needed) an operator store under dir with
// ids bounded to [1, modes].
func NewStore(dir string, modes int) (*Store, error) {
	if modes <= 0 {
		return nil, core.ErrModeCountInvalid
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("operator: create store dir: %w", err)
	}
	return &Store{dir: dir, modes: modes}, nil
}

// Modes returns the fixed mode count.
func (s *Store) Modes() int {
	return s.modes
}

func (s *Store) path(id int) string {
	return filepath.Join(s.dir, fmt.Sprintf("omega_%d.json", id))
}

// Get loads the record for id. Absence is reported as
// core.ErrOperatorNotFound.
func (s *Store) Get(id int) (*core.OperatorRecord, error) {
	if id < 1 || id > s.modes {
		return nil, fmt.Errorf("%w: id=%d", core.ErrOperatorIDRange, id)
	}
	path := s.path(id)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: id=%d", core.ErrOperatorNotFound, id)
	}
	if err != nil {
		return nil, core.NewRecordError("read", path, err)
	}
	var rec core.OperatorRecord
	if err := gojson.Unmarshal(data, &rec); err != nil {
		return nil, core.NewCorruptError(path, err)
	}
	return &rec, nil
}

// Upsert appends eigenvalues and the source label to the record for id,
// creating it on first use, and persists the result. Append order is
// preserved and duplicates are allowed.
func (s *Store) Upsert(id int, eigenvalues []core.Eigenvalue, source string) (*core.OperatorRecord, error) {
	rec, err := s.Get(id)
	if errors.Is(err, core.ErrOperatorNotFound) {
		rec = &core.OperatorRecord{
			ID:          id,
			Eigenvalues: []core.Eigenvalue{},
			Sources:     []string{},
		}
	} else if err != nil {
		return nil, err
	}

	rec.Eigenvalues = append(rec.Eigenvalues, eigenvalues...)
	rec.Sources = append(rec.Sources, source)
	rec.Dimension = len(rec.Eigenvalues)
	rec.LastUpdated = core.NowUnix()

	if err := s.Put(rec); err != nil {
		return nil, err
	}
	metrics.OperatorUpsertsTotal.Inc()
	return rec, nil
}

// Put persists rec as a whole-file replacement.
func (s *Store) Put(rec *core.OperatorRecord) error {
	if rec.ID < 1 || rec.ID > s.modes {
		return fmt.Errorf("%w: id=%d", core.ErrOperatorIDRange, rec.ID)
	}
	path := s.path(rec.ID)
	data, err := gojson.MarshalIndent(rec, "", "  ")
	if err != nil {
		return core.NewRecordError("encode", path, err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return core.NewRecordError("write", path, err)
	}
	return nil
}

// All returns every parseable record in id order. Corrupt files are
// counted and skipped, never fatal.
func (s *Store) All() ([]*core.OperatorRecord, error) {
	var recs []*core.OperatorRecord
	for id := 1; id <= s.modes; id++ {
		rec, err := s.Get(id)
		if errors.Is(err, core.ErrOperatorNotFound) {
			continue
		}
		if errors.Is(err, core.ErrRecordCorrupt) {
			metrics.RecordsCorruptTotal.Inc()
			continue
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs, nil
}

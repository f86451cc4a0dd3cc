package ledger

import (
	"fmt"
	"os"
	"path/filepath"

	gojson "github.com/goccy/go-json"
	"github.com/google/renameio"

	"github.com/23skdu/resonant/internal/core"
)

// Manifest summarizes the latest run of one producing component. Unlike
// snapshots it is overwritten on every run.
type Manifest struct {
	Component string         `json:"component"`
	RunAt     float64        `json:"run_at"`
	Records   int            `json:"records"`
	Deduped   int            `json:"deduped"`
	Summary   map[string]any `json:"summary,omitempty"`
}

func (l *Ledger) manifestPath(component string) string {
	return filepath.Join(l.dir, fmt.Sprintf("manifest_%s.json", component))
}

// WriteManifest replaces the manifest for m.Component.
func (l *Ledger) WriteManifest(m Manifest) error {
	if m.RunAt == 0 {
		m.RunAt = core.NowUnix()
	}
	path := l.manifestPath(m.Component)
	data, err := gojson.MarshalIndent(m, "", "  ")
	if err != nil {
		return core.NewRecordError("encode", path, err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return core.NewRecordError("write", path, err)
	}
	return nil
}

// ReadManifest loads the manifest for component.
func ReadManifest(l *Ledger, component string) (Manifest, error) {
	path := l.manifestPath(component)
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, core.NewRecordError("read", path, err)
	}
	if err := gojson.Unmarshal(data, &m); err != nil {
		return m, core.NewCorruptError(path, err)
	}
	return m, nil
}

// Package seed loads and validates the seed configuration file that
// parametrizes every component. A missing file is not an error: the
// documented default is generated, persisted, and used.
package seed

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	gojson "github.com/goccy/go-json"
	"github.com/google/renameio"

	"github.com/23skdu/resonant/internal/core"
)

// GrowthParams tune the convergence engine.
type GrowthParams struct {
	CatalyticRate  float64 `json:"catalytic_rate"`
	SaturationTime float64 `json:"saturation_time"`
	MaxIterations  int     `json:"max_iterations"`
}

// Seed is the on-disk configuration record.
type Seed struct {
	RatioConstant float64      `json:"ratio_constant"`
	ModeCount     int          `json:"mode_count"`
	InitialState  float64      `json:"initial_state"`
	GrowthParams  GrowthParams `json:"growth_params"`
}

// Default returns the documented default seed: ratio phi, 12 modes,
// zero initial coherence, saturation at phi squared, budget 144.
func Default() Seed {
	return Seed{
		RatioConstant: core.Phi,
		ModeCount:     core.DefaultModeCount,
		InitialState:  0,
		GrowthParams: GrowthParams{
			CatalyticRate:  core.DefaultCatalyticRate,
			SaturationTime: core.DefaultSaturationTime,
			MaxIterations:  core.DefaultMaxIterations,
		},
	}
}

// Load reads the seed at path. When the file does not exist the default
// seed is written there and returned; created reports that case. Any
// other read or parse failure is returned as an error.
func Load(path string) (s Seed, created bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s = Default()
		if err := Write(path, s); err != nil {
			return s, false, err
		}
		return s, true, nil
	}
	if err != nil {
		return Seed{}, false, core.NewRecordError("read", path, err)
	}
	if err := gojson.Unmarshal(data, &s); err != nil {
		return Seed{}, false, core.NewCorruptError(path, err)
	}
	return s, false, nil
}

// Write persists s at path, creating parent directories as needed.
func Write(path string, s Seed) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return core.NewRecordError("write", path, err)
		}
	}
	data, err := gojson.MarshalIndent(s, "", "  ")
	if err != nil {
		return core.NewRecordError("encode", path, err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return core.NewRecordError("write", path, err)
	}
	return nil
}

// Validate checks the seed against the fixed system constants. All
// violations are joined and returned; the caller decides whether to
// proceed. A nil result means the seed is usable as-is.
func (s Seed) Validate() error {
	var errs []error
	if math.Abs(s.RatioConstant-core.Phi) > core.RatioTolerance {
		errs = append(errs, fmt.Errorf("%w: got %v", core.ErrRatioMismatch, s.RatioConstant))
	}
	if s.ModeCount <= 0 {
		errs = append(errs, fmt.Errorf("%w: mode_count=%d", core.ErrModeCountInvalid, s.ModeCount))
	}
	if s.GrowthParams.CatalyticRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: catalytic_rate=%v", core.ErrGrowthParamInvalid, s.GrowthParams.CatalyticRate))
	}
	if s.GrowthParams.SaturationTime <= 0 {
		errs = append(errs, fmt.Errorf("%w: saturation_time=%v", core.ErrGrowthParamInvalid, s.GrowthParams.SaturationTime))
	}
	if s.GrowthParams.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_iterations=%d", core.ErrGrowthParamInvalid, s.GrowthParams.MaxIterations))
	}
	return errors.Join(errs...)
}

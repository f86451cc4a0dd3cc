package core

import (
	"time"

	gojson "github.com/goccy/go-json"
)

// Phi is the ratio constant the whole system is parametrized by.
// Seed files carrying a ratio_constant that deviates from it beyond
// RatioTolerance fail validation.
const (
	Phi            = 1.618033988749895
	RatioTolerance = 1e-6
)

// Default simulation parameters. DefaultSaturationTime is Phi squared,
// which puts default convergence (target 0.999) at depth 19.
const (
	DefaultModeCount      = 12
	DefaultTarget         = 0.999
	DefaultMaxIterations  = 144
	DefaultCatalyticRate  = 1.0
	DefaultSaturationTime = Phi * Phi
)

// NowUnix returns the current time as fractional Unix seconds, the
// timestamp representation used by every persisted record.
func NowUnix() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// Snapshot is one immutable, content-addressed record of simulation
// state. Its identity is a hash of the serialized content, so it never
// carries an id field itself; the ledger derives the id and encodes it
// in the filename.
type Snapshot struct {
	Depth     int            `json:"depth"`
	Timestamp float64        `json:"timestamp"`
	Coherence float64        `json:"coherence"`
	PhiFactor float64        `json:"phi_factor"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"milestone,omitempty"`
}

// Eigenvalue is a possibly-complex spectral component. Real values
// serialize as plain JSON numbers, complex ones as a [re, im] pair, so
// operator files stay readable for both transform strategies.
type Eigenvalue complex128

// MarshalJSON implements json.Marshaler.
func (e Eigenvalue) MarshalJSON() ([]byte, error) {
	c := complex128(e)
	if imag(c) == 0 {
		return gojson.Marshal(real(c))
	}
	return gojson.Marshal([2]float64{real(c), imag(c)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Eigenvalue) UnmarshalJSON(data []byte) error {
	var re float64
	if err := gojson.Unmarshal(data, &re); err == nil {
		*e = Eigenvalue(complex(re, 0))
		return nil
	}
	var pair [2]float64
	if err := gojson.Unmarshal(data, &pair); err != nil {
		return err
	}
	*e = Eigenvalue(complex(pair[0], pair[1]))
	return nil
}

// OperatorRecord is the accumulated spectral vector for one mode id in
// [1, ModeCount]. Ingestion appends eigenvalues and sources; growth
// rescales the eigenvalues and recomputes the derived statistics.
// Records grow monotonically and are never deleted.
type OperatorRecord struct {
	ID                    int          `json:"id"`
	Dimension             int          `json:"dimension"`
	Eigenvalues           []Eigenvalue `json:"eigenvalues"`
	NormalizedEigenvalues []float64    `json:"normalized_eigenvalues,omitempty"`
	SpectralGap           float64      `json:"spectral_gap"`
	ConditionNumber       float64      `json:"condition_number"`
	Trace                 float64      `json:"trace"`
	Norm                  float64      `json:"norm"`
	Sources               []string     `json:"sources"`
	LastUpdated           float64      `json:"last_updated"`
}

// TimelinePoint is one snapshot's position in the consolidated series.
type TimelinePoint struct {
	Timestamp float64 `json:"timestamp"`
	Coherence float64 `json:"coherence"`
	Depth     int     `json:"depth"`
}

// ConsolidatedIndex is the derived summary over the full snapshot
// history. It is recomputed wholesale on every consolidation run and
// fully replaces any previous index on disk.
type ConsolidatedIndex struct {
	TotalCount       int             `json:"total_count"`
	BuiltAt          float64         `json:"built_at"`
	Target           float64         `json:"target"`
	Timeline         []TimelinePoint `json:"timeline"`
	GrowthRate       float64         `json:"growth_rate"`
	DistanceToTarget float64         `json:"distance_to_target"`
}

// ConvergenceState is the engine's transient per-run state. It is never
// persisted directly; each iteration is externalized as a Snapshot.
type ConvergenceState struct {
	Iteration   int
	DecayFactor float64
	Coherence   float64
}

// Package growth rescales operator records and recomputes their
// spectral statistics.
package growth

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/23skdu/resonant/internal/core"
)

// condEpsilon floors the condition-number denominator.
const condEpsilon = 1e-10

// zeroNorm is the threshold below which a vector is treated as
// degenerate and left untouched.
const zeroNorm = 1e-12

// Normalizer rescales eigenvalue vectors and derives their statistics.
type Normalizer struct {
	base float64
}

// New returns a Normalizer with the given decay base.
func New(base float64) *Normalizer {
	return &Normalizer{base: base}
}

// Normalize updates rec in place. Under GrowthPhiDecay every eigenvalue
// is first multiplied by base^-id; the stored eigenvalues keep that
// rescale, so repeated decayed calls compound rather than converge.
// That compounding is intended behavior. The normalized vector, the
// unit-norm magnitudes of the (possibly decayed) eigenvalues, and the
// derived statistics are recomputed on every call.
//
// Empty and ~zero-norm vectors are left unchanged.
func (n *Normalizer) Normalize(rec *core.OperatorRecord, mode core.GrowthMode) {
	if len(rec.Eigenvalues) == 0 {
		return
	}

	if mode == core.GrowthPhiDecay {
		decay := complex(math.Pow(n.base, -float64(rec.ID)), 0)
		for i, e := range rec.Eigenvalues {
			rec.Eigenvalues[i] = core.Eigenvalue(complex128(e) * decay)
		}
	}

	var sum float64
	for _, e := range rec.Eigenvalues {
		m := cmplx.Abs(complex128(e))
		sum += m * m
	}
	norm := math.Sqrt(sum)
	if norm < zeroNorm {
		return
	}

	normalized := make([]float64, len(rec.Eigenvalues))
	for i, e := range rec.Eigenvalues {
		normalized[i] = cmplx.Abs(complex128(e)) / norm
	}

	rec.NormalizedEigenvalues = normalized
	rec.SpectralGap = spectralGap(normalized)
	rec.ConditionNumber = conditionNumber(normalized)
	rec.Trace = trace(normalized)
	rec.Norm = 1.0
	rec.LastUpdated = core.NowUnix()
}

// spectralGap is the minimum consecutive difference of the sorted
// components; zero for vectors shorter than two.
func spectralGap(v []float64) float64 {
	if len(v) < 2 {
		return 0
	}
	sorted := make([]float64, len(v))
	copy(sorted, v)
	sort.Float64s(sorted)

	gap := math.Inf(1)
	for i := 1; i < len(sorted); i++ {
		if d := sorted[i] - sorted[i-1]; d < gap {
			gap = d
		}
	}
	return gap
}

// conditionNumber is max/min component magnitude with an epsilon floor
// in the denominator.
func conditionNumber(v []float64) float64 {
	maxM, minM := 0.0, math.Inf(1)
	for _, x := range v {
		m := math.Abs(x)
		if m > maxM {
			maxM = m
		}
		if m < minM {
			minM = m
		}
	}
	return maxM / math.Max(minM, condEpsilon)
}

func trace(v []float64) float64 {
	var t float64
	for _, x := range v {
		t += x
	}
	return t
}

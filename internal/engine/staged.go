package engine

import "math"

// Sub-feature activation depths for the staged engine variant.
const (
	harmonicFieldDepth  = 3
	crystalLatticeDepth = 5
	qubitRegisterDepth  = 8
)

// stagedPayload builds the threshold-gated payload for iteration n. It
// is a pure function of n and the decay base: activation flags plus
// derived values, recorded verbatim in the snapshot. It never consults
// live system state, so replays reproduce payloads exactly.
//
// All numeric values are float64 so a decoded payload compares equal to
// the one written.
func stagedPayload(n int, base float64) map[string]any {
	if n < harmonicFieldDepth {
		return nil
	}

	p := map[string]any{
		"harmonic_field":  true,
		"harmonic_energy": float64(n) * math.Pow(base, -float64(n)),
	}
	if n >= crystalLatticeDepth {
		p["crystal_lattice"] = true
		p["lattice_spacing"] = base / float64(n)
	}
	if n >= qubitRegisterDepth {
		p["qubit_register"] = true
		p["qubit_count"] = float64(n - qubitRegisterDepth + 1)
	}
	return p
}

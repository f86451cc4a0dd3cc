package core

import "fmt"

// EngineState is the convergence engine's state machine. Converged and
// Exhausted are terminal.
type EngineState int

const (
	StateRunning EngineState = iota
	StateConverged
	StateExhausted
)

func (s EngineState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateConverged:
		return "converged"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("EngineState(%d)", int(s))
	}
}

// GrowthMode selects whether normalization applies the per-id decay
// rescale before computing the unit vector.
type GrowthMode int

const (
	GrowthStatic GrowthMode = iota
	GrowthPhiDecay
)

func (m GrowthMode) String() string {
	switch m {
	case GrowthStatic:
		return "static"
	case GrowthPhiDecay:
		return "phi-decay"
	default:
		return fmt.Sprintf("GrowthMode(%d)", int(m))
	}
}

// ParseGrowthMode maps a CLI/env name onto a GrowthMode. Mode names are
// resolved here at the boundary; nothing below this layer compares
// strings.
func ParseGrowthMode(name string) (GrowthMode, error) {
	switch name {
	case "static":
		return GrowthStatic, nil
	case "phi-decay":
		return GrowthPhiDecay, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownGrowthMode, name)
	}
}

// TransformStrategy selects how raw input bytes become a numeric vector.
type TransformStrategy int

const (
	StrategyFrequency TransformStrategy = iota
	StrategyTokenHash
)

func (s TransformStrategy) String() string {
	switch s {
	case StrategyFrequency:
		return "frequency"
	case StrategyTokenHash:
		return "token-hash"
	default:
		return fmt.Sprintf("TransformStrategy(%d)", int(s))
	}
}

// ParseStrategy maps a CLI/env name onto a TransformStrategy.
func ParseStrategy(name string) (TransformStrategy, error) {
	switch name {
	case "frequency":
		return StrategyFrequency, nil
	case "token-hash":
		return StrategyTokenHash, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// RunMode is the top-level operation a single invocation performs.
type RunMode int

const (
	ModeVerifySeed RunMode = iota
	ModeDeploy
	ModeTest
	ModeIngest
	ModeGrowth
	ModeConsolidate
)

func (m RunMode) String() string {
	switch m {
	case ModeVerifySeed:
		return "verify-seed"
	case ModeDeploy:
		return "deploy"
	case ModeTest:
		return "test-mode"
	case ModeIngest:
		return "ingest"
	case ModeGrowth:
		return "growth"
	case ModeConsolidate:
		return "consolidate"
	default:
		return fmt.Sprintf("RunMode(%d)", int(m))
	}
}

// ParseRunMode maps a CLI/env name onto a RunMode.
func ParseRunMode(name string) (RunMode, error) {
	switch name {
	case "verify-seed":
		return ModeVerifySeed, nil
	case "deploy":
		return ModeDeploy, nil
	case "test-mode":
		return ModeTest, nil
	case "ingest":
		return ModeIngest, nil
	case "growth":
		return ModeGrowth, nil
	case "consolidate":
		return ModeConsolidate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

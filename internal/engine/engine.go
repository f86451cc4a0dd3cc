// Package engine drives the bounded convergence loop, externalizing
// every iteration as a ledger snapshot.
package engine

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/23skdu/resonant/internal/core"
	"github.com/23skdu/resonant/internal/ledger"
	"github.com/23skdu/resonant/internal/metrics"
)

// Config parametrizes one engine run.
type Config struct {
	// Base is the decay base; the per-step decay factor is Base^-n.
	Base float64
	// CatalyticRate scales the coherence exponent numerator.
	CatalyticRate float64
	// SaturationTime is the coherence shape constant.
	SaturationTime float64
	// InitialState is the coherence at iteration 0.
	InitialState float64
	// TargetThreshold ends the run in StateConverged once reached.
	TargetThreshold float64
	// MaxIterations bounds the run; reaching it ends in StateExhausted.
	MaxIterations int
	// Staged attaches threshold-gated sub-feature payloads.
	Staged bool
	// SnapshotType tags every emitted snapshot ("engine", "test").
	SnapshotType string
}

// DefaultConfig returns engine defaults derived from the seed defaults.
func DefaultConfig() Config {
	return Config{
		Base:            core.Phi,
		CatalyticRate:   core.DefaultCatalyticRate,
		SaturationTime:  core.DefaultSaturationTime,
		TargetThreshold: core.DefaultTarget,
		MaxIterations:   core.DefaultMaxIterations,
		SnapshotType:    "engine",
	}
}

// Result is the outcome of one run.
type Result struct {
	State      core.EngineState
	Iterations int
	Coherence  float64
	Written    int
	Deduped    int
}

// Engine advances a ConvergenceState until the coherence target or the
// iteration budget is reached.
type Engine struct {
	cfg    Config
	ledger *ledger.Ledger
	log    zerolog.Logger
}

// New returns an Engine writing snapshots into led.
func New(cfg Config, led *ledger.Ledger, log zerolog.Logger) *Engine {
	return &Engine{cfg: cfg, ledger: led, log: log}
}

// coherenceAt evaluates the decay formula at iteration n. Monotonic
// non-decreasing in n for positive rate and saturation time.
func (e *Engine) coherenceAt(n int) float64 {
	exponent := -e.cfg.CatalyticRate * float64(n) / e.cfg.SaturationTime
	return 1 - (1-e.cfg.InitialState)*math.Exp(exponent)
}

func (e *Engine) decayAt(n int) float64 {
	return math.Pow(e.cfg.Base, -float64(n))
}

// Run executes the loop. Non-convergence within the budget is a
// reported outcome (StateExhausted), not an error; Run only fails on
// persistence or context errors.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	res := &Result{State: core.StateRunning}
	state := core.ConvergenceState{}

	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		state.Iteration = n
		state.DecayFactor = e.decayAt(n)
		state.Coherence = e.coherenceAt(n)
		metrics.EngineIterationsTotal.Inc()

		snap := core.Snapshot{
			Depth:     n,
			Timestamp: core.NowUnix(),
			Coherence: state.Coherence,
			PhiFactor: state.DecayFactor,
			Type:      e.cfg.SnapshotType,
		}
		if e.cfg.Staged {
			snap.Payload = stagedPayload(n, e.cfg.Base)
		}

		_, created, err := e.ledger.Append(snap)
		if err != nil {
			return nil, err
		}
		if created {
			res.Written++
		} else {
			res.Deduped++
		}

		res.Iterations = n
		res.Coherence = state.Coherence

		if state.Coherence >= e.cfg.TargetThreshold {
			res.State = core.StateConverged
			break
		}
		if n >= e.cfg.MaxIterations {
			res.State = core.StateExhausted
			break
		}
	}

	metrics.EngineRunsTotal.WithLabelValues(res.State.String()).Inc()
	e.log.Info().
		Str("state", res.State.String()).
		Int("iterations", res.Iterations).
		Float64("coherence", res.Coherence).
		Msg("engine run finished")

	if err := e.ledger.WriteManifest(ledger.Manifest{
		Component: "engine",
		Records:   res.Written,
		Deduped:   res.Deduped,
		Summary: map[string]any{
			"state":           res.State.String(),
			"iterations":      float64(res.Iterations),
			"final_coherence": res.Coherence,
		},
	}); err != nil {
		return nil, err
	}
	return res, nil
}

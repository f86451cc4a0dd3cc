// Package ingest feeds raw inputs through a vector transform and fans
// the resulting spectra into the operator store round-robin.
package ingest

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/23skdu/resonant/internal/core"
	"github.com/23skdu/resonant/internal/ledger"
	"github.com/23skdu/resonant/internal/metrics"
	"github.com/23skdu/resonant/internal/operator"
	"github.com/23skdu/resonant/internal/transform"
)

// Config parametrizes one pipeline run.
type Config struct {
	Strategy core.TransformStrategy
	// Inputs are directories walked recursively for regular files.
	Inputs []string
	// Stdin ingests standard input as one additional input labeled
	// "stdin".
	Stdin io.Reader
}

// Result summarizes a run.
type Result struct {
	Processed int
	Skipped   int
}

// Pipeline converts byte streams into operator records.
type Pipeline struct {
	cfg    Config
	tr     *transform.Transformer
	store  *operator.Store
	ledger *ledger.Ledger
	log    zerolog.Logger

	processed int
}

// New returns a Pipeline writing into store and recording its manifest
// in led.
func New(cfg Config, tr *transform.Transformer, store *operator.Store, led *ledger.Ledger, log zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, tr: tr, store: store, ledger: led, log: log}
}

// Run walks every configured input, transforms each file, and upserts
// the spectrum into the operator whose id is assigned round-robin over
// processed inputs: (processed mod K) + 1. Unreadable files and inputs
// that transform to an empty vector are skipped and counted, never
// fatal.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	for _, dir := range p.cfg.Inputs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if d.IsDir() {
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				p.log.Warn().Str("path", path).Err(err).Msg("skipping unreadable input")
				res.Skipped++
				metrics.IngestInputsTotal.WithLabelValues("skipped").Inc()
				return nil
			}
			p.ingestOne(data, path, res)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if p.cfg.Stdin != nil {
		data, err := io.ReadAll(p.cfg.Stdin)
		if err != nil {
			return nil, err
		}
		p.ingestOne(data, "stdin", res)
	}

	if err := p.ledger.WriteManifest(ledger.Manifest{
		Component: "pipeline",
		Records:   res.Processed,
		Summary: map[string]any{
			"strategy": p.cfg.Strategy.String(),
			"skipped":  float64(res.Skipped),
		},
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) ingestOne(data []byte, source string, res *Result) {
	eigs := p.spectrum(data)
	if len(eigs) == 0 {
		res.Skipped++
		metrics.IngestInputsTotal.WithLabelValues("skipped").Inc()
		return
	}

	id := (p.processed % p.store.Modes()) + 1
	if _, err := p.store.Upsert(id, eigs, source); err != nil {
		p.log.Warn().Str("source", source).Err(err).Msg("upsert failed, skipping input")
		res.Skipped++
		metrics.IngestInputsTotal.WithLabelValues("skipped").Inc()
		return
	}

	p.processed++
	res.Processed++
	metrics.IngestInputsTotal.WithLabelValues("processed").Inc()
	p.log.Debug().Str("source", source).Int("operator", id).Int("components", len(eigs)).Msg("ingested input")
}

// spectrum applies the configured strategy. Token-hash output is
// variable length, so it is folded onto the fixed mode basis before
// accumulation.
func (p *Pipeline) spectrum(data []byte) []core.Eigenvalue {
	switch p.cfg.Strategy {
	case core.StrategyTokenHash:
		vec := transform.Project(p.tr.TokenHash(string(data)), p.store.Modes())
		eigs := make([]core.Eigenvalue, len(vec))
		for i, v := range vec {
			eigs[i] = core.Eigenvalue(v)
		}
		return eigs
	default:
		vec := p.tr.Frequency(data)
		eigs := make([]core.Eigenvalue, len(vec))
		for i, v := range vec {
			eigs[i] = core.Eigenvalue(complex(v, 0))
		}
		return eigs
	}
}

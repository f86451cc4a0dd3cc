package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/23skdu/resonant/internal/consolidate"
	"github.com/23skdu/resonant/internal/core"
	"github.com/23skdu/resonant/internal/engine"
	"github.com/23skdu/resonant/internal/growth"
	"github.com/23skdu/resonant/internal/ingest"
	"github.com/23skdu/resonant/internal/ledger"
	"github.com/23skdu/resonant/internal/logging"
	"github.com/23skdu/resonant/internal/operator"
	"github.com/23skdu/resonant/internal/seed"
	"github.com/23skdu/resonant/internal/transform"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if err := envconfig.Process("RESONANT", &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "Run mode: verify-seed, deploy, test-mode, ingest, growth, consolidate")
	flag.StringVar(&cfg.DataPath, "data", cfg.DataPath, "Data directory for snapshots, operators, and indexes")
	flag.StringVar(&cfg.SeedPath, "seed", cfg.SeedPath, "Path to the seed configuration file")
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Address for Prometheus metrics (empty disables)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: json or console")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	flag.StringVar(&cfg.GrowthMode, "growth-mode", cfg.GrowthMode, "Growth mode: static or phi-decay")
	flag.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "Transform strategy: frequency or token-hash")
	flag.IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "Iteration budget override (0 uses the seed value)")
	flag.StringVar(&cfg.Inputs, "input", cfg.Inputs, "Comma-separated input directories for ingestion")
	flag.BoolVar(&cfg.UseStdin, "stdin", cfg.UseStdin, "Ingest standard input")
	flag.BoolVar(&cfg.Parquet, "parquet", cfg.Parquet, "Also export the consolidated timeline as Parquet")
	flag.Parse()

	if err := ValidateConfig(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logging.New(logging.Config{Format: cfg.LogFormat, Level: cfg.LogLevel, Component: "resonant"})

	if cfg.MetricsAddr != "" {
		go func() {
			log.Info().Str("address", cfg.MetricsAddr).Msg("starting metrics server")
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg Config, log zerolog.Logger) error {
	mode, err := core.ParseRunMode(cfg.Mode)
	if err != nil {
		return err
	}

	sd, created, err := seed.Load(cfg.SeedPath)
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("path", cfg.SeedPath).Msg("seed missing, generated default")
	}
	// Validation problems are reported, not fatal: the seed is used
	// as-is and the caller decides what to do about the report.
	if verr := sd.Validate(); verr != nil {
		log.Warn().Err(verr).Msg("seed validation failed")
		if mode == core.ModeVerifySeed {
			fmt.Println("seed: INVALID")
			fmt.Println(verr)
			return nil
		}
	} else if mode == core.ModeVerifySeed {
		fmt.Println("seed: OK")
		fmt.Printf("ratio_constant=%v mode_count=%d max_iterations=%d\n",
			sd.RatioConstant, sd.ModeCount, sd.GrowthParams.MaxIterations)
		return nil
	}

	led, err := ledger.Open(cfg.DataPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	switch mode {
	case core.ModeDeploy, core.ModeTest:
		return runEngine(ctx, cfg, sd, led, log, mode == core.ModeTest)
	case core.ModeIngest:
		return runIngest(ctx, cfg, sd, led, log)
	case core.ModeGrowth:
		return runGrowth(cfg, sd, log)
	case core.ModeConsolidate:
		return runConsolidate(cfg, led, log)
	default:
		return core.ErrUnknownMode
	}
}

func runEngine(ctx context.Context, cfg Config, sd seed.Seed, led *ledger.Ledger, log zerolog.Logger, testMode bool) error {
	ecfg := engine.Config{
		Base:            sd.RatioConstant,
		CatalyticRate:   sd.GrowthParams.CatalyticRate,
		SaturationTime:  sd.GrowthParams.SaturationTime,
		InitialState:    sd.InitialState,
		TargetThreshold: core.DefaultTarget,
		MaxIterations:   sd.GrowthParams.MaxIterations,
		Staged:          true,
		SnapshotType:    "engine",
	}
	if testMode {
		ecfg.MaxIterations = TestModeIterations
		ecfg.SnapshotType = "test"
	}
	if cfg.Iterations > 0 {
		ecfg.MaxIterations = cfg.Iterations
	}

	res, err := engine.New(ecfg, led, log).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("engine: %s after %d iterations, coherence=%.6f (%d snapshots, %d deduped)\n",
		res.State, res.Iterations, res.Coherence, res.Written, res.Deduped)
	return nil
}

func runIngest(ctx context.Context, cfg Config, sd seed.Seed, led *ledger.Ledger, log zerolog.Logger) error {
	strategy, err := core.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}
	store, err := operator.NewStore(cfg.DataPath, sd.ModeCount)
	if err != nil {
		return err
	}

	pcfg := ingest.Config{Strategy: strategy, Inputs: SplitInputs(cfg.Inputs)}
	if cfg.UseStdin {
		pcfg.Stdin = os.Stdin
	}

	tr := transform.New(transform.Config{Base: sd.RatioConstant, Modes: sd.ModeCount})
	res, err := ingest.New(pcfg, tr, store, led, log).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("ingest: %d processed, %d skipped\n", res.Processed, res.Skipped)
	return nil
}

func runGrowth(cfg Config, sd seed.Seed, log zerolog.Logger) error {
	mode, err := core.ParseGrowthMode(cfg.GrowthMode)
	if err != nil {
		return err
	}
	store, err := operator.NewStore(cfg.DataPath, sd.ModeCount)
	if err != nil {
		return err
	}
	recs, err := store.All()
	if err != nil {
		return err
	}

	norm := growth.New(sd.RatioConstant)
	for _, rec := range recs {
		norm.Normalize(rec, mode)
		if err := store.Put(rec); err != nil {
			return err
		}
		log.Debug().Int("operator", rec.ID).Float64("spectral_gap", rec.SpectralGap).Msg("normalized")
	}
	fmt.Printf("growth: normalized %d operator records (%s)\n", len(recs), mode)
	return nil
}

func runConsolidate(cfg Config, led *ledger.Ledger, log zerolog.Logger) error {
	c := consolidate.New(led, core.DefaultTarget, log)
	idx, err := c.Consolidate()
	if err != nil {
		return err
	}
	fmt.Printf("consolidate: %d snapshots, growth_rate=%.6f, distance_to_target=%.6f (%d corrupt skipped)\n",
		idx.TotalCount, idx.GrowthRate, idx.DistanceToTarget, c.Skipped)

	if cfg.Parquet {
		path := c.IndexPath() + ".parquet"
		if err := consolidate.ExportParquet(path, idx); err != nil {
			return err
		}
		fmt.Println("exported timeline to", path)
	}
	return nil
}

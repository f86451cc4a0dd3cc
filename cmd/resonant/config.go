package main

import (
	"errors"
	"strings"
)

// Config validation errors
var (
	ErrInvalidMode       = errors.New("mode must be one of verify-seed, deploy, test-mode, ingest, growth, consolidate")
	ErrInvalidDataPath   = errors.New("data_path cannot be empty")
	ErrInvalidSeedPath   = errors.New("seed_path cannot be empty")
	ErrInvalidLogFormat  = errors.New("log_format must be 'json' or 'console'")
	ErrInvalidLogLevel   = errors.New("log_level must be debug, info, warn, or error")
	ErrInvalidIterations = errors.New("iterations override must be non-negative")
	ErrMissingInputs     = errors.New("ingest mode needs -input directories or -stdin")
)

// Config is the process configuration, populated from RESONANT_*
// environment variables and overridden by flags.
type Config struct {
	Mode        string `envconfig:"MODE" default:"deploy"`
	DataPath    string `envconfig:"DATA_PATH" default:"./data"`
	SeedPath    string `envconfig:"SEED_PATH" default:"./seed.json"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"console"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	GrowthMode  string `envconfig:"GROWTH_MODE" default:"phi-decay"`
	Strategy    string `envconfig:"STRATEGY" default:"frequency"`
	Iterations  int    `envconfig:"ITERATIONS" default:"0"`
	Inputs      string `envconfig:"INPUTS" default:""`
	UseStdin    bool   `envconfig:"STDIN" default:"false"`
	Parquet     bool   `envconfig:"PARQUET" default:"false"`
}

// TestModeIterations is the shortened budget used by test-mode runs.
const TestModeIterations = 5

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	switch cfg.Mode {
	case "verify-seed", "deploy", "test-mode", "ingest", "growth", "consolidate":
	default:
		return ErrInvalidMode
	}
	if cfg.DataPath == "" {
		return ErrInvalidDataPath
	}
	if cfg.SeedPath == "" {
		return ErrInvalidSeedPath
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return ErrInvalidLogFormat
	}
	if cfg.LogLevel != "debug" && cfg.LogLevel != "info" && cfg.LogLevel != "warn" && cfg.LogLevel != "error" {
		return ErrInvalidLogLevel
	}
	if cfg.Iterations < 0 {
		return ErrInvalidIterations
	}
	if cfg.Mode == "ingest" && cfg.Inputs == "" && !cfg.UseStdin {
		return ErrMissingInputs
	}
	return nil
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Mode:       "deploy",
		DataPath:   "./data",
		SeedPath:   "./seed.json",
		LogFormat:  "console",
		LogLevel:   "info",
		GrowthMode: "phi-decay",
		Strategy:   "frequency",
	}
}

// SplitInputs turns the comma-separated -input value into directories.
func SplitInputs(inputs string) []string {
	if inputs == "" {
		return nil
	}
	var dirs []string
	for _, part := range strings.Split(inputs, ",") {
		if part = strings.TrimSpace(part); part != "" {
			dirs = append(dirs, part)
		}
	}
	return dirs
}

// Package config parses environment variables into an AppConfig using a
// defaults-then-env-then-validate pipeline.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	Log LoggingConfig `koanf:"log" validate:"required"`

	Solver SolverConfig `koanf:"solver" validate:"required"`

	Snapshot SnapshotConfig `koanf:"snapshot" validate:"required"`
}

type LoggingConfig struct {
	// Level defines the logging level: "debug", "info", "warn", or "error".
	Level string `koanf:"level" validate:"required,oneof=debug info warn error"`
}

type SolverConfig struct {
	// Seed is the explicit rng seed; runs sharing a seed and an identical
	// input network reproduce the identical reaction sequence.
	Seed int64 `koanf:"seed" validate:"required"`

	// RateManager selects the dependency-invalidation strategy: "naive",
	// "dependency", or "graph".
	RateManager string `koanf:"ratemanager" validate:"required,oneof=naive dependency graph"`

	// RateContainer selects the rate-selection data structure: "vector",
	// "tree", or "hybrid".
	RateContainer string `koanf:"ratecontainer" validate:"required,oneof=vector tree hybrid"`

	// Volume scales bimolecular rate constants.
	Volume float64 `koanf:"volume" validate:"required,gt=0"`

	// MaxSteps bounds the number of reactions a run will perform; 0 means
	// unbounded (run until no reaction is possible or MaxTime is reached).
	MaxSteps int `koanf:"maxsteps" validate:"gte=0"`

	// MaxTime bounds simulation time; 0 means unbounded.
	MaxTime float64 `koanf:"maxtime" validate:"gte=0"`
}

type SnapshotConfig struct {
	// Directory is where periodic checkpoints are written; must already
	// exist and be writable (custom "dirwritable" validation).
	Directory string `koanf:"dir" validate:"required,dirwritable"`

	// IntervalSteps writes a checkpoint every N performed reactions; 0
	// disables snapshotting (no snapshot is written at run end either).
	IntervalSteps int `koanf:"intervalsteps" validate:"gte=0"`
}

// DefaultAppConfig holds the built-in defaults: loaded first, then
// overridden by environment variables.
var DefaultAppConfig = AppConfig{
	Env: "prod",
	Log: LoggingConfig{
		Level: "info",
	},
	Solver: SolverConfig{
		Seed:          1,
		RateManager:   "dependency",
		RateContainer: "vector",
		Volume:        1,
		MaxSteps:      0,
		MaxTime:       0,
	},
	Snapshot: SnapshotConfig{
		Directory:     "/var/lib/cellsimd/snapshots/",
		IntervalSteps: 0,
	},
}

// validDirWritable validates that the field names a directory that exists
// and is writable by the current process: fail fast on bad config rather
// than discover a dead snapshot path mid-run.
func validDirWritable(fl validator.FieldLevel) bool {
	dir := fl.Field().String()
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	probe, err := os.CreateTemp(dir, ".cellsimd-writecheck-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return true
}

// envLoader loads environment variables with the prefix "CELLSIM_",
// lower-cased and dot-separated.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "CELLSIM_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, "CELLSIM_")), "_", ".")
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DefaultAppConfig, "koanf"), nil)
}

var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("dirwritable", validDirWritable)
}

// Load parses environment variables and returns an AppConfig instance,
// applying defaults first and validating the result.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}
	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

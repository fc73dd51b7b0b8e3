// Package config loads the engine's configuration surface into a single
// immutable value. There is no package-level singleton: Load returns a
// *Config that callers thread explicitly into every component.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/bushingplan/decisionengine/bmerr"
)

// NSGA holds the evolutionary-search parameters of spec §6.
type NSGA struct {
	PopulationSize          int     `mapstructure:"population_size" validate:"gt=0"`
	OffspringSize           int     `mapstructure:"offspring_size" validate:"gt=0"`
	MaxEvaluations          int     `mapstructure:"max_evaluations" validate:"gt=0"`
	CrossoverProbability    float64 `mapstructure:"crossover_probability" validate:"gte=0,lte=1"`
	CrossoverDistributionIx float64 `mapstructure:"crossover_distribution_index" validate:"gt=0"`
	MutationDistributionIx  float64 `mapstructure:"mutation_distribution_index" validate:"gt=0"`
}

// Problem holds the maintenance-problem parameters of spec §6.
type Problem struct {
	TimeBoundsLow  int     `mapstructure:"time_bounds_low" validate:"gte=1"`
	TimeBoundsHigh int     `mapstructure:"time_bounds_high" validate:"gtfield=TimeBoundsLow"`
	BaseCost       float64 `mapstructure:"base_cost" validate:"gte=0"`
	DecayRate      float64 `mapstructure:"decay_rate" validate:"gte=0"`
	NStates        int     `mapstructure:"n_states" validate:"gte=2"`
}

// AE holds the auto-encoder parameters of spec §6.
type AE struct {
	ModelArch           string  `mapstructure:"model_arch" validate:"oneof=dense conv"`
	LatentDim           int     `mapstructure:"latent_dim" validate:"gt=0"`
	WindowSize          int     `mapstructure:"window_size" validate:"gt=0"`
	NumEpochs           int     `mapstructure:"num_epochs" validate:"gt=0"`
	LearningRate        float64 `mapstructure:"learning_rate" validate:"gt=0"`
	ThresholdPercentile float64 `mapstructure:"threshold_percentile" validate:"gt=0,lte=100"`
	RollingWindow       int     `mapstructure:"rolling_window" validate:"gt=0"`
	BatchSize           int     `mapstructure:"batch_size" validate:"gt=0"`
}

// Config is the full, validated configuration surface of spec §6.
// It is built once by Load and passed by reference to every worker.
type Config struct {
	NSGA                     NSGA               `mapstructure:"nsga"`
	Problem                  Problem            `mapstructure:"problem"`
	AE                       AE                 `mapstructure:"ae"`
	DefaultUnavailabilityHrs map[string]float64 `mapstructure:"defaults_unavailability_hours"`
}

// Default returns the configuration of spec §6 with every key at its
// documented default.
func Default() *Config {
	return &Config{
		NSGA: NSGA{
			PopulationSize:          200,
			OffspringSize:           200,
			MaxEvaluations:          4000,
			CrossoverProbability:    1.0,
			CrossoverDistributionIx: 20,
			MutationDistributionIx:  20,
		},
		Problem: Problem{
			TimeBoundsLow:  1,
			TimeBoundsHigh: 3650,
			BaseCost:       500,
			DecayRate:      0.05,
			NStates:        5,
		},
		AE: AE{
			ModelArch:           "dense",
			LatentDim:           5,
			WindowSize:          168,
			NumEpochs:           50,
			LearningRate:        1e-3,
			ThresholdPercentile: 95,
			RollingWindow:       12,
			BatchSize:           32,
		},
		DefaultUnavailabilityHrs: map[string]float64{},
	}
}

var validate = validator.New()

// Load reads configuration from path (YAML, JSON, or TOML, detected by
// viper from the file extension) layered over Default, and validates the
// result. An unknown key or an out-of-range value is a ConfigError and
// the caller must abort before any work starts (spec §7).
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, bmerr.New("config.Load", bmerr.ConfigError, err)
	}
	if err := v.UnmarshalExact(cfg); err != nil {
		return nil, bmerr.New("config.Load", bmerr.ConfigError, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, bmerr.New("config.Load", bmerr.ConfigError, fmt.Errorf("invalid config: %w", err))
	}
	return cfg, nil
}

// Validate re-checks an already-constructed Config against its struct
// tags, useful when a Config is built programmatically rather than via
// Load.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return bmerr.New("config.Validate", bmerr.ConfigError, err)
	}
	return nil
}

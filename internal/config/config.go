// Package config loads simulation settings from defaults, a YAML file and
// BUBBLES_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/talgya/bubbles/internal/agents"
	"github.com/talgya/bubbles/internal/engine"
	"github.com/talgya/bubbles/internal/exposure"
	"github.com/talgya/bubbles/internal/timeline"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BUBBLES_"

// Config contains all simulation settings.
type Config struct {
	Simulation SimulationConfig `json:"simulation" yaml:"simulation" envPrefix:"SIMULATION_"`
	Timeline   TimelineConfig   `json:"timeline" yaml:"timeline" envPrefix:"TIMELINE_"`
	Population PopulationConfig `json:"population" yaml:"population" envPrefix:"POPULATION_"`
	Storage    StorageConfig    `json:"storage" yaml:"storage" envPrefix:"STORAGE_"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging" envPrefix:"LOGGING_"`
}

// SimulationConfig sizes the run and selects the behavioural variants.
type SimulationConfig struct {
	Agents int   `json:"agents" yaml:"agents" env:"AGENTS"`
	Sweeps int   `json:"sweeps" yaml:"sweeps" env:"SWEEPS"`
	Rounds int   `json:"rounds" yaml:"rounds" env:"ROUNDS"`
	Seed   int64 `json:"seed" yaml:"seed" env:"SEED"` // 0 draws a random seed

	// ExposurePolicy is "exact" (inclusion–exclusion, default) or "mean".
	ExposurePolicy string `json:"exposure_policy" yaml:"exposure_policy" env:"EXPOSURE_POLICY"`

	// SelectionPolicy is "strict" (default) or "threshold".
	SelectionPolicy string `json:"selection_policy" yaml:"selection_policy" env:"SELECTION_POLICY"`

	// SoloBaseline is the payoff of staying alone.
	SoloBaseline float64 `json:"solo_baseline" yaml:"solo_baseline" env:"SOLO_BASELINE"`
}

// TimelineConfig shapes the per-round multipliers.
type TimelineConfig struct {
	DecayStretch   float64   `json:"decay_stretch" yaml:"decay_stretch" env:"DECAY_STRETCH"`
	InfectionRates []float64 `json:"infection_rates" yaml:"infection_rates" env:"INFECTION_RATES" envSeparator:","`

	// Generator is "table" (use InfectionRates) or "noise".
	Generator      string  `json:"generator" yaml:"generator" env:"GENERATOR"`
	NoiseBase      float64 `json:"noise_base" yaml:"noise_base" env:"NOISE_BASE"`
	NoiseAmplitude float64 `json:"noise_amplitude" yaml:"noise_amplitude" env:"NOISE_AMPLITUDE"`
}

// PopulationConfig describes household trait distributions.
type PopulationConfig struct {
	MeanSociability   float64   `json:"mean_sociability" yaml:"mean_sociability" env:"MEAN_SOCIABILITY"`
	SDSociability     float64   `json:"sd_sociability" yaml:"sd_sociability" env:"SD_SOCIABILITY"`
	RiskFactors       []float64 `json:"risk_factors" yaml:"risk_factors" env:"RISK_FACTORS" envSeparator:","`
	OccupationClasses []float64 `json:"occupation_classes" yaml:"occupation_classes" env:"OCCUPATION_CLASSES" envSeparator:","`
	MinMembers        int       `json:"min_members" yaml:"min_members" env:"MIN_MEMBERS"`
	MaxMembers        int       `json:"max_members" yaml:"max_members" env:"MAX_MEMBERS"`
}

// StorageConfig locates the run history database. An empty path disables it.
type StorageConfig struct {
	Path string `json:"path" yaml:"path" env:"PATH"`
}

// LoggingConfig configures operational logging.
type LoggingConfig struct {
	// Level is "debug", "info" (default), "warn" or "error".
	Level string `json:"level" yaml:"level" env:"LEVEL"`
	// Format is "text", "json" or "auto" (text on a terminal).
	Format string `json:"format" yaml:"format" env:"FORMAT"`
}

// Default returns a Config with the standard model parameters.
func Default() *Config {
	pop := agents.DefaultPopulationConfig()
	noise := timeline.DefaultNoiseConfig()
	return &Config{
		Simulation: SimulationConfig{
			Agents:          20,
			Sweeps:          10,
			Rounds:          8,
			ExposurePolicy:  "exact",
			SelectionPolicy: "strict",
		},
		Timeline: TimelineConfig{
			DecayStretch:   timeline.DefaultDecayStretch,
			InfectionRates: append([]float64(nil), timeline.DefaultInfectionRates...),
			Generator:      "table",
			NoiseBase:      noise.Base,
			NoiseAmplitude: noise.Amplitude,
		},
		Population: PopulationConfig{
			MeanSociability:   pop.MeanSociability,
			SDSociability:     pop.SDSociability,
			RiskFactors:       pop.RiskFactors,
			OccupationClasses: pop.OccupationClasses,
			MinMembers:        pop.MinMembers,
			MaxMembers:        pop.MaxMembers,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = fileCfg
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from BUBBLES_* variables. Unset variables leave
// fields untouched.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the configuration before anything runs.
func (c *Config) Validate() error {
	s := c.Simulation
	if s.Agents < 1 {
		return invalid("agents must be at least 1, got %d", s.Agents)
	}
	if s.Sweeps < 1 {
		return invalid("sweeps must be at least 1, got %d", s.Sweeps)
	}
	if s.Rounds < 1 {
		return invalid("rounds must be at least 1, got %d", s.Rounds)
	}
	if _, err := exposure.ParsePolicy(s.ExposurePolicy); err != nil {
		return invalid("%v", err)
	}
	if _, err := engine.ParseSelectionPolicy(s.SelectionPolicy); err != nil {
		return invalid("%v", err)
	}

	tl := c.Timeline
	if !(tl.DecayStretch > 0) {
		return invalid("decay_stretch must be positive, got %v", tl.DecayStretch)
	}
	switch tl.Generator {
	case "", "table":
		if len(tl.InfectionRates) < s.Rounds {
			return invalid("infection_rates has %d entries but %d rounds are configured", len(tl.InfectionRates), s.Rounds)
		}
		for i, r := range tl.InfectionRates {
			if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
				return invalid("infection_rates[%d] is %v, want a finite non-negative value", i, r)
			}
		}
	case "noise":
		if tl.NoiseBase < 0 || tl.NoiseAmplitude < 0 {
			return invalid("noise_base and noise_amplitude must be non-negative")
		}
	default:
		return invalid("unknown generator %q (valid: table, noise)", tl.Generator)
	}

	p := c.Population
	if p.SDSociability < 0 {
		return invalid("sd_sociability must be non-negative, got %v", p.SDSociability)
	}
	if err := checkProbabilities("risk_factors", p.RiskFactors); err != nil {
		return err
	}
	if err := checkProbabilities("occupation_classes", p.OccupationClasses); err != nil {
		return err
	}
	if p.MinMembers < 1 || p.MaxMembers < p.MinMembers {
		return invalid("member range [%d, %d] is invalid", p.MinMembers, p.MaxMembers)
	}

	validLevels := map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return invalid("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}
	validFormats := map[string]bool{"": true, "auto": true, "text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return invalid("invalid log format: %s (valid: auto, text, json)", c.Logging.Format)
	}
	return nil
}

func checkProbabilities(name string, ps []float64) error {
	if len(ps) == 0 {
		return invalid("%s must not be empty", name)
	}
	for i, p := range ps {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return invalid("%s[%d] is %v, want [0, 1]", name, i, p)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Options converts a validated Config into engine options for the given seed.
func (c *Config) Options(seed int64) (engine.Options, error) {
	if err := c.Validate(); err != nil {
		return engine.Options{}, err
	}

	exp, _ := exposure.ParsePolicy(c.Simulation.ExposurePolicy)
	sel, _ := engine.ParseSelectionPolicy(c.Simulation.SelectionPolicy)

	schedule := &timeline.Schedule{Stretch: c.Timeline.DecayStretch}
	if c.Timeline.Generator == "noise" {
		schedule.Rates = timeline.NoiseRates(timeline.NoiseConfig{
			Seed:      seed + 200,
			Rounds:    c.Simulation.Rounds,
			Base:      c.Timeline.NoiseBase,
			Amplitude: c.Timeline.NoiseAmplitude,
		})
	} else {
		schedule.Rates = append([]float64(nil), c.Timeline.InfectionRates...)
	}

	return engine.Options{
		Agents: c.Simulation.Agents,
		Rounds: c.Simulation.Rounds,
		Seed:   seed,
		World: engine.WorldConfig{
			Sweeps:    c.Simulation.Sweeps,
			Exposure:  exp,
			Selection: sel,
		},
		Population: agents.PopulationConfig{
			MeanSociability:   c.Population.MeanSociability,
			SDSociability:     c.Population.SDSociability,
			RiskFactors:       append([]float64(nil), c.Population.RiskFactors...),
			OccupationClasses: append([]float64(nil), c.Population.OccupationClasses...),
			MinMembers:        c.Population.MinMembers,
			MaxMembers:        c.Population.MaxMembers,
			Baseline:          c.Simulation.SoloBaseline,
		},
		Schedule: schedule,
	}, nil
}

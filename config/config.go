// Package config provides configuration loading and validation for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid reports a configuration that cannot produce a runnable
// simulation. It is surfaced before any stepping starts; callers must
// not step after receiving it.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation parameters. It is built once before the
// simulation starts and never mutated afterward.
type Config struct {
	Grid       GridConfig      `yaml:"grid"`
	Plants     PlantConfig     `yaml:"plants"`
	Herbivores SpeciesConfig   `yaml:"herbivores"`
	Carnivores SpeciesConfig   `yaml:"carnivores"`
	Movement   MoveConfig      `yaml:"movement"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`
}

// GridConfig holds world grid dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PlantConfig holds plant population parameters. Plants carry a fixed
// energy payload and do not decay; they persist until eaten.
type PlantConfig struct {
	InitialCount   int     `yaml:"initial_count"`
	InitialEnergy  int     `yaml:"initial_energy"`
	RegrowthChance float64 `yaml:"regrowth_chance"`
}

// SpeciesConfig holds the per-kind parameters shared by herbivores and
// carnivores.
type SpeciesConfig struct {
	InitialCount   int     `yaml:"initial_count"`
	InitialEnergy  int     `yaml:"initial_energy"`
	EnergyGain     int     `yaml:"energy_gain"`  // energy gained per meal
	EnergyDecay    int     `yaml:"energy_decay"` // energy lost per tick
	ReproThreshold int     `yaml:"repro_threshold"`
	ReproChance    float64 `yaml:"repro_chance"`
	VisionRadius   int     `yaml:"vision_radius"` // Chebyshev radius
}

// MoveConfig holds movement parameters.
type MoveConfig struct {
	StepSize int `yaml:"step_size"` // cells moved per tick when pursuing a target
}

// TelemetryConfig holds stats output parameters.
type TelemetryConfig struct {
	LogEvery int `yaml:"log_every"` // log stats every N ticks (0 = never)
}

// Load reads configuration from a YAML file, merging it over the
// embedded defaults. An empty path uses the defaults alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every parameter is inside its valid range and
// that the grid can hold the initial populations without overlap.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("%w: grid %dx%d must have positive dimensions", ErrInvalid, c.Grid.Width, c.Grid.Height)
	}
	if c.Plants.InitialCount < 0 || c.Herbivores.InitialCount < 0 || c.Carnivores.InitialCount < 0 {
		return fmt.Errorf("%w: initial counts must be non-negative", ErrInvalid)
	}
	total := c.Plants.InitialCount + c.Herbivores.InitialCount + c.Carnivores.InitialCount
	if total > c.Grid.Width*c.Grid.Height {
		return fmt.Errorf("%w: grid %dx%d cannot hold %d initial agents", ErrInvalid, c.Grid.Width, c.Grid.Height, total)
	}
	if c.Plants.InitialEnergy < 0 {
		return fmt.Errorf("%w: plants.initial_energy %d must be non-negative", ErrInvalid, c.Plants.InitialEnergy)
	}
	if err := validateChance("plants.regrowth_chance", c.Plants.RegrowthChance); err != nil {
		return err
	}
	if err := c.Herbivores.validate("herbivores"); err != nil {
		return err
	}
	if err := c.Carnivores.validate("carnivores"); err != nil {
		return err
	}
	if c.Movement.StepSize < 1 {
		return fmt.Errorf("%w: movement.step_size %d must be at least 1", ErrInvalid, c.Movement.StepSize)
	}
	if c.Telemetry.LogEvery < 0 {
		return fmt.Errorf("%w: telemetry.log_every %d must be non-negative", ErrInvalid, c.Telemetry.LogEvery)
	}
	return nil
}

func (s *SpeciesConfig) validate(name string) error {
	if s.InitialEnergy < 0 || s.EnergyGain < 0 || s.EnergyDecay < 0 || s.ReproThreshold < 0 {
		return fmt.Errorf("%w: %s energy parameters must be non-negative", ErrInvalid, name)
	}
	if s.VisionRadius < 0 {
		return fmt.Errorf("%w: %s.vision_radius %d must be non-negative", ErrInvalid, name, s.VisionRadius)
	}
	return validateChance(name+".repro_chance", s.ReproChance)
}

func validateChance(name string, p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("%w: %s %.3f must be in [0, 1]", ErrInvalid, name, p)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file, typically into an
// output directory for run provenance.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

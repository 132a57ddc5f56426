package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/sawpanic/wellrun/internal/model"
	"github.com/sawpanic/wellrun/internal/sim"
)

// Config is the on-disk configuration: cost-model constants plus simulation
// and HTTP server defaults. Every field has a compiled-in default; a config
// file only needs the sections it overrides.
type Config struct {
	Economics  model.Economics `yaml:"economics"`
	Simulation Simulation      `yaml:"simulation"`
	Server     Server          `yaml:"server"`
}

// Simulation holds Monte Carlo defaults used when the caller does not
// specify them.
type Simulation struct {
	Trials     int            `yaml:"trials"`
	Workers    int            `yaml:"workers"` // 0 means all cores
	Volatility sim.Volatility `yaml:"volatility"`
}

// Server holds HTTP interface settings.
type Server struct {
	Host           string  `yaml:"host"`
	Port           int     `yaml:"port"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Economics: model.DefaultEconomics(),
		Simulation: Simulation{
			Trials:     1000,
			Workers:    0,
			Volatility: sim.DefaultVolatility(),
		},
		Server: Server{
			Host:           "127.0.0.1", // local-only by default
			Port:           8080,
			RateLimitRPS:   5,
			RateLimitBurst: 10,
		},
	}
}

// Load reads configuration from path over the defaults, so omitted sections
// keep their compiled-in values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if err := c.Economics.Validate(len(c.Economics.CapexSchedule)); err != nil {
		return err
	}
	if len(c.Economics.CapexSchedule) == 0 {
		return fmt.Errorf("economics: capex schedule must not be empty")
	}
	if c.Simulation.Trials < 1 {
		return fmt.Errorf("simulation: trials %d must be positive", c.Simulation.Trials)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: port %d out of range", c.Server.Port)
	}
	return nil
}

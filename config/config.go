// Package config loads the simulator configuration from a yaml or json file
// with EVFLEET_ environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/evfleet/core/metrics"
	"github.com/kilianp07/evfleet/infra/monitoring"
	"github.com/kilianp07/evfleet/infra/store"
)

// EnvPrefix is stripped from environment overrides. A double underscore
// separates nested keys: EVFLEET_SIMULATION__DAYS sets simulation.days.
const EnvPrefix = "EVFLEET_"

type Config struct {
	Simulation SimulationConfig  `json:"simulation"`
	Profiles   ProfilesConfig    `json:"profiles"`
	Logging    LoggingConfig     `json:"logging"`
	Metrics    metrics.Config    `json:"metrics"`
	Store      store.Config      `json:"store"`
	Export     ExportConfig      `json:"export"`
	Live       LiveConfig        `json:"live"`
	Sentry     monitoring.Config `json:"sentry"`
}

// Load reads path, applies environment overrides, defaults and validation.
// An empty path yields a configuration built from the environment alone.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// Default returns a configuration with every section defaulted.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Simulation.SetDefaults()
	c.Logging.SetDefaults()
	c.Store.SetDefaults()
	c.Export.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for i, s := range c.Metrics.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics: sink %d has no type", i)
		}
	}
	return nil
}

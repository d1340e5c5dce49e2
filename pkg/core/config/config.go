// Package config loads server configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the server configuration, loaded from config/server.yaml.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`
	// ScenarioDir holds the bundled .hjson scenario files.
	ScenarioDir string `yaml:"scenario_dir"`
	// DefaultScenario names an optional scenario file loaded at startup in
	// place of the built-in defaults.
	DefaultScenario string `yaml:"default_scenario"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Addr:        ":8080",
		ScenarioDir: "scenarios",
	}
}

// Load reads the YAML file at path, falling back to defaults for missing
// keys. A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Addr == "" {
		cfg.Addr = Default().Addr
	}
	if cfg.ScenarioDir == "" {
		cfg.ScenarioDir = Default().ScenarioDir
	}
	return cfg, nil
}

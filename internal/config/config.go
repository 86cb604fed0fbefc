package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level settled.yaml configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Rejects RejectsConfig `yaml:"rejects"`
}

// InputConfig selects the transaction source format.
type InputConfig struct {
	Format string `yaml:"format"`
}

// OutputConfig controls snapshot rendering.
type OutputConfig struct {
	Scale int32 `yaml:"scale"` // fractional digits for monetary fields
}

// RejectsConfig controls the reject log.
type RejectsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads a settled.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Format: "csv",
		},
		Output: OutputConfig{
			Scale: 4,
		},
		Rejects: RejectsConfig{
			Enabled: true,
			Path:    "logs/rejects.csv",
		},
	}
}

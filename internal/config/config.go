// Package config loads the optional harness configuration file.
//
// The file supplies defaults for flags; flags set explicitly on the
// command line always win. Decoding is strict: unknown keys are
// rejected so typos surface as configuration faults instead of
// silently falling back to defaults.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTimeout matches harness.DefaultTimeout; duplicated here so the
// config package does not depend on the harness.
const DefaultTimeout = 5 * time.Second

// DefaultOutputDir is where report artifacts land unless overridden.
const DefaultOutputDir = "test_results"

// Config holds harness defaults.
//
//	timeout: 5s
//	output_dir: test_results
//	database: history.db
type Config struct {
	Timeout   Duration `yaml:"timeout"`
	OutputDir string   `yaml:"output_dir"`
	Database  string   `yaml:"database"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timeout:   Duration(DefaultTimeout),
		OutputDir: DefaultOutputDir,
	}
}

// Load reads a YAML config file, layered over Default().
// Missing keys keep their defaults; unknown keys are errors.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("invalid config: timeout must be positive")
	}
	if cfg.OutputDir == "" {
		return Config{}, fmt.Errorf("invalid config: output_dir must not be empty")
	}

	return cfg, nil
}

// Duration wraps time.Duration so YAML values like "5s" parse with
// time.ParseDuration semantics.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration. Values act as defaults
// for the corresponding command-line flags.
type Config struct {
	// OutputFormat is the default conversion target: json, mlf, or textgrid.
	OutputFormat string `yaml:"output_format"`

	// SampleRate and Hopsize are the defaults for frame-bound queries.
	SampleRate int `yaml:"sample_rate"`
	Hopsize    int `yaml:"hopsize"`

	// MaxConcurrent bounds parallel file conversions; 1 forces sequential
	// processing.
	MaxConcurrent int `yaml:"max_concurrent"`

	// FilesPerSec throttles batch conversion, useful on shared network
	// filesystems. 0 disables the throttle.
	FilesPerSec float64 `yaml:"files_per_sec"`
}

// Default returns a Config with hardcoded defaults.
func Default() *Config {
	return &Config{
		OutputFormat:  "json",
		SampleRate:    16000,
		Hopsize:       160,
		MaxConcurrent: 4,
		FilesPerSec:   0,
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.OutputFormat == "" {
		return fmt.Errorf("output_format must not be empty")
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Hopsize <= 0 {
		return fmt.Errorf("hopsize must be positive, got %d", c.Hopsize)
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1, got %d", c.MaxConcurrent)
	}
	if c.FilesPerSec < 0 {
		return fmt.Errorf("files_per_sec must not be negative, got %g", c.FilesPerSec)
	}
	return nil
}

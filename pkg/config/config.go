// Package config loads the YAML run configuration of community-search.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
	"github.com/dd0wney/cluso-communities/pkg/search"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// Config is the full run configuration
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Search SearchConfig `yaml:"search"`
	Log    LogConfig    `yaml:"log"`
}

// InputConfig locates the edge list and names its two columns
type InputConfig struct {
	Path        string `yaml:"path" validate:"required"`
	SideAColumn string `yaml:"side_a_column" validate:"required"`
	SideBColumn string `yaml:"side_b_column" validate:"required"`
	HasHeader   *bool  `yaml:"has_header,omitempty" validate:"-"` // default true
}

// SearchConfig holds the grid axes and run options
type SearchConfig struct {
	Thresholds     []int     `yaml:"thresholds" validate:"min=1,unique,dive,gte=0"`
	Resolutions    []float64 `yaml:"resolutions" validate:"min=1,unique,dive,gt=0,finite"`
	Debug          bool      `yaml:"debug"`
	Workers        int       `yaml:"workers" validate:"-"`
	Seed           *int64    `yaml:"seed,omitempty" validate:"-"`
	ComponentLevel string    `yaml:"component_log_level" validate:"-"`
}

// LogConfig sets the level of the top-level logger
type LogConfig struct {
	Level string `yaml:"level" validate:"-"`
}

var levels = []string{"debug", "info", "warn", "error"}

// DefaultConfig returns a configuration with every optional field set
func DefaultConfig() *Config {
	header := true
	return &Config{
		Input: InputConfig{HasHeader: &header},
		Search: SearchConfig{
			Resolutions:    []float64{1.0},
			Workers:        1,
			ComponentLevel: "warn",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads and validates the configuration at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, fills in defaults and validates the result. Unknown
// fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Input.HasHeader == nil {
		c.Input.HasHeader = d.Input.HasHeader
	}
	if len(c.Search.Resolutions) == 0 {
		c.Search.Resolutions = d.Search.Resolutions
	}
	if c.Search.Workers == 0 {
		c.Search.Workers = d.Search.Workers
	}
	if c.Search.ComponentLevel == "" {
		c.Search.ComponentLevel = d.Search.ComponentLevel
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Validate checks every section and reports all failures together
func (c *Config) Validate() error {
	return validation.NewConfigValidator("config").
		Struct(&c.Input).
		Struct(&c.Search).
		Positive("search.workers", c.Search.Workers).
		Distinct("input.side_a_column", c.Input.SideAColumn, "input.side_b_column", c.Input.SideBColumn).
		OneOf("search.component_log_level", strings.ToLower(c.Search.ComponentLevel), levels).
		OneOf("log.level", strings.ToLower(c.Log.Level), levels).
		Validate()
}

// Header reports whether the first input row names the columns
func (c *Config) Header() bool {
	return c.Input.HasHeader == nil || *c.Input.HasHeader
}

// LogLevel returns the parsed top-level log level
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// SearchOptions converts the configuration into grid search options
func (c *Config) SearchOptions(logger logging.Logger, reg *metrics.Registry) search.Options {
	return search.Options{
		SideAKey:       c.Input.SideAColumn,
		SideBKey:       c.Input.SideBColumn,
		Thresholds:     c.Search.Thresholds,
		Resolutions:    c.Search.Resolutions,
		Debug:          c.Search.Debug,
		Workers:        c.Search.Workers,
		Seed:           c.Search.Seed,
		ComponentLevel: logging.ParseLevel(c.Search.ComponentLevel),
		Logger:         logger,
		Metrics:        reg,
	}
}

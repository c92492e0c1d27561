package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"filepace/pkg/types"
)

// DefaultCommands is the watch list used when no command is given on the
// command line or in the config file.
var DefaultCommands = []string{"cp", "mv", "dd", "cat"}

// Config defines configuration for the filepace CLI.
type Config struct {
	Commands           []string      `yaml:"commands"`
	AdditionalCommands []string      `yaml:"additional_commands"`
	Interval           time.Duration `yaml:"interval"`
	Window             time.Duration `yaml:"window"`
	HistoryDepth       int           `yaml:"history_depth"`
	QueryTimeout       time.Duration `yaml:"query_timeout"`
	MinSize            types.Bytes   `yaml:"min_size"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Commands:     append([]string(nil), DefaultCommands...),
		Interval:     time.Second,
		Window:       30 * time.Second,
		HistoryDepth: 10,
		QueryTimeout: 500 * time.Millisecond,
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	Commands           []string `yaml:"commands"`
	AdditionalCommands []string `yaml:"additional_commands"`
	Interval           string   `yaml:"interval"`
	Window             string   `yaml:"window"`
	HistoryDepth       int      `yaml:"history_depth"`
	QueryTimeout       string   `yaml:"query_timeout"`
	MinSize            string   `yaml:"min_size"`
}

// LoadFromFile loads configuration from a YAML file, layered over the
// defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if len(yc.Commands) > 0 {
		cfg.Commands = yc.Commands
	}
	if len(yc.AdditionalCommands) > 0 {
		cfg.AdditionalCommands = yc.AdditionalCommands
	}
	if yc.Interval != "" {
		d, err := time.ParseDuration(yc.Interval)
		if err != nil {
			return Config{}, fmt.Errorf("parse interval: %w", err)
		}
		cfg.Interval = d
	}
	if yc.Window != "" {
		d, err := time.ParseDuration(yc.Window)
		if err != nil {
			return Config{}, fmt.Errorf("parse window: %w", err)
		}
		cfg.Window = d
	}
	if yc.HistoryDepth != 0 {
		cfg.HistoryDepth = yc.HistoryDepth
	}
	if yc.QueryTimeout != "" {
		d, err := time.ParseDuration(yc.QueryTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse query_timeout: %w", err)
		}
		cfg.QueryTimeout = d
	}
	if yc.MinSize != "" {
		size, err := types.ParseBytes(yc.MinSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse min_size: %w", err)
		}
		cfg.MinSize = size
	}

	return cfg, nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if len(override.Commands) > 0 {
		c.Commands = override.Commands
	}
	if len(override.AdditionalCommands) > 0 {
		c.AdditionalCommands = append(c.AdditionalCommands, override.AdditionalCommands...)
	}
	if override.Interval != 0 {
		c.Interval = override.Interval
	}
	if override.Window != 0 {
		c.Window = override.Window
	}
	if override.HistoryDepth != 0 {
		c.HistoryDepth = override.HistoryDepth
	}
	if override.QueryTimeout != 0 {
		c.QueryTimeout = override.QueryTimeout
	}
	if override.MinSize != 0 {
		c.MinSize = override.MinSize
	}
	return c
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return errors.New("config: interval must be positive")
	}
	if c.Window <= 0 {
		return errors.New("config: window must be positive")
	}
	if c.HistoryDepth < 2 {
		return errors.New("config: history_depth must be at least 2")
	}
	if c.QueryTimeout <= 0 {
		return errors.New("config: query_timeout must be positive")
	}
	return nil
}

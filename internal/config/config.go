// Package config loads the YAML configuration of the logic command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for a logic session.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
	Journal JournalConfig `yaml:"journal"`
	REPL    REPLConfig    `yaml:"repl"`
}

// EngineConfig configures the search engine.
type EngineConfig struct {
	// Maximum nested rule applications per branch. Negative disables the
	// limit, which lets a runaway rule exhaust the stack.
	DepthLimit int `yaml:"depth_limit"`

	// Maximum answers printed per query. Zero prints every answer.
	SolutionLimit int `yaml:"solution_limit"`
}

// JournalConfig configures the persistent fact journal.
type JournalConfig struct {
	Path     string `yaml:"path"` // empty disables the journal
	InMemory bool   `yaml:"in_memory"`
}

// Enabled reports whether a journal should be opened.
func (c JournalConfig) Enabled() bool {
	return c.Path != "" || c.InMemory
}

// REPLConfig configures the interactive shell.
type REPLConfig struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".gokanquery_history")
	}
	return &Config{
		Engine: EngineConfig{
			DepthLimit:    50,
			SolutionLimit: 0,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		REPL: REPLConfig{
			Prompt:      "logic> ",
			HistoryFile: history,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the session cannot use.
func (c *Config) Validate() error {
	if c.Engine.SolutionLimit < 0 {
		return fmt.Errorf("engine.solution_limit must not be negative, got %d", c.Engine.SolutionLimit)
	}
	if _, err := c.Logging.level(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("GOKANQUERY_DEPTH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GOKANQUERY_DEPTH_LIMIT: %w", err)
		}
		c.Engine.DepthLimit = n
	}
	if v := os.Getenv("GOKANQUERY_JOURNAL"); v != "" {
		c.Journal.Path = v
	}
	if v := os.Getenv("GOKANQUERY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

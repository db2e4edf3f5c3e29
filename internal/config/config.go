// Package config loads clinicterm configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all clinicterm configuration.
type Config struct {
	// Server is the backend connection.
	Server ServerConfig `yaml:"server"`

	// UI tunes the interactive interface.
	UI UIConfig `yaml:"ui"`

	// Export configures the HTML report export.
	Export ExportConfig `yaml:"export"`

	// Logging configures the log file.
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the clinic backend connection.
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the TUI.
type UIConfig struct {
	// SearchDebounce is how long search input must be idle before a
	// request fires.
	SearchDebounce string `yaml:"search_debounce"`
	Theme          string `yaml:"theme"` // auto, light, dark
}

// ExportConfig configures the report export command.
type ExportConfig struct {
	// Concurrency bounds how many visit lists are fetched in parallel.
	Concurrency int    `yaml:"concurrency"`
	OutputPath  string `yaml:"output_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:5000",
			Timeout: "15s",
		},
		UI: UIConfig{
			SearchDebounce: "400ms",
			Theme:          "auto",
		},
		Export: ExportConfig{
			Concurrency: 4,
			OutputPath:  "clinic-report.html",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "",
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "clinicterm", "config.yaml")
	}
	return "config.yaml"
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

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

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("CLINICTERM_SERVER"); url != "" {
		c.Server.BaseURL = url
	}
	if t := os.Getenv("CLINICTERM_TIMEOUT"); t != "" {
		c.Server.Timeout = t
	}
	if lvl := os.Getenv("CLINICTERM_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if file := os.Getenv("CLINICTERM_LOG_FILE"); file != "" {
		c.Logging.File = file
	}
}

// GetTimeout returns the request timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetSearchDebounce returns the search debounce interval as a duration.
func (c *Config) GetSearchDebounce() time.Duration {
	d, err := time.ParseDuration(c.UI.SearchDebounce)
	if err != nil {
		return 400 * time.Millisecond
	}
	return d
}

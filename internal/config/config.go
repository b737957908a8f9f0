// Package config loads the forge configuration from YAML with
// environment-variable overrides on top. A missing config file is not an
// error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all forge configuration.
type Config struct {
	// Generation provider
	Provider ProviderConfig `yaml:"provider"`

	// Pipeline behavior
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Run history storage
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ProviderConfig configures the generation backend.
type ProviderConfig struct {
	Backend string `yaml:"backend"` // http, gemini, mock
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// PipelineConfig configures pipeline behavior.
type PipelineConfig struct {
	SkipValidation bool   `yaml:"skip_validation"`
	OutputDir      string `yaml:"output_dir"`
}

// StorageConfig configures the run history database.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Backend: "http",
			Model:   "gpt-4o-mini",
			BaseURL: "https://api.openai.com/v1",
			Timeout: "120s",
		},
		Pipeline: PipelineConfig{
			SkipValidation: false,
			OutputDir:      "generated",
		},
		Storage: StorageConfig{
			DatabasePath: "data/forge.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A nonexistent path yields
// the defaults with environment overrides applied.
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

// applyEnvOverrides applies environment variable overrides. API keys are
// checked in priority order; the last one set wins the backend selection.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Provider.APIKey = key
		c.Provider.Backend = "http"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Provider.APIKey = key
		c.Provider.Backend = "gemini"
	}
	if key := os.Getenv("FORGE_API_KEY"); key != "" {
		c.Provider.APIKey = key
	}

	if backend := os.Getenv("FORGE_PROVIDER"); backend != "" {
		c.Provider.Backend = backend
	}
	if model := os.Getenv("FORGE_MODEL"); model != "" {
		c.Provider.Model = model
	}
	if url := os.Getenv("FORGE_BASE_URL"); url != "" {
		c.Provider.BaseURL = url
	}
	if path := os.Getenv("FORGE_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
	if dir := os.Getenv("FORGE_OUTPUT_DIR"); dir != "" {
		c.Pipeline.OutputDir = dir
	}
}

// GetProviderTimeout returns the provider timeout as a duration.
func (c *Config) GetProviderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Provider.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// Package config provides configuration loading and validation for the
// jobtrack server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the settings shared by the server and the CLI session
// commands. All fields are optional in the JSON file; missing values fall
// back to environment variables and then to built-in defaults.
type Config struct {
	DatabaseURL     string `json:"database_url,omitempty"`     // PostgreSQL connection URL
	Port            int    `json:"port,omitempty"`             // HTTP listen port
	StorageRoot     string `json:"storage_root,omitempty"`     // Directory for resume objects
	PrefsPath       string `json:"prefs_path,omitempty"`       // Preferences file for the CLI
	DefaultCurrency string `json:"default_currency,omitempty"` // Fallback salary currency code
	Verbose         bool   `json:"verbose,omitempty"`          // Debug-level logging
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables:
// DATABASE_URL, PORT, STORAGE_ROOT, JOBTRACK_PREFS and DEFAULT_CURRENCY.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		StorageRoot:     os.Getenv("STORAGE_ROOT"),
		PrefsPath:       os.Getenv("JOBTRACK_PREFS"),
		DefaultCurrency: os.Getenv("DEFAULT_CURRENCY"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	return cfg, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. File values win over environment values, which win over
// built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.StorageRoot == "" {
		result.StorageRoot = defaults.StorageRoot
	}
	if result.PrefsPath == "" {
		result.PrefsPath = defaults.PrefsPath
	}
	if result.DefaultCurrency == "" {
		result.DefaultCurrency = defaults.DefaultCurrency
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields cannot distinguish unset from false, so they are not
	// merged; CLI flags always win for those.

	return result
}

// Normalize fills remaining defaults and validates the result.
func (c *Config) Normalize() error {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.StorageRoot == "" {
		c.StorageRoot = "data/resumes"
	}
	if c.PrefsPath == "" {
		c.PrefsPath = "data/prefs.json"
	}
	if c.DefaultCurrency == "" {
		c.DefaultCurrency = "USD"
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port out of range: %d", c.Port)
	}
	if len(c.DefaultCurrency) != 3 {
		return fmt.Errorf("config error: default currency must be a 3-letter code, got %q", c.DefaultCurrency)
	}

	return nil
}

// Package config provides configuration management for vault-admin.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/evermediavault/vault-admin/internal/constants"
)

// Config holds the client configuration.
//
// Config file location:
//   - Windows: %USERPROFILE%\.config\vault-admin\config
//   - Unix: ~/.config/vault-admin/config
//
// INI format:
//
//	[vault]
//	base_url = https://api.evermediavault.example
//	max_concurrent = 4
//
// The VAULT_BASE_URL environment variable overrides base_url, and CLI
// flags override both.
type Config struct {
	// BaseURL is the backend API base URL.
	BaseURL string `ini:"base_url"`

	// MaxConcurrent bounds simultaneously in-flight item transfers.
	MaxConcurrent int `ini:"max_concurrent"`

	// DataDir is where the session store persists its values.
	// Defaults to the config directory.
	DataDir string `ini:"data_dir"`
}

// Validation errors
var (
	ErrMissingBaseURL       = errors.New("base_url is required")
	ErrInvalidMaxConcurrent = fmt.Errorf("max_concurrent must be between %d and %d",
		constants.MinUploadConcurrency, constants.MaxUploadConcurrency)
)

// DefaultConfigDir returns the directory holding the config file and the
// persisted session state.
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
		return filepath.Join(userProfile, ".config", "vault-admin"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vault-admin"), nil
}

// DefaultConfigPath returns the default path for the config file.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config"), nil
}

// Default returns a config populated with defaults only.
func Default() *Config {
	return &Config{
		MaxConcurrent: constants.DefaultUploadConcurrency,
	}
}

// Load reads the config file at path, applying defaults and environment
// overrides. A missing file is not an error; defaults and environment
// carry the config.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			file, err := ini.Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
			if err := file.Section("vault").MapTo(cfg); err != nil {
				return nil, fmt.Errorf("failed to map config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if envURL := os.Getenv("VAULT_BASE_URL"); envURL != "" {
		cfg.BaseURL = envURL
	}

	if cfg.DataDir == "" {
		dir, err := DefaultConfigDir()
		if err == nil {
			cfg.DataDir = dir
		}
	}

	return cfg, nil
}

// Validate checks the configuration for use by the API client.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	if c.MaxConcurrent < constants.MinUploadConcurrency || c.MaxConcurrent > constants.MaxUploadConcurrency {
		return ErrInvalidMaxConcurrent
	}
	return nil
}

// Save writes the config to path in INI format, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	file := ini.Empty()
	if err := file.Section("vault").ReflectFrom(c); err != nil {
		return fmt.Errorf("failed to build config file: %w", err)
	}
	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return os.Chmod(path, 0600)
}

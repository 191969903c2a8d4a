// Package common provides shared utilities for ofxpostern
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for ofxpostern
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Client  ClientConfig  `toml:"client"`
	Logging LoggingConfig `toml:"logging"`
}

// StorageConfig holds the persistent cache location.
type StorageConfig struct {
	// Path is the data root holding cached responses.
	// Empty means $HOME/.ofxpostern.
	Path string `toml:"path"`
}

// ClientConfig holds OFX client configuration
type ClientConfig struct {
	Timeout   string `toml:"timeout"`
	RateLimit int    `toml:"rate_limit"`
	UserAgent string `toml:"user_agent"`
}

// GetTimeout parses and returns the timeout duration
func (c *ClientConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: "",
		},
		Client: ClientConfig{
			Timeout:   "30s",
			RateLimit: 2,
			UserAgent: "InetClntApp/3.0",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// DataPath resolves the configured data root, defaulting to
// $HOME/.ofxpostern when unset.
func (c *Config) DataPath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, "."+ProgramName), nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if path := os.Getenv("OFXPOSTERN_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if level := os.Getenv("OFXPOSTERN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if timeout := os.Getenv("OFXPOSTERN_CLIENT_TIMEOUT"); timeout != "" {
		config.Client.Timeout = timeout
	}

	if limit := os.Getenv("OFXPOSTERN_CLIENT_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			config.Client.RateLimit = n
		}
	}

	if ua := os.Getenv("OFXPOSTERN_USER_AGENT"); ua != "" {
		config.Client.UserAgent = ua
	}
}

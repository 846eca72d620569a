// Package config loads notedex configuration: defaults, then an optional
// YAML file, then NOTEDEX_* environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/notedex/notedex/internal/errors"
)

// FileName is the vault-local configuration file name.
const FileName = ".notedex.yaml"

// Config represents the complete notedex configuration.
type Config struct {
	Vault   VaultConfig   `yaml:"vault" json:"vault"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// VaultConfig configures the notes directory and its watcher.
type VaultConfig struct {
	// Dir is the notes root directory.
	Dir string `yaml:"dir" json:"dir"`

	// WatchDebounce is the window for coalescing rapid file events.
	WatchDebounce time.Duration `yaml:"watch_debounce" json:"watch_debounce"`

	// MaxFileSizeKB skips note files larger than this during scanning.
	MaxFileSizeKB int `yaml:"max_file_size_kb" json:"max_file_size_kb"`
}

// SearchConfig configures query evaluation.
type SearchConfig struct {
	// MaxResults caps the number of results returned to collaborators.
	MaxResults int `yaml:"max_results" json:"max_results"`

	// CacheSize is the number of query results kept in the LRU cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Vault: VaultConfig{
			Dir:           ".",
			WatchDebounce: 500 * time.Millisecond,
			MaxFileSizeKB: 4096,
		},
		Search: SearchConfig{
			MaxResults: 50,
			CacheSize:  256,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:7781",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration for a vault directory:
// defaults, overlaid with <dir>/.notedex.yaml when present, overlaid with
// environment variables.
func Load(dir string) (*Config, error) {
	cfg := Default()
	if dir != "" {
		cfg.Vault.Dir = dir
	}

	path := filepath.Join(cfg.Vault.Dir, FileName)
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.ConfigError(fmt.Sprintf("invalid config file %s", path), err)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeConfigNotFound, fmt.Sprintf("cannot read config file %s", path), err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays NOTEDEX_* environment variables, the highest-priority
// configuration source.
func applyEnv(cfg *Config) {
	if v := os.Getenv("NOTEDEX_VAULT_DIR"); v != "" {
		cfg.Vault.Dir = v
	}
	if v := os.Getenv("NOTEDEX_WATCH_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Vault.WatchDebounce = d
		}
	}
	if v := os.Getenv("NOTEDEX_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxResults = n
		}
	}
	if v := os.Getenv("NOTEDEX_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.CacheSize = n
		}
	}
	if v := os.Getenv("NOTEDEX_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("NOTEDEX_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("NOTEDEX_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Vault.Dir == "" {
		return errors.ConfigError("vault.dir must not be empty", nil)
	}
	if c.Search.MaxResults <= 0 {
		return errors.ConfigError(fmt.Sprintf("search.max_results must be positive, got %d", c.Search.MaxResults), nil)
	}
	if c.Search.CacheSize < 0 {
		return errors.ConfigError(fmt.Sprintf("search.cache_size must not be negative, got %d", c.Search.CacheSize), nil)
	}
	if c.Vault.WatchDebounce < 0 {
		return errors.ConfigError("vault.watch_debounce must not be negative", nil)
	}
	if c.Vault.MaxFileSizeKB <= 0 {
		return errors.ConfigError(fmt.Sprintf("vault.max_file_size_kb must be positive, got %d", c.Vault.MaxFileSizeKB), nil)
	}
	return nil
}

// Save writes the configuration as YAML to the vault-local config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.ConfigError("cannot marshal config", err)
	}
	path := filepath.Join(c.Vault.Dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.ConfigError(fmt.Sprintf("cannot write config file %s", path), err)
	}
	return nil
}

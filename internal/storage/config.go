package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// userConfigFile is the name of the user configuration file (sibling to .mkt/).
	userConfigFile = ".mktconfig.yaml"
	// envFile is loaded into the process environment when present.
	envFile = ".env"

	// Default configuration values
	DefaultStore            = StoreFile
	DefaultTimeout          = "15s"
	DefaultRateLimit        = 10.0
	DefaultLogLevel         = "warn"
	DefaultPromptForBackend = true

	// Environment overrides
	EnvBackendURL = "MKT_BACKEND_URL"
	EnvLogLevel   = "MKT_LOG_LEVEL"
)

// Store backends selectable in .mktconfig.yaml.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config represents user configuration from .mktconfig.yaml.
// This file is user-managed; mkt only writes it through `mkt config edit`.
type Config struct {
	// Store selects the key/value backend: "file" or "sqlite".
	Store string `yaml:"store"`

	// DefaultBackendURL replaces the built-in fallback backend URL.
	DefaultBackendURL string `yaml:"default_backend_url,omitempty"`

	// Timeout bounds each backend request, as a Go duration string.
	Timeout string `yaml:"timeout"`

	// RateLimit caps backend requests per second. 0 disables the limit.
	RateLimit float64 `yaml:"rate_limit"`

	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`

	// PromptForBackend asks for a backend URL when none has been saved.
	PromptForBackend bool `yaml:"prompt_for_backend"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Store:            DefaultStore,
		Timeout:          DefaultTimeout,
		RateLimit:        DefaultRateLimit,
		LogLevel:         DefaultLogLevel,
		PromptForBackend: DefaultPromptForBackend,
	}
}

// LoadConfig loads .mktconfig.yaml from dir if it exists, otherwise returns defaults.
// Partial config files are merged with defaults. A .env file in dir is loaded
// into the environment first (existing variables win), then environment
// overrides are applied.
func LoadConfig(dir string) (*Config, error) {
	if err := loadEnv(dir); err != nil {
		return nil, err
	}

	cfg, err := ParseConfigFile(filepath.Join(dir, userConfigFile))
	if err != nil {
		return nil, err
	}

	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// ParseConfigFile reads and validates a config file at path.
// A missing file yields defaults.
func ParseConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", userConfigFile, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses config data merged over defaults and validates it.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", userConfigFile, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("invalid %s: unknown store %q (want %q or %q)", userConfigFile, c.Store, StoreFile, StoreSQLite)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid %s: timeout %q: %w", userConfigFile, c.Timeout, err)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid %s: rate_limit must not be negative", userConfigFile)
	}
	if _, err := logrus.ParseLevel(strings.TrimSpace(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid %s: log_level %q: %w", userConfigFile, c.LogLevel, err)
	}
	return nil
}

// RequestTimeout returns Timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// FallbackBackendURL picks the backend URL used before one is saved:
// MKT_BACKEND_URL, then default_backend_url, then builtin.
func (c *Config) FallbackBackendURL(builtin string) string {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.DefaultBackendURL); v != "" {
		return v
	}
	return builtin
}

// ConfigPath returns the path to the user config file in dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, userConfigFile)
}

// OpenStore opens the backend selected by cfg, creating it on first use.
func OpenStore(dir string, cfg *Config) (Store, error) {
	switch cfg.Store {
	case StoreSQLite:
		return OpenSQLite(dir)
	default:
		return OpenOrInit(dir)
	}
}

func loadEnv(dir string) error {
	path := filepath.Join(dir, envFile)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return nil
}

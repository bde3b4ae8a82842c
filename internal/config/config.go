// Package config loads server and CLI configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables. A .env file in the working directory is loaded into
// the environment first.
//
// Environment variables:
//
//	LEDGER_CONFIG    path to a YAML config file
//	LEDGER_ADDR      listen address (default :8080)
//	DB_DRIVER        sqlite or bolt (default sqlite)
//	DB_PATH          database file (default ./data/ledger.db)
//	LOG_LEVEL        debug, info, warn, error (default info)
//	LOG_FORMAT       text or json (default text)
//	CORS_ORIGIN      Access-Control-Allow-Origin value (default *)
//	METRICS_ENABLED  serve /metrics (default true)
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/groupledger/internal/storage/backend"
)

// Config represents the application configuration.
type Config struct {
	Addr       string        `yaml:"addr"`
	CORSOrigin string        `yaml:"corsOrigin"`
	DB         DBConfig      `yaml:"db"`
	Log        LogConfig     `yaml:"log"`
	Metrics    MetricsConfig `yaml:"metrics"`
}

// DBConfig selects the storage backend.
type DBConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LogConfig configures pkg/logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:       ":8080",
		CORSOrigin: "*",
		DB: DBConfig{
			Driver: backend.DriverSQLite,
			Path:   "./data/ledger.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load builds the configuration. path names a YAML file; when empty,
// LEDGER_CONFIG is used, and when that is empty too no file is read.
func Load(path string) (*Config, error) {
	// Try to load .env from current directory (ignore error if not found)
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("LEDGER_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Addr = getEnvOrDefault("LEDGER_ADDR", c.Addr)
	c.CORSOrigin = getEnvOrDefault("CORS_ORIGIN", c.CORSOrigin)
	c.DB.Driver = getEnvOrDefault("DB_DRIVER", c.DB.Driver)
	c.DB.Path = getEnvOrDefault("DB_PATH", c.DB.Path)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)

	enabled, err := parseBoolEnv("METRICS_ENABLED", c.Metrics.Enabled)
	if err != nil {
		return err
	}
	c.Metrics.Enabled = enabled
	return nil
}

// Validate checks enumerated fields and required values.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must be set"))
	}
	if c.DB.Path == "" {
		errs = append(errs, errors.New("db.path must be set"))
	}
	if !slices.Contains(backend.Drivers, c.DB.Driver) {
		errs = append(errs, fmt.Errorf("db.driver %q must be one of %v", c.DB.Driver, backend.Drivers))
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseBoolEnv parses a bool from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value for %s: %s", key, value)
	}
	return parsed, nil
}

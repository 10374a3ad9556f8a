// Package config loads simrec settings from an optional YAML file and the
// environment. Environment variables override file values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Environment variable prefix for every setting.
const EnvPrefix = "SIMREC_"

// Config holds everything needed to open the recordings store.
type Config struct {
	// DataDir is the directory holding the database file.
	DataDir string `yaml:"data_dir" env:"DATA_DIR"`

	// DBName is the database file name inside DataDir.
	DBName string `yaml:"db_name" env:"DB_NAME"`

	// Driver selects the SQLite driver: "sqlite3" (cgo) or "sqlite" (pure Go).
	Driver string `yaml:"driver" env:"DRIVER"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// LogFormat is text or json.
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"`
}

var (
	validDrivers    = []string{"sqlite3", "sqlite"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		DataDir:   ".",
		DBName:    "saved_recordings.db",
		Driver:    "sqlite3",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then SIMREC_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg, os.Environ()); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays SIMREC_* variables from environ onto cfg. Unset and
// empty variables leave the current value in place.
func applyEnv(cfg *Config, environ []string) error {
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: setOnly(env.ToMap(environ)),
	}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// setOnly drops empty values so an exported-but-empty variable does not blank
// out a file setting.
func setOnly(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// loadFile decodes a YAML config file over cfg with strict field validation.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

// Validate checks enumerated fields and required values.
func (c Config) Validate() error {
	var errs []error
	if c.DBName == "" {
		errs = append(errs, errors.New("db_name is required"))
	}
	if !contains(validDrivers, c.Driver) {
		errs = append(errs, fmt.Errorf("driver %q: must be one of %v", c.Driver, validDrivers))
	}
	if !contains(validLogLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level %q: must be one of %v", c.LogLevel, validLogLevels))
	}
	if !contains(validLogFormats, c.LogFormat) {
		errs = append(errs, fmt.Errorf("log_format %q: must be one of %v", c.LogFormat, validLogFormats))
	}
	return errors.Join(errs...)
}

// DBPath is the full path of the database file.
// ":memory:" as DBName opens a private in-memory database.
func (c Config) DBPath() string {
	if c.DBName == ":memory:" {
		return c.DBName
	}
	return filepath.Join(c.DataDir, c.DBName)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml), with ${VAR} references expanded
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg, err := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	strict := cfg.Optimizer.TopperRespectsCap
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up by LoadOrEnv.
const DefaultPath = "config.yaml"

// Config represents the entire application configuration
type Config struct {
	Storage       StorageConfig       `yaml:"storage"`
	Server        ServerConfig        `yaml:"server"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Optimizer     OptimizerConfig     `yaml:"optimizer"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path" env:"DECOR_DB_PATH" envDefault:"decor.db"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           int      `yaml:"port" env:"DECOR_PORT" envDefault:"8080"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"DECOR_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5173"`
}

// CatalogConfig points at an optional catalog file. Empty uses the built-in catalog.
type CatalogConfig struct {
	Path string `yaml:"path" env:"DECOR_CATALOG_PATH"`
}

// OptimizerConfig holds allocation engine settings
type OptimizerConfig struct {
	DefaultStrategy   string `yaml:"default_strategy" env:"DECOR_DEFAULT_STRATEGY" envDefault:"maximum"`
	TopperRespectsCap bool   `yaml:"topper_respects_cap" env:"DECOR_TOPPER_RESPECTS_CAP" envDefault:"false"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" envDefault:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" envDefault:"text"`
}

// Defaults returns the configuration with every default applied and no
// environment overrides.
func Defaults() *Config {
	var cfg Config
	// Parsing against an empty environment only fills envDefault values and
	// cannot fail for the defaults declared above.
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return &cfg
}

// Load reads and parses the config file. Keys missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${DECOR_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() (*Config, error) {
	return LoadOrEnvWithPath(DefaultPath)
}

// LoadOrEnvWithPath loads path when it exists and falls back to environment
// variables when it does not. A file that exists but cannot be parsed is an
// error.
func LoadOrEnvWithPath(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return LoadFromEnv()
	}
	return nil, err
}

// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Playback PlaybackConfig `yaml:"playback"`
	Player   PlayerConfig   `yaml:"player"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr" default:":8080"`
}

// StorageConfig represents persistence configuration. An empty dir selects
// the platform data directory.
type StorageConfig struct {
	Dir string `yaml:"dir"`
}

// CatalogConfig represents the moments catalog API configuration.
type CatalogConfig struct {
	BaseURL   string `yaml:"base_url" validate:"required,url"`
	TimeoutMs int    `yaml:"timeout_ms" default:"10000" validate:"gte=100,lte=60000"`
}

// Timeout returns the catalog request timeout as a duration.
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// PlaybackConfig represents player state publishing configuration.
type PlaybackConfig struct {
	PublishIntervalMs int `yaml:"publish_interval_ms" default:"250" validate:"gte=50,lte=5000"`
}

// PublishInterval returns the progress publish interval as a duration.
func (c PlaybackConfig) PublishInterval() time.Duration {
	return time.Duration(c.PublishIntervalMs) * time.Millisecond
}

// PlayerConfig represents player mount configuration. Settings are decoded
// by the player package.
type PlayerConfig struct {
	Settings map[string]any `yaml:"settings"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Output string `yaml:"output" default:"stdout"`
	Level  string `yaml:"level" default:"info"`
	File   string `yaml:"file"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("MOSHPIT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("MOSHPIT_STATE_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("CATALOG_BASE_URL"); v != "" {
		c.Catalog.BaseURL = v
	}
	if v := os.Getenv("MOSHPIT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

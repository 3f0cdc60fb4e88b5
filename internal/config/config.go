// Package config manages broom configuration and filesystem paths.
//
// Configuration is a YAML file at ~/.broom/config.yaml, overridable via
// environment variables. A missing file is not an error: broom runs with
// defaults against a stock local Ollama install.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/broomkit/broom/internal/oracle"
	"github.com/broomkit/broom/internal/scan"
	pkgconfig "github.com/broomkit/broom/pkg/config"
)

// Config represents the application configuration.
type Config struct {
	Oracle OracleConfig `yaml:"oracle"`
	Scan   ScanConfig   `yaml:"scan"`
	App    AppConfig    `yaml:"app"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Oracle.Validate(); err != nil {
		return err
	}
	return c.Scan.Validate()
}

// OracleConfig holds the Ollama connection settings.
type OracleConfig struct {
	Host           string `yaml:"host"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	BatchSize      int    `yaml:"batch_size"`
}

// Timeout returns the round-trip budget for one oracle consultation.
func (c *OracleConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the oracle configuration.
func (c *OracleConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Model, validation.Required),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.BatchSize, validation.Required, validation.Min(1), validation.Max(500)),
	)
}

// ScanConfig holds inventory collection settings.
type ScanConfig struct {
	MaxContentBytes int      `yaml:"max_content_bytes"`
	TextExtensions  []string `yaml:"text_extensions"`
}

// Validate validates the scan configuration.
func (c *ScanConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxContentBytes, validation.Required, validation.Min(1)),
		validation.Field(&c.TextExtensions, validation.Required),
	)
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Oracle: OracleConfig{
			Host:           oracle.DefaultHost,
			Model:          oracle.DefaultModel,
			TimeoutSeconds: int(oracle.DefaultTimeout / time.Second),
			BatchSize:      oracle.DefaultBatchSize,
		},
		Scan: ScanConfig{
			MaxContentBytes: scan.DefaultMaxContentBytes,
			TextExtensions:  append([]string(nil), scan.DefaultTextExtensions...),
		},
		App: AppConfig{
			LogLevel: slog.LevelInfo,
		},
	}
}

// Load resolves the config file location and loads it on top of the
// defaults, so partial files only override what they mention.
func Load() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return LoadFile(paths.Config)
}

// LoadFile loads the given config file on top of the defaults. A missing
// file yields the defaults unchanged.
func LoadFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	if err := pkgconfig.Load(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

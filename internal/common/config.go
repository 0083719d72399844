// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/folio/internal/drift"
)

// Config holds all configuration for Folio. It is constructed once per run
// and validated at load time; invalid thresholds are rejected before any
// row processing starts.
type Config struct {
	Environment string            `toml:"environment"`
	AccountID   string            `toml:"account_id"`
	Storage     StorageConfig     `toml:"storage"`
	Ingest      IngestConfig      `toml:"ingest"`
	Aggregation AggregationConfig `toml:"aggregation"`
	Drift       drift.Thresholds  `toml:"drift"`
	Logging     LoggingConfig     `toml:"logging"`
}

// StorageConfig holds the embedded store location.
type StorageConfig struct {
	Path string `toml:"path"`
}

// IngestConfig holds CSV ingest configuration.
type IngestConfig struct {
	// SectorFile is the symbol->sector lookup table (CSV, "symbol,sector").
	SectorFile string `toml:"sector_file"`
	// Timezone the export filename timestamps are written in.
	Timezone string `toml:"timezone"`
}

// Location resolves the configured timezone, defaulting to UTC on failure.
func (c *IngestConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AggregationConfig holds aggregation toggles.
type AggregationConfig struct {
	// ExcludeUnknownSectors drops Unknown-sector equity positions before
	// sector denominators are computed.
	ExcludeUnknownSectors bool `toml:"exclude_unknown_sectors"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `toml:"level"`
	FilePath string `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		AccountID:   "schwab-1",
		Storage: StorageConfig{
			Path: "data/folio",
		},
		Ingest: IngestConfig{
			SectorFile: "config/sectors.csv",
			Timezone:   "Europe/Madrid",
		},
		Drift:   drift.NewThresholds(),
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
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

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects invalid configuration at construction time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AccountID) == "" {
		return fmt.Errorf("account_id must not be empty")
	}
	if _, err := time.LoadLocation(c.Ingest.Timezone); err != nil {
		return fmt.Errorf("invalid ingest timezone %q: %w", c.Ingest.Timezone, err)
	}
	if err := c.Drift.Validate(); err != nil {
		return err
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}
	if v := os.Getenv("FOLIO_ACCOUNT_ID"); v != "" {
		config.AccountID = v
	}
	if v := os.Getenv("FOLIO_DATA_PATH"); v != "" {
		config.Storage.Path = v
	}
	if v := os.Getenv("FOLIO_SECTOR_FILE"); v != "" {
		config.Ingest.SectorFile = v
	}
	if v := os.Getenv("FOLIO_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "schwab-1", config.AccountID)
	assert.Equal(t, "data/folio", config.Storage.Path)
	assert.Equal(t, "config/sectors.csv", config.Ingest.SectorFile)
	assert.Equal(t, "Europe/Madrid", config.Ingest.Timezone)
	assert.Equal(t, 25.0, config.Drift.Top5WeightLimit)
	assert.Equal(t, "info", config.Logging.Level)
	assert.False(t, config.IsProduction())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment = "production"
account_id = "schwab-2"

[storage]
path = "/var/lib/folio"

[ingest]
timezone = "America/New_York"

[aggregation]
exclude_unknown_sectors = true

[drift]
top5_weight_limit = 30.0
min_sector_count = 4
`), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.True(t, config.IsProduction())
	assert.Equal(t, "schwab-2", config.AccountID)
	assert.Equal(t, "/var/lib/folio", config.Storage.Path)
	assert.Equal(t, "America/New_York", config.Ingest.Timezone)
	assert.True(t, config.Aggregation.ExcludeUnknownSectors)
	assert.Equal(t, 30.0, config.Drift.Top5WeightLimit)
	assert.Equal(t, 4, config.Drift.MinSectorCount)
	// Unset keys keep their defaults.
	assert.Equal(t, 60.0, config.Drift.Top3SectorLimit)
	assert.Equal(t, "config/sectors.csv", config.Ingest.SectorFile)
}

func TestLoadConfigLaterFileWins(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	local := filepath.Join(dir, "local.toml")
	require.NoError(t, os.WriteFile(base, []byte(`account_id = "base"`), 0644))
	require.NoError(t, os.WriteFile(local, []byte(`account_id = "local"`), 0644))

	config, err := LoadConfig(base, local)
	require.NoError(t, err)
	assert.Equal(t, "local", config.AccountID)
}

func TestLoadConfigMissingFileSkipped(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"), "")
	require.NoError(t, err)
	assert.Equal(t, "schwab-1", config.AccountID)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("FOLIO_ENV", "production")
	t.Setenv("FOLIO_ACCOUNT_ID", "schwab-env")
	t.Setenv("FOLIO_DATA_PATH", "/tmp/folio-data")
	t.Setenv("FOLIO_LOG_LEVEL", "debug")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, "schwab-env", config.AccountID)
	assert.Equal(t, "/tmp/folio-data", config.Storage.Path)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadConfigRejectsInvalidThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[drift]
trim_weight = 140.0
`), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trim_weight")
}

func TestLoadConfigRejectsBadTimezone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[ingest]
timezone = "Mars/Olympus"
`), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigRejectsEmptyAccount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.toml")
	require.NoError(t, os.WriteFile(path, []byte(`account_id = "  "`), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestIngestLocationFallsBackToUTC(t *testing.T) {
	ingest := IngestConfig{Timezone: "not-a-zone"}
	assert.Equal(t, "UTC", ingest.Location().String())

	ingest.Timezone = "Europe/Madrid"
	assert.Equal(t, "Europe/Madrid", ingest.Location().String())
}

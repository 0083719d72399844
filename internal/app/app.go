// Package app wires configuration, logging, storage, and services into a
// runnable application core.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/ingest"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/services/snapshot"
	"github.com/bobmcallan/folio/internal/storage"
)

// App holds all initialized services and storage.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	SnapshotService interfaces.SnapshotService
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes the application from configuration. configPath may be
// empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	common.LoadVersionFromFile()

	logger := common.NewLoggerFromConfig(config.Logging)

	manager, err := storage.NewManager(logger, config.Storage.Path)
	if err != nil {
		return nil, err
	}

	sectors, err := ingest.ReadSectorLookupFile(config.Ingest.SectorFile)
	if err != nil {
		manager.Close()
		return nil, err
	}
	if len(sectors) == 0 {
		logger.Warn().Str("path", config.Ingest.SectorFile).Msg("Sector lookup empty; all sectors will resolve to Unknown")
	}

	return &App{
		Config:          config,
		Logger:          logger,
		Storage:         manager,
		SnapshotService: snapshot.NewService(manager, sectors, config, logger),
	}, nil
}

// Close releases application resources.
func (a *App) Close() {
	if err := a.Storage.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("Failed to close storage")
	}
}

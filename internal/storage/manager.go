// Package storage wires the storage backends behind the StorageManager
// contract.
package storage

import (
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/storage/badger"
)

// Manager implements interfaces.StorageManager over a single BadgerHold
// store.
type Manager struct {
	store     *badger.Store
	snapshots interfaces.SnapshotStore
	logger    *common.Logger
}

// NewManager opens the embedded store and initializes the snapshot storage.
func NewManager(logger *common.Logger, path string) (*Manager, error) {
	store, err := badger.NewStore(logger, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage at %s: %w", path, err)
	}
	return &Manager{
		store:     store,
		snapshots: badger.NewSnapshotStorage(store, logger),
		logger:    logger,
	}, nil
}

// Snapshots returns the snapshot artifact store.
func (m *Manager) Snapshots() interfaces.SnapshotStore {
	return m.snapshots
}

// Close releases the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

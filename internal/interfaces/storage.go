// Package interfaces defines service and storage contracts for Folio
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// SnapshotStore persists the derived artifacts of one processed snapshot.
// Writes are idempotent upserts: the three aggregate summaries key on
// (account, snapshot_at), flat holdings key on their DocID. Reprocessing a
// snapshot replaces its flat holdings wholesale, so dropped symbols do not
// linger as stale records.
type SnapshotStore interface {
	SaveTypePivot(ctx context.Context, pivot models.TypePivot) error
	GetTypePivot(ctx context.Context, accountID string, snapshotAt time.Time) (*models.TypePivot, error)

	SaveSectorPivot(ctx context.Context, pivot models.SectorPivot) error
	GetSectorPivot(ctx context.Context, accountID string, snapshotAt time.Time) (*models.SectorPivot, error)

	SaveSectorDetail(ctx context.Context, detail *models.SectorDetail) error
	GetSectorDetail(ctx context.Context, accountID string, snapshotAt time.Time) (*models.SectorDetail, error)

	SaveFlatHoldings(ctx context.Context, holdings []models.FlatHolding) error
	ListFlatHoldings(ctx context.Context, accountID string, snapshotAt time.Time) ([]models.FlatHolding, error)

	SaveDriftReport(ctx context.Context, report *models.DriftReport) error
	GetDriftReport(ctx context.Context, accountID string, snapshotAt time.Time) (*models.DriftReport, error)

	// ListSnapshots returns the snapshot timestamps stored for an account,
	// ascending, for historical trend consumers.
	ListSnapshots(ctx context.Context, accountID string) ([]time.Time, error)
}

// StorageManager coordinates storage backends.
type StorageManager interface {
	Snapshots() SnapshotStore
	Close() error
}

package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// SnapshotService runs the full pipeline for one brokerage position export:
// ingest, normalization, aggregation fan-out, drift analysis, persistence.
type SnapshotService interface {
	// ProcessFile ingests and processes one export file from disk.
	ProcessFile(ctx context.Context, path string) (*models.SnapshotResult, error)

	// ProcessRows processes already-parsed raw rows for the named export
	// file. The filename supplies snapshot identity.
	ProcessRows(ctx context.Context, rows []models.RawRow, filename string) (*models.SnapshotResult, error)
}

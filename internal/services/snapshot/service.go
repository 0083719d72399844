// Package snapshot orchestrates the position ETL pipeline for one export
// file: ingest, normalization, aggregation fan-out, drift analysis, and
// persistence.
package snapshot

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bobmcallan/folio/internal/aggregate"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/drift"
	"github.com/bobmcallan/folio/internal/ingest"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/normalize"
)

// Service implements SnapshotService.
type Service struct {
	storage interfaces.StorageManager
	sectors normalize.SectorLookup
	config  *common.Config
	logger  *common.Logger
}

// NewService creates a new snapshot service.
func NewService(
	storage interfaces.StorageManager,
	sectors normalize.SectorLookup,
	config *common.Config,
	logger *common.Logger,
) *Service {
	return &Service{
		storage: storage,
		sectors: sectors,
		config:  config,
		logger:  logger,
	}
}

// ProcessFile ingests one export file from disk and processes it.
func (s *Service) ProcessFile(ctx context.Context, path string) (*models.SnapshotResult, error) {
	rows, err := ingest.ReadPositionsFile(path)
	if err != nil {
		return nil, err
	}
	return s.ProcessRows(ctx, rows, filepath.Base(path))
}

// ProcessRows runs the full pipeline over already-parsed raw rows. Any hard
// normalization or aggregation failure aborts the snapshot; nothing is
// persisted from a corrupt batch.
func (s *Service) ProcessRows(ctx context.Context, rows []models.RawRow, filename string) (*models.SnapshotResult, error) {
	runID := uuid.NewString()[:8]
	logger := &common.Logger{Logger: s.logger.With().Str("run", runID).Str("file", filename).Logger()}

	logger.Info().Int("rows", len(rows)).Msg("Processing position snapshot")

	opts := normalize.Options{
		AccountID: s.config.AccountID,
		Location:  s.config.Ingest.Location(),
	}

	positions, err := normalize.NormalizeRows(rows, filename, s.sectors, opts)
	if err != nil {
		return nil, fmt.Errorf("normalization failed for %s: %w", filename, err)
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("no positions found in %s", filename)
	}

	meta, err := normalize.SnapshotMetaFor(positions, filename, opts)
	if err != nil {
		return nil, err
	}

	excludeUnknown := s.config.Aggregation.ExcludeUnknownSectors

	typePivot, err := aggregate.BySecurityType(positions)
	if err != nil {
		return nil, fmt.Errorf("security-type aggregation failed for %s: %w", filename, err)
	}

	sectorPivot, err := aggregate.BySector(positions, excludeUnknown)
	if err != nil {
		return nil, fmt.Errorf("sector aggregation failed for %s: %w", filename, err)
	}

	detail, err := aggregate.Detailed(positions, excludeUnknown)
	if err != nil {
		return nil, fmt.Errorf("detailed aggregation failed for %s: %w", filename, err)
	}

	holdings := aggregate.Flatten(detail, meta)

	report, err := drift.Analyze(positions, s.config.Drift)
	if err != nil {
		return nil, fmt.Errorf("drift analysis failed for %s: %w", filename, err)
	}

	result := &models.SnapshotResult{
		Meta:        meta,
		Positions:   positions,
		TypePivot:   typePivot,
		SectorPivot: sectorPivot,
		Detail:      detail,
		Holdings:    holdings,
		Drift:       report,
	}

	if err := s.persist(ctx, logger, result); err != nil {
		return nil, err
	}

	logger.Info().
		Int("positions", len(positions)).
		Int("sectors", len(detail.Sectors)).
		Int("holdings", len(holdings)).
		Int("candidates", len(report.Candidates)).
		Float64("account_total", meta.AccountTotal).
		Msg("Snapshot processed")

	return result, nil
}

// persist upserts every artifact of the processed snapshot.
func (s *Service) persist(ctx context.Context, logger *common.Logger, result *models.SnapshotResult) error {
	snapshots := s.storage.Snapshots()

	if err := snapshots.SaveTypePivot(ctx, result.TypePivot); err != nil {
		return err
	}
	if err := snapshots.SaveSectorPivot(ctx, result.SectorPivot); err != nil {
		return err
	}
	if err := snapshots.SaveSectorDetail(ctx, result.Detail); err != nil {
		return err
	}
	if err := snapshots.SaveFlatHoldings(ctx, result.Holdings); err != nil {
		return err
	}
	if err := snapshots.SaveDriftReport(ctx, result.Drift); err != nil {
		return err
	}

	if err := s.verifyFlatHoldings(ctx, result); err != nil {
		return err
	}

	logger.Debug().Msg("Snapshot artifacts persisted")
	return nil
}

// verifyFlatHoldings reads the flattened records back and renests them,
// confirming the stored snapshot reproduces the nested detail it came from.
func (s *Service) verifyFlatHoldings(ctx context.Context, result *models.SnapshotResult) error {
	if len(result.Holdings) == 0 {
		return nil // cash-only snapshot, nothing to verify
	}
	stored, err := s.storage.Snapshots().ListFlatHoldings(ctx, result.Meta.AccountID, result.Meta.SnapshotAt)
	if err != nil {
		return err
	}
	if len(stored) != len(result.Holdings) {
		return fmt.Errorf("stored %d flat holdings, expected %d", len(stored), len(result.Holdings))
	}
	renested, err := aggregate.Renest(stored)
	if err != nil {
		return fmt.Errorf("stored flat holdings do not renest: %w", err)
	}
	if renested.EquityTotal != result.Detail.EquityTotal || renested.AccountTotal != result.Detail.AccountTotal {
		return fmt.Errorf("renested totals diverge from snapshot detail")
	}
	return nil
}

package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

type snapshotStorage struct {
	store  *Store
	logger *common.Logger
}

// NewSnapshotStorage creates a SnapshotStore backed by BadgerHold.
func NewSnapshotStorage(store *Store, logger *common.Logger) *snapshotStorage {
	return &snapshotStorage{store: store, logger: logger}
}

// snapshotKey builds the natural key for the per-snapshot aggregate
// documents. Deterministic, so repeated runs upsert in place.
func snapshotKey(accountID string, snapshotAt time.Time) string {
	return fmt.Sprintf("%s|%s", accountID, snapshotAt.UTC().Format(time.RFC3339))
}

func (s *snapshotStorage) SaveTypePivot(_ context.Context, pivot models.TypePivot) error {
	key := snapshotKey(pivot.AccountID, pivot.SnapshotAt)
	if err := s.store.db.Upsert(key, pivot); err != nil {
		return fmt.Errorf("failed to save type pivot %s: %w", key, err)
	}
	s.logger.Debug().Str("key", key).Msg("Type pivot saved")
	return nil
}

func (s *snapshotStorage) GetTypePivot(_ context.Context, accountID string, snapshotAt time.Time) (*models.TypePivot, error) {
	key := snapshotKey(accountID, snapshotAt)
	var pivot models.TypePivot
	if err := s.store.db.Get(key, &pivot); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("type pivot %s not found", key)
		}
		return nil, fmt.Errorf("failed to get type pivot %s: %w", key, err)
	}
	return &pivot, nil
}

func (s *snapshotStorage) SaveSectorPivot(_ context.Context, pivot models.SectorPivot) error {
	key := snapshotKey(pivot.AccountID, pivot.SnapshotAt)
	if err := s.store.db.Upsert(key, pivot); err != nil {
		return fmt.Errorf("failed to save sector pivot %s: %w", key, err)
	}
	s.logger.Debug().Str("key", key).Msg("Sector pivot saved")
	return nil
}

func (s *snapshotStorage) GetSectorPivot(_ context.Context, accountID string, snapshotAt time.Time) (*models.SectorPivot, error) {
	key := snapshotKey(accountID, snapshotAt)
	var pivot models.SectorPivot
	if err := s.store.db.Get(key, &pivot); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("sector pivot %s not found", key)
		}
		return nil, fmt.Errorf("failed to get sector pivot %s: %w", key, err)
	}
	return &pivot, nil
}

func (s *snapshotStorage) SaveSectorDetail(_ context.Context, detail *models.SectorDetail) error {
	key := snapshotKey(detail.AccountID, detail.SnapshotAt)
	if err := s.store.db.Upsert(key, detail); err != nil {
		return fmt.Errorf("failed to save sector detail %s: %w", key, err)
	}
	s.logger.Debug().Str("key", key).Int("sectors", len(detail.Sectors)).Msg("Sector detail saved")
	return nil
}

func (s *snapshotStorage) GetSectorDetail(_ context.Context, accountID string, snapshotAt time.Time) (*models.SectorDetail, error) {
	key := snapshotKey(accountID, snapshotAt)
	var detail models.SectorDetail
	if err := s.store.db.Get(key, &detail); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("sector detail %s not found", key)
		}
		return nil, fmt.Errorf("failed to get sector detail %s: %w", key, err)
	}
	return &detail, nil
}

func (s *snapshotStorage) SaveFlatHoldings(_ context.Context, holdings []models.FlatHolding) error {
	if len(holdings) == 0 {
		return nil
	}

	// Clear the snapshot's previous records first so symbols dropped between
	// runs do not linger as stale holdings.
	first := holdings[0]
	query := badgerhold.Where("AccountID").Eq(first.AccountID).And("SnapshotAt").Eq(first.SnapshotAt)
	if err := s.store.db.DeleteMatching(&models.FlatHolding{}, query); err != nil {
		return fmt.Errorf("failed to clear flat holdings for %s: %w", snapshotKey(first.AccountID, first.SnapshotAt), err)
	}

	for _, h := range holdings {
		if err := s.store.db.Upsert(h.DocID, h); err != nil {
			return fmt.Errorf("failed to save flat holding %s: %w", h.DocID, err)
		}
	}
	s.logger.Debug().Int("count", len(holdings)).Msg("Flat holdings saved")
	return nil
}

func (s *snapshotStorage) ListFlatHoldings(_ context.Context, accountID string, snapshotAt time.Time) ([]models.FlatHolding, error) {
	var holdings []models.FlatHolding
	query := badgerhold.Where("AccountID").Eq(accountID).And("SnapshotAt").Eq(snapshotAt)
	if err := s.store.db.Find(&holdings, query); err != nil {
		return nil, fmt.Errorf("failed to list flat holdings: %w", err)
	}
	sort.Slice(holdings, func(i, j int) bool {
		if holdings[i].SectorSlug != holdings[j].SectorSlug {
			return holdings[i].SectorSlug < holdings[j].SectorSlug
		}
		if holdings[i].MarketValue != holdings[j].MarketValue {
			return holdings[i].MarketValue > holdings[j].MarketValue
		}
		return holdings[i].Symbol < holdings[j].Symbol
	})
	return holdings, nil
}

func (s *snapshotStorage) SaveDriftReport(_ context.Context, report *models.DriftReport) error {
	key := snapshotKey(report.AccountID, report.SnapshotAt)
	if err := s.store.db.Upsert(key, report); err != nil {
		return fmt.Errorf("failed to save drift report %s: %w", key, err)
	}
	s.logger.Debug().Str("key", key).Int("candidates", len(report.Candidates)).Msg("Drift report saved")
	return nil
}

func (s *snapshotStorage) GetDriftReport(_ context.Context, accountID string, snapshotAt time.Time) (*models.DriftReport, error) {
	key := snapshotKey(accountID, snapshotAt)
	var report models.DriftReport
	if err := s.store.db.Get(key, &report); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("drift report %s not found", key)
		}
		return nil, fmt.Errorf("failed to get drift report %s: %w", key, err)
	}
	return &report, nil
}

func (s *snapshotStorage) ListSnapshots(_ context.Context, accountID string) ([]time.Time, error) {
	var pivots []models.TypePivot
	if err := s.store.db.Find(&pivots, badgerhold.Where("AccountID").Eq(accountID)); err != nil {
		return nil, fmt.Errorf("failed to list snapshots for %s: %w", accountID, err)
	}
	times := make([]time.Time, 0, len(pivots))
	for _, p := range pivots {
		times = append(times, p.SnapshotAt)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times, nil
}

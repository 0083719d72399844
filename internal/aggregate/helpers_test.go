package aggregate

import (
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

var testSnapshotAt = time.Date(2025, 3, 14, 14, 30, 0, 0, time.UTC)

func fptr(v float64) *float64 { return &v }

// pos builds an equity position for aggregation tests.
func pos(symbol, sector string, marketValue float64) models.Position {
	return models.Position{
		AccountID:    "schwab-1",
		AssetKey:     "EQUITY:SYMBOL:" + symbol,
		Symbol:       symbol,
		Name:         symbol + " Inc",
		SecurityType: "Equity",
		Sector:       sector,
		MarketValue:  fptr(marketValue),
		SnapshotAt:   testSnapshotAt,
		SnapshotDate: testSnapshotAt.Truncate(24 * time.Hour),
	}
}

// cashPos builds a cash position (non-equity asset key).
func cashPos(marketValue float64) models.Position {
	return models.Position{
		AccountID:    "schwab-1",
		AssetKey:     "CASH:DESC:Cash & Cash Investments",
		Name:         "Cash & Cash Investments",
		SecurityType: "Cash and Money Market",
		Sector:       models.SectorUnknown,
		MarketValue:  fptr(marketValue),
		SnapshotAt:   testSnapshotAt,
	}
}

func almostEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

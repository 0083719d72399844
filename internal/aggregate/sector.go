package aggregate

import (
	"fmt"

	"github.com/bobmcallan/folio/internal/models"
)

// BySector groups equity positions by sector and produces the wide-format
// pivot: mv__<sector> and alloc__<sector> per sector plus mv__equity_total
// and mv__account_total. Only positions whose asset key carries the equity
// prefix participate; the account total still sums over ALL positions.
//
// When excludeUnknown is set, Unknown-sector positions are dropped before
// the equity total is computed: the denominator itself shrinks, not just
// the emitted rows.
func BySector(positions []models.Position, excludeUnknown bool) (models.SectorPivot, error) {
	if len(positions) == 0 {
		return models.SectorPivot{}, fmt.Errorf("no positions to aggregate")
	}

	accountTotal := 0.0
	for _, p := range positions {
		accountTotal += p.MarketValueOrZero()
	}

	mv := map[string]float64{}
	idx := slugIndex{}
	order := []string{}
	equityTotal := 0.0

	for _, p := range positions {
		if !p.IsEquity() {
			continue
		}
		if excludeUnknown && p.Sector == models.SectorUnknown {
			continue
		}
		slug, err := idx.claim(p.Sector)
		if err != nil {
			return models.SectorPivot{}, err
		}
		if _, seen := mv[slug]; !seen {
			order = append(order, slug)
		}
		mv[slug] += p.MarketValueOrZero()
		equityTotal += p.MarketValueOrZero()
	}

	columns := make(map[string]float64, 2*len(mv)+2)
	columns[models.ColMVEquityTotal] = equityTotal
	columns[models.ColMVAccountTotal] = accountTotal
	for _, slug := range order {
		columns[models.PrefixMV+slug] = mv[slug]
		alloc := 0.0
		if equityTotal != 0 {
			alloc = mv[slug] / equityTotal * 100
		}
		if err := checkAllocRange(idx[slug], alloc); err != nil {
			return models.SectorPivot{}, err
		}
		columns[models.PrefixAlloc+slug] = alloc
	}

	return models.SectorPivot{
		AccountID:  positions[0].AccountID,
		SnapshotAt: positions[0].SnapshotAt,
		Columns:    columns,
	}, nil
}

package aggregate

import (
	"fmt"
	"sort"

	"github.com/bobmcallan/folio/internal/models"
)

// Detailed builds the nested sector -> holdings structure for equity
// positions. Every holding carries three allocation perspectives against
// three denominators: the equity total, its sector total, and the full
// account total (including cash and non-equity). Holdings within a sector
// are ordered by descending market value, ties broken by ascending symbol.
//
// excludeUnknown follows the same denominator semantics as BySector.
func Detailed(positions []models.Position, excludeUnknown bool) (*models.SectorDetail, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("no positions to aggregate")
	}

	accountTotal := 0.0
	for _, p := range positions {
		accountTotal += p.MarketValueOrZero()
	}

	// Group equity positions by sector, then by symbol within a sector.
	// Multiple rows for one symbol (e.g. lots) merge into one holding.
	type holdingAcc struct {
		symbol, name string
		quantity     float64
		marketValue  float64
		peSum        float64
		peCount      int
	}
	type sectorAcc struct {
		name     string
		total    float64
		holdings map[string]*holdingAcc
	}

	idx := slugIndex{}
	sectors := map[string]*sectorAcc{}
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
			return nil, err
		}
		sec := sectors[slug]
		if sec == nil {
			sec = &sectorAcc{name: p.Sector, holdings: map[string]*holdingAcc{}}
			sectors[slug] = sec
		}
		h := sec.holdings[p.Symbol]
		if h == nil {
			h = &holdingAcc{symbol: p.Symbol, name: p.Name}
			sec.holdings[p.Symbol] = h
		}
		if h.name == "" {
			h.name = p.Name
		}
		if p.Quantity != nil {
			h.quantity += *p.Quantity
		}
		h.marketValue += p.MarketValueOrZero()
		if p.PERatio != nil {
			h.peSum += *p.PERatio
			h.peCount++
		}
		sec.total += p.MarketValueOrZero()
		equityTotal += p.MarketValueOrZero()
	}

	out := &models.SectorDetail{
		AccountID:    positions[0].AccountID,
		SnapshotAt:   positions[0].SnapshotAt,
		EquityTotal:  equityTotal,
		AccountTotal: accountTotal,
		Sectors:      make(map[string]models.SectorBreakdown, len(sectors)),
	}

	for slug, sec := range sectors {
		holdings := make([]models.Holding, 0, len(sec.holdings))
		peSum := 0.0
		peCount := 0
		for _, h := range sec.holdings {
			holding := models.Holding{
				Symbol:         h.symbol,
				Name:           h.name,
				Quantity:       h.quantity,
				MarketValue:    h.marketValue,
				AllocOfEquity:  pct(h.marketValue, equityTotal),
				AllocOfSector:  pct(h.marketValue, sec.total),
				AllocOfAccount: pct(h.marketValue, accountTotal),
			}
			for _, alloc := range []float64{holding.AllocOfEquity, holding.AllocOfSector, holding.AllocOfAccount} {
				if err := checkAllocRange(holding.Symbol, alloc); err != nil {
					return nil, err
				}
			}
			holdings = append(holdings, holding)
			peSum += h.peSum
			peCount += h.peCount
		}
		sort.Slice(holdings, func(i, j int) bool {
			if holdings[i].MarketValue != holdings[j].MarketValue {
				return holdings[i].MarketValue > holdings[j].MarketValue
			}
			return holdings[i].Symbol < holdings[j].Symbol
		})

		var avgPE *float64
		if peCount > 0 {
			v := peSum / float64(peCount)
			avgPE = &v
		}

		breakdown := models.SectorBreakdown{
			Sector:            sec.name,
			MarketValue:       sec.total,
			SymbolCount:       len(holdings),
			AllocPctOfEquity:  pct(sec.total, equityTotal),
			AllocPctOfAccount: pct(sec.total, accountTotal),
			AvgPE:             avgPE,
			Holdings:          holdings,
		}
		for _, alloc := range []float64{breakdown.AllocPctOfEquity, breakdown.AllocPctOfAccount} {
			if err := checkAllocRange(sec.name, alloc); err != nil {
				return nil, err
			}
		}
		out.Sectors[slug] = breakdown
	}

	return out, nil
}

// pct returns part/whole as a 0-100 percentage, 0 when the denominator is 0.
func pct(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

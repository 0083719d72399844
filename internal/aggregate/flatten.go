package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// DocID composes the deterministic upsert key for one flattened holding.
// It has no random or time-of-run component: repeated runs on identical
// input produce identical keys, which is what makes storage upserts
// idempotent.
func DocID(accountID string, snapshotAt time.Time, symbol string) string {
	return fmt.Sprintf("%s|%s|%s", accountID, snapshotAt.UTC().Format(time.RFC3339), symbol)
}

// Flatten denormalizes the nested sector detail into one record per holding,
// each carrying all ancestor context (snapshot metadata and sector summary
// fields). Sectors are emitted in ascending slug order, holdings in their
// stored order, so output order is deterministic.
func Flatten(detail *models.SectorDetail, meta models.SnapshotMeta) []models.FlatHolding {
	slugs := make([]string, 0, len(detail.Sectors))
	for slug := range detail.Sectors {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	var flat []models.FlatHolding
	for _, slug := range slugs {
		sec := detail.Sectors[slug]
		for _, h := range sec.Holdings {
			flat = append(flat, models.FlatHolding{
				DocID:        DocID(meta.AccountID, meta.SnapshotAt, h.Symbol),
				AccountID:    meta.AccountID,
				SnapshotDate: meta.SnapshotDate,
				SnapshotAt:   meta.SnapshotAt,
				Filename:     meta.Filename,

				SectorSlug:              slug,
				Sector:                  sec.Sector,
				SectorMarketValue:       sec.MarketValue,
				SectorAllocPctOfEquity:  sec.AllocPctOfEquity,
				SectorAllocPctOfAccount: sec.AllocPctOfAccount,
				SectorAvgPE:             sec.AvgPE,

				Symbol:         h.Symbol,
				Name:           h.Name,
				Quantity:       h.Quantity,
				MarketValue:    h.MarketValue,
				AllocOfEquity:  h.AllocOfEquity,
				AllocOfSector:  h.AllocOfSector,
				AllocOfAccount: h.AllocOfAccount,

				EquityTotal:  detail.EquityTotal,
				AccountTotal: detail.AccountTotal,
			})
		}
	}
	return flat
}

// Renest reconstructs the nested sector detail from flattened records by
// grouping on (sector slug, symbol). Flattening is lossless: Renest over
// Flatten output reproduces the source structure field-for-field.
func Renest(flat []models.FlatHolding) (*models.SectorDetail, error) {
	if len(flat) == 0 {
		return nil, fmt.Errorf("no flat holdings to renest")
	}

	first := flat[0]
	out := &models.SectorDetail{
		AccountID:    first.AccountID,
		SnapshotAt:   first.SnapshotAt,
		EquityTotal:  first.EquityTotal,
		AccountTotal: first.AccountTotal,
		Sectors:      map[string]models.SectorBreakdown{},
	}

	for _, f := range flat {
		if !f.SnapshotAt.Equal(first.SnapshotAt) || f.AccountID != first.AccountID {
			return nil, fmt.Errorf("flat holding %s belongs to a different snapshot", f.DocID)
		}
		sec, ok := out.Sectors[f.SectorSlug]
		if !ok {
			sec = models.SectorBreakdown{
				Sector:            f.Sector,
				MarketValue:       f.SectorMarketValue,
				AllocPctOfEquity:  f.SectorAllocPctOfEquity,
				AllocPctOfAccount: f.SectorAllocPctOfAccount,
				AvgPE:             f.SectorAvgPE,
			}
		}
		sec.Holdings = append(sec.Holdings, models.Holding{
			Symbol:         f.Symbol,
			Name:           f.Name,
			Quantity:       f.Quantity,
			MarketValue:    f.MarketValue,
			AllocOfEquity:  f.AllocOfEquity,
			AllocOfSector:  f.AllocOfSector,
			AllocOfAccount: f.AllocOfAccount,
		})
		sec.SymbolCount = len(sec.Holdings)
		out.Sectors[f.SectorSlug] = sec
	}

	// Restore the canonical holding order inside each sector.
	for slug, sec := range out.Sectors {
		sort.Slice(sec.Holdings, func(i, j int) bool {
			if sec.Holdings[i].MarketValue != sec.Holdings[j].MarketValue {
				return sec.Holdings[i].MarketValue > sec.Holdings[j].MarketValue
			}
			return sec.Holdings[i].Symbol < sec.Holdings[j].Symbol
		})
		out.Sectors[slug] = sec
	}

	return out, nil
}

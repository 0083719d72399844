package aggregate

import (
	"fmt"

	"github.com/bobmcallan/folio/internal/models"
)

// allocEpsilon bounds the rounding slack tolerated on allocation values.
const allocEpsilon = 1e-6

// BySecurityType groups positions by security type and produces the
// wide-format pivot: mv__<type> and alloc__<type> per observed type, plus
// mv__total holding the full account total. Types with no positions in the
// snapshot get no columns. Allocation denominators are the account total
// over ALL positions, nil market value counting as 0.
func BySecurityType(positions []models.Position) (models.TypePivot, error) {
	if len(positions) == 0 {
		return models.TypePivot{}, fmt.Errorf("no positions to aggregate")
	}

	mv := map[string]float64{}
	idx := slugIndex{}
	order := []string{}
	accountTotal := 0.0

	for _, p := range positions {
		name := p.SecurityType
		if name == "" {
			name = string(models.AssetClassUnknown)
		}
		slug, err := idx.claim(name)
		if err != nil {
			return models.TypePivot{}, err
		}
		if _, seen := mv[slug]; !seen {
			order = append(order, slug)
		}
		mv[slug] += p.MarketValueOrZero()
		accountTotal += p.MarketValueOrZero()
	}

	columns := make(map[string]float64, 2*len(mv)+1)
	columns[models.ColMVTotal] = accountTotal
	for _, slug := range order {
		columns[models.PrefixMV+slug] = mv[slug]
		alloc := 0.0
		if accountTotal != 0 {
			alloc = mv[slug] / accountTotal * 100
		}
		if err := checkAllocRange(idx[slug], alloc); err != nil {
			return models.TypePivot{}, err
		}
		columns[models.PrefixAlloc+slug] = alloc
	}

	return models.TypePivot{
		AccountID:  positions[0].AccountID,
		SnapshotAt: positions[0].SnapshotAt,
		Columns:    columns,
	}, nil
}

// checkAllocRange enforces the allocation invariant: percentages are
// non-negative and at most 100. An out-of-range value means corrupt input
// (e.g. a negative market value dominating a group), and a loud error beats
// silently clamping it.
func checkAllocRange(group string, alloc float64) error {
	if alloc < -allocEpsilon || alloc > 100+allocEpsilon {
		return fmt.Errorf("allocation for %q out of range: %.6f%%", group, alloc)
	}
	return nil
}

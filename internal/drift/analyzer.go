package drift

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bobmcallan/folio/internal/models"
)

// Rating buckets. Anything outside these sets is treated as unrated.
var (
	goodRatings = map[string]bool{"A": true, "B": true, "C": true}
	badRatings  = map[string]bool{"D": true, "F": true}
)

// ratingUnknown labels positions with no rating in the breakdown.
const ratingUnknown = "Unknown"

// scored pairs a position with its account weight for candidate evaluation.
type scored struct {
	pos    models.Position
	weight float64 // % of account total; negative marks unscorable (nil market value)
}

// Analyze computes the drift/concentration report for one snapshot.
// Positions with nil market value count as 0 in totals but are excluded
// from weight-based candidate scoring.
func Analyze(positions []models.Position, t Thresholds) (*models.DriftReport, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("no positions to analyze")
	}

	total := 0.0
	for _, p := range positions {
		total += p.MarketValueOrZero()
	}

	rows := make([]scored, 0, len(positions))
	for _, p := range positions {
		w := -1.0
		if p.MarketValue != nil && total != 0 {
			w = *p.MarketValue / total * 100
		}
		rows = append(rows, scored{pos: p, weight: w})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].weight != rows[j].weight {
			return rows[i].weight > rows[j].weight
		}
		return rows[i].pos.Symbol < rows[j].pos.Symbol
	})

	report := &models.DriftReport{
		AccountID:        positions[0].AccountID,
		SnapshotDate:     positions[0].SnapshotDate,
		SnapshotAt:       positions[0].SnapshotAt,
		PositionCount:    len(positions),
		TotalMarketValue: total,
		Top5WeightPct:    topWeight(rows, 5),
		Top10WeightPct:   topWeight(rows, 10),
	}

	ratingBreakdown(rows, report)
	sectorConcentration(positions, report)
	report.Candidates = candidates(rows, t)

	missingRatio := float64(report.EnrichmentMissingCount) / float64(len(positions)) * 100
	report.Flags = models.DriftFlags{
		ConcentrationHigh:           report.Top5WeightPct >= t.Top5WeightLimit,
		Top3SectorConcentrationHigh: report.Top3SectorWeightPct >= t.Top3SectorLimit,
		SectorCountLow:              report.SectorCount < t.MinSectorCount,
		SectorOvercrowded:           immaterialSectors(positions, t.MaterialityMinWeight) > t.MaxSectorCount,
		BadRatingsPresent:           hasBadRating(positions),
		DataQualityIssues:           report.EnrichmentMissingCount > 0 && missingRatio >= t.EnrichmentMissingRatio,
	}

	return report, nil
}

// topWeight sums the N largest non-negative position weights.
func topWeight(rows []scored, n int) float64 {
	sum := 0.0
	for i := 0; i < n && i < len(rows); i++ {
		if rows[i].weight > 0 {
			sum += rows[i].weight
		}
	}
	return sum
}

// normalizeRating maps an empty rating to the unknown bucket.
func normalizeRating(rating string) string {
	r := strings.TrimSpace(rating)
	if r == "" {
		return ratingUnknown
	}
	return r
}

// enrichmentMissing reports whether every enrichment field used by candidate
// scoring (gain %, P/E, 52-week low) is absent.
func enrichmentMissing(p models.Position) bool {
	return p.GainPct == nil && p.PERatio == nil && p.Low52W == nil
}

// ratingBreakdown fills the rating distribution, bad-rating weight, and
// enrichment-missing count on the report.
func ratingBreakdown(rows []scored, report *models.DriftReport) {
	buckets := map[string]*models.RatingBucket{}
	for _, r := range rows {
		rating := normalizeRating(r.pos.Rating)
		b := buckets[rating]
		if b == nil {
			b = &models.RatingBucket{Rating: rating}
			buckets[rating] = b
		}
		b.Count++
		if r.weight > 0 {
			b.WeightPct += r.weight
		}
		if badRatings[rating] && r.weight > 0 {
			report.BadRatingWeightPct += r.weight
		}
		if enrichmentMissing(r.pos) {
			report.EnrichmentMissingCount++
		}
	}

	breakdown := make([]models.RatingBucket, 0, len(buckets))
	for _, b := range buckets {
		breakdown = append(breakdown, *b)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].WeightPct != breakdown[j].WeightPct {
			return breakdown[i].WeightPct > breakdown[j].WeightPct
		}
		return breakdown[i].Rating < breakdown[j].Rating
	})
	report.RatingBreakdown = breakdown
}

// sectorConcentration fills the sector-level metrics, with sector weights
// expressed as percentages of the equity total.
func sectorConcentration(positions []models.Position, report *models.DriftReport) {
	mv := map[string]float64{}
	equityTotal := 0.0
	for _, p := range positions {
		if !p.IsEquity() {
			continue
		}
		mv[p.Sector] += p.MarketValueOrZero()
		equityTotal += p.MarketValueOrZero()
	}

	weights := make([]float64, 0, len(mv))
	for _, v := range mv {
		if equityTotal != 0 {
			weights = append(weights, v/equityTotal*100)
		} else {
			weights = append(weights, 0)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(weights)))

	report.SectorCount = len(weights)
	if len(weights) > 0 {
		report.TopSectorWeightPct = weights[0]
		for i := 0; i < 3 && i < len(weights); i++ {
			report.Top3SectorWeightPct += weights[i]
		}
		sum := 0.0
		for _, w := range weights {
			sum += w
		}
		report.AvgSectorWeightPct = sum / float64(len(weights))
	}
}

// immaterialSectors counts distinct equity sectors whose weight of the
// equity total falls below the materiality threshold.
func immaterialSectors(positions []models.Position, materialityPct float64) int {
	mv := map[string]float64{}
	equityTotal := 0.0
	for _, p := range positions {
		if !p.IsEquity() {
			continue
		}
		mv[p.Sector] += p.MarketValueOrZero()
		equityTotal += p.MarketValueOrZero()
	}
	if equityTotal == 0 {
		return 0
	}
	count := 0
	for _, v := range mv {
		if v/equityTotal*100 < materialityPct {
			count++
		}
	}
	return count
}

func hasBadRating(positions []models.Position) bool {
	for _, p := range positions {
		if badRatings[normalizeRating(p.Rating)] {
			return true
		}
	}
	return false
}

// candidates evaluates every scorable position against the fixed priority
// order TRIM, REPLACE, REVIEW, ADD; the first matching kind wins, so a
// position never yields contradictory recommendations. The result is sorted
// by descending weight, ties by symbol.
func candidates(rows []scored, t Thresholds) []models.Candidate {
	var out []models.Candidate
	for _, r := range rows {
		if r.weight < 0 {
			continue // nil market value: excluded from weight-based scoring
		}
		if c, ok := evaluate(r.pos, r.weight, t); ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WeightPct != out[j].WeightPct {
			return out[i].WeightPct > out[j].WeightPct
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

func evaluate(p models.Position, weight float64, t Thresholds) (models.Candidate, bool) {
	rating := normalizeRating(p.Rating)
	missing := enrichmentMissing(p)

	// TRIM: heavy position with strong gains or stretched valuation.
	if weight >= t.TrimWeight {
		if p.GainPct != nil && *p.GainPct >= t.GainTrimThreshold {
			return candidate(p, models.CandidateTrim, weight,
				fmt.Sprintf("high weight (%.2f%%) and strong gain (%.2f%%)", weight, *p.GainPct)), true
		}
		if p.PERatio != nil && *p.PERatio >= t.PEStretchThreshold {
			return candidate(p, models.CandidateTrim, weight,
				fmt.Sprintf("high weight (%.2f%%) and stretched P/E (%.2f)", weight, *p.PERatio)), true
		}
	}

	// REPLACE: bad rating backed by enrichment data, with material weight
	// or an unrealized loss.
	if badRatings[rating] && !missing {
		if weight >= t.MaterialityMinWeight {
			return candidate(p, models.CandidateReplace, weight,
				fmt.Sprintf("bad rating (%s) with meaningful weight (%.2f%%)", rating, weight)), true
		}
		if p.GainPct != nil && *p.GainPct < 0 {
			return candidate(p, models.CandidateReplace, weight,
				fmt.Sprintf("bad rating (%s) and losing (%.2f%%)", rating, *p.GainPct)), true
		}
	}

	// REVIEW: bad rating but no enrichment data to justify trim/replace.
	if badRatings[rating] && missing {
		return candidate(p, models.CandidateReview, weight,
			fmt.Sprintf("bad rating (%s) but enrichment missing; verify rating inputs", rating)), true
	}

	// ADD: good rating, underweight, and price near its 52-week low.
	if goodRatings[rating] && weight <= t.UnderweightTarget {
		if p.Price != nil && p.Low52W != nil && *p.Low52W > 0 {
			distPct := (*p.Price - *p.Low52W) / *p.Low52W * 100
			if distPct <= t.NearLowThresholdPct {
				return candidate(p, models.CandidateAdd, weight,
					fmt.Sprintf("good rating (%s), underweight (%.2f%%), %.2f%% above 52w low", rating, weight, distPct)), true
			}
		}
	}

	return models.Candidate{}, false
}

func candidate(p models.Position, kind models.CandidateKind, weight float64, reason string) models.Candidate {
	return models.Candidate{Symbol: p.Symbol, Kind: kind, WeightPct: weight, Reason: reason}
}

package models

import "time"

// CandidateKind categorizes a rebalancing-action candidate.
type CandidateKind string

const (
	CandidateTrim    CandidateKind = "TRIM"
	CandidateAdd     CandidateKind = "ADD"
	CandidateReplace CandidateKind = "REPLACE"
	CandidateReview  CandidateKind = "REVIEW"
)

// Candidate is one rebalancing-action suggestion. A position generates at
// most one candidate; kinds are evaluated in fixed priority order
// TRIM, REPLACE, REVIEW, ADD with first match winning.
type Candidate struct {
	Symbol    string        `json:"symbol"`
	Kind      CandidateKind `json:"kind"`
	WeightPct float64       `json:"weight_pct"`
	Reason    string        `json:"reason"`
}

// RatingBucket is one rating's share of the portfolio.
type RatingBucket struct {
	Rating    string  `json:"rating"`
	Count     int     `json:"count"`
	WeightPct float64 `json:"weight_pct"`
}

// DriftFlags are the threshold-driven boolean alerts of the drift analysis.
type DriftFlags struct {
	ConcentrationHigh           bool `json:"concentration_high"`
	Top3SectorConcentrationHigh bool `json:"top3_sector_concentration_high"`
	SectorCountLow              bool `json:"sector_count_low"`
	SectorOvercrowded           bool `json:"sector_overcrowded"`
	BadRatingsPresent           bool `json:"bad_ratings_present"`
	DataQualityIssues           bool `json:"data_quality_issues"`
}

// DriftReport is the concentration and rebalancing analysis for one snapshot.
// All weight fields are percentages of the full account total (0-100) except
// the sector weights, which are percentages of the equity total.
type DriftReport struct {
	AccountID    string    `json:"account_id"`
	SnapshotDate time.Time `json:"snapshot_date"`
	SnapshotAt   time.Time `json:"snapshot_at"`

	PositionCount    int     `json:"position_count"`
	TotalMarketValue float64 `json:"total_market_value"`
	Top5WeightPct    float64 `json:"top5_weight_pct"`
	Top10WeightPct   float64 `json:"top10_weight_pct"`

	RatingBreakdown    []RatingBucket `json:"rating_breakdown"`
	BadRatingWeightPct float64        `json:"bad_rating_weight_pct"`

	SectorCount         int     `json:"sector_count"`
	TopSectorWeightPct  float64 `json:"top_sector_weight_pct"`
	Top3SectorWeightPct float64 `json:"top3_sector_weight_pct"`
	AvgSectorWeightPct  float64 `json:"avg_sector_weight_pct"`

	EnrichmentMissingCount int `json:"enrichment_missing_count"`

	Candidates []Candidate `json:"candidates"`
	Flags      DriftFlags  `json:"flags"`
}

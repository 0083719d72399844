// Package drift computes concentration metrics, rating breakdowns, and
// rebalancing-action candidates for one portfolio snapshot.
package drift

import "fmt"

// Default threshold constants. Every threshold is independently overridable
// through configuration; these are the documented fallbacks.
const (
	DefaultTop5WeightLimit        = 25.0 // top-5 positions over 25% of account
	DefaultTop3SectorLimit        = 60.0 // top-3 sectors over 60% of equity
	DefaultMinSectorCount         = 6    // fewer distinct sectors flags low diversification
	DefaultMaxSectorCount         = 10   // more immaterial sectors than this flags overcrowding
	DefaultTrimWeight             = 5.0  // minimum position weight to consider trimming
	DefaultGainTrimThreshold      = 15.0 // unrealized gain that triggers trim consideration
	DefaultPEStretchThreshold     = 40.0 // P/E treated as stretched valuation
	DefaultUnderweightTarget      = 3.0  // maximum weight for add candidates
	DefaultNearLowThresholdPct    = 10.0 // price within 10% of its 52-week low
	DefaultMaterialityMinWeight   = 2.0  // minimum weight for a bad rating to matter
	DefaultEnrichmentMissingRatio = 15.0 // % of positions missing enrichment before flagging
)

// Thresholds holds every tunable limit of the drift analysis. Percentage
// thresholds are 0-100. Construct with NewThresholds or validate explicitly
// before use; Analyze rejects unvalidated garbage at entry.
type Thresholds struct {
	Top5WeightLimit        float64 `toml:"top5_weight_limit"`
	Top3SectorLimit        float64 `toml:"top3_sector_limit"`
	MinSectorCount         int     `toml:"min_sector_count"`
	MaxSectorCount         int     `toml:"max_sector_count"`
	TrimWeight             float64 `toml:"trim_weight"`
	GainTrimThreshold      float64 `toml:"gain_trim_threshold"`
	PEStretchThreshold     float64 `toml:"pe_stretch_threshold"`
	UnderweightTarget      float64 `toml:"underweight_target"`
	NearLowThresholdPct    float64 `toml:"near_low_threshold_pct"`
	MaterialityMinWeight   float64 `toml:"materiality_min_weight"`
	EnrichmentMissingRatio float64 `toml:"enrichment_missing_ratio"`
}

// NewThresholds returns the documented defaults.
func NewThresholds() Thresholds {
	return Thresholds{
		Top5WeightLimit:        DefaultTop5WeightLimit,
		Top3SectorLimit:        DefaultTop3SectorLimit,
		MinSectorCount:         DefaultMinSectorCount,
		MaxSectorCount:         DefaultMaxSectorCount,
		TrimWeight:             DefaultTrimWeight,
		GainTrimThreshold:      DefaultGainTrimThreshold,
		PEStretchThreshold:     DefaultPEStretchThreshold,
		UnderweightTarget:      DefaultUnderweightTarget,
		NearLowThresholdPct:    DefaultNearLowThresholdPct,
		MaterialityMinWeight:   DefaultMaterialityMinWeight,
		EnrichmentMissingRatio: DefaultEnrichmentMissingRatio,
	}
}

// Validate rejects invalid thresholds at configuration-construction time,
// before any row processing happens.
func (t Thresholds) Validate() error {
	pcts := []struct {
		name  string
		value float64
	}{
		{"top5_weight_limit", t.Top5WeightLimit},
		{"top3_sector_limit", t.Top3SectorLimit},
		{"trim_weight", t.TrimWeight},
		{"underweight_target", t.UnderweightTarget},
		{"near_low_threshold_pct", t.NearLowThresholdPct},
		{"materiality_min_weight", t.MaterialityMinWeight},
		{"enrichment_missing_ratio", t.EnrichmentMissingRatio},
	}
	for _, p := range pcts {
		if p.value < 0 || p.value > 100 {
			return fmt.Errorf("threshold %s must be a percentage in [0,100], got %v", p.name, p.value)
		}
	}
	if t.GainTrimThreshold < 0 {
		return fmt.Errorf("threshold gain_trim_threshold must be non-negative, got %v", t.GainTrimThreshold)
	}
	if t.PEStretchThreshold <= 0 {
		return fmt.Errorf("threshold pe_stretch_threshold must be positive, got %v", t.PEStretchThreshold)
	}
	if t.MinSectorCount < 1 {
		return fmt.Errorf("threshold min_sector_count must be at least 1, got %d", t.MinSectorCount)
	}
	if t.MinSectorCount > t.MaxSectorCount {
		return fmt.Errorf("threshold min_sector_count (%d) exceeds max_sector_count (%d)", t.MinSectorCount, t.MaxSectorCount)
	}
	return nil
}

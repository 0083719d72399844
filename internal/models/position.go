// Package models defines data structures for Folio
package models

import (
	"strings"
	"time"
)

// RawRow is one CSV-derived row as delivered by the ingest layer:
// a mapping of column header to the raw, untyped cell value.
type RawRow map[string]string

// AssetClass is the classified asset category encoded into an asset key prefix.
type AssetClass string

const (
	AssetClassEquity      AssetClass = "EQUITY"
	AssetClassFund        AssetClass = "FUND"
	AssetClassCash        AssetClass = "CASH"
	AssetClassOption      AssetClass = "OPTION"
	AssetClassFixedIncome AssetClass = "FIXED_INCOME"
	AssetClassUnknown     AssetClass = "UNKNOWN"
)

// SectorUnknown is the sector assigned when the lookup table has no entry
// for a symbol. Aggregators decide explicitly whether to include it.
const SectorUnknown = "Unknown"

// Position is the canonical unit of data: one normalized brokerage position.
// Constructed once per raw row by the row normalizer and immutable thereafter.
// Nullable metrics are pointers; nil means the source cell was blank or a
// placeholder, never that parsing failed.
type Position struct {
	AccountID    string `json:"account_id"`
	AssetKey     string `json:"asset_key"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	SecurityType string `json:"security_type"`
	Sector       string `json:"sector"`
	Rating       string `json:"rating,omitempty"`

	Quantity    *float64 `json:"quantity"`
	Price       *float64 `json:"price"`
	MarketValue *float64 `json:"market_value"`
	CostBasis   *float64 `json:"cost_basis"`

	GainAbs        *float64 `json:"gain_abs"`
	GainPct        *float64 `json:"gain_pct"`
	DayChangeAbs   *float64 `json:"day_change_abs"`
	DayChangePct   *float64 `json:"day_change_pct"`
	PriceChangeAbs *float64 `json:"price_change_abs"`
	PriceChangePct *float64 `json:"price_change_pct"`

	Low52W  *float64 `json:"low_52w"`
	High52W *float64 `json:"high_52w"`
	PERatio *float64 `json:"pe_ratio"`

	ReinvestDividends *bool `json:"reinvest_dividends,omitempty"`
	ReinvestCapGains  *bool `json:"reinvest_cap_gains,omitempty"`

	SnapshotDate time.Time `json:"snapshot_date"`
	SnapshotAt   time.Time `json:"snapshot_at"`
	Filename     string    `json:"filename"`
}

// IsEquity reports whether the asset key carries the equity prefix.
func (p Position) IsEquity() bool {
	return strings.HasPrefix(p.AssetKey, string(AssetClassEquity)+":")
}

// MarketValueOrZero returns the market value, treating nil as 0 for summation.
func (p Position) MarketValueOrZero() float64 {
	if p.MarketValue == nil {
		return 0
	}
	return *p.MarketValue
}

// SnapshotMeta carries the batch-level context derived once per processed file
// and denormalized onto every aggregate output.
type SnapshotMeta struct {
	AccountID    string    `json:"account_id"`
	SnapshotDate time.Time `json:"snapshot_date"`
	SnapshotAt   time.Time `json:"snapshot_at"`
	Filename     string    `json:"filename"`
	AccountTotal float64   `json:"account_total_market_value"`
}

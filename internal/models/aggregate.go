package models

import "time"

// Wide-pivot column name constants. Dynamic columns are derived by slugifying
// the group name and prefixing mv__ or alloc__.
const (
	ColMVTotal        = "mv__total"
	ColMVEquityTotal  = "mv__equity_total"
	ColMVAccountTotal = "mv__account_total"
	PrefixMV          = "mv__"
	PrefixAlloc       = "alloc__"
)

// TypePivot is the wide-format security-type summary: one row per snapshot
// with dynamic mv__<type> and alloc__<type> columns plus mv__total.
// A type absent from the snapshot has no columns; consumers treat a missing
// column as 0, not as null.
type TypePivot struct {
	AccountID  string             `json:"account_id"`
	SnapshotAt time.Time          `json:"snapshot_at"`
	Columns    map[string]float64 `json:"columns"`
}

// SectorPivot is the wide-format equity-by-sector summary, same shape as
// TypePivot but with mv__equity_total and mv__account_total companion columns.
type SectorPivot struct {
	AccountID  string             `json:"account_id"`
	SnapshotAt time.Time          `json:"snapshot_at"`
	Columns    map[string]float64 `json:"columns"`
}

// Holding is one position inside a sector breakdown, carrying the three
// allocation perspectives. All percentages are 0-100.
type Holding struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	MarketValue    float64 `json:"market_value"`
	AllocOfEquity  float64 `json:"alloc_of_equity"`
	AllocOfSector  float64 `json:"alloc_of_sector"`
	AllocOfAccount float64 `json:"alloc_of_account"`
}

// SectorBreakdown is one sector's summary plus its holdings, ordered by
// descending market value (ties broken by ascending symbol).
type SectorBreakdown struct {
	Sector            string    `json:"sector"`
	MarketValue       float64   `json:"market_value"`
	SymbolCount       int       `json:"symbol_count"`
	AllocPctOfEquity  float64   `json:"alloc_pct_of_equity"`
	AllocPctOfAccount float64   `json:"alloc_pct_of_account"`
	AvgPE             *float64  `json:"avg_pe"`
	Holdings          []Holding `json:"holdings"`
}

// SectorDetail is the nested sector/holdings structure, keyed by sector slug.
type SectorDetail struct {
	AccountID    string                     `json:"account_id"`
	SnapshotAt   time.Time                  `json:"snapshot_at"`
	EquityTotal  float64                    `json:"mv__equity_total"`
	AccountTotal float64                    `json:"mv__account_total"`
	Sectors      map[string]SectorBreakdown `json:"sectors"`
}

// FlatHolding is one denormalized record per holding, carrying all ancestor
// context from the nested sector detail. DocID is the deterministic upsert
// key used by the storage collaborator.
type FlatHolding struct {
	DocID        string    `json:"doc_id"`
	AccountID    string    `json:"account_id"`
	SnapshotDate time.Time `json:"snapshot_date"`
	SnapshotAt   time.Time `json:"snapshot_at"`
	Filename     string    `json:"filename"`

	SectorSlug              string   `json:"sector_slug"`
	Sector                  string   `json:"sector"`
	SectorMarketValue       float64  `json:"sector_market_value"`
	SectorAllocPctOfEquity  float64  `json:"sector_alloc_pct_of_equity"`
	SectorAllocPctOfAccount float64  `json:"sector_alloc_pct_of_account"`
	SectorAvgPE             *float64 `json:"sector_avg_pe"`

	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	MarketValue    float64 `json:"market_value"`
	AllocOfEquity  float64 `json:"alloc_of_equity"`
	AllocOfSector  float64 `json:"alloc_of_sector"`
	AllocOfAccount float64 `json:"alloc_of_account"`

	EquityTotal  float64 `json:"mv__equity_total"`
	AccountTotal float64 `json:"mv__account_total"`
}

// SnapshotResult bundles every artifact produced from one processed file.
type SnapshotResult struct {
	Meta        SnapshotMeta  `json:"meta"`
	Positions   []Position    `json:"positions"`
	TypePivot   TypePivot     `json:"type_pivot"`
	SectorPivot SectorPivot   `json:"sector_pivot"`
	Detail      *SectorDetail `json:"detail"`
	Holdings    []FlatHolding `json:"holdings"`
	Drift       *DriftReport  `json:"drift"`
}

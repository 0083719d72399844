package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// SectorLookup maps a symbol to its sector name. Misses resolve to
// models.SectorUnknown, never to an error.
type SectorLookup map[string]string

// filenameLayout is the fixed naming convention of brokerage position
// exports, e.g. "Individual-Positions-2025-03-14-143000.csv".
const filenameLayout = "Individual-Positions-2006-01-02-150405.csv"

// totalSecurityType marks the synthetic account-total line brokerage exports
// append after the positions.
const totalSecurityType = "--"

// Options carries the per-run context the row normalizer needs.
type Options struct {
	AccountID string
	// Location is the timezone the export's filename timestamp is written in.
	Location *time.Location
}

// ParseSnapshotFilename extracts the snapshot timestamp embedded in the
// export filename. The filename is the only source of snapshot identity, so
// a name that does not match the convention is a hard error.
func ParseSnapshotFilename(filename string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	ts, err := time.ParseInLocation(filenameLayout, filename, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("filename %q does not match position export convention: %w", filename, err)
	}
	return ts, nil
}

// calendarDate strips the time component in the timestamp's own location.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// classifyAssetClass maps the export's security-type label to an asset class.
func classifyAssetClass(securityType string) models.AssetClass {
	switch strings.ToLower(strings.TrimSpace(securityType)) {
	case "equity", "stock", "common stock":
		return models.AssetClassEquity
	case "etfs & closed end funds", "etf", "mutual fund", "mutual funds":
		return models.AssetClassFund
	case "cash and money market", "cash & money market", "cash":
		return models.AssetClassCash
	case "option", "options":
		return models.AssetClassOption
	case "fixed income", "bond", "bonds":
		return models.AssetClassFixedIncome
	default:
		return models.AssetClassUnknown
	}
}

// buildAssetKey composes the stable composite identity for a row, e.g.
// "EQUITY:SYMBOL:AAPL". Rows without a symbol fall back to the description
// as discriminator.
func buildAssetKey(class models.AssetClass, symbol, name string) string {
	if symbol != "" {
		return fmt.Sprintf("%s:SYMBOL:%s", class, symbol)
	}
	return fmt.Sprintf("%s:DESC:%s", class, name)
}

// rowError wraps a field-level failure with enough identity to locate the
// offending record.
func rowError(symbol, field string, err error) error {
	if symbol == "" {
		symbol = "<no symbol>"
	}
	return fmt.Errorf("row %s, field %s: %w", symbol, field, err)
}

// number runs the value normalizer against the first matching alias,
// attaching row identity on malformed input.
func number(row models.RawRow, symbol, field string, keys ...string) (*float64, error) {
	n, err := ToNumber(Pick(row, keys...))
	if err != nil {
		return nil, rowError(symbol, field, err)
	}
	return n, nil
}

// NormalizeRow converts one raw CSV row plus its filename and the sector
// lookup into a canonical Position. Missing symbol or market value on an
// equity-classified row is a hard error; a missing sector resolves to
// models.SectorUnknown.
func NormalizeRow(row models.RawRow, filename string, sectors SectorLookup, opts Options) (*models.Position, error) {
	snapshotAt, err := ParseSnapshotFilename(filename, opts.Location)
	if err != nil {
		return nil, err
	}

	symbol := strings.ToUpper(strings.TrimSpace(Pick(row, "Symbol", "SYM", "Ticker")))
	name := strings.TrimSpace(Pick(row, "Description", "Desc", "Security Description"))
	securityType := strings.TrimSpace(Pick(row, "Security Type", "Type"))
	class := classifyAssetClass(securityType)

	if class == models.AssetClassEquity && symbol == "" {
		return nil, fmt.Errorf("equity row %q has no symbol", name)
	}

	sector := models.SectorUnknown
	if s, ok := sectors[symbol]; ok && strings.TrimSpace(s) != "" {
		sector = strings.TrimSpace(s)
	}

	p := &models.Position{
		AccountID:    opts.AccountID,
		AssetKey:     buildAssetKey(class, symbol, name),
		Symbol:       symbol,
		Name:         name,
		SecurityType: securityType,
		Sector:       sector,
		Rating:       strings.TrimSpace(Pick(row, "Ratings", "Rating")),
		SnapshotDate: calendarDate(snapshotAt),
		SnapshotAt:   snapshotAt,
		Filename:     filename,
	}

	fields := []struct {
		dst   **float64
		field string
		keys  []string
	}{
		{&p.Quantity, "quantity", []string{"Qty (Quantity)", "Qty", "Quantity"}},
		{&p.Price, "price", []string{"Price"}},
		{&p.MarketValue, "market_value", []string{"Mkt Val (Market Value)", "Market Value"}},
		{&p.CostBasis, "cost_basis", []string{"Cost Basis"}},
		{&p.GainAbs, "gain_abs", []string{"Gain $ (Gain/Loss $)", "Gain/Loss $", "Gain $"}},
		{&p.GainPct, "gain_pct", []string{"Gain % (Gain/Loss %)", "Gain/Loss %", "Gain %"}},
		{&p.DayChangeAbs, "day_change_abs", []string{"Day Chng $ (Day Change $)", "Day Change $"}},
		{&p.DayChangePct, "day_change_pct", []string{"Day Chng % (Day Change %)", "Day Change %"}},
		{&p.PriceChangeAbs, "price_change_abs", []string{"Price Chng $ (Price Change $)", "Price Change $"}},
		{&p.PriceChangePct, "price_change_pct", []string{"Price Chng % (Price Change %)", "Price Change %"}},
		{&p.Low52W, "low_52w", []string{"52 Wk Low (52 Week Low)", "52 Week Low"}},
		{&p.High52W, "high_52w", []string{"52 Wk High (52 Week High)", "52 Week High"}},
		{&p.PERatio, "pe_ratio", []string{"P/E Ratio (Price/Earnings Ratio)", "P/E Ratio"}},
	}
	for _, f := range fields {
		v, err := number(row, symbol, f.field, f.keys...)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	p.ReinvestDividends = ToBool(Pick(row, "Reinvest?"))
	p.ReinvestCapGains = ToBool(Pick(row, "Reinvest Capital Gains?"))

	if class == models.AssetClassEquity && p.MarketValue == nil {
		return nil, fmt.Errorf("equity row %s has no market value", symbol)
	}

	return p, nil
}

// NormalizeRows converts a batch of raw rows into positions. The synthetic
// account-total line and trailing disclaimer lines (no security type, no
// market value) are skipped; any other row failure aborts the batch, since
// partial aggregation from a corrupt snapshot is worse than none.
func NormalizeRows(rows []models.RawRow, filename string, sectors SectorLookup, opts Options) ([]models.Position, error) {
	positions := make([]models.Position, 0, len(rows))
	for i, row := range rows {
		securityType := strings.TrimSpace(Pick(row, "Security Type", "Type"))
		if securityType == totalSecurityType {
			continue
		}
		if securityType == "" && strings.TrimSpace(Pick(row, "Mkt Val (Market Value)", "Market Value")) == "" {
			continue
		}
		p, err := NormalizeRow(row, filename, sectors, opts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		positions = append(positions, *p)
	}
	return positions, nil
}

// SnapshotMetaFor derives the batch-level metadata for a normalized set of
// positions. The account total is the sum over ALL positions, nil market
// values counting as zero.
func SnapshotMetaFor(positions []models.Position, filename string, opts Options) (models.SnapshotMeta, error) {
	snapshotAt, err := ParseSnapshotFilename(filename, opts.Location)
	if err != nil {
		return models.SnapshotMeta{}, err
	}
	total := 0.0
	for _, p := range positions {
		total += p.MarketValueOrZero()
	}
	return models.SnapshotMeta{
		AccountID:    opts.AccountID,
		SnapshotDate: calendarDate(snapshotAt),
		SnapshotAt:   snapshotAt,
		Filename:     filename,
		AccountTotal: total,
	}, nil
}

// Package ingest parses brokerage CSV exports and lookup tables into the
// raw inputs the normalization core consumes. It performs no normalization
// itself: cells are delivered as raw strings.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/normalize"
)

// ReadPositions parses a position export into raw rows. Brokerage exports
// carry a preamble line before the header and trailing disclaimer lines
// after the data, so the reader scans for the header row (the first row
// containing a "Symbol" cell) and tolerates ragged records.
func ReadPositions(r io.Reader) ([]models.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse positions csv: %w", err)
	}

	var header []string
	start := -1
	for i, rec := range records {
		for _, cell := range rec {
			if strings.TrimSpace(cell) == "Symbol" {
				header = rec
				start = i + 1
				break
			}
		}
		if header != nil {
			break
		}
	}
	if header == nil {
		return nil, fmt.Errorf("no header row with a Symbol column found")
	}

	rows := make([]models.RawRow, 0, len(records)-start)
	for _, rec := range records[start:] {
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		row := make(models.RawRow, len(header))
		for i, col := range header {
			col = strings.TrimSpace(col)
			if col == "" || i >= len(rec) {
				continue
			}
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadPositionsFile opens and parses a position export from disk.
func ReadPositionsFile(path string) ([]models.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open positions file %s: %w", path, err)
	}
	defer f.Close()
	return ReadPositions(f)
}

// ReadSectorLookup parses a symbol->sector table ("symbol,sector" per line,
// optional header). Duplicate symbols keep the last entry.
func ReadSectorLookup(r io.Reader) (normalize.SectorLookup, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse sector lookup csv: %w", err)
	}

	lookup := make(normalize.SectorLookup, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(rec[0]))
		sector := strings.TrimSpace(rec[1])
		if symbol == "" || sector == "" {
			continue
		}
		if i == 0 && strings.EqualFold(symbol, "symbol") {
			continue
		}
		lookup[symbol] = sector
	}
	return lookup, nil
}

// ReadSectorLookupFile opens and parses a sector lookup table from disk.
// A missing file is not an error: every symbol then resolves to Unknown.
func ReadSectorLookupFile(path string) (normalize.SectorLookup, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return normalize.SectorLookup{}, nil
		}
		return nil, fmt.Errorf("failed to open sector lookup %s: %w", path, err)
	}
	defer f.Close()
	return ReadSectorLookup(f)
}

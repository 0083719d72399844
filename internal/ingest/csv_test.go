package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `"Positions for account Individual ...123 as of 02:30 PM ET, 2025/03/14"
"Symbol","Description","Qty (Quantity)","Price","Mkt Val (Market Value)","Security Type"
"AAPL","APPLE INC","10","$150.00","$1,500.00","Equity"
"Cash & Cash Investments","--","--","--","$250.00","Cash and Money Market"
"","Account Total","--","--","$1,750.00","--"

"The data is provided as-is."
`

func TestReadPositions(t *testing.T) {
	rows, err := ReadPositions(strings.NewReader(sampleExport))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "AAPL", rows[0]["Symbol"])
	assert.Equal(t, "$1,500.00", rows[0]["Mkt Val (Market Value)"])
	assert.Equal(t, "Equity", rows[0]["Security Type"])
	assert.Equal(t, "Cash and Money Market", rows[1]["Security Type"])
	// The account-total line survives ingest untouched; normalization skips it.
	assert.Equal(t, "--", rows[2]["Security Type"])
	// The trailing disclaimer is a data row to the reader; its single cell
	// lands under the first header column.
	assert.Equal(t, "The data is provided as-is.", rows[3]["Symbol"])
}

func TestReadPositionsRaggedRows(t *testing.T) {
	input := `"Symbol","Description","Price"
"AAPL","APPLE INC"
`
	rows, err := ReadPositions(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "APPLE INC", rows[0]["Description"])
	_, ok := rows[0]["Price"]
	assert.False(t, ok, "short row must not fabricate a Price cell")
}

func TestReadPositionsNoHeader(t *testing.T) {
	_, err := ReadPositions(strings.NewReader("just,some,cells\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Symbol")
}

func TestReadPositionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Individual-Positions-2025-03-14-143000.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0644))

	rows, err := ReadPositionsFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	_, err = ReadPositionsFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestReadSectorLookup(t *testing.T) {
	input := `symbol,sector
aapl,Information Technology
MSFT,Information Technology
JNJ,Health Care
JNJ,Health/Care
ONLYONE
,Empty
`
	lookup, err := ReadSectorLookup(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "Information Technology", lookup["AAPL"], "symbols upper-cased")
	assert.Equal(t, "Health/Care", lookup["JNJ"], "duplicates keep the last entry")
	assert.Len(t, lookup, 3)
}

func TestReadSectorLookupNoHeader(t *testing.T) {
	lookup, err := ReadSectorLookup(strings.NewReader("AAPL,Information Technology\n"))
	require.NoError(t, err)
	assert.Equal(t, "Information Technology", lookup["AAPL"])
}

func TestReadSectorLookupFileMissing(t *testing.T) {
	lookup, err := ReadSectorLookupFile(filepath.Join(t.TempDir(), "sectors.csv"))
	require.NoError(t, err)
	assert.Empty(t, lookup)
}

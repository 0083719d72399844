package aggregate

import (
	"reflect"
	"testing"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

func testMeta() models.SnapshotMeta {
	return models.SnapshotMeta{
		AccountID:    "schwab-1",
		SnapshotDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		SnapshotAt:   testSnapshotAt,
		Filename:     "Individual-Positions-2025-03-14-143000.csv",
	}
}

func TestDocID(t *testing.T) {
	at := time.Date(2025, 3, 14, 15, 30, 0, 0, time.FixedZone("CET", 3600))
	got := DocID("schwab-1", at, "AAPL")
	want := "schwab-1|2025-03-14T14:30:00Z|AAPL"
	if got != want {
		t.Errorf("DocID = %q, want %q", got, want)
	}
	// Same inputs, same key.
	if got != DocID("schwab-1", at, "AAPL") {
		t.Error("DocID is not deterministic")
	}
}

func TestFlatten(t *testing.T) {
	positions := []models.Position{
		pos("AAA", "Information Technology", 600),
		pos("BBB", "Information Technology", 300),
		pos("CCC", "Health Care", 100),
		cashPos(250),
	}
	detail, err := Detailed(positions, false)
	if err != nil {
		t.Fatal(err)
	}

	flat := Flatten(detail, testMeta())
	if len(flat) != 3 {
		t.Fatalf("flat holdings = %d, want 3", len(flat))
	}

	// Sector slugs ascending, holdings by descending market value.
	order := []string{"CCC", "AAA", "BBB"}
	for i, want := range order {
		if flat[i].Symbol != want {
			t.Errorf("flat[%d].Symbol = %s, want %s", i, flat[i].Symbol, want)
		}
	}

	aaa := flat[1]
	if aaa.DocID != DocID("schwab-1", testSnapshotAt, "AAA") {
		t.Errorf("doc id = %q", aaa.DocID)
	}
	if aaa.SectorSlug != "information_technology" || aaa.Sector != "Information Technology" {
		t.Errorf("sector context = %q / %q", aaa.SectorSlug, aaa.Sector)
	}
	if aaa.SectorMarketValue != 900 {
		t.Errorf("sector market value = %v, want 900", aaa.SectorMarketValue)
	}
	if aaa.EquityTotal != 1000 || aaa.AccountTotal != 1250 {
		t.Errorf("totals = %v / %v, want 1000 / 1250", aaa.EquityTotal, aaa.AccountTotal)
	}
	if aaa.Filename != "Individual-Positions-2025-03-14-143000.csv" {
		t.Errorf("filename = %q", aaa.Filename)
	}
	if !almostEqual(aaa.AllocOfSector, 100.0*600/900, 1e-9) {
		t.Errorf("alloc of sector = %v", aaa.AllocOfSector)
	}
}

func TestFlattenRenestRoundTrip(t *testing.T) {
	lot := pos("AAA", "Information Technology", 600)
	lot.PERatio = fptr(22)
	positions := []models.Position{
		lot,
		pos("BBB", "Information Technology", 300),
		pos("CCC", "Health Care", 100),
		cashPos(250),
	}
	detail, err := Detailed(positions, false)
	if err != nil {
		t.Fatal(err)
	}

	back, err := Renest(Flatten(detail, testMeta()))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(detail, back) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, detail)
	}
}

func TestRenestRejectsMixedSnapshots(t *testing.T) {
	detail, err := Detailed([]models.Position{pos("AAA", "Information Technology", 600)}, false)
	if err != nil {
		t.Fatal(err)
	}
	flat := Flatten(detail, testMeta())
	stray := flat[0]
	stray.SnapshotAt = testSnapshotAt.Add(time.Hour)
	stray.Symbol = "BBB"

	if _, err := Renest(append(flat, stray)); err == nil {
		t.Fatal("want error for holdings from different snapshots")
	}
}

func TestRenestEmpty(t *testing.T) {
	if _, err := Renest(nil); err == nil {
		t.Fatal("want error for empty input")
	}
}

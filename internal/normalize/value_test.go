package normalize

import (
	"errors"
	"testing"

	"github.com/bobmcallan/folio/internal/models"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
		null bool
	}{
		{name: "plain numeric", in: "1234.56", want: 1234.56},
		{name: "currency", in: "$278.28", want: 278.28},
		{name: "signed currency", in: "-$0.31", want: -0.31},
		{name: "formula wrapped currency", in: `="$259.939"`, want: 259.939},
		{name: "formula wrapped negative", in: `="-$0.311"`, want: -0.311},
		{name: "percentage", in: "12.3%", want: 12.3},
		{name: "negative percentage", in: "-4.5%", want: -4.5},
		{name: "thousands separators", in: "$1,234,567.89", want: 1234567.89},
		{name: "accounting negative", in: "(12.50)", want: -12.50},
		{name: "accounting negative currency", in: "($1,000.00)", want: -1000},
		{name: "explicit plus", in: "+3.2", want: 3.2},
		{name: "whitespace", in: "  42  ", want: 42},
		{name: "blank", in: "", null: true},
		{name: "dashes placeholder", in: "--", null: true},
		{name: "na placeholder", in: "N/A", null: true},
		{name: "lowercase na", in: "n/a", null: true},
		{name: "formula wrapped blank", in: `="--"`, null: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToNumber(tt.in)
			if err != nil {
				t.Fatalf("ToNumber(%q) unexpected error: %v", tt.in, err)
			}
			if tt.null {
				if got != nil {
					t.Fatalf("ToNumber(%q) = %v, want nil", tt.in, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ToNumber(%q) = nil, want %v", tt.in, tt.want)
			}
			if *got != tt.want {
				t.Errorf("ToNumber(%q) = %v, want %v", tt.in, *got, tt.want)
			}
		})
	}
}

func TestToNumberMalformed(t *testing.T) {
	for _, in := range []string{"abc", "12..3", "$", "=$garbage", "1.2.3", "12%%x"} {
		got, err := ToNumber(in)
		if err == nil {
			t.Errorf("ToNumber(%q) = %v, want malformed error", in, got)
			continue
		}
		var malformed *MalformedValueError
		if !errors.As(err, &malformed) {
			t.Errorf("ToNumber(%q) error = %v, want *MalformedValueError", in, err)
		}
	}
}

func TestToBool(t *testing.T) {
	tests := []struct {
		in   string
		want *bool
	}{
		{"Yes", boolPtr(true)},
		{"y", boolPtr(true)},
		{"TRUE", boolPtr(true)},
		{"No", boolPtr(false)},
		{"n", boolPtr(false)},
		{"false", boolPtr(false)},
		{"", nil},
		{"--", nil},
		{"maybe", nil},
	}
	for _, tt := range tests {
		got := ToBool(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("ToBool(%q) = %v, want nil", tt.in, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("ToBool(%q) = %v, want %v", tt.in, got, *tt.want)
		}
	}
}

func TestPick(t *testing.T) {
	row := models.RawRow{
		"Symbol":    "",
		"SYM":       "AAPL",
		"Price":     "12",
		"untouched": "x",
	}
	if got := Pick(row, "Symbol", "SYM", "Ticker"); got != "AAPL" {
		t.Errorf("Pick fell through to %q, want AAPL", got)
	}
	if got := Pick(row, "Missing", "AlsoMissing"); got != "" {
		t.Errorf("Pick of absent keys = %q, want empty", got)
	}
}

func boolPtr(b bool) *bool { return &b }

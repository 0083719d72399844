// Package normalize converts raw brokerage CSV cells and rows into canonical
// position documents. All percentages across the repo are expressed in 0-100
// units: "12.3%" normalizes to 12.3, and allocation fields downstream follow
// the same convention.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bobmcallan/folio/internal/models"
)

// MalformedValueError marks a cell that is non-blank, not a placeholder, and
// not parseable in any accepted numeric format. It signals a bad input row,
// not absence of data, and aborts processing of the snapshot.
type MalformedValueError struct {
	Value string
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("malformed numeric value %q", e.Value)
}

// placeholder reports whether s is one of the tokens brokerage exports use
// for "no data": empty, "--", or "N/A".
func placeholder(s string) bool {
	switch strings.ToLower(s) {
	case "", "--", "n/a":
		return true
	}
	return false
}

// ToNumber parses a raw cell into a float.
//
// Accepted formats: plain numeric ("1234.56"), currency-prefixed ("$278.28",
// "-$0.31"), accounting negatives ("(12.50)"), spreadsheet-formula-wrapped
// currency (="$259.939", ="-$0.311"), percentage-suffixed ("12.3%" -> 12.3),
// and thousands separators. Blank and placeholder tokens return (nil, nil).
// Anything else returns a *MalformedValueError.
//
// Formula unwrapping happens before currency stripping; the reverse order
// would leave quoted strings unparseable.
func ToNumber(raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if placeholder(s) {
		return nil, nil
	}

	// Unwrap spreadsheet formula markers: leading '=' then surrounding quotes.
	if strings.HasPrefix(s, "=") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "="))
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSpace(s)
	if placeholder(s) {
		return nil, nil
	}

	// Accounting-style negative: (12.50) means -12.50.
	neg := false
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		neg = true
		s = s[1 : len(s)-1]
	}

	// Leading sign may precede the currency symbol ("-$0.31").
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &MalformedValueError{Value: raw}
	}
	if neg {
		n = -n
	}
	return &n, nil
}

// ToBool parses yes/no and true/false tokens. Anything else, including
// blanks and placeholders, is nil.
func ToBool(raw string) *bool {
	t, f := true, false
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true":
		return &t
	case "no", "n", "false":
		return &f
	}
	return nil
}

// Pick returns the first non-empty value in the row across the given header
// aliases. Brokerage exports rename columns between format revisions, so
// every field is read through its known alias list.
func Pick(row models.RawRow, keys ...string) string {
	for _, k := range keys {
		if v, ok := row[k]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

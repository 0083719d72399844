package aggregate

import (
	"errors"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cash & Money Market", "cash_and_money_market"},
		{"Information Technology", "information_technology"},
		{"Health-Care", "health_care"},
		{"Health/Care", "health_care"},
		{"ETFs & Closed End Funds", "etfs_and_closed_end_funds"},
		{"  Fixed   Income  ", "fixed_income"},
		{"Real Estate (REITs)", "real_estate_reits"},
		{"--", ""},
		{"Consumer Discretionary", "consumer_discretionary"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugIndexCollision(t *testing.T) {
	idx := slugIndex{}
	if _, err := idx.claim("Health-Care"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	// Same name again is fine.
	if _, err := idx.claim("Health-Care"); err != nil {
		t.Fatalf("repeat claim failed: %v", err)
	}
	// A distinct name with the same slug is a hard error.
	_, err := idx.claim("Health/Care")
	if err == nil {
		t.Fatal("want collision error")
	}
	var collision *SlugCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("error = %v, want *SlugCollisionError", err)
	}
	if collision.Slug != "health_care" {
		t.Errorf("collision slug = %q", collision.Slug)
	}
}

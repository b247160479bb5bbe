package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"12.34", "12.34", false},
		{"12,34", "12.34", false},
		{" 7 ", "7", false},
		{"4.555", "4.56", false},
		{"0", "0", false},
		{"", "", true},
		{"abc", "", true},
		{"12.34.56", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) expected error, got %s", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestCentsRoundTrip(t *testing.T) {
	tests := []struct {
		amount string
		cents  int64
	}{
		{"4.50", 450},
		{"0.01", 1},
		{"199.99", 19999},
		{"7", 700},
	}

	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.amount)
		if err != nil {
			t.Fatalf("bad fixture %q: %v", tt.amount, err)
		}
		if got := Cents(d); got != tt.cents {
			t.Errorf("Cents(%s) = %d, want %d", tt.amount, got, tt.cents)
		}
		if back := FromCents(tt.cents); !back.Equal(d) {
			t.Errorf("FromCents(%d) = %s, want %s", tt.cents, back, d)
		}
	}
}

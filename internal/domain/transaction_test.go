package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestProRate(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		total  int
		want   string
	}{
		{"single installment", "45.50", 1, "45.5"},
		{"even split", "300", 3, "100"},
		{"ten installments", "3000", 10, "300"},
		{"rounded to cents", "100", 3, "33.33"},
		{"zero treated as one", "59.90", 0, "59.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			got := ProRate(amount, tt.total)
			if got.String() != tt.want {
				t.Errorf("ProRate(%s, %d) = %s, want %s", tt.amount, tt.total, got, tt.want)
			}
		})
	}
}

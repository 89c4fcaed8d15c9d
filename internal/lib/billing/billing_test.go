package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMonthlyEquivalent(t *testing.T) {
	tests := []struct {
		name    string
		cost    string
		cycle   string
		want    string
		wantErr bool
	}{
		{
			name:  "annual 120 becomes 10.00 per month",
			cost:  "120",
			cycle: "annual",
			want:  "10.00",
		},
		{
			name:  "monthly stays as is",
			cost:  "15.99",
			cycle: "monthly",
			want:  "15.99",
		},
		{
			name:  "quarterly 30 becomes 10.00",
			cost:  "30",
			cycle: "quarterly",
			want:  "10.00",
		},
		{
			name:  "weekly 12 becomes 52.00 per month",
			cost:  "12",
			cycle: "weekly",
			want:  "52.00",
		},
		{
			name:    "unknown cycle",
			cost:    "10",
			cycle:   "daily",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost := decimal.RequireFromString(tt.cost)
			got, err := MonthlyEquivalent(cost, tt.cycle)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := decimal.RequireFromString(tt.want)
			if !got.Round(2).Equal(want) {
				t.Errorf("MonthlyEquivalent(%s, %s) = %s, want %s", tt.cost, tt.cycle, got.Round(2), want)
			}
		})
	}
}

func TestAnnualEquivalent(t *testing.T) {
	tests := []struct {
		name  string
		cost  string
		cycle string
		want  string
	}{
		{name: "weekly", cost: "10", cycle: "weekly", want: "520"},
		{name: "monthly", cost: "10", cycle: "monthly", want: "120"},
		{name: "quarterly", cost: "10", cycle: "quarterly", want: "40"},
		{name: "annual", cost: "10", cycle: "annual", want: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AnnualEquivalent(decimal.RequireFromString(tt.cost), tt.cycle)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("AnnualEquivalent = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAnnualMatchesTwelveMonths(t *testing.T) {
	// Годовой эквивалент месячного цикла всегда равен 12 месячным
	for _, cost := range []string{"0.01", "9.99", "120", "1234.56"} {
		c := decimal.RequireFromString(cost)
		monthly, err := MonthlyEquivalent(c, "monthly")
		if err != nil {
			t.Fatal(err)
		}
		annual, err := AnnualEquivalent(c, "monthly")
		if err != nil {
			t.Fatal(err)
		}
		if !annual.Equal(monthly.Mul(decimal.NewFromInt(12))) {
			t.Errorf("cost %s: annual %s != monthly*12 %s", cost, annual, monthly.Mul(decimal.NewFromInt(12)))
		}
	}
}

func TestNextRenewal(t *testing.T) {
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		cycle string
		want  time.Time
	}{
		{cycle: "weekly", want: time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC)},
		{cycle: "monthly", want: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)}, // нормализация 31 февраля
		{cycle: "quarterly", want: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{cycle: "annual", want: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.cycle, func(t *testing.T) {
			got, err := NextRenewal(start, tt.cycle)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextRenewal(%s) = %s, want %s", tt.cycle, got, tt.want)
			}
		})
	}
}

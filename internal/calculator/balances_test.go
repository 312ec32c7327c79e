package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func netOf(t *testing.T, positions []Position, member string) decimal.Decimal {
	t.Helper()
	for _, p := range positions {
		if p.Member == member {
			return p.Net
		}
	}
	t.Fatalf("no position for %s", member)
	return decimal.Zero
}

func TestNetBalances(t *testing.T) {
	tests := []struct {
		name          string
		total         string
		contributions map[string]decimal.Decimal
		participants  []string
		wantErr       error
		want          map[string]string
	}{
		{
			name:          "single payer split three ways",
			total:         "90.00",
			contributions: PayerContributions("A", amt("90.00")),
			participants:  []string{"A", "B", "C"},
			want:          map[string]string{"A": "60.00", "B": "-30.00", "C": "-30.00"},
		},
		{
			name:          "individual expense split with one friend",
			total:         "100.00",
			contributions: PayerContributions("P", amt("100.00")),
			participants:  []string{"P", "F"},
			want:          map[string]string{"P": "50.00", "F": "-50.00"},
		},
		{
			name:  "multiple contributors",
			total: "60.00",
			contributions: map[string]decimal.Decimal{
				"A": amt("40.00"),
				"B": amt("20.00"),
			},
			participants: []string{"A", "B", "C"},
			want:         map[string]string{"A": "20.00", "B": "0.00", "C": "-20.00"},
		},
		{
			name:  "two cent shortfall is tolerated",
			total: "60.00",
			contributions: map[string]decimal.Decimal{
				"A": amt("39.98"),
				"B": amt("20.00"),
			},
			participants: []string{"A", "B", "C"},
			want:         map[string]string{"A": "19.98", "B": "0.00", "C": "-20.00"},
		},
		{
			name:  "five unit mismatch is rejected",
			total: "60.00",
			contributions: map[string]decimal.Decimal{
				"A": amt("35.00"),
				"B": amt("20.00"),
			},
			participants: []string{"A", "B", "C"},
			wantErr:      models.ErrValidation,
		},
		{
			name:          "uneven division rounds each share",
			total:         "100.00",
			contributions: PayerContributions("A", amt("100.00")),
			participants:  []string{"A", "B", "C"},
			want:          map[string]string{"A": "66.67", "B": "-33.33", "C": "-33.33"},
		},
		{
			name:          "no participants",
			total:         "10.00",
			contributions: nil,
			participants:  nil,
			wantErr:       models.ErrEmptyGroup,
		},
		{
			name:          "zero amount",
			total:         "0",
			contributions: nil,
			participants:  []string{"A"},
			wantErr:       models.ErrValidation,
		},
		{
			name:          "contribution from outsider",
			total:         "10.00",
			contributions: PayerContributions("Z", amt("10.00")),
			participants:  []string{"A", "B"},
			wantErr:       models.ErrValidation,
		},
		{
			name:          "negative contribution",
			total:         "10.00",
			contributions: map[string]decimal.Decimal{"A": amt("20.00"), "B": amt("-10.00")},
			participants:  []string{"A", "B"},
			wantErr:       models.ErrValidation,
		},
		{
			name:          "duplicate participant",
			total:         "10.00",
			contributions: PayerContributions("A", amt("10.00")),
			participants:  []string{"A", "B", "A"},
			wantErr:       models.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positions, err := NetBalances(amt(tt.total), tt.contributions, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NetBalances() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NetBalances() unexpected error: %v", err)
			}
			if len(positions) != len(tt.participants) {
				t.Fatalf("got %d positions, want %d", len(positions), len(tt.participants))
			}
			for i, p := range positions {
				if p.Member != tt.participants[i] {
					t.Errorf("position %d member = %s, want %s", i, p.Member, tt.participants[i])
				}
			}
			for member, want := range tt.want {
				if got := money.Format(netOf(t, positions, member)); got != want {
					t.Errorf("%s net = %s, want %s", member, got, want)
				}
			}
			drift := Total(positions).Abs()
			if drift.GreaterThan(money.Tolerance(len(tt.participants))) {
				t.Errorf("nets drift by %s", drift)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	shares := []*models.Share{
		{MemberID: "B", Amount: amt("-30.00")},
		{MemberID: "A", Amount: amt("60.00")},
		{MemberID: "C", Amount: amt("-30.00")},
		{MemberID: "A", Amount: amt("-10.00")},
		{MemberID: "C", Amount: amt("20.00")},
		{MemberID: "B", Amount: amt("-10.00")},
		{MemberID: "X", Amount: amt("0.00")},
	}

	positions := Aggregate([]string{"A", "B", "C", "D"}, shares)

	wantOrder := []string{"A", "B", "C", "D", "X"}
	if len(positions) != len(wantOrder) {
		t.Fatalf("got %d positions, want %d", len(positions), len(wantOrder))
	}
	for i, m := range wantOrder {
		if positions[i].Member != m {
			t.Errorf("position %d = %s, want %s", i, positions[i].Member, m)
		}
	}

	want := map[string]string{"A": "50.00", "B": "-40.00", "C": "-10.00", "D": "0.00"}
	for member, w := range want {
		if got := money.Format(netOf(t, positions, member)); got != w {
			t.Errorf("%s aggregate = %s, want %s", member, got, w)
		}
	}
}

func TestLargestContributor(t *testing.T) {
	tests := []struct {
		name          string
		roster        []string
		contributions map[string]decimal.Decimal
		want          string
		wantErr       bool
	}{
		{
			name:          "single contributor",
			roster:        []string{"A", "B"},
			contributions: map[string]decimal.Decimal{"B": amt("10")},
			want:          "B",
		},
		{
			name:          "largest wins",
			roster:        []string{"A", "B", "C"},
			contributions: map[string]decimal.Decimal{"A": amt("10"), "B": amt("30"), "C": amt("20")},
			want:          "B",
		},
		{
			name:          "tie goes to roster order",
			roster:        []string{"C", "A", "B"},
			contributions: map[string]decimal.Decimal{"A": amt("30"), "B": amt("30")},
			want:          "A",
		},
		{
			name:          "nobody paid",
			roster:        []string{"A", "B"},
			contributions: map[string]decimal.Decimal{},
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LargestContributor(tt.roster, tt.contributions)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LargestContributor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("LargestContributor() = %q, want %q", got, tt.want)
			}
		})
	}
}

package calculator

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/money"
)

func TestSimplify(t *testing.T) {
	tests := []struct {
		name      string
		positions []Position
		want      []Transfer
	}{
		{
			name: "one payer two debtors",
			positions: []Position{
				{Member: "A", Net: amt("60.00")},
				{Member: "B", Net: amt("-30.00")},
				{Member: "C", Net: amt("-30.00")},
			},
			want: []Transfer{
				{From: "B", To: "A", Amount: amt("30.00")},
				{From: "C", To: "A", Amount: amt("30.00")},
			},
		},
		{
			name: "settled member omitted",
			positions: []Position{
				{Member: "A", Net: amt("20.00")},
				{Member: "B", Net: amt("0.00")},
				{Member: "C", Net: amt("-20.00")},
			},
			want: []Transfer{
				{From: "C", To: "A", Amount: amt("20.00")},
			},
		},
		{
			name: "largest debt goes to largest credit first",
			positions: []Position{
				{Member: "A", Net: amt("10.00")},
				{Member: "B", Net: amt("-25.00")},
				{Member: "C", Net: amt("40.00")},
				{Member: "D", Net: amt("-25.00")},
			},
			want: []Transfer{
				{From: "B", To: "C", Amount: amt("25.00")},
				{From: "D", To: "C", Amount: amt("15.00")},
				{From: "D", To: "A", Amount: amt("10.00")},
			},
		},
		{
			name: "rounding residue below a cent is dropped",
			positions: []Position{
				{Member: "A", Net: amt("66.67")},
				{Member: "B", Net: amt("-33.33")},
				{Member: "C", Net: amt("-33.33")},
			},
			want: []Transfer{
				{From: "B", To: "A", Amount: amt("33.33")},
				{From: "C", To: "A", Amount: amt("33.33")},
			},
		},
		{
			name:      "nothing owed",
			positions: []Position{{Member: "A", Net: decimal.Zero}, {Member: "B", Net: decimal.Zero}},
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(tt.positions)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d transfers %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i].From != tt.want[i].From || got[i].To != tt.want[i].To || !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("transfer %d = %s->%s %s, want %s->%s %s", i,
						got[i].From, got[i].To, got[i].Amount,
						tt.want[i].From, tt.want[i].To, tt.want[i].Amount)
				}
			}
		})
	}
}

// randomPositions builds n positions in whole cents that sum to exactly zero.
func randomPositions(r *rand.Rand, n int) []Position {
	positions := make([]Position, n)
	sum := int64(0)
	for i := 0; i < n-1; i++ {
		cents := r.Int63n(200000) - 100000
		positions[i] = Position{Member: string(rune('A' + i)), Net: decimal.New(cents, -2)}
		sum += cents
	}
	positions[n-1] = Position{Member: string(rune('A' + n - 1)), Net: decimal.New(-sum, -2)}
	return positions
}

func TestSimplifyConservesBalances(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		n := 2 + r.Intn(10)
		positions := randomPositions(r, n)
		transfers := Simplify(positions)

		if len(transfers) > n-1 {
			t.Fatalf("round %d: %d transfers for %d members", round, len(transfers), n)
		}

		reproduced := make(map[string]decimal.Decimal)
		for _, tr := range transfers {
			if tr.Amount.LessThan(money.Cent) {
				t.Fatalf("round %d: transfer below a cent: %v", round, tr)
			}
			if tr.From == tr.To {
				t.Fatalf("round %d: self transfer: %v", round, tr)
			}
			reproduced[tr.From] = reproduced[tr.From].Sub(tr.Amount)
			reproduced[tr.To] = reproduced[tr.To].Add(tr.Amount)
		}

		for _, p := range positions {
			if reproduced[p.Member].Sub(p.Net).Abs().GreaterThan(money.Cent) {
				t.Errorf("round %d: %s reproduced %s, want %s", round, p.Member, reproduced[p.Member], p.Net)
			}
		}
	}
}

func TestSimplifyIsDeterministic(t *testing.T) {
	positions := []Position{
		{Member: "A", Net: amt("-10.00")},
		{Member: "B", Net: amt("-10.00")},
		{Member: "C", Net: amt("10.00")},
		{Member: "D", Net: amt("10.00")},
	}

	first := Simplify(positions)
	for i := 0; i < 20; i++ {
		again := Simplify(positions)
		for j := range first {
			if first[j].From != again[j].From || first[j].To != again[j].To || !first[j].Amount.Equal(again[j].Amount) {
				t.Fatalf("run %d differs at %d: %v vs %v", i, j, first[j], again[j])
			}
		}
	}

	if first[0].From != "A" || first[0].To != "C" || first[1].From != "B" || first[1].To != "D" {
		t.Errorf("ties should follow input order, got %v", first)
	}
}

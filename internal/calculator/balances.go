package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// Position is one member's signed net balance.
type Position struct {
	Member string
	Net    decimal.Decimal // Positive = owed money, Negative = owes money
}

// PayerContributions is the default contribution map: the payer covered the
// whole amount and everyone else contributed nothing.
func PayerContributions(payer string, total decimal.Decimal) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{payer: total}
}

// NetBalances computes each participant's net position for a single expense.
//
// Algorithm:
// - fair share = total / participants, rounded to two places
// - net = contributed - fair share, rounded to two places
//
// The result follows participant order. Contributions may diverge from total by
// at most participants × 0.01, and the nets must sum to zero within the same
// bound; anything larger is rejected with models.ErrValidation.
func NetBalances(total decimal.Decimal, contributions map[string]decimal.Decimal, participants []string) ([]Position, error) {
	if len(participants) == 0 {
		return nil, models.ErrEmptyGroup
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", models.ErrValidation, money.Format(total))
	}

	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p == "" {
			return nil, fmt.Errorf("%w: empty participant", models.ErrValidation)
		}
		if seen[p] {
			return nil, fmt.Errorf("%w: duplicate participant %q", models.ErrValidation, p)
		}
		seen[p] = true
	}

	contributed := decimal.Zero
	for member, amount := range contributions {
		if !seen[member] {
			return nil, fmt.Errorf("%w: %q contributed but is not a participant", models.ErrValidation, member)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: negative contribution from %q", models.ErrValidation, member)
		}
		contributed = contributed.Add(amount)
	}

	tolerance := money.Tolerance(len(participants))
	if contributed.Sub(total).Abs().GreaterThan(tolerance) {
		return nil, fmt.Errorf("%w: contributions total %s does not match amount %s",
			models.ErrValidation, money.Format(contributed), money.Format(total))
	}

	fairShare, err := money.Share(total, len(participants))
	if err != nil {
		return nil, err
	}

	positions := make([]Position, len(participants))
	for i, p := range participants {
		positions[i] = Position{Member: p, Net: money.Round(contributions[p].Sub(fairShare))}
	}

	if sum := Total(positions); sum.Abs().GreaterThan(tolerance) {
		return nil, fmt.Errorf("%w: shares are off balance by %s", models.ErrValidation, money.Format(sum))
	}

	return positions, nil
}

// Aggregate sums net positions per member across many shares. Roster members
// come first in roster order (with a zero net if they have no shares); members
// that only appear in shares follow in encounter order.
func Aggregate(roster []string, shares []*models.Share) []Position {
	index := make(map[string]int, len(roster))
	positions := make([]Position, 0, len(roster))
	for _, m := range roster {
		if _, ok := index[m]; ok {
			continue
		}
		index[m] = len(positions)
		positions = append(positions, Position{Member: m, Net: decimal.Zero})
	}

	for _, s := range shares {
		i, ok := index[s.MemberID]
		if !ok {
			i = len(positions)
			index[s.MemberID] = i
			positions = append(positions, Position{Member: s.MemberID, Net: decimal.Zero})
		}
		positions[i].Net = positions[i].Net.Add(s.Amount)
	}

	for i := range positions {
		positions[i].Net = money.Round(positions[i].Net)
	}
	return positions
}

// Total sums the nets of the given positions.
func Total(positions []Position) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range positions {
		sum = sum.Add(p.Net)
	}
	return sum
}

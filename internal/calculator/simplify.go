package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/money"
)

// Transfer represents a debt from one member to another.
type Transfer struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount decimal.Decimal
}

type party struct {
	member string
	amount decimal.Decimal
}

// Simplify reduces net positions to a short list of settling transfers.
//
// Algorithm (greedy, not guaranteed optimal):
// - owers (net < 0, as magnitudes) and getters (net > 0) are each sorted
//   descending by magnitude; ties keep input order
// - the largest ower pays the largest getter min(owe, get)
// - transfers below one cent are not recorded
// - a party whose remainder is at most one cent is done
// - stop when either side runs out
//
// For N members whose nets sum to zero this yields at most N-1 transfers.
func Simplify(positions []Position) []Transfer {
	var owes, gets []party
	for _, p := range positions {
		net := money.Round(p.Net)
		switch {
		case net.IsNegative():
			owes = append(owes, party{member: p.Member, amount: net.Neg()})
		case net.IsPositive():
			gets = append(gets, party{member: p.Member, amount: net})
		}
	}

	byMagnitude := func(parties []party) func(i, j int) bool {
		return func(i, j int) bool {
			return parties[i].amount.GreaterThan(parties[j].amount)
		}
	}
	sort.SliceStable(owes, byMagnitude(owes))
	sort.SliceStable(gets, byMagnitude(gets))

	var transfers []Transfer
	i, j := 0, 0
	for i < len(owes) && j < len(gets) {
		amount := decimal.Min(owes[i].amount, gets[j].amount)

		if amount.GreaterThanOrEqual(money.Cent) {
			transfers = append(transfers, Transfer{
				From:   owes[i].member,
				To:     gets[j].member,
				Amount: amount,
			})
		}

		owes[i].amount = money.Round(owes[i].amount.Sub(amount))
		gets[j].amount = money.Round(gets[j].amount.Sub(amount))

		if owes[i].amount.LessThanOrEqual(money.Cent) {
			i++
		}
		if gets[j].amount.LessThanOrEqual(money.Cent) {
			j++
		}
	}

	return transfers
}

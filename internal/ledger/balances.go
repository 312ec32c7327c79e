package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/money"
)

// BalanceItem is one open obligation between the member and a counter-party.
type BalanceItem struct {
	ShareID      string
	ExpenseID    string
	GroupID      string
	Description  string
	Counterparty string
	Amount       decimal.Decimal // always positive
}

// Balances summarizes a member's unsettled shares.
type Balances struct {
	Member        string
	IOwe          []BalanceItem
	OwedToMe      []BalanceItem
	IOweTotal     decimal.Decimal
	OwedToMeTotal decimal.Decimal
	Net           decimal.Decimal // OwedToMeTotal - IOweTotal
}

// GetBalancesForMember lists what member owes and is owed across every
// unsettled share the member owns or whose expense the member paid.
func (l *Ledger) GetBalancesForMember(ctx context.Context, member string) (*Balances, error) {
	open, err := l.store.ListOpenSharesByMember(ctx, member)
	if err != nil {
		return nil, err
	}

	b := &Balances{Member: member, IOwe: []BalanceItem{}, OwedToMe: []BalanceItem{}}
	for _, se := range open {
		share, expense := se.Share, se.Expense
		if share.MemberID == expense.PayerID || money.IsZero(share.Amount) {
			continue
		}

		item := BalanceItem{
			ShareID:     share.ID,
			ExpenseID:   expense.ID,
			GroupID:     expense.GroupID,
			Description: expense.Description,
			Amount:      money.Round(share.Amount.Abs()),
		}

		owner := share.MemberID == member
		owes := share.Amount.IsNegative()
		if owner {
			item.Counterparty = expense.PayerID
		} else {
			item.Counterparty = share.MemberID
			owes = !owes
		}

		if owes {
			b.IOwe = append(b.IOwe, item)
			b.IOweTotal = b.IOweTotal.Add(item.Amount)
		} else {
			b.OwedToMe = append(b.OwedToMe, item)
			b.OwedToMeTotal = b.OwedToMeTotal.Add(item.Amount)
		}
	}

	b.IOweTotal = money.Round(b.IOweTotal)
	b.OwedToMeTotal = money.Round(b.OwedToMeTotal)
	b.Net = money.Round(b.OwedToMeTotal.Sub(b.IOweTotal))
	return b, nil
}

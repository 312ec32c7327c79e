package models

import "github.com/shopspring/decimal"

// Split is a simplified transfer owed inside a group. A group's splits are
// regenerated wholesale every time its balances are recalculated.
type Split struct {
	ID      string
	GroupID string

	// FromMember owes Amount to ToMember.
	FromMember string
	ToMember   string

	// Amount is positive, two decimal places.
	Amount decimal.Decimal

	Settled   bool
	CreatedAt int64
}

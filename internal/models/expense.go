package models

import "github.com/shopspring/decimal"

// Expense is an amount paid by one member and shared among participants.
// It is immutable once created; deleting it removes its shares.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// PayerID is the member who paid. In group mode this is the main payer
	// chosen by the payer policy.
	PayerID string

	// Amount is the positive total, two decimal places.
	Amount decimal.Decimal

	Description string

	// GroupID is empty for individual expenses.
	GroupID string

	// Participants is everyone the amount was split among, payer included.
	Participants []string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// IsGroup reports whether the expense was recorded against a group.
func (e *Expense) IsGroup() bool {
	return e.GroupID != ""
}

// Share is one member's signed net position within an expense.
type Share struct {
	ID        string
	ExpenseID string
	MemberID  string

	// Amount is positive when the member is owed, negative when the member owes.
	Amount decimal.Decimal

	// Settled only ever moves from false to true.
	Settled bool
}

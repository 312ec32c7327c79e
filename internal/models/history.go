package models

import "github.com/shopspring/decimal"

// HistoryKind classifies a transaction history entry.
type HistoryKind string

const (
	HistoryExpense    HistoryKind = "expense"
	HistorySettlement HistoryKind = "settlement"
)

// Valid reports whether k is a known kind.
func (k HistoryKind) Valid() bool {
	return k == HistoryExpense || k == HistorySettlement
}

// HistoryEntry is one line of a member's transaction history.
// Entries are append-only, except that settlement entries are updated in place
// when a (member, description) pair already exists.
type HistoryEntry struct {
	ID       string
	MemberID string
	Kind     HistoryKind

	// Amount is signed from MemberID's point of view.
	Amount decimal.Decimal

	// GroupID is empty when the entry is not tied to a group.
	GroupID string

	// RelatedMember is the counter-party, if any.
	RelatedMember string

	Description string
	CreatedAt   int64

	// SettledAt is zero until a settlement touches the entry.
	SettledAt int64
}

// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Store defines the persistence operations the ledger needs.
// This abstraction allows swapping storage backends without changing the
// ledger. Lookups of missing records return an error wrapping models.ErrNotFound.
//
// Every method that writes more than one row applies all of it in a single
// transaction or nothing at all.
type Store interface {
	// CreateGroup persists a new group and its roster.
	// The group.ID and group.CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its roster in insertion order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByMember returns every group whose roster contains member.
	ListGroupsByMember(ctx context.Context, member string) ([]*models.Group, error)

	// DeleteGroup removes a group together with its expenses and splits.
	DeleteGroup(ctx context.Context, groupID string) error

	// CreateFriendship stores the canonical pair. Storing an existing pair
	// (in either direction) is a no-op.
	CreateFriendship(ctx context.Context, friendship *models.Friendship) error

	// ListFriends returns member's friends, looking at both sides of the pair.
	ListFriends(ctx context.Context, member string) ([]string, error)

	// RecordExpense writes the expense, its participants, its shares and the
	// history entries in one transaction. IDs and timestamps are populated.
	RecordExpense(ctx context.Context, expense *models.Expense, shares []*models.Share, history []*models.HistoryEntry) error

	// GetExpense retrieves an expense with its participants.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup returns a group's expenses, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// DeleteExpense removes an expense; its shares go with it.
	DeleteExpense(ctx context.Context, expenseID string) error

	// GetShare retrieves a share by ID.
	GetShare(ctx context.Context, shareID string) (*models.Share, error)

	// ListSharesByExpense returns an expense's shares in participant order.
	ListSharesByExpense(ctx context.Context, expenseID string) ([]*models.Share, error)

	// ListSharesByGroup returns the shares of every expense in a group.
	ListSharesByGroup(ctx context.Context, groupID string) ([]*models.Share, error)

	// ListOpenSharesByMember returns unsettled shares that member owns or whose
	// expense member paid, each with its expense.
	ListOpenSharesByMember(ctx context.Context, member string) ([]ShareWithExpense, error)

	// SettleShare applies a settlement in one transaction.
	SettleShare(ctx context.Context, settlement *ShareSettlement) error

	// ReplaceGroupSplits deletes the group's splits and inserts the given ones
	// in one transaction.
	ReplaceGroupSplits(ctx context.Context, groupID string, splits []*models.Split) error

	// ListSplitsByGroup returns a group's splits in the order they were generated.
	ListSplitsByGroup(ctx context.Context, groupID string) ([]*models.Split, error)

	// DeleteSplitsByGroup removes every split of a group.
	DeleteSplitsByGroup(ctx context.Context, groupID string) error

	// ListHistoryByMember returns member's history, newest first.
	ListHistoryByMember(ctx context.Context, member string) ([]*models.HistoryEntry, error)

	// Close releases any resources held by the store.
	Close() error
}

// ShareWithExpense pairs a share with the expense it belongs to.
type ShareWithExpense struct {
	Share   *models.Share
	Expense *models.Expense
}

// ShareSettlement describes everything written when a share is settled.
type ShareSettlement struct {
	ShareID string

	// GroupID is empty for individual expenses. When set, the group's splits
	// from Debtor to Creditor whose amount matches Amount within one cent are
	// marked settled as well.
	GroupID  string
	Debtor   string
	Creditor string
	Amount   decimal.Decimal

	// History entries are upserted by (MemberID, Description).
	History []*models.HistoryEntry
}

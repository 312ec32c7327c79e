// Package models defines the ledger's domain records.
//
// # Records
//
//   - Group: a named roster of members
//   - Friendship: an unordered pair of members, stored canonicalized
//   - Expense: an amount paid by one member, optionally inside a group
//   - Share: one member's signed net position within one expense
//   - Split: a simplified transfer owed inside a group
//   - HistoryEntry: an append-only line of a member's transaction history
//
// Members are opaque string identifiers supplied by the caller. Relationships use
// ID strings rather than pointers. Amounts are two-place decimals; a positive
// Share means the member is owed money, a negative one means the member owes.
//
// The invariant the rest of the module protects: for every Expense the Share
// amounts sum to zero within participants × 0.01.
package models

package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", Members: []string{"carol", "alice", "bob"}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("CreateGroup generates ID and keeps roster order", func(t *testing.T) {
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		want := []string{"carol", "alice", "bob"}
		if len(got.Members) != len(want) {
			t.Fatalf("Expected %d members, got %v", len(want), got.Members)
		}
		for i := range want {
			if got.Members[i] != want[i] {
				t.Errorf("Member %d: expected %s, got %s", i, want[i], got.Members[i])
			}
		}
	})

	t.Run("GetGroup returns not found", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "missing")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListGroupsByMember", func(t *testing.T) {
		other := &models.Group{Name: "Flat", Members: []string{"alice", "dave"}}
		if err := store.CreateGroup(ctx, other); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		groups, err := store.ListGroupsByMember(ctx, "alice")
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(groups) != 2 {
			t.Fatalf("Expected 2 groups, got %d", len(groups))
		}
		if groups[0].ID != other.ID {
			t.Errorf("Expected newest group first, got %s", groups[0].Name)
		}

		groups, err = store.ListGroupsByMember(ctx, "dave")
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(groups) != 1 || len(groups[0].Members) != 2 {
			t.Errorf("Expected dave's single group with its roster, got %+v", groups)
		}
	})

	t.Run("RecordExpense persists expense and shares", func(t *testing.T) {
		expense := &models.Expense{
			PayerID:      "alice",
			Amount:       amt("90.00"),
			Description:  "Dinner",
			GroupID:      group.ID,
			Participants: []string{"carol", "alice", "bob"},
		}
		shares := []*models.Share{
			{MemberID: "carol", Amount: amt("-30.00")},
			{MemberID: "alice", Amount: amt("60.00")},
			{MemberID: "bob", Amount: amt("-30.00")},
		}
		history := []*models.HistoryEntry{
			{MemberID: "alice", Kind: models.HistoryExpense, Amount: amt("60.00"), GroupID: group.ID, Description: "Dinner"},
		}

		if err := store.RecordExpense(ctx, expense, shares, history); err != nil {
			t.Fatalf("RecordExpense failed: %v", err)
		}
		if expense.ID == "" || shares[0].ID == "" || history[0].ID == "" {
			t.Fatal("Expected IDs to be generated")
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Amount.Equal(amt("90")) || got.GroupID != group.ID || len(got.Participants) != 3 {
			t.Errorf("Unexpected expense: %+v", got)
		}

		stored, err := store.ListSharesByExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("ListSharesByExpense failed: %v", err)
		}
		if len(stored) != 3 {
			t.Fatalf("Expected 3 shares, got %d", len(stored))
		}
		sum := decimal.Zero
		for i, s := range stored {
			if s.MemberID != shares[i].MemberID {
				t.Errorf("Share %d: expected %s, got %s", i, shares[i].MemberID, s.MemberID)
			}
			sum = sum.Add(s.Amount)
		}
		if !sum.IsZero() {
			t.Errorf("Expected shares to sum to zero, got %s", sum)
		}

		byGroup, err := store.ListSharesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSharesByGroup failed: %v", err)
		}
		if len(byGroup) != 3 {
			t.Errorf("Expected 3 group shares, got %d", len(byGroup))
		}
	})

	t.Run("RecordExpense is atomic", func(t *testing.T) {
		expense := &models.Expense{
			PayerID:      "alice",
			Amount:       amt("10.00"),
			Description:  "Broken",
			Participants: []string{"alice", "bob"},
		}
		// Two shares for the same member violate the unique constraint.
		shares := []*models.Share{
			{MemberID: "bob", Amount: amt("-5.00")},
			{MemberID: "bob", Amount: amt("5.00")},
		}
		history := []*models.HistoryEntry{
			{MemberID: "bob", Kind: models.HistoryExpense, Amount: amt("-5.00"), Description: "Broken"},
		}

		if err := store.RecordExpense(ctx, expense, shares, history); err == nil {
			t.Fatal("Expected RecordExpense to fail")
		}

		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected expense to be rolled back, got %v", err)
		}
		entries, err := store.ListHistoryByMember(ctx, "bob")
		if err != nil {
			t.Fatalf("ListHistoryByMember failed: %v", err)
		}
		for _, e := range entries {
			if e.Description == "Broken" {
				t.Error("Expected history to be rolled back")
			}
		}
	})

	t.Run("DeleteExpense removes shares", func(t *testing.T) {
		expense := &models.Expense{PayerID: "bob", Amount: amt("20.00"), Description: "Taxi", Participants: []string{"bob", "alice"}}
		shares := []*models.Share{
			{MemberID: "bob", Amount: amt("10.00")},
			{MemberID: "alice", Amount: amt("-10.00")},
		}
		if err := store.RecordExpense(ctx, expense, shares, nil); err != nil {
			t.Fatalf("RecordExpense failed: %v", err)
		}

		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetShare(ctx, shares[0].ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected share to be deleted, got %v", err)
		}
		if err := store.DeleteExpense(ctx, expense.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestSettleShare(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Flat", Members: []string{"a", "b", "c"}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	expense := &models.Expense{PayerID: "a", Amount: amt("90.00"), Description: "Groceries", GroupID: group.ID, Participants: group.Members}
	shares := []*models.Share{
		{MemberID: "a", Amount: amt("60.00")},
		{MemberID: "b", Amount: amt("-30.00")},
		{MemberID: "c", Amount: amt("-30.00")},
	}
	if err := store.RecordExpense(ctx, expense, shares, nil); err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}

	splits := []*models.Split{
		{FromMember: "b", ToMember: "a", Amount: amt("30.00")},
		{FromMember: "c", ToMember: "a", Amount: amt("30.00")},
	}
	if err := store.ReplaceGroupSplits(ctx, group.ID, splits); err != nil {
		t.Fatalf("ReplaceGroupSplits failed: %v", err)
	}

	open, err := store.ListOpenSharesByMember(ctx, "b")
	if err != nil {
		t.Fatalf("ListOpenSharesByMember failed: %v", err)
	}
	if len(open) != 1 || open[0].Share.ID != shares[1].ID || open[0].Expense.PayerID != "a" {
		t.Fatalf("Expected b's open share with its expense, got %+v", open)
	}

	settle := func(settledAt int64) {
		t.Helper()
		err := store.SettleShare(ctx, &storage.ShareSettlement{
			ShareID:  shares[1].ID,
			GroupID:  group.ID,
			Debtor:   "b",
			Creditor: "a",
			Amount:   amt("30.00"),
			History: []*models.HistoryEntry{
				{MemberID: "b", Kind: models.HistorySettlement, Amount: amt("-30.00"), GroupID: group.ID, RelatedMember: "a", Description: "Settled: Groceries", SettledAt: settledAt},
				{MemberID: "a", Kind: models.HistorySettlement, Amount: amt("30.00"), GroupID: group.ID, RelatedMember: "b", Description: "Received settlement for Groceries", SettledAt: settledAt},
			},
		})
		if err != nil {
			t.Fatalf("SettleShare failed: %v", err)
		}
	}

	settle(1000)
	settle(2000)

	share, err := store.GetShare(ctx, shares[1].ID)
	if err != nil {
		t.Fatalf("GetShare failed: %v", err)
	}
	if !share.Settled {
		t.Error("Expected share to be settled")
	}

	got, err := store.ListSplitsByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListSplitsByGroup failed: %v", err)
	}
	if !got[0].Settled {
		t.Error("Expected b->a split to be settled")
	}
	if got[1].Settled {
		t.Error("Expected c->a split to stay open")
	}

	for _, member := range []string{"a", "b"} {
		entries, err := store.ListHistoryByMember(ctx, member)
		if err != nil {
			t.Fatalf("ListHistoryByMember failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("Expected a single upserted entry for %s, got %d", member, len(entries))
		}
		if entries[0].SettledAt != 2000 {
			t.Errorf("Expected settled_at to be refreshed for %s, got %d", member, entries[0].SettledAt)
		}
		if entries[0].Kind != models.HistorySettlement {
			t.Errorf("Expected settlement kind, got %s", entries[0].Kind)
		}
	}

	err = store.SettleShare(ctx, &storage.ShareSettlement{ShareID: "missing"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing share, got %v", err)
	}
}

func TestReplaceGroupSplits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "G", Members: []string{"a", "b"}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	first := []*models.Split{{FromMember: "b", ToMember: "a", Amount: amt("5.00")}}
	if err := store.ReplaceGroupSplits(ctx, group.ID, first); err != nil {
		t.Fatalf("ReplaceGroupSplits failed: %v", err)
	}
	second := []*models.Split{
		{FromMember: "a", ToMember: "b", Amount: amt("1.00")},
		{FromMember: "a", ToMember: "b", Amount: amt("2.00")},
	}
	if err := store.ReplaceGroupSplits(ctx, group.ID, second); err != nil {
		t.Fatalf("ReplaceGroupSplits failed: %v", err)
	}

	got, err := store.ListSplitsByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListSplitsByGroup failed: %v", err)
	}
	if len(got) != 2 || !got[0].Amount.Equal(amt("1")) || !got[1].Amount.Equal(amt("2")) {
		t.Errorf("Expected the second list in order, got %+v", got)
	}

	if err := store.DeleteSplitsByGroup(ctx, group.ID); err != nil {
		t.Fatalf("DeleteSplitsByGroup failed: %v", err)
	}
	got, err = store.ListSplitsByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListSplitsByGroup failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no splits, got %d", len(got))
	}
}

func TestHistoryOrderAndGroupDeletion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "G", Members: []string{"a", "b"}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	for i, desc := range []string{"first", "second", "third"} {
		expense := &models.Expense{
			PayerID: "a", Amount: amt("2.00"), Description: desc, GroupID: group.ID,
			Participants: []string{"a", "b"}, CreatedAt: 100,
		}
		history := []*models.HistoryEntry{
			{MemberID: "a", Kind: models.HistoryExpense, Amount: amt("1.00"), GroupID: group.ID, Description: desc, CreatedAt: int64(100 + i/2)},
		}
		if err := store.RecordExpense(ctx, expense, nil, history); err != nil {
			t.Fatalf("RecordExpense failed: %v", err)
		}
	}

	entries, err := store.ListHistoryByMember(ctx, "a")
	if err != nil {
		t.Fatalf("ListHistoryByMember failed: %v", err)
	}
	want := []string{"third", "second", "first"}
	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(entries))
	}
	for i := range want {
		if entries[i].Description != want[i] {
			t.Errorf("Entry %d: expected %s, got %s", i, want[i], entries[i].Description)
		}
	}

	if err := store.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	expenses, err := store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListExpensesByGroup failed: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("Expected expenses to cascade, got %d", len(expenses))
	}

	entries, err = store.ListHistoryByMember(ctx, "a")
	if err != nil {
		t.Fatalf("ListHistoryByMember failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected history to survive group deletion, got %d", len(entries))
	}
	for _, e := range entries {
		if e.GroupID != "" {
			t.Errorf("Expected group reference to be cleared, got %s", e.GroupID)
		}
	}
}

func TestFriendships(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateFriendship(ctx, &models.Friendship{MemberA: "zoe", MemberB: "adam"}); err != nil {
		t.Fatalf("CreateFriendship failed: %v", err)
	}
	// The reverse pair is the same friendship.
	if err := store.CreateFriendship(ctx, &models.Friendship{MemberA: "adam", MemberB: "zoe"}); err != nil {
		t.Fatalf("CreateFriendship duplicate failed: %v", err)
	}
	if err := store.CreateFriendship(ctx, models.NewFriendship("adam", "mia")); err != nil {
		t.Fatalf("CreateFriendship failed: %v", err)
	}

	friends, err := store.ListFriends(ctx, "adam")
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	if len(friends) != 2 {
		t.Fatalf("Expected 2 friends, got %v", friends)
	}

	friends, err = store.ListFriends(ctx, "zoe")
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	if len(friends) != 1 || friends[0] != "adam" {
		t.Errorf("Expected zoe's friend to be adam, got %v", friends)
	}
}

func TestSettlementLeavesExpenseEntriesAlone(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// b's own expense happens to share a description with a later settlement.
	own := &models.Expense{PayerID: "b", Amount: amt("80.00"), Description: "Settled: Lunch", Participants: []string{"b", "c"}}
	ownShares := []*models.Share{
		{MemberID: "b", Amount: amt("40.00")},
		{MemberID: "c", Amount: amt("-40.00")},
	}
	ownHistory := []*models.HistoryEntry{
		{MemberID: "b", Kind: models.HistoryExpense, Amount: amt("80.00"), Description: "Settled: Lunch", CreatedAt: 1000},
	}
	if err := store.RecordExpense(ctx, own, ownShares, ownHistory); err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}

	lunch := &models.Expense{PayerID: "a", Amount: amt("20.00"), Description: "Lunch", Participants: []string{"a", "b"}}
	lunchShares := []*models.Share{
		{MemberID: "a", Amount: amt("10.00")},
		{MemberID: "b", Amount: amt("-10.00")},
	}
	if err := store.RecordExpense(ctx, lunch, lunchShares, nil); err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}

	err := store.SettleShare(ctx, &storage.ShareSettlement{
		ShareID:  lunchShares[1].ID,
		Debtor:   "b",
		Creditor: "a",
		Amount:   amt("10.00"),
		History: []*models.HistoryEntry{
			{MemberID: "b", Kind: models.HistorySettlement, Amount: amt("-10.00"), RelatedMember: "a", Description: "Settled: Lunch", CreatedAt: 2000, SettledAt: 2000},
		},
	})
	if err != nil {
		t.Fatalf("SettleShare failed: %v", err)
	}

	entries, err := store.ListHistoryByMember(ctx, "b")
	if err != nil {
		t.Fatalf("ListHistoryByMember failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(entries))
	}
	if entries[0].Kind != models.HistorySettlement || !entries[0].Amount.Equal(amt("-10.00")) {
		t.Errorf("Expected settlement of -10.00 first, got %s %s", entries[0].Kind, entries[0].Amount)
	}
	if entries[1].Kind != models.HistoryExpense || !entries[1].Amount.Equal(amt("80.00")) {
		t.Errorf("Expected expense of 80.00 to survive, got %s %s", entries[1].Kind, entries[1].Amount)
	}
}

package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// SplitStatus reports what a recalculation did.
type SplitStatus string

const (
	// StatusCalculated means the group's splits were replaced.
	StatusCalculated SplitStatus = "calculated"
	// StatusNothingToSplit means the group has no members or no spending; the
	// stored splits were left untouched.
	StatusNothingToSplit SplitStatus = "nothing_to_split"
)

// SplitResult is the outcome of RecalculateGroupSplits.
type SplitResult struct {
	GroupID string
	Status  SplitStatus
	Splits  []*models.Split
}

// RecalculateGroupSplits rebuilds a group's settling transfers from the net
// positions of all its expenses. The new list is computed in full before the
// old one is replaced in a single transaction. Concurrent calls for the same
// group share one computation, which runs detached from any single caller's
// cancellation; a caller that gives up returns its context error alone.
func (l *Ledger) RecalculateGroupSplits(ctx context.Context, groupID string) (*SplitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ch := l.recalcs.DoChan(groupID, func() (any, error) {
		return l.recalculate(context.WithoutCancel(ctx), groupID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.DebugContext(ctx, "Split recalculation shared", "group_id", groupID)
		}
		return res.Val.(*SplitResult), nil
	}
}

func (l *Ledger) recalculate(ctx context.Context, groupID string) (*SplitResult, error) {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := l.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	amounts := make([]decimal.Decimal, len(expenses))
	for i, e := range expenses {
		amounts[i] = e.Amount
	}
	spent := money.Sum(amounts...)

	if len(group.Members) == 0 || money.IsZero(spent) {
		metrics.SplitRecalculations.WithLabelValues(string(StatusNothingToSplit)).Inc()
		slog.InfoContext(ctx, "Nothing to split", "group_id", groupID, "members", len(group.Members))
		return &SplitResult{GroupID: groupID, Status: StatusNothingToSplit}, nil
	}

	shares, err := l.store.ListSharesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	positions := calculator.Aggregate(group.Members, shares)
	transfers := calculator.Simplify(positions)

	now := l.now().Unix()
	splits := make([]*models.Split, len(transfers))
	for i, t := range transfers {
		splits[i] = &models.Split{
			GroupID:    groupID,
			FromMember: t.From,
			ToMember:   t.To,
			Amount:     t.Amount,
			CreatedAt:  now,
		}
	}

	if err := l.store.ReplaceGroupSplits(ctx, groupID, splits); err != nil {
		return nil, fmt.Errorf("failed to replace group splits: %w", err)
	}

	metrics.SplitRecalculations.WithLabelValues(string(StatusCalculated)).Inc()
	metrics.SplitTransfers.Observe(float64(len(splits)))
	slog.InfoContext(ctx, "Group splits recalculated",
		"group_id", groupID,
		"expenses", len(expenses),
		"transfers", len(splits),
	)
	l.publish(ctx, events.Event{
		Kind:    events.KindGroupSplitsRecalculated,
		GroupID: groupID,
		Members: group.Members,
		Amount:  money.Format(spent),
	})

	return &SplitResult{GroupID: groupID, Status: StatusCalculated, Splits: splits}, nil
}

// ListGroupSplits returns the group's current splits, settled ones included.
func (l *Ledger) ListGroupSplits(ctx context.Context, groupID string) ([]*models.Split, error) {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return l.store.ListSplitsByGroup(ctx, groupID)
}

// ClearGroupSplits discards the group's splits without touching its expenses.
func (l *Ledger) ClearGroupSplits(ctx context.Context, groupID string) error {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return err
	}
	if err := l.store.DeleteSplitsByGroup(ctx, groupID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Group splits cleared", "group_id", groupID)
	return nil
}

package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

// Settlement is the outcome of SettleShare.
type Settlement struct {
	Share   *models.Share
	Expense *models.Expense

	// Debtor paid Amount to Creditor.
	Debtor   string
	Creditor string
	Amount   decimal.Decimal

	// AlreadySettled is true when the share was settled before this call.
	AlreadySettled bool
}

// SettleShare marks a share as paid. acting must own the share or have paid
// the expense. Settling twice leaves the ledger as settling once did, apart
// from a refreshed settlement timestamp.
func (l *Ledger) SettleShare(ctx context.Context, shareID, acting string) (*Settlement, error) {
	share, err := l.store.GetShare(ctx, shareID)
	if err != nil {
		return nil, err
	}
	expense, err := l.store.GetExpense(ctx, share.ExpenseID)
	if err != nil {
		return nil, err
	}

	if acting != share.MemberID && acting != expense.PayerID {
		return nil, fmt.Errorf("%w: %s cannot settle share %s", models.ErrPermission, acting, shareID)
	}
	if share.MemberID == expense.PayerID {
		return nil, fmt.Errorf("%w: share %s belongs to the payer and has no counter-party", models.ErrValidation, shareID)
	}

	// A negative share means the owner owes the payer; a positive one means
	// the payer owes the owner.
	debtor, creditor := share.MemberID, expense.PayerID
	if share.Amount.IsPositive() {
		debtor, creditor = expense.PayerID, share.MemberID
	}
	magnitude := money.Round(share.Amount.Abs())
	settledAt := l.now().Unix()

	var history []*models.HistoryEntry
	if !money.IsZero(magnitude) {
		history = []*models.HistoryEntry{
			{
				MemberID:      debtor,
				Kind:          models.HistorySettlement,
				Amount:        magnitude.Neg(),
				GroupID:       expense.GroupID,
				RelatedMember: creditor,
				Description:   "Settled: " + expense.Description,
				CreatedAt:     settledAt,
				SettledAt:     settledAt,
			},
			{
				MemberID:      creditor,
				Kind:          models.HistorySettlement,
				Amount:        magnitude,
				GroupID:       expense.GroupID,
				RelatedMember: debtor,
				Description:   "Received settlement for " + expense.Description,
				CreatedAt:     settledAt,
				SettledAt:     settledAt,
			},
		}
	}

	err = l.store.SettleShare(ctx, &storage.ShareSettlement{
		ShareID:  share.ID,
		GroupID:  expense.GroupID,
		Debtor:   debtor,
		Creditor: creditor,
		Amount:   magnitude,
		History:  history,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to settle share: %w", err)
	}

	alreadySettled := share.Settled
	share.Settled = true

	outcome := "first"
	if alreadySettled {
		outcome = "repeat"
	}
	metrics.SharesSettled.WithLabelValues(outcome).Inc()
	slog.InfoContext(ctx, "Share settled",
		"share_id", share.ID,
		"expense_id", expense.ID,
		"debtor", debtor,
		"creditor", creditor,
		"amount", money.Format(magnitude),
		"repeat", alreadySettled,
	)
	l.publish(ctx, events.Event{
		Kind:      events.KindShareSettled,
		GroupID:   expense.GroupID,
		ExpenseID: expense.ID,
		ShareID:   share.ID,
		Actor:     acting,
		Members:   []string{debtor, creditor},
		Amount:    money.Format(magnitude),
	})

	return &Settlement{
		Share:          share,
		Expense:        expense,
		Debtor:         debtor,
		Creditor:       creditor,
		Amount:         magnitude,
		AlreadySettled: alreadySettled,
	}, nil
}

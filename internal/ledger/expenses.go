package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

const (
	modeGroup      = "group"
	modeIndividual = "individual"
)

// RecordedExpense is a committed expense with the shares derived from it.
type RecordedExpense struct {
	Expense *models.Expense
	Shares  []*models.Share
}

// RecordGroupExpense records an expense shared by every member of a group.
//
// contributions says how much each member paid; members missing from the map
// paid nothing. The main payer is picked by the ledger's payer policy. Nothing
// is persisted unless every share has been derived and the shares balance.
func (l *Ledger) RecordGroupExpense(ctx context.Context, groupID string, amount decimal.Decimal, contributions map[string]decimal.Decimal, description string) (*RecordedExpense, error) {
	recorded, err := l.recordGroupExpense(ctx, groupID, amount, contributions, description)
	if err != nil {
		rejected(modeGroup, err)
		return nil, err
	}
	return recorded, nil
}

func (l *Ledger) recordGroupExpense(ctx context.Context, groupID string, amount decimal.Decimal, contributions map[string]decimal.Decimal, description string) (*RecordedExpense, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", models.ErrValidation)
	}

	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	roster := group.Members

	paid := make(map[string]decimal.Decimal, len(contributions))
	for member, c := range contributions {
		paid[member] = money.Round(c)
	}
	amount = money.Round(amount)

	positions, err := calculator.NetBalances(amount, paid, roster)
	if err != nil {
		return nil, err
	}

	payer, err := l.payerPolicy(roster, paid)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(payer) {
		return nil, fmt.Errorf("%w: payer %q is not in the group", models.ErrValidation, payer)
	}

	fairShare, err := money.Share(amount, len(roster))
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		PayerID:      payer,
		Amount:       amount,
		Description:  description,
		GroupID:      group.ID,
		Participants: roster,
		CreatedAt:    l.now().Unix(),
	}
	shares := sharesFrom(positions)
	history := expenseHistory(expense, fairShare)

	if err := l.store.RecordExpense(ctx, expense, shares, history); err != nil {
		return nil, fmt.Errorf("failed to record group expense: %w", err)
	}

	metrics.ExpensesRecorded.WithLabelValues(modeGroup).Inc()
	slog.InfoContext(ctx, "Group expense recorded",
		"expense_id", expense.ID,
		"group_id", group.ID,
		"payer", payer,
		"amount", money.Format(amount),
		"members", len(roster),
	)
	l.publish(ctx, events.Event{
		Kind:      events.KindExpenseRecorded,
		GroupID:   group.ID,
		ExpenseID: expense.ID,
		Actor:     payer,
		Members:   roster,
		Amount:    money.Format(amount),
	})

	return &RecordedExpense{Expense: expense, Shares: shares}, nil
}

// RecordIndividualExpense records an expense paid by payer and split equally
// between payer and participants, outside any group.
func (l *Ledger) RecordIndividualExpense(ctx context.Context, payer string, participants []string, amount decimal.Decimal, description string) (*RecordedExpense, error) {
	recorded, err := l.recordIndividualExpense(ctx, payer, participants, amount, description)
	if err != nil {
		rejected(modeIndividual, err)
		return nil, err
	}
	return recorded, nil
}

func (l *Ledger) recordIndividualExpense(ctx context.Context, payer string, participants []string, amount decimal.Decimal, description string) (*RecordedExpense, error) {
	description = strings.TrimSpace(description)
	switch {
	case payer == "":
		return nil, fmt.Errorf("%w: payer is required", models.ErrValidation)
	case len(participants) == 0:
		return nil, fmt.Errorf("%w: at least one participant is required", models.ErrValidation)
	case description == "":
		return nil, fmt.Errorf("%w: description is required", models.ErrValidation)
	}
	for _, p := range participants {
		if p == payer {
			return nil, fmt.Errorf("%w: payer %q is listed as a participant", models.ErrValidation, payer)
		}
	}

	amount = money.Round(amount)
	everyone := append([]string{payer}, participants...)

	positions, err := calculator.NetBalances(amount, calculator.PayerContributions(payer, amount), everyone)
	if err != nil {
		return nil, err
	}
	fairShare, err := money.Share(amount, len(everyone))
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		PayerID:      payer,
		Amount:       amount,
		Description:  description,
		Participants: everyone,
		CreatedAt:    l.now().Unix(),
	}
	shares := sharesFrom(positions)
	history := expenseHistory(expense, fairShare)

	if err := l.store.RecordExpense(ctx, expense, shares, history); err != nil {
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}

	metrics.ExpensesRecorded.WithLabelValues(modeIndividual).Inc()
	slog.InfoContext(ctx, "Expense recorded",
		"expense_id", expense.ID,
		"payer", payer,
		"amount", money.Format(amount),
		"participants", len(participants),
	)
	l.publish(ctx, events.Event{
		Kind:      events.KindExpenseRecorded,
		ExpenseID: expense.ID,
		Actor:     payer,
		Members:   everyone,
		Amount:    money.Format(amount),
	})

	return &RecordedExpense{Expense: expense, Shares: shares}, nil
}

// DeleteExpense removes an expense and its shares. Only the payer may delete
// it. History entries are left in place.
func (l *Ledger) DeleteExpense(ctx context.Context, expenseID, acting string) error {
	expense, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.PayerID != acting {
		return fmt.Errorf("%w: only the payer can delete expense %s", models.ErrPermission, expenseID)
	}

	if err := l.store.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted", "expense_id", expenseID, "group_id", expense.GroupID)
	l.publish(ctx, events.Event{
		Kind:      events.KindExpenseDeleted,
		GroupID:   expense.GroupID,
		ExpenseID: expenseID,
		Actor:     acting,
		Amount:    money.Format(expense.Amount),
	})
	return nil
}

// ListGroupExpenses returns a group's expenses, newest first.
func (l *Ledger) ListGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return l.store.ListExpensesByGroup(ctx, groupID)
}

// GetExpense returns an expense with its shares.
func (l *Ledger) GetExpense(ctx context.Context, expenseID string) (*RecordedExpense, error) {
	expense, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	shares, err := l.store.ListSharesByExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	return &RecordedExpense{Expense: expense, Shares: shares}, nil
}

func sharesFrom(positions []calculator.Position) []*models.Share {
	shares := make([]*models.Share, len(positions))
	for i, p := range positions {
		shares[i] = &models.Share{MemberID: p.Member, Amount: p.Net}
	}
	return shares
}

// expenseHistory builds one entry for the payer with the full amount and one
// per other participant with their negative fair share.
func expenseHistory(expense *models.Expense, fairShare decimal.Decimal) []*models.HistoryEntry {
	entries := []*models.HistoryEntry{{
		MemberID:    expense.PayerID,
		Kind:        models.HistoryExpense,
		Amount:      expense.Amount,
		GroupID:     expense.GroupID,
		Description: expense.Description,
		CreatedAt:   expense.CreatedAt,
	}}
	for _, member := range expense.Participants {
		if member == expense.PayerID {
			continue
		}
		entries = append(entries, &models.HistoryEntry{
			MemberID:      member,
			Kind:          models.HistoryExpense,
			Amount:        fairShare.Neg(),
			GroupID:       expense.GroupID,
			RelatedMember: expense.PayerID,
			Description:   "Share of " + expense.Description,
			CreatedAt:     expense.CreatedAt,
		})
	}
	return entries
}

// rejected counts expenses refused for their content; storage failures are not
// rejections.
func rejected(mode string, err error) {
	if errors.Is(err, models.ErrValidation) || errors.Is(err, models.ErrEmptyGroup) {
		metrics.ExpensesRejected.WithLabelValues(mode).Inc()
	}
}

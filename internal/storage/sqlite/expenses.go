package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

const expenseColumns = "e.id, e.payer_id, e.amount, e.description, e.group_id, e.created_at"

// RecordExpense persists an expense, its participants, shares and history
// entries atomically. Any failure leaves no trace of the expense.
func (s *SQLiteStore) RecordExpense(ctx context.Context, expense *models.Expense, shares []*models.Share, history []*models.HistoryEntry) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = nowUnix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (id, payer_id, amount, description, group_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.PayerID, money.Format(expense.Amount), expense.Description,
			nullString(expense.GroupID), expense.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for i, member := range expense.Participants {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO expense_participants (expense_id, member_id, position) VALUES (?, ?, ?)",
				expense.ID, member, i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert participant: %w", err)
			}
		}

		for i, share := range shares {
			if share.ID == "" {
				share.ID = uuid.New().String()
			}
			share.ExpenseID = expense.ID

			_, err = tx.ExecContext(ctx,
				`INSERT INTO shares (id, expense_id, member_id, amount, settled, position)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				share.ID, share.ExpenseID, share.MemberID, money.Format(share.Amount), share.Settled, i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert share: %w", err)
			}
		}

		for _, entry := range history {
			if entry.CreatedAt == 0 {
				entry.CreatedAt = expense.CreatedAt
			}
			if err := insertHistory(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetExpense retrieves an expense with its participants.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses e WHERE e.id = ?",
		expenseID,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	participants, err := s.expenseParticipants(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	expense.Participants = participants

	return expense, nil
}

// ListExpensesByGroup returns a group's expenses, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses e WHERE e.group_id = ? ORDER BY e.created_at DESC, e.rowid DESC",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		participants, err := s.expenseParticipants(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		expense.Participants = participants
	}

	return expenses, nil
}

// DeleteExpense removes an expense; participants and shares cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireAffected(result, "expense", expenseID)
}

func (s *SQLiteStore) expenseParticipants(ctx context.Context, expenseID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id FROM expense_participants WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []string
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var groupID sql.NullString
	if err := row.Scan(&expense.ID, &expense.PayerID, &expense.Amount, &expense.Description, &groupID, &expense.CreatedAt); err != nil {
		return nil, err
	}
	expense.GroupID = groupID.String
	return expense, nil
}

const shareColumns = "s.id, s.expense_id, s.member_id, s.amount, s.settled"

func scanShare(row scanner) (*models.Share, error) {
	share := &models.Share{}
	if err := row.Scan(&share.ID, &share.ExpenseID, &share.MemberID, &share.Amount, &share.Settled); err != nil {
		return nil, err
	}
	return share, nil
}

// GetShare retrieves a share by ID.
func (s *SQLiteStore) GetShare(ctx context.Context, shareID string) (*models.Share, error) {
	share, err := scanShare(s.db.QueryRowContext(ctx,
		"SELECT "+shareColumns+" FROM shares s WHERE s.id = ?",
		shareID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("share %s: %w", shareID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	return share, nil
}

// ListSharesByExpense returns an expense's shares in participant order.
func (s *SQLiteStore) ListSharesByExpense(ctx context.Context, expenseID string) ([]*models.Share, error) {
	return s.listShares(ctx,
		"SELECT "+shareColumns+" FROM shares s WHERE s.expense_id = ? ORDER BY s.position",
		expenseID,
	)
}

// ListSharesByGroup returns the shares of every expense in a group, oldest
// expense first.
func (s *SQLiteStore) ListSharesByGroup(ctx context.Context, groupID string) ([]*models.Share, error) {
	return s.listShares(ctx,
		`SELECT `+shareColumns+`
		 FROM shares s
		 JOIN expenses e ON e.id = s.expense_id
		 WHERE e.group_id = ?
		 ORDER BY e.created_at, e.rowid, s.position`,
		groupID,
	)
}

func (s *SQLiteStore) listShares(ctx context.Context, query string, args ...any) ([]*models.Share, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	var shares []*models.Share
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

// ListOpenSharesByMember returns unsettled shares that member owns or whose
// expense member paid. Participants are not loaded on the attached expenses.
func (s *SQLiteStore) ListOpenSharesByMember(ctx context.Context, member string) ([]storage.ShareWithExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+shareColumns+`, `+expenseColumns+`
		 FROM shares s
		 JOIN expenses e ON e.id = s.expense_id
		 WHERE s.settled = 0 AND (s.member_id = ? OR e.payer_id = ?)
		 ORDER BY e.created_at, e.rowid, s.position`,
		member, member,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list open shares: %w", err)
	}
	defer rows.Close()

	var result []storage.ShareWithExpense
	for rows.Next() {
		share := &models.Share{}
		expense := &models.Expense{}
		var groupID sql.NullString
		err := rows.Scan(
			&share.ID, &share.ExpenseID, &share.MemberID, &share.Amount, &share.Settled,
			&expense.ID, &expense.PayerID, &expense.Amount, &expense.Description, &groupID, &expense.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan open share: %w", err)
		}
		expense.GroupID = groupID.String
		result = append(result, storage.ShareWithExpense{Share: share, Expense: expense})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate open shares: %w", err)
	}
	return result, nil
}

// SettleShare marks the share settled, marks matching group splits settled and
// upserts the history entries in one transaction.
func (s *SQLiteStore) SettleShare(ctx context.Context, settlement *storage.ShareSettlement) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "UPDATE shares SET settled = 1 WHERE id = ?", settlement.ShareID)
		if err != nil {
			return fmt.Errorf("failed to settle share: %w", err)
		}
		if err := requireAffected(result, "share", settlement.ShareID); err != nil {
			return err
		}

		if settlement.GroupID != "" {
			if err := settleMatchingSplits(ctx, tx, settlement); err != nil {
				return err
			}
		}

		for _, entry := range settlement.History {
			if err := upsertHistory(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// settleMatchingSplits marks the group's splits from debtor to creditor whose
// amount is within a cent of the settled amount. Amounts are compared as
// decimals, not as stored text.
func settleMatchingSplits(ctx context.Context, tx *sql.Tx, settlement *storage.ShareSettlement) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, amount FROM group_splits
		 WHERE group_id = ? AND from_member = ? AND to_member = ? AND settled = 0`,
		settlement.GroupID, settlement.Debtor, settlement.Creditor,
	)
	if err != nil {
		return fmt.Errorf("failed to find matching splits: %w", err)
	}

	var ids []string
	for rows.Next() {
		split := &models.Split{}
		if err := rows.Scan(&split.ID, &split.Amount); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan split: %w", err)
		}
		if money.Equal(split.Amount, settlement.Amount) {
			ids = append(ids, split.ID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "UPDATE group_splits SET settled = 1 WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to settle split: %w", err)
		}
	}
	return nil
}

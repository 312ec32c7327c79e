package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// ReplaceGroupSplits swaps a group's split list for a freshly computed one.
// Readers never observe a half-written list.
func (s *SQLiteStore) ReplaceGroupSplits(ctx context.Context, groupID string, splits []*models.Split) error {
	now := nowUnix()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM group_splits WHERE group_id = ?", groupID); err != nil {
			return fmt.Errorf("failed to clear splits: %w", err)
		}

		for i, split := range splits {
			if split.ID == "" {
				split.ID = uuid.New().String()
			}
			if split.CreatedAt == 0 {
				split.CreatedAt = now
			}
			split.GroupID = groupID

			_, err := tx.ExecContext(ctx,
				`INSERT INTO group_splits (id, group_id, from_member, to_member, amount, settled, position, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				split.ID, split.GroupID, split.FromMember, split.ToMember,
				money.Format(split.Amount), split.Settled, i, split.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert split: %w", err)
			}
		}
		return nil
	})
}

// ListSplitsByGroup returns a group's splits, settled ones included, in the
// order they were generated.
func (s *SQLiteStore) ListSplitsByGroup(ctx context.Context, groupID string) ([]*models.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, from_member, to_member, amount, settled, created_at
		 FROM group_splits WHERE group_id = ? ORDER BY position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	var splits []*models.Split
	for rows.Next() {
		split := &models.Split{}
		err := rows.Scan(&split.ID, &split.GroupID, &split.FromMember, &split.ToMember,
			&split.Amount, &split.Settled, &split.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}

// DeleteSplitsByGroup removes every split of a group.
func (s *SQLiteStore) DeleteSplitsByGroup(ctx context.Context, groupID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM group_splits WHERE group_id = ?", groupID); err != nil {
		return fmt.Errorf("failed to delete splits: %w", err)
	}
	return nil
}

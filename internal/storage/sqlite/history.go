package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

func insertHistory(ctx context.Context, q querier, entry *models.HistoryEntry) error {
	if !entry.Kind.Valid() {
		return fmt.Errorf("%w: unknown history kind %q", models.ErrValidation, entry.Kind)
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = nowUnix()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO transaction_history
		 (id, member_id, kind, amount, group_id, related_member, description, created_at, settled_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.MemberID, string(entry.Kind), money.Format(entry.Amount),
		nullString(entry.GroupID), nullString(entry.RelatedMember), entry.Description,
		entry.CreatedAt, nullInt64(entry.SettledAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// upsertHistory updates every settlement entry with the same (member,
// description) in place, keeping its ID and created_at, or inserts a new one
// when none exists. Entries of other kinds are never touched.
func upsertHistory(ctx context.Context, q querier, entry *models.HistoryEntry) error {
	if entry.Kind != models.HistorySettlement {
		return fmt.Errorf("%w: only settlement entries are upserted, got %q", models.ErrValidation, entry.Kind)
	}

	result, err := q.ExecContext(ctx,
		`UPDATE transaction_history
		 SET amount = ?, group_id = ?, related_member = ?, settled_at = ?
		 WHERE member_id = ? AND description = ? AND kind = ?`,
		money.Format(entry.Amount), nullString(entry.GroupID),
		nullString(entry.RelatedMember), nullInt64(entry.SettledAt),
		entry.MemberID, entry.Description, string(entry.Kind),
	)
	if err != nil {
		return fmt.Errorf("failed to update history entry: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}
	return insertHistory(ctx, q, entry)
}

// ListHistoryByMember returns member's history, newest first. Entries written
// in the same second keep their reverse insertion order.
func (s *SQLiteStore) ListHistoryByMember(ctx context.Context, member string) ([]*models.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, member_id, kind, amount, group_id, related_member, description, created_at, settled_at
		 FROM transaction_history
		 WHERE member_id = ?
		 ORDER BY created_at DESC, rowid DESC`,
		member,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		entry := &models.HistoryEntry{}
		var kind string
		var groupID, related sql.NullString
		var settledAt sql.NullInt64
		err := rows.Scan(&entry.ID, &entry.MemberID, &kind, &entry.Amount, &groupID, &related,
			&entry.Description, &entry.CreatedAt, &settledAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Kind = models.HistoryKind(kind)
		entry.GroupID = groupID.String
		entry.RelatedMember = related.String
		entry.SettledAt = settledAt.Int64
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

package ledger

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// GetHistoryForMember returns member's transaction history, newest first.
// Entries recorded in the same second come back in reverse insertion order.
func (l *Ledger) GetHistoryForMember(ctx context.Context, member string) ([]*models.HistoryEntry, error) {
	if member == "" {
		return nil, nil
	}
	return l.store.ListHistoryByMember(ctx, member)
}

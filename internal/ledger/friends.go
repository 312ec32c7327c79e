package ledger

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// AddFriend records that a and b are friends. Adding an existing friendship,
// in either direction, is a no-op.
func (l *Ledger) AddFriend(ctx context.Context, a, b string) (*models.Friendship, error) {
	if a == "" || b == "" {
		return nil, fmt.Errorf("%w: both members are required", models.ErrValidation)
	}
	if a == b {
		return nil, fmt.Errorf("%w: %s cannot befriend themselves", models.ErrValidation, a)
	}

	friendship := models.NewFriendship(a, b)
	friendship.CreatedAt = l.now().Unix()
	if err := l.store.CreateFriendship(ctx, friendship); err != nil {
		return nil, fmt.Errorf("failed to add friend: %w", err)
	}
	return friendship, nil
}

// ListFriends returns member's friends without duplicates.
func (l *Ledger) ListFriends(ctx context.Context, member string) ([]string, error) {
	friends, err := l.store.ListFriends(ctx, member)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(friends))
	unique := friends[:0]
	for _, f := range friends {
		if seen[f] {
			continue
		}
		seen[f] = true
		unique = append(unique, f)
	}
	return unique, nil
}

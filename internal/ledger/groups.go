package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
)

// CreateGroup creates a group whose roster starts with creator followed by
// members in the given order. Blank and repeated members are dropped.
func (l *Ledger) CreateGroup(ctx context.Context, name, creator string, members []string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", models.ErrValidation)
	}
	if creator == "" {
		return nil, fmt.Errorf("%w: creator is required", models.ErrValidation)
	}

	roster := []string{creator}
	seen := map[string]bool{creator: true}
	for _, m := range members {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		roster = append(roster, m)
	}

	group := &models.Group{
		Name:      name,
		Members:   roster,
		CreatedAt: l.now().Unix(),
	}
	if err := l.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	slog.InfoContext(ctx, "Group created", "group_id", group.ID, "members", len(roster))
	return group, nil
}

// GetGroup returns a group with its roster.
func (l *Ledger) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return l.store.GetGroup(ctx, groupID)
}

// ListGroupsForMember returns the groups member belongs to.
func (l *Ledger) ListGroupsForMember(ctx context.Context, member string) ([]*models.Group, error) {
	return l.store.ListGroupsByMember(ctx, member)
}

// RequireMember loads a group and checks that member is on its roster.
func (l *Ledger) RequireMember(ctx context.Context, groupID, member string) (*models.Group, error) {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(member) {
		return nil, fmt.Errorf("%w: %s is not a member of group %s", models.ErrPermission, member, groupID)
	}
	return group, nil
}

// DeleteGroup removes a group with its expenses and splits. History entries
// survive with their group reference cleared. acting must be a member.
func (l *Ledger) DeleteGroup(ctx context.Context, groupID, acting string) error {
	if _, err := l.RequireMember(ctx, groupID, acting); err != nil {
		return err
	}
	if err := l.store.DeleteGroup(ctx, groupID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Group deleted", "group_id", groupID, "by", acting)
	return nil
}

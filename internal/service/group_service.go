package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitledger/internal/ledger"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	ledger *ledger.Ledger
}

// NewGroupService creates a new GroupService backed by l.
func NewGroupService(l *ledger.Ledger) *GroupService {
	return &GroupService{ledger: l}
}

// CreateGroup creates a new group with the caller on its roster.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[GroupResponse], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	group, err := s.ledger.CreateGroup(ctx, req.Msg.Name, member, req.Msg.Members)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GroupResponse{Group: toGroup(group)}), nil
}

// GetGroup retrieves a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[GroupResponse], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.ledger.RequireMember(ctx, req.Msg.GroupID, member)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GroupResponse{Group: toGroup(group)}), nil
}

// ListGroups retrieves the caller's groups.
func (s *GroupService) ListGroups(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[ListGroupsResponse], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.ledger.ListGroupsForMember(ctx, member)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*Group, len(groups))
	for i, g := range groups {
		out[i] = toGroup(g)
	}

	slog.Info("ListGroups successful", "member_id", member, "count", len(groups))
	return connect.NewResponse(&ListGroupsResponse{Groups: out}), nil
}

// DeleteGroup deletes a group the caller belongs to.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[emptypb.Empty], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.ledger.DeleteGroup(ctx, req.Msg.GroupID, member); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&emptypb.Empty{}), nil
}

// AddFriend befriends the caller and another member.
func (s *GroupService) AddFriend(ctx context.Context, req *connect.Request[AddFriendRequest]) (*connect.Response[emptypb.Empty], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.AddFriend(ctx, member, req.Msg.Friend); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&emptypb.Empty{}), nil
}

// ListFriends returns the caller's friends.
func (s *GroupService) ListFriends(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[ListFriendsResponse], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}

	friends, err := s.ledger.ListFriends(ctx, member)
	if err != nil {
		return nil, toConnectError(err)
	}
	if friends == nil {
		friends = []string{}
	}

	return connect.NewResponse(&ListFriendsResponse{Friends: friends}), nil
}

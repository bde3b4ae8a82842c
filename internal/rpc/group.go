package rpc

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/api"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/service"
)

// GroupServer implements api.GroupServiceHandler.
type GroupServer struct {
	svc *service.GroupService
}

var _ api.GroupServiceHandler = (*GroupServer)(nil)

// NewGroupServer creates a GroupServer backed by svc.
func NewGroupServer(svc *service.GroupService) *GroupServer {
	return &GroupServer{svc: svc}
}

// CreateGroup creates a new group.
func (s *GroupServer) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	group, err := s.svc.CreateGroup(ctx, req.Msg.Name, req.Msg.Members)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateGroupResponse{Group: group}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupServer) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	if err := requireGroupID(req.Msg.GroupID); err != nil {
		return nil, err
	}
	group, err := s.svc.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: group}), nil
}

// ListGroups retrieves all groups.
func (s *GroupServer) ListGroups(ctx context.Context, _ *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	groups, err := s.svc.ListGroups(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	return connect.NewResponse(&api.ListGroupsResponse{Groups: groups}), nil
}

// AddMembers adds members to an existing group.
func (s *GroupServer) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	if err := requireGroupID(req.Msg.GroupID); err != nil {
		return nil, err
	}
	group, err := s.svc.AddMembers(ctx, req.Msg.GroupID, req.Msg.Members)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AddMembersResponse{Group: group}), nil
}

package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

// GroupService manages the group directory: who belongs to which ledger.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group with an empty ledger.
func (s *GroupService) CreateGroup(ctx context.Context, name string, members []models.Member) (*models.Group, error) {
	slog.Info("CreateGroup request received",
		"name", name,
		"members_count", len(members),
	)

	group := &models.Group{
		Name:    name,
		Members: members,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		logFailure("CreateGroup", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "name", group.Name)
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		logFailure("GetGroup", err, "group_id", groupID)
		return nil, err
	}
	slog.Debug("GetGroup successful", "group_id", group.ID, "name", group.Name)
	return group, nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		logFailure("ListGroups", err)
		return nil, err
	}
	slog.Debug("ListGroups successful", "count", len(groups))
	return groups, nil
}

// AddMembers adds members to a group and returns the updated group.
// Members already in the group are left as they are.
func (s *GroupService) AddMembers(ctx context.Context, groupID string, members []models.Member) (*models.Group, error) {
	if err := s.store.AddGroupMembers(ctx, groupID, members); err != nil {
		logFailure("AddMembers", err, "group_id", groupID)
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		logFailure("AddMembers", err, "group_id", groupID)
		return nil, err
	}
	slog.Info("Members added", "group_id", groupID, "members_count", len(group.Members))
	return group, nil
}

// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/groupledger/internal/models"
)

// Store defines the persistence operations for groups and their ledgers.
// This abstraction allows swapping storage backends (SQLite, bbolt, etc.)
// without changing the service layer.
//
// The ledger side is append-only: entries are inserted and flagged settled,
// never rewritten or deleted, so concurrent appends to one group cannot lose
// each other's writes.
type Store interface {
	// CreateGroup persists a new group with an empty ledger.
	// The group.ID and group.CreatedAt fields are populated when unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID.
	// Returns an error wrapping models.ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns all groups, oldest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddGroupMembers appends members to a group. Members already present
	// (by ID) are skipped.
	AddGroupMembers(ctx context.Context, groupID string, members []models.Member) error

	// AppendEntries appends entries to the group's ledger in the given order.
	AppendEntries(ctx context.Context, groupID string, entries []models.LedgerEntry) error

	// ListEntries returns the group's ledger in insertion order.
	ListEntries(ctx context.Context, groupID string) ([]models.LedgerEntry, error)

	// SettleAll flags every unsettled entry of the group settled in one
	// transaction and returns the number of entries changed.
	SettleAll(ctx context.Context, groupID string) (int, error)

	// SettleEntries flags the named entries settled in one transaction.
	// Unknown entry IDs fail the call with models.ErrInvalidInput and nothing
	// is changed.
	SettleEntries(ctx context.Context, groupID string, entryIDs []string) (int, error)

	// Close releases any resources held by the store.
	Close() error
}

package models

import (
	"fmt"
	"strings"
	"time"
)

// Member is one participant of a group.
type Member struct {
	// ID is unique within the group.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`
}

// Group is a set of members sharing one ledger.
// The group is the source of member identity; the ledger only stores IDs.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Friday Dinner").
	Name string `json:"name"`

	// Members in the order they joined.
	Members []Member `json:"members"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// MemberIDs returns the member IDs in group order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// HasMember reports whether id belongs to the group.
func (g *Group) HasMember(id string) bool {
	for _, m := range g.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// ValidateMembers rejects empty and duplicate member IDs.
func ValidateMembers(members []Member) error {
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if m.ID == "" {
			return InvalidInput("member %q has an empty id", m.Name)
		}
		if seen[m.ID] {
			return InvalidInput("duplicate member id %q", m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

// DefaultGroupName creates a group name from its members when none was given.
func DefaultGroupName(members []Member, now time.Time) string {
	if len(members) == 0 {
		return fmt.Sprintf("Group - %s", now.Format("Jan 2, 2006"))
	}
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
		if names[i] == "" {
			names[i] = m.ID
		}
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Group with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Group with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}

// Package storagetest holds a conformance suite run against every
// storage.Store implementation.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
	"github.com/mmynk/groupledger/internal/storage"
)

var created = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// Entry returns a valid unsettled entry.
func Entry(id, from, to string, amount money.Money) models.LedgerEntry {
	return models.LedgerEntry{
		ID:           id,
		FromMemberID: from,
		ToMemberID:   to,
		Amount:       amount,
		Note:         "dinner",
		CreatedAt:    created,
	}
}

func newGroup(t *testing.T, ctx context.Context, s storage.Store) *models.Group {
	t.Helper()
	g := &models.Group{
		Name: "Friday Dinner",
		Members: []models.Member{
			{ID: "A", Name: "An"},
			{ID: "B", Name: "Binh"},
			{ID: "C", Name: "Chi"},
		},
	}
	require.NoError(t, s.CreateGroup(ctx, g))
	return g
}

// Run exercises s against the storage.Store contract.
func Run(t *testing.T, s storage.Store) {
	ctx := context.Background()

	t.Run("CreateGroup generates ID and CreatedAt", func(t *testing.T) {
		g := newGroup(t, ctx, s)
		require.NotEmpty(t, g.ID)
		require.NotZero(t, g.CreatedAt)

		got, err := s.GetGroup(ctx, g.ID)
		require.NoError(t, err)
		require.Equal(t, g.Name, got.Name)
		require.Equal(t, g.Members, got.Members)
	})

	t.Run("CreateGroup rejects duplicate member ids", func(t *testing.T) {
		err := s.CreateGroup(ctx, &models.Group{
			Name:    "Dupes",
			Members: []models.Member{{ID: "A"}, {ID: "A"}},
		})
		require.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("GetGroup returns ErrNotFound", func(t *testing.T) {
		_, err := s.GetGroup(ctx, "nonexistent-id")
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("ListGroups includes created groups", func(t *testing.T) {
		g := newGroup(t, ctx, s)
		groups, err := s.ListGroups(ctx)
		require.NoError(t, err)

		var found bool
		for _, got := range groups {
			if got.ID == g.ID {
				found = true
				require.Len(t, got.Members, 3)
			}
		}
		require.True(t, found, "created group missing from ListGroups")
	})

	t.Run("AddGroupMembers appends new members only", func(t *testing.T) {
		g := newGroup(t, ctx, s)
		err := s.AddGroupMembers(ctx, g.ID, []models.Member{{ID: "B", Name: "Binh"}, {ID: "D", Name: "Dung"}})
		require.NoError(t, err)

		got, err := s.GetGroup(ctx, g.ID)
		require.NoError(t, err)
		require.Equal(t, []string{"A", "B", "C", "D"}, got.MemberIDs())

		err = s.AddGroupMembers(ctx, "nonexistent-id", []models.Member{{ID: "E"}})
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("new group has an empty ledger", func(t *testing.T) {
		g := newGroup(t, ctx, s)
		entries, err := s.ListEntries(ctx, g.ID)
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("AppendEntries keeps insertion order", func(t *testing.T) {
		g := newGroup(t, ctx, s)
		first := []models.LedgerEntry{
			Entry(g.ID+"-3", "C", "A", 300),
			Entry(g.ID+"-1", "B", "A", 100),
		}
		second := []models.LedgerEntry{Entry(g.ID+"-2", "B", "A", 200)}
		require.NoError(t, s.AppendEntries(ctx, g.ID, first))
		require.NoError(t, s.AppendEntries(ctx, g.ID, second))

		entries, err := s.ListEntries(ctx, g.ID)
		require.NoError(t, err)
		require.Equal(t, append(first, second...), entries)
	})

	t.Run("AppendEntries rejects invalid entries", func(t *testing.T) {
		g := newGroup(t, ctx, s)
		err := s.AppendEntries(ctx, g.ID, []models.LedgerEntry{Entry(g.ID+"-x", "A", "A", 100)})
		require.ErrorIs(t, err, models.ErrInvalidInput)

		err = s.AppendEntries(ctx, "nonexistent-id", []models.LedgerEntry{Entry("orphan", "B", "A", 100)})
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("AppendEntries rejects duplicate entry ids", func(t *testing.T) {
		g := newGroup(t, ctx, s)
		require.NoError(t, s.AppendEntries(ctx, g.ID, []models.LedgerEntry{Entry(g.ID+"-dup", "B", "A", 100)}))

		err := s.AppendEntries(ctx, g.ID, []models.LedgerEntry{
			Entry(g.ID+"-new", "C", "A", 50),
			Entry(g.ID+"-dup", "C", "A", 200),
		})
		require.ErrorIs(t, err, models.ErrInvalidInput)

		err = s.AppendEntries(ctx, g.ID, []models.LedgerEntry{
			Entry(g.ID+"-twice", "C", "A", 50),
			Entry(g.ID+"-twice", "B", "A", 50),
		})
		require.ErrorIs(t, err, models.ErrInvalidInput)

		// Rejected batches leave nothing behind
		entries, err := s.ListEntries(ctx, g.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		// The same id is fine in another group
		other := newGroup(t, ctx, s)
		require.NoError(t, s.AppendEntries(ctx, other.ID, []models.LedgerEntry{Entry(g.ID+"-dup", "B", "A", 100)}))
	})

	t.Run("SettleAll is idempotent", func(t *testing.T) {
		g := newGroup(t, ctx, s)
		require.NoError(t, s.AppendEntries(ctx, g.ID, []models.LedgerEntry{
			Entry(g.ID+"-1", "B", "A", 100),
			Entry(g.ID+"-2", "C", "A", 100),
		}))

		n, err := s.SettleAll(ctx, g.ID)
		require.NoError(t, err)
		require.Equal(t, 2, n)
		once, err := s.ListEntries(ctx, g.ID)
		require.NoError(t, err)

		n, err = s.SettleAll(ctx, g.ID)
		require.NoError(t, err)
		require.Zero(t, n)
		twice, err := s.ListEntries(ctx, g.ID)
		require.NoError(t, err)

		require.Equal(t, once, twice)
		for _, e := range twice {
			require.True(t, e.Settled)
		}

		_, err = s.SettleAll(ctx, "nonexistent-id")
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("SettleAll only touches its own group", func(t *testing.T) {
		g1 := newGroup(t, ctx, s)
		g2 := newGroup(t, ctx, s)
		require.NoError(t, s.AppendEntries(ctx, g1.ID, []models.LedgerEntry{Entry(g1.ID+"-1", "B", "A", 100)}))
		require.NoError(t, s.AppendEntries(ctx, g2.ID, []models.LedgerEntry{Entry(g2.ID+"-1", "B", "A", 100)}))

		_, err := s.SettleAll(ctx, g1.ID)
		require.NoError(t, err)

		entries, err := s.ListEntries(ctx, g2.ID)
		require.NoError(t, err)
		require.False(t, entries[0].Settled)
	})

	t.Run("SettleEntries settles only named entries", func(t *testing.T) {
		g := newGroup(t, ctx, s)
		require.NoError(t, s.AppendEntries(ctx, g.ID, []models.LedgerEntry{
			Entry(g.ID+"-1", "B", "A", 100),
			Entry(g.ID+"-2", "C", "A", 100),
		}))

		n, err := s.SettleEntries(ctx, g.ID, []string{g.ID + "-2", g.ID + "-2"})
		require.NoError(t, err)
		require.Equal(t, 1, n)

		_, err = s.SettleEntries(ctx, g.ID, []string{g.ID + "-1", "missing"})
		require.ErrorIs(t, err, models.ErrInvalidInput)

		entries, err := s.ListEntries(ctx, g.ID)
		require.NoError(t, err)
		require.False(t, entries[0].Settled)
		require.True(t, entries[1].Settled)
	})

	t.Run("concurrent appends are all kept", func(t *testing.T) {
		g := newGroup(t, ctx, s)

		var wg sync.WaitGroup
		errs := make(chan error, 20)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- s.AppendEntries(ctx, g.ID, []models.LedgerEntry{
					Entry(fmt.Sprintf("%s-c%d", g.ID, i), "B", "A", money.Money(i+1)),
				})
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		entries, err := s.ListEntries(ctx, g.ID)
		require.NoError(t, err)
		require.Len(t, entries, 20)
	})
}

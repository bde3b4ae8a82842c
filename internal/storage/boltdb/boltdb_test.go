package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "ledger.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStore(t *testing.T) {
	storagetest.Run(t, newTestStore(t))
}

func TestListEntries_CorruptRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g := &models.Group{Name: "Corrupt", Members: []models.Member{{ID: "A"}, {ID: "B"}}}
	require.NoError(t, store.CreateGroup(ctx, g))
	require.NoError(t, store.AppendEntries(ctx, g.ID, []models.LedgerEntry{storagetest.Entry("e1", "B", "A", 10)}))

	err := store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketLedgers)).Bucket([]byte(g.ID))
		return b.Put(itob(99), []byte(`{"id":"e2","fromMemberId":"B","toMemberId":"A","amount":"lots"}`))
	})
	require.NoError(t, err)

	_, err = store.ListEntries(ctx, g.ID)
	require.ErrorIs(t, err, models.ErrCorruptState)

	_, err = store.SettleAll(ctx, g.ID)
	require.ErrorIs(t, err, models.ErrCorruptState)
}

func TestCreateGroup_DuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateGroup(ctx, &models.Group{ID: "g1", Name: "One"}))
	err := store.CreateGroup(ctx, &models.Group{ID: "g1", Name: "Again"})
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

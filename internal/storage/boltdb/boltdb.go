// Package boltdb provides a bbolt-backed implementation of the storage.Store interface.
//
// Layout:
//
//	groups/<group id>            JSON models.Group
//	ledgers/<group id>/<seq>     JSON models.LedgerEntry, seq is a big-endian
//	                             bucket sequence so keys sort in insertion order
package boltdb

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/mmynk/groupledger/internal/ledger"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

// Bucket names.
const (
	BucketGroups  = "groups"
	BucketLedgers = "ledgers"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on a bbolt file.
type Store struct {
	db *bolt.DB
}

// New opens (or creates) the database at dbPath and initializes buckets.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{BucketGroups, BucketLedgers} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateGroup stores a new group and an empty ledger bucket for it.
func (s *Store) CreateGroup(_ context.Context, group *models.Group) error {
	if err := models.ValidateMembers(group.Members); err != nil {
		return err
	}
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.Name == "" {
		group.Name = models.DefaultGroupName(group.Members, time.Now())
	}
	if group.Members == nil {
		group.Members = []models.Member{}
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		groups := tx.Bucket([]byte(BucketGroups))
		if groups.Get([]byte(group.ID)) != nil {
			return models.InvalidInput("group %s already exists", group.ID)
		}
		if err := putJSON(groups, []byte(group.ID), group); err != nil {
			return err
		}
		if _, err := tx.Bucket([]byte(BucketLedgers)).CreateBucket([]byte(group.ID)); err != nil {
			return fmt.Errorf("failed to create ledger bucket: %w", err)
		}
		return nil
	})
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	var group *models.Group
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		group, err = getGroup(tx, groupID)
		return err
	})
	return group, err
}

// ListGroups returns all groups, oldest first.
func (s *Store) ListGroups(_ context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketGroups)).ForEach(func(k, v []byte) error {
			var g models.Group
			if err := decodeStrict(v, &g); err != nil {
				return fmt.Errorf("group %s: %w", k, err)
			}
			groups = append(groups, &g)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].CreatedAt != groups[j].CreatedAt {
			return groups[i].CreatedAt < groups[j].CreatedAt
		}
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

// AddGroupMembers appends members not already in the group.
func (s *Store) AddGroupMembers(_ context.Context, groupID string, members []models.Member) error {
	if err := models.ValidateMembers(members); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		group, err := getGroup(tx, groupID)
		if err != nil {
			return err
		}
		for _, m := range members {
			if !group.HasMember(m.ID) {
				group.Members = append(group.Members, m)
			}
		}
		return putJSON(tx.Bucket([]byte(BucketGroups)), []byte(groupID), group)
	})
}

// AppendEntries appends entries under fresh sequence keys. Entry IDs
// already in the group's ledger are rejected as invalid input.
func (s *Store) AppendEntries(_ context.Context, groupID string, entries []models.LedgerEntry) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return models.InvalidInput("entry %d: %v", i, err)
		}
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := ledgerBucket(tx, groupID)
		if err != nil {
			return err
		}
		seen := make(map[string]bool)
		err = b.ForEach(func(_, v []byte) error {
			e, err := ledger.ParseEntry(v)
			if err != nil {
				return err
			}
			seen[e.ID] = true
			return nil
		})
		if err != nil {
			return err
		}

		for _, e := range entries {
			if seen[e.ID] {
				return models.InvalidInput("entry %s is already in group %s", e.ID, groupID)
			}
			seen[e.ID] = true

			seq, err := b.NextSequence()
			if err != nil {
				return fmt.Errorf("failed to allocate sequence: %w", err)
			}
			if err := putJSON(b, itob(seq), e); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListEntries returns the group's ledger in insertion order.
func (s *Store) ListEntries(_ context.Context, groupID string) ([]models.LedgerEntry, error) {
	entries := []models.LedgerEntry{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := ledgerBucket(tx, groupID)
		if err != nil {
			return err
		}
		return b.ForEach(func(_, v []byte) error {
			e, err := ledger.ParseEntry(v)
			if err != nil {
				return err
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SettleAll flags every unsettled entry of the group settled.
func (s *Store) SettleAll(_ context.Context, groupID string) (int, error) {
	n := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		n, err = settle(tx, groupID, func(models.LedgerEntry) bool { return true })
		return err
	})
	return n, err
}

// SettleEntries flags the named entries of the group settled.
func (s *Store) SettleEntries(_ context.Context, groupID string, entryIDs []string) (int, error) {
	want := make(map[string]bool, len(entryIDs))
	for _, id := range entryIDs {
		want[id] = true
	}
	if len(want) == 0 {
		return 0, nil
	}

	n := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		seen := 0
		var err error
		n, err = settle(tx, groupID, func(e models.LedgerEntry) bool {
			if want[e.ID] {
				seen++
				return true
			}
			return false
		})
		if err != nil {
			return err
		}
		// Returning an error rolls the whole transaction back
		if seen != len(want) {
			return models.InvalidInput("%d of %d entry ids are not in group %s", len(want)-seen, len(want), groupID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// settle flips matching unsettled entries. Keys are collected before any
// write so the cursor is never invalidated.
func settle(tx *bolt.Tx, groupID string, match func(models.LedgerEntry) bool) (int, error) {
	b, err := ledgerBucket(tx, groupID)
	if err != nil {
		return 0, err
	}

	type update struct {
		key   []byte
		entry models.LedgerEntry
	}
	var updates []update
	err = b.ForEach(func(k, v []byte) error {
		e, err := ledger.ParseEntry(v)
		if err != nil {
			return err
		}
		if match(e) && !e.Settled {
			e.Settled = true
			updates = append(updates, update{key: bytes.Clone(k), entry: e})
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, u := range updates {
		if err := putJSON(b, u.key, u.entry); err != nil {
			return 0, err
		}
	}
	return len(updates), nil
}

func getGroup(tx *bolt.Tx, groupID string) (*models.Group, error) {
	v := tx.Bucket([]byte(BucketGroups)).Get([]byte(groupID))
	if v == nil {
		return nil, fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	var g models.Group
	if err := decodeStrict(v, &g); err != nil {
		return nil, fmt.Errorf("group %s: %w", groupID, err)
	}
	return &g, nil
}

func ledgerBucket(tx *bolt.Tx, groupID string) (*bolt.Bucket, error) {
	b := tx.Bucket([]byte(BucketLedgers)).Bucket([]byte(groupID))
	if b == nil {
		return nil, fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	return b, nil
}

func putJSON(b *bolt.Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := b.Put(key, data); err != nil {
		return fmt.Errorf("failed to put record: %w", err)
	}
	return nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", models.ErrCorruptState, err)
	}
	return nil
}

// itob returns an 8-byte big endian representation of v.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Package ledger holds a group's append-only list of debt entries.
//
// A GroupLedger is an in-memory snapshot. Entries are only ever appended or
// flipped to settled; nothing is netted or deleted, so the entry list doubles
// as the audit trail. Persistence lives in package storage.
package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

// Option configures entry creation.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock sets the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator sets the generator used for entry IDs.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := options{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// GroupLedger is the ordered entry list of one group.
type GroupLedger struct {
	GroupID string
	entries []models.LedgerEntry
	opts    options
}

// New returns a ledger for groupID holding the given entries in order.
func New(groupID string, entries []models.LedgerEntry, opts ...Option) *GroupLedger {
	return &GroupLedger{
		GroupID: groupID,
		entries: append([]models.LedgerEntry(nil), entries...),
		opts:    buildOptions(opts),
	}
}

// Entries returns a copy of all entries in insertion order.
func (l *GroupLedger) Entries() []models.LedgerEntry {
	return append([]models.LedgerEntry(nil), l.entries...)
}

// Unsettled returns the entries not yet settled, in insertion order.
func (l *GroupLedger) Unsettled() []models.LedgerEntry {
	var out []models.LedgerEntry
	for _, e := range l.entries {
		if !e.Settled {
			out = append(out, e)
		}
	}
	return out
}

// PostBill appends one entry per non-payer member owing the payer.
// It returns only the new entries.
func (l *GroupLedger) PostBill(payerID string, memberTotals map[string]money.Money, note string) ([]models.LedgerEntry, error) {
	created, err := newBillEntries(payerID, memberTotals, note, l.opts)
	if err != nil {
		return nil, err
	}
	l.entries = append(l.entries, created...)
	return created, nil
}

// SettleAll marks every unsettled entry settled and returns how many changed.
// Calling it again is a no-op.
func (l *GroupLedger) SettleAll() int {
	n := 0
	for i := range l.entries {
		if !l.entries[i].Settled {
			l.entries[i].Settled = true
			n++
		}
	}
	return n
}

// SettleEntries marks the named entries settled and returns how many changed.
// Unknown IDs fail the whole call before anything changes.
func (l *GroupLedger) SettleEntries(ids []string) (int, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	found := 0
	for _, e := range l.entries {
		if want[e.ID] {
			found++
		}
	}
	if found != len(want) {
		return 0, models.InvalidInput("%d of %d entry ids are not in group %s", len(want)-found, len(want), l.GroupID)
	}

	n := 0
	for i := range l.entries {
		if want[l.entries[i].ID] && !l.entries[i].Settled {
			l.entries[i].Settled = true
			n++
		}
	}
	return n, nil
}

// NewBillEntries builds, without storing them, the entries PostBill would
// append: every member other than the payer owes the payer their total.
// Zero totals produce no entry. Entries are ordered by member ID.
func NewBillEntries(payerID string, memberTotals map[string]money.Money, note string, opts ...Option) ([]models.LedgerEntry, error) {
	return newBillEntries(payerID, memberTotals, note, buildOptions(opts))
}

func newBillEntries(payerID string, memberTotals map[string]money.Money, note string, o options) ([]models.LedgerEntry, error) {
	if payerID == "" {
		return nil, models.InvalidInput("payer id must not be empty")
	}

	ids := make([]string, 0, len(memberTotals))
	for id, amount := range memberTotals {
		if id == "" {
			return nil, models.InvalidInput("member totals contain an empty member id")
		}
		if amount < 0 {
			return nil, models.InvalidInput("member %s has a negative total %s", id, amount)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	now := o.now().UTC()
	var entries []models.LedgerEntry
	for _, id := range ids {
		amount := memberTotals[id]
		if id == payerID || amount == 0 {
			continue
		}
		entries = append(entries, models.LedgerEntry{
			ID:           o.newID(),
			FromMemberID: id,
			ToMemberID:   payerID,
			Amount:       amount,
			Note:         note,
			CreatedAt:    now,
		})
	}
	return entries, nil
}

package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

// Document is the persisted JSON layout of one group's ledger.
type Document struct {
	GroupID string               `json:"groupId"`
	Entries []models.LedgerEntry `json:"entries"`
}

// storedEntry decodes a persisted entry. Amounts must already be whole
// units; anything fractional was not written by this package.
type storedEntry struct {
	models.LedgerEntry
	Amount wholeAmount `json:"amount"`
}

func (s storedEntry) entry() models.LedgerEntry {
	e := s.LedgerEntry
	e.Amount = money.Money(s.Amount)
	return e
}

type wholeAmount money.Money

func (a *wholeAmount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		s = string(data[1 : len(data)-1])
	}
	m, err := money.ParseExact(s)
	if err != nil {
		return err
	}
	*a = wholeAmount(m)
	return nil
}

// Marshal encodes the ledger as a Document.
func (l *GroupLedger) Marshal() ([]byte, error) {
	entries := l.entries
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	return json.MarshalIndent(Document{GroupID: l.GroupID, Entries: entries}, "", "  ")
}

// Parse decodes a Document into a GroupLedger. Unknown fields, invalid
// entries and duplicate IDs fail with models.ErrCorruptState rather than
// being dropped.
func Parse(data []byte, opts ...Option) (*GroupLedger, error) {
	var doc struct {
		GroupID string        `json:"groupId"`
		Entries []storedEntry `json:"entries"`
	}
	if err := decodeStrict(data, &doc); err != nil {
		return nil, err
	}
	if doc.GroupID == "" {
		return nil, fmt.Errorf("%w: ledger document has no groupId", models.ErrCorruptState)
	}
	entries := make([]models.LedgerEntry, len(doc.Entries))
	for i := range doc.Entries {
		entries[i] = doc.Entries[i].entry()
	}
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}
	return New(doc.GroupID, entries, opts...), nil
}

// ParseEntry decodes and validates a single stored entry.
func ParseEntry(data []byte) (models.LedgerEntry, error) {
	var stored storedEntry
	if err := decodeStrict(data, &stored); err != nil {
		return models.LedgerEntry{}, err
	}
	e := stored.entry()
	if err := e.Validate(); err != nil {
		return models.LedgerEntry{}, fmt.Errorf("%w: entry %q: %v", models.ErrCorruptState, e.ID, err)
	}
	return e, nil
}

// ValidateEntries checks every entry and rejects duplicate IDs.
func ValidateEntries(entries []models.LedgerEntry) error {
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return fmt.Errorf("%w: entry %d: %v", models.ErrCorruptState, i, err)
		}
		if seen[entries[i].ID] {
			return fmt.Errorf("%w: duplicate entry id %q", models.ErrCorruptState, entries[i].ID)
		}
		seen[entries[i].ID] = true
	}
	return nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", models.ErrCorruptState, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after ledger document", models.ErrCorruptState)
	}
	return nil
}

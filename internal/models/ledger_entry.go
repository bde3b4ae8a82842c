package models

import (
	"time"

	"github.com/mmynk/groupledger/internal/money"
)

// LedgerEntry is one directed debt: FromMemberID owes ToMemberID Amount.
// Entries are immutable once created except for Settled, which only ever
// goes from false to true.
type LedgerEntry struct {
	ID           string      `json:"id"`
	FromMemberID string      `json:"fromMemberId"`
	ToMemberID   string      `json:"toMemberId"`
	Amount       money.Money `json:"amount"`
	Note         string      `json:"note,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	Settled      bool        `json:"settled"`
}

// Validate checks the entry invariants.
func (e *LedgerEntry) Validate() error {
	switch {
	case e.ID == "":
		return fieldError("id", "must not be empty")
	case e.FromMemberID == "":
		return fieldError("fromMemberId", "must not be empty")
	case e.ToMemberID == "":
		return fieldError("toMemberId", "must not be empty")
	case e.FromMemberID == e.ToMemberID:
		return fieldError("toMemberId", "must differ from fromMemberId")
	case e.Amount <= 0:
		return fieldError("amount", "must be positive")
	case e.CreatedAt.IsZero():
		return fieldError("createdAt", "must be set")
	}
	return nil
}

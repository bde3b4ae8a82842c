package models

import "github.com/mmynk/groupledger/internal/money"

// Settlement is a proposed net transfer between two members.
// Settlements are computed from the unsettled ledger on demand and never stored.
type Settlement struct {
	FromMemberID string      `json:"fromMemberId"`
	ToMemberID   string      `json:"toMemberId"`
	Amount       money.Money `json:"amount"`
}

// MemberBalance is a member's position over the unsettled ledger.
type MemberBalance struct {
	MemberID string `json:"memberId"`

	// Owed is the total other members owe this member.
	Owed money.Money `json:"owed"`

	// Owes is the total this member owes others.
	Owes money.Money `json:"owes"`

	// Net = Owed - Owes. Positive means the member is owed money.
	Net money.Money `json:"net"`
}

package models

import "github.com/mmynk/groupledger/internal/money"

// SplitType decides how an item's cost is spread over its assignees.
type SplitType string

const (
	// SplitIndividual charges every assignee the full item total, as if each
	// of them ordered it separately.
	SplitIndividual SplitType = "individual"

	// SplitShared divides the item total evenly among the assignees.
	SplitShared SplitType = "shared"
)

// BillLineItem is a single line on a bill.
type BillLineItem struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    money.Money `json:"price"`
	Quantity int         `json:"quantity"`

	// AssignedTo lists member IDs. An item with no assignees still counts
	// toward the bill subtotal but is charged to nobody.
	AssignedTo []string  `json:"assignedTo"`
	SplitType  SplitType `json:"splitType"`
}

// BillCharges are percentages applied to each member's own subtotal.
type BillCharges struct {
	TaxPercent     float64 `json:"taxPercent"`
	ServicePercent float64 `json:"servicePercent"`
}

// TreatPolicy selects whether one member covers part of the bill.
type TreatPolicy string

const (
	TreatSplit   TreatPolicy = "split"
	TreatAll     TreatPolicy = "treat-all"
	TreatPartial TreatPolicy = "treat-partial"
)

// Treat configures a treat. Percentage defaults to 100 when nil and is
// clamped to [0, 100].
type Treat struct {
	Policy           TreatPolicy `json:"policy"`
	TreatingMemberID string      `json:"treatingMemberId,omitempty"`
	Percentage       *float64    `json:"percentage,omitempty"`
}

// MemberSplit is one member's share of an allocated bill.
type MemberSplit struct {
	MemberID string `json:"memberId"`

	// Subtotal is the member's item share before charges.
	Subtotal money.Money `json:"subtotal"`
	Tax      money.Money `json:"tax"`
	Service  money.Money `json:"service"`

	// Total is what the member owes after charges and any treat.
	Total    money.Money `json:"total"`
	Treating bool        `json:"treating,omitempty"`
}

// WarningKind classifies an allocation warning.
type WarningKind string

// WarningVerificationDiscrepancy means the member totals do not add up to
// the grand total by more than money.Tolerance.
const WarningVerificationDiscrepancy WarningKind = "verification_discrepancy"

// Warning is a non-fatal condition reported alongside an allocation.
type Warning struct {
	Kind       WarningKind `json:"kind"`
	Message    string      `json:"message"`
	Expected   money.Money `json:"expected"`
	Allocated  money.Money `json:"allocated"`
	Difference money.Money `json:"difference"`
}

// Allocation is the result of allocating one bill over a set of members.
type Allocation struct {
	MemberTotals  map[string]money.Money `json:"memberTotals"`
	Splits        []MemberSplit          `json:"splits"`
	Subtotal      money.Money            `json:"subtotal"`
	TaxAmount     money.Money            `json:"taxAmount"`
	ServiceAmount money.Money            `json:"serviceAmount"`
	GrandTotal    money.Money            `json:"grandTotal"`
	Warnings      []Warning              `json:"warnings,omitempty"`
}

// Allocated is the sum of the rounded member totals.
func (a *Allocation) Allocated() money.Money {
	var sum money.Money
	for _, v := range a.MemberTotals {
		sum += v
	}
	return sum
}

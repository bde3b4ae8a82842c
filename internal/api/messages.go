package api

import (
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

type CreateGroupRequest struct {
	Name    string          `json:"name"`
	Members []models.Member `json:"members"`
}

type CreateGroupResponse struct {
	Group *models.Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *models.Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*models.Group `json:"groups"`
}

type AddMembersRequest struct {
	GroupID string          `json:"groupId"`
	Members []models.Member `json:"members"`
}

type AddMembersResponse struct {
	Group *models.Group `json:"group"`
}

// AllocateBillRequest allocates a bill over the members of GroupID.
type AllocateBillRequest struct {
	GroupID string                `json:"groupId"`
	Items   []models.BillLineItem `json:"items"`
	Charges models.BillCharges    `json:"charges"`
	Treat   models.Treat          `json:"treat"`
}

type AllocateBillResponse struct {
	Allocation *models.Allocation `json:"allocation"`
}

// PostBillRequest records that PayerID paid MemberTotals for the group.
type PostBillRequest struct {
	GroupID      string                 `json:"groupId"`
	PayerID      string                 `json:"payerId"`
	MemberTotals map[string]money.Money `json:"memberTotals"`
	Note         string                 `json:"note,omitempty"`
}

type PostBillResponse struct {
	Entries []models.LedgerEntry `json:"entries"`
}

// SplitBillRequest is AllocateBill followed by PostBill of the result.
type SplitBillRequest struct {
	GroupID string                `json:"groupId"`
	PayerID string                `json:"payerId"`
	Items   []models.BillLineItem `json:"items"`
	Charges models.BillCharges    `json:"charges"`
	Treat   models.Treat          `json:"treat"`
	Note    string                `json:"note,omitempty"`
}

type SplitBillResponse struct {
	Allocation *models.Allocation   `json:"allocation"`
	Entries    []models.LedgerEntry `json:"entries"`
}

type ListEntriesRequest struct {
	GroupID       string `json:"groupId"`
	UnsettledOnly bool   `json:"unsettledOnly,omitempty"`
}

type ListEntriesResponse struct {
	Entries []models.LedgerEntry `json:"entries"`
}

type SimplifyDebtsRequest struct {
	GroupID string `json:"groupId"`
}

type SimplifyDebtsResponse struct {
	Settlements []models.Settlement `json:"settlements"`
}

type GetBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type GetBalancesResponse struct {
	Balances []models.MemberBalance `json:"balances"`
}

type SettleAllRequest struct {
	GroupID string `json:"groupId"`
}

type SettleAllResponse struct {
	// Settled is the number of entries flipped by this call.
	Settled int `json:"settled"`
}

type SettleEntriesRequest struct {
	GroupID  string   `json:"groupId"`
	EntryIDs []string `json:"entryIds"`
}

type SettleEntriesResponse struct {
	Settled int `json:"settled"`
}

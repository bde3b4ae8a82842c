// Package api defines the groupledger.v1 Connect services: message types,
// procedure names, handler and client constructors.
//
// Messages are plain Go structs carried by a JSON codec, so any Connect
// client speaking application/json can call the server, including curl:
//
//	curl -H 'Content-Type: application/json' -d '{"groupId":"..."}' \
//	    http://localhost:8080/groupledger.v1.LedgerService/SimplifyDebts
package api

const (
	// GroupServiceName is the fully-qualified name of the GroupService service.
	GroupServiceName = "groupledger.v1.GroupService"
	// LedgerServiceName is the fully-qualified name of the LedgerService service.
	LedgerServiceName = "groupledger.v1.LedgerService"
)

// Procedure names, in the /<service>/<method> form used on the wire.
const (
	GroupServiceCreateGroupProcedure = "/groupledger.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure    = "/groupledger.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure  = "/groupledger.v1.GroupService/ListGroups"
	GroupServiceAddMembersProcedure  = "/groupledger.v1.GroupService/AddMembers"

	LedgerServiceAllocateBillProcedure  = "/groupledger.v1.LedgerService/AllocateBill"
	LedgerServicePostBillProcedure      = "/groupledger.v1.LedgerService/PostBill"
	LedgerServiceSplitBillProcedure     = "/groupledger.v1.LedgerService/SplitBill"
	LedgerServiceListEntriesProcedure   = "/groupledger.v1.LedgerService/ListEntries"
	LedgerServiceSimplifyDebtsProcedure = "/groupledger.v1.LedgerService/SimplifyDebts"
	LedgerServiceGetBalancesProcedure   = "/groupledger.v1.LedgerService/GetBalances"
	LedgerServiceSettleAllProcedure     = "/groupledger.v1.LedgerService/SettleAll"
	LedgerServiceSettleEntriesProcedure = "/groupledger.v1.LedgerService/SettleEntries"
)

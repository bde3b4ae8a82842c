package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// GroupServiceHandler is implemented by the server side of GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	AddMembers(context.Context, *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error)
}

// LedgerServiceHandler is implemented by the server side of LedgerService.
type LedgerServiceHandler interface {
	AllocateBill(context.Context, *connect.Request[AllocateBillRequest]) (*connect.Response[AllocateBillResponse], error)
	PostBill(context.Context, *connect.Request[PostBillRequest]) (*connect.Response[PostBillResponse], error)
	SplitBill(context.Context, *connect.Request[SplitBillRequest]) (*connect.Response[SplitBillResponse], error)
	ListEntries(context.Context, *connect.Request[ListEntriesRequest]) (*connect.Response[ListEntriesResponse], error)
	SimplifyDebts(context.Context, *connect.Request[SimplifyDebtsRequest]) (*connect.Response[SimplifyDebtsResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	SettleAll(context.Context, *connect.Request[SettleAllRequest]) (*connect.Response[SettleAllResponse], error)
	SettleEntries(context.Context, *connect.Request[SettleEntriesRequest]) (*connect.Response[SettleEntriesResponse], error)
}

// handlerOptions puts the JSON codec first so callers can still add
// interceptors and other options.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

// NewGroupServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		GroupServiceCreateGroupProcedure: connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceGetGroupProcedure:    connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceListGroupsProcedure:  connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...),
		GroupServiceAddMembersProcedure:  connect.NewUnaryHandler(GroupServiceAddMembersProcedure, svc.AddMembers, opts...),
	}
	return "/" + GroupServiceName + "/", route(routes)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		LedgerServiceAllocateBillProcedure:  connect.NewUnaryHandler(LedgerServiceAllocateBillProcedure, svc.AllocateBill, opts...),
		LedgerServicePostBillProcedure:      connect.NewUnaryHandler(LedgerServicePostBillProcedure, svc.PostBill, opts...),
		LedgerServiceSplitBillProcedure:     connect.NewUnaryHandler(LedgerServiceSplitBillProcedure, svc.SplitBill, opts...),
		LedgerServiceListEntriesProcedure:   connect.NewUnaryHandler(LedgerServiceListEntriesProcedure, svc.ListEntries, opts...),
		LedgerServiceSimplifyDebtsProcedure: connect.NewUnaryHandler(LedgerServiceSimplifyDebtsProcedure, svc.SimplifyDebts, opts...),
		LedgerServiceGetBalancesProcedure:   connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...),
		LedgerServiceSettleAllProcedure:     connect.NewUnaryHandler(LedgerServiceSettleAllProcedure, svc.SettleAll, opts...),
		LedgerServiceSettleEntriesProcedure: connect.NewUnaryHandler(LedgerServiceSettleEntriesProcedure, svc.SettleEntries, opts...),
	}
	return "/" + LedgerServiceName + "/", route(routes)
}

func route(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

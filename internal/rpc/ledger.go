package rpc

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/api"
	"github.com/mmynk/groupledger/internal/service"
)

// LedgerServer implements api.LedgerServiceHandler.
type LedgerServer struct {
	svc *service.LedgerService
}

var _ api.LedgerServiceHandler = (*LedgerServer)(nil)

// NewLedgerServer creates a LedgerServer backed by svc.
func NewLedgerServer(svc *service.LedgerService) *LedgerServer {
	return &LedgerServer{svc: svc}
}

// AllocateBill allocates a bill over the group's members without posting it.
func (s *LedgerServer) AllocateBill(ctx context.Context, req *connect.Request[api.AllocateBillRequest]) (*connect.Response[api.AllocateBillResponse], error) {
	if err := requireGroupID(req.Msg.GroupID); err != nil {
		return nil, err
	}
	alloc, err := s.svc.AllocateBill(ctx, req.Msg.GroupID, service.Bill{
		Items:   req.Msg.Items,
		Charges: req.Msg.Charges,
		Treat:   req.Msg.Treat,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AllocateBillResponse{Allocation: alloc}), nil
}

// PostBill appends one entry per member owing the payer.
func (s *LedgerServer) PostBill(ctx context.Context, req *connect.Request[api.PostBillRequest]) (*connect.Response[api.PostBillResponse], error) {
	if err := requireGroupID(req.Msg.GroupID); err != nil {
		return nil, err
	}
	entries, err := s.svc.PostBill(ctx, req.Msg.GroupID, req.Msg.PayerID, req.Msg.MemberTotals, req.Msg.Note)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.PostBillResponse{Entries: entries}), nil
}

// SplitBill allocates and posts a bill in one call.
func (s *LedgerServer) SplitBill(ctx context.Context, req *connect.Request[api.SplitBillRequest]) (*connect.Response[api.SplitBillResponse], error) {
	if err := requireGroupID(req.Msg.GroupID); err != nil {
		return nil, err
	}
	alloc, entries, err := s.svc.SplitBill(ctx, req.Msg.GroupID, req.Msg.PayerID, service.Bill{
		Items:   req.Msg.Items,
		Charges: req.Msg.Charges,
		Treat:   req.Msg.Treat,
	}, req.Msg.Note)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SplitBillResponse{Allocation: alloc, Entries: entries}), nil
}

// ListEntries returns the group's ledger in insertion order.
func (s *LedgerServer) ListEntries(ctx context.Context, req *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error) {
	if err := requireGroupID(req.Msg.GroupID); err != nil {
		return nil, err
	}
	entries, err := s.svc.Entries(ctx, req.Msg.GroupID, req.Msg.UnsettledOnly)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListEntriesResponse{Entries: entries}), nil
}

// SimplifyDebts proposes transfers that clear the unsettled ledger.
func (s *LedgerServer) SimplifyDebts(ctx context.Context, req *connect.Request[api.SimplifyDebtsRequest]) (*connect.Response[api.SimplifyDebtsResponse], error) {
	if err := requireGroupID(req.Msg.GroupID); err != nil {
		return nil, err
	}
	settlements, err := s.svc.Simplify(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SimplifyDebtsResponse{Settlements: settlements}), nil
}

// GetBalances returns each member's net position.
func (s *LedgerServer) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	if err := requireGroupID(req.Msg.GroupID); err != nil {
		return nil, err
	}
	balances, err := s.svc.Balances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetBalancesResponse{Balances: balances}), nil
}

// SettleAll flags every unsettled entry settled.
func (s *LedgerServer) SettleAll(ctx context.Context, req *connect.Request[api.SettleAllRequest]) (*connect.Response[api.SettleAllResponse], error) {
	if err := requireGroupID(req.Msg.GroupID); err != nil {
		return nil, err
	}
	n, err := s.svc.SettleAll(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SettleAllResponse{Settled: n}), nil
}

// SettleEntries flags the named entries settled.
func (s *LedgerServer) SettleEntries(ctx context.Context, req *connect.Request[api.SettleEntriesRequest]) (*connect.Response[api.SettleEntriesResponse], error) {
	if err := requireGroupID(req.Msg.GroupID); err != nil {
		return nil, err
	}
	n, err := s.svc.SettleEntries(ctx, req.Msg.GroupID, req.Msg.EntryIDs)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SettleEntriesResponse{Settled: n}), nil
}

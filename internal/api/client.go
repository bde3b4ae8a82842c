package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// GroupServiceClient is a client for the groupledger.v1.GroupService service.
type GroupServiceClient struct {
	createGroup *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup    *connect.Client[GetGroupRequest, GetGroupResponse]
	listGroups  *connect.Client[ListGroupsRequest, ListGroupsResponse]
	addMembers  *connect.Client[AddMembersRequest, AddMembersResponse]
}

// LedgerServiceClient is a client for the groupledger.v1.LedgerService service.
type LedgerServiceClient struct {
	allocateBill  *connect.Client[AllocateBillRequest, AllocateBillResponse]
	postBill      *connect.Client[PostBillRequest, PostBillResponse]
	splitBill     *connect.Client[SplitBillRequest, SplitBillResponse]
	listEntries   *connect.Client[ListEntriesRequest, ListEntriesResponse]
	simplifyDebts *connect.Client[SimplifyDebtsRequest, SimplifyDebtsResponse]
	getBalances   *connect.Client[GetBalancesRequest, GetBalancesResponse]
	settleAll     *connect.Client[SettleAllRequest, SettleAllResponse]
	settleEntries *connect.Client[SettleEntriesRequest, SettleEntriesResponse]
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

// NewGroupServiceClient constructs a client for the GroupService service.
// baseURL is the server root, for example http://localhost:8080.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &GroupServiceClient{
		createGroup: connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:    connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:  connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		addMembers:  connect.NewClient[AddMembersRequest, AddMembersResponse](httpClient, baseURL+GroupServiceAddMembersProcedure, opts...),
	}
}

// CreateGroup calls groupledger.v1.GroupService.CreateGroup.
func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

// GetGroup calls groupledger.v1.GroupService.GetGroup.
func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

// ListGroups calls groupledger.v1.GroupService.ListGroups.
func (c *GroupServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

// AddMembers calls groupledger.v1.GroupService.AddMembers.
func (c *GroupServiceClient) AddMembers(ctx context.Context, req *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error) {
	return c.addMembers.CallUnary(ctx, req)
}

// NewLedgerServiceClient constructs a client for the LedgerService service.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &LedgerServiceClient{
		allocateBill:  connect.NewClient[AllocateBillRequest, AllocateBillResponse](httpClient, baseURL+LedgerServiceAllocateBillProcedure, opts...),
		postBill:      connect.NewClient[PostBillRequest, PostBillResponse](httpClient, baseURL+LedgerServicePostBillProcedure, opts...),
		splitBill:     connect.NewClient[SplitBillRequest, SplitBillResponse](httpClient, baseURL+LedgerServiceSplitBillProcedure, opts...),
		listEntries:   connect.NewClient[ListEntriesRequest, ListEntriesResponse](httpClient, baseURL+LedgerServiceListEntriesProcedure, opts...),
		simplifyDebts: connect.NewClient[SimplifyDebtsRequest, SimplifyDebtsResponse](httpClient, baseURL+LedgerServiceSimplifyDebtsProcedure, opts...),
		getBalances:   connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		settleAll:     connect.NewClient[SettleAllRequest, SettleAllResponse](httpClient, baseURL+LedgerServiceSettleAllProcedure, opts...),
		settleEntries: connect.NewClient[SettleEntriesRequest, SettleEntriesResponse](httpClient, baseURL+LedgerServiceSettleEntriesProcedure, opts...),
	}
}

// AllocateBill calls groupledger.v1.LedgerService.AllocateBill.
func (c *LedgerServiceClient) AllocateBill(ctx context.Context, req *connect.Request[AllocateBillRequest]) (*connect.Response[AllocateBillResponse], error) {
	return c.allocateBill.CallUnary(ctx, req)
}

// PostBill calls groupledger.v1.LedgerService.PostBill.
func (c *LedgerServiceClient) PostBill(ctx context.Context, req *connect.Request[PostBillRequest]) (*connect.Response[PostBillResponse], error) {
	return c.postBill.CallUnary(ctx, req)
}

// SplitBill calls groupledger.v1.LedgerService.SplitBill.
func (c *LedgerServiceClient) SplitBill(ctx context.Context, req *connect.Request[SplitBillRequest]) (*connect.Response[SplitBillResponse], error) {
	return c.splitBill.CallUnary(ctx, req)
}

// ListEntries calls groupledger.v1.LedgerService.ListEntries.
func (c *LedgerServiceClient) ListEntries(ctx context.Context, req *connect.Request[ListEntriesRequest]) (*connect.Response[ListEntriesResponse], error) {
	return c.listEntries.CallUnary(ctx, req)
}

// SimplifyDebts calls groupledger.v1.LedgerService.SimplifyDebts.
func (c *LedgerServiceClient) SimplifyDebts(ctx context.Context, req *connect.Request[SimplifyDebtsRequest]) (*connect.Response[SimplifyDebtsResponse], error) {
	return c.simplifyDebts.CallUnary(ctx, req)
}

// GetBalances calls groupledger.v1.LedgerService.GetBalances.
func (c *LedgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

// SettleAll calls groupledger.v1.LedgerService.SettleAll.
func (c *LedgerServiceClient) SettleAll(ctx context.Context, req *connect.Request[SettleAllRequest]) (*connect.Response[SettleAllResponse], error) {
	return c.settleAll.CallUnary(ctx, req)
}

// SettleEntries calls groupledger.v1.LedgerService.SettleEntries.
func (c *LedgerServiceClient) SettleEntries(ctx context.Context, req *connect.Request[SettleEntriesRequest]) (*connect.Response[SettleEntriesResponse], error) {
	return c.settleEntries.CallUnary(ctx, req)
}

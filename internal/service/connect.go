package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	// LedgerServiceName is the fully-qualified name of the LedgerService.
	LedgerServiceName = "splitledger.v1.LedgerService"
	// GroupServiceName is the fully-qualified name of the GroupService.
	GroupServiceName = "splitledger.v1.GroupService"
)

// Procedure paths, in the form Connect routes them.
const (
	LedgerServiceRecordIndividualExpenseProcedure = "/splitledger.v1.LedgerService/RecordIndividualExpense"
	LedgerServiceRecordGroupExpenseProcedure      = "/splitledger.v1.LedgerService/RecordGroupExpense"
	LedgerServiceRecalculateGroupSplitsProcedure  = "/splitledger.v1.LedgerService/RecalculateGroupSplits"
	LedgerServiceListGroupSplitsProcedure         = "/splitledger.v1.LedgerService/ListGroupSplits"
	LedgerServiceClearGroupSplitsProcedure        = "/splitledger.v1.LedgerService/ClearGroupSplits"
	LedgerServiceSettleShareProcedure             = "/splitledger.v1.LedgerService/SettleShare"
	LedgerServiceDeleteExpenseProcedure           = "/splitledger.v1.LedgerService/DeleteExpense"
	LedgerServiceListGroupExpensesProcedure       = "/splitledger.v1.LedgerService/ListGroupExpenses"
	LedgerServiceGetBalancesProcedure             = "/splitledger.v1.LedgerService/GetBalances"
	LedgerServiceGetHistoryProcedure              = "/splitledger.v1.LedgerService/GetHistory"

	GroupServiceCreateGroupProcedure = "/splitledger.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure    = "/splitledger.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure  = "/splitledger.v1.GroupService/ListGroups"
	GroupServiceDeleteGroupProcedure = "/splitledger.v1.GroupService/DeleteGroup"
	GroupServiceAddFriendProcedure   = "/splitledger.v1.GroupService/AddFriend"
	GroupServiceListFriendsProcedure = "/splitledger.v1.GroupService/ListFriends"
)

// routes dispatches on the full procedure path.
type routes map[string]http.Handler

func (r routes) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h, ok := r[req.URL.Path]; ok {
		h.ServeHTTP(w, req)
		return
	}
	http.NotFound(w, req)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// NewLedgerServiceHandler builds an HTTP handler for svc. It returns the path
// on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + LedgerServiceName + "/", routes{
		LedgerServiceRecordIndividualExpenseProcedure: connect.NewUnaryHandler(LedgerServiceRecordIndividualExpenseProcedure, svc.RecordIndividualExpense, opts...),
		LedgerServiceRecordGroupExpenseProcedure:      connect.NewUnaryHandler(LedgerServiceRecordGroupExpenseProcedure, svc.RecordGroupExpense, opts...),
		LedgerServiceRecalculateGroupSplitsProcedure:  connect.NewUnaryHandler(LedgerServiceRecalculateGroupSplitsProcedure, svc.RecalculateGroupSplits, opts...),
		LedgerServiceListGroupSplitsProcedure:         connect.NewUnaryHandler(LedgerServiceListGroupSplitsProcedure, svc.ListGroupSplits, opts...),
		LedgerServiceClearGroupSplitsProcedure:        connect.NewUnaryHandler(LedgerServiceClearGroupSplitsProcedure, svc.ClearGroupSplits, opts...),
		LedgerServiceSettleShareProcedure:             connect.NewUnaryHandler(LedgerServiceSettleShareProcedure, svc.SettleShare, opts...),
		LedgerServiceDeleteExpenseProcedure:           connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		LedgerServiceListGroupExpensesProcedure:       connect.NewUnaryHandler(LedgerServiceListGroupExpensesProcedure, svc.ListGroupExpenses, opts...),
		LedgerServiceGetBalancesProcedure:             connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...),
		LedgerServiceGetHistoryProcedure:              connect.NewUnaryHandler(LedgerServiceGetHistoryProcedure, svc.GetHistory, opts...),
	}
}

// NewGroupServiceHandler builds an HTTP handler for svc. It returns the path
// on which to mount the handler and the handler itself.
func NewGroupServiceHandler(svc *GroupService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + GroupServiceName + "/", routes{
		GroupServiceCreateGroupProcedure: connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceGetGroupProcedure:    connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceListGroupsProcedure:  connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...),
		GroupServiceDeleteGroupProcedure: connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...),
		GroupServiceAddFriendProcedure:   connect.NewUnaryHandler(GroupServiceAddFriendProcedure, svc.AddFriend, opts...),
		GroupServiceListFriendsProcedure: connect.NewUnaryHandler(GroupServiceListFriendsProcedure, svc.ListFriends, opts...),
	}
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient struct {
	recordIndividualExpense *connect.Client[RecordIndividualExpenseRequest, ExpenseResponse]
	recordGroupExpense      *connect.Client[RecordGroupExpenseRequest, ExpenseResponse]
	recalculateGroupSplits  *connect.Client[GroupRequest, SplitsResponse]
	listGroupSplits         *connect.Client[GroupRequest, SplitsResponse]
	clearGroupSplits        *connect.Client[GroupRequest, emptypb.Empty]
	settleShare             *connect.Client[SettleShareRequest, SettleShareResponse]
	deleteExpense           *connect.Client[DeleteExpenseRequest, emptypb.Empty]
	listGroupExpenses       *connect.Client[GroupRequest, ListExpensesResponse]
	getBalances             *connect.Client[emptypb.Empty, BalancesResponse]
	getHistory              *connect.Client[emptypb.Empty, HistoryResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService at baseURL
// (for example, http://api.acme.com or https://acme.com/grpc).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &LedgerServiceClient{
		recordIndividualExpense: connect.NewClient[RecordIndividualExpenseRequest, ExpenseResponse](httpClient, baseURL+LedgerServiceRecordIndividualExpenseProcedure, opts...),
		recordGroupExpense:      connect.NewClient[RecordGroupExpenseRequest, ExpenseResponse](httpClient, baseURL+LedgerServiceRecordGroupExpenseProcedure, opts...),
		recalculateGroupSplits:  connect.NewClient[GroupRequest, SplitsResponse](httpClient, baseURL+LedgerServiceRecalculateGroupSplitsProcedure, opts...),
		listGroupSplits:         connect.NewClient[GroupRequest, SplitsResponse](httpClient, baseURL+LedgerServiceListGroupSplitsProcedure, opts...),
		clearGroupSplits:        connect.NewClient[GroupRequest, emptypb.Empty](httpClient, baseURL+LedgerServiceClearGroupSplitsProcedure, opts...),
		settleShare:             connect.NewClient[SettleShareRequest, SettleShareResponse](httpClient, baseURL+LedgerServiceSettleShareProcedure, opts...),
		deleteExpense:           connect.NewClient[DeleteExpenseRequest, emptypb.Empty](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		listGroupExpenses:       connect.NewClient[GroupRequest, ListExpensesResponse](httpClient, baseURL+LedgerServiceListGroupExpensesProcedure, opts...),
		getBalances:             connect.NewClient[emptypb.Empty, BalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getHistory:              connect.NewClient[emptypb.Empty, HistoryResponse](httpClient, baseURL+LedgerServiceGetHistoryProcedure, opts...),
	}
}

func (c *LedgerServiceClient) RecordIndividualExpense(ctx context.Context, req *connect.Request[RecordIndividualExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.recordIndividualExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RecordGroupExpense(ctx context.Context, req *connect.Request[RecordGroupExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.recordGroupExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RecalculateGroupSplits(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[SplitsResponse], error) {
	return c.recalculateGroupSplits.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListGroupSplits(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[SplitsResponse], error) {
	return c.listGroupSplits.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ClearGroupSplits(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.clearGroupSplits.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SettleShare(ctx context.Context, req *connect.Request[SettleShareRequest]) (*connect.Response[SettleShareResponse], error) {
	return c.settleShare.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListGroupExpenses(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listGroupExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[BalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetHistory(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[HistoryResponse], error) {
	return c.getHistory.CallUnary(ctx, req)
}

// GroupServiceClient is a client for the GroupService.
type GroupServiceClient struct {
	createGroup *connect.Client[CreateGroupRequest, GroupResponse]
	getGroup    *connect.Client[GroupRequest, GroupResponse]
	listGroups  *connect.Client[emptypb.Empty, ListGroupsResponse]
	deleteGroup *connect.Client[GroupRequest, emptypb.Empty]
	addFriend   *connect.Client[AddFriendRequest, emptypb.Empty]
	listFriends *connect.Client[emptypb.Empty, ListFriendsResponse]
}

// NewGroupServiceClient constructs a client for the GroupService at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &GroupServiceClient{
		createGroup: connect.NewClient[CreateGroupRequest, GroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:    connect.NewClient[GroupRequest, GroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:  connect.NewClient[emptypb.Empty, ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		deleteGroup: connect.NewClient[GroupRequest, emptypb.Empty](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
		addFriend:   connect.NewClient[AddFriendRequest, emptypb.Empty](httpClient, baseURL+GroupServiceAddFriendProcedure, opts...),
		listFriends: connect.NewClient[emptypb.Empty, ListFriendsResponse](httpClient, baseURL+GroupServiceListFriendsProcedure, opts...),
	}
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[GroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[GroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListGroups(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddFriend(ctx context.Context, req *connect.Request[AddFriendRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.addFriend.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListFriends(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListFriendsResponse], error) {
	return c.listFriends.CallUnary(ctx, req)
}

package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/pkg/api"
)

// SettlementServiceName is the fully-qualified name of the SettlementService service.
const SettlementServiceName = "tripsplit.v1.SettlementService"

// Procedure names of the SettlementService.
const (
	SettlementServiceGetBalancesProcedure     = "/tripsplit.v1.SettlementService/GetBalances"
	SettlementServiceListSettlementsProcedure = "/tripsplit.v1.SettlementService/ListSettlements"
	SettlementServiceMarkSettledProcedure     = "/tripsplit.v1.SettlementService/MarkSettled"
	SettlementServiceUndoSettlementProcedure  = "/tripsplit.v1.SettlementService/UndoSettlement"
)

// SettlementServiceHandler is implemented by the server side of balances and settlements of a trip.
type SettlementServiceHandler interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	MarkSettled(context.Context, *connect.Request[api.MarkSettledRequest]) (*connect.Response[api.MarkSettledResponse], error)
	UndoSettlement(context.Context, *connect.Request[api.UndoSettlementRequest]) (*connect.Response[api.UndoSettlementResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler for the service. It returns the
// path to mount the handler on.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	option := handlerOptions(opts)
	return serviceHandler("/"+SettlementServiceName+"/", map[string]http.Handler{
		SettlementServiceGetBalancesProcedure:     connect.NewUnaryHandler(SettlementServiceGetBalancesProcedure, svc.GetBalances, option),
		SettlementServiceListSettlementsProcedure: connect.NewUnaryHandler(SettlementServiceListSettlementsProcedure, svc.ListSettlements, option),
		SettlementServiceMarkSettledProcedure:     connect.NewUnaryHandler(SettlementServiceMarkSettledProcedure, svc.MarkSettled, option),
		SettlementServiceUndoSettlementProcedure:  connect.NewUnaryHandler(SettlementServiceUndoSettlementProcedure, svc.UndoSettlement, option),
	})
}

// SettlementServiceClient is a client for the SettlementService.
type SettlementServiceClient struct {
	getBalances     *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	listSettlements *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	markSettled     *connect.Client[api.MarkSettledRequest, api.MarkSettledResponse]
	undoSettlement  *connect.Client[api.UndoSettlementRequest, api.UndoSettlementResponse]
}

// NewSettlementServiceClient constructs a client for the service at baseURL
// (for example, http://localhost:8080).
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SettlementServiceClient {
	option := clientOptions(opts)
	return &SettlementServiceClient{
		getBalances:     connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+SettlementServiceGetBalancesProcedure, option),
		listSettlements: connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+SettlementServiceListSettlementsProcedure, option),
		markSettled:     connect.NewClient[api.MarkSettledRequest, api.MarkSettledResponse](httpClient, baseURL+SettlementServiceMarkSettledProcedure, option),
		undoSettlement:  connect.NewClient[api.UndoSettlementRequest, api.UndoSettlementResponse](httpClient, baseURL+SettlementServiceUndoSettlementProcedure, option),
	}
}

func (c *SettlementServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) MarkSettled(ctx context.Context, req *connect.Request[api.MarkSettledRequest]) (*connect.Response[api.MarkSettledResponse], error) {
	return c.markSettled.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) UndoSettlement(ctx context.Context, req *connect.Request[api.UndoSettlementRequest]) (*connect.Response[api.UndoSettlementResponse], error) {
	return c.undoSettlement.CallUnary(ctx, req)
}

// UnimplementedSettlementServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSettlementServiceHandler struct{}

func (UnimplementedSettlementServiceHandler) GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsplit.v1.SettlementService.GetBalances is not implemented"))
}

func (UnimplementedSettlementServiceHandler) ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsplit.v1.SettlementService.ListSettlements is not implemented"))
}

func (UnimplementedSettlementServiceHandler) MarkSettled(context.Context, *connect.Request[api.MarkSettledRequest]) (*connect.Response[api.MarkSettledResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsplit.v1.SettlementService.MarkSettled is not implemented"))
}

func (UnimplementedSettlementServiceHandler) UndoSettlement(context.Context, *connect.Request[api.UndoSettlementRequest]) (*connect.Response[api.UndoSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsplit.v1.SettlementService.UndoSettlement is not implemented"))
}

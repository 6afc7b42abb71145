package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/pkg/api"
)

// TripServiceName is the fully-qualified name of the TripService service.
const TripServiceName = "tripsplit.v1.TripService"

// Procedure names of the TripService.
const (
	TripServiceCreateTripProcedure     = "/tripsplit.v1.TripService/CreateTrip"
	TripServiceGetTripProcedure        = "/tripsplit.v1.TripService/GetTrip"
	TripServiceListTripsProcedure      = "/tripsplit.v1.TripService/ListTrips"
	TripServiceUpdateTripProcedure     = "/tripsplit.v1.TripService/UpdateTrip"
	TripServiceDeleteTripProcedure     = "/tripsplit.v1.TripService/DeleteTrip"
	TripServiceAddMemberProcedure      = "/tripsplit.v1.TripService/AddMember"
	TripServiceUpdateMemberProcedure   = "/tripsplit.v1.TripService/UpdateMember"
	TripServiceRemoveMemberProcedure   = "/tripsplit.v1.TripService/RemoveMember"
	TripServiceGetTripSummaryProcedure = "/tripsplit.v1.TripService/GetTripSummary"
)

// TripServiceHandler is implemented by the server side of trips and their members.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	UpdateTrip(context.Context, *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error)
	DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	UpdateMember(context.Context, *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	GetTripSummary(context.Context, *connect.Request[api.GetTripSummaryRequest]) (*connect.Response[api.GetTripSummaryResponse], error)
}

// NewTripServiceHandler builds an HTTP handler for the service. It returns the
// path to mount the handler on.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	option := handlerOptions(opts)
	return serviceHandler("/"+TripServiceName+"/", map[string]http.Handler{
		TripServiceCreateTripProcedure:     connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, option),
		TripServiceGetTripProcedure:        connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, option),
		TripServiceListTripsProcedure:      connect.NewUnaryHandler(TripServiceListTripsProcedure, svc.ListTrips, option),
		TripServiceUpdateTripProcedure:     connect.NewUnaryHandler(TripServiceUpdateTripProcedure, svc.UpdateTrip, option),
		TripServiceDeleteTripProcedure:     connect.NewUnaryHandler(TripServiceDeleteTripProcedure, svc.DeleteTrip, option),
		TripServiceAddMemberProcedure:      connect.NewUnaryHandler(TripServiceAddMemberProcedure, svc.AddMember, option),
		TripServiceUpdateMemberProcedure:   connect.NewUnaryHandler(TripServiceUpdateMemberProcedure, svc.UpdateMember, option),
		TripServiceRemoveMemberProcedure:   connect.NewUnaryHandler(TripServiceRemoveMemberProcedure, svc.RemoveMember, option),
		TripServiceGetTripSummaryProcedure: connect.NewUnaryHandler(TripServiceGetTripSummaryProcedure, svc.GetTripSummary, option),
	})
}

// TripServiceClient is a client for the TripService.
type TripServiceClient struct {
	createTrip     *connect.Client[api.CreateTripRequest, api.CreateTripResponse]
	getTrip        *connect.Client[api.GetTripRequest, api.GetTripResponse]
	listTrips      *connect.Client[api.ListTripsRequest, api.ListTripsResponse]
	updateTrip     *connect.Client[api.UpdateTripRequest, api.UpdateTripResponse]
	deleteTrip     *connect.Client[api.DeleteTripRequest, api.DeleteTripResponse]
	addMember      *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	updateMember   *connect.Client[api.UpdateMemberRequest, api.UpdateMemberResponse]
	removeMember   *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	getTripSummary *connect.Client[api.GetTripSummaryRequest, api.GetTripSummaryResponse]
}

// NewTripServiceClient constructs a client for the service at baseURL
// (for example, http://localhost:8080).
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TripServiceClient {
	option := clientOptions(opts)
	return &TripServiceClient{
		createTrip:     connect.NewClient[api.CreateTripRequest, api.CreateTripResponse](httpClient, baseURL+TripServiceCreateTripProcedure, option),
		getTrip:        connect.NewClient[api.GetTripRequest, api.GetTripResponse](httpClient, baseURL+TripServiceGetTripProcedure, option),
		listTrips:      connect.NewClient[api.ListTripsRequest, api.ListTripsResponse](httpClient, baseURL+TripServiceListTripsProcedure, option),
		updateTrip:     connect.NewClient[api.UpdateTripRequest, api.UpdateTripResponse](httpClient, baseURL+TripServiceUpdateTripProcedure, option),
		deleteTrip:     connect.NewClient[api.DeleteTripRequest, api.DeleteTripResponse](httpClient, baseURL+TripServiceDeleteTripProcedure, option),
		addMember:      connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+TripServiceAddMemberProcedure, option),
		updateMember:   connect.NewClient[api.UpdateMemberRequest, api.UpdateMemberResponse](httpClient, baseURL+TripServiceUpdateMemberProcedure, option),
		removeMember:   connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL+TripServiceRemoveMemberProcedure, option),
		getTripSummary: connect.NewClient[api.GetTripSummaryRequest, api.GetTripSummaryResponse](httpClient, baseURL+TripServiceGetTripSummaryProcedure, option),
	}
}

func (c *TripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return c.listTrips.CallUnary(ctx, req)
}

func (c *TripServiceClient) UpdateTrip(ctx context.Context, req *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error) {
	return c.updateTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	return c.deleteTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *TripServiceClient) UpdateMember(ctx context.Context, req *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error) {
	return c.updateMember.CallUnary(ctx, req)
}

func (c *TripServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *TripServiceClient) GetTripSummary(ctx context.Context, req *connect.Request[api.GetTripSummaryRequest]) (*connect.Response[api.GetTripSummaryResponse], error) {
	return c.getTripSummary.CallUnary(ctx, req)
}

// UnimplementedTripServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedTripServiceHandler struct{}

func (UnimplementedTripServiceHandler) CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsplit.v1.TripService.CreateTrip is not implemented"))
}

func (UnimplementedTripServiceHandler) GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsplit.v1.TripService.GetTrip is not implemented"))
}

func (UnimplementedTripServiceHandler) ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsplit.v1.TripService.ListTrips is not implemented"))
}

func (UnimplementedTripServiceHandler) UpdateTrip(context.Context, *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsplit.v1.TripService.UpdateTrip is not implemented"))
}

func (UnimplementedTripServiceHandler) DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsplit.v1.TripService.DeleteTrip is not implemented"))
}

func (UnimplementedTripServiceHandler) AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsplit.v1.TripService.AddMember is not implemented"))
}

func (UnimplementedTripServiceHandler) UpdateMember(context.Context, *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsplit.v1.TripService.UpdateMember is not implemented"))
}

func (UnimplementedTripServiceHandler) RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsplit.v1.TripService.RemoveMember is not implemented"))
}

func (UnimplementedTripServiceHandler) GetTripSummary(context.Context, *connect.Request[api.GetTripSummaryRequest]) (*connect.Response[api.GetTripSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsplit.v1.TripService.GetTripSummary is not implemented"))
}

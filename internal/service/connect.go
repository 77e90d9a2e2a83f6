package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// SplitServiceName is the fully-qualified name of the split service.
const SplitServiceName = "receiptsplit.v1.SplitService"

const (
	NormalizeProcedure        = "/" + SplitServiceName + "/Normalize"
	AddPersonProcedure        = "/" + SplitServiceName + "/AddPerson"
	ToggleAssignmentProcedure = "/" + SplitServiceName + "/ToggleAssignment"
	RemovePersonProcedure     = "/" + SplitServiceName + "/RemovePerson"
	SplitEvenlyProcedure      = "/" + SplitServiceName + "/SplitEvenly"
	ComputeTotalsProcedure    = "/" + SplitServiceName + "/ComputeTotals"
)

// NewSplitServiceHandler builds an HTTP handler for every procedure of svc.
// It returns the path prefix to mount the handler on.
func NewSplitServiceHandler(svc *SplitService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(NormalizeProcedure, connect.NewUnaryHandler(NormalizeProcedure, svc.Normalize, opts...))
	mux.Handle(AddPersonProcedure, connect.NewUnaryHandler(AddPersonProcedure, svc.AddPerson, opts...))
	mux.Handle(ToggleAssignmentProcedure, connect.NewUnaryHandler(ToggleAssignmentProcedure, svc.ToggleAssignment, opts...))
	mux.Handle(RemovePersonProcedure, connect.NewUnaryHandler(RemovePersonProcedure, svc.RemovePerson, opts...))
	mux.Handle(SplitEvenlyProcedure, connect.NewUnaryHandler(SplitEvenlyProcedure, svc.SplitEvenly, opts...))
	mux.Handle(ComputeTotalsProcedure, connect.NewUnaryHandler(ComputeTotalsProcedure, svc.ComputeTotals, opts...))
	return "/" + SplitServiceName + "/", mux
}

// SplitServiceClient calls the split service over Connect.
type SplitServiceClient struct {
	normalize        *connect.Client[NormalizeRequest, NormalizeResponse]
	addPerson        *connect.Client[AddPersonRequest, AddPersonResponse]
	toggleAssignment *connect.Client[ToggleAssignmentRequest, ToggleAssignmentResponse]
	removePerson     *connect.Client[RemovePersonRequest, RemovePersonResponse]
	splitEvenly      *connect.Client[SplitEvenlyRequest, SplitEvenlyResponse]
	computeTotals    *connect.Client[ComputeTotalsRequest, ComputeTotalsResponse]
}

// NewSplitServiceClient creates a client for the service at baseURL.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SplitServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &SplitServiceClient{
		normalize:        connect.NewClient[NormalizeRequest, NormalizeResponse](httpClient, baseURL+NormalizeProcedure, opts...),
		addPerson:        connect.NewClient[AddPersonRequest, AddPersonResponse](httpClient, baseURL+AddPersonProcedure, opts...),
		toggleAssignment: connect.NewClient[ToggleAssignmentRequest, ToggleAssignmentResponse](httpClient, baseURL+ToggleAssignmentProcedure, opts...),
		removePerson:     connect.NewClient[RemovePersonRequest, RemovePersonResponse](httpClient, baseURL+RemovePersonProcedure, opts...),
		splitEvenly:      connect.NewClient[SplitEvenlyRequest, SplitEvenlyResponse](httpClient, baseURL+SplitEvenlyProcedure, opts...),
		computeTotals:    connect.NewClient[ComputeTotalsRequest, ComputeTotalsResponse](httpClient, baseURL+ComputeTotalsProcedure, opts...),
	}
}

func (c *SplitServiceClient) Normalize(ctx context.Context, req *connect.Request[NormalizeRequest]) (*connect.Response[NormalizeResponse], error) {
	return c.normalize.CallUnary(ctx, req)
}

func (c *SplitServiceClient) AddPerson(ctx context.Context, req *connect.Request[AddPersonRequest]) (*connect.Response[AddPersonResponse], error) {
	return c.addPerson.CallUnary(ctx, req)
}

func (c *SplitServiceClient) ToggleAssignment(ctx context.Context, req *connect.Request[ToggleAssignmentRequest]) (*connect.Response[ToggleAssignmentResponse], error) {
	return c.toggleAssignment.CallUnary(ctx, req)
}

func (c *SplitServiceClient) RemovePerson(ctx context.Context, req *connect.Request[RemovePersonRequest]) (*connect.Response[RemovePersonResponse], error) {
	return c.removePerson.CallUnary(ctx, req)
}

func (c *SplitServiceClient) SplitEvenly(ctx context.Context, req *connect.Request[SplitEvenlyRequest]) (*connect.Response[SplitEvenlyResponse], error) {
	return c.splitEvenly.CallUnary(ctx, req)
}

func (c *SplitServiceClient) ComputeTotals(ctx context.Context, req *connect.Request[ComputeTotalsRequest]) (*connect.Response[ComputeTotalsResponse], error) {
	return c.computeTotals.CallUnary(ctx, req)
}

// Package feerpc describes the FeeService Connect API: procedure names, request and
// response messages, a JSON codec, and the handler and client constructors.
package feerpc

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// FeeServiceName is the fully-qualified name of the FeeService service.
const FeeServiceName = "schoolfees.v1.FeeService"

// Procedure paths of the FeeService RPCs.
const (
	FeeServiceListBucketsProcedure         = "/schoolfees.v1.FeeService/ListBuckets"
	FeeServiceCreateBucketProcedure        = "/schoolfees.v1.FeeService/CreateBucket"
	FeeServiceCreateCommonBucketsProcedure = "/schoolfees.v1.FeeService/CreateCommonBuckets"
	FeeServiceListStructuresProcedure      = "/schoolfees.v1.FeeService/ListStructures"
	FeeServiceCreateStructureProcedure     = "/schoolfees.v1.FeeService/CreateStructure"
	FeeServiceUpdateStructureProcedure     = "/schoolfees.v1.FeeService/UpdateStructure"
	FeeServiceDeleteStructureProcedure     = "/schoolfees.v1.FeeService/DeleteStructure"
	FeeServiceListGradesProcedure          = "/schoolfees.v1.FeeService/ListGrades"
	FeeServiceAssignStructureProcedure     = "/schoolfees.v1.FeeService/AssignStructure"
	FeeServiceGenerateInvoicesProcedure    = "/schoolfees.v1.FeeService/GenerateInvoices"
	FeeServiceListGenerationRunsProcedure  = "/schoolfees.v1.FeeService/ListGenerationRuns"
	FeeServiceGetGenerationRunProcedure    = "/schoolfees.v1.FeeService/GetGenerationRun"
	FeeServiceRefreshAllProcedure          = "/schoolfees.v1.FeeService/RefreshAll"
)

// CreatedStructureIDsKey is the error metadata key listing the structures that were
// created before a per-term CreateStructure failed.
const CreatedStructureIDsKey = "X-Created-Structure-Ids"

// FeeServiceClient is a client for the schoolfees.v1.FeeService service.
type FeeServiceClient interface {
	ListBuckets(context.Context, *connect.Request[ListBucketsRequest]) (*connect.Response[ListBucketsResponse], error)
	CreateBucket(context.Context, *connect.Request[CreateBucketRequest]) (*connect.Response[CreateBucketResponse], error)
	CreateCommonBuckets(context.Context, *connect.Request[CreateCommonBucketsRequest]) (*connect.Response[CreateCommonBucketsResponse], error)
	ListStructures(context.Context, *connect.Request[ListStructuresRequest]) (*connect.Response[ListStructuresResponse], error)
	CreateStructure(context.Context, *connect.Request[CreateStructureRequest]) (*connect.Response[CreateStructureResponse], error)
	UpdateStructure(context.Context, *connect.Request[UpdateStructureRequest]) (*connect.Response[UpdateStructureResponse], error)
	DeleteStructure(context.Context, *connect.Request[DeleteStructureRequest]) (*connect.Response[DeleteStructureResponse], error)
	ListGrades(context.Context, *connect.Request[ListGradesRequest]) (*connect.Response[ListGradesResponse], error)
	AssignStructure(context.Context, *connect.Request[AssignStructureRequest]) (*connect.Response[AssignStructureResponse], error)
	GenerateInvoices(context.Context, *connect.Request[GenerateInvoicesRequest]) (*connect.Response[GenerateInvoicesResponse], error)
	ListGenerationRuns(context.Context, *connect.Request[ListGenerationRunsRequest]) (*connect.Response[ListGenerationRunsResponse], error)
	GetGenerationRun(context.Context, *connect.Request[GetGenerationRunRequest]) (*connect.Response[GetGenerationRunResponse], error)
	RefreshAll(context.Context, *connect.Request[RefreshAllRequest]) (*connect.Response[RefreshAllResponse], error)
}

// NewFeeServiceClient constructs a client for the schoolfees.v1.FeeService service.
// Messages are sent with the JSON codec; opts may override it.
//
// The URL supplied here should be the base URL for the Connect server
// (for example, http://api.acme.com or https://acme.com/grpc).
func NewFeeServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) FeeServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &feeServiceClient{
		listBuckets:         connect.NewClient[ListBucketsRequest, ListBucketsResponse](httpClient, baseURL+FeeServiceListBucketsProcedure, opts...),
		createBucket:        connect.NewClient[CreateBucketRequest, CreateBucketResponse](httpClient, baseURL+FeeServiceCreateBucketProcedure, opts...),
		createCommonBuckets: connect.NewClient[CreateCommonBucketsRequest, CreateCommonBucketsResponse](httpClient, baseURL+FeeServiceCreateCommonBucketsProcedure, opts...),
		listStructures:      connect.NewClient[ListStructuresRequest, ListStructuresResponse](httpClient, baseURL+FeeServiceListStructuresProcedure, opts...),
		createStructure:     connect.NewClient[CreateStructureRequest, CreateStructureResponse](httpClient, baseURL+FeeServiceCreateStructureProcedure, opts...),
		updateStructure:     connect.NewClient[UpdateStructureRequest, UpdateStructureResponse](httpClient, baseURL+FeeServiceUpdateStructureProcedure, opts...),
		deleteStructure:     connect.NewClient[DeleteStructureRequest, DeleteStructureResponse](httpClient, baseURL+FeeServiceDeleteStructureProcedure, opts...),
		listGrades:          connect.NewClient[ListGradesRequest, ListGradesResponse](httpClient, baseURL+FeeServiceListGradesProcedure, opts...),
		assignStructure:     connect.NewClient[AssignStructureRequest, AssignStructureResponse](httpClient, baseURL+FeeServiceAssignStructureProcedure, opts...),
		generateInvoices:    connect.NewClient[GenerateInvoicesRequest, GenerateInvoicesResponse](httpClient, baseURL+FeeServiceGenerateInvoicesProcedure, opts...),
		listGenerationRuns:  connect.NewClient[ListGenerationRunsRequest, ListGenerationRunsResponse](httpClient, baseURL+FeeServiceListGenerationRunsProcedure, opts...),
		getGenerationRun:    connect.NewClient[GetGenerationRunRequest, GetGenerationRunResponse](httpClient, baseURL+FeeServiceGetGenerationRunProcedure, opts...),
		refreshAll:          connect.NewClient[RefreshAllRequest, RefreshAllResponse](httpClient, baseURL+FeeServiceRefreshAllProcedure, opts...),
	}
}

type feeServiceClient struct {
	listBuckets         *connect.Client[ListBucketsRequest, ListBucketsResponse]
	createBucket        *connect.Client[CreateBucketRequest, CreateBucketResponse]
	createCommonBuckets *connect.Client[CreateCommonBucketsRequest, CreateCommonBucketsResponse]
	listStructures      *connect.Client[ListStructuresRequest, ListStructuresResponse]
	createStructure     *connect.Client[CreateStructureRequest, CreateStructureResponse]
	updateStructure     *connect.Client[UpdateStructureRequest, UpdateStructureResponse]
	deleteStructure     *connect.Client[DeleteStructureRequest, DeleteStructureResponse]
	listGrades          *connect.Client[ListGradesRequest, ListGradesResponse]
	assignStructure     *connect.Client[AssignStructureRequest, AssignStructureResponse]
	generateInvoices    *connect.Client[GenerateInvoicesRequest, GenerateInvoicesResponse]
	listGenerationRuns  *connect.Client[ListGenerationRunsRequest, ListGenerationRunsResponse]
	getGenerationRun    *connect.Client[GetGenerationRunRequest, GetGenerationRunResponse]
	refreshAll          *connect.Client[RefreshAllRequest, RefreshAllResponse]
}

func (c *feeServiceClient) ListBuckets(ctx context.Context, req *connect.Request[ListBucketsRequest]) (*connect.Response[ListBucketsResponse], error) {
	return c.listBuckets.CallUnary(ctx, req)
}

func (c *feeServiceClient) CreateBucket(ctx context.Context, req *connect.Request[CreateBucketRequest]) (*connect.Response[CreateBucketResponse], error) {
	return c.createBucket.CallUnary(ctx, req)
}

func (c *feeServiceClient) CreateCommonBuckets(ctx context.Context, req *connect.Request[CreateCommonBucketsRequest]) (*connect.Response[CreateCommonBucketsResponse], error) {
	return c.createCommonBuckets.CallUnary(ctx, req)
}

func (c *feeServiceClient) ListStructures(ctx context.Context, req *connect.Request[ListStructuresRequest]) (*connect.Response[ListStructuresResponse], error) {
	return c.listStructures.CallUnary(ctx, req)
}

func (c *feeServiceClient) CreateStructure(ctx context.Context, req *connect.Request[CreateStructureRequest]) (*connect.Response[CreateStructureResponse], error) {
	return c.createStructure.CallUnary(ctx, req)
}

func (c *feeServiceClient) UpdateStructure(ctx context.Context, req *connect.Request[UpdateStructureRequest]) (*connect.Response[UpdateStructureResponse], error) {
	return c.updateStructure.CallUnary(ctx, req)
}

func (c *feeServiceClient) DeleteStructure(ctx context.Context, req *connect.Request[DeleteStructureRequest]) (*connect.Response[DeleteStructureResponse], error) {
	return c.deleteStructure.CallUnary(ctx, req)
}

func (c *feeServiceClient) ListGrades(ctx context.Context, req *connect.Request[ListGradesRequest]) (*connect.Response[ListGradesResponse], error) {
	return c.listGrades.CallUnary(ctx, req)
}

func (c *feeServiceClient) AssignStructure(ctx context.Context, req *connect.Request[AssignStructureRequest]) (*connect.Response[AssignStructureResponse], error) {
	return c.assignStructure.CallUnary(ctx, req)
}

func (c *feeServiceClient) GenerateInvoices(ctx context.Context, req *connect.Request[GenerateInvoicesRequest]) (*connect.Response[GenerateInvoicesResponse], error) {
	return c.generateInvoices.CallUnary(ctx, req)
}

func (c *feeServiceClient) ListGenerationRuns(ctx context.Context, req *connect.Request[ListGenerationRunsRequest]) (*connect.Response[ListGenerationRunsResponse], error) {
	return c.listGenerationRuns.CallUnary(ctx, req)
}

func (c *feeServiceClient) GetGenerationRun(ctx context.Context, req *connect.Request[GetGenerationRunRequest]) (*connect.Response[GetGenerationRunResponse], error) {
	return c.getGenerationRun.CallUnary(ctx, req)
}

func (c *feeServiceClient) RefreshAll(ctx context.Context, req *connect.Request[RefreshAllRequest]) (*connect.Response[RefreshAllResponse], error) {
	return c.refreshAll.CallUnary(ctx, req)
}

// FeeServiceHandler is an implementation of the schoolfees.v1.FeeService service.
type FeeServiceHandler interface {
	ListBuckets(context.Context, *connect.Request[ListBucketsRequest]) (*connect.Response[ListBucketsResponse], error)
	CreateBucket(context.Context, *connect.Request[CreateBucketRequest]) (*connect.Response[CreateBucketResponse], error)
	CreateCommonBuckets(context.Context, *connect.Request[CreateCommonBucketsRequest]) (*connect.Response[CreateCommonBucketsResponse], error)
	ListStructures(context.Context, *connect.Request[ListStructuresRequest]) (*connect.Response[ListStructuresResponse], error)
	CreateStructure(context.Context, *connect.Request[CreateStructureRequest]) (*connect.Response[CreateStructureResponse], error)
	UpdateStructure(context.Context, *connect.Request[UpdateStructureRequest]) (*connect.Response[UpdateStructureResponse], error)
	DeleteStructure(context.Context, *connect.Request[DeleteStructureRequest]) (*connect.Response[DeleteStructureResponse], error)
	ListGrades(context.Context, *connect.Request[ListGradesRequest]) (*connect.Response[ListGradesResponse], error)
	AssignStructure(context.Context, *connect.Request[AssignStructureRequest]) (*connect.Response[AssignStructureResponse], error)
	GenerateInvoices(context.Context, *connect.Request[GenerateInvoicesRequest]) (*connect.Response[GenerateInvoicesResponse], error)
	ListGenerationRuns(context.Context, *connect.Request[ListGenerationRunsRequest]) (*connect.Response[ListGenerationRunsResponse], error)
	GetGenerationRun(context.Context, *connect.Request[GetGenerationRunRequest]) (*connect.Response[GetGenerationRunResponse], error)
	RefreshAll(context.Context, *connect.Request[RefreshAllRequest]) (*connect.Response[RefreshAllResponse], error)
}

// NewFeeServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewFeeServiceHandler(svc FeeServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	handlers := map[string]http.Handler{
		FeeServiceListBucketsProcedure:         connect.NewUnaryHandler(FeeServiceListBucketsProcedure, svc.ListBuckets, opts...),
		FeeServiceCreateBucketProcedure:        connect.NewUnaryHandler(FeeServiceCreateBucketProcedure, svc.CreateBucket, opts...),
		FeeServiceCreateCommonBucketsProcedure: connect.NewUnaryHandler(FeeServiceCreateCommonBucketsProcedure, svc.CreateCommonBuckets, opts...),
		FeeServiceListStructuresProcedure:      connect.NewUnaryHandler(FeeServiceListStructuresProcedure, svc.ListStructures, opts...),
		FeeServiceCreateStructureProcedure:     connect.NewUnaryHandler(FeeServiceCreateStructureProcedure, svc.CreateStructure, opts...),
		FeeServiceUpdateStructureProcedure:     connect.NewUnaryHandler(FeeServiceUpdateStructureProcedure, svc.UpdateStructure, opts...),
		FeeServiceDeleteStructureProcedure:     connect.NewUnaryHandler(FeeServiceDeleteStructureProcedure, svc.DeleteStructure, opts...),
		FeeServiceListGradesProcedure:          connect.NewUnaryHandler(FeeServiceListGradesProcedure, svc.ListGrades, opts...),
		FeeServiceAssignStructureProcedure:     connect.NewUnaryHandler(FeeServiceAssignStructureProcedure, svc.AssignStructure, opts...),
		FeeServiceGenerateInvoicesProcedure:    connect.NewUnaryHandler(FeeServiceGenerateInvoicesProcedure, svc.GenerateInvoices, opts...),
		FeeServiceListGenerationRunsProcedure:  connect.NewUnaryHandler(FeeServiceListGenerationRunsProcedure, svc.ListGenerationRuns, opts...),
		FeeServiceGetGenerationRunProcedure:    connect.NewUnaryHandler(FeeServiceGetGenerationRunProcedure, svc.GetGenerationRun, opts...),
		FeeServiceRefreshAllProcedure:          connect.NewUnaryHandler(FeeServiceRefreshAllProcedure, svc.RefreshAll, opts...),
	}
	return "/" + FeeServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// UnimplementedFeeServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedFeeServiceHandler struct{}

func (UnimplementedFeeServiceHandler) ListBuckets(context.Context, *connect.Request[ListBucketsRequest]) (*connect.Response[ListBucketsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("schoolfees.v1.FeeService.ListBuckets is not implemented"))
}

func (UnimplementedFeeServiceHandler) CreateBucket(context.Context, *connect.Request[CreateBucketRequest]) (*connect.Response[CreateBucketResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("schoolfees.v1.FeeService.CreateBucket is not implemented"))
}

func (UnimplementedFeeServiceHandler) CreateCommonBuckets(context.Context, *connect.Request[CreateCommonBucketsRequest]) (*connect.Response[CreateCommonBucketsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("schoolfees.v1.FeeService.CreateCommonBuckets is not implemented"))
}

func (UnimplementedFeeServiceHandler) ListStructures(context.Context, *connect.Request[ListStructuresRequest]) (*connect.Response[ListStructuresResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("schoolfees.v1.FeeService.ListStructures is not implemented"))
}

func (UnimplementedFeeServiceHandler) CreateStructure(context.Context, *connect.Request[CreateStructureRequest]) (*connect.Response[CreateStructureResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("schoolfees.v1.FeeService.CreateStructure is not implemented"))
}

func (UnimplementedFeeServiceHandler) UpdateStructure(context.Context, *connect.Request[UpdateStructureRequest]) (*connect.Response[UpdateStructureResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("schoolfees.v1.FeeService.UpdateStructure is not implemented"))
}

func (UnimplementedFeeServiceHandler) DeleteStructure(context.Context, *connect.Request[DeleteStructureRequest]) (*connect.Response[DeleteStructureResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("schoolfees.v1.FeeService.DeleteStructure is not implemented"))
}

func (UnimplementedFeeServiceHandler) ListGrades(context.Context, *connect.Request[ListGradesRequest]) (*connect.Response[ListGradesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("schoolfees.v1.FeeService.ListGrades is not implemented"))
}

func (UnimplementedFeeServiceHandler) AssignStructure(context.Context, *connect.Request[AssignStructureRequest]) (*connect.Response[AssignStructureResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("schoolfees.v1.FeeService.AssignStructure is not implemented"))
}

func (UnimplementedFeeServiceHandler) GenerateInvoices(context.Context, *connect.Request[GenerateInvoicesRequest]) (*connect.Response[GenerateInvoicesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("schoolfees.v1.FeeService.GenerateInvoices is not implemented"))
}

func (UnimplementedFeeServiceHandler) ListGenerationRuns(context.Context, *connect.Request[ListGenerationRunsRequest]) (*connect.Response[ListGenerationRunsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("schoolfees.v1.FeeService.ListGenerationRuns is not implemented"))
}

func (UnimplementedFeeServiceHandler) GetGenerationRun(context.Context, *connect.Request[GetGenerationRunRequest]) (*connect.Response[GetGenerationRunResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("schoolfees.v1.FeeService.GetGenerationRun is not implemented"))
}

func (UnimplementedFeeServiceHandler) RefreshAll(context.Context, *connect.Request[RefreshAllRequest]) (*connect.Response[RefreshAllResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("schoolfees.v1.FeeService.RefreshAll is not implemented"))
}

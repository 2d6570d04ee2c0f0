package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"github.com/samber/lo"

	"github.com/mmynk/schoolfees/internal/backend"
	"github.com/mmynk/schoolfees/internal/models"
	"github.com/mmynk/schoolfees/internal/storage"
	"github.com/mmynk/schoolfees/internal/wizard"
	"github.com/mmynk/schoolfees/pkg/feerpc"
)

// FeeService implements the Connect FeeService
type FeeService struct {
	feerpc.UnimplementedFeeServiceHandler

	buckets     *BucketRegistry
	structures  *StructureService
	assignments *AssignmentService
	generator   *InvoiceGenerator
	dashboard   *DashboardService
}

// NewFeeService creates a FeeService over the GraphQL backend, journaling invoice
// generations in store.
func NewFeeService(api backend.API, store storage.Store) *FeeService {
	catalogs := NewCatalogs(api)
	return &FeeService{
		buckets:     NewBucketRegistry(api, catalogs),
		structures:  NewStructureService(api, catalogs),
		assignments: NewAssignmentService(api, catalogs),
		generator:   NewInvoiceGenerator(api, catalogs, store),
		dashboard:   NewDashboardService(catalogs),
	}
}

// ListBuckets handles fee bucket listing
func (s *FeeService) ListBuckets(ctx context.Context, req *connect.Request[feerpc.ListBucketsRequest]) (*connect.Response[feerpc.ListBucketsResponse], error) {
	var (
		buckets []models.FeeBucket
		err     error
	)
	if req.Msg.ActiveOnly {
		buckets, err = s.buckets.Active(ctx)
	} else {
		buckets, err = s.buckets.List(ctx)
	}
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&feerpc.ListBucketsResponse{Buckets: nonNil(buckets)}), nil
}

// CreateBucket handles fee bucket creation
func (s *FeeService) CreateBucket(ctx context.Context, req *connect.Request[feerpc.CreateBucketRequest]) (*connect.Response[feerpc.CreateBucketResponse], error) {
	bucket, err := s.buckets.Create(ctx, req.Msg.Name, req.Msg.Description)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&feerpc.CreateBucketResponse{Bucket: bucket}), nil
}

// CreateCommonBuckets creates the standard buckets. Partial failure is reported in
// the response, not as an error.
func (s *FeeService) CreateCommonBuckets(ctx context.Context, req *connect.Request[feerpc.CreateCommonBucketsRequest]) (*connect.Response[feerpc.CreateCommonBucketsResponse], error) {
	result := s.buckets.BulkCreateCommon(ctx, req.Msg.Names)
	return connect.NewResponse(&feerpc.CreateCommonBucketsResponse{
		Created: nonNil(result.Succeeded),
		Failed: lo.Map(result.Failed, func(f models.BatchFailure, _ int) feerpc.FailedInput {
			return feerpc.FailedInput{Input: f.Input, Error: f.Err.Error()}
		}),
	}), nil
}

// ListStructures returns the grouped fee structures
func (s *FeeService) ListStructures(ctx context.Context, req *connect.Request[feerpc.ListStructuresRequest]) (*connect.Response[feerpc.ListStructuresResponse], error) {
	groups, err := s.structures.List(ctx)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&feerpc.ListStructuresResponse{Structures: groups}), nil
}

// CreateStructure replays the request through a wizard session and submits it. When a
// per-term creation fails partway, the ids of the structures that were created are
// listed in the error metadata.
func (s *FeeService) CreateStructure(ctx context.Context, req *connect.Request[feerpc.CreateStructureRequest]) (*connect.Response[feerpc.CreateStructureResponse], error) {
	m := wizard.New()
	m.Dispatch(setupUpdates(req.Msg.Setup)...)
	if err := m.Next(); err != nil {
		return nil, connectError(err)
	}
	m.Dispatch(amountUpdates(req.Msg.Amounts)...)
	if err := m.Next(); err != nil {
		return nil, connectError(err)
	}

	created, err := m.Submit(ctx, s.structures.Create)
	if err != nil {
		ce := connectError(err)
		if len(created) > 0 {
			ids := lo.Map(created, func(fs models.FeeStructure, _ int) string { return fs.ID })
			ce.Meta().Set(feerpc.CreatedStructureIDsKey, strings.Join(ids, ","))
		}
		return nil, ce
	}
	return connect.NewResponse(&feerpc.CreateStructureResponse{Structures: created}), nil
}

// UpdateStructure edits one physical structure
func (s *FeeService) UpdateStructure(ctx context.Context, req *connect.Request[feerpc.UpdateStructureRequest]) (*connect.Response[feerpc.UpdateStructureResponse], error) {
	updated, err := s.structures.Update(ctx, req.Msg.ID, req.Msg.Update)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&feerpc.UpdateStructureResponse{Structure: updated}), nil
}

// DeleteStructure removes one physical structure
func (s *FeeService) DeleteStructure(ctx context.Context, req *connect.Request[feerpc.DeleteStructureRequest]) (*connect.Response[feerpc.DeleteStructureResponse], error) {
	if err := s.structures.Delete(ctx, req.Msg.ID); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&feerpc.DeleteStructureResponse{}), nil
}

// ListGrades returns the school's grades
func (s *FeeService) ListGrades(ctx context.Context, req *connect.Request[feerpc.ListGradesRequest]) (*connect.Response[feerpc.ListGradesResponse], error) {
	grades, err := s.structures.Grades(ctx)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&feerpc.ListGradesResponse{Grades: nonNil(grades)}), nil
}

// AssignStructure links a structure to grades
func (s *FeeService) AssignStructure(ctx context.Context, req *connect.Request[feerpc.AssignStructureRequest]) (*connect.Response[feerpc.AssignStructureResponse], error) {
	result, err := s.assignments.Assign(ctx, req.Msg.StructureID, req.Msg.GradeIDs)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&feerpc.AssignStructureResponse{Result: result}), nil
}

// GenerateInvoices bills the selected grades for one term
func (s *FeeService) GenerateInvoices(ctx context.Context, req *connect.Request[feerpc.GenerateInvoicesRequest]) (*connect.Response[feerpc.GenerateInvoicesResponse], error) {
	result, err := s.generator.Generate(ctx, req.Msg.BulkInvoiceGeneration, nil)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&feerpc.GenerateInvoicesResponse{
		RunID:            result.RunID,
		FeeStructureID:   result.FeeStructureID,
		Term:             result.Term,
		PerStudentAmount: result.PerStudentAmount,
		TotalStudents:    result.TotalStudents,
		Invoices:         nonNil(result.Invoices),
	}), nil
}

// ListGenerationRuns returns the journaled generations, newest first
func (s *FeeService) ListGenerationRuns(ctx context.Context, req *connect.Request[feerpc.ListGenerationRunsRequest]) (*connect.Response[feerpc.ListGenerationRunsResponse], error) {
	runs, err := s.generator.Runs(ctx, req.Msg.FeeStructureID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&feerpc.ListGenerationRunsResponse{Runs: nonNil(runs)}), nil
}

// GetGenerationRun returns one journaled generation
func (s *FeeService) GetGenerationRun(ctx context.Context, req *connect.Request[feerpc.GetGenerationRunRequest]) (*connect.Response[feerpc.GetGenerationRunResponse], error) {
	run, err := s.generator.Run(ctx, req.Msg.ID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&feerpc.GetGenerationRunResponse{Run: run}), nil
}

// RefreshAll re-fetches structures and grades together. Refresh failures are listed
// in the response; the call itself succeeds.
func (s *FeeService) RefreshAll(ctx context.Context, req *connect.Request[feerpc.RefreshAllRequest]) (*connect.Response[feerpc.RefreshAllResponse], error) {
	dash := s.dashboard.RefreshAll(ctx)
	return connect.NewResponse(&feerpc.RefreshAllResponse{
		Structures: dash.Structures,
		Grades:     dash.Grades,
		Stats:      dash.Stats,
		Errors:     dash.Errors,
	}), nil
}

func setupUpdates(f wizard.SetupFields) []wizard.Update {
	return []wizard.Update{
		wizard.SetName(f.Name),
		wizard.SetAcademicYear(f.AcademicYearID),
		wizard.SetTerms(f.Terms),
		wizard.SetGrades(f.Grades),
		wizard.SetPerTermAmounts(f.PerTermAmounts),
	}
}

func amountUpdates(f wizard.AmountsFields) []wizard.Update {
	updates := []wizard.Update{wizard.SelectBuckets(f.SelectedBuckets)}
	for bucketID, amt := range f.Amounts {
		updates = append(updates, wizard.SetAmount{BucketID: bucketID, Amount: amt})
	}
	for termID, byBucket := range f.TermAmounts {
		for bucketID, amt := range byBucket {
			updates = append(updates, wizard.SetTermAmount{TermID: termID, BucketID: bucketID, Amount: amt})
		}
	}
	for bucketID, mandatory := range f.Mandatory {
		updates = append(updates, wizard.SetMandatory{BucketID: bucketID, Mandatory: mandatory})
	}
	return updates
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

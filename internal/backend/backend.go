// Package backend is the typed view of the school GraphQL backend: one method per
// consumed operation. Fee data (buckets, structures, grades, invoices) is owned by the
// backend; nothing here caches or persists it.
package backend

import (
	"context"

	"github.com/mmynk/schoolfees/internal/graphql"
	"github.com/mmynk/schoolfees/internal/models"
)

// API is the set of backend operations the fee workflow consumes.
type API interface {
	ListFeeBuckets(ctx context.Context) ([]models.FeeBucket, error)
	CreateFeeBucket(ctx context.Context, name, description string) (models.FeeBucket, error)

	ListFeeStructures(ctx context.Context) ([]models.FeeStructure, error)
	CreateFeeStructure(ctx context.Context, s models.NewFeeStructure) (models.FeeStructure, error)
	UpdateFeeStructure(ctx context.Context, id string, u models.FeeStructureUpdate) (models.FeeStructure, error)
	DeleteFeeStructure(ctx context.Context, id string) (bool, error)

	ListGradeLevelsForSchoolType(ctx context.Context) ([]models.GradeLevel, error)
	ListGrades(ctx context.Context) ([]models.Grade, error)
	AssignFeeStructureToGrades(ctx context.Context, structureID string, gradeIDs []string) (models.AssignmentResult, error)

	// GenerateBulkInvoices produces every invoice of a batch in one atomic call.
	GenerateBulkInvoices(ctx context.Context, in models.InvoiceBatchInput) ([]models.Invoice, error)
}

// Backend implements API over a GraphQL client.
type Backend struct {
	gql *graphql.Client
}

var _ API = (*Backend)(nil)

// New creates a Backend posting to the given client.
func New(gql *graphql.Client) *Backend {
	return &Backend{gql: gql}
}

func (b *Backend) ListFeeBuckets(ctx context.Context) ([]models.FeeBucket, error) {
	var out struct {
		FeeBuckets []models.FeeBucket `json:"feeBuckets"`
	}
	if err := b.gql.Do(ctx, OpListFeeBuckets, listFeeBucketsQuery, nil, &out); err != nil {
		return nil, err
	}
	return out.FeeBuckets, nil
}

func (b *Backend) CreateFeeBucket(ctx context.Context, name, description string) (models.FeeBucket, error) {
	var out struct {
		CreateFeeBucket models.FeeBucket `json:"createFeeBucket"`
	}
	vars := map[string]any{"input": BucketInput{Name: name, Description: description}}
	if err := b.gql.Do(ctx, OpCreateFeeBucket, createFeeBucketMutation, vars, &out); err != nil {
		return models.FeeBucket{}, err
	}
	return out.CreateFeeBucket, nil
}

func (b *Backend) ListFeeStructures(ctx context.Context) ([]models.FeeStructure, error) {
	var out struct {
		FeeStructures []StructureNode `json:"feeStructures"`
	}
	if err := b.gql.Do(ctx, OpListFeeStructures, listFeeStructuresQuery, nil, &out); err != nil {
		return nil, err
	}
	structures := make([]models.FeeStructure, len(out.FeeStructures))
	for i, n := range out.FeeStructures {
		structures[i] = n.ToModel()
	}
	return structures, nil
}

func (b *Backend) CreateFeeStructure(ctx context.Context, s models.NewFeeStructure) (models.FeeStructure, error) {
	var out struct {
		CreateFeeStructure StructureNode `json:"createFeeStructure"`
	}
	vars := map[string]any{"input": newStructureInput(s)}
	if err := b.gql.Do(ctx, OpCreateFeeStructure, createFeeStructureMutation, vars, &out); err != nil {
		return models.FeeStructure{}, err
	}
	return out.CreateFeeStructure.ToModel(), nil
}

func (b *Backend) UpdateFeeStructure(ctx context.Context, id string, u models.FeeStructureUpdate) (models.FeeStructure, error) {
	var out struct {
		UpdateFeeStructure StructureNode `json:"updateFeeStructure"`
	}
	vars := map[string]any{"id": id, "input": StructureUpdateInput(u)}
	if err := b.gql.Do(ctx, OpUpdateFeeStructure, updateFeeStructureMutation, vars, &out); err != nil {
		return models.FeeStructure{}, err
	}
	return out.UpdateFeeStructure.ToModel(), nil
}

func (b *Backend) DeleteFeeStructure(ctx context.Context, id string) (bool, error) {
	var out struct {
		DeleteFeeStructure bool `json:"deleteFeeStructure"`
	}
	if err := b.gql.Do(ctx, OpDeleteFeeStructure, deleteFeeStructureMutation, map[string]any{"id": id}, &out); err != nil {
		return false, err
	}
	return out.DeleteFeeStructure, nil
}

func (b *Backend) ListGradeLevelsForSchoolType(ctx context.Context) ([]models.GradeLevel, error) {
	var out struct {
		GradeLevels []models.GradeLevel `json:"gradeLevelsForSchoolType"`
	}
	if err := b.gql.Do(ctx, OpListGradeLevelsForSchoolType, listGradeLevelsQuery, nil, &out); err != nil {
		return nil, err
	}
	return out.GradeLevels, nil
}

func (b *Backend) ListGrades(ctx context.Context) ([]models.Grade, error) {
	var out struct {
		Grades []models.Grade `json:"grades"`
	}
	if err := b.gql.Do(ctx, OpListGrades, listGradesQuery, nil, &out); err != nil {
		return nil, err
	}
	return out.Grades, nil
}

func (b *Backend) AssignFeeStructureToGrades(ctx context.Context, structureID string, gradeIDs []string) (models.AssignmentResult, error) {
	var out struct {
		Result models.AssignmentResult `json:"assignFeeStructureToGrades"`
	}
	vars := map[string]any{"feeStructureId": structureID, "gradeIds": gradeIDs}
	if err := b.gql.Do(ctx, OpAssignFeeStructureToGrades, assignFeeStructureMutation, vars, &out); err != nil {
		return models.AssignmentResult{}, err
	}
	return out.Result, nil
}

func (b *Backend) GenerateBulkInvoices(ctx context.Context, in models.InvoiceBatchInput) ([]models.Invoice, error) {
	var out struct {
		Invoices []models.Invoice `json:"generateBulkInvoices"`
	}
	vars := map[string]any{"input": InvoiceBatchInput(in)}
	if err := b.gql.Do(ctx, OpGenerateBulkInvoices, generateBulkInvoicesMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.Invoices, nil
}

package feerpc

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/schoolfees/internal/calculator"
	"github.com/mmynk/schoolfees/internal/models"
	"github.com/mmynk/schoolfees/internal/wizard"
)

type ListBucketsRequest struct {
	// ActiveOnly hides deactivated buckets.
	ActiveOnly bool `json:"activeOnly"`
}

type ListBucketsResponse struct {
	Buckets []models.FeeBucket `json:"buckets"`
}

type CreateBucketRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateBucketResponse struct {
	Bucket models.FeeBucket `json:"bucket"`
}

type CreateCommonBucketsRequest struct {
	// Names defaults to the standard bucket set when empty.
	Names []string `json:"names"`
}

// FailedInput is one input of a best-effort batch that failed.
type FailedInput struct {
	Input string `json:"input"`
	Error string `json:"error"`
}

type CreateCommonBucketsResponse struct {
	Created []models.FeeBucket `json:"created"`
	Failed  []FailedInput      `json:"failed"`
}

type ListStructuresRequest struct{}

type ListStructuresResponse struct {
	Structures []models.ProcessedFeeStructure `json:"structures"`
}

// CreateStructureRequest carries the fields of the creation wizard. They are replayed
// through every wizard step before the structure is submitted.
type CreateStructureRequest struct {
	Setup   wizard.SetupFields   `json:"setup"`
	Amounts wizard.AmountsFields `json:"amounts"`
}

type CreateStructureResponse struct {
	Structures []models.FeeStructure `json:"structures"`
}

type UpdateStructureRequest struct {
	ID     string                    `json:"id"`
	Update models.FeeStructureUpdate `json:"update"`
}

type UpdateStructureResponse struct {
	Structure models.FeeStructure `json:"structure"`
}

type DeleteStructureRequest struct {
	ID string `json:"id"`
}

type DeleteStructureResponse struct{}

type ListGradesRequest struct{}

type ListGradesResponse struct {
	Grades []models.Grade `json:"grades"`
}

type AssignStructureRequest struct {
	StructureID string   `json:"structureId"`
	GradeIDs    []string `json:"gradeIds"`
}

type AssignStructureResponse struct {
	Result models.AssignmentResult `json:"result"`
}

type GenerateInvoicesRequest struct {
	models.BulkInvoiceGeneration
}

type GenerateInvoicesResponse struct {
	RunID            string           `json:"runId"`
	FeeStructureID   string           `json:"feeStructureId"`
	Term             models.Term      `json:"term"`
	PerStudentAmount decimal.Decimal  `json:"perStudentAmount"`
	TotalStudents    int              `json:"totalStudents"`
	Invoices         []models.Invoice `json:"invoices"`
}

type ListGenerationRunsRequest struct {
	// FeeStructureID filters the runs; empty lists every run.
	FeeStructureID string `json:"feeStructureId"`
}

type ListGenerationRunsResponse struct {
	Runs []*models.GenerationRun `json:"runs"`
}

type GetGenerationRunRequest struct {
	ID string `json:"id"`
}

type GetGenerationRunResponse struct {
	Run *models.GenerationRun `json:"run"`
}

type RefreshAllRequest struct{}

type RefreshAllResponse struct {
	Structures []models.ProcessedFeeStructure       `json:"structures"`
	Grades     []models.Grade                       `json:"grades"`
	Stats      map[string]calculator.StructureStats `json:"stats"`

	// Errors maps a list name to the error of its failed refresh.
	Errors map[string]string `json:"errors,omitempty"`
}

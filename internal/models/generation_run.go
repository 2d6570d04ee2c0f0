package models

import "github.com/shopspring/decimal"

// Generation run outcomes.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// GenerationRun is the journal entry of one bulk invoice generation.
type GenerationRun struct {
	// ID is the unique identifier for the run (UUID format).
	ID string `json:"id"`

	// FeeStructureID is the physical structure id the command referenced.
	FeeStructureID string `json:"feeStructureId"`

	// TermID is the resolved term the invoices were generated for.
	TermID string `json:"termId"`

	// BucketIDs are the billed buckets.
	BucketIDs []string `json:"bucketIds"`

	// Grades is the grade snapshot taken when the generation started.
	// Re-assignments made while the run was in flight are not reflected here.
	Grades []GradeSnapshot `json:"grades"`

	PerStudentAmount decimal.Decimal `json:"perStudentAmount"`
	TotalStudents    int             `json:"totalStudents"`
	InvoiceCount     int             `json:"invoiceCount"`
	DueDate          string          `json:"dueDate"`

	// Status is RunSucceeded or RunFailed.
	Status string `json:"status"`

	// Error is the backend message of a failed run.
	Error string `json:"error,omitempty"`

	// CreatedAt is the Unix timestamp when the run started.
	CreatedAt int64 `json:"createdAt"`
}

// GradeSnapshot freezes the part of a grade a generation depends on.
type GradeSnapshot struct {
	GradeID        string `json:"gradeId"`
	FeeStructureID string `json:"feeStructureId"`
	StudentCount   int    `json:"studentCount"`
}

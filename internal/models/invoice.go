package models

import (
	"github.com/shopspring/decimal"
)

// BulkInvoiceGeneration is the command that bills every student of the selected grades
// for a subset of a structure's buckets in one term. It is built per invocation,
// consumed once and never persisted.
type BulkInvoiceGeneration struct {
	// FeeStructureID is any physical structure id of the processed structure billed.
	FeeStructureID string `json:"feeStructureId" validate:"required"`

	// Term is the term id or term name ("Term 1").
	Term string `json:"term" validate:"required"`

	// GradeIDs are the grades whose students are billed.
	GradeIDs []string `json:"gradeIds" validate:"selected"`

	// SelectedBuckets is the subset of the term's bucket ids to bill.
	SelectedBuckets []string `json:"selectedBuckets" validate:"selected"`

	// GenerateDate is the invoice issue date (YYYY-MM-DD); defaults to today.
	GenerateDate string `json:"generateDate" validate:"omitempty,datetime=2006-01-02"`

	// DueDate is the payment due date (YYYY-MM-DD).
	DueDate string `json:"dueDate" validate:"required,datetime=2006-01-02"`

	IncludeOptionalFees bool   `json:"includeOptionalFees"`
	CustomMessage       string `json:"customMessage,omitempty"`
}

// InvoiceBatchInput is what is sent to the backend to generate the invoices of one
// bulk generation in a single atomic call.
type InvoiceBatchInput struct {
	FeeStructureID      string          `json:"feeStructureId"`
	TermID              string          `json:"termId"`
	Term                string          `json:"term"`
	GradeIDs            []string        `json:"gradeIds"`
	Lines               []InvoiceLine   `json:"lines"`
	AmountPerStudent    decimal.Decimal `json:"amountPerStudent"`
	GenerateDate        string          `json:"generateDate"`
	DueDate             string          `json:"dueDate"`
	IncludeOptionalFees bool            `json:"includeOptionalFees"`
	CustomMessage       string          `json:"customMessage,omitempty"`
}

// Invoice is one student's bill produced by a bulk generation.
type Invoice struct {
	ID             string          `json:"id"`
	StudentID      string          `json:"studentId"`
	GradeID        string          `json:"gradeId"`
	FeeStructureID string          `json:"feeStructureId"`
	Term           string          `json:"term"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	GenerateDate   string          `json:"generateDate"`
	DueDate        string          `json:"dueDate"`
	CustomMessage  string          `json:"customMessage,omitempty"`
	Lines          []InvoiceLine   `json:"lines"`
}

// InvoiceLine is one billed bucket on an invoice.
type InvoiceLine struct {
	BucketID string          `json:"bucketId"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
}

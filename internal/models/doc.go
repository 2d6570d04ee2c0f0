// Package models defines the core domain models for schoolfees.
//
// # Physical vs processed structures
//
// The backend persists one FeeStructure per record ("physical" structure). A single
// nominal structure with different amounts per term is stored as several physical
// structures named "<base> - Term N". The read side collapses them again into a
// ProcessedFeeStructure; that projection owns nothing and is rebuilt on every fetch.
//
// # Relationships
//
//  1. FeeStructureItem references a FeeBucket by ID (it does not own the bucket)
//  2. Grade references at most one FeeStructure through FeeStructureID
//  3. BulkInvoiceGeneration is a one-shot command and is never persisted
//
// Relationships use ID strings instead of pointers to avoid circular references.
//
// # Money
//
// Amounts are decimal.Decimal. They are encoded as plain JSON numbers because the
// GraphQL backend declares them as Float.
package models

import "github.com/shopspring/decimal"

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeBucket is a named fee category (e.g. "Tuition", "Transport").
// Buckets are created independently of any structure and are only ever deactivated,
// never hard-deleted.
type FeeBucket struct {
	// ID is the backend identifier of the bucket (opaque).
	ID string `json:"id"`

	// Name is the display name, unique per school.
	Name string `json:"name"`

	// Description is free text shown next to the bucket in pickers.
	Description string `json:"description"`

	// IsActive reports whether the bucket may be referenced by new structures.
	IsActive bool `json:"isActive"`
}

// FeeStructureItem is one line item of a structure: an amount charged for a bucket.
type FeeStructureItem struct {
	ID            string          `json:"id,omitempty"`
	FeeBucketID   string          `json:"feeBucketId"`
	FeeBucketName string          `json:"feeBucketName,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	IsMandatory   bool            `json:"isMandatory"`
}

// Term is an academic sub-period (e.g. "Term 1").
type Term struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AcademicYear groups terms (e.g. "2024").
type AcademicYear struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GradeLevel is the school-type specific grade catalogue entry used to resolve
// human-readable grade names to ids.
type GradeLevel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// FeeStructure is one backend-persisted ("physical") fee structure.
type FeeStructure struct {
	// ID is the backend identifier of the structure.
	ID string `json:"id"`

	// Name is the stored name. Per-term structures carry a " - Term N" suffix.
	Name string `json:"name"`

	// AcademicYearID references the academic year the structure bills for.
	AcademicYearID string `json:"academicYearId"`

	// AcademicYearName is the nested academic year name returned by the backend.
	AcademicYearName string `json:"academicYearName,omitempty"`

	// Terms are the terms this structure applies to (at least one).
	Terms []Term `json:"terms"`

	// GradeLevels are the grade levels this structure was created for (at least one).
	GradeLevels []GradeLevel `json:"gradeLevels"`

	// Items are the line items; several items may reference the same bucket.
	Items []FeeStructureItem `json:"items"`

	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TermIDs returns the ids of the structure's terms in declaration order.
func (s *FeeStructure) TermIDs() []string {
	ids := make([]string, len(s.Terms))
	for i, t := range s.Terms {
		ids[i] = t.ID
	}
	return ids
}

// NewFeeStructure contains the information needed to create a physical structure.
type NewFeeStructure struct {
	Name           string             `json:"name"`
	AcademicYearID string             `json:"academicYearId"`
	TermIDs        []string           `json:"termIds"`
	GradeLevelIDs  []string           `json:"gradeLevelIds"`
	Items          []FeeStructureItem `json:"items"`
}

// FeeStructureUpdate defines what may be changed on an existing structure.
// Nil fields are left untouched.
type FeeStructureUpdate struct {
	Name           *string  `json:"name,omitempty"`
	IsActive       *bool    `json:"isActive,omitempty"`
	AcademicYearID *string  `json:"academicYearId,omitempty"`
	TermIDs        []string `json:"termIds,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u *FeeStructureUpdate) IsEmpty() bool {
	return u.Name == nil && u.IsActive == nil && u.AcademicYearID == nil && u.TermIDs == nil
}

// BucketSummary is a bucket as shown for one term of a processed structure: the
// merged total of every contributing item.
type BucketSummary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	// IsOptional is true only when no contributing item is mandatory.
	IsOptional bool `json:"isOptional"`
}

// ProcessedFeeStructure is the display aggregate of every physical structure sharing a
// base name and academic year. It is derived data and is recomputed on every fetch.
type ProcessedFeeStructure struct {
	// ID is the id of the first physical structure of the group.
	ID string `json:"id"`

	// BaseName is the structure name without its " - Term N" suffix.
	BaseName string `json:"baseName"`

	AcademicYearID   string `json:"academicYearId"`
	AcademicYearName string `json:"academicYearName,omitempty"`

	// StructureIDs lists every physical structure folded into this aggregate.
	StructureIDs []string `json:"structureIds"`

	Terms       []Term       `json:"terms"`
	GradeLevels []GradeLevel `json:"gradeLevels"`

	// TermFeesMap maps a term id to the merged buckets billed in that term.
	TermFeesMap map[string][]BucketSummary `json:"termFeesMap"`

	// Buckets is the entry of TermFeesMap for the first term (display default).
	Buckets []BucketSummary `json:"buckets"`

	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Contains reports whether the physical structure id is part of the aggregate.
func (p *ProcessedFeeStructure) Contains(structureID string) bool {
	for _, id := range p.StructureIDs {
		if id == structureID {
			return true
		}
	}
	return false
}

// FindTerm looks a term up by id or, failing that, by case-insensitive name.
func (p *ProcessedFeeStructure) FindTerm(idOrName string) (Term, bool) {
	for _, t := range p.Terms {
		if t.ID == idOrName {
			return t, true
		}
	}
	for _, t := range p.Terms {
		if equalFold(t.Name, idOrName) {
			return t, true
		}
	}
	return Term{}, false
}

package backend

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/schoolfees/internal/models"
)

// BucketInput is the CreateFeeBucketInput variable.
type BucketInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ItemInput is one item of a CreateFeeStructureInput.
type ItemInput struct {
	FeeBucketID string          `json:"feeBucketId"`
	Amount      decimal.Decimal `json:"amount"`
	IsMandatory bool            `json:"isMandatory"`
}

// StructureInput is the CreateFeeStructureInput variable.
type StructureInput struct {
	Name           string      `json:"name"`
	AcademicYearID string      `json:"academicYearId"`
	TermIDs        []string    `json:"termIds"`
	GradeLevelIDs  []string    `json:"gradeLevelIds"`
	Items          []ItemInput `json:"items"`
}

// StructureUpdateInput is the UpdateFeeStructureInput variable.
type StructureUpdateInput = models.FeeStructureUpdate

// InvoiceBatchInput is the GenerateBulkInvoicesInput variable.
type InvoiceBatchInput = models.InvoiceBatchInput

// Ref is a nested {id name} object.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ItemNode is a structure item as returned by the backend.
type ItemNode struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	IsMandatory bool            `json:"isMandatory"`
	FeeBucket   Ref             `json:"feeBucket"`
}

// StructureNode is a fee structure as returned by the backend.
type StructureNode struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	IsActive     bool                `json:"isActive"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	AcademicYear Ref                 `json:"academicYear"`
	Terms        []models.Term       `json:"terms"`
	GradeLevels  []models.GradeLevel `json:"gradeLevels"`
	Items        []ItemNode          `json:"items"`
}

func newStructureInput(s models.NewFeeStructure) StructureInput {
	items := make([]ItemInput, len(s.Items))
	for i, it := range s.Items {
		items[i] = ItemInput{FeeBucketID: it.FeeBucketID, Amount: it.Amount, IsMandatory: it.IsMandatory}
	}
	return StructureInput{
		Name:           s.Name,
		AcademicYearID: s.AcademicYearID,
		TermIDs:        s.TermIDs,
		GradeLevelIDs:  s.GradeLevelIDs,
		Items:          items,
	}
}

// ToModel flattens the nested backend shape into a models.FeeStructure.
func (n StructureNode) ToModel() models.FeeStructure {
	items := make([]models.FeeStructureItem, len(n.Items))
	for i, it := range n.Items {
		items[i] = models.FeeStructureItem{
			ID:            it.ID,
			FeeBucketID:   it.FeeBucket.ID,
			FeeBucketName: it.FeeBucket.Name,
			Amount:        it.Amount,
			IsMandatory:   it.IsMandatory,
		}
	}
	return models.FeeStructure{
		ID:               n.ID,
		Name:             n.Name,
		AcademicYearID:   n.AcademicYear.ID,
		AcademicYearName: n.AcademicYear.Name,
		Terms:            n.Terms,
		GradeLevels:      n.GradeLevels,
		Items:            items,
		IsActive:         n.IsActive,
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        n.UpdatedAt,
	}
}

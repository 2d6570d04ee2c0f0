package calculator

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mmynk/schoolfees/internal/models"
)

// SelectBuckets keeps the buckets of a term that were selected for billing, in the
// term's order.
func SelectBuckets(buckets []models.BucketSummary, selected []string) []models.BucketSummary {
	return lo.Filter(buckets, func(b models.BucketSummary, _ int) bool {
		return lo.Contains(selected, b.ID)
	})
}

// PerStudentAmount is the sum of the selected buckets' totals.
func PerStudentAmount(buckets []models.BucketSummary, selected []string) decimal.Decimal {
	total := decimal.Zero
	for _, b := range SelectBuckets(buckets, selected) {
		total = total.Add(b.TotalAmount)
	}
	return total
}

// InvoiceLines converts the selected buckets into invoice lines.
func InvoiceLines(buckets []models.BucketSummary, selected []string) []models.InvoiceLine {
	return lo.Map(SelectBuckets(buckets, selected), func(b models.BucketSummary, _ int) models.InvoiceLine {
		return models.InvoiceLine{BucketID: b.ID, Name: b.Name, Amount: b.TotalAmount}
	})
}

// TotalStudents sums the student count of the listed grades. Unknown ids count as zero.
func TotalStudents(grades []models.Grade, gradeIDs []string) int {
	return lo.SumBy(grades, func(g models.Grade) int {
		if lo.Contains(gradeIDs, g.ID) {
			return g.StudentCount
		}
		return 0
	})
}

// StructureStats are the dashboard aggregates of one processed structure.
type StructureStats struct {
	AssignedGrades int `json:"assignedGrades"`
	TotalStudents  int `json:"totalStudents"`
}

// CalculateStructureStats counts, per processed structure id, the grades assigned to
// any of its physical structures and their students.
func CalculateStructureStats(groups []models.ProcessedFeeStructure, grades []models.Grade) map[string]StructureStats {
	stats := make(map[string]StructureStats, len(groups))
	for _, g := range groups {
		var s StructureStats
		for _, grade := range grades {
			if grade.FeeStructureID != "" && g.Contains(grade.FeeStructureID) {
				s.AssignedGrades++
				s.TotalStudents += grade.StudentCount
			}
		}
		stats[g.ID] = s
	}
	return stats
}

package calculator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mmynk/schoolfees/internal/models"
)

var termName = regexp.MustCompile(`(?i)^Term\s+\d+$`)

// StructureDraft is a validated structure submission with grade names already resolved.
type StructureDraft struct {
	Name           string
	AcademicYearID string
	Terms          []models.Term
	GradeLevelIDs  []string
	BucketIDs      []string

	// Amounts maps term id to bucket id to amount. Every term carries its own map,
	// even when the amounts were entered once for all terms.
	Amounts map[string]map[string]decimal.Decimal

	// Mandatory marks the buckets every student pays. Missing means optional.
	Mandatory map[string]bool
}

// amount returns the amount of a bucket in a term; a bucket missing from a term
// counts as zero there.
func (d *StructureDraft) amount(termID, bucketID string) decimal.Decimal {
	if byBucket, ok := d.Amounts[termID]; ok {
		if amt, ok := byBucket[bucketID]; ok {
			return amt
		}
	}
	return decimal.Zero
}

// AmountsDiverge reports whether any selected bucket is billed differently in two of
// the draft's terms.
func AmountsDiverge(d StructureDraft) bool {
	if len(d.Terms) < 2 {
		return false
	}
	first := d.Terms[0].ID
	for _, bucketID := range d.BucketIDs {
		want := d.amount(first, bucketID)
		for _, t := range d.Terms[1:] {
			if !d.amount(t.ID, bucketID).Equal(want) {
				return true
			}
		}
	}
	return false
}

// TermStructureName names the per-term structure of the term at index.
// Terms already called "Term N" keep their number, others are numbered by position.
func TermStructureName(base string, term models.Term, index int) string {
	label := strings.TrimSpace(term.Name)
	if !termName.MatchString(label) {
		label = fmt.Sprintf("Term %d", index+1)
	}
	return base + " - " + label
}

// items returns the non-zero items of the draft for one term, in bucket order, with at
// most one item per bucket.
func (d *StructureDraft) items(termID string) []models.FeeStructureItem {
	items := make([]models.FeeStructureItem, 0, len(d.BucketIDs))
	for _, bucketID := range lo.Uniq(d.BucketIDs) {
		amt := d.amount(termID, bucketID)
		if !amt.IsPositive() {
			continue
		}
		items = append(items, models.FeeStructureItem{
			FeeBucketID: bucketID,
			Amount:      amt,
			IsMandatory: d.Mandatory[bucketID],
		})
	}
	return items
}

// PlanStructures turns a draft into the physical structures to create.
//
// When per-term amounts diverge, one structure per term is planned, named
// "<name> - Term N" and carrying only that term's non-zero items. Otherwise a single
// structure spans every term.
func PlanStructures(d StructureDraft) []models.NewFeeStructure {
	if len(d.Terms) == 0 {
		return nil
	}

	if !AmountsDiverge(d) {
		termIDs := make([]string, len(d.Terms))
		for i, t := range d.Terms {
			termIDs[i] = t.ID
		}
		return []models.NewFeeStructure{{
			Name:           d.Name,
			AcademicYearID: d.AcademicYearID,
			TermIDs:        termIDs,
			GradeLevelIDs:  d.GradeLevelIDs,
			Items:          d.items(d.Terms[0].ID),
		}}
	}

	planned := make([]models.NewFeeStructure, 0, len(d.Terms))
	for i, t := range d.Terms {
		planned = append(planned, models.NewFeeStructure{
			Name:           TermStructureName(d.Name, t, i),
			AcademicYearID: d.AcademicYearID,
			TermIDs:        []string{t.ID},
			GradeLevelIDs:  d.GradeLevelIDs,
			Items:          d.items(t.ID),
		})
	}
	return planned
}

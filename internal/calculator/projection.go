package calculator

import (
	"regexp"
	"slices"
	"strings"

	"github.com/mmynk/schoolfees/internal/models"
)

// termSuffix matches the " - Term N" suffix given to per-term physical structures.
var termSuffix = regexp.MustCompile(`(?i)\s*-\s*Term\s+\d+\s*$`)

// BaseName strips the " - Term N" suffix from a physical structure name.
func BaseName(name string) string {
	return strings.TrimSpace(termSuffix.ReplaceAllString(name, ""))
}

// GroupKey is the key physical structures are grouped by.
func GroupKey(name, academicYearID string) string {
	return BaseName(name) + "__" + academicYearID
}

// MergeItems collapses the items of one structure into one summary per bucket.
// Amounts of the same bucket are summed; the bucket is optional only when none of
// its items is mandatory. Buckets keep the order of their first item.
func MergeItems(items []models.FeeStructureItem) []models.BucketSummary {
	merged := make([]models.BucketSummary, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		i, ok := index[item.FeeBucketID]
		if !ok {
			index[item.FeeBucketID] = len(merged)
			merged = append(merged, models.BucketSummary{
				ID:          item.FeeBucketID,
				Name:        item.FeeBucketName,
				TotalAmount: item.Amount,
				IsOptional:  !item.IsMandatory,
			})
			continue
		}
		merged[i].TotalAmount = merged[i].TotalAmount.Add(item.Amount)
		if item.IsMandatory {
			merged[i].IsOptional = false
		}
		if merged[i].Name == "" {
			merged[i].Name = item.FeeBucketName
		}
	}
	return merged
}

// mergeSummaries merges two bucket lists with the MergeItems rule and always returns a
// fresh slice, so lists recorded under several terms never alias.
func mergeSummaries(base, add []models.BucketSummary) []models.BucketSummary {
	merged := make([]models.BucketSummary, 0, len(base)+len(add))
	merged = append(merged, base...)
	index := make(map[string]int, len(merged))
	for i, b := range merged {
		index[b.ID] = i
	}
	for _, b := range add {
		i, ok := index[b.ID]
		if !ok {
			index[b.ID] = len(merged)
			merged = append(merged, b)
			continue
		}
		merged[i].TotalAmount = merged[i].TotalAmount.Add(b.TotalAmount)
		merged[i].IsOptional = merged[i].IsOptional && b.IsOptional
		if merged[i].Name == "" {
			merged[i].Name = b.Name
		}
	}
	return merged
}

type group struct {
	processed *models.ProcessedFeeStructure
	terms     map[string]bool
	grades    map[string]bool
}

// GroupStructures folds physical structures into display aggregates.
//
// Structures sharing a base name and academic year form one group:
//   - terms and grade levels are unioned by id, first occurrence wins
//   - every structure contributes its merged buckets to each term it declares
//   - IsActive is true if any structure is active, UpdatedAt is the latest one and
//     CreatedAt comes from the first structure
//
// The input is ordered by (CreatedAt, ID) first, so the output does not depend on
// the order the backend returned the structures in.
func GroupStructures(raw []models.FeeStructure) []models.ProcessedFeeStructure {
	ordered := slices.Clone(raw)
	slices.SortStableFunc(ordered, func(a, b models.FeeStructure) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	groups := make(map[string]*group)
	var keys []string

	for _, s := range ordered {
		key := GroupKey(s.Name, s.AcademicYearID)
		g, ok := groups[key]
		if !ok {
			g = &group{
				processed: &models.ProcessedFeeStructure{
					ID:             s.ID,
					BaseName:       BaseName(s.Name),
					AcademicYearID: s.AcademicYearID,
					TermFeesMap:    make(map[string][]models.BucketSummary),
					CreatedAt:      s.CreatedAt,
					UpdatedAt:      s.UpdatedAt,
				},
				terms:  make(map[string]bool),
				grades: make(map[string]bool),
			}
			groups[key] = g
			keys = append(keys, key)
		}

		p := g.processed
		p.StructureIDs = append(p.StructureIDs, s.ID)
		p.IsActive = p.IsActive || s.IsActive
		if s.UpdatedAt.After(p.UpdatedAt) {
			p.UpdatedAt = s.UpdatedAt
		}
		if p.AcademicYearName == "" {
			p.AcademicYearName = s.AcademicYearName
		}

		for _, t := range s.Terms {
			if !g.terms[t.ID] {
				g.terms[t.ID] = true
				p.Terms = append(p.Terms, t)
			}
		}
		for _, gl := range s.GradeLevels {
			if !g.grades[gl.ID] {
				g.grades[gl.ID] = true
				p.GradeLevels = append(p.GradeLevels, gl)
			}
		}

		buckets := MergeItems(s.Items)
		for _, t := range s.Terms {
			p.TermFeesMap[t.ID] = mergeSummaries(p.TermFeesMap[t.ID], buckets)
		}
	}

	result := make([]models.ProcessedFeeStructure, 0, len(keys))
	for _, key := range keys {
		p := groups[key].processed
		p.Buckets = []models.BucketSummary{}
		if len(p.Terms) > 0 {
			if first, ok := p.TermFeesMap[p.Terms[0].ID]; ok {
				p.Buckets = first
			}
		}
		result = append(result, *p)
	}
	return result
}

// FindGroup returns the processed structure containing the physical structure id.
func FindGroup(groups []models.ProcessedFeeStructure, structureID string) (models.ProcessedFeeStructure, bool) {
	for _, g := range groups {
		if g.Contains(structureID) {
			return g, true
		}
	}
	return models.ProcessedFeeStructure{}, false
}

package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/mmynk/schoolfees/internal/apperr"
	"github.com/mmynk/schoolfees/internal/backend"
	"github.com/mmynk/schoolfees/internal/models"
)

// AssignmentService links fee structures to grades.
type AssignmentService struct {
	api      backend.API
	catalogs *Catalogs
}

// NewAssignmentService creates an AssignmentService over the backend.
func NewAssignmentService(api backend.API, catalogs *Catalogs) *AssignmentService {
	return &AssignmentService{api: api, catalogs: catalogs}
}

// Assign bills the grades under the structure. A grade points at one structure at a
// time, so a later assignment replaces an earlier one for that grade only.
// The structure and grade lists are invalidated on success.
func (s *AssignmentService) Assign(ctx context.Context, structureID string, gradeIDs []string) (models.AssignmentResult, error) {
	slog.Info("AssignStructure request received",
		"structure_id", structureID,
		"grades_count", len(gradeIDs),
	)

	gradeIDs = lo.Uniq(lo.Compact(lo.Map(gradeIDs, func(id string, _ int) string { return strings.TrimSpace(id) })))
	if len(gradeIDs) == 0 {
		return models.AssignmentResult{}, apperr.Validationf("grade required")
	}
	if strings.TrimSpace(structureID) == "" {
		return models.AssignmentResult{}, apperr.Validationf("structure id required")
	}

	known, err := s.structureExists(ctx, structureID)
	if err != nil {
		return models.AssignmentResult{}, err
	}
	if !known {
		return models.AssignmentResult{}, apperr.Validationf("unknown fee structure %s", structureID)
	}

	result, err := s.api.AssignFeeStructureToGrades(ctx, structureID, gradeIDs)
	if err != nil {
		slog.Error("AssignStructure failed", "structure_id", structureID, "error", err)
		return models.AssignmentResult{}, err
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "assignment rejected"
		}
		return result, apperr.Backendf(backend.OpAssignFeeStructureToGrades, "%s", msg)
	}

	s.catalogs.For(ctx).Invalidate(KeyFeeStructures, KeyGrades)

	slog.Info("Fee structure assigned", "structure_id", structureID, "grade_ids", gradeIDs)
	return result, nil
}

// structureExists looks the id up in the cached list, re-fetching once on a miss so a
// structure created elsewhere is still found.
func (s *AssignmentService) structureExists(ctx context.Context, id string) (bool, error) {
	q := s.catalogs.For(ctx).Structures
	has := func(list []models.FeeStructure) bool {
		return lo.ContainsBy(list, func(fs models.FeeStructure) bool { return fs.ID == id })
	}

	list, err := q.Get(ctx)
	if err != nil {
		return false, err
	}
	if has(list) {
		return true, nil
	}
	list, err = q.Refresh(ctx)
	if err != nil {
		return false, err
	}
	return has(list), nil
}

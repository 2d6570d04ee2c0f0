package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/mmynk/schoolfees/internal/apperr"
	"github.com/mmynk/schoolfees/internal/backend"
	"github.com/mmynk/schoolfees/internal/calculator"
	"github.com/mmynk/schoolfees/internal/metrics"
	"github.com/mmynk/schoolfees/internal/models"
	"github.com/mmynk/schoolfees/internal/validation"
	"github.com/mmynk/schoolfees/internal/wizard"
)

// StructureService creates, edits and lists fee structures.
type StructureService struct {
	api      backend.API
	catalogs *Catalogs
}

// NewStructureService creates a StructureService over the backend.
func NewStructureService(api backend.API, catalogs *Catalogs) *StructureService {
	return &StructureService{api: api, catalogs: catalogs}
}

// List returns the grouped projection of the school's physical structures.
func (s *StructureService) List(ctx context.Context) ([]models.ProcessedFeeStructure, error) {
	raw, err := s.catalogs.For(ctx).Structures.Get(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.GroupStructures(raw), nil
}

// Grades returns the school's grades.
func (s *StructureService) Grades(ctx context.Context) ([]models.Grade, error) {
	return s.catalogs.For(ctx).Grades.Get(ctx)
}

// Create submits a reviewed wizard form.
//
// Input is checked before any network call. Grade names are then resolved to grade
// level ids and every selected bucket is checked against the live registry; both fail
// the whole submission. When per-term amounts diverge one structure is created per
// term: every term is attempted, structures already created stay, and any failure
// returns the created structures together with a BackendError.
func (s *StructureService) Create(ctx context.Context, form wizard.ReviewFields) ([]models.FeeStructure, error) {
	slog.Info("CreateStructure request received",
		"name", form.Setup.Name,
		"terms_count", len(form.Setup.Terms),
		"grades_count", len(form.Setup.Grades),
		"buckets_count", len(form.Amounts.SelectedBuckets),
	)

	form.Amounts.SelectedBuckets = lo.Uniq(form.Amounts.SelectedBuckets)
	form.Setup.Terms = lo.UniqBy(form.Setup.Terms, func(t models.Term) string { return t.ID })

	if err := checkSubmission(form); err != nil {
		return nil, err
	}
	if err := wizard.ValidateReview(form); err != nil {
		return nil, err
	}

	gradeLevelIDs, err := s.resolveGradeLevels(ctx, form.Setup.Grades)
	if err != nil {
		return nil, err
	}

	if err := s.checkBuckets(ctx, form.Amounts.SelectedBuckets); err != nil {
		return nil, err
	}

	draft := calculator.StructureDraft{
		Name:           validation.CleanString(form.Setup.Name),
		AcademicYearID: form.Setup.AcademicYearID,
		Terms:          form.Setup.Terms,
		GradeLevelIDs:  gradeLevelIDs,
		BucketIDs:      form.Amounts.SelectedBuckets,
		Amounts:        form.AmountsByTerm(),
		Mandatory:      form.Amounts.Mandatory,
	}
	planned := calculator.PlanStructures(draft)

	catalog := s.catalogs.For(ctx)
	defer catalog.Invalidate(KeyFeeStructures)

	if len(planned) == 1 {
		created, err := s.api.CreateFeeStructure(ctx, planned[0])
		if err != nil {
			slog.Error("CreateStructure failed", "name", planned[0].Name, "error", err)
			return nil, err
		}
		metrics.StructuresCreated.Inc()
		slog.Info("Fee structure created", "structure_id", created.ID, "name", created.Name)
		return []models.FeeStructure{created}, nil
	}

	var result models.BatchResult[models.FeeStructure]
	for _, p := range planned {
		created, err := s.api.CreateFeeStructure(ctx, p)
		if err != nil {
			slog.Error("Per-term structure creation failed", "name", p.Name, "error", err)
			result.AddFailure(p.Name, err)
			continue
		}
		metrics.StructuresCreated.Inc()
		result.Succeeded = append(result.Succeeded, created)
	}

	slog.Info("Per-term fee structures created",
		"name", draft.Name,
		"created", len(result.Succeeded),
		"failed", len(result.Failed),
	)

	if !result.OK() {
		return result.Succeeded, perTermError(result.Failed)
	}
	return result.Succeeded, nil
}

// Update edits one physical structure.
func (s *StructureService) Update(ctx context.Context, id string, u models.FeeStructureUpdate) (models.FeeStructure, error) {
	slog.Info("UpdateStructure request received", "structure_id", id)

	if strings.TrimSpace(id) == "" {
		return models.FeeStructure{}, apperr.Validationf("structure id required")
	}
	if u.IsEmpty() {
		return models.FeeStructure{}, apperr.Validationf("nothing to update")
	}
	if u.Name != nil && validation.CleanString(*u.Name) == "" {
		return models.FeeStructure{}, apperr.Validationf("name required")
	}
	if u.TermIDs != nil && len(u.TermIDs) == 0 {
		return models.FeeStructure{}, apperr.Validationf("term required")
	}

	updated, err := s.api.UpdateFeeStructure(ctx, id, u)
	if err != nil {
		slog.Error("UpdateStructure failed", "structure_id", id, "error", err)
		return models.FeeStructure{}, err
	}
	s.catalogs.For(ctx).Invalidate(KeyFeeStructures)

	slog.Info("Fee structure updated", "structure_id", id)
	return updated, nil
}

// Delete removes one physical structure.
func (s *StructureService) Delete(ctx context.Context, id string) error {
	slog.Info("DeleteStructure request received", "structure_id", id)

	if strings.TrimSpace(id) == "" {
		return apperr.Validationf("structure id required")
	}

	deleted, err := s.api.DeleteFeeStructure(ctx, id)
	if err != nil {
		slog.Error("DeleteStructure failed", "structure_id", id, "error", err)
		return err
	}
	if !deleted {
		return apperr.NewNotFoundError("fee structure", id)
	}
	s.catalogs.For(ctx).Invalidate(KeyFeeStructures, KeyGrades)

	slog.Info("Fee structure deleted", "structure_id", id)
	return nil
}

// checkSubmission verifies the fields only a submission needs.
func checkSubmission(form wizard.ReviewFields) error {
	var flds []apperr.FieldError
	if strings.TrimSpace(form.Setup.AcademicYearID) == "" {
		flds = append(flds, apperr.FieldError{Field: "academicYearId", Error: "academic year required"})
	}
	if len(form.Setup.Terms) == 0 {
		flds = append(flds, apperr.FieldError{Field: "terms", Error: "term required"})
	}
	if len(form.Setup.Grades) == 0 {
		flds = append(flds, apperr.FieldError{Field: "grades", Error: "grade required"})
	}
	if len(form.Amounts.SelectedBuckets) == 0 {
		flds = append(flds, apperr.FieldError{Field: "selectedBuckets", Error: "bucket required"})
	}
	if len(flds) > 0 {
		return apperr.NewValidationError(errors.New(flds[0].Error), flds...)
	}
	return nil
}

// resolveGradeLevels maps grade names to grade level ids. A name matches a level's
// name, code or id, case-insensitively.
func (s *StructureService) resolveGradeLevels(ctx context.Context, names []string) ([]string, error) {
	levels, err := s.api.ListGradeLevelsForSchoolType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list grade levels: %w", err)
	}

	var ids, missing []string
	for _, name := range names {
		level, ok := lo.Find(levels, func(l models.GradeLevel) bool {
			return matchesGrade(l, name)
		})
		if !ok {
			missing = append(missing, name)
			continue
		}
		ids = append(ids, level.ID)
	}
	if len(missing) > 0 {
		return nil, apperr.NewNotFoundError("grade level", missing...)
	}
	return lo.Uniq(ids), nil
}

func matchesGrade(l models.GradeLevel, name string) bool {
	name = strings.TrimSpace(name)
	return strings.EqualFold(l.Name, name) ||
		(l.Code != "" && strings.EqualFold(l.Code, name)) ||
		l.ID == name
}

// checkBuckets rejects the submission when a selected bucket is unknown or inactive.
func (s *StructureService) checkBuckets(ctx context.Context, selected []string) error {
	live, err := s.catalogs.For(ctx).Buckets.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to list fee buckets: %w", err)
	}
	byID := lo.KeyBy(live, func(b models.FeeBucket) string { return b.ID })

	var flds []apperr.FieldError
	var offending []string
	for _, id := range selected {
		b, ok := byID[id]
		switch {
		case !ok:
			flds = append(flds, apperr.FieldError{Field: "selectedBuckets", Error: "unknown bucket " + id})
			offending = append(offending, id)
		case !b.IsActive:
			flds = append(flds, apperr.FieldError{Field: "selectedBuckets", Error: "inactive bucket " + b.Name})
			offending = append(offending, id)
		}
	}
	if len(offending) > 0 {
		msg := "invalid buckets: " + strings.Join(offending, ", ")
		return apperr.NewValidationError(errors.New(msg), flds...)
	}
	return nil
}

func perTermError(failed []models.BatchFailure) error {
	be := &apperr.BackendError{Op: backend.OpCreateFeeStructure}
	for _, f := range failed {
		be.Messages = append(be.Messages, fmt.Sprintf("%s: %v", f.Input, f.Err))
	}
	if len(failed) == 1 {
		be.Err = failed[0].Err
	}
	return be
}

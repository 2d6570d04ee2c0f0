package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mmynk/schoolfees/internal/apperr"
	"github.com/mmynk/schoolfees/internal/backend"
	"github.com/mmynk/schoolfees/internal/calculator"
	"github.com/mmynk/schoolfees/internal/metrics"
	"github.com/mmynk/schoolfees/internal/models"
	"github.com/mmynk/schoolfees/internal/storage"
	"github.com/mmynk/schoolfees/internal/validation"
)

// Progress receives a completion percentage between 0 and 100. It only paces the
// display; the generation itself is a single backend call.
type Progress func(percent int)

// GenerationResult is the outcome of a bulk invoice generation.
type GenerationResult struct {
	RunID            string           `json:"runId"`
	FeeStructureID   string           `json:"feeStructureId"`
	Term             models.Term      `json:"term"`
	PerStudentAmount decimal.Decimal  `json:"perStudentAmount"`
	TotalStudents    int              `json:"totalStudents"`
	Invoices         []models.Invoice `json:"invoices"`
}

// InvoiceGenerator bills grades for a structure's term.
type InvoiceGenerator struct {
	api      backend.API
	catalogs *Catalogs
	store    storage.Store
	now      func() time.Time
}

// NewInvoiceGenerator creates a generator that journals its runs in store.
func NewInvoiceGenerator(api backend.API, catalogs *Catalogs, store storage.Store) *InvoiceGenerator {
	return &InvoiceGenerator{api: api, catalogs: catalogs, store: store, now: time.Now}
}

// snapshot is the data a generation reads, captured once when it starts.
type snapshot struct {
	structures []models.FeeStructure
	grades     []models.Grade
}

// Generate bills every student of the command's grades for the selected buckets of
// the structure's term.
//
// The command is validated before any network call. The structure and grade lists are
// then read once; re-assignments made while the generation runs do not affect it. The
// invoices are produced by one atomic backend call, so a failure leaves none behind.
// Every run that reaches the backend is journaled.
func (g *InvoiceGenerator) Generate(ctx context.Context, cmd models.BulkInvoiceGeneration, progress Progress) (GenerationResult, error) {
	if progress == nil {
		progress = func(int) {}
	}

	slog.Info("GenerateInvoices request received",
		"structure_id", cmd.FeeStructureID,
		"term", cmd.Term,
		"grades_count", len(cmd.GradeIDs),
		"buckets_count", len(cmd.SelectedBuckets),
	)

	if err := validation.Struct(cmd); err != nil {
		return GenerationResult{}, err
	}
	// Grades and buckets are sets; a repeated id must not bill a student twice.
	cmd.GradeIDs = lo.Uniq(cmd.GradeIDs)
	cmd.SelectedBuckets = lo.Uniq(cmd.SelectedBuckets)
	progress(0)

	snap, err := g.snapshot(ctx)
	if err != nil {
		return GenerationResult{}, err
	}
	progress(25)

	group, ok := calculator.FindGroup(calculator.GroupStructures(snap.structures), cmd.FeeStructureID)
	if !ok {
		return GenerationResult{}, apperr.NewNotFoundError("fee structure", cmd.FeeStructureID)
	}
	term, ok := group.FindTerm(cmd.Term)
	if !ok {
		return GenerationResult{}, apperr.NewNotFoundError("term", cmd.Term)
	}

	grades, err := selectGrades(snap.grades, cmd.GradeIDs, group)
	if err != nil {
		return GenerationResult{}, err
	}

	termBuckets := group.TermFeesMap[term.ID]
	if missing := lo.Without(cmd.SelectedBuckets, lo.Map(termBuckets, func(b models.BucketSummary, _ int) string { return b.ID })...); len(missing) > 0 {
		return GenerationResult{}, apperr.NewValidationError(
			errors.New("buckets not billed in "+term.Name+": "+strings.Join(missing, ", ")),
			apperr.FieldError{Field: "selectedBuckets", Error: "not billed in " + term.Name},
		)
	}

	perStudent := calculator.PerStudentAmount(termBuckets, cmd.SelectedBuckets)
	totalStudents := calculator.TotalStudents(grades, cmd.GradeIDs)

	generateDate := cmd.GenerateDate
	if generateDate == "" {
		generateDate = g.now().Format(time.DateOnly)
	}

	input := models.InvoiceBatchInput{
		FeeStructureID:      cmd.FeeStructureID,
		TermID:              term.ID,
		Term:                cmd.Term,
		GradeIDs:            cmd.GradeIDs,
		Lines:               calculator.InvoiceLines(termBuckets, cmd.SelectedBuckets),
		AmountPerStudent:    perStudent,
		GenerateDate:        generateDate,
		DueDate:             cmd.DueDate,
		IncludeOptionalFees: cmd.IncludeOptionalFees,
		CustomMessage:       cmd.CustomMessage,
	}
	progress(50)

	run := &models.GenerationRun{
		FeeStructureID:   cmd.FeeStructureID,
		TermID:           term.ID,
		BucketIDs:        cmd.SelectedBuckets,
		Grades:           gradeSnapshots(grades),
		PerStudentAmount: perStudent,
		TotalStudents:    totalStudents,
		DueDate:          cmd.DueDate,
		CreatedAt:        g.now().Unix(),
	}

	invoices, err := g.api.GenerateBulkInvoices(ctx, input)
	if err != nil {
		slog.Error("GenerateInvoices failed", "structure_id", cmd.FeeStructureID, "term_id", term.ID, "error", err)
		run.Status = models.RunFailed
		run.Error = err.Error()
		g.record(ctx, run)
		metrics.GenerationRuns.WithLabelValues(metrics.OutcomeError).Inc()
		return GenerationResult{}, err
	}

	run.Status = models.RunSucceeded
	run.InvoiceCount = len(invoices)
	g.record(ctx, run)
	metrics.GenerationRuns.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.InvoicesGenerated.Add(float64(len(invoices)))
	progress(100)

	slog.Info("Invoices generated",
		"run_id", run.ID,
		"structure_id", cmd.FeeStructureID,
		"term_id", term.ID,
		"per_student_amount", perStudent.String(),
		"total_students", totalStudents,
		"invoices", len(invoices),
	)

	return GenerationResult{
		RunID:            run.ID,
		FeeStructureID:   cmd.FeeStructureID,
		Term:             term,
		PerStudentAmount: perStudent,
		TotalStudents:    totalStudents,
		Invoices:         invoices,
	}, nil
}

// Runs lists the journaled runs of a structure, newest first.
func (g *InvoiceGenerator) Runs(ctx context.Context, feeStructureID string) ([]*models.GenerationRun, error) {
	return g.store.ListRuns(ctx, feeStructureID)
}

// Run returns one journaled run.
func (g *InvoiceGenerator) Run(ctx context.Context, runID string) (*models.GenerationRun, error) {
	return g.store.GetRun(ctx, runID)
}

func (g *InvoiceGenerator) snapshot(ctx context.Context) (snapshot, error) {
	catalog := g.catalogs.For(ctx)
	structures, err := catalog.Structures.Refresh(ctx)
	if err != nil {
		return snapshot{}, err
	}
	grades, err := catalog.Grades.Refresh(ctx)
	if err != nil {
		return snapshot{}, err
	}
	return snapshot{structures: structures, grades: grades}, nil
}

// record journals a run. A journal failure is logged and does not fail the
// generation, whose invoices already exist on the backend; the run is left without
// an id since nothing was stored under it.
func (g *InvoiceGenerator) record(ctx context.Context, run *models.GenerationRun) {
	if err := g.store.CreateRun(ctx, run); err != nil {
		slog.Error("Failed to record generation run", "structure_id", run.FeeStructureID, "error", err)
		run.ID = ""
	}
}

// selectGrades returns the snapshot grades with the given ids. Every grade must exist
// and be billed under one of the group's physical structures.
func selectGrades(all []models.Grade, ids []string, group models.ProcessedFeeStructure) ([]models.Grade, error) {
	byID := lo.KeyBy(all, func(g models.Grade) string { return g.ID })

	var selected []models.Grade
	var missing, unassigned []string
	for _, id := range ids {
		grade, ok := byID[id]
		switch {
		case !ok:
			missing = append(missing, id)
		case !group.Contains(grade.FeeStructureID):
			unassigned = append(unassigned, grade.DisplayName())
		default:
			selected = append(selected, grade)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.NewNotFoundError("grade", missing...)
	}
	if len(unassigned) > 0 {
		msg := "grades not assigned to " + group.BaseName + ": " + strings.Join(unassigned, ", ")
		return nil, apperr.NewValidationError(errors.New(msg), apperr.FieldError{Field: "gradeIds", Error: msg})
	}
	return selected, nil
}

func gradeSnapshots(grades []models.Grade) []models.GradeSnapshot {
	return lo.Map(grades, func(g models.Grade, _ int) models.GradeSnapshot {
		return models.GradeSnapshot{GradeID: g.ID, FeeStructureID: g.FeeStructureID, StudentCount: g.StudentCount}
	})
}

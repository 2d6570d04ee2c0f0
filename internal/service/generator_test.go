package service

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/schoolfees/internal/backend"
	"github.com/mmynk/schoolfees/internal/backend/backendtest"
	"github.com/mmynk/schoolfees/internal/graphql"
	"github.com/mmynk/schoolfees/internal/models"
	"github.com/mmynk/schoolfees/internal/storage"
	"github.com/mmynk/schoolfees/internal/storage/sqlite"
)

func newTestGenerator(t *testing.T) (*InvoiceGenerator, *backendtest.Server) {
	t.Helper()

	fake := backendtest.New(t)
	seed(fake)
	seedStructure(fake, "fs-day")

	store, err := sqlite.New(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	api := backend.New(graphql.NewClient(fake.URL))
	if _, err := api.AssignFeeStructureToGrades(context.Background(), "fs-day", []string{"g-4e"}); err != nil {
		t.Fatalf("failed to assign: %v", err)
	}

	gen := NewInvoiceGenerator(api, NewCatalogs(api), store)
	gen.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	return gen, fake
}

func TestGenerateProgressAndDefaults(t *testing.T) {
	gen, fake := newTestGenerator(t)

	var progress []int
	result, err := gen.Generate(context.Background(), models.BulkInvoiceGeneration{
		FeeStructureID:  "fs-day",
		Term:            "term 1",
		GradeIDs:        []string{"g-4e"},
		SelectedBuckets: []string{"b-tuition"},
		DueDate:         "2024-03-31",
	}, func(p int) { progress = append(progress, p) })
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if want := []int{0, 25, 50, 100}; !slices.Equal(progress, want) {
		t.Errorf("progress: expected %v, got %v", want, progress)
	}
	if len(result.Invoices) != 20 {
		t.Fatalf("invoices: expected 20, got %d", len(result.Invoices))
	}
	if got := result.Invoices[0].GenerateDate; got != "2024-03-01" {
		t.Errorf("generate date: expected today 2024-03-01, got %s", got)
	}
	if n := len(fake.Invoices()); n != 20 {
		t.Errorf("backend invoices: expected 20, got %d", n)
	}

	run, err := gen.Run(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if run.CreatedAt != time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC).Unix() {
		t.Errorf("run created at: got %d", run.CreatedAt)
	}
	if len(run.Grades) != 1 || run.Grades[0].FeeStructureID != "fs-day" || run.Grades[0].StudentCount != 20 {
		t.Errorf("unexpected grade snapshot: %+v", run.Grades)
	}
}

func TestGenerateFailureStopsProgress(t *testing.T) {
	gen, fake := newTestGenerator(t)
	fake.Fail(backend.OpGenerateBulkInvoices, "timeout upstream")

	var progress []int
	_, err := gen.Generate(context.Background(), models.BulkInvoiceGeneration{
		FeeStructureID:  "fs-day",
		Term:            "t1",
		GradeIDs:        []string{"g-4e"},
		SelectedBuckets: []string{"b-tuition"},
		DueDate:         "2024-03-31",
	}, func(p int) { progress = append(progress, p) })
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if slices.Contains(progress, 100) {
		t.Errorf("progress must not complete on failure, got %v", progress)
	}

	runs, err := gen.Runs(context.Background(), "fs-day")
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != models.RunFailed {
		t.Errorf("expected one failed run, got %+v", runs)
	}
}

func TestGenerateNilProgress(t *testing.T) {
	gen, _ := newTestGenerator(t)

	if _, err := gen.Generate(context.Background(), models.BulkInvoiceGeneration{
		FeeStructureID:  "fs-day",
		Term:            "t1",
		GradeIDs:        []string{"g-4e"},
		SelectedBuckets: []string{"b-tuition", "b-activity"},
		DueDate:         "2024-03-31",
	}, nil); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
}

func TestGenerateDayFeesScenario(t *testing.T) {
	fake := backendtest.New(t)
	fake.AddTerm(term1)
	fake.AddStructure(models.FeeStructure{
		ID:             "day-fees",
		Name:           "Day Fees",
		AcademicYearID: "ay-2024",
		Terms:          []models.Term{term1},
		Items: []models.FeeStructureItem{
			{FeeBucketID: "tuition", FeeBucketName: "Tuition", Amount: decimal.NewFromInt(5000), IsMandatory: true},
			{FeeBucketID: "transport", FeeBucketName: "Transport", Amount: decimal.NewFromInt(1000)},
		},
		IsActive:  true,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	fake.AddGrade(models.Grade{ID: "grade4", Name: "Grade 4", StudentCount: 30, FeeStructureID: "day-fees"})

	store, err := sqlite.New(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	api := backend.New(graphql.NewClient(fake.URL))
	gen := NewInvoiceGenerator(api, NewCatalogs(api), store)

	result, err := gen.Generate(context.Background(), models.BulkInvoiceGeneration{
		FeeStructureID:  "day-fees",
		Term:            "Term 1",
		GradeIDs:        []string{"grade4"},
		SelectedBuckets: []string{"tuition", "transport"},
		DueDate:         "2024-05-01",
	}, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !result.PerStudentAmount.Equal(decimal.NewFromInt(6000)) {
		t.Errorf("per student: expected 6000, got %s", result.PerStudentAmount)
	}
	if result.TotalStudents != 30 {
		t.Errorf("total students: expected 30, got %d", result.TotalStudents)
	}
	if n := fake.Calls(backend.OpGenerateBulkInvoices); n != 1 {
		t.Errorf("expected 1 generateBulkInvoices call, got %d", n)
	}
}

func TestGenerateDuplicateIDs(t *testing.T) {
	gen, fake := newTestGenerator(t)

	result, err := gen.Generate(context.Background(), models.BulkInvoiceGeneration{
		FeeStructureID:  "fs-day",
		Term:            "t1",
		GradeIDs:        []string{"g-4e", "g-4e"},
		SelectedBuckets: []string{"b-tuition", "b-tuition", "b-transport"},
		DueDate:         "2024-03-31",
	}, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.TotalStudents != 20 {
		t.Errorf("total students: expected 20, got %d", result.TotalStudents)
	}
	if !result.PerStudentAmount.Equal(decimal.NewFromInt(6000)) {
		t.Errorf("per student: expected 6000, got %s", result.PerStudentAmount)
	}
	if n := len(fake.Invoices()); n != 20 {
		t.Errorf("backend invoices: expected 20, got %d", n)
	}

	run, err := gen.Run(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(run.Grades) != 1 || len(run.BucketIDs) != 2 {
		t.Errorf("journaled run: expected 1 grade and 2 buckets, got %+v", run)
	}
}

// brokenJournal rejects every write.
type brokenJournal struct {
	storage.Store
}

func (brokenJournal) CreateRun(ctx context.Context, run *models.GenerationRun) error {
	run.ID = "assigned-before-failure"
	return errors.New("disk full")
}

func TestGenerateJournalFailure(t *testing.T) {
	fake := backendtest.New(t)
	seed(fake)
	seedStructure(fake, "fs-day")

	api := backend.New(graphql.NewClient(fake.URL))
	if _, err := api.AssignFeeStructureToGrades(context.Background(), "fs-day", []string{"g-4e"}); err != nil {
		t.Fatalf("failed to assign: %v", err)
	}
	gen := NewInvoiceGenerator(api, NewCatalogs(api), brokenJournal{})

	result, err := gen.Generate(context.Background(), models.BulkInvoiceGeneration{
		FeeStructureID:  "fs-day",
		Term:            "t1",
		GradeIDs:        []string{"g-4e"},
		SelectedBuckets: []string{"b-tuition"},
		DueDate:         "2024-03-31",
	}, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(result.Invoices) != 20 {
		t.Errorf("invoices: expected 20, got %d", len(result.Invoices))
	}
	if result.RunID != "" {
		t.Errorf("run id: expected empty when the journal write fails, got %q", result.RunID)
	}
}

// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/schoolfees/internal/apperr"
	"github.com/mmynk/schoolfees/internal/models"
	"github.com/mmynk/schoolfees/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRun persists a generation run with its bucket list and grade snapshot.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *models.GenerationRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().Unix()
	}

	var runErr any
	if run.Error != "" {
		runErr = run.Error
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO generation_runs
		 (id, fee_structure_id, term_id, per_student_amount, total_students, invoice_count, due_date, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.FeeStructureID, run.TermID, run.PerStudentAmount.String(), run.TotalStudents,
		run.InvoiceCount, run.DueDate, run.Status, runErr, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation run: %w", err)
	}

	for i, bucketID := range run.BucketIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO generation_run_buckets (run_id, position, bucket_id) VALUES (?, ?, ?)",
			run.ID, i, bucketID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run bucket: %w", err)
		}
	}

	for _, g := range run.Grades {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO generation_run_grades (run_id, grade_id, fee_structure_id, student_count) VALUES (?, ?, ?, ?)",
			run.ID, g.GradeID, g.FeeStructureID, g.StudentCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run grade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const runColumns = `id, fee_structure_id, term_id, per_student_amount, total_students, invoice_count, due_date, status, error, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.GenerationRun, error) {
	run := &models.GenerationRun{}
	var amount string
	var runErr sql.NullString
	if err := row.Scan(&run.ID, &run.FeeStructureID, &run.TermID, &amount, &run.TotalStudents,
		&run.InvoiceCount, &run.DueDate, &run.Status, &runErr, &run.CreatedAt); err != nil {
		return nil, err
	}

	perStudent, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse per student amount %q: %w", amount, err)
	}
	run.PerStudentAmount = perStudent
	if runErr.Valid {
		run.Error = runErr.String
	}
	return run, nil
}

// GetRun retrieves a run by ID, including its buckets and grade snapshot.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*models.GenerationRun, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM generation_runs WHERE id = ?",
		runID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NewNotFoundError("generation run", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get generation run: %w", err)
	}

	if err := s.loadDetails(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns retrieves the runs of a fee structure, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, feeStructureID string) ([]*models.GenerationRun, error) {
	query := "SELECT " + runColumns + " FROM generation_runs"
	var args []any
	if feeStructureID != "" {
		query += " WHERE fee_structure_id = ?"
		args = append(args, feeStructureID)
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list generation runs: %w", err)
	}

	var runs []*models.GenerationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan generation run: %w", err)
		}
		runs = append(runs, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate generation runs: %w", err)
	}

	for _, run := range runs {
		if err := s.loadDetails(ctx, run); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// loadDetails fills the bucket list and grade snapshot of a run.
func (s *SQLiteStore) loadDetails(ctx context.Context, run *models.GenerationRun) error {
	bucketRows, err := s.db.QueryContext(ctx,
		"SELECT bucket_id FROM generation_run_buckets WHERE run_id = ? ORDER BY position",
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get run buckets: %w", err)
	}
	defer bucketRows.Close()

	for bucketRows.Next() {
		var bucketID string
		if err := bucketRows.Scan(&bucketID); err != nil {
			return fmt.Errorf("failed to scan run bucket: %w", err)
		}
		run.BucketIDs = append(run.BucketIDs, bucketID)
	}
	if err := bucketRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate run buckets: %w", err)
	}

	gradeRows, err := s.db.QueryContext(ctx,
		"SELECT grade_id, fee_structure_id, student_count FROM generation_run_grades WHERE run_id = ? ORDER BY grade_id",
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get run grades: %w", err)
	}
	defer gradeRows.Close()

	for gradeRows.Next() {
		var g models.GradeSnapshot
		if err := gradeRows.Scan(&g.GradeID, &g.FeeStructureID, &g.StudentCount); err != nil {
			return fmt.Errorf("failed to scan run grade: %w", err)
		}
		run.Grades = append(run.Grades, g)
	}
	if err := gradeRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate run grades: %w", err)
	}

	return nil
}

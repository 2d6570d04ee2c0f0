// Package storage provides abstractions for persistent data storage.
//
// Fee data is owned by the GraphQL backend; the only thing stored locally is the journal
// of bulk invoice generation runs.
package storage

import (
	"context"

	"github.com/mmynk/schoolfees/internal/models"
)

// Store defines the interface for generation journal operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateRun persists a generation run.
	// The run.ID and run.CreatedAt fields are populated by the store when empty.
	CreateRun(ctx context.Context, run *models.GenerationRun) error

	// GetRun retrieves a run by its ID.
	// Returns an *apperr.NotFoundError if the run does not exist.
	GetRun(ctx context.Context, runID string) (*models.GenerationRun, error)

	// ListRuns returns the runs of a fee structure, newest first.
	// An empty feeStructureID lists every run.
	ListRuns(ctx context.Context, feeStructureID string) ([]*models.GenerationRun, error)

	// Close releases any resources held by the store.
	Close() error
}

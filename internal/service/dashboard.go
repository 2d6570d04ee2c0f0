package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/schoolfees/internal/calculator"
	"github.com/mmynk/schoolfees/internal/models"
)

// Dashboard is the combined structures overview.
type Dashboard struct {
	Structures []models.ProcessedFeeStructure       `json:"structures"`
	Grades     []models.Grade                       `json:"grades"`
	Stats      map[string]calculator.StructureStats `json:"stats"`
	Errors     map[string]string                    `json:"errors,omitempty"`
}

// DashboardService refreshes the structure and grade lists together.
type DashboardService struct {
	catalogs *Catalogs
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(catalogs *Catalogs) *DashboardService {
	return &DashboardService{catalogs: catalogs}
}

// RefreshAll re-fetches structures and grades concurrently. A failed fetch is logged
// and reported under its cache key; the other list is still returned, and the failed
// one falls back to whatever was last fetched successfully.
func (d *DashboardService) RefreshAll(ctx context.Context) Dashboard {
	slog.Info("RefreshAll request received")

	catalog := d.catalogs.For(ctx)

	var (
		structures    []models.FeeStructure
		grades        []models.Grade
		structuresErr error
		gradesErr     error
	)

	var g errgroup.Group
	g.Go(func() error {
		structures, structuresErr = catalog.Structures.Refresh(ctx)
		return nil
	})
	g.Go(func() error {
		grades, gradesErr = catalog.Grades.Refresh(ctx)
		return nil
	})
	_ = g.Wait()

	errs := make(map[string]string)
	if structuresErr != nil {
		slog.Error("Failed to refresh fee structures", "error", structuresErr)
		errs[KeyFeeStructures] = structuresErr.Error()
		structures = catalog.Structures.Peek().Data
	}
	if gradesErr != nil {
		slog.Error("Failed to refresh grades", "error", gradesErr)
		errs[KeyGrades] = gradesErr.Error()
		grades = catalog.Grades.Peek().Data
	}

	groups := calculator.GroupStructures(structures)
	if grades == nil {
		grades = []models.Grade{}
	}

	dash := Dashboard{
		Structures: groups,
		Grades:     grades,
		Stats:      calculator.CalculateStructureStats(groups, grades),
	}
	if len(errs) > 0 {
		dash.Errors = errs
	}
	return dash
}

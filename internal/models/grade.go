package models

import "strings"

// BoardingType describes how students of a grade attend.
type BoardingType string

const (
	BoardingDay      BoardingType = "DAY"
	BoardingBoarding BoardingType = "BOARDING"
	BoardingMixed    BoardingType = "MIXED"
)

// Grade is a class stream of the school (e.g. "Grade 4", section "East").
// Grades are owned by the backend; this service only reads them and assigns
// structures to them.
type Grade struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Section      string       `json:"section,omitempty"`
	StudentCount int          `json:"studentCount"`
	BoardingType BoardingType `json:"boardingType,omitempty"`

	// FeeStructureID is the structure this grade is billed under, empty when
	// unassigned. A grade points at most at one structure.
	FeeStructureID string `json:"feeStructureId,omitempty"`
}

// DisplayName joins name and section ("Grade 4 East").
func (g *Grade) DisplayName() string {
	if g.Section == "" {
		return g.Name
	}
	return g.Name + " " + g.Section
}

// AssignmentResult is what the backend reports after linking a structure to grades.
type AssignmentResult struct {
	FeeStructureID string   `json:"feeStructureId"`
	GradeIDs       []string `json:"gradeIds"`
	Success        bool     `json:"success"`
	Message        string   `json:"message,omitempty"`
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

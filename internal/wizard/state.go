// Package wizard holds the state machine behind fee structure creation.
//
// A structure is built in three steps, Setup, Amounts and Review, with linear
// navigation only. Every forward transition is gated by the current step's validator.
// State changes go through Apply, a pure reducer over a closed set of updates.
package wizard

import (
	"maps"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mmynk/schoolfees/internal/models"
)

// Step is a wizard step.
type Step int

const (
	StepSetup Step = iota
	StepAmounts
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepSetup:
		return "setup"
	case StepAmounts:
		return "amounts"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// SetupFields are entered on the first step.
type SetupFields struct {
	Name           string        `json:"name" validate:"required"`
	AcademicYearID string        `json:"academicYearId"`
	Terms          []models.Term `json:"terms"`

	// Grades are human-readable grade names, resolved to grade level ids on submit.
	Grades []string `json:"grades" label:"grade" validate:"selected"`

	// PerTermAmounts lets every term carry its own amounts.
	PerTermAmounts bool `json:"perTermAmounts"`
}

// AmountsFields are entered on the second step.
type AmountsFields struct {
	SelectedBuckets []string `json:"selectedBuckets" label:"bucket" validate:"selected"`

	// Amounts maps bucket id to the amount charged in every term.
	Amounts map[string]decimal.Decimal `json:"amounts,omitempty"`

	// TermAmounts maps term id to bucket id to amount, used with PerTermAmounts.
	TermAmounts map[string]map[string]decimal.Decimal `json:"termAmounts,omitempty"`

	// Mandatory marks the buckets every student pays.
	Mandatory map[string]bool `json:"mandatory,omitempty"`
}

// ReviewFields is everything shown on the last step and handed to the creator.
type ReviewFields struct {
	Setup   SetupFields   `json:"setup"`
	Amounts AmountsFields `json:"amounts"`
}

// AmountsByTerm returns term id to bucket id to amount for the selected buckets.
// Without per-term amounts, the shared amounts are copied to every term.
func (r ReviewFields) AmountsByTerm() map[string]map[string]decimal.Decimal {
	out := make(map[string]map[string]decimal.Decimal, len(r.Setup.Terms))
	for _, t := range r.Setup.Terms {
		source := r.Amounts.Amounts
		if r.Setup.PerTermAmounts {
			source = r.Amounts.TermAmounts[t.ID]
		}
		byBucket := make(map[string]decimal.Decimal, len(r.Amounts.SelectedBuckets))
		for _, b := range r.Amounts.SelectedBuckets {
			if amt, ok := source[b]; ok {
				byBucket[b] = amt
			}
		}
		out[t.ID] = byBucket
	}
	return out
}

// State is the full wizard state.
type State struct {
	Step    Step          `json:"step"`
	Setup   SetupFields   `json:"setup"`
	Amounts AmountsFields `json:"amounts"`
}

// Initial returns the state of a freshly opened wizard.
func Initial() State {
	return State{Step: StepSetup}
}

// Review returns the fields shown on the review step.
func (s State) Review() ReviewFields {
	return ReviewFields{Setup: s.Setup, Amounts: s.Amounts}
}

// Update is one field change. The set of updates is closed: only the types of this
// package implement it.
type Update interface {
	apply(State) State
}

// Apply returns s with u applied. s is not modified.
func Apply(s State, u Update) State {
	return u.apply(s)
}

type (
	SetName           string
	SetAcademicYear   string
	SetTerms          []models.Term
	SetGrades         []string
	SetPerTermAmounts bool
	SelectBuckets     []string
)

// SetAmount sets the shared amount of a bucket.
type SetAmount struct {
	BucketID string
	Amount   decimal.Decimal
}

// SetTermAmount sets the amount of a bucket in one term.
type SetTermAmount struct {
	TermID   string
	BucketID string
	Amount   decimal.Decimal
}

// SetMandatory marks a bucket mandatory or optional.
type SetMandatory struct {
	BucketID  string
	Mandatory bool
}

func (u SetName) apply(s State) State {
	s.Setup.Name = string(u)
	return s
}

func (u SetAcademicYear) apply(s State) State {
	s.Setup.AcademicYearID = string(u)
	return s
}

func (u SetTerms) apply(s State) State {
	s.Setup.Terms = slices.Clone([]models.Term(u))
	return s
}

func (u SetGrades) apply(s State) State {
	s.Setup.Grades = slices.Clone([]string(u))
	return s
}

func (u SetPerTermAmounts) apply(s State) State {
	s.Setup.PerTermAmounts = bool(u)
	return s
}

func (u SelectBuckets) apply(s State) State {
	s.Amounts.SelectedBuckets = lo.Uniq([]string(u))
	return s
}

func (u SetAmount) apply(s State) State {
	amounts := maps.Clone(s.Amounts.Amounts)
	if amounts == nil {
		amounts = make(map[string]decimal.Decimal)
	}
	amounts[u.BucketID] = u.Amount
	s.Amounts.Amounts = amounts
	return s
}

func (u SetTermAmount) apply(s State) State {
	termAmounts := make(map[string]map[string]decimal.Decimal, len(s.Amounts.TermAmounts)+1)
	for termID, byBucket := range s.Amounts.TermAmounts {
		termAmounts[termID] = byBucket
	}
	byBucket := maps.Clone(termAmounts[u.TermID])
	if byBucket == nil {
		byBucket = make(map[string]decimal.Decimal)
	}
	byBucket[u.BucketID] = u.Amount
	termAmounts[u.TermID] = byBucket
	s.Amounts.TermAmounts = termAmounts
	return s
}

func (u SetMandatory) apply(s State) State {
	mandatory := maps.Clone(s.Amounts.Mandatory)
	if mandatory == nil {
		mandatory = make(map[string]bool)
	}
	mandatory[u.BucketID] = u.Mandatory
	s.Amounts.Mandatory = mandatory
	return s
}

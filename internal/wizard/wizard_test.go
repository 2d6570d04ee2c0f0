package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/schoolfees/internal/apperr"
	"github.com/mmynk/schoolfees/internal/models"
)

var (
	term1 = models.Term{ID: "t1", Name: "Term 1"}
	term2 = models.Term{ID: "t2", Name: "Term 2"}
)

func TestValidateSetup(t *testing.T) {
	tests := []struct {
		name    string
		fields  SetupFields
		wantErr string
	}{
		{name: "valid", fields: SetupFields{Name: "Day Fees", Grades: []string{"Grade 4"}}},
		{name: "blank name", fields: SetupFields{Name: "   ", Grades: []string{"Grade 4"}}, wantErr: "name required"},
		{name: "no grades", fields: SetupFields{Name: "Day Fees"}, wantErr: "grade required"},
		{name: "nothing", fields: SetupFields{}, wantErr: "name required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSetup(tt.fields)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateSetup() error = %v", err)
				}
				return
			}
			if !apperr.IsValidation(err) || err.Error() != tt.wantErr {
				t.Errorf("ValidateSetup() error = %v, want ValidationError %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAmounts(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		name    string
		setup   SetupFields
		fields  AmountsFields
		wantErr string
	}{
		{
			name:    "no buckets",
			setup:   SetupFields{Terms: []models.Term{term1}},
			fields:  AmountsFields{},
			wantErr: "bucket required",
		},
		{
			name:   "shared amounts valid",
			setup:  SetupFields{Terms: []models.Term{term1, term2}},
			fields: AmountsFields{SelectedBuckets: []string{"x"}, Amounts: map[string]decimal.Decimal{"x": hundred}},
		},
		{
			name:    "shared amount zero",
			setup:   SetupFields{Terms: []models.Term{term1}},
			fields:  AmountsFields{SelectedBuckets: []string{"x", "y"}, Amounts: map[string]decimal.Decimal{"x": hundred, "y": decimal.Zero}},
			wantErr: "amount required for y",
		},
		{
			name:    "shared amount missing",
			setup:   SetupFields{Terms: []models.Term{term1}},
			fields:  AmountsFields{SelectedBuckets: []string{"x"}},
			wantErr: "amount required for x",
		},
		{
			name:  "per term valid with zero bucket",
			setup: SetupFields{Terms: []models.Term{term1, term2}, PerTermAmounts: true},
			fields: AmountsFields{
				SelectedBuckets: []string{"x", "y"},
				TermAmounts: map[string]map[string]decimal.Decimal{
					"t1": {"x": hundred},
					"t2": {"x": decimal.Zero, "y": hundred},
				},
			},
		},
		{
			name:  "per term empty term",
			setup: SetupFields{Terms: []models.Term{term1, term2}, PerTermAmounts: true},
			fields: AmountsFields{
				SelectedBuckets: []string{"x"},
				TermAmounts:     map[string]map[string]decimal.Decimal{"t1": {"x": hundred}},
			},
			wantErr: "Term 2 needs at least one bucket with an amount",
		},
		{
			name:  "per term amount for unselected bucket",
			setup: SetupFields{Terms: []models.Term{term1}, PerTermAmounts: true},
			fields: AmountsFields{
				SelectedBuckets: []string{"x"},
				TermAmounts:     map[string]map[string]decimal.Decimal{"t1": {"y": hundred}},
			},
			wantErr: "Term 1 needs at least one bucket with an amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmounts(tt.setup, tt.fields)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateAmounts() error = %v", err)
				}
				return
			}
			if !apperr.IsValidation(err) || err.Error() != tt.wantErr {
				t.Errorf("ValidateAmounts() error = %v, want ValidationError %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyIsPure(t *testing.T) {
	s0 := Apply(Initial(), SetAmount{BucketID: "x", Amount: decimal.NewFromInt(100)})
	s1 := Apply(s0, SetAmount{BucketID: "x", Amount: decimal.NewFromInt(200)})

	if !s0.Amounts.Amounts["x"].Equal(decimal.NewFromInt(100)) {
		t.Errorf("previous state changed to %s", s0.Amounts.Amounts["x"])
	}
	if !s1.Amounts.Amounts["x"].Equal(decimal.NewFromInt(200)) {
		t.Errorf("new state = %s, want 200", s1.Amounts.Amounts["x"])
	}

	t0 := Apply(Initial(), SetTermAmount{TermID: "t1", BucketID: "x", Amount: decimal.NewFromInt(1)})
	t1 := Apply(t0, SetTermAmount{TermID: "t1", BucketID: "y", Amount: decimal.NewFromInt(2)})
	if len(t0.Amounts.TermAmounts["t1"]) != 1 || len(t1.Amounts.TermAmounts["t1"]) != 2 {
		t.Errorf("term amounts shared between states: %v / %v", t0.Amounts.TermAmounts, t1.Amounts.TermAmounts)
	}

	grades := []string{"Grade 4"}
	g := Apply(Initial(), SetGrades(grades))
	grades[0] = "changed"
	if g.Setup.Grades[0] != "Grade 4" {
		t.Error("state aliases the caller's slice")
	}
}

func TestMachineNavigation(t *testing.T) {
	m := New()

	if err := m.Back(); !apperr.IsValidation(err) {
		t.Errorf("Back() on setup error = %v, want ValidationError", err)
	}
	if err := m.Next(); err == nil || err.Error() != "name required" {
		t.Fatalf("Next() on empty setup error = %v, want name required", err)
	}
	if m.Step() != StepSetup {
		t.Fatalf("step = %s, want setup", m.Step())
	}

	m.Dispatch(SetName("Day Fees"), SetGrades{"Grade 4"}, SetTerms{term1})
	if err := m.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if m.Step() != StepAmounts {
		t.Fatalf("step = %s, want amounts", m.Step())
	}

	if err := m.Next(); err == nil {
		t.Fatal("Next() without buckets succeeded")
	}

	m.Dispatch(SelectBuckets{"tuition"}, SetAmount{BucketID: "tuition", Amount: decimal.NewFromInt(5000)})
	if err := m.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if m.Step() != StepReview {
		t.Fatalf("step = %s, want review", m.Step())
	}
	if err := m.Next(); !apperr.IsValidation(err) {
		t.Errorf("Next() on review error = %v, want ValidationError", err)
	}

	if err := m.Back(); err != nil || m.Step() != StepAmounts {
		t.Errorf("Back() = %v, step %s, want amounts", err, m.Step())
	}
	if m.State().Setup.Name != "Day Fees" {
		t.Error("Back() lost entered fields")
	}
}

func TestMachineSubmit(t *testing.T) {
	ready := func() *Machine {
		m := New()
		m.Dispatch(SetName("Day Fees"), SetAcademicYear("ay24"), SetGrades{"Grade 4"}, SetTerms{term1})
		_ = m.Next()
		m.Dispatch(SelectBuckets{"tuition"}, SetAmount{BucketID: "tuition", Amount: decimal.NewFromInt(5000)})
		_ = m.Next()
		return m
	}

	t.Run("not on review", func(t *testing.T) {
		called := false
		_, err := New().Submit(context.Background(), func(context.Context, ReviewFields) ([]models.FeeStructure, error) {
			called = true
			return nil, nil
		})
		if !apperr.IsValidation(err) || called {
			t.Errorf("Submit() error = %v, creator called = %v", err, called)
		}
	})

	t.Run("success resets", func(t *testing.T) {
		m := ready()
		var got ReviewFields
		created, err := m.Submit(context.Background(), func(_ context.Context, form ReviewFields) ([]models.FeeStructure, error) {
			got = form
			return []models.FeeStructure{{ID: "s1", Name: form.Setup.Name}}, nil
		})
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if len(created) != 1 || got.Setup.AcademicYearID != "ay24" {
			t.Errorf("created = %+v, form = %+v", created, got)
		}
		if m.Step() != StepSetup || m.State().Setup.Name != "" {
			t.Errorf("state after submit = %+v, want initial", m.State())
		}
	})

	t.Run("failure keeps state", func(t *testing.T) {
		m := ready()
		errBackend := errors.New("backend down")
		_, err := m.Submit(context.Background(), func(context.Context, ReviewFields) ([]models.FeeStructure, error) {
			return nil, errBackend
		})
		if !errors.Is(err, errBackend) {
			t.Fatalf("Submit() error = %v, want %v", err, errBackend)
		}
		if m.Step() != StepReview || m.State().Setup.Name != "Day Fees" {
			t.Errorf("state after failed submit = %+v, want kept", m.State())
		}
	})
}

func TestAmountsByTerm(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	shared := ReviewFields{
		Setup:   SetupFields{Terms: []models.Term{term1, term2}},
		Amounts: AmountsFields{SelectedBuckets: []string{"x"}, Amounts: map[string]decimal.Decimal{"x": hundred, "z": hundred}},
	}
	got := shared.AmountsByTerm()
	if len(got) != 2 || !got["t2"]["x"].Equal(hundred) {
		t.Errorf("shared AmountsByTerm() = %v, want x=100 in both terms", got)
	}
	if _, ok := got["t1"]["z"]; ok {
		t.Error("unselected bucket copied")
	}

	perTerm := ReviewFields{
		Setup: SetupFields{Terms: []models.Term{term1, term2}, PerTermAmounts: true},
		Amounts: AmountsFields{
			SelectedBuckets: []string{"x"},
			TermAmounts:     map[string]map[string]decimal.Decimal{"t1": {"x": hundred}},
		},
	}
	got = perTerm.AmountsByTerm()
	if !got["t1"]["x"].Equal(hundred) || len(got["t2"]) != 0 {
		t.Errorf("per-term AmountsByTerm() = %v", got)
	}
}

func TestSelectBucketsDropsRepeats(t *testing.T) {
	s := Apply(State{}, SelectBuckets{"tuition", "tuition", "transport"})
	if got := s.Amounts.SelectedBuckets; len(got) != 2 || got[0] != "tuition" || got[1] != "transport" {
		t.Errorf("SelectedBuckets = %v, want [tuition transport]", got)
	}
}

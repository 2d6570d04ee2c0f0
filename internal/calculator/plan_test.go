package calculator

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/schoolfees/internal/models"
)

func draft(amounts map[string]map[string]decimal.Decimal, terms ...models.Term) StructureDraft {
	return StructureDraft{
		Name:           "Day Fees",
		AcademicYearID: "ay24",
		Terms:          terms,
		GradeLevelIDs:  []string{"gl4"},
		BucketIDs:      []string{"x", "y"},
		Amounts:        amounts,
		Mandatory:      map[string]bool{"x": true},
	}
}

func TestAmountsDiverge(t *testing.T) {
	tests := []struct {
		name    string
		amounts map[string]map[string]decimal.Decimal
		terms   []models.Term
		want    bool
	}{
		{
			name:    "same amounts",
			amounts: map[string]map[string]decimal.Decimal{"t1": {"x": amt(100)}, "t2": {"x": amt(100)}},
			terms:   []models.Term{term1, term2},
			want:    false,
		},
		{
			name:    "different amounts",
			amounts: map[string]map[string]decimal.Decimal{"t1": {"x": amt(100)}, "t2": {"x": amt(150)}},
			terms:   []models.Term{term1, term2},
			want:    true,
		},
		{
			name:    "equal with different scale",
			amounts: map[string]map[string]decimal.Decimal{"t1": {"x": decimal.RequireFromString("100.00")}, "t2": {"x": amt(100)}},
			terms:   []models.Term{term1, term2},
			want:    false,
		},
		{
			name:    "bucket only in second term",
			amounts: map[string]map[string]decimal.Decimal{"t1": {"x": amt(100)}, "t2": {"x": amt(100), "y": amt(20)}},
			terms:   []models.Term{term1, term2},
			want:    true,
		},
		{
			name:    "single term",
			amounts: map[string]map[string]decimal.Decimal{"t1": {"x": amt(100)}},
			terms:   []models.Term{term1},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AmountsDiverge(draft(tt.amounts, tt.terms...)); got != tt.want {
				t.Errorf("AmountsDiverge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTermStructureName(t *testing.T) {
	tests := []struct {
		term  models.Term
		index int
		want  string
	}{
		{term: models.Term{ID: "t1", Name: "Term 1"}, index: 0, want: "Day Fees - Term 1"},
		{term: models.Term{ID: "t3", Name: "term 3"}, index: 0, want: "Day Fees - term 3"},
		{term: models.Term{ID: "t2", Name: "Second Term"}, index: 1, want: "Day Fees - Term 2"},
		{term: models.Term{ID: "t9"}, index: 2, want: "Day Fees - Term 3"},
	}

	for _, tt := range tests {
		if got := TermStructureName("Day Fees", tt.term, tt.index); got != tt.want {
			t.Errorf("TermStructureName(%q, %d) = %q, want %q", tt.term.Name, tt.index, got, tt.want)
		}
	}
}

func TestPlanStructures(t *testing.T) {
	t.Run("diverging amounts split per term", func(t *testing.T) {
		d := draft(map[string]map[string]decimal.Decimal{
			"t1": {"x": amt(100)},
			"t2": {"x": amt(150), "y": amt(0)},
		}, term1, term2)

		got := PlanStructures(d)
		if len(got) != 2 {
			t.Fatalf("PlanStructures() planned %d structures, want 2", len(got))
		}
		wantNames := []string{"Day Fees - Term 1", "Day Fees - Term 2"}
		for i, s := range got {
			if s.Name != wantNames[i] {
				t.Errorf("structure[%d].Name = %q, want %q", i, s.Name, wantNames[i])
			}
			if len(s.TermIDs) != 1 {
				t.Errorf("structure[%d].TermIDs = %v, want one term", i, s.TermIDs)
			}
			if len(s.Items) != 1 || s.Items[0].FeeBucketID != "x" || !s.Items[0].IsMandatory {
				t.Errorf("structure[%d].Items = %+v, want only mandatory x", i, s.Items)
			}
		}
		if !got[1].Items[0].Amount.Equal(amt(150)) {
			t.Errorf("term 2 amount = %s, want 150", got[1].Items[0].Amount)
		}
	})

	t.Run("same amounts span all terms", func(t *testing.T) {
		d := draft(map[string]map[string]decimal.Decimal{
			"t1": {"x": amt(100), "y": amt(40)},
			"t2": {"x": amt(100), "y": amt(40)},
		}, term1, term2)

		got := PlanStructures(d)
		if len(got) != 1 {
			t.Fatalf("PlanStructures() planned %d structures, want 1", len(got))
		}
		if got[0].Name != "Day Fees" {
			t.Errorf("Name = %q, want %q", got[0].Name, "Day Fees")
		}
		if !reflect.DeepEqual(got[0].TermIDs, []string{"t1", "t2"}) {
			t.Errorf("TermIDs = %v, want [t1 t2]", got[0].TermIDs)
		}
		if len(got[0].Items) != 2 {
			t.Errorf("Items = %+v, want x and y", got[0].Items)
		}
		if got[0].Items[1].IsMandatory {
			t.Error("y should be optional")
		}
	})

	t.Run("bucket only in second term", func(t *testing.T) {
		d := draft(map[string]map[string]decimal.Decimal{
			"t1": {"x": amt(100)},
			"t2": {"x": amt(100), "y": amt(20)},
		}, term1, term2)

		got := PlanStructures(d)
		if len(got) != 2 {
			t.Fatalf("PlanStructures() planned %d structures, want 2", len(got))
		}
		if len(got[0].Items) != 1 {
			t.Errorf("term 1 items = %+v, want only x", got[0].Items)
		}
		if len(got[1].Items) != 2 {
			t.Errorf("term 2 items = %+v, want x and y", got[1].Items)
		}
	})

	t.Run("repeated bucket yields one item", func(t *testing.T) {
		d := draft(map[string]map[string]decimal.Decimal{
			"t1": {"x": amt(1000), "y": amt(40)},
		}, term1)
		d.BucketIDs = []string{"x", "x", "y"}

		got := PlanStructures(d)
		if len(got) != 1 {
			t.Fatalf("PlanStructures() planned %d structures, want 1", len(got))
		}
		if len(got[0].Items) != 2 {
			t.Errorf("Items = %+v, want x and y once each", got[0].Items)
		}
	})

	t.Run("no terms", func(t *testing.T) {
		if got := PlanStructures(draft(nil)); got != nil {
			t.Errorf("PlanStructures() = %+v, want nil", got)
		}
	})
}

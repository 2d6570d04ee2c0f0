package calculator

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/schoolfees/internal/models"
)

var (
	term1 = models.Term{ID: "t1", Name: "Term 1"}
	term2 = models.Term{ID: "t2", Name: "Term 2"}
	term3 = models.Term{ID: "t3", Name: "Term 3"}

	grade4 = models.GradeLevel{ID: "gl4", Name: "Grade 4"}
	grade5 = models.GradeLevel{ID: "gl5", Name: "Grade 5"}
)

func amt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func item(bucketID string, amount int64, mandatory bool) models.FeeStructureItem {
	return models.FeeStructureItem{FeeBucketID: bucketID, FeeBucketName: bucketID, Amount: amt(amount), IsMandatory: mandatory}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "term suffix", in: "Grade 4 Fees - Term 2", want: "Grade 4 Fees"},
		{name: "no suffix", in: "Grade 4 Fees", want: "Grade 4 Fees"},
		{name: "lower case", in: "Day Fees -term 10", want: "Day Fees"},
		{name: "extra spaces", in: "Day Fees   -   Term  3  ", want: "Day Fees"},
		{name: "term not at end", in: "Term 1 Fees", want: "Term 1 Fees"},
		{name: "no number", in: "Day Fees - Term", want: "Day Fees - Term"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BaseName(tt.in); got != tt.want {
				t.Errorf("BaseName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMergeItems(t *testing.T) {
	tests := []struct {
		name  string
		items []models.FeeStructureItem
		want  []models.BucketSummary
	}{
		{
			name:  "mandatory first",
			items: []models.FeeStructureItem{item("b", 100, true), item("b", 50, false)},
			want:  []models.BucketSummary{{ID: "b", Name: "b", TotalAmount: amt(150), IsOptional: false}},
		},
		{
			name:  "mandatory last",
			items: []models.FeeStructureItem{item("b", 50, false), item("b", 100, true)},
			want:  []models.BucketSummary{{ID: "b", Name: "b", TotalAmount: amt(150), IsOptional: false}},
		},
		{
			name:  "all optional",
			items: []models.FeeStructureItem{item("b", 50, false), item("b", 25, false)},
			want:  []models.BucketSummary{{ID: "b", Name: "b", TotalAmount: amt(75), IsOptional: true}},
		},
		{
			name:  "keeps bucket order",
			items: []models.FeeStructureItem{item("tuition", 5000, true), item("transport", 1000, false), item("tuition", 500, false)},
			want: []models.BucketSummary{
				{ID: "tuition", Name: "tuition", TotalAmount: amt(5500), IsOptional: false},
				{ID: "transport", Name: "transport", TotalAmount: amt(1000), IsOptional: true},
			},
		},
		{
			name:  "no items",
			items: nil,
			want:  []models.BucketSummary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeItems(tt.items)
			assertBuckets(t, got, tt.want)
		})
	}
}

func TestGroupStructures(t *testing.T) {
	created := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

	raw := []models.FeeStructure{
		{
			ID: "s1", Name: "Grade 4 Fees - Term 1", AcademicYearID: "ay24", AcademicYearName: "2024",
			Terms: []models.Term{term1}, GradeLevels: []models.GradeLevel{grade4},
			Items:     []models.FeeStructureItem{item("tuition", 5000, true), item("transport", 1000, false)},
			IsActive:  false,
			CreatedAt: created, UpdatedAt: created,
		},
		{
			ID: "s2", Name: "Grade 4 Fees - Term 2", AcademicYearID: "ay24", AcademicYearName: "2024",
			Terms: []models.Term{term2}, GradeLevels: []models.GradeLevel{grade4, grade5},
			Items:     []models.FeeStructureItem{item("tuition", 5500, true)},
			IsActive:  true,
			CreatedAt: created.Add(time.Minute), UpdatedAt: created.Add(time.Hour),
		},
		{
			ID: "s3", Name: "Grade 4 Fees", AcademicYearID: "ay25",
			Terms: []models.Term{term1, term2}, GradeLevels: []models.GradeLevel{grade4},
			Items:     []models.FeeStructureItem{item("tuition", 6000, true)},
			CreatedAt: created.Add(2 * time.Minute), UpdatedAt: created.Add(2 * time.Minute),
		},
	}

	got := GroupStructures(raw)
	if len(got) != 2 {
		t.Fatalf("GroupStructures() returned %d groups, want 2", len(got))
	}

	g := got[0]
	if g.ID != "s1" {
		t.Errorf("ID = %q, want s1", g.ID)
	}
	if g.BaseName != "Grade 4 Fees" {
		t.Errorf("BaseName = %q, want %q", g.BaseName, "Grade 4 Fees")
	}
	if !reflect.DeepEqual(g.StructureIDs, []string{"s1", "s2"}) {
		t.Errorf("StructureIDs = %v, want [s1 s2]", g.StructureIDs)
	}
	if !reflect.DeepEqual(g.Terms, []models.Term{term1, term2}) {
		t.Errorf("Terms = %v, want [term1 term2]", g.Terms)
	}
	if !reflect.DeepEqual(g.GradeLevels, []models.GradeLevel{grade4, grade5}) {
		t.Errorf("GradeLevels = %v, want [grade4 grade5]", g.GradeLevels)
	}
	if !g.IsActive {
		t.Error("IsActive = false, want true when any structure is active")
	}
	if !g.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", g.CreatedAt, created)
	}
	if !g.UpdatedAt.Equal(created.Add(time.Hour)) {
		t.Errorf("UpdatedAt = %v, want %v", g.UpdatedAt, created.Add(time.Hour))
	}
	assertBuckets(t, g.TermFeesMap["t1"], []models.BucketSummary{
		{ID: "tuition", Name: "tuition", TotalAmount: amt(5000)},
		{ID: "transport", Name: "transport", TotalAmount: amt(1000), IsOptional: true},
	})
	assertBuckets(t, g.TermFeesMap["t2"], []models.BucketSummary{
		{ID: "tuition", Name: "tuition", TotalAmount: amt(5500)},
	})
	assertBuckets(t, g.Buckets, g.TermFeesMap["t1"])

	other := got[1]
	if other.ID != "s3" || other.AcademicYearID != "ay25" {
		t.Errorf("second group = %s/%s, want s3/ay25", other.ID, other.AcademicYearID)
	}
	// A structure spanning several terms contributes the same buckets to each.
	assertBuckets(t, other.TermFeesMap["t1"], other.TermFeesMap["t2"])
}

func TestGroupStructuresSameTermMerges(t *testing.T) {
	created := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	raw := []models.FeeStructure{
		{ID: "a", Name: "Day Fees", AcademicYearID: "ay", Terms: []models.Term{term1, term2},
			Items: []models.FeeStructureItem{item("tuition", 100, false)}, CreatedAt: created},
		{ID: "b", Name: "Day Fees - Term 2", AcademicYearID: "ay", Terms: []models.Term{term2},
			Items: []models.FeeStructureItem{item("tuition", 50, true)}, CreatedAt: created.Add(time.Second)},
	}

	got := GroupStructures(raw)
	if len(got) != 1 {
		t.Fatalf("GroupStructures() returned %d groups, want 1", len(got))
	}
	assertBuckets(t, got[0].TermFeesMap["t1"], []models.BucketSummary{
		{ID: "tuition", Name: "tuition", TotalAmount: amt(100), IsOptional: true},
	})
	assertBuckets(t, got[0].TermFeesMap["t2"], []models.BucketSummary{
		{ID: "tuition", Name: "tuition", TotalAmount: amt(150), IsOptional: false},
	})
}

func TestGroupStructuresDeterministic(t *testing.T) {
	created := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	raw := []models.FeeStructure{
		{ID: "s1", Name: "Day Fees - Term 1", AcademicYearID: "ay", Terms: []models.Term{term1},
			GradeLevels: []models.GradeLevel{grade4}, Items: []models.FeeStructureItem{item("tuition", 100, true)}, CreatedAt: created},
		{ID: "s2", Name: "Day Fees - Term 2", AcademicYearID: "ay", Terms: []models.Term{term2},
			GradeLevels: []models.GradeLevel{grade5}, Items: []models.FeeStructureItem{item("tuition", 120, true)}, CreatedAt: created},
		{ID: "s3", Name: "Day Fees - Term 3", AcademicYearID: "ay", Terms: []models.Term{term3},
			GradeLevels: []models.GradeLevel{grade4}, Items: []models.FeeStructureItem{item("meals", 80, false)}, CreatedAt: created.Add(time.Minute)},
		{ID: "s4", Name: "Boarding Fees", AcademicYearID: "ay", Terms: []models.Term{term1},
			GradeLevels: []models.GradeLevel{grade5}, Items: []models.FeeStructureItem{item("boarding", 900, true)}, CreatedAt: created.Add(-time.Minute)},
	}

	want := GroupStructures(raw)
	perms := [][]int{{3, 2, 1, 0}, {1, 0, 3, 2}, {2, 3, 0, 1}, {0, 2, 1, 3}}
	for _, perm := range perms {
		shuffled := make([]models.FeeStructure, len(raw))
		for i, j := range perm {
			shuffled[i] = raw[j]
		}
		got := GroupStructures(shuffled)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("GroupStructures(%v) differs from GroupStructures(original)", perm)
		}
	}
}

func TestFindGroup(t *testing.T) {
	groups := []models.ProcessedFeeStructure{
		{ID: "s1", StructureIDs: []string{"s1", "s2"}},
		{ID: "s3", StructureIDs: []string{"s3"}},
	}

	if g, ok := FindGroup(groups, "s2"); !ok || g.ID != "s1" {
		t.Errorf("FindGroup(s2) = %q, %v, want s1, true", g.ID, ok)
	}
	if _, ok := FindGroup(groups, "missing"); ok {
		t.Error("FindGroup(missing) found a group")
	}
}

func assertBuckets(t *testing.T, got, want []models.BucketSummary) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d buckets, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Name != want[i].Name ||
			!got[i].TotalAmount.Equal(want[i].TotalAmount) || got[i].IsOptional != want[i].IsOptional {
			t.Errorf("bucket[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

package validation

import (
	"testing"

	"github.com/mmynk/schoolfees/internal/apperr"
)

type sample struct {
	Name   string   `json:"name" validate:"required"`
	Grades []string `json:"grades" label:"grade" validate:"selected"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name       string
		in         sample
		wantErr    string
		wantFields int
	}{
		{name: "valid", in: sample{Name: "Day Fees", Grades: []string{"Grade 4"}}},
		{name: "missing name", in: sample{Grades: []string{"Grade 4"}}, wantErr: "name required", wantFields: 1},
		{name: "missing grades", in: sample{Name: "Day Fees"}, wantErr: "grade required", wantFields: 1},
		{name: "empty grades", in: sample{Name: "Day Fees", Grades: []string{}}, wantErr: "grade required", wantFields: 1},
		{name: "both missing", in: sample{}, wantErr: "name required", wantFields: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Struct() unexpected error = %v", err)
				}
				return
			}
			if !apperr.IsValidation(err) {
				t.Fatalf("Struct() error = %v, want ValidationError", err)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("Struct() error = %q, want %q", err.Error(), tt.wantErr)
			}
			if got := len(apperr.FieldsOf(err)); got != tt.wantFields {
				t.Errorf("fields = %d, want %d", got, tt.wantFields)
			}
		})
	}
}

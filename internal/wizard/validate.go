package wizard

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/schoolfees/internal/apperr"
	"github.com/mmynk/schoolfees/internal/validation"
)

// ValidateSetup checks the setup step: a non-blank name and at least one grade.
func ValidateSetup(f SetupFields) error {
	f.Name = validation.CleanString(f.Name)
	return validation.Struct(f)
}

// ValidateAmounts checks the amounts step against the setup it follows.
//
// At least one bucket must be selected. With per-term amounts every term needs a
// selected bucket with a positive amount; otherwise every selected bucket needs a
// positive amount.
func ValidateAmounts(setup SetupFields, f AmountsFields) error {
	if err := validation.Struct(f); err != nil {
		return err
	}

	if setup.PerTermAmounts {
		for i, t := range setup.Terms {
			if !anyPositive(f.SelectedBuckets, f.TermAmounts[t.ID]) {
				name := t.Name
				if name == "" {
					name = fmt.Sprintf("term %d", i+1)
				}
				msg := fmt.Sprintf("%s needs at least one bucket with an amount", name)
				return apperr.NewValidationError(errors.New(msg), apperr.FieldError{Field: "termAmounts", Error: msg})
			}
		}
		return nil
	}

	var flds []apperr.FieldError
	for _, b := range f.SelectedBuckets {
		if amt, ok := f.Amounts[b]; !ok || !amt.IsPositive() {
			flds = append(flds, apperr.FieldError{Field: "amounts." + b, Error: "amount required for " + b})
		}
	}
	if len(flds) > 0 {
		return apperr.NewValidationError(errors.New(flds[0].Error), flds...)
	}
	return nil
}

// ValidateReview runs every step validator. It is what Submit checks before creating.
func ValidateReview(r ReviewFields) error {
	if err := ValidateSetup(r.Setup); err != nil {
		return err
	}
	return ValidateAmounts(r.Setup, r.Amounts)
}

// validator returns the validator gating the transition out of step.
func validator(step Step) func(State) error {
	switch step {
	case StepSetup:
		return func(s State) error { return ValidateSetup(s.Setup) }
	case StepAmounts:
		return func(s State) error { return ValidateAmounts(s.Setup, s.Amounts) }
	default:
		return func(State) error { return nil }
	}
}

func anyPositive(buckets []string, amounts map[string]decimal.Decimal) bool {
	for _, b := range buckets {
		if amt, ok := amounts[b]; ok && amt.IsPositive() {
			return true
		}
	}
	return false
}

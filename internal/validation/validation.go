// Package validation wraps go-playground/validator with english translations and
// converts its errors into apperr.ValidationError.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/mmynk/schoolfees/internal/apperr"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	selectedTag  = "selected"
	selectedText = "{0} required"

	requiredTag  = "required"
	requiredText = "{0} required"
)

// Instantiate the validator for use.
func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Prefer the label tag, then the json name, for error field names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(selectedTag, selectedValidation)
	RegisterCustomTranslation(selectedTag, selectedText)

	RegisterCustomTranslation(requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates v and returns an *apperr.ValidationError whose message is the first
// failing field's translated message.
func Struct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	flds := make([]apperr.FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, apperr.FieldError{
			Field: vErr.Field(),
			Error: vErr.Translate(Translator),
		})
	}
	return apperr.NewValidationError(errors.New(flds[0].Error), flds...)
}

// CleanString trims all leading and trailing white space in `s`.
func CleanString(s string) string {
	return strings.TrimSpace(s)
}

// Custom Validators

// selectedValidation requires a slice or map with at least one element.
func selectedValidation(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return fl.Field().Len() > 0
	default:
		return false
	}
}

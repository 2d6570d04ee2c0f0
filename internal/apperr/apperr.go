// Package apperr defines the error kinds surfaced by the fee workflow.
//
// ValidationError means caller input violated a precondition and is raised before any
// network call. NotFoundError means a referenced id did not resolve against the
// backend. BackendError covers network, HTTP and GraphQL level failures. Nothing in
// this module retries automatically.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

// NewValidationError wraps err with optional field details.
func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

// Validationf formats a validation error message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Err: fmt.Errorf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "validation failed"
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports ids that did not resolve.
type NotFoundError struct {
	Resource string
	IDs      []string
}

func NewNotFoundError(resource string, ids ...string) error {
	return &NotFoundError{Resource: resource, IDs: ids}
}

func (e *NotFoundError) Error() string {
	if len(e.IDs) == 0 {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, strings.Join(e.IDs, ", "))
}

// BackendError is a failed call to the backend. Messages holds the original GraphQL
// error messages, Status the HTTP status when one was received.
type BackendError struct {
	Op       string
	Status   int
	Messages []string
	Err      error
}

func (e *BackendError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	switch {
	case len(e.Messages) > 0:
		b.WriteString(strings.Join(e.Messages, "; "))
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	case e.Status != 0:
		fmt.Fprintf(&b, "unexpected HTTP status %d", e.Status)
	default:
		b.WriteString("backend request failed")
	}
	return b.String()
}

func (e *BackendError) Unwrap() error { return e.Err }

// Backendf builds a BackendError from a formatted message.
func Backendf(op, format string, args ...any) error {
	return &BackendError{Op: op, Messages: []string{fmt.Sprintf(format, args...)}}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// FieldsOf returns the field errors carried by err, if any.
func FieldsOf(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

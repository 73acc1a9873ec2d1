// Package errors provides the structured error model shared by the CLI and the HTTP server.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FieldError describes a problem with a single request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DetailError captures structured error information.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is a file path or URL (optional).
	Location string

	// Field is the field name for single-field errors (optional).
	Field string

	// Fields lists every offending field for multi-field validation (optional).
	Fields []FieldError

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}
	for _, f := range e.Fields {
		b.WriteString("  Field: ")
		b.WriteString(f.Field)
		b.WriteString(": ")
		b.WriteString(f.Message)
		b.WriteString("\n")
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Context[k])
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewFieldsError creates a validation error covering several fields at once.
func NewFieldsError(message string, fields []FieldError) error {
	return &DetailError{
		Type:    "validation failed",
		Message: message,
		Fields:  fields,
		Cause:   ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// NewUnsupportedError creates an error for a recognised but unimplemented value.
func NewUnsupportedError(message, field, hint string) error {
	return &DetailError{
		Type:    "unsupported",
		Message: message,
		Field:   field,
		Hint:    hint,
		Cause:   ErrUnsupported,
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}

// AsDetail returns the first DetailError in err's chain, if any.
func AsDetail(err error) (*DetailError, bool) {
	var detail *DetailError
	if errors.As(err, &detail) {
		return detail, true
	}
	return nil, false
}

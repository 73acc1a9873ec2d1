package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates a request or catalog failed validation.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates an option, platform, or file was not found.
	ErrNotFound = errors.New("not found")

	// ErrUnsupported indicates a recognised value that is not implemented yet
	// (for example the Gradle build tool).
	ErrUnsupported = errors.New("unsupported")
)

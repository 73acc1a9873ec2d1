package errors

import "errors"

// Exit codes returned by the qstart binary.
const (
	// ExitSuccess indicates the command completed.
	ExitSuccess = 0

	// ExitGeneralError indicates an unexpected failure.
	ExitGeneralError = 1

	// ExitValidationError indicates invalid input (flags, links, config).
	ExitValidationError = 2

	// ExitNotFound indicates a referenced option, file or config was missing.
	ExitNotFound = 5
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Code int
	Err  error

	// Printed is set when the command layer already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnsupported):
		return ExitValidationError
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	default:
		return ExitGeneralError
	}
}

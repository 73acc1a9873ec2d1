package cmdutil

import (
	"errors"
	"fmt"

	oerrors "github.com/quartz-framework/start/internal/errors"
	"github.com/quartz-framework/start/internal/output"
)

// ReportError logs err for the user and returns it wrapped in an ExitError
// marked as printed, so main does not print it a second time. Errors that
// are already ExitErrors pass through unchanged.
func ReportError(msg string, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	PrintError(msg, err)
	return &oerrors.ExitError{
		Code:    oerrors.ExitCodeFromError(err),
		Err:     err,
		Printed: true,
	}
}

// PrintError prints an error in a user-friendly format. Detail errors are
// printed as a summary line followed by one line per field problem.
func PrintError(msg string, err error) {
	detail, ok := oerrors.AsDetail(err)
	if !ok {
		output.Error(msg, "error", err)
		return
	}

	output.Error(fmt.Sprintf("%s: %s", msg, detail.Message))
	if detail.Field != "" && len(detail.Fields) == 0 {
		output.Error(fmt.Sprintf("  %s", detail.Field))
	}
	for _, f := range detail.Fields {
		output.Error(fmt.Sprintf("  %s: %s", f.Field, f.Message))
	}
	if detail.Location != "" {
		output.Info("location", "path", detail.Location)
	}
	if detail.Hint != "" {
		output.Info(detail.Hint)
	}
}

// Styles returns coloured styles on a terminal and plain ones otherwise.
func Styles() *output.Styles {
	if output.IsTTY() {
		return output.GetStyles()
	}
	return output.NoColorStyles()
}

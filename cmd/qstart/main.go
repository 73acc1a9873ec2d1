// Package main is the entry point for the qstart CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quartz-framework/start/internal/cmd"
	oerrors "github.com/quartz-framework/start/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	rootCmd := cmd.NewRootCmd()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return oerrors.ExitSuccess
	}

	// Check if the error contains an ExitError with a specific code
	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) {
		// Only print if the command layer hasn't already printed it
		if !exitErr.Printed {
			fmt.Fprintln(os.Stderr, err)
		}
		return exitErr.Code
	}

	// Cobra usage errors and other unexpected failures
	fmt.Fprintln(os.Stderr, "Error:", err)
	return oerrors.ExitCodeFromError(err)
}

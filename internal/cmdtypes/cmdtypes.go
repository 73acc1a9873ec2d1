// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and its sub-packages (internal/cmd/config, internal/cmd/catalog, internal/cmd/link).
package cmdtypes

import (
	"github.com/quartz-framework/start/internal/catalog"
	"github.com/quartz-framework/start/internal/config"
	oerrors "github.com/quartz-framework/start/internal/errors"
)

// GlobalConfig holds CLI-wide state resolved during PersistentPreRunE. The
// root command creates it once and passes it into every sub-command
// constructor; fields are populated before any RunE executes.
type GlobalConfig struct {
	// Catalog is the option catalog every command resolves against.
	Catalog *catalog.Catalog

	// Config is the merged configuration (flag > env > config > default).
	Config *config.Config

	// Loader retains source information for Config.
	Loader *config.Loader

	// ConfigPath is the resolved --config path.
	ConfigPath string

	// Verbose is the --verbose flag.
	Verbose bool
}

// Exit codes re-exported for command packages.
const (
	ExitSuccess         = oerrors.ExitSuccess
	ExitGeneralError    = oerrors.ExitGeneralError
	ExitValidationError = oerrors.ExitValidationError
	ExitNotFound        = oerrors.ExitNotFound
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError

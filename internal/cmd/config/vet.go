package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quartz-framework/start/internal/cmdtypes"
	"github.com/quartz-framework/start/internal/cmdutil"
	"github.com/quartz-framework/start/internal/config"
	"github.com/quartz-framework/start/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate the configuration file",
		Long: `Validate the qstart configuration file against the internal schema.

Unknown keys, malformed values and defaults the option catalog does not
know (platform, Java version) are reported one per line.

Examples:
  # Validate ~/.qstart/config.yaml
  qstart config vet

  # Validate another file
  qstart config vet --config ./ci/qstart.yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runVet(c, cfg)
		},
	}
}

func runVet(c *cobra.Command, cfg *cmdtypes.GlobalConfig) error {
	validator, err := config.NewValidator(cfg.Catalog)
	if err != nil {
		return cmdutil.ReportError("creating validator", err)
	}

	err = validator.ValidateFile(cfg.ConfigPath)
	var verrs config.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		w := c.ErrOrStderr()
		fmt.Fprintln(w, "Error: config validation failed")
		fmt.Fprintf(w, "  File: %s\n\n", cfg.ConfigPath)
		for _, e := range verrs {
			fmt.Fprintf(w, "  %s: %s\n", e.Field, e.Message)
		}
		return &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: err, Printed: true}
	default:
		return cmdutil.ReportError("validating config", err)
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Config file is valid: "+cfg.ConfigPath))
	return nil
}

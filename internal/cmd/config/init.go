package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quartz-framework/start/internal/cmdtypes"
	"github.com/quartz-framework/start/internal/cmdutil"
	"github.com/quartz-framework/start/internal/config"
	oerrors "github.com/quartz-framework/start/internal/errors"
	"github.com/quartz-framework/start/internal/output"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var forceFlag bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with default values",
		Long: `Create a qstart configuration file with default values.

The file is created at ~/.qstart/config.yaml unless --config or
QSTART_CONFIG points elsewhere. Every key can also be set through a
QSTART_ environment variable, e.g. QSTART_DEFAULTS_GROUPID.

Examples:
  # Create ~/.qstart/config.yaml
  qstart config init

  # Overwrite an existing file
  qstart config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runInit(c, cfg, forceFlag)
		},
	}

	c.Flags().BoolVarP(&forceFlag, "force", "f", false,
		"Overwrite existing configuration")

	return c
}

func runInit(c *cobra.Command, cfg *cmdtypes.GlobalConfig, force bool) error {
	path := cfg.ConfigPath
	if path == "" {
		paths, err := config.DefaultPaths()
		if err != nil {
			return cmdutil.ReportError("config init failed",
				oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory"))
		}
		path = paths.ConfigFile
	}

	if _, err := os.Stat(path); err == nil && !force {
		return cmdutil.ReportError("config init failed", &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: path,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		})
	}

	data, err := config.RenderConfig(config.DefaultConfig(cfg.Catalog))
	if err != nil {
		return cmdutil.ReportError("config init failed", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return cmdutil.ReportError("config init failed", fmt.Errorf("creating config directory: %w", err))
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return cmdutil.ReportError("config init failed", fmt.Errorf("writing config file: %w", err))
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Config file created: "+path))
	fmt.Fprintln(c.OutOrStdout(), "Validate with: qstart config vet")
	return nil
}

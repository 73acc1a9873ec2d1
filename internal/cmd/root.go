// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quartz-framework/start/internal/catalog"
	catalogcmd "github.com/quartz-framework/start/internal/cmd/catalog"
	configcmd "github.com/quartz-framework/start/internal/cmd/config"
	linkcmd "github.com/quartz-framework/start/internal/cmd/link"
	"github.com/quartz-framework/start/internal/cmdtypes"
	"github.com/quartz-framework/start/internal/cmdutil"
	"github.com/quartz-framework/start/internal/config"
	"github.com/quartz-framework/start/internal/output"
)

// flagKeys binds command flags to configuration keys, so a flag given on
// the command line takes precedence over env, config file and defaults.
var flagKeys = map[string]string{
	"addr":                    config.KeyServerAddr,
	"shutdown-timeout":        config.KeyServerShutdownTimeout,
	"public-url":              config.KeyServerPublicURL,
	"timestamps":              config.KeyLogTimestamps,
	cmdutil.FlagGroup:         config.KeyDefaultsGroupID,
	cmdutil.FlagPlatform:      config.KeyDefaultsPlatform,
	cmdutil.FlagJava:          config.KeyDefaultsJavaVersion,
	cmdutil.FlagQuartzVersion: config.KeyDefaultsQuartzVersion,
}

// NewRootCmd creates the root command for qstart.
func NewRootCmd() *cobra.Command {
	cfg := &cmdtypes.GlobalConfig{Catalog: catalog.Default()}

	var (
		configFlag     string
		verboseFlag    bool
		timestampsFlag bool
	)

	rootCmd := &cobra.Command{
		Use:   "qstart",
		Short: "Quartz plugin project generator",
		Long: `qstart generates ready-to-build Quartz plugin projects for Spigot and
BungeeCord. Pick a platform and dependencies, and qstart renders a Maven
project with a main class, plugin descriptor and wrapper scripts.

Run 'qstart serve' to expose the same generator over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			cfg.Verbose = verboseFlag
			return initializeGlobals(c, cfg, configFlag)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Path to config file (env: QSTART_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true,
		"Show timestamps in log output")

	rootCmd.AddCommand(
		NewGenerateCmd(cfg),
		NewServeCmd(cfg),
		NewDiffCmd(cfg),
		catalogcmd.NewCatalogCmd(cfg),
		linkcmd.NewLinkCmd(cfg),
		configcmd.NewConfigCmd(cfg),
		NewVersionCmd(cfg),
	)

	return rootCmd
}

// initializeGlobals loads configuration and sets up logging.
func initializeGlobals(c *cobra.Command, cfg *cmdtypes.GlobalConfig, configFlag string) error {
	pathResult, err := config.ResolveConfigPath(configFlag)
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
	}
	cfg.ConfigPath = pathResult.ConfigPath

	loader := config.NewLoader(cfg.Catalog)
	for name, key := range flagKeys {
		if f := c.Flags().Lookup(name); f != nil {
			if err := loader.BindFlag(key, f); err != nil {
				return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
			}
		}
	}

	loaded, err := loader.Load(cfg.ConfigPath)
	if err != nil {
		// Commands that do not need config still work; config vet reports
		// the problem in detail.
		output.Warn("ignoring config file", "path", cfg.ConfigPath, "error", err)
		loaded = config.DefaultConfig(cfg.Catalog)
	}
	cfg.Config = loaded
	cfg.Loader = loader

	output.SetupLogging(output.LogConfig{
		Verbose:    cfg.Verbose,
		Timestamps: loaded.Log.Timestamps,
	})

	if cfg.Verbose {
		output.Debug("initializing CLI",
			"config", cfg.ConfigPath,
			"config_source", pathResult.Source,
			"config_found", loader.FileExists(),
		)
		config.LogResolvedValues(loader.ResolveAll())
	}

	return nil
}

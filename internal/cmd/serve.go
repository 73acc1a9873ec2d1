package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quartz-framework/start/internal/cmdtypes"
	"github.com/quartz-framework/start/internal/cmdutil"
	"github.com/quartz-framework/start/internal/config"
	"github.com/quartz-framework/start/internal/generator"
	"github.com/quartz-framework/start/internal/output"
	"github.com/quartz-framework/start/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		addrFlag      string
		publicURLFlag string
		logJSONFlag   bool
	)

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generator over HTTP",
		Long: `Serve the project generator and the dependency selection engine over HTTP.

Endpoints:
  GET  /health                   Liveness probe
  GET  /api/catalog              Platforms, versions and options
  POST /api/generate             Project request in, zip archive out
  POST /api/selection/toggle     Toggle an option and return option states
  POST /api/selection/platform   Change platform and return option states
  GET  /api/link                 Decode a share link query
  POST /api/link                 Encode a project request as a share link

The server stops gracefully on SIGINT or SIGTERM.

Examples:
  # Listen on the default address (:8080)
  qstart serve

  # Listen on localhost only and emit share links for a public host
  qstart serve --addr 127.0.0.1:9000 --public-url https://start.example.com

  # JSON logs for a log collector
  qstart serve --log-json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runServe(c, cfg, logJSONFlag)
		},
	}

	// Values reach cfg.Config through the loader, which binds these flags.
	c.Flags().StringVar(&addrFlag, "addr", config.DefaultAddr,
		"Listen address (env: QSTART_SERVER_ADDR)")
	c.Flags().StringVar(&publicURLFlag, "public-url", "",
		"Public base URL for share links (env: QSTART_SERVER_PUBLICURL)")
	c.Flags().Duration("shutdown-timeout", config.DefaultShutdownTimeout,
		"Graceful shutdown timeout")
	c.Flags().BoolVar(&logJSONFlag, "log-json", false,
		"Emit logs as JSON")

	return c
}

func runServe(c *cobra.Command, cfg *cmdtypes.GlobalConfig, logJSON bool) error {
	validator, err := config.NewValidator(cfg.Catalog)
	if err != nil {
		return cmdutil.ReportError("loading config schema", err)
	}
	if err := validator.Validate(cfg.Config); err != nil {
		return cmdutil.ReportError("invalid server configuration", err)
	}

	if logJSON {
		output.SetupLogging(output.LogConfig{
			Verbose:    cfg.Verbose,
			Timestamps: cfg.Config.Log.Timestamps,
			JSON:       true,
		})
	}

	sc := cfg.Config.Server
	gen := generator.New(cfg.Catalog, generator.WithShareBaseURL(sc.PublicURL))
	srv := server.New(server.Config{
		Addr:            sc.Addr,
		ShutdownTimeout: sc.ShutdownTimeout,
		PublicURL:       sc.PublicURL,
	}, gen)

	if err := srv.Run(c.Context()); err != nil {
		return cmdutil.ReportError("server stopped", err)
	}
	return nil
}

package link

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quartz-framework/start/internal/cmdtypes"
	"github.com/quartz-framework/start/internal/cmdutil"
	"github.com/quartz-framework/start/internal/project"
)

// NewEncodeCmd creates the link encode command.
func NewEncodeCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		rf           cmdutil.RequestFlags
		baseFlag     string
		validateFlag bool
	)

	c := &cobra.Command{
		Use:   "encode",
		Short: "Build a share link from request flags",
		Long: `Build a share link from the same flags generate accepts.

The link uses --base, or server.publicUrl from the configuration. Without
either, only the query string is printed.

Examples:
  qstart link encode -g com.example -a demo -d LOMBOK \
    --base https://start.quartzframework.xyz/`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			req, err := rf.Request(c, cfg.Config)
			if err != nil {
				return cmdutil.ReportError("invalid link", err)
			}
			if validateFlag {
				if err := req.WithDefaults(cfg.Catalog).Validate(cfg.Catalog); err != nil {
					return cmdutil.ReportError("invalid project request", err)
				}
			}

			base := baseFlag
			if base == "" && cfg.Config != nil {
				base = cfg.Config.Server.PublicURL
			}
			if base == "" {
				fmt.Fprintln(c.OutOrStdout(), project.EncodeQuery(req).Encode())
				return nil
			}

			link, err := project.ShareURL(base, req)
			if err != nil {
				return cmdutil.ReportError("invalid --base", err)
			}
			fmt.Fprintln(c.OutOrStdout(), link)
			return nil
		},
	}

	rf.AddTo(c)
	c.Flags().StringVar(&baseFlag, "base", "",
		"Base URL of the link (default: server.publicUrl)")
	c.Flags().BoolVar(&validateFlag, "validate", false,
		"Reject requests the generator would reject")

	return c
}

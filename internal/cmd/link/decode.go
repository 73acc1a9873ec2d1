package link

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quartz-framework/start/internal/cmdtypes"
	"github.com/quartz-framework/start/internal/cmdutil"
	oerrors "github.com/quartz-framework/start/internal/errors"
	"github.com/quartz-framework/start/internal/output"
	"github.com/quartz-framework/start/internal/project"
)

// NewDecodeCmd creates the link decode command.
func NewDecodeCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		outputFlag   string
		validateFlag bool
		resolveFlag  bool
	)

	c := &cobra.Command{
		Use:   "decode <link>",
		Short: "Print the project request carried by a share link",
		Long: `Print the project request carried by a share link.

Examples:
  qstart link decode 'https://start.quartzframework.xyz/?groupId=com.example&artifactId=demo'

  # Show derived fields (name, main class, versions) and check the request
  qstart link decode 'groupId=com.example&artifactId=demo' --resolve --validate -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			format, ok := output.ParseFormat(outputFlag)
			if !ok || format == output.FormatTable {
				return cmdutil.ReportError("invalid flags", oerrors.NewValidationError(
					fmt.Sprintf("unsupported output format %q", outputFlag), "", "output",
					"Use json or yaml"))
			}

			req, err := project.ParseLink(args[0])
			if err != nil {
				return cmdutil.ReportError("invalid link", err)
			}
			if validateFlag {
				if err := req.WithDefaults(cfg.Catalog).Validate(cfg.Catalog); err != nil {
					return cmdutil.ReportError("invalid project request", err)
				}
			}
			if resolveFlag {
				req = req.WithDefaults(cfg.Catalog)
			}

			return output.WriteStructured(c.OutOrStdout(), format, req)
		},
	}

	c.Flags().StringVarP(&outputFlag, "output", "o", "yaml",
		"Output format: "+strings.Join(output.ValidFormats()[1:], ", "))
	c.Flags().BoolVar(&validateFlag, "validate", false,
		"Fail when the generator would reject the request")
	c.Flags().BoolVar(&resolveFlag, "resolve", false,
		"Fill derived fields the way generate does")

	return c
}

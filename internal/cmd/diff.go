package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quartz-framework/start/internal/cmdtypes"
	"github.com/quartz-framework/start/internal/cmdutil"
	"github.com/quartz-framework/start/internal/diff"
	"github.com/quartz-framework/start/internal/generator"
	"github.com/quartz-framework/start/internal/output"
	"github.com/quartz-framework/start/internal/project"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		fromFlag     string
		toFlag       string
		exitCodeFlag bool
	)

	c := &cobra.Command{
		Use:   "diff",
		Short: "Compare the projects generated from two share links",
		Long: `Compare the projects generated from two share links.

Both links are rendered in memory. Fields a link leaves empty take the
configured defaults, as with generate. Files only in --to are listed as added,
files only in --from as removed. plugin.yml and other YAML files are
compared structurally; every other file line by line.

Examples:
  # What changes when adding Lombok?
  qstart diff \
    --from 'groupId=com.example&artifactId=demo' \
    --to 'groupId=com.example&artifactId=demo&dependencies=LOMBOK'

  # Fail (exit 1) when the projects differ
  qstart diff --from "$OLD" --to "$NEW" --exit-code`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			from, err := project.ParseLink(fromFlag)
			if err != nil {
				return cmdutil.ReportError("invalid --from link", err)
			}
			to, err := project.ParseLink(toFlag)
			if err != nil {
				return cmdutil.ReportError("invalid --to link", err)
			}
			from = cmdutil.ApplyDefaults(from, cfg.Config)
			to = cmdutil.ApplyDefaults(to, cfg.Config)

			gen := generator.New(cfg.Catalog)
			res, err := diff.Projects(c.Context(), gen, from, to, diff.Options{Color: output.IsTTY()})
			if err != nil {
				return cmdutil.ReportError("diff failed", err)
			}

			fmt.Fprint(c.OutOrStdout(), res.Render(cmdutil.Styles()))
			if exitCodeFlag && !res.Empty() {
				return &cmdtypes.ExitError{
					Code:    cmdtypes.ExitGeneralError,
					Err:     errors.New("projects differ"),
					Printed: true,
				}
			}
			return nil
		},
	}

	c.Flags().StringVar(&fromFlag, "from", "", "Share link or query of the old project")
	c.Flags().StringVar(&toFlag, "to", "", "Share link or query of the new project")
	c.Flags().BoolVar(&exitCodeFlag, "exit-code", false, "Exit with status 1 when the projects differ")
	_ = c.MarkFlagRequired("from")
	_ = c.MarkFlagRequired("to")

	return c
}

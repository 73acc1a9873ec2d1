package catalog

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	qcatalog "github.com/quartz-framework/start/internal/catalog"
	"github.com/quartz-framework/start/internal/cmdtypes"
	"github.com/quartz-framework/start/internal/cmdutil"
	oerrors "github.com/quartz-framework/start/internal/errors"
	"github.com/quartz-framework/start/internal/output"
)

// NewShowCmd creates the catalog show command.
func NewShowCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Describe a catalog option",
		Long: `Describe a catalog option: its Maven coordinates, prerequisites,
platforms and the options that depend on it.

Examples:
  qstart catalog show QUARTZ_DATA_JPA`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cat := cfg.Catalog
			id := qcatalog.OptionID(strings.ToUpper(args[0]))
			o, err := cat.Option(id)
			if err != nil {
				return cmdutil.ReportError("option not found", oerrors.NewNotFoundError(
					fmt.Sprintf("%s is not a catalog option", id), "", "Run 'qstart catalog list' to see every option"))
			}

			md := describe(cat, o)
			fmt.Fprint(c.OutOrStdout(), output.RenderMarkdown(md, output.TerminalWidth(80), output.IsTTY()))
			return nil
		},
	}
}

// describe renders an option as markdown.
func describe(cat *qcatalog.Catalog, o qcatalog.Option) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", o.Name)
	if o.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", o.Description)
	}

	fmt.Fprintf(&sb, "- **ID:** `%s`\n", o.ID)
	fmt.Fprintf(&sb, "- **Category:** %s\n", cat.CategoryName(o.Category))
	coords := o.Maven.GroupID + ":" + o.Maven.ArtifactID
	if o.Maven.Scope != "" {
		coords += " (" + o.Maven.Scope + ")"
	}
	fmt.Fprintf(&sb, "- **Maven:** `%s`\n", coords)

	platforms := "all"
	if len(o.AllowedPlatforms) > 0 {
		ps := make([]string, len(o.AllowedPlatforms))
		for i, p := range o.AllowedPlatforms {
			ps[i] = string(p)
		}
		platforms = strings.Join(ps, ", ")
	}
	fmt.Fprintf(&sb, "- **Platforms:** %s\n", platforms)

	if len(o.Requires) > 0 {
		fmt.Fprintf(&sb, "- **Requires:** %s\n", names(cat, o.Requires, ", "))
	}
	if len(o.RequiresAny) > 0 {
		fmt.Fprintf(&sb, "- **Requires one of:** %s\n", names(cat, o.RequiresAny, " or "))
	}
	if deps := cat.Dependents(o.ID); len(deps) > 0 {
		fmt.Fprintf(&sb, "- **Required by:** %s\n", names(cat, deps, ", "))
	}
	if o.HelpURL != "" {
		fmt.Fprintf(&sb, "\n[Documentation](%s)\n", o.HelpURL)
	}
	return sb.String()
}

func names(cat *qcatalog.Catalog, ids []qcatalog.OptionID, sep string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if o, err := cat.Option(id); err == nil {
			out[i] = o.Name
		} else {
			out[i] = string(id)
		}
	}
	return strings.Join(out, sep)
}

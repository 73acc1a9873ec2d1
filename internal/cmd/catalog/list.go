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
	"github.com/quartz-framework/start/internal/selection"
)

// optionRow is the structured form of one listed option.
type optionRow struct {
	ID          qcatalog.OptionID   `json:"id"`
	Name        string              `json:"name"`
	Category    qcatalog.Category   `json:"category"`
	Description string              `json:"description,omitempty"`
	Requires    []qcatalog.OptionID `json:"requires,omitempty"`
	RequiresAny []qcatalog.OptionID `json:"requiresAny,omitempty"`
	Platforms   []qcatalog.Platform `json:"platforms,omitempty"`
	State       string              `json:"state"`
	Reason      string              `json:"reason,omitempty"`
}

// NewListCmd creates the catalog list command.
func NewListCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		outputFlag   string
		platformFlag string
		selectedFlag []string
	)

	c := &cobra.Command{
		Use:   "list",
		Short: "List catalog options and their selection state",
		Long: `List catalog options grouped by category.

The STATE column shows what the generator would do with each option given
the platform and the options passed with --selected:
  selected     already part of the selection
  available    can be added
  blocked      a prerequisite is missing
  unavailable  not offered on the platform

Examples:
  # Everything on the default platform
  qstart catalog list

  # What can be added once the JPA module is selected?
  qstart catalog list --selected QUARTZ_DATA_JPA

  # Machine readable
  qstart catalog list -p BUNGEE -o json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			format, ok := output.ParseFormat(outputFlag)
			if !ok {
				return cmdutil.ReportError("invalid flags", oerrors.NewValidationError(
					fmt.Sprintf("unknown output format %q", outputFlag), "", "output",
					"Use one of: "+strings.Join(output.ValidFormats(), ", ")))
			}
			return runList(c, cfg, format, platformFlag, selectedFlag)
		},
	}

	c.Flags().StringVarP(&outputFlag, "output", "o", "table",
		"Output format: "+strings.Join(output.ValidFormats(), ", "))
	c.Flags().StringVarP(&platformFlag, "platform", "p", "",
		"Platform to evaluate availability on (default: from config)")
	c.Flags().StringSliceVar(&selectedFlag, "selected", nil,
		"Option IDs already selected")

	return c
}

func runList(c *cobra.Command, cfg *cmdtypes.GlobalConfig, format output.Format, platform string, selected []string) error {
	cat := cfg.Catalog

	p := qcatalog.Platform(strings.ToUpper(platform))
	if p == "" && cfg.Config != nil {
		p = qcatalog.Platform(cfg.Config.Defaults.Platform)
	}
	if p == "" {
		p = cat.DefaultPlatform()
	}
	if _, err := cat.Platform(p); err != nil {
		return cmdutil.ReportError("invalid platform", oerrors.NewValidationError(
			err.Error(), "", "platform", "Run 'qstart catalog list' without --platform"))
	}

	ids := make([]qcatalog.OptionID, len(selected))
	for i, s := range selected {
		ids[i] = qcatalog.OptionID(strings.ToUpper(strings.TrimSpace(s)))
	}
	sel, rejected := selection.Restore(cat, p, ids)
	for _, r := range rejected {
		output.Warn("ignoring selected option", "id", r.ID, "reason", r.Reason.Message)
	}

	rows := buildRows(cat, sel, p)

	if format != output.FormatTable {
		return output.WriteStructured(c.OutOrStdout(), format, rows)
	}

	styled := output.IsTTY()
	for _, ci := range cat.Categories() {
		tbl := output.NewTable("ID", "NAME", "STATE", "NOTE")
		n := 0
		for _, r := range rows {
			if r.Category != ci.ID {
				continue
			}
			state := r.State
			if styled {
				state = output.StateStyle(r.State).Render(r.State)
			}
			tbl.Row(string(r.ID), r.Name, state, r.Reason)
			n++
		}
		if n == 0 {
			continue
		}
		fmt.Fprintln(c.OutOrStdout(), cmdutil.Styles().Bold.Render(ci.Name))
		fmt.Fprintln(c.OutOrStdout(), tbl.String())
		fmt.Fprintln(c.OutOrStdout())
	}
	return nil
}

func buildRows(cat *qcatalog.Catalog, sel selection.Selection, p qcatalog.Platform) []optionRow {
	states := selection.States(cat, sel, p)
	rows := make([]optionRow, 0, len(states))
	for _, st := range states {
		o, err := cat.Option(st.ID)
		if err != nil {
			continue
		}
		row := optionRow{
			ID:          o.ID,
			Name:        o.Name,
			Category:    o.Category,
			Description: o.Description,
			Requires:    o.Requires,
			RequiresAny: o.RequiresAny,
			Platforms:   o.AllowedPlatforms,
			State:       st.Label(),
		}
		if st.Reason != nil {
			row.Reason = st.Reason.Message
		}
		rows = append(rows, row)
	}
	return rows
}

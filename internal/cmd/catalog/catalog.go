// Package catalog provides CLI command implementations for the catalog command group.
package catalog

import (
	"github.com/spf13/cobra"

	"github.com/quartz-framework/start/internal/cmdtypes"
)

// NewCatalogCmd creates the catalog command group.
func NewCatalogCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"deps"},
		Short:   "Browse the dependency catalog",
		Long:    `Browse the options that can be added to a generated project.`,
	}

	c.AddCommand(NewListCmd(cfg))
	c.AddCommand(NewShowCmd(cfg))

	return c
}

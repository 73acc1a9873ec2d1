// Package link provides CLI command implementations for the link command group.
package link

import (
	"github.com/spf13/cobra"

	"github.com/quartz-framework/start/internal/cmdtypes"
)

// NewLinkCmd creates the link command group.
func NewLinkCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "link",
		Short: "Encode and decode share links",
		Long: `Encode and decode share links.

A share link carries a complete project request in its query string, so
the same project can be regenerated later or by someone else.`,
	}

	c.AddCommand(NewEncodeCmd(cfg))
	c.AddCommand(NewDecodeCmd(cfg))

	return c
}

// Package cmd wires the treewalk CLI: flat and recursive listings plus
// the snapshot store frontend.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for treewalk
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treewalk",
		Short: "List files and directories with filters",
		Long: `Treewalk enumerates files and directories under a root path.

It supports flat (direct children) and recursive listings, filtering by
kind, hidden name, and extension, and three path shapes: full paths,
root-relative paths, and bare names. Listings can be saved into a local
snapshot store and compared later.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewWalkCommand())
	cmd.AddCommand(NewRelativeCommand())
	cmd.AddCommand(NewSnapshotCommand())

	return cmd
}

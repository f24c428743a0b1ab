package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/treewalk/internal/walker"
)

// NewRelativeCommand creates the relative command, a recursive listing
// that always emits root-relative paths.
func NewRelativeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relative <root>",
		Short: "Recursively list a subtree as root-relative paths",
		Long: `Walk the whole subtree under the root path and print every result
relative to the root. The --strip flag is accepted for symmetry with the
other commands but has no extra effect here.

Examples:
  treewalk relative .
  treewalk relative /srv/www --only-files`,
		Args: cobra.ExactArgs(1),
		RunE: runRelative,
	}
	addWalkFlags(cmd)
	return cmd
}

func runRelative(cmd *cobra.Command, args []string) error {
	wc, err := resolveWalkContext(cmd)
	if err != nil {
		return err
	}

	root := args[0]
	wc.log.Debugf("walking %s (root-relative output)", root)

	paths, err := walker.ListNoPath(root, wc.opts)
	if err != nil {
		return err
	}
	wc.log.Debugf("matched %d entries", len(paths))

	printPaths(cmd.OutOrStdout(), root, paths, true, wc.noColor)
	return nil
}

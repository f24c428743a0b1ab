package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/treewalk/internal/walker"
)

// NewListCommand creates the list command (direct children only).
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <root>",
		Short: "List the direct children of a directory",
		Long: `List the files and directories directly inside the root path, with
no recursion. Results are full paths; with --strip, bare names.

Examples:
  treewalk list .
  treewalk list /var/log --only-files --ext log
  treewalk list src --only-dirs --strip`,
		Args: cobra.ExactArgs(1),
		RunE: runList,
	}
	addWalkFlags(cmd)
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	wc, err := resolveWalkContext(cmd)
	if err != nil {
		return err
	}

	root := args[0]
	wc.log.Debugf("listing direct children of %s", root)

	paths, err := walker.List(root, wc.opts)
	if err != nil {
		return err
	}
	wc.log.Debugf("matched %d entries", len(paths))

	printPaths(cmd.OutOrStdout(), root, paths, wc.opts.StripPath, wc.noColor)
	return nil
}

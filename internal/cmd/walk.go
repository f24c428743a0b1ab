package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/treewalk/internal/filelock"
	"github.com/harrison/treewalk/internal/walker"
)

// NewWalkCommand creates the walk command (recursive listing).
func NewWalkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walk <root>",
		Short: "Recursively list everything under a directory",
		Long: `Walk the whole subtree under the root path, depth-first. Within a
directory the entries appear before any subdirectory contents.

Directory filters only affect what is printed: the walk still descends
into excluded directories, so their files show up in the results.

Examples:
  treewalk walk .
  treewalk walk /etc --only-files --ext conf
  treewalk walk src --exclude-hidden --strip
  treewalk walk data --output listing.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runWalk,
	}
	addWalkFlags(cmd)
	cmd.Flags().String("output", "", "Write the listing atomically to a file instead of stdout")
	return cmd
}

func runWalk(cmd *cobra.Command, args []string) error {
	wc, err := resolveWalkContext(cmd)
	if err != nil {
		return err
	}

	root := args[0]
	wc.log.Debugf("walking %s", root)

	paths, err := walker.ListRecursive(root, wc.opts)
	if err != nil {
		return err
	}
	wc.log.Debugf("matched %d entries", len(paths))

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		data := strings.Join(paths, "\n")
		if len(paths) > 0 {
			data += "\n"
		}
		if err := filelock.AtomicWrite(output, []byte(data)); err != nil {
			return err
		}
		wc.log.Infof("wrote %d entries to %s", len(paths), output)
		return nil
	}

	printPaths(cmd.OutOrStdout(), root, paths, wc.opts.StripPath, wc.noColor)
	return nil
}

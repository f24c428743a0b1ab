package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/treewalk/internal/snapshot"
	"github.com/harrison/treewalk/internal/walker"
)

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save listings and compare them later",
		Long: `The snapshot store keeps recursive listings in a local sqlite
database so a tree's contents can be replayed and diffed over time.`,
	}

	cmd.AddCommand(newSnapshotSaveCommand())
	cmd.AddCommand(newSnapshotListCommand())
	cmd.AddCommand(newSnapshotShowCommand())
	cmd.AddCommand(newSnapshotDeleteCommand())
	cmd.AddCommand(newSnapshotDiffCommand())

	return cmd
}

// addDBFlag registers the snapshot database override shared by the
// snapshot subcommands.
func addDBFlag(cmd *cobra.Command) {
	cmd.Flags().String("db", "", "Path to the snapshot database (default from config)")
}

// openStore opens the snapshot store named by --db, falling back to the
// configured path.
func openStore(cmd *cobra.Command, wc *walkContext) (*snapshot.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = wc.cfg.SnapshotDB
	}
	return snapshot.NewStore(dbPath)
}

func newSnapshotSaveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <root>",
		Short: "Walk a tree and save the listing",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshotSave,
	}
	addWalkFlags(cmd)
	addDBFlag(cmd)
	cmd.Flags().String("name", "", "Optional label for the snapshot")
	return cmd
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	wc, err := resolveWalkContext(cmd)
	if err != nil {
		return err
	}

	root := args[0]
	paths, err := walker.ListRecursive(root, wc.opts)
	if err != nil {
		return err
	}

	store, err := openStore(cmd, wc)
	if err != nil {
		return err
	}
	defer store.Close()

	name, _ := cmd.Flags().GetString("name")
	snap, err := store.Save(name, root, wc.opts, paths)
	if err != nil {
		return err
	}

	wc.log.Infof("saved snapshot %s (%d entries)", snap.ID[:8], snap.EntryCount)
	fmt.Fprintln(cmd.OutOrStdout(), snap.ID)
	return nil
}

func newSnapshotListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		Args:  cobra.NoArgs,
		RunE:  runSnapshotList,
	}
	addWalkFlags(cmd)
	addDBFlag(cmd)
	return cmd
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	wc, err := resolveWalkContext(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cmd, wc)
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(snaps) == 0 {
		fmt.Fprintln(out, "No snapshots saved.")
		return nil
	}

	fmt.Fprintf(out, "%-10s %-16s %-10s %-14s %s\n", "ID", "NAME", "ENTRIES", "AGE", "ROOT")
	for _, snap := range snaps {
		name := snap.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(out, "%-10s %-16s %-10s %-14s %s\n",
			snap.ID[:8],
			name,
			humanize.Comma(int64(snap.EntryCount)),
			humanize.Time(snap.CreatedAt),
			snap.Root,
		)
	}
	return nil
}

func newSnapshotShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the paths stored in a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshotShow,
	}
	addWalkFlags(cmd)
	addDBFlag(cmd)
	return cmd
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	wc, err := resolveWalkContext(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cmd, wc)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, paths, err := store.Get(args[0])
	if err != nil {
		return err
	}

	wc.log.Debugf("snapshot %s of %s, %d entries", snap.ID[:8], snap.Root, len(paths))
	out := cmd.OutOrStdout()
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	return nil
}

func newSnapshotDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshotDelete,
	}
	addWalkFlags(cmd)
	addDBFlag(cmd)
	return cmd
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	wc, err := resolveWalkContext(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cmd, wc)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(args[0]); err != nil {
		return err
	}
	wc.log.Infof("deleted snapshot %s", args[0])
	return nil
}

func newSnapshotDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <before-id> <after-id>",
		Short: "Show paths added and removed between two snapshots",
		Args:  cobra.ExactArgs(2),
		RunE:  runSnapshotDiff,
	}
	addWalkFlags(cmd)
	addDBFlag(cmd)
	return cmd
}

func runSnapshotDiff(cmd *cobra.Command, args []string) error {
	wc, err := resolveWalkContext(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cmd, wc)
	if err != nil {
		return err
	}
	defer store.Close()

	added, removed, err := store.Diff(args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out, wc.noColor)
	addStyle := color.New(color.FgGreen)
	delStyle := color.New(color.FgRed)

	for _, p := range added {
		if colorize {
			addStyle.Fprintf(out, "+ %s\n", p)
		} else {
			fmt.Fprintf(out, "+ %s\n", p)
		}
	}
	for _, p := range removed {
		if colorize {
			delStyle.Fprintf(out, "- %s\n", p)
		} else {
			fmt.Fprintf(out, "- %s\n", p)
		}
	}

	if len(added) == 0 && len(removed) == 0 {
		fmt.Fprintln(out, "No changes.")
	}
	return nil
}

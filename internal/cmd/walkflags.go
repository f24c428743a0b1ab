package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/treewalk/internal/config"
	"github.com/harrison/treewalk/internal/logger"
	"github.com/harrison/treewalk/internal/walker"
)

// addWalkFlags registers the filter and output flags shared by every
// listing command.
func addWalkFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to config file (default: "+config.DefaultConfigPath+")")
	cmd.Flags().Bool("only-files", false, "Emit files only")
	cmd.Flags().Bool("only-dirs", false, "Emit directories only")
	cmd.Flags().Bool("exclude-dirs", false, "Omit directories from output (descent still happens)")
	cmd.Flags().Bool("exclude-hidden", false, "Omit entries whose name starts with '.'")
	cmd.Flags().String("ext", "", "Keep only entries with this extension (case-insensitive)")
	cmd.Flags().Bool("strip", false, "Return root-relative paths instead of full paths")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().String("log-level", "", "Log verbosity (trace, debug, info, warn, error)")
}

// walkContext carries everything a listing command needs after flag and
// config resolution.
type walkContext struct {
	cfg     *config.Config
	opts    walker.Options
	log     *logger.ConsoleLogger
	noColor bool
}

// resolveWalkContext loads configuration and merges CLI flags over the
// configured defaults. Flags are translated into an option bag so that
// the same alias normalization covers both sources.
func resolveWalkContext(cmd *cobra.Command) (*walkContext, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	bag := cfg.Defaults.Bag()
	if v, _ := cmd.Flags().GetBool("only-files"); v {
		bag["onlyFiles"] = true
	}
	if v, _ := cmd.Flags().GetBool("only-dirs"); v {
		bag["onlyDirs"] = true
	}
	if v, _ := cmd.Flags().GetBool("exclude-dirs"); v {
		bag["excludeDirs"] = true
	}
	if v, _ := cmd.Flags().GetBool("exclude-hidden"); v {
		bag["excludeHiddenFiles"] = true
	}
	if v, _ := cmd.Flags().GetString("ext"); v != "" {
		bag["ext"] = v
	}
	if v, _ := cmd.Flags().GetBool("strip"); v {
		bag["strip"] = true
	}

	level := cfg.LogLevel
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		level = v
	}
	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), level)

	noColor, _ := cmd.Flags().GetBool("no-color")
	noColor = noColor || cfg.NoColor
	if noColor {
		log.DisableColor()
	}

	return &walkContext{
		cfg:     cfg,
		opts:    walker.ParseOptions(bag),
		log:     log,
		noColor: noColor,
	}, nil
}

// printPaths writes one path per line, coloring directories when the
// writer is a TTY. stripped tells printPaths that the paths are relative
// to root, so directory checks re-qualify them first.
func printPaths(out io.Writer, root string, paths []string, stripped, noColor bool) {
	colorize := shouldColorize(out, noColor)
	dirStyle := color.New(color.FgBlue, color.Bold)

	for _, p := range paths {
		full := p
		if stripped {
			full = walker.Qualify(root, p)
		}
		if colorize && isDir(full) {
			dirStyle.Fprintln(out, p)
		} else {
			fmt.Fprintln(out, p)
		}
	}
}

func shouldColorize(w io.Writer, noColor bool) bool {
	if noColor || color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

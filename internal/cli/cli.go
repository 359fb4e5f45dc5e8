// Package cli implements the gplot command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/plotforge/gplot/pkg/buildinfo"
	"github.com/plotforge/gplot/pkg/cache"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gplot"

	// replayNamespace scopes the recorded last draw.
	replayNamespace = "default"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "gplot",
		Short:        "gplot drives a gnuplot subprocess from the command line",
		Long:         `gplot compiles data files and option flags into gnuplot commands, streams them to a managed subprocess, and synchronizes on its diagnostics so failures surface as errors instead of silent garbage.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	// Register all subcommands
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.splotCommand())
	root.AddCommand(c.replotCommand())
	root.AddCommand(c.stylesCommand())
	root.AddCommand(c.optionsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Replay Store Factory
// =============================================================================

// newStore creates the replay store backing the replot command.
func newStore(noCache bool) *cache.Store {
	if noCache {
		return cache.NewStore(cache.NewNullCache())
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewStore(cache.NewNullCache())
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewStore(cache.NewNullCache())
	}
	return cache.NewStore(fc)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gplot/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

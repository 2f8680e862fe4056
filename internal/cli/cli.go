package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hugojosefson/scatter-svg/pkg/buildinfo"
	"github.com/hugojosefson/scatter-svg/pkg/cache"
	"github.com/hugojosefson/scatter-svg/pkg/config"
	"github.com/hugojosefson/scatter-svg/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "scatter-svg"

	// stdio names standard input or output in place of a path.
	stdio = "-"
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

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Run without a subcommand, it behaves like plot.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.plotCommand()
	root.Use = appName + " [input] [output]"
	root.Short = "Scatter plots with non-overlapping point labels"
	root.Long = `scatter-svg draws a labelled scatter plot from a JSON or delimited text
dataset. Labels are pushed apart by a force-directed layout so that they do
not overlap each other or the data points.

Input is a file path, or standard input when omitted or "-". Output goes to
the named file, or standard output when omitted or "-".`
	root.Version = buildinfo.Get().Version
	root.SilenceUsage = true
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/"+appName+"/config.toml)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		uiOut = cmd.OutOrStdout()
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.detectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or the default file when present.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A cache that cannot be
// opened is reported and replaced by no cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) *pipeline.Runner {
	ch, err := c.newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "err", err)
		ch = cache.NewNullCache()
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.Get().Version+":")
	return pipeline.NewRunner(ch, keyer, c.Logger)
}

func (c *CLI) newCache(ctx context.Context, cc config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := fileCacheDir(cc)
	if err != nil && cc.URL == "" {
		return nil, err
	}
	return cache.New(ctx, cc.URL, dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/scatter-svg/).
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

// fileCacheDir returns the configured cache directory, or cacheDir.
func fileCacheDir(cc config.CacheConfig) (string, error) {
	if cc.Dir != "" {
		return cc.Dir, nil
	}
	return cacheDir()
}

// Package cli implements the tava command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tavalabs/tava/pkg/buildinfo"
	"github.com/tavalabs/tava/pkg/cache"
	"github.com/tavalabs/tava/pkg/config"
	"github.com/tavalabs/tava/pkg/pipeline"
	"github.com/tavalabs/tava/pkg/roster"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tava"

	// redisPrefix namespaces keys when the cache is shared.
	redisPrefix = "tava:"
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
	config     config.Config
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The config file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Tava lays out who-likes-whom as concentric rings",
		Long: `Tava places the people around a focal person on concentric rings: the
people they like directly, the people those like, and everyone else. Layouts
can be written as JSON, rendered to SVG, PNG or Graphviz DOT, explored in the
terminal, or served over HTTP with live drag and pin sessions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/tava/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("config loaded", "source", cfg.Source.Kind, "cache", cfg.Cache.Kind)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner over the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if p := c.config.Cache.Prefix; p != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), p)
	}
	return pipeline.NewRunner(cache.Instrumented(cc), keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.config.Cache.Kind {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   c.config.Cache.RedisAddr,
			Prefix: redisPrefix,
		})
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/tava/).
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

// =============================================================================
// Source & Options Helpers
// =============================================================================

// sourceFlags select the roster for a command, overriding the config file.
type sourceFlags struct {
	roster string
	focal  string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.roster, "roster", "r", "", "roster file (.json, .yaml, .toml); default from config")
	cmd.Flags().StringVar(&f.focal, "focal", "", "focal entity id (default from config or roster file)")
}

// source merges the flags over the configured source. An explicit focal
// argument wins over both.
func (c *CLI) source(f sourceFlags, args []string) config.Source {
	src := c.config.Source
	if f.roster != "" {
		src.Kind = config.SourceFile
		src.Path = f.roster
		src.Focal = ""
	}
	if f.focal != "" {
		src.Focal = f.focal
	}
	if len(args) > 0 {
		src.Focal = args[0]
	}
	return src
}

// loadRoster reads the roster the flags select and returns it with the
// focal entity to lay out.
func (c *CLI) loadRoster(ctx context.Context, f sourceFlags, args []string) (*roster.Roster, string, error) {
	return pipeline.LoadRoster(ctx, c.source(f, args), c.Logger)
}

// layoutFlags registers the flags shared by commands that compute a layout.
func (c *CLI) layoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "viewport width in points")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "viewport height in points")
	cmd.Flags().StringVar(&opts.Selected, "selected", "", "entity to show as selected")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
}

// setCLIDefaults applies config and pipeline defaults to opts.
func (c *CLI) setCLIDefaults(opts *pipeline.Options) {
	opts.Params = c.config.Layout
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width = c.config.Viewport.Width
		opts.Height = c.config.Viewport.Height
	}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	opts.Logger = c.Logger
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

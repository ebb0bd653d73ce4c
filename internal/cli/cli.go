// Package cli implements the ancestree command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ancestree/ancestree/pkg/buildinfo"
	"github.com/ancestree/ancestree/pkg/cache"
	"github.com/ancestree/ancestree/pkg/config"
	"github.com/ancestree/ancestree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "ancestree"

	// backendConnectTimeout bounds the initial connection to a shared cache
	// backend (Redis, MongoDB).
	backendConnectTimeout = 5 * time.Second
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
	Logger   *log.Logger
	Settings config.Settings

	// configPath is the --config flag value; empty means the default file.
	configPath string
}

// New creates a new CLI instance with a default logger and default settings.
// The settings file is loaded on command execution so that --config can
// point anywhere.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Settings: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "ancestree",
		Short:        "Ancestree lays out and renders genealogy family trees",
		Long:         `Ancestree is a CLI tool for computing family-tree layouts: generation rows, spouse pairing, marriage markers, and parent-child connectors, rendered as SVG, PNG, or Graphviz DOT.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadSettings()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default: ./"+config.DefaultFilename+")")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadSettings reads the settings file named by --config, or the default
// file when present.
func (c *CLI) loadSettings() error {
	path := c.configPath
	if path == "" {
		path = config.DefaultFilename
	}
	s, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}
	c.Settings = s
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache builds the cache backend selected in the settings file.
// Connection failures for the shared backends are errors; a missing file
// cache directory silently degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	cs := c.Settings.Cache
	switch cs.Backend {
	case "none":
		return cache.NewNullCache(), nil

	case "redis":
		connectCtx, cancel := context.WithTimeout(ctx, backendConnectTimeout)
		defer cancel()
		return cache.NewRedisCache(connectCtx, cs.URL)

	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, backendConnectTimeout)
		defer cancel()
		return cache.NewMongoCache(connectCtx, cs.URL, cs.Database, cs.Collection)

	default: // "file"
		dir := cs.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/ancestree/).
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
// Options Helpers
// =============================================================================

// newOptions builds pipeline options for an input path, with spacing from
// the settings file. A directory is treated as a CSV source.
func (c *CLI) newOptions(input string) (pipeline.Options, error) {
	opts := pipeline.Options{
		Path:    input,
		Spacing: c.Settings.Spacing(),
		Logger:  c.Logger,
	}

	info, err := os.Stat(input)
	if err != nil {
		return opts, fmt.Errorf("stat %s: %w", input, err)
	}
	if info.IsDir() {
		opts.Source = pipeline.SourceCSV
	} else {
		opts.Source = pipeline.SourceJSON
	}
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

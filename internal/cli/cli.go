// Package cli implements the pointpack command-line interface.
//
// # Commands
//
//   - spheres, onions, patchy, network: build a scene and write a dump file
//   - graph: build and inspect a regular network graph
//   - cache: manage the scene cache
//   - completion: shell completion scripts
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pointpack/pkg/buildinfo"
	"github.com/matzehuels/pointpack/pkg/cache"
	"github.com/matzehuels/pointpack/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pointpack"

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
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "pointpack fills boxes with packed particles and branched networks",
		Long:          `pointpack places non-overlapping spheres, onions and patchy particles in a cubic box, lays out branched networks, and writes the sampled point clouds as dump files for OVITO and similar viewers.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	for _, k := range kinds {
		root.AddCommand(c.generateCommand(k))
	}
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags select the scene cache backend.
type cacheFlags struct {
	noCache bool
	url     string // redis://... selects Redis, empty selects the file cache
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the scene cache")
	cmd.Flags().StringVar(&f.url, "cache-url", os.Getenv("POINTPACK_CACHE_URL"), "shared cache URL (redis://host:port/db)")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags) (*pipeline.Runner, error) {
	store, keyer, err := c.openCache(ctx, f)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// openCache returns the configured backend. Shared backends get namespaced
// keys; a local cache that cannot be created degrades to no caching.
func (c *CLI) openCache(ctx context.Context, f cacheFlags) (cache.Cache, cache.Keyer, error) {
	if f.noCache {
		return cache.NewNullCache(), nil, nil
	}
	if strings.HasPrefix(f.url, "redis://") || strings.HasPrefix(f.url, "rediss://") {
		rc, err := cache.NewRedisCache(ctx, f.url)
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(nil, cache.KeyPrefix), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("scene cache disabled", "error", err)
		return cache.NewNullCache(), nil, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("scene cache disabled", "error", err)
		return cache.NewNullCache(), nil, nil
	}
	return fc, nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pointpack/).
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

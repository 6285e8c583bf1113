// Package cli implements the maskfab command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/maskfab/maskfab/pkg/buildinfo"
	"github.com/maskfab/maskfab/pkg/cache"
	"github.com/maskfab/maskfab/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "maskfab"

	// redisAddrEnv selects the Redis endpoint for --cache-backend redis.
	redisAddrEnv = "MASKFAB_REDIS_ADDR"

	// defaultRedisURL is used when redisAddrEnv is unset.
	defaultRedisURL = "redis://localhost:6379/0"
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
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "maskfab",
		Short:        "Maskfab terminates chip layouts with bond pads and exports masks",
		Long:         `Maskfab is a CLI tool for preparing chip layouts for fabrication: it terminates the unconnected electrical ports of a cell with bond pads, routes each port straight out to its pad, and exports the result as GDSII or rendered previews.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.padsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cellsCommand())
	root.AddCommand(c.portsCommand())
	root.AddCommand(c.layersCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool, backend string) (*pipeline.Runner, error) {
	store, err := newCache(ctx, noCache, backend)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(ctx context.Context, noCache bool, backend string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch backend {
	case "", "file":
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case "redis":
		url := os.Getenv(redisAddrEnv)
		if url == "" {
			url = defaultRedisURL
		}
		if !strings.Contains(url, "://") {
			url = "redis://" + url
		}
		var store cache.Cache
		err := cache.RetryWithBackoff(ctx, func() error {
			var connErr error
			store, connErr = cache.NewRedisCache(ctx, url)
			return connErr
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (use file or redis)", backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/maskfab/).
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

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatGDS}
	}
	return strings.Split(s, ",")
}

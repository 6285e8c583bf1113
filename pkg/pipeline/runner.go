package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/maskfab/maskfab/pkg/cache"
	"github.com/maskfab/maskfab/pkg/layout"
	"github.com/maskfab/maskfab/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	buildStart := time.Now()
	c, buildHit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Component = c
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.PortCount = c.PortCount()
	result.Stats.PadCount = countPads(c)
	result.Stats.PolygonCount = len(c.Flatten())
	result.CacheInfo.BuildHit = buildHit

	// Compute component hash for cache keys and API responses
	if doc, err := layout.MarshalComponent(c); err == nil {
		result.BuildHash = cache.Hash(doc)
	}

	r.Logger.Info("built component",
		"cell", opts.Cell,
		"ports", result.Stats.PortCount,
		"pads", result.Stats.PadCount,
		"duration", result.Stats.BuildTime)

	// Stage 2: Export
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, c, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// BuildWithCacheInfo builds the padded component with caching and returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (*layout.Component, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	observability.Pipeline().OnBuildStart(ctx, opts.Cell)
	start := time.Now()

	cacheKey := r.Keyer.BuildKey(opts.Cell, opts.BuildKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			c, err := layout.UnmarshalComponent(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "build")
				observability.Pipeline().OnBuildComplete(ctx, opts.Cell, c.PortCount(), time.Since(start), nil)
				return c, true, nil // Cache hit
			}
			// If deserialization fails, fall through to rebuild
		}
		observability.Cache().OnCacheMiss(ctx, "build")
	}

	// Build
	c, err := Build(opts)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, opts.Cell, 0, time.Since(start), err)
		return nil, false, err
	}

	// Cache the result
	if !opts.Refresh {
		if data, err := layout.MarshalComponent(c); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLBuild)
			observability.Cache().OnCacheSet(ctx, "build", len(data))
		}
	}

	observability.Pipeline().OnBuildComplete(ctx, opts.Cell, c.PortCount(), time.Since(start), nil)
	return c, false, nil // Cache miss
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards the cache hit info.
func (r *Runner) Build(ctx context.Context, opts Options) (*layout.Component, error) {
	c, _, err := r.BuildWithCacheInfo(ctx, opts)
	return c, err
}

// ExportWithCacheInfo exports artifacts with caching and returns cache hit info.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, c *layout.Component, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	observability.Pipeline().OnExportStart(ctx, opts.Formats)
	start := time.Now()

	// Compute cache key from the component document
	doc, err := layout.MarshalComponent(c)
	if err != nil {
		observability.Pipeline().OnExportComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, fmt.Errorf("serialize component for cache key: %w", err)
	}
	buildHash := cache.Hash(doc)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(buildHash, opts.ArtifactKeyOpts(format))
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = cached
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		observability.Pipeline().OnExportComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Export all formats
	exported, err := Export(ctx, c, opts)
	if err != nil {
		observability.Pipeline().OnExportComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	// Cache each format
	for format, data := range exported {
		cacheKey := r.Keyer.ArtifactKey(buildHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	observability.Pipeline().OnExportComplete(ctx, opts.Formats, time.Since(start), nil)
	return exported, false, nil // Cache miss
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and discards the cache hit info.
func (r *Runner) Export(ctx context.Context, c *layout.Component, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, c, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Package pipeline provides the core build and export pipeline for maskfab.
//
// This package implements the complete build → export pipeline that can be
// used by CLI and server components. By centralizing this logic, we ensure
// consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Build: Resolve a cell from the registry and terminate its electrical
//     ports with bond pads
//  2. Export: Generate output in various formats (GDS, SVG, JSON, DOT, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Cell:    "wire",
//	    Formats: []string{"gds", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data := result.Artifacts["gds"]
//
// Run individual stages:
//
//	// Build only
//	c, err := runner.Build(ctx, opts)
//
//	// Export an existing component
//	artifacts, err := runner.Export(ctx, c, opts)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/maskfab/maskfab/pkg/cache"
	"github.com/maskfab/maskfab/pkg/cells"
	"github.com/maskfab/maskfab/pkg/layer"
	"github.com/maskfab/maskfab/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultScale is the raster scale factor for PNG export.
	// Scale of 2.0 produces a 2x resolution image.
	DefaultScale = 2.0

	// DefaultOrientation routes each port along its own direction.
	DefaultOrientation = "auto"
)

// Format constants for output formats.
const (
	FormatGDS  = "gds"
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatGDS:  true,
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the build pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Cell        string   `json:"cell"`
	NoPads      bool     `json:"no_pads,omitempty"`     // Build the bare cell without pad termination
	Pad         string   `json:"pad,omitempty"`         // Pad cell name in the registry
	Spacing     float64  `json:"spacing,omitempty"`     // Gap between port and pad edge in layout units
	PortNames   []string `json:"port_names,omitempty"`  // Terminate only these ports (default: all electrical)
	Orientation string   `json:"orientation,omitempty"` // "auto", a compass direction, or degrees
	Layer       string   `json:"layer,omitempty"`       // Routing layer spec ("M3" or "49/0")
	Name        string   `json:"name,omitempty"`        // Output component name override
	Refresh     bool     `json:"refresh,omitempty"`     // Bypass the build cache

	// Export options
	Formats  []string `json:"formats,omitempty"`
	TechFile string   `json:"tech_file,omitempty"` // TOML process stack for layer resolution and colors
	Scale    float64  `json:"scale,omitempty"`     // PNG raster scale
	Labels   bool     `json:"labels,omitempty"`    // Include port labels in GDS and SVG output

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-"`
	Registry *cells.Registry `json:"-"`
	Stack    *layer.Stack    `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Component is the built layout component, locked.
	Component *layout.Component

	// BuildHash is the content hash of the component document.
	BuildHash string

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PortCount    int
	PadCount     int
	PolygonCount int
	BuildTime    time.Duration
	ExportTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the built component came from cache
	ExportHit bool // Whether all artifacts came from cache
}

// countPads counts the exposed pad ports on a built component.
func countPads(c *layout.Component) int {
	n := 0
	for _, name := range c.PortNames() {
		if strings.HasPrefix(name, "elec-") {
			n++
		}
	}
	return n
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: gds, svg, json, dot, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOrientation checks that an orientation spec is parseable.
// Degree values are range-checked later, when the pads are placed.
func ValidateOrientation(s string) error {
	_, err := parseOrientation(s)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks required fields for the build stage.
func (o *Options) ValidateForBuild() error {
	if o.Cell == "" {
		return fmt.Errorf("cell is required")
	}
	if err := ValidateOrientation(o.Orientation); err != nil {
		return err
	}
	if o.Spacing < 0 {
		return fmt.Errorf("spacing must not be negative")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetExportDefaults sets default values for the export stage.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatGDS}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForExport validates and sets defaults for the export stage.
func (o *Options) ValidateForExport() error {
	o.SetExportDefaults()
	if o.Scale <= 0 {
		return fmt.Errorf("scale must be positive")
	}
	return ValidateFormats(o.Formats)
}

// ResolveStack returns the process stack used for layer resolution and
// display colors: the explicit Stack when set, the parsed TechFile when
// given, the built-in generic stack otherwise.
func (o *Options) ResolveStack() (*layer.Stack, error) {
	if o.Stack != nil {
		return o.Stack, nil
	}
	if o.TechFile != "" {
		return layer.LoadStack(o.TechFile)
	}
	return layer.DefaultStack(), nil
}

// BuildKeyOpts returns cache key options for the build stage.
func (o *Options) BuildKeyOpts() cache.BuildKeyOpts {
	return cache.BuildKeyOpts{
		Pad:         o.Pad,
		Spacing:     o.Spacing,
		Orientation: o.Orientation,
		Layer:       o.Layer,
		PortNames:   o.PortNames,
		Name:        o.Name,
		Stack:       o.TechFile,
		NoPads:      o.NoPads,
	}
}

// ArtifactKeyOpts returns cache key options for artifact export.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
		Stack:  o.TechFile,
		Labels: o.Labels,
	}
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maskfab/maskfab/pkg/pipeline"
)

// defaultCell is used when a command takes an optional [cell] argument.
const defaultCell = "wire"

// padsCommand creates the pads command, the main entry point for pad breakout.
func (c *CLI) padsCommand() *cobra.Command {
	var (
		formatsStr string
		portsStr   string
		output     string
		noCache    bool
		backend    string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "pads [cell]",
		Short: "Terminate a cell's electrical ports with bond pads",
		Long: `Terminate a cell's electrical ports with bond pads.

The pads command builds the named cell (default "wire"), places a bond pad
beyond the cell's bounding box for every electrical port, routes each port
straight out to its pad, and exports the result.

Results are cached locally for faster subsequent runs.

Examples:
  maskfab pads                        # default wire cell, GDS output
  maskfab pads wire -f gds,svg        # GDS plus an SVG preview
  maskfab pads wire --ports e2        # terminate only port e2
  maskfab pads wire --orientation 90  # force every pad north`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Cell = defaultCell
			if len(args) > 0 {
				opts.Cell = args[0]
			}
			opts.Formats = parseFormats(formatsStr)
			if portsStr != "" {
				opts.PortNames = strings.Split(portsStr, ",")
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runPads(cmd.Context(), opts, output, noCache, backend)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): gds (default), svg, json, dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&backend, "cache-backend", "file", "cache backend: file (default), redis")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")

	// Pad flags
	cmd.Flags().StringVar(&opts.Pad, "pad", "", "pad cell name (default: registered pad)")
	cmd.Flags().Float64Var(&opts.Spacing, "spacing", 0, "gap between cell bounds and pads in um (default 50)")
	cmd.Flags().StringVar(&portsStr, "ports", "", "electrical port name(s) to terminate (comma-separated, default all)")
	cmd.Flags().StringVar(&opts.Orientation, "orientation", "", "pad direction: auto (default), east, north, west, south, or degrees")
	cmd.Flags().StringVar(&opts.Layer, "layer", "", "routing layer name or number/datatype (default M3)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "output cell name (default: <cell>_pads)")

	// Export flags
	cmd.Flags().StringVar(&opts.TechFile, "tech", "", "TOML tech file for the layer stack")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "raster scale factor for png export")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "write port labels into exports")

	return cmd
}

// runPads executes the pad pipeline and writes the requested artifacts.
func (c *CLI) runPads(ctx context.Context, opts pipeline.Options, output string, noCache bool, backend string) error {
	runner, err := c.newRunner(ctx, noCache, backend)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Terminating %s with pads...", opts.Cell))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Pad breakout failed")
		return fmt.Errorf("pads: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		cell:      opts.Cell,
		output:    output,
		success:   fmt.Sprintf("Terminated %s with %d pads", opts.Cell, result.Stats.PadCount),
		stats:     result.Stats,
		cached:    result.CacheInfo.BuildHit && result.CacheInfo.ExportHit,
	}); err != nil {
		return err
	}

	if !hasFormat(opts.Formats, pipeline.FormatSVG) {
		printNewline()
		printNextStep("Preview", fmt.Sprintf("maskfab pads %s -f svg", opts.Cell))
	}
	return nil
}

// hasFormat reports whether format is in formats.
func hasFormat(formats []string, format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

// artifactWriteParams bundles everything writeArtifacts needs to place
// exported artifacts on disk and report the result.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	cell      string
	output    string
	success   string
	stats     pipeline.Stats
	cached    bool
}

// writeArtifacts writes each requested format to disk and prints a summary.
// With a single format the output flag names the file directly; with several
// it is treated as a base path and the format extension is appended.
func writeArtifacts(p artifactWriteParams) error {
	var paths []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}

		path := p.output
		if path == "" || len(p.formats) > 1 {
			path = artifactBase(p.output, p.cell) + "." + format
		}

		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("%s", p.success)
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.stats.PortCount, p.stats.PadCount, p.stats.PolygonCount, p.cached)
	return nil
}

// artifactBase derives the base output path from the output flag and cell name.
// If output is empty, the cell name is used. If output carries a known format
// extension (.gds, .svg, ...), that extension is stripped.
func artifactBase(output, cell string) string {
	if output == "" {
		return cell
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maskfab/maskfab/pkg/pipeline"
)

// renderCommand creates the render command for exporting a cell as-is.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		backend    string
	)
	opts := pipeline.Options{NoPads: true}

	cmd := &cobra.Command{
		Use:   "render [cell]",
		Short: "Export a cell without pad termination",
		Long: `Export a cell without pad termination.

The render command builds the named cell exactly as registered, with no
pads attached, and exports it to the requested formats. Use it to inspect
a cell before terminating it, or to export library cells directly.

Use 'pads' to terminate the cell's electrical ports first.

Examples:
  maskfab render                  # default wire cell, GDS output
  maskfab render pad -f svg       # SVG preview of the pad cell
  maskfab render wire -f json -o wire.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Cell = defaultCell
			if len(args) > 0 {
				opts.Cell = args[0]
			}
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, noCache, backend)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): gds (default), svg, json, dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&backend, "cache-backend", "file", "cache backend: file (default), redis")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")

	// Export flags
	cmd.Flags().StringVar(&opts.TechFile, "tech", "", "TOML tech file for the layer stack")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "raster scale factor for png export")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "write port labels into exports")

	return cmd
}

// runRender builds the bare cell and writes the requested artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool, backend string) error {
	runner, err := c.newRunner(ctx, noCache, backend)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Cell))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
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
		success:   fmt.Sprintf("Rendered %s", opts.Cell),
		stats:     result.Stats,
		cached:    result.CacheInfo.BuildHit && result.CacheInfo.ExportHit,
	}); err != nil {
		return err
	}

	printNewline()
	printNextStep("Terminate with pads", "maskfab pads "+opts.Cell)
	return nil
}

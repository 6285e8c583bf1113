package pipeline

import (
	"context"
	"fmt"

	"github.com/maskfab/maskfab/pkg/gds"
	"github.com/maskfab/maskfab/pkg/layout"
	"github.com/maskfab/maskfab/pkg/render"
)

// Export runs the export stage, producing one artifact per requested format.
func Export(ctx context.Context, c *layout.Component, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := exportFormat(ctx, c, format, opts)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// exportFormat produces a single artifact. PNG and PDF go through the SVG
// renderer and rsvg-convert, so they need external tooling at runtime.
func exportFormat(ctx context.Context, c *layout.Component, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatGDS:
		var gdsOpts []gds.Option
		if opts.Labels {
			gdsOpts = append(gdsOpts, gds.WithPortLabels())
		}
		return gds.Marshal(c, gdsOpts...)

	case FormatJSON:
		return layout.MarshalComponent(c)

	case FormatSVG:
		return maskSVG(c, opts)

	case FormatDOT:
		return []byte(render.HierarchyDOT(c)), nil

	case FormatPNG:
		svg, err := maskSVG(c, opts)
		if err != nil {
			return nil, err
		}
		return render.ToPNG(ctx, svg, opts.Scale)

	case FormatPDF:
		svg, err := maskSVG(c, opts)
		if err != nil {
			return nil, err
		}
		return render.ToPDF(ctx, svg)
	}
	return nil, ValidateFormat(format)
}

// maskSVG renders the component as SVG with the resolved process stack.
func maskSVG(c *layout.Component, opts Options) ([]byte, error) {
	stack, err := opts.ResolveStack()
	if err != nil {
		return nil, err
	}
	ropts := []render.Option{render.WithStack(stack)}
	if opts.Labels {
		ropts = append(ropts, render.WithPorts())
	}
	return render.SVG(c, ropts...), nil
}

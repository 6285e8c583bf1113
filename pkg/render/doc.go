// Package render turns layout components into visual outputs.
//
// # Overview
//
// Two renderers live here. [SVG] draws the flattened mask geometry of a
// component: every polygon of the reference tree projected into the top
// cell's coordinates, colored by process stack layer, optionally with
// port tick marks. [HierarchyDOT] draws the structure instead of the
// geometry: one Graphviz node per unique cell, one edge per parent and
// child pair.
//
//	svg := render.SVG(c, render.WithPorts())
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the
// external rsvg-convert tool (from librsvg). They apply both to mask
// previews and to rendered hierarchy diagrams.
//
// # Hierarchy Diagrams
//
// [HierarchyDOT] emits DOT text; [RenderDOT] rasterizes it to SVG with
// Graphviz in-process.
//
//	dot := render.HierarchyDOT(c)
//	svg, err := render.RenderDOT(ctx, dot)
package render

package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/maskfab/maskfab/pkg/layout"
)

// HierarchyDOT converts a component's reference tree to Graphviz DOT
// format. Each unique cell becomes one node; each parent/child pair
// becomes one edge, labeled with the placement count when a cell is
// referenced more than once. The resulting DOT string can be rendered
// with [RenderDOT] and converted further with [ToPDF] or [ToPNG].
func HierarchyDOT(c *layout.Component) string {
	var buf bytes.Buffer
	buf.WriteString("digraph hierarchy {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	cells := collectTree(c)
	for _, cell := range cells {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", cell.Name(), cellLabel(cell))
	}

	buf.WriteString("\n")
	for _, cell := range cells {
		for _, e := range childEdges(cell) {
			if e.count > 1 {
				fmt.Fprintf(&buf, "  %q -> %q [label=\"%dx\"];\n", cell.Name(), e.child, e.count)
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", cell.Name(), e.child)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// collectTree returns the unique cells of the reference tree in
// depth-first preorder starting at the root.
func collectTree(c *layout.Component) []*layout.Component {
	var cells []*layout.Component
	seen := make(map[*layout.Component]bool)

	var visit func(cell *layout.Component)
	visit = func(cell *layout.Component) {
		if seen[cell] {
			return
		}
		seen[cell] = true
		cells = append(cells, cell)
		for _, ref := range cell.Refs() {
			visit(ref.Cell())
		}
	}
	visit(c)
	return cells
}

func cellLabel(c *layout.Component) string {
	return fmt.Sprintf("%s\n%d polygons, %d ports", c.Name(), len(c.Polygons()), c.PortCount())
}

type childEdge struct {
	child string
	count int
}

// childEdges aggregates a cell's references per child cell, keeping the
// order of first placement.
func childEdges(c *layout.Component) []childEdge {
	var order []string
	counts := make(map[string]int)
	for _, ref := range c.Refs() {
		name := ref.Cell().Name()
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}

	edges := make([]childEdge, len(order))
	for i, name := range order {
		edges[i] = childEdge{child: name, count: counts[name]}
	}
	return edges
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [ToPDF] or [ToPNG].
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz svg tag so the diagram scales
// from origin with pixel units instead of the pt sizes Graphviz emits.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

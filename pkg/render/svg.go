package render

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/maskfab/maskfab/pkg/geom"
	"github.com/maskfab/maskfab/pkg/layer"
	"github.com/maskfab/maskfab/pkg/layout"
)

const (
	defaultMargin = 10.0
	fallbackColor = "#888888"
)

type Option func(*renderer)

type renderer struct {
	stack      *layer.Stack
	margin     float64
	showPorts  bool
	background string
}

// WithStack selects the process stack used for layer colors.
func WithStack(s *layer.Stack) Option { return func(r *renderer) { r.stack = s } }

// WithMargin sets the whitespace around the geometry in layout units.
func WithMargin(m float64) Option { return func(r *renderer) { r.margin = m } }

// WithPorts draws a tick mark across each port edge plus its name.
func WithPorts() Option { return func(r *renderer) { r.showPorts = true } }

// WithBackground fills the canvas with a solid color before drawing.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

// SVG renders the flattened geometry of a component. Polygons from the
// whole reference tree are projected into the component's coordinates
// and grouped per layer, bottom layer first. The viewBox is the
// component bounding box plus the margin; the y axis is flipped so that
// layout +y points up on screen.
func SVG(c *layout.Component, opts ...Option) []byte {
	r := newRenderer(opts...)

	polys := c.Flatten()
	b := c.Bounds()
	width := b.Width() + 2*r.margin
	height := b.Height() + 2*r.margin

	project := func(p geom.Point) (float64, float64) {
		return p.X - b.Min.X + r.margin, b.Max.Y - p.Y + r.margin
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	for _, grp := range groupByLayer(polys) {
		color := r.stack.ColorFor(grp.layer, fallbackColor)
		fmt.Fprintf(&buf, `  <g id="layer-%d-%d" fill="%s" fill-opacity="0.85" stroke="%s" stroke-width="0.1">`+"\n",
			grp.layer.Number, grp.layer.Datatype, color, color)
		for _, outline := range grp.outlines {
			fmt.Fprintf(&buf, `    <polygon points="%s"/>`+"\n", points(outline, project))
		}
		buf.WriteString("  </g>\n")
	}

	if r.showPorts {
		renderPorts(&buf, c.Ports(), project)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newRenderer(opts ...Option) renderer {
	r := renderer{stack: layer.DefaultStack(), margin: defaultMargin}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

type layerGroup struct {
	layer    layer.Layer
	outlines []geom.Polygon
}

// groupByLayer buckets polygons per GDS layer pair, ordered by layer
// number then datatype so stacking is deterministic.
func groupByLayer(polys []layout.Polygon) []layerGroup {
	byLayer := make(map[layer.Layer][]geom.Polygon)
	for _, p := range polys {
		byLayer[p.Layer] = append(byLayer[p.Layer], p.Outline)
	}

	groups := make([]layerGroup, 0, len(byLayer))
	for l, outlines := range byLayer {
		groups = append(groups, layerGroup{layer: l, outlines: outlines})
	}
	slices.SortFunc(groups, func(a, b layerGroup) int {
		if d := cmp.Compare(a.layer.Number, b.layer.Number); d != 0 {
			return d
		}
		return cmp.Compare(a.layer.Datatype, b.layer.Datatype)
	})
	return groups
}

func points(outline geom.Polygon, project func(geom.Point) (float64, float64)) string {
	parts := make([]string, len(outline))
	for i, pt := range outline {
		x, y := project(pt)
		parts[i] = fmt.Sprintf("%.3f,%.3f", x, y)
	}
	return strings.Join(parts, " ")
}

func renderPorts(buf *bytes.Buffer, ports []layout.Port, project func(geom.Point) (float64, float64)) {
	if len(ports) == 0 {
		return
	}
	buf.WriteString(`  <g class="ports" stroke="#ff3b30" stroke-width="0.5">` + "\n")
	for _, p := range ports {
		a, b := p.Edge()
		x1, y1 := project(a)
		x2, y2 := project(b)
		fmt.Fprintf(buf, `    <line x1="%.3f" y1="%.3f" x2="%.3f" y2="%.3f"/>`+"\n", x1, y1, x2, y2)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="port-labels" font-family="monospace" font-size="4" fill="#333333">` + "\n")
	for _, p := range ports {
		x, y := project(p.Center)
		fmt.Fprintf(buf, `    <text x="%.3f" y="%.3f">%s</text>`+"\n", x, y, escapeText(p.Name))
	}
	buf.WriteString("  </g>\n")
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

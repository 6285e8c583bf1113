package cells

import (
	"fmt"

	"github.com/maskfab/maskfab/pkg/geom"
	"github.com/maskfab/maskfab/pkg/layer"
	"github.com/maskfab/maskfab/pkg/layout"
)

// Default wire dimensions, in micrometers.
const (
	DefaultWireLength = 200.0
	DefaultWireWidth  = 10.0
)

// MetalRouting is the default layer for wires and electrical routes
// (M3 in the generic stack).
var MetalRouting = layer.Layer{Number: 49, Datatype: 0}

// Wire builds a straight metal trace with electrical ports e1 and e2 at
// its ends. The wire runs along +x from the origin; e1 faces west at
// (0, 0) and e2 faces east at (length, 0).
func Wire(opts ...Option) (*layout.Component, error) {
	cfg := config{
		length: DefaultWireLength,
		width:  DefaultWireWidth,
		layer:  MetalRouting,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.length <= 0 {
		return nil, fmt.Errorf("wire: length must be positive, got %v", cfg.length)
	}
	if cfg.width <= 0 {
		return nil, fmt.Errorf("wire: width must be positive, got %v", cfg.width)
	}

	name := "wire"
	if cfg.length != DefaultWireLength {
		name += fmt.Sprintf("_l%g", cfg.length)
	}
	if cfg.width != DefaultWireWidth {
		name += fmt.Sprintf("_w%g", cfg.width)
	}

	c := layout.NewComponent(name)
	outline := geom.Polygon{
		geom.Pt(0, -cfg.width/2),
		geom.Pt(cfg.length, -cfg.width/2),
		geom.Pt(cfg.length, cfg.width/2),
		geom.Pt(0, cfg.width/2),
	}
	if err := c.AddPolygon(cfg.layer, outline); err != nil {
		return nil, fmt.Errorf("wire: %w", err)
	}

	ports := []layout.Port{
		{Name: "e1", Center: geom.Pt(0, 0), Width: cfg.width, Orientation: layout.West, Layer: cfg.layer, Type: layout.PortTypeElectrical},
		{Name: "e2", Center: geom.Pt(cfg.length, 0), Width: cfg.width, Orientation: layout.East, Layer: cfg.layer, Type: layout.PortTypeElectrical},
	}
	for _, p := range ports {
		if err := c.AddPort(p); err != nil {
			return nil, fmt.Errorf("wire: %w", err)
		}
	}

	info := map[string]float64{
		"length": cfg.length,
		"width":  cfg.width,
		"xsize":  cfg.length,
		"ysize":  cfg.width,
	}
	for k, v := range info {
		if err := c.SetInfo(k, v); err != nil {
			return nil, fmt.Errorf("wire: %w", err)
		}
	}
	return c, nil
}

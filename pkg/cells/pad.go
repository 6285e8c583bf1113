package cells

import (
	"fmt"

	"github.com/maskfab/maskfab/pkg/geom"
	"github.com/maskfab/maskfab/pkg/layer"
	"github.com/maskfab/maskfab/pkg/layout"
)

// Default pad size, in micrometers.
const (
	DefaultPadXSize = 100.0
	DefaultPadYSize = 100.0
)

// MetalTop is the default bond pad layer (MTOP in the generic stack).
var MetalTop = layer.Layer{Number: 49, Datatype: 0}

// Pad builds a rectangular bond pad centered on the origin. Electrical
// pins e1 through e4 sit on the west, north, east, and south edges and
// face outward; a fifth port named "pad" marks the pad center and is the
// port exposed on components that attach pads to a layout.
func Pad(opts ...Option) (*layout.Component, error) {
	cfg := config{
		width:  DefaultPadXSize,
		height: DefaultPadYSize,
		layer:  MetalTop,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.width <= 0 || cfg.height <= 0 {
		return nil, fmt.Errorf("pad: size must be positive, got %gx%g", cfg.width, cfg.height)
	}

	name := "pad"
	if cfg.width != DefaultPadXSize || cfg.height != DefaultPadYSize {
		name += fmt.Sprintf("_%gx%g", cfg.width, cfg.height)
	}

	hw, hh := cfg.width/2, cfg.height/2
	c := layout.NewComponent(name)
	outline := geom.Polygon{
		geom.Pt(-hw, -hh),
		geom.Pt(hw, -hh),
		geom.Pt(hw, hh),
		geom.Pt(-hw, hh),
	}
	if err := c.AddPolygon(cfg.layer, outline); err != nil {
		return nil, fmt.Errorf("pad: %w", err)
	}

	ports := []layout.Port{
		{Name: "e1", Center: geom.Pt(-hw, 0), Width: cfg.height, Orientation: layout.West, Layer: cfg.layer, Type: layout.PortTypeElectrical},
		{Name: "e2", Center: geom.Pt(0, hh), Width: cfg.width, Orientation: layout.North, Layer: cfg.layer, Type: layout.PortTypeElectrical},
		{Name: "e3", Center: geom.Pt(hw, 0), Width: cfg.height, Orientation: layout.East, Layer: cfg.layer, Type: layout.PortTypeElectrical},
		{Name: "e4", Center: geom.Pt(0, -hh), Width: cfg.width, Orientation: layout.South, Layer: cfg.layer, Type: layout.PortTypeElectrical},
		{Name: "pad", Center: geom.Pt(0, 0), Width: cfg.width, Orientation: layout.East, Layer: cfg.layer, Type: layout.PortTypeElectrical},
	}
	for _, p := range ports {
		if err := c.AddPort(p); err != nil {
			return nil, fmt.Errorf("pad: %w", err)
		}
	}

	info := map[string]float64{
		"xsize": cfg.width,
		"ysize": cfg.height,
	}
	for k, v := range info {
		if err := c.SetInfo(k, v); err != nil {
			return nil, fmt.Errorf("pad: %w", err)
		}
	}
	return c, nil
}

package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maskfab/maskfab/pkg/cells"
	"github.com/maskfab/maskfab/pkg/layout"
	"github.com/maskfab/maskfab/pkg/route"
)

// Build runs the build stage: resolve the named cell from the registry and
// terminate its electrical ports with bond pads. With NoPads set it returns
// the bare cell instead, ignoring the pad and naming options.
func Build(opts Options) (*layout.Component, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}

	reg := opts.Registry
	if reg == nil {
		reg = cells.Default()
	}

	if opts.NoPads {
		return reg.Build(opts.Cell)
	}

	orient, err := parseOrientation(opts.Orientation)
	if err != nil {
		return nil, err
	}
	stack, err := opts.ResolveStack()
	if err != nil {
		return nil, err
	}

	routeOpts := []route.Option{
		route.WithRegistry(reg),
		route.WithStack(stack),
	}
	if opts.Pad != "" {
		routeOpts = append(routeOpts, route.WithPad(opts.Pad))
	}
	if opts.Spacing > 0 {
		routeOpts = append(routeOpts, route.WithSpacing(opts.Spacing))
	}
	if len(opts.PortNames) > 0 {
		routeOpts = append(routeOpts, route.WithPortNames(opts.PortNames...))
	}
	if opts.Layer != "" {
		routeOpts = append(routeOpts, route.WithLayer(opts.Layer))
	}
	if opts.Name != "" {
		routeOpts = append(routeOpts, route.WithName(opts.Name))
	}
	if !orient.auto {
		routeOpts = append(routeOpts, route.WithOrientation(orient.dir))
	}

	return route.AddElectricalPads(opts.Cell, routeOpts...)
}

// orientationOpt is a parsed orientation flag: either "route each port along
// its own facing direction" or a single fixed direction for every pad.
type orientationOpt struct {
	auto bool
	dir  layout.Orientation
}

// parseOrientation parses an orientation flag value. Accepted forms are
// "auto" (or empty), a compass name, or an angle in degrees.
func parseOrientation(s string) (orientationOpt, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return orientationOpt{auto: true}, nil
	case "east", "e":
		return orientationOpt{dir: layout.East}, nil
	case "north", "n":
		return orientationOpt{dir: layout.North}, nil
	case "west", "w":
		return orientationOpt{dir: layout.West}, nil
	case "south", "s":
		return orientationOpt{dir: layout.South}, nil
	}
	deg, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return orientationOpt{}, fmt.Errorf("invalid orientation %q (use auto, east, north, west, south, or degrees)", s)
	}
	dir, err := layout.OrientationFromDegrees(deg)
	if err != nil {
		return orientationOpt{}, err
	}
	return orientationOpt{dir: dir}, nil
}

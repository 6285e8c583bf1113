package route

import (
	"fmt"

	"github.com/maskfab/maskfab/pkg/cells"
	"github.com/maskfab/maskfab/pkg/geom"
	"github.com/maskfab/maskfab/pkg/layer"
	"github.com/maskfab/maskfab/pkg/layout"
)

// DefaultSpacing is the default gap between a port and the near edge of
// its pad, in micrometers.
const DefaultSpacing = 50.0

// DefaultRouteLayer is the default layer spec for pad connectors.
const DefaultRouteLayer = "M3"

// RoutedPad is the per-port result of pad breakout: the placed pad
// reference, the connector polygon, and the pad center port the output
// exposes (already renamed and translated into output coordinates).
type RoutedPad struct {
	Pad   *layout.Ref
	Route geom.Polygon
	Port  layout.Port
}

// Option configures [AddElectricalPads].
type Option func(*options)

type options struct {
	pad       cells.Spec
	spacing   float64
	selector  layout.Selector
	portNames []string
	fixed     *layout.Orientation
	fixedDeg  *float64
	layerSpec string
	stack     *layer.Stack
	name      string
	registry  *cells.Registry
}

// WithPad sets the pad cell. Like the component argument, it is a
// [cells.Spec]: a registered name, a built component, or a builder.
func WithPad(pad cells.Spec) Option { return func(o *options) { o.pad = pad } }

// WithSpacing sets the gap between each port and the near edge of its
// pad. The default is [DefaultSpacing].
func WithSpacing(d float64) Option { return func(o *options) { o.spacing = d } }

// WithSelect sets the predicate choosing which ports receive pads. The
// default is [layout.SelectElectrical]. Ignored when port names are
// given explicitly.
func WithSelect(s layout.Selector) Option { return func(o *options) { o.selector = s } }

// WithPortNames routes exactly the named ports, in the given order,
// bypassing the selection predicate. A name that does not exist on the
// component fails the operation with [layout.ErrPortNotFound].
func WithPortNames(names ...string) Option {
	return func(o *options) { o.portNames = names }
}

// WithOrientation forces one breakout direction for all selected ports
// instead of following each port's own orientation.
func WithOrientation(dir layout.Orientation) Option {
	return func(o *options) { o.fixed = &dir }
}

// WithOrientationDegrees is [WithOrientation] with the direction given
// as an angle in degrees. Angles other than 0, 90, 180, and 270 fail the
// operation with [layout.ErrUnsupportedOrientation].
func WithOrientationDegrees(deg float64) Option {
	return func(o *options) { o.fixedDeg = &deg }
}

// WithLayer sets the routing layer spec, resolved against the stack
// ("M3" or "49/0"). The default is [DefaultRouteLayer].
func WithLayer(spec string) Option { return func(o *options) { o.layerSpec = spec } }

// WithStack sets the layer stack used to resolve the routing layer. The
// default is [layer.DefaultStack].
func WithStack(s *layer.Stack) Option { return func(o *options) { o.stack = s } }

// WithName overrides the output component name. The default is the
// source name with a "_pads" suffix.
func WithName(name string) Option { return func(o *options) { o.name = name } }

// WithRegistry sets the cell registry used to resolve component and pad
// specs. The default is [cells.Default].
func WithRegistry(r *cells.Registry) Option { return func(o *options) { o.registry = r } }

// AddElectricalPads returns a new component wrapping the source with one
// bond pad per selected electrical port, each wired to its port by a
// straight quad on the routing layer. A nil component defaults to the
// stock wire cell. See the package documentation for the port naming and
// merging rules.
func AddElectricalPads(component cells.Spec, opts ...Option) (*layout.Component, error) {
	if component == nil {
		component = "wire"
	}
	cfg := options{
		pad:       "pad",
		spacing:   DefaultSpacing,
		selector:  layout.SelectElectrical,
		layerSpec: DefaultRouteLayer,
		stack:     layer.DefaultStack(),
		registry:  cells.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	source, err := cfg.registry.Get(component)
	if err != nil {
		return nil, fmt.Errorf("resolve component: %w", err)
	}
	pad, err := cfg.registry.Get(cfg.pad)
	if err != nil {
		return nil, fmt.Errorf("resolve pad cell: %w", err)
	}
	routeLayer, err := cfg.stack.Resolve(cfg.layerSpec)
	if err != nil {
		return nil, fmt.Errorf("resolve routing layer: %w", err)
	}
	fixed := cfg.fixed
	if cfg.fixedDeg != nil {
		dir, err := layout.OrientationFromDegrees(*cfg.fixedDeg)
		if err != nil {
			return nil, err
		}
		fixed = &dir
	}

	// Both cells end up shared by the output's reference tree.
	source.Lock()
	pad.Lock()

	name := cfg.name
	if name == "" {
		name = source.Name() + "_pads"
	}
	out := layout.NewComponent(name)
	ref, err := out.AddRef(source, geom.Pt(0, 0))
	if err != nil {
		return nil, err
	}

	selected, err := selectPorts(ref, cfg.portNames, cfg.selector)
	if err != nil {
		return nil, err
	}

	// The configured spacing is the gap to the pad's near edge, so the
	// center-to-center clearance grows by half the pad extent.
	clearance := cfg.spacing + padHalfExtent(pad)

	for i, port := range selected {
		dir := port.Orientation
		if fixed != nil {
			dir = *fixed
		}
		routed, err := placePad(out, port, pad, clearance, dir, routeLayer)
		if err != nil {
			return nil, fmt.Errorf("route port %q: %w", port.Name, err)
		}
		routed.Port.Name = fmt.Sprintf("elec-%s-%d", source.Name(), i+1)
		if err := out.AddPort(routed.Port); err != nil {
			return nil, fmt.Errorf("expose pad port for %q: %w", port.Name, err)
		}
	}

	// Re-expose the source ports, then strip the ones now routed to pads.
	for _, p := range ref.Ports() {
		if err := out.AddPort(p); err != nil {
			return nil, fmt.Errorf("merge source ports: %w", err)
		}
	}
	for _, p := range selected {
		if err := out.RemovePort(p.Name); err != nil {
			return nil, fmt.Errorf("strip routed port: %w", err)
		}
	}

	if err := out.CopyChildInfo(source); err != nil {
		return nil, err
	}
	out.Lock()
	return out, nil
}

// selectPorts resolves the ordered ports to break out: the explicit name
// list when given, the selection predicate otherwise.
func selectPorts(ref *layout.Ref, names []string, keep layout.Selector) ([]layout.Port, error) {
	if len(names) == 0 {
		return ref.SelectPorts(keep), nil
	}
	ports := make([]layout.Port, 0, len(names))
	for _, n := range names {
		p, err := ref.Port(n)
		if err != nil {
			return nil, fmt.Errorf("select ports: %w", err)
		}
		ports = append(ports, p)
	}
	return ports, nil
}

// padHalfExtent returns half the pad's size along the connection axis,
// from its declared "xsize" info when present, its bounding box otherwise.
func padHalfExtent(pad *layout.Component) float64 {
	if x, ok := pad.Info().Float("xsize"); ok {
		return x / 2
	}
	return pad.Bounds().Width() / 2
}

// placePad positions one pad ref at clearance from the port along dir,
// draws the connector quad, and returns the bundle with the pad's center
// port translated into output coordinates.
func placePad(out *layout.Component, port layout.Port, pad *layout.Component, clearance float64, dir layout.Orientation, routeLayer layer.Layer) (RoutedPad, error) {
	pin, err := facingPin(dir)
	if err != nil {
		return RoutedPad{}, err
	}

	ref, err := out.AddRef(pad, geom.Pt(0, 0))
	if err != nil {
		return RoutedPad{}, err
	}
	if err := ref.SetCenter(port.Center.Add(dir.Vector().Scale(clearance))); err != nil {
		return RoutedPad{}, err
	}

	pinPort, err := ref.Port(pin)
	if err != nil {
		return RoutedPad{}, err
	}
	connector := Quad(port, pinPort)
	if err := out.AddPolygon(routeLayer, connector); err != nil {
		return RoutedPad{}, err
	}

	exposed, err := ref.Port("pad")
	if err != nil {
		return RoutedPad{}, err
	}
	return RoutedPad{Pad: ref, Route: connector, Port: exposed}, nil
}

// facingPin maps a breakout direction to the pad pin that faces back
// toward the port. The dispatch is exhaustive over the four cardinal
// directions; anything else is rejected rather than skipped.
func facingPin(dir layout.Orientation) (string, error) {
	switch dir {
	case layout.East:
		return "e1", nil
	case layout.West:
		return "e3", nil
	case layout.North:
		return "e4", nil
	case layout.South:
		return "e2", nil
	}
	return "", fmt.Errorf("%w: %v", layout.ErrUnsupportedOrientation, dir)
}

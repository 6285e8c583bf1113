package layout

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/maskfab/maskfab/pkg/geom"
	"github.com/maskfab/maskfab/pkg/layer"
)

var (
	// ErrLocked is returned by every Component mutator after
	// [Component.Lock] has been called. Locked components are frozen and
	// may only be read or referenced.
	ErrLocked = errors.New("component is locked")

	// ErrNilCell is returned by [Component.AddRef] when the referenced
	// cell is nil.
	ErrNilCell = errors.New("nil cell")
)

// Info stores arbitrary key-value metadata attached to a component,
// such as nominal sizes ("xsize") or provenance. Values should be JSON
// serializable so documents round-trip.
type Info map[string]any

// Float returns the value for key as a float64, accepting float64 and int
// values. ok is false when the key is missing or has another type.
func (i Info) Float(key string) (float64, bool) {
	switch v := i[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Polygon is a drawn shape on a single layer. The outline is implicitly
// closed.
type Polygon struct {
	Layer   layer.Layer  `json:"layer"`
	Outline geom.Polygon `json:"outline"`
}

// Bounds returns the bounding box of the polygon outline.
func (p Polygon) Bounds() geom.Box {
	return p.Outline.Bounds()
}

// Label is a text annotation anchored at a point on a layer. Labels mark
// ports and cells in GDS output and have no geometric extent.
type Label struct {
	Text   string      `json:"text"`
	Origin geom.Point  `json:"origin"`
	Layer  layer.Layer `json:"layer"`
}

// Component is a mask layout cell: uniquely identified, mutable while
// under construction, and permanently frozen by [Lock]. It owns named
// ports, polygons, labels, and placed references to other components.
//
// The zero value is not usable - create components with [NewComponent].
type Component struct {
	name     string
	id       uuid.UUID
	info     Info
	ports    *Ports
	refs     []*Ref
	polygons []Polygon
	labels   []Label
	locked   bool
}

// NewComponent creates an empty unlocked component with a fresh identity.
// An empty name is replaced by a generated "unnamed_" name so every cell
// can be written to GDS.
func NewComponent(name string) *Component {
	id := uuid.New()
	if name == "" {
		name = "unnamed_" + id.String()[:8]
	}
	return &Component{
		name:  name,
		id:    id,
		info:  Info{},
		ports: NewPorts(),
	}
}

// Name returns the component name. Names identify cells in GDS output and
// must be unique within one exported library.
func (c *Component) Name() string { return c.name }

// ID returns the component's unique identity. Identity survives locking
// and distinguishes same-named cells from different builds.
func (c *Component) ID() uuid.UUID { return c.id }

// Locked reports whether the component has been frozen.
func (c *Component) Locked() bool { return c.locked }

// Lock freezes the component. All mutators fail with [ErrLocked] from now
// on. Locking is idempotent and cannot be undone.
func (c *Component) Lock() { c.locked = true }

// Info returns the component metadata map. Treat it as read-only once the
// component is locked; use [Component.SetInfo] for checked writes.
func (c *Component) Info() Info { return c.info }

// SetInfo sets one metadata entry.
func (c *Component) SetInfo(key string, value any) error {
	if c.locked {
		return fmt.Errorf("set info %q on %q: %w", key, c.name, ErrLocked)
	}
	c.info[key] = value
	return nil
}

// CopyChildInfo propagates metadata from a child component: entries the
// component does not define yet are copied over, existing entries win.
// Composite operations use this to surface the wrapped component's
// descriptive info on their output.
func (c *Component) CopyChildInfo(child *Component) error {
	if c.locked {
		return fmt.Errorf("copy info onto %q: %w", c.name, ErrLocked)
	}
	if child == nil {
		return ErrNilCell
	}
	for k, v := range child.info {
		if _, exists := c.info[k]; !exists {
			c.info[k] = v
		}
	}
	return nil
}

// AddPort adds a port. Returns [ErrLocked] on a frozen component and
// forwards [Ports.Add] validation errors.
func (c *Component) AddPort(p Port) error {
	if c.locked {
		return fmt.Errorf("add port %q to %q: %w", p.Name, c.name, ErrLocked)
	}
	return c.ports.Add(p)
}

// RemovePort deletes a port by name.
func (c *Component) RemovePort(name string) error {
	if c.locked {
		return fmt.Errorf("remove port %q from %q: %w", name, c.name, ErrLocked)
	}
	return c.ports.Remove(name)
}

// Port returns the port with the given name.
func (c *Component) Port(name string) (Port, error) {
	return c.ports.Get(name)
}

// HasPort reports whether a port with the given name exists.
func (c *Component) HasPort(name string) bool {
	return c.ports.Has(name)
}

// Ports returns copies of all ports in insertion order.
func (c *Component) Ports() []Port {
	return c.ports.All()
}

// PortNames returns the port names in insertion order.
func (c *Component) PortNames() []string {
	return c.ports.Names()
}

// PortCount returns the number of ports.
func (c *Component) PortCount() int {
	return c.ports.Len()
}

// SelectPorts returns the ports matched by the selector in insertion order.
func (c *Component) SelectPorts(keep Selector) []Port {
	return c.ports.Select(keep)
}

// AddPolygon draws a shape on a layer. The outline needs at least three
// vertices.
func (c *Component) AddPolygon(l layer.Layer, outline geom.Polygon) error {
	if c.locked {
		return fmt.Errorf("add polygon to %q: %w", c.name, ErrLocked)
	}
	if len(outline) < 3 {
		return fmt.Errorf("polygon on %q needs at least 3 vertices, got %d", c.name, len(outline))
	}
	c.polygons = append(c.polygons, Polygon{Layer: l, Outline: outline})
	return nil
}

// Polygons returns the component's own polygons (not those of referenced
// cells - see [Component.Flatten]).
func (c *Component) Polygons() []Polygon {
	out := make([]Polygon, len(c.polygons))
	copy(out, c.polygons)
	return out
}

// AddLabel adds a text annotation.
func (c *Component) AddLabel(text string, origin geom.Point, l layer.Layer) error {
	if c.locked {
		return fmt.Errorf("add label to %q: %w", c.name, ErrLocked)
	}
	c.labels = append(c.labels, Label{Text: text, Origin: origin, Layer: l})
	return nil
}

// Labels returns the component's text annotations.
func (c *Component) Labels() []Label {
	out := make([]Label, len(c.labels))
	copy(out, c.labels)
	return out
}

// AddRef places a reference to another component at origin and returns it
// for positioning. The referenced cell is shared, not copied: lock cells
// before referencing them from multiple parents. A component cannot
// reference itself.
func (c *Component) AddRef(cell *Component, origin geom.Point) (*Ref, error) {
	if c.locked {
		return nil, fmt.Errorf("add ref to %q: %w", c.name, ErrLocked)
	}
	if cell == nil {
		return nil, fmt.Errorf("add ref to %q: %w", c.name, ErrNilCell)
	}
	if cell == c {
		return nil, fmt.Errorf("add ref to %q: component cannot reference itself", c.name)
	}
	ref := &Ref{
		owner:  c,
		cell:   cell,
		origin: origin,
		id:     uuid.New(),
	}
	c.refs = append(c.refs, ref)
	return ref, nil
}

// Refs returns the placed references in insertion order.
func (c *Component) Refs() []*Ref {
	out := make([]*Ref, len(c.refs))
	copy(out, c.refs)
	return out
}

// Bounds returns the bounding box of the component's own polygons and all
// referenced cells, recursively. Labels and ports have no extent.
func (c *Component) Bounds() geom.Box {
	var b geom.Box
	for _, p := range c.polygons {
		b = b.Union(p.Bounds())
	}
	for _, r := range c.refs {
		b = b.Union(r.Bounds())
	}
	return b
}

// Flatten returns every polygon of the component and its reference tree,
// translated into this component's coordinates. Rendering uses this;
// GDS export keeps the hierarchy instead.
func (c *Component) Flatten() []Polygon {
	out := make([]Polygon, 0, len(c.polygons))
	out = append(out, c.Polygons()...)
	for _, r := range c.refs {
		for _, p := range r.cell.Flatten() {
			out = append(out, Polygon{Layer: p.Layer, Outline: p.Outline.Translate(r.origin)})
		}
	}
	return out
}

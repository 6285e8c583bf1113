package layout

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/maskfab/maskfab/pkg/geom"
)

// Ref is a placed instance of a component inside a parent component.
// Placement is translation-only: the referenced cell keeps its own
// coordinates and the ref shifts them by its origin. Refs are created
// with [Component.AddRef] and can be repositioned until the parent locks.
type Ref struct {
	owner  *Component
	cell   *Component
	origin geom.Point
	id     uuid.UUID
}

// Cell returns the referenced component.
func (r *Ref) Cell() *Component { return r.cell }

// ID returns the reference's unique identity.
func (r *Ref) ID() uuid.UUID { return r.id }

// Origin returns the placement offset of the reference.
func (r *Ref) Origin() geom.Point { return r.origin }

// SetOrigin repositions the reference. Fails with [ErrLocked] once the
// parent component is frozen.
func (r *Ref) SetOrigin(origin geom.Point) error {
	if r.owner.locked {
		return fmt.Errorf("move ref of %q in %q: %w", r.cell.name, r.owner.name, ErrLocked)
	}
	r.origin = origin
	return nil
}

// Move shifts the reference by delta.
func (r *Ref) Move(delta geom.Point) error {
	return r.SetOrigin(r.origin.Add(delta))
}

// Bounds returns the referenced cell's bounding box in parent coordinates.
func (r *Ref) Bounds() geom.Box {
	return r.cell.Bounds().Translate(r.origin)
}

// Center returns the center of the reference's bounding box in parent
// coordinates.
func (r *Ref) Center() geom.Point {
	return r.Bounds().Center()
}

// SetCenter repositions the reference so its bounding box center lands on
// target. Placement planners position pads this way: the pad cell is
// drawn around its own origin and the ref is moved by center.
func (r *Ref) SetCenter(target geom.Point) error {
	return r.Move(target.Sub(r.Center()))
}

// Port returns the named port of the referenced cell, translated into
// parent coordinates.
func (r *Ref) Port(name string) (Port, error) {
	p, err := r.cell.Port(name)
	if err != nil {
		return Port{}, fmt.Errorf("ref of %q: %w", r.cell.name, err)
	}
	return p.Translate(r.origin), nil
}

// Ports returns all ports of the referenced cell translated into parent
// coordinates, in the cell's insertion order.
func (r *Ref) Ports() []Port {
	ports := r.cell.Ports()
	for i := range ports {
		ports[i] = ports[i].Translate(r.origin)
	}
	return ports
}

// SelectPorts returns the translated ports matched by the selector, in
// the cell's insertion order.
func (r *Ref) SelectPorts(keep Selector) []Port {
	var out []Port
	for _, p := range r.Ports() {
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	return out
}

package layout

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidPortName is returned by [Ports.Add] when the port name is
	// empty. All ports must have non-empty names.
	ErrInvalidPortName = errors.New("port name must not be empty")

	// ErrDuplicatePort is returned by [Ports.Add] when a port with the
	// same name already exists. Port names are unique per component.
	ErrDuplicatePort = errors.New("duplicate port name")

	// ErrPortNotFound is returned by [Ports.Get] and [Ports.Remove] when
	// no port with the requested name exists.
	ErrPortNotFound = errors.New("port not found")
)

// Selector decides whether a port takes part in an operation. Selection is
// a pluggable predicate so callers can target ports by role without the
// model knowing about the operation.
type Selector func(Port) bool

// SelectElectrical keeps electrical-role ports. This is the default
// selection for pad breakout.
func SelectElectrical(p Port) bool { return p.Type == PortTypeElectrical }

// SelectOptical keeps optical-role ports.
func SelectOptical(p Port) bool { return p.Type == PortTypeOptical }

// SelectAll keeps every port.
func SelectAll(Port) bool { return true }

// SelectType returns a selector keeping ports of the given type.
func SelectType(t PortType) Selector {
	return func(p Port) bool { return p.Type == t }
}

// Ports is an insertion-ordered collection of uniquely named ports.
// Iteration order matters: pad indices and generated port names follow it.
// The zero value is not usable; create collections with [NewPorts].
type Ports struct {
	byName map[string]Port
	order  []string
}

// NewPorts creates an empty port collection.
func NewPorts() *Ports {
	return &Ports{byName: make(map[string]Port)}
}

// Add appends a port to the collection. Returns [ErrInvalidPortName] for
// an empty name or [ErrDuplicatePort] when the name is already taken.
func (ps *Ports) Add(p Port) error {
	if p.Name == "" {
		return ErrInvalidPortName
	}
	if _, exists := ps.byName[p.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePort, p.Name)
	}
	ps.byName[p.Name] = p
	ps.order = append(ps.order, p.Name)
	return nil
}

// Get returns the port with the given name.
func (ps *Ports) Get(name string) (Port, error) {
	p, ok := ps.byName[name]
	if !ok {
		return Port{}, fmt.Errorf("%w: %q", ErrPortNotFound, name)
	}
	return p, nil
}

// Has reports whether a port with the given name exists.
func (ps *Ports) Has(name string) bool {
	_, ok := ps.byName[name]
	return ok
}

// Remove deletes the port with the given name, preserving the relative
// order of the remaining ports.
func (ps *Ports) Remove(name string) error {
	if _, ok := ps.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrPortNotFound, name)
	}
	delete(ps.byName, name)
	ps.order = slices.DeleteFunc(ps.order, func(n string) bool { return n == name })
	return nil
}

// All returns copies of all ports in insertion order.
func (ps *Ports) All() []Port {
	out := make([]Port, 0, len(ps.order))
	for _, name := range ps.order {
		out = append(out, ps.byName[name])
	}
	return out
}

// Names returns the port names in insertion order.
func (ps *Ports) Names() []string {
	return slices.Clone(ps.order)
}

// Len returns the number of ports.
func (ps *Ports) Len() int { return len(ps.order) }

// Select returns the ports matched by the selector, in insertion order.
// A nil selector matches everything.
func (ps *Ports) Select(keep Selector) []Port {
	var out []Port
	for _, name := range ps.order {
		p := ps.byName[name]
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	return out
}

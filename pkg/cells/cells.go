// Package cells provides maskfab's stock parametric cells and the cell
// registry that resolves component specs.
//
// A cell builder returns a fresh component; the registry builds named
// cells once, locks them, and hands the same frozen instance to every
// caller, so locked cells can be referenced from many layouts at once.
// Operations accept a [Spec] wherever a component is needed: a registered
// name ("pad"), an already built component, or a builder function.
package cells

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/maskfab/maskfab/pkg/layer"
	"github.com/maskfab/maskfab/pkg/layout"
)

var (
	// ErrUnknownCell is returned by [Registry.Build] when no cell with
	// the requested name is registered.
	ErrUnknownCell = errors.New("unknown cell")

	// ErrDuplicateCell is returned by [Registry.Register] when the name
	// is already taken.
	ErrDuplicateCell = errors.New("cell already registered")

	// ErrInvalidSpec is returned by [Registry.Get] for spec values that
	// are neither a name, a component, nor a builder.
	ErrInvalidSpec = errors.New("invalid component spec")
)

// Spec identifies a component to operate on: a registered cell name, an
// already built *[layout.Component], or a [Builder] to invoke.
type Spec any

// Builder constructs a component. Builders must return a fresh component
// on every call; the registry handles locking and reuse.
type Builder func() (*layout.Component, error)

// Registry resolves cell names to locked, shared component instances.
// Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
	built    map[string]*layout.Component
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]Builder),
		built:    make(map[string]*layout.Component),
	}
}

// Register adds a named cell builder.
func (r *Registry) Register(name string, b Builder) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSpec)
	}
	if b == nil {
		return fmt.Errorf("%w: nil builder for %q", ErrInvalidSpec, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.builders[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateCell, name)
	}
	r.builders[name] = b
	return nil
}

// Has reports whether a cell with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered cell names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build returns the locked shared instance of a registered cell, building
// it on first use. Every call returns the same component.
func (r *Registry) Build(name string) (*layout.Component, error) {
	r.mu.RLock()
	if c, ok := r.built[name]; ok {
		r.mu.RUnlock()
		return c, nil
	}
	b, ok := r.builders[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCell, name)
	}

	// Build outside the lock: builders may resolve other cells.
	c, err := b()
	if err != nil {
		return nil, fmt.Errorf("build cell %q: %w", name, err)
	}
	c.Lock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.built[name]; ok {
		// Another goroutine built it first; keep one shared identity.
		return prev, nil
	}
	r.built[name] = c
	return c, nil
}

// Get resolves a component spec. Names go through [Registry.Build];
// components pass through unchanged; builders are invoked.
func (r *Registry) Get(spec Spec) (*layout.Component, error) {
	switch v := spec.(type) {
	case string:
		return r.Build(v)
	case *layout.Component:
		if v == nil {
			return nil, fmt.Errorf("%w: nil component", ErrInvalidSpec)
		}
		return v, nil
	case Builder:
		return v()
	case func() (*layout.Component, error):
		return v()
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrInvalidSpec)
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidSpec, spec)
}

var defaultRegistry = NewRegistry()

func init() {
	must(defaultRegistry.Register("wire", func() (*layout.Component, error) { return Wire() }))
	must(defaultRegistry.Register("pad", func() (*layout.Component, error) { return Pad() }))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Default returns the process-wide registry preloaded with the stock cells.
func Default() *Registry { return defaultRegistry }

// Register adds a named cell builder to the default registry.
func Register(name string, b Builder) error { return defaultRegistry.Register(name, b) }

// Names returns the cell names registered in the default registry.
func Names() []string { return defaultRegistry.Names() }

// Build builds a named cell from the default registry.
func Build(name string) (*layout.Component, error) { return defaultRegistry.Build(name) }

// Get resolves a component spec against the default registry.
func Get(spec Spec) (*layout.Component, error) { return defaultRegistry.Get(spec) }

// Option configures a stock cell builder. Builders start from their own
// defaults; unknown fields are ignored by builders that do not use them.
type Option func(*config)

type config struct {
	length float64
	width  float64
	height float64
	layer  layer.Layer
}

// WithLength sets the wire length.
func WithLength(v float64) Option { return func(c *config) { c.length = v } }

// WithWidth sets the wire width or the pad x-size.
func WithWidth(v float64) Option { return func(c *config) { c.width = v } }

// WithHeight sets the pad y-size.
func WithHeight(v float64) Option { return func(c *config) { c.height = v } }

// WithLayer sets the drawing layer.
func WithLayer(l layer.Layer) Option { return func(c *config) { c.layer = l } }

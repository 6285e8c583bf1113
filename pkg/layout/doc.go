// Package layout provides the component and port model for mask layouts.
//
// # Overview
//
// Maskfab builds chip mask layouts as a hierarchy of components. A
// [Component] owns named [Port] attachment points, drawn [Polygon] shapes,
// text [Label] annotations, and placed references ([Ref]) to other
// components. Routing operations compose existing cells into new composite
// components instead of mutating them.
//
// # Basic Usage
//
// Create a component with [NewComponent], populate it, and freeze it with
// [Component.Lock] before sharing:
//
//	c := layout.NewComponent("wire")
//	c.AddPolygon(metal, geom.NewBox(0, -5, 200, 5).Corners())
//	c.AddPort(layout.Port{
//		Name:        "e1",
//		Width:       10,
//		Orientation: layout.West,
//		Layer:       metal,
//		Type:        layout.PortTypeElectrical,
//	})
//	c.Lock()
//
// Place a locked component inside another with [Component.AddRef]; the
// returned [Ref] projects the child's ports into parent coordinates via
// [Ref.Port] and can be positioned with [Ref.SetCenter].
//
// # Ports and Orientation
//
// Ports face one of the four cardinal directions, modeled by the closed
// [Orientation] enum. Angles enter the system only through
// [OrientationFromDegrees], which rejects anything that is not a multiple
// of 90 with [ErrUnsupportedOrientation]. Routing code can therefore
// switch exhaustively over orientations without a silent fallthrough.
//
// Port insertion order is significant: selection helpers and routing
// operations process ports in the order they were added, which keeps
// generated pad names deterministic.
//
// # Locking
//
// Components are mutable while being built and permanently frozen by
// [Component.Lock]. Every mutator fails with [ErrLocked] afterwards.
// A locked component can safely be referenced by many parents and read
// from multiple goroutines.
//
// # Concurrency
//
// An unlocked Component is not safe for concurrent use. Locked components
// are read-only and freely shareable.
package layout

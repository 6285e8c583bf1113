// Package route places bond pads next to the electrical ports of a
// component and wires each port to its pad with a straight quad.
//
// # Overview
//
// [AddElectricalPads] is the main entry point. It wraps a source
// component, puts one pad per selected port at a fixed clearance along
// the port's facing direction, draws a quadrilateral connector from the
// port face to the pad pin facing back, and exposes each pad's center
// port under a deterministic name:
//
//	elec-<source-name>-<index>
//
// with 1-based indices in selection order. Ports that were routed are
// stripped from the output; every other source port is re-exposed
// unchanged, so the output has exactly as many ports as the source.
//
// # Basic Usage
//
//	out, err := route.AddElectricalPads("wire",
//		route.WithSpacing(75),
//		route.WithLayer("M3"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(out.PortNames()) // [elec-wire-1 elec-wire-2]
//
// # Orientation
//
// By default each port is broken out along its own facing direction, so
// a single call handles components whose electrical ports point every
// which way. [WithOrientation] forces one direction for all selected
// ports instead; [WithOrientationDegrees] does the same from a numeric
// angle and fails with [layout.ErrUnsupportedOrientation] for anything
// other than 0, 90, 180 or 270. There is no silent fallback: routing a
// direction the pad has no pin for is an error.
//
// # Cell Sharing
//
// The source and pad cells are locked before they are referenced from
// the output, and the finished output component is returned locked.
// Source geometry and ports are read, never modified.
package route

// Package pkg provides the core libraries for Maskfab mask generation.
//
// # Overview
//
// Maskfab terminates the open electrical ports of a chip layout with bond
// pads and exports the result as fabrication masks. The pkg directory is
// organized into four main areas:
//
//  1. Geometry and process ([geom], [layer], [layout]) - points, polygons,
//     ports, components, and the process layer stack
//  2. Cells and routing ([cells], [route]) - the cell registry and the pad
//     breakout that wires pads to ports
//  3. Export ([gds], [render]) - GDSII masks and visual previews
//  4. Orchestration ([pipeline], [cache], [observability]) - the cached
//     build/export pipeline used by CLI and API
//
// # Architecture
//
// The typical data flow through Maskfab:
//
//	Cell Registry
//	         ↓
//	    [cells] package (build the named component)
//	         ↓
//	    [route] package (attach pads to open electrical ports)
//	         ↓
//	    [layout] package (component + reference tree)
//	         ↓
//	    [gds] / [render] packages (marshal masks and previews)
//	         ↓
//	    GDS/SVG/JSON/DOT/PNG/PDF output
//
// # Quick Start
//
// Terminate a registered cell with pads and write the mask:
//
//	import (
//	    "github.com/maskfab/maskfab/pkg/gds"
//	    "github.com/maskfab/maskfab/pkg/route"
//	)
//
//	// 1. Break out every open electrical port
//	comp, _ := route.AddElectricalPads("wire",
//	    route.WithSpacing(75),
//	    route.WithLayer("M3"),
//	)
//
//	// 2. Write the GDSII mask
//	_ = gds.WriteFile(comp, "wire_pads.gds")
//
// # Main Packages
//
// ## Geometry and Process
//
// [geom] - Planar primitives: points, bounding boxes, and axis-aligned or
// free-form polygons with translation and area helpers.
//
// [layer] - The process layer stack. Maps symbolic names (M3, MTOP) to GDS
// layer/datatype pairs, loads alternate stacks from TOML tech files, and
// resolves the specs users type on the command line.
//
// [layout] - Components, references, and ports. A component owns polygons
// per layer plus placed references to child components; ports carry a
// center, width, orientation, and electrical or optical type. Locked
// components are immutable and safe to share between reference trees.
//
// ## Cells and Routing
//
// [cells] - The cell registry. Factories register under a name, builds are
// memoized, and built cells come back locked so every caller shares one
// instance.
//
// [route] - The pad breakout. [route.AddElectricalPads] wraps a source
// component, places one pad per selected electrical port at a fixed
// clearance, and wires each pair with a straight quad on the routing
// layer. Port selection, pad cell, spacing, orientation, and routing
// layer are all options.
//
// ## Export
//
// [gds] - GDSII writer. Marshals a component's reference tree into the
// binary stream format fabs consume, with optional port labels.
//
// [render] - Visual outputs. SVG mask previews colored by stack layer,
// Graphviz hierarchy diagrams, and PDF/PNG conversion via rsvg-convert.
//
// ## Orchestration
//
// [pipeline] - The build/export pipeline shared by CLI and API. A
// [pipeline.Runner] executes the two cached stages (build the terminated
// component, export the requested formats) and reports stats and cache
// hits per stage.
//
// [cache] - Content-addressed artifact cache with file, Redis, memory,
// and null backends plus the keyer that derives stable hashes from build
// inputs.
//
// [observability] - Process-wide hook points for pipeline, cache, and
// HTTP instrumentation. No-ops unless a binary installs collectors.
//
// [errors] - Coded errors shared across surfaces. Codes classify
// failures (invalid input, not found, build failed) so the API can map
// them to HTTP statuses and the CLI can print user messages.
//
// [buildinfo] - Version, commit, and build date stamped in at link time.
//
// # Common Workflows
//
// Build a registered cell without pads:
//
//	comp, _ := cells.Build("wire")
//
// Terminate only some ports, facing one way:
//
//	comp, _ := route.AddElectricalPads("wire",
//	    route.WithPortNames("e2"),
//	    route.WithOrientation(layout.East),
//	)
//
// Run the cached pipeline end to end:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
//	res, _ := runner.Execute(ctx, pipeline.Options{
//	    Cell:    "wire",
//	    Formats: []string{pipeline.FormatGDS, pipeline.FormatSVG},
//	})
//	fmt.Println(res.Stats.PadCount, res.CacheInfo.BuildHit)
//
// Load an alternate process stack:
//
//	stack, _ := layer.LoadStack("tech/sg13g2.toml")
//	comp, _ := route.AddElectricalPads("wire", route.WithStack(stack))
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/route/...      # Specific package
//	go test -run Example         # Examples only
//
// [geom]: https://pkg.go.dev/github.com/maskfab/maskfab/pkg/geom
// [layer]: https://pkg.go.dev/github.com/maskfab/maskfab/pkg/layer
// [layout]: https://pkg.go.dev/github.com/maskfab/maskfab/pkg/layout
// [cells]: https://pkg.go.dev/github.com/maskfab/maskfab/pkg/cells
// [route]: https://pkg.go.dev/github.com/maskfab/maskfab/pkg/route
// [gds]: https://pkg.go.dev/github.com/maskfab/maskfab/pkg/gds
// [render]: https://pkg.go.dev/github.com/maskfab/maskfab/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/maskfab/maskfab/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/maskfab/maskfab/pkg/cache
// [observability]: https://pkg.go.dev/github.com/maskfab/maskfab/pkg/observability
// [errors]: https://pkg.go.dev/github.com/maskfab/maskfab/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/maskfab/maskfab/pkg/buildinfo
package pkg

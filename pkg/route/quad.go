package route

import (
	"github.com/maskfab/maskfab/pkg/geom"
	"github.com/maskfab/maskfab/pkg/layout"
)

// Quad returns the four-vertex polygon spanning the faces of two ports.
// The polygon runs straight from one face to the other without detours,
// tapering when the faces differ in width. Both ports must already be in
// the same coordinate frame.
func Quad(a, b layout.Port) geom.Polygon {
	a1, a2 := a.Edge()
	b1, b2 := b.Edge()
	return geom.Polygon{a1, a2, b1, b2}
}

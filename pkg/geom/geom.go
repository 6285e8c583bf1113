// Package geom provides the planar geometry primitives used throughout maskfab.
//
// All coordinates are in layout user units (micrometers by convention).
// The package is deliberately small: mask layouts built here only need
// axis-aligned boxes, translated polygons, and the four cardinal directions,
// so there is no general transform stack.
package geom

import "math"

// Point is a 2D point with floating-point coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns the point scaled by a factor.
func (p Point) Scale(factor float64) Point {
	return Point{X: p.X * factor, Y: p.Y * factor}
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Box is an axis-aligned rectangle described by its lower-left and
// upper-right corners. The zero value is the empty box at the origin.
type Box struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// NewBox creates a box from two corner coordinates, normalizing the
// corner order so that Min <= Max on both axes.
func NewBox(x0, y0, x1, y1 float64) Box {
	return Box{
		Min: Point{X: math.Min(x0, x1), Y: math.Min(y0, y1)},
		Max: Point{X: math.Max(x0, x1), Y: math.Max(y0, y1)},
	}
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Empty reports whether the box has zero area.
func (b Box) Empty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Contains reports whether the point lies inside the box (inclusive).
func (b Box) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Union returns the smallest box containing both boxes.
// The union with a zero box returns the other box unchanged.
func (b Box) Union(o Box) Box {
	if b == (Box{}) {
		return o
	}
	if o == (Box{}) {
		return b
	}
	return Box{
		Min: Point{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y)},
	}
}

// Translate returns the box shifted by delta.
func (b Box) Translate(delta Point) Box {
	return Box{Min: b.Min.Add(delta), Max: b.Max.Add(delta)}
}

// Corners returns the four corners of the box in counter-clockwise order
// starting from Min.
func (b Box) Corners() Polygon {
	return Polygon{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Max.Y},
	}
}

// Polygon is an ordered list of vertices. The outline is implicitly closed:
// the last vertex connects back to the first.
type Polygon []Point

// Bounds returns the axis-aligned bounding box of the polygon.
// Returns the zero box for an empty polygon.
func (p Polygon) Bounds() Box {
	return BoundingBox(p)
}

// Translate returns a new polygon with every vertex shifted by delta.
func (p Polygon) Translate(delta Point) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = pt.Add(delta)
	}
	return out
}

// Centroid returns the average position of the polygon's vertices.
// Returns the zero point for an empty polygon.
func (p Polygon) Centroid() Point {
	if len(p) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, pt := range p {
		sx += pt.X
		sy += pt.Y
	}
	n := float64(len(p))
	return Point{X: sx / n, Y: sy / n}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
// Returns the zero box for an empty set.
func BoundingBox(points []Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		if p.X < b.Min.X {
			b.Min.X = p.X
		}
		if p.X > b.Max.X {
			b.Max.X = p.X
		}
		if p.Y < b.Min.Y {
			b.Min.Y = p.Y
		}
		if p.Y > b.Max.Y {
			b.Max.Y = p.Y
		}
	}
	return b
}

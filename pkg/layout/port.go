package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/maskfab/maskfab/pkg/geom"
	"github.com/maskfab/maskfab/pkg/layer"
)

// ErrUnsupportedOrientation is returned by [OrientationFromDegrees] when an
// angle is not one of the four cardinal directions. Ports and routing only
// support axis-aligned orientations.
var ErrUnsupportedOrientation = errors.New("unsupported orientation")

// Orientation is the cardinal direction a port faces, meaning its outward
// connection direction. It is a closed enum: arbitrary angles are rejected
// at the boundary by [OrientationFromDegrees] so that geometric code can
// dispatch exhaustively.
type Orientation uint8

const (
	// East faces +x (0 degrees).
	East Orientation = iota
	// North faces +y (90 degrees).
	North
	// West faces -x (180 degrees).
	West
	// South faces -y (270 degrees).
	South
)

// OrientationFromDegrees converts an angle in degrees to an Orientation.
// The angle is normalized into [0, 360); anything other than 0, 90, 180,
// or 270 fails with [ErrUnsupportedOrientation].
func OrientationFromDegrees(deg float64) (Orientation, error) {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	switch d {
	case 0:
		return East, nil
	case 90:
		return North, nil
	case 180:
		return West, nil
	case 270:
		return South, nil
	}
	return East, fmt.Errorf("%w: %v degrees (must be 0, 90, 180, or 270)", ErrUnsupportedOrientation, deg)
}

// Degrees returns the angle of the orientation in degrees.
func (o Orientation) Degrees() float64 {
	switch o {
	case North:
		return 90
	case West:
		return 180
	case South:
		return 270
	}
	return 0
}

// String returns the compass name of the orientation.
func (o Orientation) String() string {
	switch o {
	case North:
		return "north"
	case West:
		return "west"
	case South:
		return "south"
	}
	return "east"
}

// Vector returns the outward unit vector of the orientation.
func (o Orientation) Vector() geom.Point {
	switch o {
	case North:
		return geom.Pt(0, 1)
	case West:
		return geom.Pt(-1, 0)
	case South:
		return geom.Pt(0, -1)
	}
	return geom.Pt(1, 0)
}

// Normal returns the unit vector perpendicular to the orientation,
// rotated 90 degrees counter-clockwise from the facing direction.
// A port's face edge runs along this vector.
func (o Orientation) Normal() geom.Point {
	switch o {
	case North:
		return geom.Pt(-1, 0)
	case West:
		return geom.Pt(0, -1)
	case South:
		return geom.Pt(1, 0)
	}
	return geom.Pt(0, 1)
}

// Opposite returns the orientation facing the other way.
func (o Orientation) Opposite() Orientation {
	switch o {
	case East:
		return West
	case North:
		return South
	case West:
		return East
	}
	return North
}

// MarshalJSON encodes the orientation as its angle in degrees.
func (o Orientation) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Degrees())
}

// UnmarshalJSON decodes an angle in degrees, rejecting non-cardinal values.
func (o *Orientation) UnmarshalJSON(data []byte) error {
	var deg float64
	if err := json.Unmarshal(data, &deg); err != nil {
		return err
	}
	v, err := OrientationFromDegrees(deg)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// PortType classifies what a port carries.
type PortType string

const (
	// PortTypeElectrical marks DC/RF wiring ports, the ones pad breakout targets.
	PortTypeElectrical PortType = "electrical"
	// PortTypeOptical marks waveguide ports.
	PortTypeOptical PortType = "optical"
)

// Port is a named attachment point on a component: a position, a face
// width, the layer it connects on, and the cardinal direction it faces.
// Ports are value types; operations that reposition ports return copies.
type Port struct {
	Name        string      `json:"name"`
	Center      geom.Point  `json:"center"`
	Width       float64     `json:"width"`
	Orientation Orientation `json:"orientation"`
	Layer       layer.Layer `json:"layer"`
	Type        PortType    `json:"port_type"`
}

// Translate returns a copy of the port shifted by delta.
func (p Port) Translate(delta geom.Point) Port {
	p.Center = p.Center.Add(delta)
	return p
}

// Edge returns the two corners of the port's face, perpendicular to its
// orientation: first the corner at +width/2 along [Orientation.Normal],
// then the one at -width/2. Routing primitives span quads between the
// face edges of two ports.
func (p Port) Edge() (geom.Point, geom.Point) {
	half := p.Orientation.Normal().Scale(p.Width / 2)
	return p.Center.Add(half), p.Center.Sub(half)
}

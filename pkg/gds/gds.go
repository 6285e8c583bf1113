// Package gds writes layout components as GDSII stream files.
//
// # Format
//
// GDSII is the interchange format mask foundries consume: a flat stream
// of typed binary records describing a cell library. The writer emits
// one structure per unique cell in the component's reference tree,
// children before parents, with polygons as BOUNDARY elements, placed
// cells as SREF elements, and text annotations as TEXT elements.
// Coordinates are written in database units of 1 nanometer with a user
// unit of 1 micrometer, matching the layout model's micrometer
// coordinates.
//
// # Usage
//
//	out, _ := route.AddElectricalPads("wire")
//	if err := gds.WriteFile(out, "wire_pads.gds"); err != nil {
//		log.Fatal(err)
//	}
//
// Cell names must be unique: two different components sharing one name
// cannot live in the same library and fail [Marshal]. Output is
// deterministic except for the library timestamp; fix it with
// [WithTimestamp] when byte-stable output matters.
package gds

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/maskfab/maskfab/pkg/geom"
	"github.com/maskfab/maskfab/pkg/layer"
	"github.com/maskfab/maskfab/pkg/layout"
)

// DefaultLibName is the library name written when none is configured.
const DefaultLibName = "maskfab"

// maxVertices bounds polygon size: an XY record length is a uint16, which
// caps the closed outline at 8191 coordinate pairs.
const maxVertices = 8190

// Option configures the GDS writer.
type Option func(*writer)

type writer struct {
	lib        string
	ts         time.Time
	unit       float64
	precision  float64
	portLabels bool
}

// WithLibName sets the GDS library name.
func WithLibName(name string) Option { return func(w *writer) { w.lib = name } }

// WithTimestamp fixes the library and structure timestamps, making the
// output byte-stable.
func WithTimestamp(t time.Time) Option { return func(w *writer) { w.ts = t } }

// WithUnits sets the user unit and database precision, both in meters.
// The defaults are 1e-6 (micrometer coordinates) and 1e-9 (nanometer
// grid).
func WithUnits(unit, precision float64) Option {
	return func(w *writer) { w.unit, w.precision = unit, precision }
}

// WithPortLabels additionally writes one TEXT element per port, named
// after the port on the port's layer, so viewers show where to probe.
func WithPortLabels() Option { return func(w *writer) { w.portLabels = true } }

// Marshal encodes the component and its reference tree as a GDSII
// library.
func Marshal(c *layout.Component, opts ...Option) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("gds: nil component")
	}
	w := &writer{
		lib:       DefaultLibName,
		ts:        time.Now(),
		unit:      1e-6,
		precision: 1e-9,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.unit <= 0 || w.precision <= 0 || w.precision > w.unit {
		return nil, fmt.Errorf("gds: invalid units: unit %g, precision %g", w.unit, w.precision)
	}

	cellsInOrder, err := collectCells(c)
	if err != nil {
		return nil, err
	}

	r := &recorder{}
	ts := timestamps(w.ts)
	r.int16s(typeHeader, 600)
	r.int16s(typeBgnLib, ts...)
	r.ascii(typeLibName, w.lib)
	r.real8s(typeUnits, w.precision/w.unit, w.precision)
	for _, cell := range cellsInOrder {
		if err := w.writeCell(r, cell, ts); err != nil {
			return nil, err
		}
	}
	r.none(typeEndLib)
	return r.buf.Bytes(), nil
}

// Write encodes the component and writes the stream to w.
func Write(c *layout.Component, w io.Writer, opts ...Option) error {
	data, err := Marshal(c, opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write gds: %w", err)
	}
	return nil
}

// WriteFile encodes the component into a GDS file at path.
func WriteFile(c *layout.Component, path string, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(c, f, opts...)
}

// collectCells returns every unique cell in the reference tree, children
// before parents, failing on name collisions between distinct cells and
// on reference cycles.
func collectCells(root *layout.Component) ([]*layout.Component, error) {
	var order []*layout.Component
	byName := make(map[string]*layout.Component)
	visiting := make(map[*layout.Component]bool)

	var visit func(c *layout.Component) error
	visit = func(c *layout.Component) error {
		if prev, ok := byName[c.Name()]; ok {
			if prev != c {
				return fmt.Errorf("gds: duplicate cell name %q refers to different components", c.Name())
			}
			return nil
		}
		if visiting[c] {
			return fmt.Errorf("gds: reference cycle involving cell %q", c.Name())
		}
		visiting[c] = true
		for _, ref := range c.Refs() {
			if err := visit(ref.Cell()); err != nil {
				return err
			}
		}
		delete(visiting, c)
		byName[c.Name()] = c
		order = append(order, c)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

func (w *writer) writeCell(r *recorder, c *layout.Component, ts []int16) error {
	r.int16s(typeBgnStr, ts...)
	r.ascii(typeStrName, c.Name())

	for _, poly := range c.Polygons() {
		if len(poly.Outline) > maxVertices {
			return fmt.Errorf("gds: polygon in cell %q has %d vertices, limit %d", c.Name(), len(poly.Outline), maxVertices)
		}
		r.none(typeBoundary)
		r.int16s(typeLayer, int16(poly.Layer.Number))
		r.int16s(typeDatatype, int16(poly.Layer.Datatype))
		// BOUNDARY outlines are explicitly closed.
		xy := make([]int32, 0, 2*(len(poly.Outline)+1))
		for _, pt := range poly.Outline {
			xy = append(xy, w.dbUnits(pt.X), w.dbUnits(pt.Y))
		}
		xy = append(xy, w.dbUnits(poly.Outline[0].X), w.dbUnits(poly.Outline[0].Y))
		r.int32s(typeXY, xy...)
		r.none(typeEndEl)
	}

	for _, ref := range c.Refs() {
		r.none(typeSRef)
		r.ascii(typeSName, ref.Cell().Name())
		r.int32s(typeXY, w.dbUnits(ref.Origin().X), w.dbUnits(ref.Origin().Y))
		r.none(typeEndEl)
	}

	for _, lbl := range c.Labels() {
		w.writeText(r, lbl.Text, lbl.Origin, lbl.Layer)
	}
	if w.portLabels {
		for _, p := range c.Ports() {
			w.writeText(r, p.Name, p.Center, p.Layer)
		}
	}

	r.none(typeEndStr)
	return nil
}

func (w *writer) writeText(r *recorder, text string, at geom.Point, l layer.Layer) {
	r.none(typeText)
	r.int16s(typeLayer, int16(l.Number))
	r.int16s(typeTextType, int16(l.Datatype))
	r.int32s(typeXY, w.dbUnits(at.X), w.dbUnits(at.Y))
	r.ascii(typeString, text)
	r.none(typeEndEl)
}

// dbUnits converts a user-unit coordinate to integer database units.
func (w *writer) dbUnits(v float64) int32 {
	return int32(math.Round(v * w.unit / w.precision))
}

// timestamps returns BGNLIB/BGNSTR payload values: modification and
// access time as year, month, day, hour, minute, second.
func timestamps(t time.Time) []int16 {
	t = t.UTC()
	stamp := []int16{
		int16(t.Year()), int16(t.Month()), int16(t.Day()),
		int16(t.Hour()), int16(t.Minute()), int16(t.Second()),
	}
	return append(stamp, stamp...)
}

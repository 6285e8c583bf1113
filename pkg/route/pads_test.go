package route

import (
	"errors"
	"slices"
	"testing"

	"github.com/maskfab/maskfab/pkg/cells"
	"github.com/maskfab/maskfab/pkg/geom"
	"github.com/maskfab/maskfab/pkg/layer"
	"github.com/maskfab/maskfab/pkg/layout"
)

// buildDUT returns an unlocked component with two electrical ports facing
// different directions and one optical port.
func buildDUT(t *testing.T) *layout.Component {
	t.Helper()
	c := layout.NewComponent("dut")
	ports := []layout.Port{
		{Name: "vdd", Center: geom.Pt(20, 0), Width: 5, Orientation: layout.East, Type: layout.PortTypeElectrical},
		{Name: "gnd", Center: geom.Pt(10, 20), Width: 5, Orientation: layout.North, Type: layout.PortTypeElectrical},
		{Name: "out", Center: geom.Pt(0, 10), Width: 0.5, Orientation: layout.West, Type: layout.PortTypeOptical},
	}
	for _, p := range ports {
		if err := c.AddPort(p); err != nil {
			t.Fatalf("AddPort(%q) error = %v", p.Name, err)
		}
	}
	return c
}

func portCenter(t *testing.T, c *layout.Component, name string) geom.Point {
	t.Helper()
	p, err := c.Port(name)
	if err != nil {
		t.Fatalf("Port(%q) error = %v", name, err)
	}
	return p.Center
}

func TestAddElectricalPadsDefaults(t *testing.T) {
	out, err := AddElectricalPads("wire")
	if err != nil {
		t.Fatalf("AddElectricalPads() error = %v", err)
	}

	if out.Name() != "wire_pads" {
		t.Errorf("Name() = %q, want %q", out.Name(), "wire_pads")
	}
	if !out.Locked() {
		t.Error("output component is not locked")
	}

	wantNames := []string{"elec-wire-1", "elec-wire-2"}
	if got := out.PortNames(); !slices.Equal(got, wantNames) {
		t.Errorf("PortNames() = %v, want %v", got, wantNames)
	}

	// Default pad is 100 wide, so center clearance is 50 + 100/2.
	if got := portCenter(t, out, "elec-wire-1"); got != geom.Pt(-100, 0) {
		t.Errorf("elec-wire-1 center = %v, want %v", got, geom.Pt(-100, 0))
	}
	if got := portCenter(t, out, "elec-wire-2"); got != geom.Pt(300, 0) {
		t.Errorf("elec-wire-2 center = %v, want %v", got, geom.Pt(300, 0))
	}

	p, err := out.Port("elec-wire-1")
	if err != nil {
		t.Fatalf("Port(elec-wire-1) error = %v", err)
	}
	if p.Type != layout.PortTypeElectrical {
		t.Errorf("elec-wire-1 type = %q, want %q", p.Type, layout.PortTypeElectrical)
	}

	if got := len(out.Refs()); got != 3 {
		t.Errorf("len(Refs()) = %d, want 3 (source + 2 pads)", got)
	}
	polys := out.Polygons()
	if len(polys) != 2 {
		t.Fatalf("len(Polygons()) = %d, want 2 connectors", len(polys))
	}
	routing := layer.Layer{Number: 49, Datatype: 0}
	for i, poly := range polys {
		if poly.Layer != routing {
			t.Errorf("Polygons()[%d].Layer = %v, want %v", i, poly.Layer, routing)
		}
		if len(poly.Outline) != 4 {
			t.Errorf("Polygons()[%d] has %d vertices, want 4", i, len(poly.Outline))
		}
	}

	if got, ok := out.Info().Float("length"); !ok || got != 200 {
		t.Errorf(`Info().Float("length") = %v, %v, want 200, true (propagated from wire)`, got, ok)
	}
}

func TestAddElectricalPadsShortestScenario(t *testing.T) {
	pad, err := cells.Pad(cells.WithWidth(20), cells.WithHeight(20))
	if err != nil {
		t.Fatalf("Pad() error = %v", err)
	}

	out, err := AddElectricalPads("wire", WithPad(pad), WithSpacing(50))
	if err != nil {
		t.Fatalf("AddElectricalPads() error = %v", err)
	}

	// Half-extent 10 plus spacing 50 puts pad centers 60 out from each port.
	if got := portCenter(t, out, "elec-wire-1"); got != geom.Pt(-60, 0) {
		t.Errorf("elec-wire-1 center = %v, want %v", got, geom.Pt(-60, 0))
	}
	if got := portCenter(t, out, "elec-wire-2"); got != geom.Pt(260, 0) {
		t.Errorf("elec-wire-2 center = %v, want %v", got, geom.Pt(260, 0))
	}
	if out.HasPort("e1") || out.HasPort("e2") {
		t.Errorf("routed ports still exposed: %v", out.PortNames())
	}

	polys := out.Polygons()
	if len(polys) != 2 {
		t.Fatalf("len(Polygons()) = %d, want 2", len(polys))
	}
	wantQuad := geom.Polygon{
		geom.Pt(0, -5),
		geom.Pt(0, 5),
		geom.Pt(-50, 10),
		geom.Pt(-50, -10),
	}
	for i, v := range wantQuad {
		if polys[0].Outline[i] != v {
			t.Errorf("connector vertex %d = %v, want %v", i, polys[0].Outline[i], v)
		}
	}
}

func TestAddElectricalPadsPortSetComplete(t *testing.T) {
	dut := buildDUT(t)
	out, err := AddElectricalPads(dut)
	if err != nil {
		t.Fatalf("AddElectricalPads() error = %v", err)
	}

	want := []string{"elec-dut-1", "elec-dut-2", "out"}
	if got := out.PortNames(); !slices.Equal(got, want) {
		t.Errorf("PortNames() = %v, want %v", got, want)
	}
	if got := out.PortCount(); got != dut.PortCount() {
		t.Errorf("PortCount() = %d, want %d (same as source)", got, dut.PortCount())
	}

	// Per-port breakout: vdd faces east, gnd faces north.
	if got := portCenter(t, out, "elec-dut-1"); got != geom.Pt(120, 0) {
		t.Errorf("elec-dut-1 center = %v, want %v", got, geom.Pt(120, 0))
	}
	if got := portCenter(t, out, "elec-dut-2"); got != geom.Pt(10, 120) {
		t.Errorf("elec-dut-2 center = %v, want %v", got, geom.Pt(10, 120))
	}

	// The optical port passes through untouched.
	outPort, err := out.Port("out")
	if err != nil {
		t.Fatalf("Port(out) error = %v", err)
	}
	if outPort.Center != geom.Pt(0, 10) || outPort.Type != layout.PortTypeOptical {
		t.Errorf("out port = %+v, want unchanged optical port at (0,10)", outPort)
	}
}

func TestAddElectricalPadsExplicitNames(t *testing.T) {
	out, err := AddElectricalPads("wire", WithPortNames("e2"))
	if err != nil {
		t.Fatalf("AddElectricalPads() error = %v", err)
	}

	want := []string{"elec-wire-1", "e1"}
	if got := out.PortNames(); !slices.Equal(got, want) {
		t.Errorf("PortNames() = %v, want %v", got, want)
	}
	if got := portCenter(t, out, "elec-wire-1"); got != geom.Pt(300, 0) {
		t.Errorf("elec-wire-1 center = %v, want %v", got, geom.Pt(300, 0))
	}
}

func TestAddElectricalPadsNameLookupFails(t *testing.T) {
	out, err := AddElectricalPads("wire", WithPortNames("e1", "bogus"))
	if !errors.Is(err, layout.ErrPortNotFound) {
		t.Errorf("AddElectricalPads() error = %v, want ErrPortNotFound", err)
	}
	if out != nil {
		t.Error("AddElectricalPads() returned a component alongside the error")
	}
}

func TestAddElectricalPadsRejectsOddAngle(t *testing.T) {
	for _, deg := range []float64{45, 30.5, 91} {
		out, err := AddElectricalPads("wire", WithOrientationDegrees(deg))
		if !errors.Is(err, layout.ErrUnsupportedOrientation) {
			t.Errorf("AddElectricalPads(deg=%v) error = %v, want ErrUnsupportedOrientation", deg, err)
		}
		if out != nil {
			t.Errorf("AddElectricalPads(deg=%v) returned a component alongside the error", deg)
		}
	}
}

func TestAddElectricalPadsNormalizesDegrees(t *testing.T) {
	// -90 wraps to 270 and routes south.
	out, err := AddElectricalPads("wire", WithOrientationDegrees(-90))
	if err != nil {
		t.Fatalf("AddElectricalPads() error = %v", err)
	}
	if got := portCenter(t, out, "elec-wire-1"); got != geom.Pt(0, -100) {
		t.Errorf("elec-wire-1 center = %v, want %v", got, geom.Pt(0, -100))
	}
}

func TestAddElectricalPadsGlobalOrientation(t *testing.T) {
	out, err := AddElectricalPads("wire", WithOrientation(layout.North))
	if err != nil {
		t.Fatalf("AddElectricalPads() error = %v", err)
	}
	if got := portCenter(t, out, "elec-wire-1"); got != geom.Pt(0, 100) {
		t.Errorf("elec-wire-1 center = %v, want %v", got, geom.Pt(0, 100))
	}
	if got := portCenter(t, out, "elec-wire-2"); got != geom.Pt(200, 100) {
		t.Errorf("elec-wire-2 center = %v, want %v", got, geom.Pt(200, 100))
	}
}

func TestAddElectricalPadsLeavesSourceIntact(t *testing.T) {
	dut := buildDUT(t)
	before := dut.Ports()

	if _, err := AddElectricalPads(dut); err != nil {
		t.Fatalf("AddElectricalPads() error = %v", err)
	}

	after := dut.Ports()
	if !slices.Equal(before, after) {
		t.Errorf("source ports changed: before %v, after %v", before, after)
	}
	if got := len(dut.Polygons()); got != 0 {
		t.Errorf("source gained %d polygons", got)
	}
	if !dut.Locked() {
		t.Error("source should be locked once it is referenced by the output")
	}
}

func TestAddElectricalPadsNamesNeverCollide(t *testing.T) {
	first, err := AddElectricalPads("wire", WithPortNames("e1"))
	if err != nil {
		t.Fatalf("first AddElectricalPads() error = %v", err)
	}
	second, err := AddElectricalPads(first, WithPortNames("e2"))
	if err != nil {
		t.Fatalf("second AddElectricalPads() error = %v", err)
	}

	want := []string{"elec-wire_pads-1", "elec-wire-1"}
	if got := second.PortNames(); !slices.Equal(got, want) {
		t.Errorf("PortNames() = %v, want %v", got, want)
	}
	if second.HasPort("e2") {
		t.Error("routed port e2 still exposed on second output")
	}
	if got := portCenter(t, second, "elec-wire_pads-1"); got != geom.Pt(300, 0) {
		t.Errorf("elec-wire_pads-1 center = %v, want %v", got, geom.Pt(300, 0))
	}
}

func TestAddElectricalPadsSelectorOverride(t *testing.T) {
	dut := buildDUT(t)
	out, err := AddElectricalPads(dut, WithSelect(layout.SelectOptical))
	if err != nil {
		t.Fatalf("AddElectricalPads() error = %v", err)
	}

	want := []string{"elec-dut-1", "vdd", "gnd"}
	if got := out.PortNames(); !slices.Equal(got, want) {
		t.Errorf("PortNames() = %v, want %v", got, want)
	}
	if got := portCenter(t, out, "elec-dut-1"); got != geom.Pt(-100, 10) {
		t.Errorf("elec-dut-1 center = %v, want %v", got, geom.Pt(-100, 10))
	}
}

func TestAddElectricalPadsEmptySelection(t *testing.T) {
	c := layout.NewComponent("passive")
	if err := c.AddPort(layout.Port{Name: "o1", Center: geom.Pt(0, 0), Width: 0.5, Orientation: layout.West, Type: layout.PortTypeOptical}); err != nil {
		t.Fatalf("AddPort() error = %v", err)
	}

	out, err := AddElectricalPads(c)
	if err != nil {
		t.Fatalf("AddElectricalPads() error = %v", err)
	}
	if got := out.PortNames(); !slices.Equal(got, []string{"o1"}) {
		t.Errorf("PortNames() = %v, want [o1]", got)
	}
	if got := len(out.Polygons()); got != 0 {
		t.Errorf("len(Polygons()) = %d, want 0", got)
	}
	if got := len(out.Refs()); got != 1 {
		t.Errorf("len(Refs()) = %d, want 1", got)
	}
}

func TestAddElectricalPadsRouteLayer(t *testing.T) {
	tests := []struct {
		spec string
		want layer.Layer
	}{
		{"M1", layer.Layer{Number: 41, Datatype: 0}},
		{"7/2", layer.Layer{Number: 7, Datatype: 2}},
	}
	for _, tt := range tests {
		out, err := AddElectricalPads("wire", WithLayer(tt.spec))
		if err != nil {
			t.Fatalf("AddElectricalPads(layer=%q) error = %v", tt.spec, err)
		}
		for i, poly := range out.Polygons() {
			if poly.Layer != tt.want {
				t.Errorf("layer %q: Polygons()[%d].Layer = %v, want %v", tt.spec, i, poly.Layer, tt.want)
			}
		}
	}

	if _, err := AddElectricalPads("wire", WithLayer("nope")); !errors.Is(err, layer.ErrUnknownLayer) {
		t.Errorf("AddElectricalPads(layer=nope) error = %v, want ErrUnknownLayer", err)
	}
}

func TestAddElectricalPadsPadExtentFromBounds(t *testing.T) {
	// A pad cell without xsize info falls back to its bounding box.
	bare := layout.NewComponent("barepad")
	outline := geom.Polygon{geom.Pt(-15, -15), geom.Pt(15, -15), geom.Pt(15, 15), geom.Pt(-15, 15)}
	if err := bare.AddPolygon(cells.MetalTop, outline); err != nil {
		t.Fatalf("AddPolygon() error = %v", err)
	}
	for _, p := range []layout.Port{
		{Name: "e3", Center: geom.Pt(15, 0), Width: 30, Orientation: layout.East, Type: layout.PortTypeElectrical},
		{Name: "pad", Center: geom.Pt(0, 0), Width: 30, Orientation: layout.East, Type: layout.PortTypeElectrical},
	} {
		if err := bare.AddPort(p); err != nil {
			t.Fatalf("AddPort(%q) error = %v", p.Name, err)
		}
	}

	out, err := AddElectricalPads("wire", WithPad(bare), WithPortNames("e1"))
	if err != nil {
		t.Fatalf("AddElectricalPads() error = %v", err)
	}
	if got := portCenter(t, out, "elec-wire-1"); got != geom.Pt(-65, 0) {
		t.Errorf("elec-wire-1 center = %v, want %v", got, geom.Pt(-65, 0))
	}
}

func TestAddElectricalPadsMissingPinFails(t *testing.T) {
	// This pad only carries an east pin, so routing a north-facing
	// breakout needs the missing e4 pin and must fail.
	lopsided := layout.NewComponent("lopsided")
	if err := lopsided.AddPort(layout.Port{Name: "e3", Center: geom.Pt(10, 0), Width: 20, Orientation: layout.East, Type: layout.PortTypeElectrical}); err != nil {
		t.Fatalf("AddPort() error = %v", err)
	}

	_, err := AddElectricalPads("wire", WithPad(lopsided), WithOrientation(layout.North))
	if !errors.Is(err, layout.ErrPortNotFound) {
		t.Errorf("AddElectricalPads() error = %v, want ErrPortNotFound", err)
	}
}

func TestAddElectricalPadsCustomRegistry(t *testing.T) {
	reg := cells.NewRegistry()
	if err := reg.Register("wire", func() (*layout.Component, error) { return cells.Wire() }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register("minipad", func() (*layout.Component, error) {
		return cells.Pad(cells.WithWidth(20), cells.WithHeight(20))
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	out, err := AddElectricalPads("wire", WithRegistry(reg), WithPad("minipad"))
	if err != nil {
		t.Fatalf("AddElectricalPads() error = %v", err)
	}
	if got := portCenter(t, out, "elec-wire-1"); got != geom.Pt(-60, 0) {
		t.Errorf("elec-wire-1 center = %v, want %v", got, geom.Pt(-60, 0))
	}
}

func TestAddElectricalPadsUnknownSpec(t *testing.T) {
	if _, err := AddElectricalPads("no-such-cell"); !errors.Is(err, cells.ErrUnknownCell) {
		t.Errorf("AddElectricalPads() error = %v, want ErrUnknownCell", err)
	}
}

func TestAddElectricalPadsNilSpecDefaultsToWire(t *testing.T) {
	out, err := AddElectricalPads(nil)
	if err != nil {
		t.Fatalf("AddElectricalPads(nil) error = %v", err)
	}
	if out.Name() != "wire_pads" {
		t.Errorf("Name() = %q, want %q", out.Name(), "wire_pads")
	}
}

func TestAddElectricalPadsCustomName(t *testing.T) {
	out, err := AddElectricalPads("wire", WithName("probe_array"))
	if err != nil {
		t.Fatalf("AddElectricalPads() error = %v", err)
	}
	if out.Name() != "probe_array" {
		t.Errorf("Name() = %q, want %q", out.Name(), "probe_array")
	}
	// The exposed port names derive from the source, not the output name.
	if !out.HasPort("elec-wire-1") {
		t.Errorf("PortNames() = %v, missing elec-wire-1", out.PortNames())
	}
}

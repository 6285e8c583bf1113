package cells

import (
	"errors"
	"testing"

	"github.com/maskfab/maskfab/pkg/geom"
	"github.com/maskfab/maskfab/pkg/layout"
)

func TestWireDefaults(t *testing.T) {
	c, err := Wire()
	if err != nil {
		t.Fatalf("Wire() error = %v", err)
	}
	if c.Name() != "wire" {
		t.Errorf("Name() = %q, want %q", c.Name(), "wire")
	}
	if got := c.PortCount(); got != 2 {
		t.Fatalf("PortCount() = %d, want 2", got)
	}

	tests := []struct {
		name        string
		center      geom.Point
		orientation layout.Orientation
	}{
		{"e1", geom.Pt(0, 0), layout.West},
		{"e2", geom.Pt(200, 0), layout.East},
	}
	for _, tt := range tests {
		p, err := c.Port(tt.name)
		if err != nil {
			t.Fatalf("Port(%q) error = %v", tt.name, err)
		}
		if p.Center != tt.center {
			t.Errorf("Port(%q).Center = %v, want %v", tt.name, p.Center, tt.center)
		}
		if p.Orientation != tt.orientation {
			t.Errorf("Port(%q).Orientation = %v, want %v", tt.name, p.Orientation, tt.orientation)
		}
		if p.Width != 10 {
			t.Errorf("Port(%q).Width = %v, want 10", tt.name, p.Width)
		}
		if p.Type != layout.PortTypeElectrical {
			t.Errorf("Port(%q).Type = %q, want %q", tt.name, p.Type, layout.PortTypeElectrical)
		}
	}

	bounds := c.Bounds()
	want := geom.NewBox(0, -5, 200, 5)
	if bounds != want {
		t.Errorf("Bounds() = %v, want %v", bounds, want)
	}
	if got, ok := c.Info().Float("xsize"); !ok || got != 200 {
		t.Errorf(`Info().Float("xsize") = %v, %v, want 200, true`, got, ok)
	}
}

func TestWireOptions(t *testing.T) {
	c, err := Wire(WithLength(350), WithWidth(4))
	if err != nil {
		t.Fatalf("Wire() error = %v", err)
	}
	if c.Name() != "wire_l350_w4" {
		t.Errorf("Name() = %q, want %q", c.Name(), "wire_l350_w4")
	}
	e2, err := c.Port("e2")
	if err != nil {
		t.Fatalf("Port(e2) error = %v", err)
	}
	if e2.Center != geom.Pt(350, 0) {
		t.Errorf("e2.Center = %v, want %v", e2.Center, geom.Pt(350, 0))
	}
	if e2.Width != 4 {
		t.Errorf("e2.Width = %v, want 4", e2.Width)
	}
}

func TestWireRejectsBadDimensions(t *testing.T) {
	if _, err := Wire(WithLength(0)); err == nil {
		t.Error("Wire(WithLength(0)) error = nil, want error")
	}
	if _, err := Wire(WithWidth(-1)); err == nil {
		t.Error("Wire(WithWidth(-1)) error = nil, want error")
	}
}

func TestPadDefaults(t *testing.T) {
	c, err := Pad()
	if err != nil {
		t.Fatalf("Pad() error = %v", err)
	}
	if c.Name() != "pad" {
		t.Errorf("Name() = %q, want %q", c.Name(), "pad")
	}

	tests := []struct {
		name        string
		center      geom.Point
		width       float64
		orientation layout.Orientation
	}{
		{"e1", geom.Pt(-50, 0), 100, layout.West},
		{"e2", geom.Pt(0, 50), 100, layout.North},
		{"e3", geom.Pt(50, 0), 100, layout.East},
		{"e4", geom.Pt(0, -50), 100, layout.South},
		{"pad", geom.Pt(0, 0), 100, layout.East},
	}
	if got := c.PortCount(); got != len(tests) {
		t.Fatalf("PortCount() = %d, want %d", got, len(tests))
	}
	for _, tt := range tests {
		p, err := c.Port(tt.name)
		if err != nil {
			t.Fatalf("Port(%q) error = %v", tt.name, err)
		}
		if p.Center != tt.center {
			t.Errorf("Port(%q).Center = %v, want %v", tt.name, p.Center, tt.center)
		}
		if p.Width != tt.width {
			t.Errorf("Port(%q).Width = %v, want %v", tt.name, p.Width, tt.width)
		}
		if p.Orientation != tt.orientation {
			t.Errorf("Port(%q).Orientation = %v, want %v", tt.name, p.Orientation, tt.orientation)
		}
	}

	if got, ok := c.Info().Float("xsize"); !ok || got != 100 {
		t.Errorf(`Info().Float("xsize") = %v, %v, want 100, true`, got, ok)
	}
	if got, ok := c.Info().Float("ysize"); !ok || got != 100 {
		t.Errorf(`Info().Float("ysize") = %v, %v, want 100, true`, got, ok)
	}
}

func TestPadOptions(t *testing.T) {
	c, err := Pad(WithWidth(120), WithHeight(80))
	if err != nil {
		t.Fatalf("Pad() error = %v", err)
	}
	if c.Name() != "pad_120x80" {
		t.Errorf("Name() = %q, want %q", c.Name(), "pad_120x80")
	}
	e1, err := c.Port("e1")
	if err != nil {
		t.Fatalf("Port(e1) error = %v", err)
	}
	if e1.Center != geom.Pt(-60, 0) {
		t.Errorf("e1.Center = %v, want %v", e1.Center, geom.Pt(-60, 0))
	}
	if e1.Width != 80 {
		t.Errorf("e1.Width = %v, want 80", e1.Width)
	}
	e2, err := c.Port("e2")
	if err != nil {
		t.Fatalf("Port(e2) error = %v", err)
	}
	if e2.Center != geom.Pt(0, 40) {
		t.Errorf("e2.Center = %v, want %v", e2.Center, geom.Pt(0, 40))
	}
	if e2.Width != 120 {
		t.Errorf("e2.Width = %v, want 120", e2.Width)
	}
}

func TestRegistryBuildCaches(t *testing.T) {
	r := NewRegistry()
	calls := 0
	if err := r.Register("w", func() (*layout.Component, error) {
		calls++
		return Wire()
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	first, err := r.Build("w")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, err := r.Build("w")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if first != second {
		t.Error("Build() returned different instances for the same cell")
	}
	if calls != 1 {
		t.Errorf("builder called %d times, want 1", calls)
	}
	if !first.Locked() {
		t.Error("Build() returned an unlocked component")
	}
}

func TestRegistryBuildUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Build("nope"); !errors.Is(err, ErrUnknownCell) {
		t.Errorf("Build(nope) error = %v, want ErrUnknownCell", err)
	}
}

func TestRegistryRegisterRejects(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("", func() (*layout.Component, error) { return Wire() }); err == nil {
		t.Error("Register with empty name: error = nil, want error")
	}
	if err := r.Register("w", nil); err == nil {
		t.Error("Register with nil builder: error = nil, want error")
	}
	if err := r.Register("w", func() (*layout.Component, error) { return Wire() }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("w", func() (*layout.Component, error) { return Wire() }); !errors.Is(err, ErrDuplicateCell) {
		t.Errorf("Register duplicate error = %v, want ErrDuplicateCell", err)
	}
}

func TestRegistryGetSpecKinds(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("w", func() (*layout.Component, error) { return Wire() }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	byName, err := r.Get("w")
	if err != nil {
		t.Fatalf("Get(name) error = %v", err)
	}
	if byName.Name() != "wire" {
		t.Errorf("Get(name).Name() = %q, want %q", byName.Name(), "wire")
	}

	direct := layout.NewComponent("mine")
	got, err := r.Get(direct)
	if err != nil {
		t.Fatalf("Get(component) error = %v", err)
	}
	if got != direct {
		t.Error("Get(component) did not return the component unchanged")
	}

	fromBuilder, err := r.Get(Builder(func() (*layout.Component, error) { return Pad() }))
	if err != nil {
		t.Fatalf("Get(Builder) error = %v", err)
	}
	if fromBuilder.Name() != "pad" {
		t.Errorf("Get(Builder).Name() = %q, want %q", fromBuilder.Name(), "pad")
	}

	fromFunc, err := r.Get(func() (*layout.Component, error) { return Pad() })
	if err != nil {
		t.Fatalf("Get(func) error = %v", err)
	}
	if fromFunc.Name() != "pad" {
		t.Errorf("Get(func).Name() = %q, want %q", fromFunc.Name(), "pad")
	}

	if _, err := r.Get(nil); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("Get(nil) error = %v, want ErrInvalidSpec", err)
	}
	if _, err := r.Get(42); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("Get(42) error = %v, want ErrInvalidSpec", err)
	}
}

func TestDefaultRegistryStockCells(t *testing.T) {
	names := Names()
	for _, want := range []string{"pad", "wire"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Names() = %v, missing %q", names, want)
		}
	}
}

package layout

import (
	"errors"
	"testing"

	"github.com/maskfab/maskfab/pkg/geom"
	"github.com/maskfab/maskfab/pkg/layer"
)

var testMetal = layer.Layer{Number: 49}

func newSquareCell(t *testing.T, name string, size float64) *Component {
	t.Helper()
	c := NewComponent(name)
	h := size / 2
	if err := c.AddPolygon(testMetal, geom.NewBox(-h, -h, h, h).Corners()); err != nil {
		t.Fatalf("AddPolygon() error = %v", err)
	}
	return c
}

func TestNewComponent(t *testing.T) {
	c := NewComponent("wire")
	if c.Name() != "wire" {
		t.Errorf("Name() = %q, want wire", c.Name())
	}
	if c.Locked() {
		t.Error("new component is locked")
	}
	if c.ID() == (NewComponent("other")).ID() {
		t.Error("two components share an ID")
	}

	anon := NewComponent("")
	if anon.Name() == "" {
		t.Error("unnamed component got empty name")
	}
}

func TestComponentLocking(t *testing.T) {
	c := newSquareCell(t, "pad", 100)
	child := newSquareCell(t, "via", 2)
	child.Lock()
	c.Lock()

	if !c.Locked() {
		t.Fatal("Locked() = false after Lock()")
	}

	tests := []struct {
		name string
		call func() error
	}{
		{"AddPort", func() error { return c.AddPort(Port{Name: "e9"}) }},
		{"RemovePort", func() error { return c.RemovePort("e9") }},
		{"AddPolygon", func() error { return c.AddPolygon(testMetal, geom.NewBox(0, 0, 1, 1).Corners()) }},
		{"AddLabel", func() error { return c.AddLabel("x", geom.Pt(0, 0), testMetal) }},
		{"SetInfo", func() error { return c.SetInfo("k", 1) }},
		{"CopyChildInfo", func() error { return c.CopyChildInfo(child) }},
		{"AddRef", func() error { _, err := c.AddRef(child, geom.Pt(0, 0)); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrLocked) {
				t.Errorf("%s on locked component error = %v, want ErrLocked", tt.name, err)
			}
		})
	}
}

func TestComponentRefGuards(t *testing.T) {
	c := NewComponent("top")
	if _, err := c.AddRef(nil, geom.Pt(0, 0)); !errors.Is(err, ErrNilCell) {
		t.Errorf("AddRef(nil) error = %v, want ErrNilCell", err)
	}
	if _, err := c.AddRef(c, geom.Pt(0, 0)); err == nil {
		t.Error("AddRef(self) error = nil, want error")
	}
}

func TestRefPortProjection(t *testing.T) {
	cell := newSquareCell(t, "pad", 100)
	if err := cell.AddPort(Port{Name: "e1", Center: geom.Pt(-50, 0), Width: 100, Orientation: West, Type: PortTypeElectrical}); err != nil {
		t.Fatalf("AddPort() error = %v", err)
	}
	cell.Lock()

	top := NewComponent("top")
	ref, err := top.AddRef(cell, geom.Pt(200, 30))
	if err != nil {
		t.Fatalf("AddRef() error = %v", err)
	}

	p, err := ref.Port("e1")
	if err != nil {
		t.Fatalf("Port(e1) error = %v", err)
	}
	if p.Center != geom.Pt(150, 30) {
		t.Errorf("Port(e1).Center = %v, want (150,30)", p.Center)
	}
	if p.Orientation != West {
		t.Errorf("Port(e1).Orientation = %v, want West", p.Orientation)
	}

	// Projection must not touch the cell's own port.
	orig, _ := cell.Port("e1")
	if orig.Center != geom.Pt(-50, 0) {
		t.Errorf("cell port moved to %v", orig.Center)
	}

	if _, err := ref.Port("nope"); !errors.Is(err, ErrPortNotFound) {
		t.Errorf("Port(nope) error = %v, want ErrPortNotFound", err)
	}
}

func TestRefSetCenter(t *testing.T) {
	cell := newSquareCell(t, "pad", 100)
	cell.Lock()

	top := NewComponent("top")
	ref, err := top.AddRef(cell, geom.Pt(0, 0))
	if err != nil {
		t.Fatalf("AddRef() error = %v", err)
	}
	if got := ref.Center(); got != geom.Pt(0, 0) {
		t.Fatalf("Center() = %v, want origin", got)
	}

	if err := ref.SetCenter(geom.Pt(260, 0)); err != nil {
		t.Fatalf("SetCenter() error = %v", err)
	}
	if got := ref.Center(); got != geom.Pt(260, 0) {
		t.Errorf("Center() after SetCenter = %v, want (260,0)", got)
	}
	if got := ref.Bounds(); got != geom.NewBox(210, -50, 310, 50) {
		t.Errorf("Bounds() = %v, want translated box", got)
	}

	top.Lock()
	if err := ref.SetCenter(geom.Pt(0, 0)); !errors.Is(err, ErrLocked) {
		t.Errorf("SetCenter() after parent lock error = %v, want ErrLocked", err)
	}
}

func TestComponentBoundsAndFlatten(t *testing.T) {
	inner := newSquareCell(t, "inner", 10)
	inner.Lock()

	top := NewComponent("top")
	if err := top.AddPolygon(testMetal, geom.NewBox(0, 0, 5, 5).Corners()); err != nil {
		t.Fatalf("AddPolygon() error = %v", err)
	}
	ref, err := top.AddRef(inner, geom.Pt(100, 0))
	if err != nil {
		t.Fatalf("AddRef() error = %v", err)
	}
	_ = ref

	want := geom.NewBox(0, -5, 105, 5)
	if got := top.Bounds(); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}

	flat := top.Flatten()
	if len(flat) != 2 {
		t.Fatalf("Flatten() returned %d polygons, want 2", len(flat))
	}
	if got := flat[1].Bounds(); got != geom.NewBox(95, -5, 105, 5) {
		t.Errorf("flattened ref polygon bounds = %v, want translated", got)
	}
}

func TestCopyChildInfo(t *testing.T) {
	child := NewComponent("wire")
	child.SetInfo("length", 200.0)
	child.SetInfo("width", 10.0)
	child.Lock()

	top := NewComponent("top")
	top.SetInfo("width", 99.0)
	if err := top.CopyChildInfo(child); err != nil {
		t.Fatalf("CopyChildInfo() error = %v", err)
	}

	if v, ok := top.Info().Float("length"); !ok || v != 200 {
		t.Errorf("Info length = %v (%v), want 200", v, ok)
	}
	// Existing entries win.
	if v, _ := top.Info().Float("width"); v != 99 {
		t.Errorf("Info width = %v, want 99 (existing entry)", v)
	}
}

func TestInfoFloat(t *testing.T) {
	info := Info{"f": 1.5, "i": 3, "s": "nope"}

	if v, ok := info.Float("f"); !ok || v != 1.5 {
		t.Errorf("Float(f) = %v, %v", v, ok)
	}
	if v, ok := info.Float("i"); !ok || v != 3 {
		t.Errorf("Float(i) = %v, %v", v, ok)
	}
	if _, ok := info.Float("s"); ok {
		t.Error("Float(s) ok = true, want false")
	}
	if _, ok := info.Float("missing"); ok {
		t.Error("Float(missing) ok = true, want false")
	}
}

package route

import (
	"testing"

	"github.com/maskfab/maskfab/pkg/geom"
	"github.com/maskfab/maskfab/pkg/layout"
)

func TestQuadFacingPorts(t *testing.T) {
	a := layout.Port{Name: "e1", Center: geom.Pt(0, 0), Width: 10, Orientation: layout.West}
	b := layout.Port{Name: "e3", Center: geom.Pt(-50, 0), Width: 20, Orientation: layout.East}

	got := Quad(a, b)
	want := geom.Polygon{
		geom.Pt(0, -5),
		geom.Pt(0, 5),
		geom.Pt(-50, 10),
		geom.Pt(-50, -10),
	}
	if len(got) != len(want) {
		t.Fatalf("Quad() has %d vertices, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Quad()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestQuadVerticalPorts(t *testing.T) {
	a := layout.Port{Center: geom.Pt(0, 0), Width: 10, Orientation: layout.North}
	b := layout.Port{Center: geom.Pt(0, 60), Width: 30, Orientation: layout.South}

	got := Quad(a, b)
	want := geom.Polygon{
		geom.Pt(-5, 0),
		geom.Pt(5, 0),
		geom.Pt(15, 60),
		geom.Pt(-15, 60),
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Quad()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestQuadSpansPortCenters(t *testing.T) {
	a := layout.Port{Center: geom.Pt(3, 7), Width: 2, Orientation: layout.East}
	b := layout.Port{Center: geom.Pt(40, 7), Width: 8, Orientation: layout.West}

	bounds := Quad(a, b).Bounds()
	if bounds.Min.X != 3 || bounds.Max.X != 40 {
		t.Errorf("Quad().Bounds() x-span = [%v, %v], want [3, 40]", bounds.Min.X, bounds.Max.X)
	}
	if bounds.Min.Y != 3 || bounds.Max.Y != 11 {
		t.Errorf("Quad().Bounds() y-span = [%v, %v], want [3, 11]", bounds.Min.Y, bounds.Max.Y)
	}
}

package geom

import (
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	p := Pt(3, 4)
	q := Pt(-1, 2)

	if got := p.Add(q); got != Pt(2, 6) {
		t.Errorf("Add() = %v, want %v", got, Pt(2, 6))
	}
	if got := p.Sub(q); got != Pt(4, 2) {
		t.Errorf("Sub() = %v, want %v", got, Pt(4, 2))
	}
	if got := p.Scale(2); got != Pt(6, 8) {
		t.Errorf("Scale() = %v, want %v", got, Pt(6, 8))
	}
	if got := p.Distance(Pt(0, 0)); math.Abs(got-5) > 1e-12 {
		t.Errorf("Distance() = %v, want 5", got)
	}
}

func TestNewBoxNormalizesCorners(t *testing.T) {
	b := NewBox(10, 20, -10, -20)
	want := Box{Min: Pt(-10, -20), Max: Pt(10, 20)}
	if b != want {
		t.Errorf("NewBox() = %v, want %v", b, want)
	}
	if b.Width() != 20 || b.Height() != 40 {
		t.Errorf("Width()/Height() = %v/%v, want 20/40", b.Width(), b.Height())
	}
	if got := b.Center(); got != Pt(0, 0) {
		t.Errorf("Center() = %v, want origin", got)
	}
}

func TestBoxUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Box
		want Box
	}{
		{
			name: "disjoint",
			a:    NewBox(0, 0, 1, 1),
			b:    NewBox(2, 2, 3, 3),
			want: NewBox(0, 0, 3, 3),
		},
		{
			name: "nested",
			a:    NewBox(-5, -5, 5, 5),
			b:    NewBox(-1, -1, 1, 1),
			want: NewBox(-5, -5, 5, 5),
		},
		{
			name: "zero left operand",
			a:    Box{},
			b:    NewBox(1, 1, 2, 2),
			want: NewBox(1, 1, 2, 2),
		},
		{
			name: "zero right operand",
			a:    NewBox(1, 1, 2, 2),
			b:    Box{},
			want: NewBox(1, 1, 2, 2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Union() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoxContains(t *testing.T) {
	b := NewBox(0, 0, 10, 10)
	if !b.Contains(Pt(5, 5)) {
		t.Error("Contains(interior) = false, want true")
	}
	if !b.Contains(Pt(0, 10)) {
		t.Error("Contains(edge) = false, want true")
	}
	if b.Contains(Pt(11, 5)) {
		t.Error("Contains(exterior) = true, want false")
	}
}

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   Box
	}{
		{
			name:   "empty",
			points: nil,
			want:   Box{},
		},
		{
			name:   "single point",
			points: []Point{Pt(3, -2)},
			want:   Box{Min: Pt(3, -2), Max: Pt(3, -2)},
		},
		{
			name:   "scattered",
			points: []Point{Pt(1, 5), Pt(-3, 2), Pt(4, -1)},
			want:   Box{Min: Pt(-3, -1), Max: Pt(4, 5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoundingBox(tt.points); got != tt.want {
				t.Errorf("BoundingBox() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonTranslate(t *testing.T) {
	p := Polygon{Pt(0, 0), Pt(10, 0), Pt(10, 10)}
	got := p.Translate(Pt(-5, 5))
	want := Polygon{Pt(-5, 5), Pt(5, 5), Pt(5, 15)}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Translate()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	// Original must be unchanged.
	if p[0] != Pt(0, 0) {
		t.Errorf("Translate mutated receiver: %v", p[0])
	}
}

func TestPolygonCentroid(t *testing.T) {
	p := Polygon{Pt(0, 0), Pt(4, 0), Pt(4, 4), Pt(0, 4)}
	if got := p.Centroid(); got != Pt(2, 2) {
		t.Errorf("Centroid() = %v, want %v", got, Pt(2, 2))
	}
	if got := (Polygon{}).Centroid(); got != Pt(0, 0) {
		t.Errorf("Centroid(empty) = %v, want origin", got)
	}
}

func TestBoxCorners(t *testing.T) {
	b := NewBox(0, 0, 2, 1)
	got := b.Corners()
	want := Polygon{Pt(0, 0), Pt(2, 0), Pt(2, 1), Pt(0, 1)}
	if len(got) != 4 {
		t.Fatalf("Corners() returned %d points, want 4", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Corners()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

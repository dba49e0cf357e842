package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 12}.Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero Normalize() = %v, want zero", got)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, -1, 0}
	if got, want := a.Min(b), (Vec3{1, -1, -2}); got != want {
		t.Errorf("Vec3.Min() = %v, want %v", got, want)
	}
	if got, want := a.Max(b), (Vec3{3, 5, 0}); got != want {
		t.Errorf("Vec3.Max() = %v, want %v", got, want)
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want bool
	}{
		{"zero", Vec3{}, true},
		{"regular", Vec3{1, -2, 3.5}, true},
		{"nan", Vec3{math32.NaN(), 0, 0}, false},
		{"inf", Vec3{0, math32.Inf(1), 0}, false},
		{"neg inf", Vec3{0, 0, math32.Inf(-1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.want {
				t.Errorf("IsFinite() = %v, want %v", got, tt.want)
			}
		})
	}
	if (Vec2{math32.NaN(), 0}).IsFinite() {
		t.Error("Vec2 with NaN reported finite")
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 2, -4}
	b := Vec3{4, 2, 4}
	tests := []struct {
		t    float32
		want Vec3
	}{
		{0, a},
		{1, b},
		{0.25, Vec3{1, 2, -2}},
		{0.5, Vec3{2, 2, 0}},
	}
	for _, tt := range tests {
		if got := a.Lerp(b, tt.t); got != tt.want {
			t.Errorf("Lerp(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestVec3Axis(t *testing.T) {
	v := Vec3{1, 2, 3}
	for i, want := range []float32{1, 2, 3} {
		if got := v.Axis(i); got != want {
			t.Errorf("Axis(%d) = %v, want %v", i, got, want)
		}
	}
	if !v.ApproxEqual(Vec3{1.0001, 2, 3}, 1e-3) || v.ApproxEqual(Vec3{1.01, 2, 3}, 1e-3) {
		t.Error("ApproxEqual() tolerance is off")
	}
}

func TestPlaneFromPoints(t *testing.T) {
	p, ok := PlaneFromPoints(Vec3{0, 0, 2}, Vec3{1, 0, 2}, Vec3{0, 1, 2})
	if !ok {
		t.Fatal("PlaneFromPoints() reported collinear")
	}
	if p.Normal != (Vec3{0, 0, 1}) {
		t.Errorf("normal = %v, want +Z", p.Normal)
	}
	if p.Distance != -2 {
		t.Errorf("distance = %v, want -2", p.Distance)
	}
	if d := p.DistanceTo(Vec3{5, 5, 3}); d != 1 {
		t.Errorf("DistanceTo() = %v, want 1", d)
	}
	if _, ok := PlaneFromPoints(Vec3{}, Vec3{1, 1, 1}, Vec3{2, 2, 2}); ok {
		t.Error("collinear points produced a plane")
	}
}

func TestPlaneApproxEqual(t *testing.T) {
	p := Plane{Normal: Vec3{0, 0, 1}, Distance: 1}
	if !p.ApproxEqual(Plane{Normal: Vec3{0, 0, 1}, Distance: 1 + 1e-6}) {
		t.Error("nearly equal planes not matched")
	}
	if p.ApproxEqual(p.Flip()) {
		t.Error("flipped plane matched")
	}
	if p.ApproxEqual(Plane{Normal: Vec3{0, 0, 1}, Distance: 1.1}) {
		t.Error("offset plane matched")
	}
}

func TestBox(t *testing.T) {
	b := EmptyBox().Extend(Vec3{1, 2, 3}).Extend(Vec3{-1, 0, 5})
	if b.Min != (Vec3{-1, 0, 3}) || b.Max != (Vec3{1, 2, 5}) {
		t.Fatalf("Extend() = %v", b)
	}
	if c := b.Center(); c != (Vec3{0, 1, 4}) {
		t.Errorf("Center() = %v", c)
	}
	if a := b.SurfaceArea(); a != 24 {
		t.Errorf("SurfaceArea() = %v, want 24", a)
	}
	if a := EmptyBox().SurfaceArea(); a != 0 {
		t.Errorf("empty SurfaceArea() = %v, want 0", a)
	}
	s := BoundingSphere(b.Pad(1))
	if s.Origin != (Vec3{0, 1, 4}) {
		t.Errorf("sphere origin = %v", s.Origin)
	}
	if want := math32.Sqrt(4 + 4 + 4); math32.Abs(s.Radius-want) > 1e-5 {
		t.Errorf("sphere radius = %v, want %v", s.Radius, want)
	}
}

package math

import "github.com/chewxy/math32"

// Tolerances used when deduplicating geometry.
const (
	// PointEpsilon is the per-axis distance under which two points weld.
	PointEpsilon float32 = 1e-6
	// PlaneEpsilon is the distance tolerance for plane equality.
	PlaneEpsilon float32 = 1e-5
	// PlaneNormalDot is the minimum normal agreement for plane equality.
	PlaneNormalDot float32 = 0.999
)

// Plane is the set of points p with Normal·p + Distance = 0 (PlaneF).
type Plane struct {
	Normal   Vec3
	Distance float32
}

// PlaneFromPoints returns the plane through a, b, c with the normal given by
// the winding (b-a)x(c-a). ok is false for collinear points.
func PlaneFromPoints(a, b, c Vec3) (p Plane, ok bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.LengthSquared() == 0 {
		return Plane{}, false
	}
	n = n.Normalize()
	return Plane{Normal: n, Distance: -n.Dot(a)}, true
}

// DistanceTo returns the signed distance of p from the plane.
func (pl Plane) DistanceTo(p Vec3) float32 {
	return pl.Normal.Dot(p) + pl.Distance
}

// Flip returns the plane facing the other way.
func (pl Plane) Flip() Plane {
	return Plane{Normal: pl.Normal.Neg(), Distance: -pl.Distance}
}

// ApproxEqual reports whether two planes coincide with the same orientation.
func (pl Plane) ApproxEqual(other Plane) bool {
	return pl.Normal.Dot(other.Normal) > PlaneNormalDot &&
		math32.Abs(pl.Distance-other.Distance) < PlaneEpsilon
}

// IsFinite reports whether no component is NaN or infinite.
func (pl Plane) IsFinite() bool {
	return pl.Normal.IsFinite() && isFinite(pl.Distance)
}

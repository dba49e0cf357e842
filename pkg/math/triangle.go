package math

// TexturedVertex is one triangle corner.
type TexturedVertex struct {
	Position Vec3
	UV       Vec2
	Normal   Vec3
}

// IsFinite reports whether no component is NaN or infinite.
func (v TexturedVertex) IsFinite() bool {
	return v.Position.IsFinite() && v.UV.IsFinite() && v.Normal.IsFinite()
}

// Triangle is three corners in winding order.
type Triangle [3]TexturedVertex

// IsFinite reports whether every corner is finite.
func (t Triangle) IsFinite() bool {
	return t[0].IsFinite() && t[1].IsFinite() && t[2].IsFinite()
}

// Bounds returns the box around the three positions.
func (t Triangle) Bounds() Box {
	return EmptyBox().Extend(t[0].Position).Extend(t[1].Position).Extend(t[2].Position)
}

// Area returns the surface area.
func (t Triangle) Area() float32 {
	e1 := t[1].Position.Sub(t[0].Position)
	e2 := t[2].Position.Sub(t[0].Position)
	return e1.Cross(e2).Length() / 2
}

// Reversed returns the triangle with the opposite winding.
func (t Triangle) Reversed() Triangle {
	return Triangle{t[0], t[2], t[1]}
}

// Plane returns the plane through the positions, facing along the winding.
func (t Triangle) Plane() (Plane, bool) {
	return PlaneFromPoints(t[0].Position, t[1].Position, t[2].Position)
}

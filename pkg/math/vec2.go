package math

// Vec2 is a texture coordinate. OBJ files give it as (u, v); DIF files never
// store it directly, only the texgen planes solved from it.
type Vec2 struct {
	X, Y float32
}

// IsFinite reports whether neither coordinate is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

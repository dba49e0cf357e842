package math

import "github.com/chewxy/math32"

// Box is an axis-aligned bounding box (BoxF).
type Box struct {
	Min, Max Vec3
}

// EmptyBox returns an inverted box that any Extend call will overwrite.
func EmptyBox() Box {
	inf := math32.Inf(1)
	return Box{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Extend grows the box to contain p.
func (b Box) Extend(p Vec3) Box {
	return Box{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box containing both.
func (b Box) Union(other Box) Box {
	return Box{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// Pad grows the box by d on every side.
func (b Box) Pad(d float32) Box {
	off := Vec3{d, d, d}
	return Box{Min: b.Min.Sub(off), Max: b.Max.Add(off)}
}

// Center returns the midpoint.
func (b Box) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns Max - Min.
func (b Box) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// SurfaceArea returns the total face area; empty boxes report 0.
func (b Box) SurfaceArea() float32 {
	s := b.Size()
	if s.X < 0 || s.Y < 0 || s.Z < 0 {
		return 0
	}
	return 2 * (s.X*s.Y + s.Y*s.Z + s.Z*s.X)
}

// OverlapsXY reports whether the boxes intersect when projected onto XY.
func (b Box) OverlapsXY(other Box) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y
}

// Sphere is a bounding sphere (SphereF).
type Sphere struct {
	Origin Vec3
	Radius float32
}

// BoundingSphere returns the sphere centered on the box that touches its corners.
func BoundingSphere(b Box) Sphere {
	c := b.Center()
	return Sphere{Origin: c, Radius: b.Max.Sub(c).Length()}
}

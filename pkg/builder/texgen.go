package builder

import (
	"github.com/Faultbox/difbuilder/pkg/dif"
	"github.com/Faultbox/difbuilder/pkg/math"
)

// texGenFor returns the texgen mapping each corner position to its UV.
func texGenFor(tri math.Triangle) dif.TexGenEq {
	p := [3]math.Vec3{tri[0].Position, tri[1].Position, tri[2].Position}
	return dif.TexGenEq{
		PlaneX: solveTexPlane(p, [3]float32{tri[0].UV.X, tri[1].UV.X, tri[2].UV.X}),
		PlaneY: solveTexPlane(p, [3]float32{tri[0].UV.Y, tri[1].UV.Y, tri[2].UV.Y}),
	}
}

// solveTexPlane finds the plane (g, d) with g·p[i] + d = u[i] whose gradient g
// lies in the triangle plane. Solved in float64 around p[0] to keep large
// coordinates stable.
func solveTexPlane(p [3]math.Vec3, u [3]float32) math.Plane {
	var e1, e2 [3]float64
	for i := range 3 {
		e1[i] = float64(p[1].Axis(i) - p[0].Axis(i))
		e2[i] = float64(p[2].Axis(i) - p[0].Axis(i))
	}
	a, b, c := dot3(e1, e1), dot3(e1, e2), dot3(e2, e2)
	r1, r2 := float64(u[1]-u[0]), float64(u[2]-u[0])

	det := a*c - b*b
	if det == 0 {
		return math.Plane{Distance: u[0]}
	}
	alpha := (c*r1 - b*r2) / det
	beta := (a*r2 - b*r1) / det

	var g [3]float64
	for i := range 3 {
		g[i] = alpha*e1[i] + beta*e2[i]
	}
	p0 := [3]float64{float64(p[0].X), float64(p[0].Y), float64(p[0].Z)}
	return math.Plane{
		Normal:   math.Vec3{X: float32(g[0]), Y: float32(g[1]), Z: float32(g[2])},
		Distance: float32(float64(u[0]) - dot3(g, p0)),
	}
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

package builder

import (
	"github.com/Faultbox/difbuilder/pkg/dif"
	"github.com/Faultbox/difbuilder/pkg/math"
)

// Report summarizes how well the BSP resolves the surfaces it was built from.
type Report struct {
	// Hit counts surfaces found again by a short ray cast through the BSP.
	Hit int
	// Total is the number of surfaces tested.
	Total int
	// HitAreaPercentage is the share of surface area that was hit.
	HitAreaPercentage float32
	// BalanceFactor is the front minus back subtree height of the root.
	BalanceFactor int
	// Dropped counts degenerate triangles removed before compiling.
	Dropped int
}

// rayOffset is how far in front of and behind a surface the probe ray runs.
const rayOffset = 0.1

// noPlane is the plane reference used before a ray crosses any node.
const noPlane uint16 = 0xFFFF

// coverage casts a ray through the centroid of every surface along its normal
// and counts the surfaces that the BSP places in a solid leaf on their own
// plane.
func coverage(in *dif.Interior) Report {
	r := Report{Total: len(in.Surfaces)}
	var total, hit float32
	for _, s := range in.Surfaces {
		pts := make([]math.Vec3, s.WindingCount)
		var centroid math.Vec3
		for i := range pts {
			pts[i] = in.Points[in.Indices[s.WindingStart+uint32(i)]]
			centroid = centroid.Add(pts[i])
		}
		centroid = centroid.Scale(1 / float32(len(pts)))

		var area float32
		for i := range pts {
			a := pts[i].Sub(centroid)
			b := pts[(i+1)%len(pts)].Sub(centroid)
			area += a.Cross(b).Length() / 2
		}
		total += area

		n := in.Normals[in.Planes[s.PlaneIndex].NormalIndex]
		if s.PlaneFlipped {
			n = n.Neg()
		}
		start := centroid.Add(n.Scale(rayOffset))
		end := centroid.Sub(n.Scale(rayOffset))
		if len(in.BSPNodes) > 0 && rayCast(in, dif.BSPIndex{}, noPlane, start, end) {
			r.Hit++
			hit += area
		}
	}
	if total > 0 {
		r.HitAreaPercentage = hit / total * 100
	}
	return r
}

// rayCast walks the segment start-end through the BSP from node. plane is
// the last node plane the segment crossed; a solid leaf counts as a hit when
// one of its surfaces lies on that plane.
func rayCast(in *dif.Interior, node dif.BSPIndex, plane uint16, start, end math.Vec3) bool {
	if node.Leaf {
		if !node.Solid {
			return false
		}
		leaf := in.BSPSolidLeaves[node.Index]
		for _, ref := range in.SolidLeafSurfaces[leaf.SurfaceStart : leaf.SurfaceStart+uint32(leaf.SurfaceCount)] {
			if !ref.IsNull() && in.Surfaces[ref.Index()].PlaneIndex == plane&^planeFlipBit {
				return true
			}
		}
		return false
	}

	n := in.BSPNodes[node.Index]
	p := in.Planes[n.PlaneIndex]
	pl := math.Plane{Normal: in.Normals[p.NormalIndex], Distance: p.Distance}
	ds, de := pl.DistanceTo(start), pl.DistanceTo(end)

	switch {
	case ds >= 0 && de >= 0 && (ds > 0 || de > 0):
		return rayCast(in, n.Front, plane, start, end)
	case ds <= 0 && de <= 0 && (ds < 0 || de < 0):
		return rayCast(in, n.Back, plane, start, end)
	case ds > 0 && de < 0:
		mid := start.Lerp(end, ds/(ds-de))
		return rayCast(in, n.Front, plane, start, mid) || rayCast(in, n.Back, n.PlaneIndex, mid, end)
	case ds < 0 && de > 0:
		mid := start.Lerp(end, ds/(ds-de))
		return rayCast(in, n.Back, plane, start, mid) || rayCast(in, n.Front, n.PlaneIndex, mid, end)
	default:
		return rayCast(in, n.Front, plane, start, end) || rayCast(in, n.Back, plane, start, end)
	}
}

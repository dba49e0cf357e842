package builder

import (
	"fmt"
	"slices"

	"github.com/Faultbox/difbuilder/pkg/dif"
)

// maxPlaneGroups is the number of plane masks a poly list string can carry.
const maxPlaneGroups = 8

type polySurface struct {
	plane  uint16 // plane reference including the flip bit
	points []uint32
	mask   uint8
}

// exportPolyLists writes the per-hull poly list: unique planes and points
// plus a string describing every hull surface in terms of them. Planes are
// merged into at most eight groups so each can be named by one mask bit.
func (c *compiler) exportPolyLists() {
	in := c.in
	in.PolyListPlaneIndices = nil
	in.PolyListPointIndices = nil
	in.PolyListStringCharacters = nil

	for h := range in.ConvexHulls {
		hull := &in.ConvexHulls[h]
		refs := in.HullSurfaceIndices[hull.SurfaceStart : hull.SurfaceStart+uint32(hull.SurfaceCount)]

		surfaces := make([]polySurface, len(refs))
		for i, ref := range refs {
			surfaces[i] = c.polySurface(ref)
		}

		var planes []uint16
		var points []uint32
		for _, s := range surfaces {
			if !slices.Contains(planes, s.plane) {
				planes = append(planes, s.plane)
			}
			for _, p := range s.points {
				if !slices.Contains(points, p) {
					points = append(points, p)
				}
			}
		}
		if len(planes) >= 256 || len(points) >= 1<<16 || len(surfaces) >= 256 {
			c.fail(fmt.Errorf("%w: hull %d has %d planes, %d points and %d surfaces",
				dif.ErrFieldOverflow, h, len(planes), len(points), len(surfaces)))
			return
		}

		groups := c.groupPlanes(planes)
		planeMasks := make([]uint8, len(planes))
		for i, pl := range planes {
			planeMasks[i] = maskOf(groups, pl)
		}
		pointMasks := make([]uint8, len(points))
		for i := range surfaces {
			s := &surfaces[i]
			s.mask = maskOf(groups, s.plane)
			for _, p := range s.points {
				pointMasks[slices.Index(points, p)] |= s.mask
			}
		}

		hull.PolyListPlaneStart = uint32(len(in.PolyListPlaneIndices))
		in.PolyListPlaneIndices = append(in.PolyListPlaneIndices, planes...)
		hull.PolyListPointStart = uint32(len(in.PolyListPointIndices))
		in.PolyListPointIndices = append(in.PolyListPointIndices, points...)
		hull.PolyListStringStart = uint32(len(in.PolyListStringCharacters))

		s := in.PolyListStringCharacters
		s = append(s, byte(len(planes)))
		s = append(s, planeMasks...)
		s = append(s, byte(len(points)>>8), byte(len(points)))
		s = append(s, pointMasks...)
		s = append(s, byte(len(surfaces)))
		for _, surf := range surfaces {
			s = append(s, byte(len(surf.points)), surf.mask, byte(slices.Index(planes, surf.plane)))
			for _, p := range surf.points {
				local := slices.Index(points, p)
				s = append(s, byte(local>>8), byte(local))
			}
		}
		in.PolyListStringCharacters = s
	}
}

func (c *compiler) polySurface(ref dif.SurfaceRef) polySurface {
	in := c.in
	if ref.IsNull() {
		ns := in.NullSurfaces[ref.Index()]
		return polySurface{
			plane:  ns.PlaneIndex,
			points: in.Indices[ns.WindingStart : ns.WindingStart+ns.WindingCount],
		}
	}
	s := in.Surfaces[ref.Index()]
	plane := s.PlaneIndex
	if s.PlaneFlipped {
		plane |= planeFlipBit
	}
	var points []uint32
	for j := range s.WindingCount {
		if s.FanMask&(1<<j) != 0 {
			points = append(points, in.Indices[s.WindingStart+j])
		}
	}
	return polySurface{plane: plane, points: points}
}

// groupPlanes merges plane groups until at most maxPlaneGroups remain. Each
// step merges the pair whose most similar normals are the least similar.
func (c *compiler) groupPlanes(planes []uint16) [][]uint16 {
	groups := make([][]uint16, len(planes))
	for i, pl := range planes {
		groups[i] = []uint16{pl}
	}
	for len(groups) > maxPlaneGroups {
		first, second := -1, -1
		var best float32 = 2
		for j := range groups {
			for k := j + 1; k < len(groups); k++ {
				var closest float32 = -2
				for _, a := range groups[j] {
					na := c.planes.plane(a).Normal
					for _, b := range groups[k] {
						closest = max(closest, na.Dot(c.planes.plane(b).Normal))
					}
				}
				if closest < best {
					best, first, second = closest, j, k
				}
			}
		}
		if first < 0 {
			// Only reachable with NaN normals; merge the last two groups.
			first, second = len(groups)-2, len(groups)-1
		}
		from := groups[second]
		for i := len(from) - 1; i >= 0; i-- {
			groups[first] = append(groups[first], from[i])
		}
		groups = slices.Delete(groups, second, second+1)
	}
	return groups
}

func maskOf(groups [][]uint16, plane uint16) uint8 {
	for i, g := range groups {
		if slices.Contains(g, plane) {
			return 1 << i
		}
	}
	return 0
}

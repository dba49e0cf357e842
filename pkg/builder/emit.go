package builder

import (
	"cmp"
	"slices"
)

// hullPoly is a hull face in hull-local point indices.
type hullPoly struct {
	points [3]int
	plane  uint16
}

type emitEdge struct{ first, last int }

// emitString encodes what the engine must emit when point is the support
// point of the hull: the polygons touching it plus every polygon sharing a
// plane with those, and their points and edges. Layout, all bytes:
//
//	nPoints point*nPoints
//	nEdges (first last)*nEdges
//	nPolys (nPolyPoints polyIndex pointSlot*nPolyPoints)*nPolys
func emitString(polys []hullPoly, point int) []byte {
	var emit []int
	for j, p := range polys {
		if slices.Contains(p.points[:], point) {
			emit = append(emit, j)
		}
	}
	touching := len(emit)
	for j, p := range polys {
		if slices.Contains(emit, j) {
			continue
		}
		for _, e := range emit[:touching] {
			if polys[e].plane == p.plane {
				emit = append(emit, j)
				break
			}
		}
	}

	var points []int
	var edges []emitEdge
	for _, j := range emit {
		pts := polys[j].points
		for k, a := range pts {
			if !slices.Contains(points, a) {
				points = append(points, a)
			}
			b := pts[(k+1)%len(pts)]
			e := emitEdge{min(a, b), max(a, b)}
			if !slices.Contains(edges, e) {
				edges = append(edges, e)
			}
		}
	}
	slices.Sort(points)
	slices.SortFunc(edges, func(a, b emitEdge) int {
		if c := cmp.Compare(a.first, b.first); c != 0 {
			return c
		}
		return cmp.Compare(a.last, b.last)
	})

	s := make([]byte, 0, 3+len(points)+2*len(edges)+5*len(emit))
	s = append(s, byte(len(points)))
	for _, p := range points {
		s = append(s, byte(p))
	}
	s = append(s, byte(len(edges)))
	for _, e := range edges {
		s = append(s, byte(e.first), byte(e.last))
	}
	s = append(s, byte(len(emit)))
	for _, j := range emit {
		s = append(s, byte(len(polys[j].points)), byte(j))
		for _, p := range polys[j].points {
			s = append(s, byte(slices.Index(points, p)))
		}
	}
	return s
}

package builder

import (
	"fmt"
	"slices"

	"github.com/chewxy/math32"

	"github.com/Faultbox/difbuilder/pkg/dif"
	"github.com/Faultbox/difbuilder/pkg/math"
)

// maxHullFaces bounds a hull so every local point, edge and polygon of its
// emit strings fits in a byte.
const maxHullFaces = 64

type hullGroup struct {
	bounds math.Box
	faces  []*face
}

// groupHulls assigns every face to one hull. Faces are binned on the 16x16 XY
// grid of the bounding box; inside a bin a face joins the hull whose box grows
// the least, or starts a new one when that is cheaper.
func (c *compiler) groupHulls() [][]*face {
	box := c.in.BoundingBox
	size := box.Size()
	used := make([]bool, len(c.faces))

	var out [][]*face
	for i := range 16 {
		minX := box.Min.X + float32(i)*size.X/16
		maxX := box.Min.X + float32(i+1)*size.X/16
		for j := range 16 {
			minY := box.Min.Y + float32(j)*size.Y/16
			maxY := box.Min.Y + float32(j+1)*size.Y/16
			cell := math.Box{Min: math.Vec3{X: minX, Y: minY}, Max: math.Vec3{X: maxX, Y: maxY}}

			var bin []*face
			for k, f := range c.faces {
				if !used[k] && cell.OverlapsXY(f.bounds) {
					used[k] = true
					bin = append(bin, f)
				}
			}
			out = append(out, subdivide(bin)...)
		}
	}
	for k, f := range c.faces {
		if !used[k] {
			out = append(out, []*face{f})
		}
	}
	return out
}

func subdivide(faces []*face) [][]*face {
	var groups []*hullGroup
	for _, f := range faces {
		best, bestCost := -1, math32.Inf(1)
		for gi, g := range groups {
			if len(g.faces) >= maxHullFaces {
				continue
			}
			cost := g.bounds.Union(f.bounds).SurfaceArea() - g.bounds.SurfaceArea()
			if cost < bestCost {
				best, bestCost = gi, cost
			}
		}
		if best >= 0 && bestCost <= f.bounds.SurfaceArea() {
			g := groups[best]
			g.bounds = g.bounds.Union(f.bounds)
			g.faces = append(g.faces, f)
			continue
		}
		groups = append(groups, &hullGroup{bounds: f.bounds, faces: []*face{f}})
	}

	out := make([][]*face, len(groups))
	for i, g := range groups {
		out[i] = g.faces
	}
	return out
}

// exportHull writes the surfaces of faces and the hull that encloses them.
func (c *compiler) exportHull(faces []*face) {
	in := c.in
	hull := dif.ConvexHull{
		HullStart:    uint32(len(in.HullIndices)),
		SurfaceStart: uint32(len(in.HullSurfaceIndices)),
		SurfaceCount: uint16(len(faces)),
		PlaneStart:   uint32(len(in.HullPlaneIndices)),
		Bounds:       math.EmptyBox(),
	}

	var points []uint32
	local := make(map[uint32]int)
	for _, f := range faces {
		hull.Bounds = hull.Bounds.Union(f.bounds)
		for _, p := range f.points {
			if _, ok := local[p]; !ok {
				local[p] = len(points)
				points = append(points, p)
			}
		}
	}
	hull.HullCount = uint16(len(points))
	in.HullIndices = append(in.HullIndices, points...)

	var planes []uint16
	for _, f := range faces {
		f.planeRef = c.plane(f.plane)
		if f.isNull() {
			f.surfaceRef = c.exportNullSurface(f)
		} else {
			f.surfaceRef = c.exportSurface(f)
		}
		in.HullSurfaceIndices = append(in.HullSurfaceIndices, f.surfaceRef)
		if !slices.Contains(planes, f.planeRef) {
			planes = append(planes, f.planeRef)
		}
	}

	if !c.b.mbOnly {
		in.HullPlaneIndices = append(in.HullPlaneIndices, planes...)
		polys := make([]hullPoly, len(faces))
		for i, f := range faces {
			polys[i] = hullPoly{plane: f.planeRef}
			for k, p := range f.points {
				polys[i].points[k] = local[p]
			}
		}
		for i := range points {
			in.HullEmitStringIndices = append(in.HullEmitStringIndices, c.emits.add(emitString(polys, i)))
		}
	}
	in.ConvexHulls = append(in.ConvexHulls, hull)
}

func (c *compiler) exportSurface(f *face) dif.SurfaceRef {
	in := c.in
	idx := len(in.Surfaces)
	start := uint32(len(in.Indices))
	in.Indices = append(in.Indices, f.points[:]...)
	in.Surfaces = append(in.Surfaces, dif.Surface{
		WindingStart: start,
		WindingCount: 3,
		PlaneIndex:   f.planeRef &^ planeFlipBit,
		PlaneFlipped: f.planeRef&planeFlipBit != 0,
		TextureIndex: c.material(f.material),
		TexGenIndex:  c.texGens.add(texGenFor(f.tri)),
		Flags:        dif.SurfaceOutsideVisible,
		FanMask:      0b111,
		MapSizeX:     32,
		MapSizeY:     32,
	})
	in.NormalLMapIndices = append(in.NormalLMapIndices, 0)
	in.AlarmLMapIndices = append(in.AlarmLMapIndices, dif.NoLightMap)
	return dif.SurfaceRefTo(idx)
}

func (c *compiler) exportNullSurface(f *face) dif.SurfaceRef {
	in := c.in
	idx := len(in.NullSurfaces)
	if idx > 0xFFFF {
		c.fail(fmt.Errorf("%w: more than %d null surfaces", dif.ErrFieldOverflow, 0x10000))
	}
	start := uint32(len(in.Indices))
	in.Indices = append(in.Indices, f.points[:]...)
	in.NullSurfaces = append(in.NullSurfaces, dif.NullSurface{
		WindingStart: start,
		PlaneIndex:   f.planeRef,
		Flags:        dif.SurfaceOutsideVisible,
		WindingCount: 3,
	})
	return dif.NullSurfaceRefTo(idx)
}

package builder

import (
	gomath "math"

	"github.com/Faultbox/difbuilder/pkg/dif"
	"github.com/Faultbox/difbuilder/pkg/math"
)

// planeFlipBit marks a plane reference that faces the other way.
const planeFlipBit = 0x8000

// maxPlanes is the number of planes a 15-bit plane index can address.
const maxPlanes = planeFlipBit

type cellKey [3]int64

func cellOf(v math.Vec3, size float32) cellKey {
	return cellKey{quantize(v.X, size), quantize(v.Y, size), quantize(v.Z, size)}
}

// quantize returns the grid cell of f. Cells past ±2^62 are clamped.
func quantize(f, size float32) int64 {
	q := gomath.Round(float64(f) / float64(size))
	const limit = 1 << 62
	switch {
	case q > limit:
		return limit
	case q < -limit:
		return -limit
	}
	return int64(q)
}

// vecPool welds vectors that agree within eps on every axis. Vectors are
// bucketed on an eps grid so a lookup only visits the 27 neighbouring cells.
type vecPool struct {
	eps   float32
	items []math.Vec3
	cells map[cellKey][]uint32
}

func newVecPool(eps float32) *vecPool {
	return &vecPool{eps: eps, cells: make(map[cellKey][]uint32)}
}

func (p *vecPool) find(v math.Vec3) (uint32, bool) {
	c := cellOf(v, p.eps)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, i := range p.cells[cellKey{c[0] + dx, c[1] + dy, c[2] + dz}] {
					if p.items[i].ApproxEqual(v, p.eps) {
						return i, true
					}
				}
			}
		}
	}
	return 0, false
}

// add returns the index of v, inserting it when no welded match exists.
func (p *vecPool) add(v math.Vec3) uint32 {
	if i, ok := p.find(v); ok {
		return i
	}
	i := uint32(len(p.items))
	p.items = append(p.items, v)
	c := cellOf(v, p.eps)
	p.cells[c] = append(p.cells[c], i)
	return i
}

// planePool deduplicates planes in either orientation. A match against the
// opposite orientation returns the stored index with planeFlipBit set.
type planePool struct {
	normals *vecPool
	planes  []dif.Plane
	geom    []math.Plane
	buckets map[int64][]uint16
}

func newPlanePool() *planePool {
	return &planePool{
		normals: newVecPool(math.PointEpsilon),
		buckets: make(map[int64][]uint16),
	}
}

func (p *planePool) find(pl math.Plane) (uint16, bool) {
	k := quantize(pl.Distance, math.PlaneEpsilon)
	for dk := int64(-1); dk <= 1; dk++ {
		for _, i := range p.buckets[k+dk] {
			if p.geom[i].ApproxEqual(pl) {
				return i, true
			}
		}
	}
	return 0, false
}

// add returns the plane reference for pl. ok is false once the pool is full.
func (p *planePool) add(pl math.Plane) (ref uint16, ok bool) {
	if i, found := p.find(pl); found {
		return i, true
	}
	if i, found := p.find(pl.Flip()); found {
		return i | planeFlipBit, true
	}
	if len(p.planes) >= maxPlanes {
		return 0, false
	}
	n := p.normals.add(pl.Normal)
	i := uint16(len(p.planes))
	p.planes = append(p.planes, dif.Plane{NormalIndex: uint16(n), Distance: pl.Distance})
	p.geom = append(p.geom, pl)
	k := quantize(pl.Distance, math.PlaneEpsilon)
	p.buckets[k] = append(p.buckets[k], i)
	return i, true
}

// plane returns the oriented geometry of ref.
func (p *planePool) plane(ref uint16) math.Plane {
	pl := p.geom[ref&^planeFlipBit]
	if ref&planeFlipBit != 0 {
		return pl.Flip()
	}
	return pl
}

// texGenPool deduplicates texgen equations to within 1e-5 per coefficient.
type texGenPool struct {
	eqs   []dif.TexGenEq
	index map[[8]int64]uint32
}

const texGenEpsilon float32 = 1e-5

func newTexGenPool() *texGenPool {
	return &texGenPool{index: make(map[[8]int64]uint32)}
}

func (p *texGenPool) add(eq dif.TexGenEq) uint32 {
	var key [8]int64
	for i, f := range [8]float32{
		eq.PlaneX.Normal.X, eq.PlaneX.Normal.Y, eq.PlaneX.Normal.Z, eq.PlaneX.Distance,
		eq.PlaneY.Normal.X, eq.PlaneY.Normal.Y, eq.PlaneY.Normal.Z, eq.PlaneY.Distance,
	} {
		key[i] = quantize(f, texGenEpsilon)
	}
	if i, ok := p.index[key]; ok {
		return i
	}
	i := uint32(len(p.eqs))
	p.eqs = append(p.eqs, eq)
	p.index[key] = i
	return i
}

// stringPool stores byte strings back to back and returns their offsets.
type stringPool struct {
	chars []byte
	index map[string]uint32
}

func newStringPool() *stringPool {
	return &stringPool{index: make(map[string]uint32)}
}

func (p *stringPool) add(s []byte) uint32 {
	if i, ok := p.index[string(s)]; ok {
		return i
	}
	i := uint32(len(p.chars))
	p.chars = append(p.chars, s...)
	p.index[string(s)] = i
	return i
}

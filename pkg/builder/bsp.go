package builder

import (
	"cmp"
	gomath "math"
	"math/rand"
	"slices"

	"github.com/chewxy/math32"

	"github.com/Faultbox/difbuilder/pkg/dif"
	"github.com/Faultbox/difbuilder/pkg/math"
)

const (
	// splitEpsilon is the distance under which a point lies on a splitter.
	splitEpsilon float32 = 1e-4
	// splitSample is how many candidate planes SplitFast rates per node.
	splitSample = 32
	// splitSeed seeds the SplitFast sample so builds are reproducible.
	splitSeed = 42
)

// bspPoly is a face, or a piece of one, inside the BSP under construction.
type bspPoly struct {
	verts []math.Vec3
	plane uint16 // plane reference including the flip bit
	face  *face
	used  bool // its plane already splits an ancestor
}

type bspNode struct {
	polys       []*bspPoly
	plane       uint16
	split       bool
	front, back *bspNode
}

func (n *bspNode) height() int {
	if n == nil {
		return 0
	}
	return max(n.front.height(), n.back.height()) + 1
}

// balance returns the height of the front subtree minus the back subtree.
func (n *bspNode) balance() int {
	return n.front.height() - n.back.height()
}

// side classification results.
const (
	sideOn = iota
	sideFront
	sideBack
	sideSpanning
)

func (c *compiler) buildBSP() *bspNode {
	root := &bspNode{}
	for _, f := range c.faces {
		root.polys = append(root.polys, &bspPoly{
			verts: []math.Vec3{f.tri[0].Position, f.tri[1].Position, f.tri[2].Position},
			plane: f.planeRef,
			face:  f,
		})
	}
	if c.b.split == SplitNone {
		root.plane = root.polys[0].plane
		root.split = true
		root.polys = nil
		return root
	}
	used := make(map[uint16]bool)
	c.splitNode(root, used)
	return root
}

func (c *compiler) splitNode(n *bspNode, used map[uint16]bool) {
	if !slices.ContainsFunc(n.polys, func(p *bspPoly) bool { return !p.used }) {
		return
	}
	var plane uint16
	var ok bool
	if c.b.split == SplitExhaustive {
		plane, ok = c.exhaustiveSplitter(n)
	} else {
		plane, ok = c.fastSplitter(n)
	}
	if !ok {
		return
	}
	pl := c.planes.plane(plane)

	var front, back []*bspPoly
	for _, p := range n.polys {
		if p.plane == plane {
			p.used = true
			back = append(back, p)
			continue
		}
		switch classify(p.verts, pl) {
		case sideFront:
			front = append(front, p)
		case sideBack:
			back = append(back, p)
		case sideOn:
			p.used = true
			back = append(back, p)
		case sideSpanning:
			if f := p.clip(pl.Flip()); len(f.verts) > 2 {
				front = append(front, f)
			}
			if b := p.clip(pl); len(b.verts) > 2 {
				back = append(back, b)
			}
		}
	}

	n.plane, n.split, n.polys = plane, true, nil
	if !used[plane] {
		used[plane] = true
		c.b.report(len(used), len(c.planes.planes), "Building BSP")
	}
	if len(front) > 0 {
		n.front = &bspNode{polys: front}
		c.splitNode(n.front, used)
	}
	if len(back) > 0 {
		n.back = &bspNode{polys: back}
		c.splitNode(n.back, used)
	}
}

// candidates returns the distinct unused planes of n in first-seen order.
func candidates(n *bspNode) []uint16 {
	var out []uint16
	for _, p := range n.polys {
		if !p.used && !slices.Contains(out, p.plane) {
			out = append(out, p.plane)
		}
	}
	return out
}

func (c *compiler) fastSplitter(n *bspNode) (uint16, bool) {
	planes := candidates(n)
	if len(planes) > splitSample {
		r := rand.New(rand.NewSource(splitSeed))
		r.Shuffle(len(planes), func(i, j int) { planes[i], planes[j] = planes[j], planes[i] })
		planes = planes[:splitSample]
	}
	return c.bestSplitter(n, planes)
}

func (c *compiler) exhaustiveSplitter(n *bspNode) (uint16, bool) {
	var dirs [64]math.Vec3
	for i := range 8 {
		for j := range 8 {
			p := -math32.Pi + math32.Pi*float32(i)/8
			t := (math32.Pi / 2) * float32(j) / 8
			dirs[i*8+j] = math.Vec3{X: math32.Cos(t) * math32.Sin(p), Y: math32.Sin(t) * math32.Sin(p), Z: math32.Cos(p)}
		}
	}
	var buckets [64][]uint16
	for _, ref := range candidates(n) {
		normal := c.planes.plane(ref).Normal
		best, bestDot := -1, float32(-1)
		for i, d := range dirs {
			if dot := d.Dot(normal); dot > bestDot {
				best, bestDot = i, dot
			}
		}
		if best >= 0 {
			buckets[best] = append(buckets[best], ref)
		}
	}

	var medians []uint16
	for _, b := range buckets {
		if len(b) == 0 {
			continue
		}
		slices.SortStableFunc(b, func(x, y uint16) int {
			return cmp.Compare(c.planes.plane(x).Distance, c.planes.plane(y).Distance)
		})
		medians = append(medians, b[len(b)/2])
	}
	return c.bestSplitter(n, medians)
}

func (c *compiler) bestSplitter(n *bspNode, planes []uint16) (uint16, bool) {
	if len(planes) == 0 {
		return 0, false
	}
	best, bestRating := planes[0], c.rate(n, planes[0])
	for _, p := range planes[1:] {
		if r := c.rate(n, p); r > bestRating {
			best, bestRating = p, r
		}
	}
	return best, true
}

// rate scores splitting n by plane. The score rewards an even front/back
// split (entropy) and penalizes polygons that straddle the plane.
func (c *compiler) rate(n *bspNode, plane uint16) int {
	pl := c.planes.plane(plane)
	var front, back, splits int
	coplanarSeen := false
	for _, p := range n.polys {
		if p.plane == plane && !coplanarSeen {
			coplanarSeen = true
			back++
			continue
		}
		var maxFront, minBack float32
		for _, v := range p.verts {
			d := pl.DistanceTo(v)
			maxFront = max(maxFront, d)
			minBack = min(minBack, d)
		}
		f, b := maxFront > splitEpsilon, minBack < -splitEpsilon
		if f {
			front++
		}
		if b {
			back++
		}
		if f && b {
			splits++
		}
	}

	total := front + back
	if total == 0 {
		return 0
	}
	jaccard := float64(front+back-2*splits) / float64(total)
	pf, pb := float64(front)/float64(total), float64(back)/float64(total)
	entropy := xlog2x(pf) + xlog2x(pb)
	return int(gomath.Round(-entropy * jaccard * 1000))
}

func xlog2x(p float64) float64 {
	if p == 0 {
		return 0
	}
	return p * gomath.Log2(p)
}

// classify reports which side of pl the polygon lies on.
func classify(verts []math.Vec3, pl math.Plane) int {
	var front, back int
	for _, v := range verts {
		switch d := pl.DistanceTo(v); {
		case d > splitEpsilon:
			front++
		case d < -splitEpsilon:
			back++
		}
	}
	switch {
	case front > 0 && back > 0:
		return sideSpanning
	case front > 0:
		return sideFront
	case back > 0:
		return sideBack
	}
	return sideOn
}

// clip returns the part of p behind pl.
func (p *bspPoly) clip(pl math.Plane) *bspPoly {
	out := &bspPoly{plane: p.plane, face: p.face, used: p.used}
	for i, v1 := range p.verts {
		v2 := p.verts[(i+1)%len(p.verts)]
		d1, d2 := pl.DistanceTo(v1), pl.DistanceTo(v2)
		if d1 <= splitEpsilon {
			out.verts = append(out.verts, v1)
		}
		if (d1 > splitEpsilon && d2 < -splitEpsilon) || (d1 < -splitEpsilon && d2 > splitEpsilon) {
			t := d1 / (d1 - d2)
			out.verts = append(out.verts, v1.Lerp(v2, t))
		}
	}
	return out
}

var emptyLeaf = dif.BSPIndex{Leaf: true}

// exportBSP flattens the tree depth first, front before back. A node whose
// plane is stored flipped swaps its children.
func (c *compiler) exportBSP(n *bspNode) dif.BSPIndex {
	in := c.in
	if n == nil {
		return emptyLeaf
	}
	if !n.split {
		var refs []dif.SurfaceRef
		for _, p := range n.polys {
			if !slices.Contains(refs, p.face.surfaceRef) {
				refs = append(refs, p.face.surfaceRef)
			}
		}
		if len(refs) == 0 {
			return emptyLeaf
		}
		leaf := dif.BSPSolidLeaf{
			SurfaceStart: uint32(len(in.SolidLeafSurfaces)),
			SurfaceCount: uint16(len(refs)),
		}
		in.SolidLeafSurfaces = append(in.SolidLeafSurfaces, refs...)
		in.BSPSolidLeaves = append(in.BSPSolidLeaves, leaf)
		return dif.BSPIndex{Index: uint32(len(in.BSPSolidLeaves) - 1), Leaf: true, Solid: true}
	}

	idx := len(in.BSPNodes)
	in.BSPNodes = append(in.BSPNodes, dif.BSPNode{})
	front, back := c.exportBSP(n.front), c.exportBSP(n.back)
	if n.plane&planeFlipBit != 0 {
		front, back = back, front
	}
	in.BSPNodes[idx] = dif.BSPNode{PlaneIndex: n.plane &^ planeFlipBit, Front: front, Back: back}
	return dif.BSPIndex{Index: uint32(idx)}
}

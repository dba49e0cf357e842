package builder

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/difbuilder/pkg/dif"
	"github.com/Faultbox/difbuilder/pkg/math"
)

// boundsPadding is added on every side of the geometry bounds.
const boundsPadding = 3

// face is a welded, non-degenerate input triangle.
type face struct {
	tri      math.Triangle // positions replaced by their welded points
	points   [3]uint32
	plane    math.Plane
	material string
	bounds   math.Box

	// Filled while hulls are exported.
	planeRef   uint16
	surfaceRef dif.SurfaceRef
}

func (f *face) isNull() bool { return f.material == NullMaterial }

// compiler holds the state of one Build call.
type compiler struct {
	b       *Builder
	in      *dif.Interior
	faces   []*face
	dropped int

	points    *vecPool
	planes    *planePool
	texGens   *texGenPool
	emits     *stringPool
	materials map[string]uint16
	err       error
}

func newCompiler(b *Builder) *compiler {
	return &compiler{
		b:         b,
		in:        dif.NewInterior(),
		points:    newVecPool(math.PointEpsilon),
		planes:    newPlanePool(),
		texGens:   newTexGenPool(),
		emits:     newStringPool(),
		materials: make(map[string]uint16),
	}
}

// addFace welds tri and keeps it unless it collapses to zero area. Its
// orientation follows the corner normals when they disagree with the winding.
func (c *compiler) addFace(tri math.Triangle, material string) {
	var pts [3]uint32
	for i := range tri {
		pts[i] = c.points.add(tri[i].Position)
		tri[i].Position = c.points.items[pts[i]]
	}
	if pts[0] == pts[1] || pts[1] == pts[2] || pts[0] == pts[2] {
		c.dropped++
		return
	}
	plane, ok := tri.Plane()
	if !ok {
		c.dropped++
		return
	}
	n := tri[0].Normal.Add(tri[1].Normal).Add(tri[2].Normal)
	if n.Dot(plane.Normal) < 0 {
		tri = tri.Reversed()
		pts[1], pts[2] = pts[2], pts[1]
		plane = plane.Flip()
	}
	c.faces = append(c.faces, &face{
		tri:      tri,
		points:   pts,
		plane:    plane,
		material: material,
		bounds:   tri.Bounds(),
	})
}

func (c *compiler) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *compiler) compile() (*dif.Interior, Report, error) {
	in := c.in
	log := c.b.log

	bounds := math.EmptyBox()
	for _, f := range c.faces {
		bounds = bounds.Union(f.bounds)
	}
	in.BoundingBox = bounds.Pad(boundsPadding)
	in.BoundingSphere = math.BoundingSphere(bounds)

	start := time.Now()
	groups := c.groupHulls()
	for i, g := range groups {
		c.b.report(i+1, len(groups), "Exporting hulls")
		c.exportHull(g)
	}
	if c.err != nil {
		return nil, Report{}, c.err
	}
	log.Debug("exported hulls",
		zap.Int("hulls", len(groups)),
		zap.Int("surfaces", len(in.Surfaces)),
		zap.Int("null_surfaces", len(in.NullSurfaces)),
		zap.Duration("elapsed", time.Since(start)),
	)

	start = time.Now()
	root := c.buildBSP()
	c.exportBSP(root)
	log.Debug("built BSP",
		zap.Int("nodes", len(in.BSPNodes)),
		zap.Int("solid_leaves", len(in.BSPSolidLeaves)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if len(in.Surfaces) > 0xFFFF {
		return nil, Report{}, fmt.Errorf("%w: %d surfaces exceed the zone surface limit", dif.ErrFieldOverflow, len(in.Surfaces))
	}
	in.Zones = []dif.Zone{{SurfaceCount: uint32(len(in.Surfaces))}}
	for i := range in.Surfaces {
		in.ZoneSurfaces = append(in.ZoneSurfaces, uint16(i))
	}

	if len(in.ConvexHulls) > 0xFFFF {
		return nil, Report{}, fmt.Errorf("%w: %d hulls exceed the coord bin limit", dif.ErrFieldOverflow, len(in.ConvexHulls))
	}
	c.exportCoordBins()

	if c.b.mbOnly {
		in.PolyListPlaneIndices = []uint16{0}
		in.PolyListPointIndices = []uint32{0}
		in.PolyListStringCharacters = []byte{0}
		in.HullPlaneIndices = []uint16{0}
		in.HullEmitStringIndices = []uint32{0}
		in.HullEmitStringCharacters = []byte{0}
	} else {
		c.exportPolyLists()
		in.HullEmitStringCharacters = c.emits.chars
	}
	if c.err != nil {
		return nil, Report{}, c.err
	}

	in.Points = c.points.items
	in.PointVisibilities = make([]uint8, len(in.Points))
	for i := range in.PointVisibilities {
		in.PointVisibilities[i] = 0xFF
	}
	in.Normals = c.planes.normals.items
	in.Planes = c.planes.planes
	in.TexGenEqs = c.texGens.eqs

	if err := in.Validate(); err != nil {
		return nil, Report{}, fmt.Errorf("compiled interior is inconsistent: %w", err)
	}

	report := coverage(in)
	report.BalanceFactor = root.balance()
	return in, report, nil
}

// material returns the index of name in the material list.
func (c *compiler) material(name string) uint16 {
	if i, ok := c.materials[name]; ok {
		return i
	}
	i := uint16(len(c.in.MaterialNames))
	c.in.MaterialNames = append(c.in.MaterialNames, name)
	c.materials[name] = i
	return i
}

// plane returns the reference for pl, failing once 15 bits are exhausted.
func (c *compiler) plane(pl math.Plane) uint16 {
	ref, ok := c.planes.add(pl)
	if !ok {
		c.fail(fmt.Errorf("%w: more than %d planes", dif.ErrFieldOverflow, maxPlanes))
	}
	return ref
}

func (c *compiler) exportCoordBins() {
	in := c.in
	box := in.BoundingBox
	size := box.Size()
	for i := range 16 {
		minX := box.Min.X + float32(i)*size.X/16
		maxX := box.Min.X + float32(i+1)*size.X/16
		for j := range 16 {
			minY := box.Min.Y + float32(j)*size.Y/16
			maxY := box.Min.Y + float32(j+1)*size.Y/16
			cell := math.Box{Min: math.Vec3{X: minX, Y: minY}, Max: math.Vec3{X: maxX, Y: maxY}}

			bin := &in.CoordBins[i*16+j]
			bin.Start = uint32(len(in.CoordBinIndices))
			for k, h := range in.ConvexHulls {
				if cell.OverlapsXY(h.Bounds) {
					in.CoordBinIndices = append(in.CoordBinIndices, uint16(k))
					bin.Count++
				}
			}
		}
	}
}

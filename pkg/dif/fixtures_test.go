package dif

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/difbuilder/pkg/math"
)

var testPNG = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x00"), pngFooter...)

// makeInterior returns a valid one-triangle interior.
func makeInterior() *Interior {
	in := NewInterior()
	in.BoundingBox = math.Box{Min: math.Vec3{X: -3, Y: -3, Z: -3}, Max: math.Vec3{X: 4, Y: 4, Z: 3}}
	in.BoundingSphere = math.BoundingSphere(in.BoundingBox)
	in.Normals = []math.Vec3{{Z: 1}}
	in.Planes = []Plane{{NormalIndex: 0, Distance: 0}}
	in.Points = []math.Vec3{{}, {X: 1}, {Y: 1}}
	in.PointVisibilities = []uint8{0xff, 0xff, 0xff}
	in.TexGenEqs = []TexGenEq{{
		PlaneX: math.Plane{Normal: math.Vec3{X: 1}},
		PlaneY: math.Plane{Normal: math.Vec3{Y: 1}, Distance: 0.5},
	}}
	in.BSPNodes = []BSPNode{{
		PlaneIndex: 0,
		Front:      BSPIndex{Leaf: true},
		Back:       BSPIndex{Leaf: true, Solid: true},
	}}
	in.BSPSolidLeaves = []BSPSolidLeaf{{SurfaceStart: 0, SurfaceCount: 1}}
	in.MaterialNames = []string{"grass"}
	in.Indices = []uint32{0, 1, 2}
	in.WindingIndices = []WindingIndex{{Start: 0, Count: 3}}
	in.Zones = []Zone{{SurfaceStart: 0, SurfaceCount: 1}}
	in.ZoneSurfaces = []uint16{0}
	in.Surfaces = []Surface{{
		WindingStart: 0,
		WindingCount: 3,
		Flags:        SurfaceOutsideVisible,
		FanMask:      0b111,
		MapSizeX:     32,
		MapSizeY:     32,
	}}
	in.NormalLMapIndices = []uint32{0}
	in.AlarmLMapIndices = []uint32{NoLightMap}
	in.SolidLeafSurfaces = []SurfaceRef{SurfaceRefTo(0)}
	in.ConvexHulls = []ConvexHull{{
		HullStart:    0,
		HullCount:    3,
		Bounds:       math.Box{Max: math.Vec3{X: 1, Y: 1}},
		SurfaceStart: 0,
		SurfaceCount: 1,
	}}
	in.HullEmitStringCharacters = []byte{0}
	in.HullIndices = []uint32{0, 1, 2}
	in.HullPlaneIndices = []uint16{0}
	in.HullEmitStringIndices = []uint32{0, 0, 0}
	in.HullSurfaceIndices = []SurfaceRef{SurfaceRefTo(0)}
	in.PolyListPlaneIndices = []uint16{0}
	in.PolyListPointIndices = []uint32{0}
	in.PolyListStringCharacters = []byte{0}
	for i := range in.CoordBins {
		in.CoordBins[i] = CoordBin{Start: 0, Count: 1}
	}
	in.CoordBinIndices = []uint16{0}
	return in
}

// makeDIF returns a DIF exercising every record type.
func makeDIF(t *testing.T) *DIF {
	t.Helper()
	d := New(makeInterior())
	d.Preview = testPNG

	_, err := d.AddTrigger(Trigger{
		Name:       "MustChange",
		Datablock:  "TriggerGotoTarget",
		Properties: Dictionary{{Key: "targetTime", Value: "1500"}},
		Polyhedron: BoxPolyhedron(math.Vec3{X: 2, Y: 3, Z: 4}),
		Offset:     math.Vec3{X: 10, Y: -2, Z: 1},
	})
	require.NoError(t, err)

	_, err = d.AddPathedInterior(makeInterior(), Path{
		Markers: []WayPoint{
			{Position: math.Vec3{}, MSToNext: 1000},
			{Position: math.Vec3{Z: 5}, MSToNext: 2000, Smoothing: SmoothingSpline},
		},
	})
	require.NoError(t, err)
	require.NoError(t, d.LinkTrigger(0, 0))

	require.NoError(t, d.AddGameEntity(GameEntity{
		Datablock:  "GemItem",
		GameClass:  "Item",
		Position:   math.Vec3{X: 1, Y: 2, Z: 3},
		Properties: Dictionary{{Key: "skin", Value: "red"}},
	}))

	d.ForceFields = []ForceField{{
		Version:           1,
		Name:              "field",
		Triggers:          []string{"MustChange"},
		BoundingBox:       math.Box{Max: math.Vec3{X: 1, Y: 1, Z: 1}},
		BoundingSphere:    math.Sphere{Origin: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, Radius: 1},
		Normals:           []math.Vec3{{X: 1}},
		Planes:            []ForceFieldPlane{{NormalIndex: 0, Distance: -1}},
		BSPNodes:          []ForceFieldBSPNode{{PlaneIndex: 0, Front: 0x8000, Back: 0xC000}},
		BSPSolidLeaves:    []BSPSolidLeaf{{SurfaceStart: 0, SurfaceCount: 1}},
		Indices:           []uint32{0, 1, 2},
		Surfaces:          []ForceFieldSurface{{WindingStart: 0, WindingCount: 3, Flags: 0x10, FanMask: 7}},
		SolidLeafSurfaces: []uint32{0},
		Color:             Color{R: 255, A: 128},
	}}
	d.AISpecialNodes = []AISpecialNode{{Name: "node", Position: math.Vec3{X: 4}}}
	d.VehicleCollision = &VehicleCollision{
		Version:     1,
		ConvexHulls: []ConvexHull{{HullCount: 1, Bounds: math.Box{Max: math.Vec3{X: 1}}}},
		HullIndices: []uint32{0},
		NullSurfaces: []NullSurface{
			{WindingStart: 0, PlaneIndex: 0, Flags: SurfaceOutsideVisible, WindingCount: 3},
		},
		Points:         []math.Vec3{{}, {X: 1}, {Y: 1}},
		Planes:         []math.Plane{{Normal: math.Vec3{Z: 1}}},
		Windings:       []uint32{0, 1, 2},
		WindingIndices: []WindingIndex{{Start: 0, Count: 3}},
	}
	return d
}

// fitted returns what a DIF looks like after a trip through version v.
func fitted(d *DIF, v Version) *DIF {
	out := *d
	if !v.TriggerProperties {
		out.Triggers = make([]Trigger, len(d.Triggers))
		for i, t := range d.Triggers {
			t.Properties = nil
			out.Triggers[i] = t
		}
	}
	if !v.GameEntities {
		out.GameEntities = nil
	}
	return &out
}

package dif

import (
	"fmt"

	"github.com/Faultbox/difbuilder/pkg/math"
)

// Trigger is a named volume that fires datablock callbacks.
type Trigger struct {
	Name       string
	Datablock  string
	Properties Dictionary // only stored by MBG
	Polyhedron Polyhedron
	Offset     math.Vec3 // world position
}

// Polyhedron is the convex volume of a trigger.
type Polyhedron struct {
	Points []math.Vec3
	Planes []math.Plane
	Edges  []PolyhedronEdge
}

// PolyhedronEdge joins two points and separates two planes.
type PolyhedronEdge struct {
	Face0, Face1     uint32
	Vertex0, Vertex1 uint32
}

// BoxPolyhedron returns the polyhedron of an axis-aligned box with its
// minimum corner at the origin and the given extents. Planes face outward.
func BoxPolyhedron(extents math.Vec3) Polyhedron {
	x, y, z := extents.X, extents.Y, extents.Z
	// Corner i has X set by bit 0, Y by bit 1 and Z by bit 2.
	points := make([]math.Vec3, 8)
	for i := range points {
		var p math.Vec3
		if i&1 != 0 {
			p.X = x
		}
		if i&2 != 0 {
			p.Y = y
		}
		if i&4 != 0 {
			p.Z = z
		}
		points[i] = p
	}
	planes := []math.Plane{
		{Normal: math.Vec3{X: -1}, Distance: 0}, // 0: -X
		{Normal: math.Vec3{X: 1}, Distance: -x}, // 1: +X
		{Normal: math.Vec3{Y: -1}, Distance: 0}, // 2: -Y
		{Normal: math.Vec3{Y: 1}, Distance: -y}, // 3: +Y
		{Normal: math.Vec3{Z: -1}, Distance: 0}, // 4: -Z
		{Normal: math.Vec3{Z: 1}, Distance: -z}, // 5: +Z
	}
	var edges []PolyhedronEdge
	for axis := 0; axis < 3; axis++ {
		bit := 1 << axis
		o1, o2 := (axis+1)%3, (axis+2)%3
		for _, hi1 := range []bool{false, true} {
			for _, hi2 := range []bool{false, true} {
				v0 := 0
				if hi1 {
					v0 |= 1 << o1
				}
				if hi2 {
					v0 |= 1 << o2
				}
				edges = append(edges, PolyhedronEdge{
					Face0:   uint32(boxFace(o1, hi1)),
					Face1:   uint32(boxFace(o2, hi2)),
					Vertex0: uint32(v0),
					Vertex1: uint32(v0 | bit),
				})
			}
		}
	}
	return Polyhedron{Points: points, Planes: planes, Edges: edges}
}

func boxFace(axis int, high bool) int {
	if high {
		return axis*2 + 1
	}
	return axis * 2
}

// GameEntity is a scripted object placed by the level.
type GameEntity struct {
	Datablock  string
	GameClass  string
	Position   math.Vec3
	Properties Dictionary
}

// SmoothingType selects how a path follower moves between markers.
type SmoothingType uint32

const (
	SmoothingLinear     SmoothingType = 0
	SmoothingSpline     SmoothingType = 1
	SmoothingAccelerate SmoothingType = 2
)

// String returns the smoothing name.
func (s SmoothingType) String() string {
	switch s {
	case SmoothingLinear:
		return "Linear"
	case SmoothingSpline:
		return "Spline"
	case SmoothingAccelerate:
		return "Accelerate"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(s))
	}
}

// WayPoint is one marker on a moving platform path.
type WayPoint struct {
	Position  math.Vec3
	Rotation  math.Quat
	MSToNext  uint32
	Smoothing SmoothingType
}

// PathFollower moves a sub-object interior along its markers.
type PathFollower struct {
	Name          string
	Datablock     string
	InteriorIndex uint32 // into DIF.SubObjects
	Offset        math.Vec3
	Properties    Dictionary
	TriggerIDs    []uint32
	WayPoints     []WayPoint
	TotalMS       uint32
}

// ForceField is a colored BSP volume toggled by triggers.
type ForceField struct {
	Version           uint32
	Name              string
	Triggers          []string
	BoundingBox       math.Box
	BoundingSphere    math.Sphere
	Normals           []math.Vec3
	Planes            []ForceFieldPlane
	BSPNodes          []ForceFieldBSPNode
	BSPSolidLeaves    []BSPSolidLeaf
	Indices           []uint32
	Surfaces          []ForceFieldSurface
	SolidLeafSurfaces []uint32
	Color             Color
}

// ForceFieldPlane references a force field normal.
type ForceFieldPlane struct {
	NormalIndex uint32
	Distance    float32
}

// ForceFieldBSPNode is a BSP node with 16-bit children.
type ForceFieldBSPNode struct {
	PlaneIndex uint16
	Front      uint16
	Back       uint16
}

// ForceFieldSurface is one polygon of a force field.
type ForceFieldSurface struct {
	WindingStart uint32
	WindingCount uint8
	PlaneIndex   uint16
	Flags        uint8
	FanMask      uint32
}

// AISpecialNode is a named navigation hint.
type AISpecialNode struct {
	Name     string
	Position math.Vec3
}

// VehicleCollision is the simplified hull set vehicles collide against.
type VehicleCollision struct {
	Version                  uint32
	ConvexHulls              []ConvexHull // StaticMesh is not stored
	HullEmitStringCharacters []byte
	HullIndices              []uint32
	HullPlaneIndices         []uint16
	HullEmitStringIndices    []uint32
	HullSurfaceIndices       []uint32
	PolyListPlaneIndices     []uint16
	PolyListPointIndices     []uint32
	PolyListStringCharacters []byte
	NullSurfaces             []NullSurface // WindingCount is always 32-bit
	Points                   []math.Vec3
	Planes                   []math.Plane
	Windings                 []uint32
	WindingIndices           []WindingIndex
}

package dif

import (
	"github.com/Faultbox/difbuilder/pkg/math"
)

// CoordBinCount is the fixed number of XY coordinate bins (16x16).
const CoordBinCount = 256

// Interior is one compiled interior: geometry pools, collision data and
// lighting records. Index fields refer into the pools of the same Interior.
type Interior struct {
	DetailLevel          uint32
	MinPixels            uint32
	BoundingBox          math.Box
	BoundingSphere       math.Sphere
	HasAlarmState        uint8
	NumLightStateEntries uint32

	Normals           []math.Vec3
	Planes            []Plane
	Points            []math.Vec3
	PointVisibilities []uint8
	TexGenEqs         []TexGenEq
	BSPNodes          []BSPNode
	BSPSolidLeaves    []BSPSolidLeaf

	MaterialNames     []string
	Indices           []uint32
	WindingIndices    []WindingIndex
	Edges             []Edge // interior 12+
	Zones             []Zone
	ZoneSurfaces      []uint16
	ZoneStaticMeshes  []uint32 // interior 12+
	ZonePortalLists   []uint16
	Portals           []Portal
	Surfaces          []Surface
	NormalLMapIndices []uint32
	AlarmLMapIndices  []uint32
	NullSurfaces      []NullSurface
	LightMaps         []LightMap
	SolidLeafSurfaces []SurfaceRef
	AnimatedLights    []AnimatedLight
	LightStates       []LightState
	StateDatas        []StateData
	StateDataBuffers  []StateData
	StateDataFlags    uint32
	NameBuffer        []byte

	ConvexHulls              []ConvexHull
	HullEmitStringCharacters []byte
	HullIndices              []uint32
	HullPlaneIndices         []uint16
	HullEmitStringIndices    []uint32
	HullSurfaceIndices       []SurfaceRef
	PolyListPlaneIndices     []uint16
	PolyListPointIndices     []uint32
	PolyListStringCharacters []byte
	CoordBins                [CoordBinCount]CoordBin
	CoordBinIndices          []uint16
	CoordBinMode             uint32

	BaseAmbientColor  Color
	AlarmAmbientColor Color

	TexNormals       []math.Vec3 // interior 11+
	TexMatrices      []TexMatrix // interior 11+
	TexMatrixIndices []uint32    // interior 11+

	ExtendedLightMapData     uint32
	LightMapBorderSize       uint32
	ExtendedLightMapReserved uint32

	// LayoutVersion is the interior version the record was read with when it
	// differs from the policy's own. Zero writes the policy's layout.
	LayoutVersion uint32
	// CompactLists maps the 1-based position of every list stored in the
	// engine's compact count form to its parameter byte. Nil writes all
	// lists in plain form.
	CompactLists  map[int]uint8
}

// Plane references a shared normal plus its own distance.
type Plane struct {
	NormalIndex uint16
	Distance    float32
}

// TexGenEq maps a point to texture coordinates: u = PlaneX·p + d, v = PlaneY·p + d.
type TexGenEq struct {
	PlaneX math.Plane
	PlaneY math.Plane
}

// BSPIndex is a BSP node child: another node, an empty leaf or a solid leaf.
type BSPIndex struct {
	Index uint32
	Leaf  bool
	Solid bool
}

// BSPNode splits space by a plane; the front child lies on the normal side.
type BSPNode struct {
	PlaneIndex uint16
	Front      BSPIndex
	Back       BSPIndex
}

// BSPSolidLeaf lists the surfaces bounding a solid region of the BSP.
type BSPSolidLeaf struct {
	SurfaceStart uint32 // into SolidLeafSurfaces
	SurfaceCount uint16
}

// WindingIndex is a range into Indices.
type WindingIndex struct {
	Start uint32
	Count uint32
}

// Edge joins two points shared by two surfaces.
type Edge struct {
	Point0, Point1     int32
	Surface0, Surface1 int32
}

// Zone groups surfaces and portals for visibility.
type Zone struct {
	PortalStart     uint16
	PortalCount     uint16
	SurfaceStart    uint32
	SurfaceCount    uint32
	StaticMeshStart uint32 // interior 12+
	StaticMeshCount uint32 // interior 12+
}

// Portal connects two zones through a triangle fan.
type Portal struct {
	PlaneIndex  uint16
	TriFanCount uint16
	TriFanStart uint32
	ZoneFront   uint16
	ZoneBack    uint16
}

// SurfaceFlags are the per-surface rendering flags.
type SurfaceFlags uint8

const (
	SurfaceDetail          SurfaceFlags = 1 << 0
	SurfaceAmbiguous       SurfaceFlags = 1 << 1
	SurfaceOrphan          SurfaceFlags = 1 << 2
	SurfaceSharedLightMaps SurfaceFlags = 1 << 3
	SurfaceOutsideVisible  SurfaceFlags = 1 << 4

	surfaceFlagsMask = SurfaceDetail | SurfaceAmbiguous | SurfaceOrphan |
		SurfaceSharedLightMaps | SurfaceOutsideVisible
)

// Valid reports whether only known bits are set.
func (f SurfaceFlags) Valid() bool {
	return f&^surfaceFlagsMask == 0
}

// SurfaceLightMap holds the light map placement of a surface.
type SurfaceLightMap struct {
	FinalWord       uint16
	TexGenXDistance float32
	TexGenYDistance float32
}

// Surface is one rendered polygon.
type Surface struct {
	WindingStart        uint32 // into Indices
	WindingCount        uint32
	PlaneIndex          uint16
	PlaneFlipped        bool
	TextureIndex        uint16 // into MaterialNames
	TexGenIndex         uint32
	Flags               SurfaceFlags
	FanMask             uint32
	LightMap            SurfaceLightMap
	LightCount          uint16
	LightStateInfoStart uint32
	MapOffsetX          uint32
	MapOffsetY          uint32
	MapSizeX            uint32
	MapSizeY            uint32
	DirMapPad           uint8 // TGEA/T3D only
}

// NullSurface is collision-only geometry with no material.
type NullSurface struct {
	WindingStart uint32
	PlaneIndex   uint16 // may carry the 0x8000 flip bit
	Flags        SurfaceFlags
	WindingCount uint32
}

// LightMap is a PNG light map. LightDirMap is only stored by TGEA/T3D.
type LightMap struct {
	LightMap    []byte
	LightDirMap []byte
	Keep        uint8
}

// SurfaceRef refers to a surface or, with the null bit set, a null surface.
type SurfaceRef uint32

const nullSurfaceBit SurfaceRef = 0x80000000

// SurfaceRefTo returns a reference to surface i.
func SurfaceRefTo(i int) SurfaceRef { return SurfaceRef(i) }

// NullSurfaceRefTo returns a reference to null surface i.
func NullSurfaceRefTo(i int) SurfaceRef { return nullSurfaceBit | SurfaceRef(i) }

// IsNull reports whether the reference points into NullSurfaces.
func (r SurfaceRef) IsNull() bool { return r&nullSurfaceBit != 0 }

// Index returns the referenced index.
func (r SurfaceRef) Index() int { return int(r & 0xFFFF) }

// AnimatedLight is a named light with a sequence of states.
type AnimatedLight struct {
	NameIndex  uint32
	StateIndex uint32
	StateCount uint16
	Flags      uint16
	Duration   uint32
}

// LightState is one color step of an animated light.
type LightState struct {
	Red, Green, Blue uint8
	ActiveTime       uint32
	DataIndex        uint32
	DataCount        uint16
}

// StateData links a light state to a surface light map.
type StateData struct {
	SurfaceIndex    uint32
	MapIndex        uint32
	LightStateIndex uint16
}

// ConvexHull is one collision hull. Bounds is stored as min/max per axis.
type ConvexHull struct {
	HullStart           uint32 // into HullIndices and HullEmitStringIndices
	HullCount           uint16
	Bounds              math.Box
	SurfaceStart        uint32 // into HullSurfaceIndices
	SurfaceCount        uint16
	PlaneStart          uint32 // into HullPlaneIndices
	PolyListPlaneStart  uint32
	PolyListPointStart  uint32
	PolyListStringStart uint32
	StaticMesh          uint8 // interior 12+
}

// CoordBin lists the hulls overlapping one XY cell.
type CoordBin struct {
	Start uint32 // into CoordBinIndices
	Count uint32
}

// Color is an 8-bit RGBA color (ColorI).
type Color struct {
	R, G, B, A uint8
}

// TexMatrix indexes the tangent, normal and bitangent of a surface.
type TexMatrix struct {
	T, N, B int32
}

// NewInterior returns an empty interior with the defaults the engine expects.
func NewInterior() *Interior {
	return &Interior{
		MinPixels:         250,
		BaseAmbientColor:  Color{A: 255},
		AlarmAmbientColor: Color{A: 255},
	}
}

// Clone returns a deep copy.
func (in *Interior) Clone() (*Interior, error) {
	return deepCopy(in)
}

package dif

import (
	"fmt"
	"sort"
)

// FileVersion is the only top-level DIF version this package reads and writes.
const FileVersion uint32 = 44

// MaxInteriorVersion is the newest interior layout the codec understands.
const MaxInteriorVersion uint32 = 14

// Engine identifies the Torque engine family a DIF targets.
type Engine uint8

const (
	EngineMBG  Engine = iota + 1 // Marble Blast Gold
	EngineTGE                    // Torque Game Engine
	EngineTGEA                   // Torque Game Engine Advanced
	EngineT3D                    // Torque 3D
)

// String returns the engine name.
func (e Engine) String() string {
	switch e {
	case EngineMBG:
		return "MBG"
	case EngineTGE:
		return "TGE"
	case EngineTGEA:
		return "TGEA"
	case EngineT3D:
		return "T3D"
	default:
		return fmt.Sprintf("Unknown(%d)", e)
	}
}

// Version is one entry of the version policy table. Everything the codec
// varies by target is answered by a Version method.
type Version struct {
	Tag               string
	Engine            Engine
	DIF               uint32 // top-level file version
	Interior          uint32 // interior layout version
	MaterialList      uint8  // material list version byte
	GameEntities      bool   // game entity block may be written
	TriggerProperties bool   // triggers carry a property dictionary
}

// Version tags accepted by Lookup.
const (
	TagMBG  = "mbg"
	TagTGE  = "tge"
	TagTGEA = "tgea"
	TagT3D  = "t3d"
)

// DefaultTag is the version written when the caller does not choose one.
const DefaultTag = TagMBG

var versionTable = map[string]Version{
	TagMBG:  {Tag: TagMBG, Engine: EngineMBG, DIF: FileVersion, Interior: 0, MaterialList: 1, GameEntities: true, TriggerProperties: true},
	TagTGE:  {Tag: TagTGE, Engine: EngineTGE, DIF: FileVersion, Interior: 0, MaterialList: 1},
	TagTGEA: {Tag: TagTGEA, Engine: EngineTGEA, DIF: FileVersion, Interior: 14, MaterialList: 1},
	TagT3D:  {Tag: TagT3D, Engine: EngineT3D, DIF: FileVersion, Interior: 14, MaterialList: 1, GameEntities: true},
}

// detectOrder is the order Read tries policies in. Narrower policies of the
// same interior version come first so ambiguous files report the plainer tag.
var detectOrder = []string{TagMBG, TagTGE, TagTGEA, TagT3D}

// Lookup returns the policy for a version tag.
func Lookup(tag string) (Version, error) {
	v, ok := versionTable[tag]
	if !ok {
		return Version{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, tag)
	}
	return v, nil
}

// Tags returns every supported version tag, sorted.
func Tags() []string {
	tags := make([]string, 0, len(versionTable))
	for tag := range versionTable {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// String returns the tag with its engine and interior version.
func (v Version) String() string {
	return fmt.Sprintf("%s (%s, dif %d, interior %d)", v.Tag, v.Engine, v.DIF, v.Interior)
}

// HasEdges reports whether interiors carry the edge list and zone static mesh fields.
func (v Version) HasEdges() bool { return v.Interior >= 12 }

// HasHullStaticMeshFlag reports whether convex hulls end with a static mesh byte.
func (v Version) HasHullStaticMeshFlag() bool { return v.Interior >= 12 }

// WideSurfaceFields reports whether surface winding counts, light map
// offsets/sizes and light map indices are 32-bit rather than 8-bit.
func (v Version) WideSurfaceFields() bool { return v.Interior >= 13 }

// WideBSPIndices reports whether BSP child indices are 32-bit.
func (v Version) WideBSPIndices() bool { return v.Interior >= 14 }

// HasStaticMeshes reports whether interiors carry a static mesh list.
func (v Version) HasStaticMeshes() bool { return v.Interior >= 10 }

// HasTexMatrices reports whether tex normals and matrices are real lists
// instead of single zero words.
func (v Version) HasTexMatrices() bool { return v.Interior >= 11 }

// HasLightDirMaps reports whether every light map is followed by a
// direction map, and every surface by a padding byte.
func (v Version) HasLightDirMaps() bool {
	return v.Engine != EngineMBG && v.Engine != EngineTGE
}

// minAdvancedInterior is the oldest interior layout TGEA and T3D files carry.
const minAdvancedInterior uint32 = 10

// AcceptsInterior reports whether files under v may hold interiors stored
// with layout version iv. TGEA and T3D read every layout from 10 up to
// MaxInteriorVersion; the other policies only their own.
func (v Version) AcceptsInterior(iv uint32) bool {
	switch v.Engine {
	case EngineTGEA, EngineT3D:
		return iv >= minAdvancedInterior && iv <= MaxInteriorVersion
	default:
		return iv == v.Interior
	}
}

// bspFlags returns the leaf and solid marker bits of a BSP child index and
// the first index value that no longer fits beside them.
func (v Version) bspFlags() (leaf, solid, limit uint32) {
	if v.WideBSPIndices() {
		return 0x80000, 0x40000, 0x40000
	}
	return 0x8000, 0x4000, 0x4000
}

package dif

import (
	"github.com/Faultbox/difbuilder/pkg/math"
)

func readInterior(d *decoder) *Interior {
	v := d.version
	in := &Interior{}

	defer d.scope()()

	d.enter("interior header")
	if iv := d.u32(); d.err == nil && iv != v.Interior {
		switch {
		case iv > MaxInteriorVersion:
			d.fail(ErrUnsupportedVersion, "interior version %d", iv)
		case !v.AcceptsInterior(iv):
			d.fail(ErrUnsupportedVersion, "interior version %d does not match %s", iv, v.Tag)
		default:
			in.LayoutVersion = iv
			v.Interior = iv
			prev := d.version
			d.version = v
			defer func() { d.version = prev }()
		}
	}
	in.DetailLevel = d.u32()
	in.MinPixels = d.u32()
	in.BoundingBox = d.box()
	in.BoundingSphere = d.sphere()
	in.HasAlarmState = d.u8()
	in.NumLightStateEntries = d.u32()

	d.enter("normals")
	in.Normals = readList(d, 12, (*decoder).vec3)
	d.enter("planes")
	in.Planes = readList(d, 6, func(d *decoder) Plane {
		return Plane{NormalIndex: d.u16(), Distance: d.f32()}
	})
	d.enter("points")
	in.Points = readList(d, 12, (*decoder).vec3)
	d.enter("point visibilities")
	in.PointVisibilities = d.readU8List()
	d.enter("texgens")
	in.TexGenEqs = readList(d, 32, func(d *decoder) TexGenEq {
		return TexGenEq{PlaneX: d.plane(), PlaneY: d.plane()}
	})

	d.enter("BSP nodes")
	in.BSPNodes = readList(d, 6, readBSPNode)
	d.enter("BSP solid leaves")
	in.BSPSolidLeaves = readList(d, 6, readSolidLeaf)

	d.enter("material list")
	if mv := d.u8(); d.err == nil && mv != v.MaterialList {
		d.fail(ErrMalformedChunk, "version %d", mv)
	}
	in.MaterialNames = d.readStringList()
	d.enter("indices")
	in.Indices = d.readU32List(true)
	d.enter("winding indices")
	in.WindingIndices = readList(d, 8, readWindingIndex)
	if v.HasEdges() {
		d.enter("edges")
		in.Edges = readList(d, 16, func(d *decoder) Edge {
			return Edge{Point0: d.i32(), Point1: d.i32(), Surface0: d.i32(), Surface1: d.i32()}
		})
	}

	d.enter("zones")
	in.Zones = readList(d, 12, func(d *decoder) Zone {
		z := Zone{PortalStart: d.u16(), PortalCount: d.u16(), SurfaceStart: d.u32(), SurfaceCount: d.u32()}
		if v.HasEdges() {
			z.StaticMeshStart = d.u32()
			z.StaticMeshCount = d.u32()
		}
		return z
	})
	d.enter("zone surfaces")
	in.ZoneSurfaces = d.readU16List()
	if v.HasEdges() {
		d.enter("zone static meshes")
		in.ZoneStaticMeshes = readList(d, 4, (*decoder).u32)
	}
	d.enter("zone portal lists")
	in.ZonePortalLists = d.readU16List()
	d.enter("portals")
	in.Portals = readList(d, 12, func(d *decoder) Portal {
		return Portal{PlaneIndex: d.u16(), TriFanCount: d.u16(), TriFanStart: d.u32(), ZoneFront: d.u16(), ZoneBack: d.u16()}
	})

	d.enter("surfaces")
	in.Surfaces = readList(d, 27, readSurface)

	wide := v.WideSurfaceFields()
	d.enter("normal light map indices")
	in.NormalLMapIndices = d.readNarrowList(wide)
	d.enter("alarm light map indices")
	in.AlarmLMapIndices = d.readNarrowList(wide)

	d.enter("null surfaces")
	in.NullSurfaces = readList(d, 8, func(d *decoder) NullSurface {
		return readNullSurface(d, wide)
	})
	d.enter("light maps")
	in.LightMaps = readList(d, 9, readLightMap)

	d.enter("solid leaf surfaces")
	in.SolidLeafSurfaces = surfaceRefs(d.readU32List(true))
	d.enter("animated lights")
	in.AnimatedLights = readList(d, 16, func(d *decoder) AnimatedLight {
		return AnimatedLight{NameIndex: d.u32(), StateIndex: d.u32(), StateCount: d.u16(), Flags: d.u16(), Duration: d.u32()}
	})
	d.enter("light states")
	in.LightStates = readList(d, 13, func(d *decoder) LightState {
		return LightState{Red: d.u8(), Green: d.u8(), Blue: d.u8(), ActiveTime: d.u32(), DataIndex: d.u32(), DataCount: d.u16()}
	})
	d.enter("state datas")
	in.StateDatas = readList(d, 10, readStateData)

	// The flags word sits between the count and the items.
	d.enter("state data buffers")
	n := d.u32()
	in.StateDataFlags = d.u32()
	if d.err == nil && uint64(n)*10 > uint64(d.remaining()) {
		d.fail(ErrTruncatedInput, "count %d exceeds remaining %d bytes", n, d.remaining())
	}
	for i := uint32(0); i < n && d.err == nil; i++ {
		in.StateDataBuffers = append(in.StateDataBuffers, readStateData(d))
	}

	d.enter("name buffer")
	in.NameBuffer = d.readU8List()
	d.enter("sub-objects")
	if n, _ := d.count(1); n != 0 {
		d.fail(ErrMalformedChunk, "%d embedded sub-objects are not supported", n)
	}

	d.enter("convex hulls")
	staticFlag := v.HasHullStaticMeshFlag()
	in.ConvexHulls = readList(d, 50, func(d *decoder) ConvexHull {
		return readConvexHull(d, staticFlag)
	})
	d.enter("hull emit strings")
	in.HullEmitStringCharacters = d.readU8List()
	d.enter("hull indices")
	in.HullIndices = d.readU32List(true)
	d.enter("hull plane indices")
	in.HullPlaneIndices = d.readU16List()
	d.enter("hull emit string indices")
	in.HullEmitStringIndices = d.readU32List(true)
	d.enter("hull surface indices")
	in.HullSurfaceIndices = surfaceRefs(d.readU32List(true))
	d.enter("poly list planes")
	in.PolyListPlaneIndices = d.readU16List()
	d.enter("poly list points")
	in.PolyListPointIndices = d.readU32List(true)
	d.enter("poly list strings")
	in.PolyListStringCharacters = d.readU8List()

	d.enter("coord bins")
	for i := range in.CoordBins {
		in.CoordBins[i] = CoordBin{Start: d.u32(), Count: d.u32()}
	}
	d.enter("coord bin indices")
	in.CoordBinIndices = d.readU16List()
	in.CoordBinMode = d.u32()

	d.enter("ambient colors")
	in.BaseAmbientColor = d.color()
	in.AlarmAmbientColor = d.color()

	if v.HasStaticMeshes() {
		d.enter("static meshes")
		if n, _ := d.count(1); n != 0 {
			d.fail(ErrMalformedChunk, "%d static meshes are not supported", n)
		}
	}

	d.enter("tex matrices")
	if v.HasTexMatrices() {
		in.TexNormals = readList(d, 12, (*decoder).vec3)
		in.TexMatrices = readList(d, 12, func(d *decoder) TexMatrix {
			return TexMatrix{T: d.i32(), N: d.i32(), B: d.i32()}
		})
		in.TexMatrixIndices = readList(d, 4, (*decoder).u32)
	} else {
		for range 3 {
			if d.u32() != 0 && d.err == nil {
				d.fail(ErrMalformedChunk, "tex matrix data on an interior without tex matrices")
			}
		}
	}

	d.enter("extended light map data")
	in.ExtendedLightMapData = d.u32()
	if in.ExtendedLightMapData != 0 {
		in.LightMapBorderSize = d.u32()
		in.ExtendedLightMapReserved = d.u32()
	}

	if d.err != nil {
		return nil
	}
	in.CompactLists = d.compact
	return in
}

func writeInterior(e *encoder, in *Interior) {
	v := e.version

	e.enter("interior header")
	if iv := in.LayoutVersion; iv != 0 && iv != v.Interior {
		if !v.AcceptsInterior(iv) {
			e.fail(ErrUnsupportedVersion, "interior version %d under %s", iv, v.Tag)
			return
		}
		v.Interior = iv
		prev := e.version
		e.version = v
		defer func() { e.version = prev }()
	}
	defer e.scope(in.CompactLists)()

	e.u32(v.Interior)
	e.u32(in.DetailLevel)
	e.u32(in.MinPixels)
	e.box(in.BoundingBox)
	e.sphere(in.BoundingSphere)
	e.u8(in.HasAlarmState)
	e.u32(in.NumLightStateEntries)

	e.enter("geometry")
	writeList(e, in.Normals, (*encoder).vec3)
	writeList(e, in.Planes, func(e *encoder, p Plane) {
		e.u16(p.NormalIndex)
		e.f32(p.Distance)
	})
	writeList(e, in.Points, (*encoder).vec3)
	e.writeU8List(in.PointVisibilities)
	writeList(e, in.TexGenEqs, func(e *encoder, t TexGenEq) {
		e.plane(t.PlaneX)
		e.plane(t.PlaneY)
	})

	e.enter("BSP")
	writeList(e, in.BSPNodes, writeBSPNode)
	writeList(e, in.BSPSolidLeaves, writeSolidLeaf)

	e.enter("materials")
	e.u8(v.MaterialList)
	e.writeStringList(in.MaterialNames)
	e.writeIndexList(in.Indices)
	writeList(e, in.WindingIndices, writeWindingIndex)
	if v.HasEdges() {
		writeList(e, in.Edges, func(e *encoder, ed Edge) {
			e.i32(ed.Point0)
			e.i32(ed.Point1)
			e.i32(ed.Surface0)
			e.i32(ed.Surface1)
		})
	}

	e.enter("zones")
	writeList(e, in.Zones, func(e *encoder, z Zone) {
		e.u16(z.PortalStart)
		e.u16(z.PortalCount)
		e.u32(z.SurfaceStart)
		e.u32(z.SurfaceCount)
		if v.HasEdges() {
			e.u32(z.StaticMeshStart)
			e.u32(z.StaticMeshCount)
		}
	})
	e.writeU16List(in.ZoneSurfaces)
	if v.HasEdges() {
		e.writeU32List(in.ZoneStaticMeshes)
	}
	e.writeU16List(in.ZonePortalLists)
	writeList(e, in.Portals, func(e *encoder, p Portal) {
		e.u16(p.PlaneIndex)
		e.u16(p.TriFanCount)
		e.u32(p.TriFanStart)
		e.u16(p.ZoneFront)
		e.u16(p.ZoneBack)
	})

	e.enter("surfaces")
	writeList(e, in.Surfaces, writeSurface)

	wide := v.WideSurfaceFields()
	e.enter("light map indices")
	e.writeNarrowList(in.NormalLMapIndices, wide, "normal light map index")
	e.writeNarrowList(in.AlarmLMapIndices, wide, "alarm light map index")

	e.enter("null surfaces")
	writeList(e, in.NullSurfaces, func(e *encoder, ns NullSurface) {
		writeNullSurface(e, ns, wide)
	})
	e.enter("light maps")
	writeList(e, in.LightMaps, writeLightMap)

	e.enter("lighting")
	e.writeIndexList(surfaceRefWords(in.SolidLeafSurfaces))
	writeList(e, in.AnimatedLights, func(e *encoder, l AnimatedLight) {
		e.u32(l.NameIndex)
		e.u32(l.StateIndex)
		e.u16(l.StateCount)
		e.u16(l.Flags)
		e.u32(l.Duration)
	})
	writeList(e, in.LightStates, func(e *encoder, s LightState) {
		e.u8(s.Red)
		e.u8(s.Green)
		e.u8(s.Blue)
		e.u32(s.ActiveTime)
		e.u32(s.DataIndex)
		e.u16(s.DataCount)
	})
	writeList(e, in.StateDatas, writeStateData)
	if e.length(len(in.StateDataBuffers)) {
		e.u32(uint32(len(in.StateDataBuffers)))
	}
	e.u32(in.StateDataFlags)
	for _, s := range in.StateDataBuffers {
		writeStateData(e, s)
	}
	e.writeU8List(in.NameBuffer)
	e.count(0) // sub-objects

	e.enter("convex hulls")
	staticFlag := v.HasHullStaticMeshFlag()
	writeList(e, in.ConvexHulls, func(e *encoder, h ConvexHull) {
		writeConvexHull(e, h, staticFlag)
	})
	e.writeU8List(in.HullEmitStringCharacters)
	e.writeIndexList(in.HullIndices)
	e.writeU16List(in.HullPlaneIndices)
	e.writeIndexList(in.HullEmitStringIndices)
	e.writeIndexList(surfaceRefWords(in.HullSurfaceIndices))
	e.writeU16List(in.PolyListPlaneIndices)
	e.writeIndexList(in.PolyListPointIndices)
	e.writeU8List(in.PolyListStringCharacters)

	e.enter("coord bins")
	for _, b := range in.CoordBins {
		e.u32(b.Start)
		e.u32(b.Count)
	}
	e.writeU16List(in.CoordBinIndices)
	e.u32(in.CoordBinMode)

	e.color(in.BaseAmbientColor)
	e.color(in.AlarmAmbientColor)
	if v.HasStaticMeshes() {
		e.count(0)
	}

	e.enter("tex matrices")
	if v.HasTexMatrices() {
		writeList(e, in.TexNormals, (*encoder).vec3)
		writeList(e, in.TexMatrices, func(e *encoder, m TexMatrix) {
			e.i32(m.T)
			e.i32(m.N)
			e.i32(m.B)
		})
		e.writeU32List(in.TexMatrixIndices)
	} else {
		if len(in.TexNormals)+len(in.TexMatrices)+len(in.TexMatrixIndices) != 0 {
			e.fail(ErrFieldOverflow, "tex matrices need interior version 11+")
		}
		e.u32(0)
		e.u32(0)
		e.u32(0)
	}

	e.u32(in.ExtendedLightMapData)
	if in.ExtendedLightMapData != 0 {
		e.u32(in.LightMapBorderSize)
		e.u32(in.ExtendedLightMapReserved)
	}
}

func readBSPIndex(d *decoder) BSPIndex {
	leaf, solid, limit := d.version.bspFlags()
	var raw uint32
	if d.version.WideBSPIndices() {
		raw = d.u32()
	} else {
		raw = uint32(d.u16())
	}
	b := BSPIndex{
		Index: raw &^ (leaf | solid),
		Leaf:  raw&leaf != 0,
		Solid: raw&solid != 0,
	}
	if b.Index >= limit {
		d.fail(ErrMalformedChunk, "BSP index %#x has unknown high bits", raw)
	}
	return b
}

func writeBSPIndex(e *encoder, b BSPIndex) {
	leaf, solid, limit := e.version.bspFlags()
	if b.Index >= limit {
		e.fail(ErrFieldOverflow, "BSP index %d exceeds %d", b.Index, limit-1)
		return
	}
	raw := b.Index
	if b.Leaf {
		raw |= leaf
	}
	if b.Solid {
		raw |= solid
	}
	if e.version.WideBSPIndices() {
		e.u32(raw)
	} else {
		e.u16(uint16(raw))
	}
}

func readBSPNode(d *decoder) BSPNode {
	return BSPNode{PlaneIndex: d.u16(), Front: readBSPIndex(d), Back: readBSPIndex(d)}
}

func writeBSPNode(e *encoder, n BSPNode) {
	e.u16(n.PlaneIndex)
	writeBSPIndex(e, n.Front)
	writeBSPIndex(e, n.Back)
}

func readSolidLeaf(d *decoder) BSPSolidLeaf {
	return BSPSolidLeaf{SurfaceStart: d.u32(), SurfaceCount: d.u16()}
}

func writeSolidLeaf(e *encoder, l BSPSolidLeaf) {
	e.u32(l.SurfaceStart)
	e.u16(l.SurfaceCount)
}

func readWindingIndex(d *decoder) WindingIndex {
	return WindingIndex{Start: d.u32(), Count: d.u32()}
}

func writeWindingIndex(e *encoder, w WindingIndex) {
	e.u32(w.Start)
	e.u32(w.Count)
}

func readStateData(d *decoder) StateData {
	return StateData{SurfaceIndex: d.u32(), MapIndex: d.u32(), LightStateIndex: d.u16()}
}

func writeStateData(e *encoder, s StateData) {
	e.u32(s.SurfaceIndex)
	e.u32(s.MapIndex)
	e.u16(s.LightStateIndex)
}

func readSurface(d *decoder) Surface {
	v := d.version
	wide := v.WideSurfaceFields()
	s := Surface{WindingStart: d.u32()}
	if wide {
		s.WindingCount = d.u32()
	} else {
		s.WindingCount = uint32(d.u8())
	}
	plane := d.u16()
	s.PlaneIndex = plane &^ 0x8000
	s.PlaneFlipped = plane&0x8000 != 0
	s.TextureIndex = d.u16()
	s.TexGenIndex = d.u32()
	s.Flags = SurfaceFlags(d.u8())
	if !s.Flags.Valid() {
		d.fail(ErrMalformedChunk, "unknown surface flags %#x", uint8(s.Flags))
	}
	s.FanMask = d.u32()
	s.LightMap = SurfaceLightMap{FinalWord: d.u16(), TexGenXDistance: d.f32(), TexGenYDistance: d.f32()}
	s.LightCount = d.u16()
	s.LightStateInfoStart = d.u32()
	if wide {
		s.MapOffsetX, s.MapOffsetY, s.MapSizeX, s.MapSizeY = d.u32(), d.u32(), d.u32(), d.u32()
	} else {
		s.MapOffsetX, s.MapOffsetY = uint32(d.u8()), uint32(d.u8())
		s.MapSizeX, s.MapSizeY = uint32(d.u8()), uint32(d.u8())
	}
	if v.HasLightDirMaps() {
		s.DirMapPad = d.u8()
	}
	return s
}

func writeSurface(e *encoder, s Surface) {
	v := e.version
	wide := v.WideSurfaceFields()
	if s.PlaneIndex&0x8000 != 0 {
		e.fail(ErrFieldOverflow, "surface plane index %d exceeds 15 bits", s.PlaneIndex)
		return
	}
	e.u32(s.WindingStart)
	e.sized(s.WindingCount, wide, "winding count")
	plane := s.PlaneIndex
	if s.PlaneFlipped {
		plane |= 0x8000
	}
	e.u16(plane)
	e.u16(s.TextureIndex)
	e.u32(s.TexGenIndex)
	e.u8(uint8(s.Flags))
	e.u32(s.FanMask)
	e.u16(s.LightMap.FinalWord)
	e.f32(s.LightMap.TexGenXDistance)
	e.f32(s.LightMap.TexGenYDistance)
	e.u16(s.LightCount)
	e.u32(s.LightStateInfoStart)
	e.sized(s.MapOffsetX, wide, "light map offset")
	e.sized(s.MapOffsetY, wide, "light map offset")
	e.sized(s.MapSizeX, wide, "light map size")
	e.sized(s.MapSizeY, wide, "light map size")
	if v.HasLightDirMaps() {
		e.u8(s.DirMapPad)
	}
}

func readNullSurface(d *decoder, wide bool) NullSurface {
	ns := NullSurface{WindingStart: d.u32(), PlaneIndex: d.u16(), Flags: SurfaceFlags(d.u8())}
	if !ns.Flags.Valid() {
		d.fail(ErrMalformedChunk, "unknown null surface flags %#x", uint8(ns.Flags))
	}
	if wide {
		ns.WindingCount = d.u32()
	} else {
		ns.WindingCount = uint32(d.u8())
	}
	return ns
}

func writeNullSurface(e *encoder, ns NullSurface, wide bool) {
	e.u32(ns.WindingStart)
	e.u16(ns.PlaneIndex)
	e.u8(uint8(ns.Flags))
	e.sized(ns.WindingCount, wide, "null surface winding count")
}

func readLightMap(d *decoder) LightMap {
	lm := LightMap{LightMap: d.png()}
	if d.version.HasLightDirMaps() {
		lm.LightDirMap = d.png()
	}
	lm.Keep = d.u8()
	return lm
}

func writeLightMap(e *encoder, lm LightMap) {
	e.png(lm.LightMap)
	if e.version.HasLightDirMaps() {
		e.png(lm.LightDirMap)
	}
	e.u8(lm.Keep)
}

func readConvexHull(d *decoder, staticFlag bool) ConvexHull {
	h := ConvexHull{HullStart: d.u32(), HullCount: d.u16()}
	var lo, hi math.Vec3
	lo.X, hi.X = d.f32(), d.f32()
	lo.Y, hi.Y = d.f32(), d.f32()
	lo.Z, hi.Z = d.f32(), d.f32()
	h.Bounds = math.Box{Min: lo, Max: hi}
	h.SurfaceStart = d.u32()
	h.SurfaceCount = d.u16()
	h.PlaneStart = d.u32()
	h.PolyListPlaneStart = d.u32()
	h.PolyListPointStart = d.u32()
	h.PolyListStringStart = d.u32()
	if staticFlag {
		h.StaticMesh = d.u8()
	}
	return h
}

func writeConvexHull(e *encoder, h ConvexHull, staticFlag bool) {
	e.u32(h.HullStart)
	e.u16(h.HullCount)
	e.f32(h.Bounds.Min.X)
	e.f32(h.Bounds.Max.X)
	e.f32(h.Bounds.Min.Y)
	e.f32(h.Bounds.Max.Y)
	e.f32(h.Bounds.Min.Z)
	e.f32(h.Bounds.Max.Z)
	e.u32(h.SurfaceStart)
	e.u16(h.SurfaceCount)
	e.u32(h.PlaneStart)
	e.u32(h.PolyListPlaneStart)
	e.u32(h.PolyListPointStart)
	e.u32(h.PolyListStringStart)
	if staticFlag {
		e.u8(h.StaticMesh)
	}
}

func surfaceRefs(words []uint32) []SurfaceRef {
	if words == nil {
		return nil
	}
	out := make([]SurfaceRef, len(words))
	for i, w := range words {
		out[i] = SurfaceRef(w)
	}
	return out
}

func surfaceRefWords(refs []SurfaceRef) []uint32 {
	out := make([]uint32, len(refs))
	for i, r := range refs {
		out[i] = uint32(r)
	}
	return out
}

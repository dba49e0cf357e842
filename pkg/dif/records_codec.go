package dif

func readDictionary(d *decoder) Dictionary {
	return readList(d, 2, func(d *decoder) Property {
		return Property{Key: d.str(), Value: d.str()}
	})
}

func writeDictionary(e *encoder, dict Dictionary) {
	writeList(e, dict, func(e *encoder, p Property) {
		e.str(p.Key)
		e.str(p.Value)
	})
}

func readPolyhedron(d *decoder) Polyhedron {
	return Polyhedron{
		Points: readList(d, 12, (*decoder).vec3),
		Planes: readList(d, 16, (*decoder).plane),
		Edges: readList(d, 16, func(d *decoder) PolyhedronEdge {
			return PolyhedronEdge{Face0: d.u32(), Face1: d.u32(), Vertex0: d.u32(), Vertex1: d.u32()}
		}),
	}
}

func writePolyhedron(e *encoder, p Polyhedron) {
	writeList(e, p.Points, (*encoder).vec3)
	writeList(e, p.Planes, (*encoder).plane)
	writeList(e, p.Edges, func(e *encoder, ed PolyhedronEdge) {
		e.u32(ed.Face0)
		e.u32(ed.Face1)
		e.u32(ed.Vertex0)
		e.u32(ed.Vertex1)
	})
}

func readTrigger(d *decoder) Trigger {
	t := Trigger{Name: d.str(), Datablock: d.str()}
	if d.version.TriggerProperties {
		t.Properties = readDictionary(d)
	}
	t.Polyhedron = readPolyhedron(d)
	t.Offset = d.vec3()
	return t
}

func writeTrigger(e *encoder, t Trigger) {
	e.str(t.Name)
	e.str(t.Datablock)
	if e.version.TriggerProperties {
		writeDictionary(e, t.Properties)
	}
	writePolyhedron(e, t.Polyhedron)
	e.vec3(t.Offset)
}

func readWayPoint(d *decoder) WayPoint {
	return WayPoint{Position: d.vec3(), Rotation: d.quat(), MSToNext: d.u32(), Smoothing: SmoothingType(d.u32())}
}

func writeWayPoint(e *encoder, w WayPoint) {
	e.vec3(w.Position)
	e.quat(w.Rotation)
	e.u32(w.MSToNext)
	e.u32(uint32(w.Smoothing))
}

func readPathFollower(d *decoder) PathFollower {
	return PathFollower{
		Name:          d.str(),
		Datablock:     d.str(),
		InteriorIndex: d.u32(),
		Offset:        d.vec3(),
		Properties:    readDictionary(d),
		TriggerIDs:    readList(d, 4, (*decoder).u32),
		WayPoints:     readList(d, 36, readWayPoint),
		TotalMS:       d.u32(),
	}
}

func writePathFollower(e *encoder, pf PathFollower) {
	e.str(pf.Name)
	e.str(pf.Datablock)
	e.u32(pf.InteriorIndex)
	e.vec3(pf.Offset)
	writeDictionary(e, pf.Properties)
	e.writeU32List(pf.TriggerIDs)
	writeList(e, pf.WayPoints, writeWayPoint)
	e.u32(pf.TotalMS)
}

func readForceField(d *decoder) ForceField {
	return ForceField{
		Version:        d.u32(),
		Name:           d.str(),
		Triggers:       d.readStringList(),
		BoundingBox:    d.box(),
		BoundingSphere: d.sphere(),
		Normals:        readList(d, 12, (*decoder).vec3),
		Planes: readList(d, 8, func(d *decoder) ForceFieldPlane {
			return ForceFieldPlane{NormalIndex: d.u32(), Distance: d.f32()}
		}),
		BSPNodes: readList(d, 6, func(d *decoder) ForceFieldBSPNode {
			return ForceFieldBSPNode{PlaneIndex: d.u16(), Front: d.u16(), Back: d.u16()}
		}),
		BSPSolidLeaves: readList(d, 6, readSolidLeaf),
		Indices:        readList(d, 4, (*decoder).u32),
		Surfaces: readList(d, 12, func(d *decoder) ForceFieldSurface {
			return ForceFieldSurface{WindingStart: d.u32(), WindingCount: d.u8(), PlaneIndex: d.u16(), Flags: d.u8(), FanMask: d.u32()}
		}),
		SolidLeafSurfaces: readList(d, 4, (*decoder).u32),
		Color:             d.color(),
	}
}

func writeForceField(e *encoder, ff ForceField) {
	e.u32(ff.Version)
	e.str(ff.Name)
	e.writeStringList(ff.Triggers)
	e.box(ff.BoundingBox)
	e.sphere(ff.BoundingSphere)
	writeList(e, ff.Normals, (*encoder).vec3)
	writeList(e, ff.Planes, func(e *encoder, p ForceFieldPlane) {
		e.u32(p.NormalIndex)
		e.f32(p.Distance)
	})
	writeList(e, ff.BSPNodes, func(e *encoder, n ForceFieldBSPNode) {
		e.u16(n.PlaneIndex)
		e.u16(n.Front)
		e.u16(n.Back)
	})
	writeList(e, ff.BSPSolidLeaves, writeSolidLeaf)
	e.writeU32List(ff.Indices)
	writeList(e, ff.Surfaces, func(e *encoder, s ForceFieldSurface) {
		e.u32(s.WindingStart)
		e.u8(s.WindingCount)
		e.u16(s.PlaneIndex)
		e.u8(s.Flags)
		e.u32(s.FanMask)
	})
	e.writeU32List(ff.SolidLeafSurfaces)
	e.color(ff.Color)
}

func readAISpecialNode(d *decoder) AISpecialNode {
	return AISpecialNode{Name: d.str(), Position: d.vec3()}
}

func writeAISpecialNode(e *encoder, n AISpecialNode) {
	e.str(n.Name)
	e.vec3(n.Position)
}

func readVehicleCollision(d *decoder) *VehicleCollision {
	vc := &VehicleCollision{Version: d.u32()}
	vc.ConvexHulls = readList(d, 50, func(d *decoder) ConvexHull {
		return readConvexHull(d, false)
	})
	vc.HullEmitStringCharacters = d.readU8List()
	vc.HullIndices = readList(d, 4, (*decoder).u32)
	vc.HullPlaneIndices = d.readU16List()
	vc.HullEmitStringIndices = readList(d, 4, (*decoder).u32)
	vc.HullSurfaceIndices = readList(d, 4, (*decoder).u32)
	vc.PolyListPlaneIndices = d.readU16List()
	vc.PolyListPointIndices = readList(d, 4, (*decoder).u32)
	vc.PolyListStringCharacters = d.readU8List()
	vc.NullSurfaces = readList(d, 11, func(d *decoder) NullSurface {
		return readNullSurface(d, true)
	})
	vc.Points = readList(d, 12, (*decoder).vec3)
	vc.Planes = readList(d, 16, (*decoder).plane)
	vc.Windings = readList(d, 4, (*decoder).u32)
	vc.WindingIndices = readList(d, 8, readWindingIndex)
	return vc
}

func writeVehicleCollision(e *encoder, vc *VehicleCollision) {
	e.u32(vc.Version)
	writeList(e, vc.ConvexHulls, func(e *encoder, h ConvexHull) {
		writeConvexHull(e, h, false)
	})
	e.writeU8List(vc.HullEmitStringCharacters)
	e.writeU32List(vc.HullIndices)
	e.writeU16List(vc.HullPlaneIndices)
	e.writeU32List(vc.HullEmitStringIndices)
	e.writeU32List(vc.HullSurfaceIndices)
	e.writeU16List(vc.PolyListPlaneIndices)
	e.writeU32List(vc.PolyListPointIndices)
	e.writeU8List(vc.PolyListStringCharacters)
	writeList(e, vc.NullSurfaces, func(e *encoder, ns NullSurface) {
		writeNullSurface(e, ns, true)
	})
	writeList(e, vc.Points, (*encoder).vec3)
	writeList(e, vc.Planes, (*encoder).plane)
	e.writeU32List(vc.Windings)
	writeList(e, vc.WindingIndices, writeWindingIndex)
}

func readGameEntity(d *decoder) GameEntity {
	return GameEntity{
		Datablock:  d.str(),
		GameClass:  d.str(),
		Position:   d.vec3(),
		Properties: readDictionary(d),
	}
}

func writeGameEntity(e *encoder, g GameEntity) {
	e.str(g.Datablock)
	e.str(g.GameClass)
	e.vec3(g.Position)
	writeDictionary(e, g.Properties)
}

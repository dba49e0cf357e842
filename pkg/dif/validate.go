package dif

import "fmt"

// Validate checks every cross-reference of the DIF.
func (d *DIF) Validate() error {
	for i, in := range d.Interiors {
		if in == nil {
			return fmt.Errorf("%w: interior %d is nil", ErrMalformedChunk, i)
		}
		if err := in.Validate(); err != nil {
			return fmt.Errorf("interior %d: %w", i, err)
		}
	}
	for i, in := range d.SubObjects {
		if in == nil {
			return fmt.Errorf("%w: sub-object %d is nil", ErrMalformedChunk, i)
		}
		if err := in.Validate(); err != nil {
			return fmt.Errorf("sub-object %d: %w", i, err)
		}
	}
	for i, pf := range d.PathFollowers {
		if int(pf.InteriorIndex) >= len(d.SubObjects) {
			return fmt.Errorf("%w: path follower %d moves sub-object %d of %d",
				ErrMalformedChunk, i, pf.InteriorIndex, len(d.SubObjects))
		}
		if len(pf.WayPoints) == 0 {
			return fmt.Errorf("%w: path follower %d has no markers", ErrMalformedChunk, i)
		}
		for _, id := range pf.TriggerIDs {
			if int(id) >= len(d.Triggers) {
				return fmt.Errorf("%w: path follower %d listens to trigger %d of %d",
					ErrMalformedChunk, i, id, len(d.Triggers))
			}
		}
	}
	return nil
}

// Validate checks that every index the interior stores resolves inside its
// pool. The contents of emit strings and poly list strings are not inspected.
func (in *Interior) Validate() error {
	v := validator{}

	for i, p := range in.Planes {
		v.index("plane", i, "normal", int(p.NormalIndex), len(in.Normals))
	}
	for i, idx := range in.Indices {
		v.index("index", i, "point", int(idx), len(in.Points))
	}
	for i, w := range in.WindingIndices {
		v.span("winding", i, "indices", w.Start, w.Count, len(in.Indices))
	}

	for i, s := range in.Surfaces {
		v.span("surface", i, "indices", s.WindingStart, s.WindingCount, len(in.Indices))
		v.index("surface", i, "plane", int(s.PlaneIndex), len(in.Planes))
		v.index("surface", i, "material", int(s.TextureIndex), len(in.MaterialNames))
		v.index("surface", i, "texgen", int(s.TexGenIndex), len(in.TexGenEqs))
		if !s.Flags.Valid() {
			v.failf("surface %d has unknown flags %#x", i, uint8(s.Flags))
		}
	}
	for i, ns := range in.NullSurfaces {
		v.span("null surface", i, "indices", ns.WindingStart, ns.WindingCount, len(in.Indices))
		v.index("null surface", i, "plane", int(ns.PlaneIndex&0x7FFF), len(in.Planes))
	}

	for i, n := range in.BSPNodes {
		v.index("BSP node", i, "plane", int(n.PlaneIndex&0x7FFF), len(in.Planes))
		for _, child := range []BSPIndex{n.Front, n.Back} {
			switch {
			case !child.Leaf:
				v.index("BSP node", i, "child node", int(child.Index), len(in.BSPNodes))
			case child.Solid:
				v.index("BSP node", i, "solid leaf", int(child.Index), len(in.BSPSolidLeaves))
			}
		}
	}
	for i, l := range in.BSPSolidLeaves {
		v.span("solid leaf", i, "surfaces", l.SurfaceStart, uint32(l.SurfaceCount), len(in.SolidLeafSurfaces))
	}
	for i, r := range in.SolidLeafSurfaces {
		v.ref("solid leaf surface", i, r, in)
	}

	for i, h := range in.ConvexHulls {
		v.span("hull", i, "points", h.HullStart, uint32(h.HullCount), len(in.HullIndices))
		v.span("hull", i, "surfaces", h.SurfaceStart, uint32(h.SurfaceCount), len(in.HullSurfaceIndices))
		v.start("hull", i, "hull planes", h.PlaneStart, len(in.HullPlaneIndices))
		v.start("hull", i, "poly list planes", h.PolyListPlaneStart, len(in.PolyListPlaneIndices))
		v.start("hull", i, "poly list points", h.PolyListPointStart, len(in.PolyListPointIndices))
		v.start("hull", i, "poly list string", h.PolyListStringStart, len(in.PolyListStringCharacters))
	}
	for i, idx := range in.HullIndices {
		v.index("hull index", i, "point", int(idx), len(in.Points))
	}
	for i, p := range in.HullPlaneIndices {
		v.index("hull plane", i, "plane", int(p&0x7FFF), len(in.Planes))
	}
	for i, off := range in.HullEmitStringIndices {
		v.index("hull emit string", i, "character", int(off), len(in.HullEmitStringCharacters))
	}
	for i, r := range in.HullSurfaceIndices {
		v.ref("hull surface", i, r, in)
	}
	for i, p := range in.PolyListPlaneIndices {
		v.index("poly list plane", i, "plane", int(p&0x7FFF), len(in.Planes))
	}
	for i, idx := range in.PolyListPointIndices {
		v.index("poly list point", i, "point", int(idx), len(in.Points))
	}

	for i, z := range in.Zones {
		v.span("zone", i, "surfaces", z.SurfaceStart, z.SurfaceCount, len(in.ZoneSurfaces))
		v.span("zone", i, "portals", uint32(z.PortalStart), uint32(z.PortalCount), len(in.ZonePortalLists))
	}
	for i, s := range in.ZoneSurfaces {
		v.index("zone surface", i, "surface", int(s), len(in.Surfaces))
	}
	for i, p := range in.Portals {
		v.index("portal", i, "plane", int(p.PlaneIndex&0x7FFF), len(in.Planes))
		v.index("portal", i, "front zone", int(p.ZoneFront), len(in.Zones))
		v.index("portal", i, "back zone", int(p.ZoneBack), len(in.Zones))
	}

	for i, b := range in.CoordBins {
		v.span("coord bin", i, "hulls", b.Start, b.Count, len(in.CoordBinIndices))
	}
	for i, h := range in.CoordBinIndices {
		v.index("coord bin index", i, "hull", int(h), len(in.ConvexHulls))
	}

	return v.err
}

type validator struct {
	err error
}

func (v *validator) failf(format string, args ...any) {
	if v.err == nil {
		v.err = fmt.Errorf("%w: %s", ErrMalformedChunk, fmt.Sprintf(format, args...))
	}
}

func (v *validator) index(kind string, i int, target string, idx, size int) {
	if idx < 0 || idx >= size {
		v.failf("%s %d references %s %d of %d", kind, i, target, idx, size)
	}
}

func (v *validator) span(kind string, i int, target string, start, count uint32, size int) {
	if uint64(start)+uint64(count) > uint64(size) {
		v.failf("%s %d spans %s %d+%d of %d", kind, i, target, start, count, size)
	}
}

// start checks the first element of a run whose length is only known from
// the data it points at; a run may start at the end of an empty tail.
func (v *validator) start(kind string, i int, target string, start uint32, size int) {
	if uint64(start) > uint64(size) {
		v.failf("%s %d starts %s at %d of %d", kind, i, target, start, size)
	}
}

func (v *validator) ref(kind string, i int, r SurfaceRef, in *Interior) {
	if r.IsNull() {
		v.index(kind, i, "null surface", r.Index(), len(in.NullSurfaces))
	} else {
		v.index(kind, i, "surface", r.Index(), len(in.Surfaces))
	}
}

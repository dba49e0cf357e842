package dif

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInteriorValidate(t *testing.T) {
	assert.NoError(t, makeInterior().Validate())

	tests := []struct {
		name   string
		mutate func(*Interior)
		msg    string
	}{
		{"plane normal", func(in *Interior) { in.Planes[0].NormalIndex = 1 }, "plane 0 references normal 1"},
		{"index point", func(in *Interior) { in.Indices[2] = 3 }, "index 2 references point 3"},
		{"surface winding", func(in *Interior) { in.Surfaces[0].WindingCount = 4 }, "surface 0 spans indices 0+4"},
		{"surface texgen", func(in *Interior) { in.Surfaces[0].TexGenIndex = 1 }, "texgen 1"},
		{"surface plane", func(in *Interior) { in.Surfaces[0].PlaneIndex = 2 }, "surface 0 references plane 2"},
		{"bsp child", func(in *Interior) { in.BSPNodes[0].Front = BSPIndex{Index: 1} }, "child node 1"},
		{"bsp solid leaf", func(in *Interior) { in.BSPNodes[0].Back.Index = 1 }, "solid leaf 1"},
		{"solid leaf span", func(in *Interior) { in.BSPSolidLeaves[0].SurfaceCount = 2 }, "spans surfaces 0+2"},
		{"null surface ref", func(in *Interior) { in.SolidLeafSurfaces[0] = NullSurfaceRefTo(0) }, "null surface 0 of 0"},
		{"hull points", func(in *Interior) { in.ConvexHulls[0].HullCount = 4 }, "hull 0 spans points"},
		{"hull surface", func(in *Interior) { in.HullSurfaceIndices[0] = SurfaceRefTo(1) }, "hull surface 0 references surface 1"},
		{"zone surface", func(in *Interior) { in.ZoneSurfaces[0] = 5 }, "zone surface 0 references surface 5"},
		{"coord bin span", func(in *Interior) { in.CoordBins[255].Count = 2 }, "coord bin 255 spans"},
		{"coord bin hull", func(in *Interior) { in.CoordBinIndices[0] = 1 }, "references hull 1"},
		{"flags", func(in *Interior) { in.Surfaces[0].Flags = 0x80 }, "unknown flags"},
		{"hull plane", func(in *Interior) { in.HullPlaneIndices[0] = 500 }, "hull plane 0 references plane 500"},
		{"flipped hull plane", func(in *Interior) { in.HullPlaneIndices[0] = 0x8000 | 7 }, "references plane 7"},
		{"hull plane start", func(in *Interior) { in.ConvexHulls[0].PlaneStart = 9999 }, "hull 0 starts hull planes at 9999 of 1"},
		{"poly list plane start", func(in *Interior) { in.ConvexHulls[0].PolyListPlaneStart = 2 }, "starts poly list planes at 2"},
		{"poly list point start", func(in *Interior) { in.ConvexHulls[0].PolyListPointStart = 2 }, "starts poly list points at 2"},
		{"poly list string start", func(in *Interior) { in.ConvexHulls[0].PolyListStringStart = 2 }, "starts poly list string at 2"},
		{"emit string", func(in *Interior) { in.HullEmitStringIndices[0] = 12345 }, "hull emit string 0 references character 12345 of 1"},
		{"poly list plane", func(in *Interior) { in.PolyListPlaneIndices[0] = 9 }, "poly list plane 0 references plane 9"},
		{"poly list point", func(in *Interior) { in.PolyListPointIndices[0] = 3 }, "poly list point 0 references point 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := makeInterior()
			tt.mutate(in)
			err := in.Validate()
			assert.ErrorIs(t, err, ErrMalformedChunk)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestInteriorValidateRunAtEnd(t *testing.T) {
	in := makeInterior()
	in.ConvexHulls[0].PlaneStart = uint32(len(in.HullPlaneIndices))
	in.ConvexHulls[0].PolyListStringStart = uint32(len(in.PolyListStringCharacters))
	assert.NoError(t, in.Validate())
}

func TestDIFValidatePathFollower(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PathFollower)
		msg    string
	}{
		{"sub-object", func(pf *PathFollower) { pf.InteriorIndex = 3 }, "moves sub-object 3 of 1"},
		{"no markers", func(pf *PathFollower) { pf.WayPoints = nil }, "has no markers"},
		{"trigger", func(pf *PathFollower) { pf.TriggerIDs = []uint32{42} }, "listens to trigger 42 of 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := makeDIF(t)
			tt.mutate(&d.PathFollowers[0])
			err := d.Validate()
			assert.ErrorIs(t, err, ErrMalformedChunk)
			assert.ErrorContains(t, err, tt.msg)

			_, err = Write(d, TagMBG)
			assert.ErrorIs(t, err, ErrMalformedChunk)
		})
	}
}

func TestSurfaceRef(t *testing.T) {
	r := NullSurfaceRefTo(7)
	assert.True(t, r.IsNull())
	assert.Equal(t, 7, r.Index())
	assert.Equal(t, SurfaceRef(0x80000007), r)
	assert.False(t, SurfaceRefTo(7).IsNull())
}

package dif

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/difbuilder/pkg/math"
)

func TestAddPathedInterior(t *testing.T) {
	d := New(makeInterior())
	src := makeInterior()

	idx, err := d.AddPathedInterior(src, Path{
		Markers: []WayPoint{
			{Position: math.Vec3{}, MSToNext: 1500},
			{Position: math.Vec3{Z: 4}, MSToNext: 500, Rotation: math.QuatFromAxisAngle(math.Vec3{Z: 1}, 1)},
			{Position: math.Vec3{Z: 8}, MSToNext: 250},
		},
		InitialPosition: 750,
		InitialTarget:   TargetLoopBackward,
	})
	require.NoError(t, err)
	require.Equal(t, 0, idx)
	pf := d.PathFollowers[idx]

	assert.Equal(t, DefaultPathName, pf.Name)
	assert.Equal(t, DefaultPathDatablock, pf.Datablock)
	assert.Equal(t, uint32(0), pf.InteriorIndex)
	assert.Equal(t, uint32(2250), pf.TotalMS)
	assert.Equal(t, math.QuatIdentity(), pf.WayPoints[0].Rotation)
	assert.NotEqual(t, math.QuatIdentity(), pf.WayPoints[1].Rotation)
	assert.Equal(t, Dictionary{
		{Key: "initialPosition", Value: "750"},
		{Key: "initialTargetPosition", Value: "-2"},
	}, pf.Properties)

	// The sub-object is a copy.
	require.Len(t, d.SubObjects, 1)
	assert.Equal(t, src, d.SubObjects[0])
	src.Points[0] = math.Vec3{X: 99}
	assert.Equal(t, math.Vec3{}, d.SubObjects[0].Points[0])

	idx, err = d.AddPathedInterior(src, Path{Name: "elevator", Markers: []WayPoint{{MSToNext: 100}}})
	require.NoError(t, err)
	require.Equal(t, 1, idx)
	pf = d.PathFollowers[idx]
	assert.Equal(t, uint32(1), pf.InteriorIndex)
	assert.Equal(t, "elevator", pf.Name)
	assert.Nil(t, pf.Properties)

	pathed := d.PathedInteriors()
	require.Len(t, pathed, 2)
	assert.Same(t, d.SubObjects[1], pathed[1].Interior)
	assert.Same(t, &d.PathFollowers[1], pathed[1].Follower)

	// Edits through the index survive later appends.
	d.PathFollowers[0].Offset = math.Vec3{X: 5}
	_, err = d.AddPathedInterior(src, Path{Markers: []WayPoint{{}}})
	require.NoError(t, err)
	assert.Equal(t, math.Vec3{X: 5}, d.PathFollowers[0].Offset)
}

func TestAddPathedInteriorErrors(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want error
	}{
		{"no markers", Path{}, ErrEmptyMarkerList},
		{"target past end", Path{Markers: make([]WayPoint, 2), InitialTarget: 2}, ErrMarkerOutOfRange},
		{"unknown sentinel", Path{Markers: make([]WayPoint, 2), InitialTarget: -3}, ErrMarkerOutOfRange},
		{"non-finite marker", Path{Markers: []WayPoint{{Position: math.Vec3{X: math32.NaN()}}}}, ErrInvalidGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(makeInterior())
			_, err := d.AddPathedInterior(makeInterior(), tt.path)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, d.SubObjects)
			assert.Empty(t, d.PathFollowers)
		})
	}
}

func TestAddGameEntityInjectsProperties(t *testing.T) {
	d := New(makeInterior())
	props := Dictionary{{Key: "foo", Value: "bar"}}

	require.NoError(t, d.AddGameEntity(GameEntity{
		Datablock:  "GemItemRed",
		GameClass:  "Item",
		Position:   math.Vec3{X: 1},
		Properties: props,
	}))

	require.Len(t, d.GameEntities, 1)
	assert.Equal(t, Dictionary{
		{Key: "foo", Value: "bar"},
		{Key: "static", Value: "1"},
		{Key: "rotate", Value: "1"},
	}, d.GameEntities[0].Properties)
	assert.Len(t, props, 1, "caller dictionary must not change")

	err := d.AddGameEntity(GameEntity{Position: math.Vec3{Y: math32.Inf(1)}})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestAddTriggerCopies(t *testing.T) {
	d := New(makeInterior())
	tr := Trigger{
		Name:       "finish",
		Datablock:  "InBoundsTrigger",
		Properties: Dictionary{{Key: "a", Value: "1"}},
		Polyhedron: BoxPolyhedron(math.Vec3{X: 1, Y: 1, Z: 1}),
	}
	idx, err := d.AddTrigger(tr)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	tr.Properties[0].Value = "2"
	tr.Polyhedron.Points[0] = math.Vec3{X: 5}
	assert.Equal(t, "1", d.Triggers[0].Properties[0].Value)
	assert.Equal(t, math.Vec3{}, d.Triggers[0].Polyhedron.Points[0])
}

func TestLinkTrigger(t *testing.T) {
	d := makeDIF(t)
	assert.Equal(t, []uint32{0}, d.PathFollowers[0].TriggerIDs)
	assert.ErrorIs(t, d.LinkTrigger(1, 0), ErrMarkerOutOfRange)
	assert.ErrorIs(t, d.LinkTrigger(0, 5), ErrMarkerOutOfRange)
}

func TestBoxPolyhedron(t *testing.T) {
	ext := math.Vec3{X: 2, Y: 3, Z: 4}
	p := BoxPolyhedron(ext)
	require.Len(t, p.Points, 8)
	require.Len(t, p.Planes, 6)
	require.Len(t, p.Edges, 12)

	for i, pt := range p.Points {
		for j, pl := range p.Planes {
			assert.LessOrEqual(t, pl.DistanceTo(pt), float32(0), "point %d outside plane %d", i, j)
		}
	}
	for i, e := range p.Edges {
		for _, f := range []uint32{e.Face0, e.Face1} {
			for _, v := range []uint32{e.Vertex0, e.Vertex1} {
				assert.Zero(t, p.Planes[f].DistanceTo(p.Points[v]), "edge %d vertex %d off face %d", i, v, f)
			}
		}
	}
	assert.Equal(t, ext, p.Points[7])
}

func TestCloneIsDeep(t *testing.T) {
	in := makeInterior()
	c, err := in.Clone()
	require.NoError(t, err)
	assert.Equal(t, in, c)

	c.MaterialNames[0] = "stone"
	c.CoordBins[0].Count = 0
	assert.Equal(t, "grass", in.MaterialNames[0])
	assert.Equal(t, uint32(1), in.CoordBins[0].Count)
}

package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/difbuilder/pkg/math"
)

var ground = math.Plane{Normal: math.Vec3{Z: 1}}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		verts []math.Vec3
		want  int
	}{
		{"front", []math.Vec3{{Z: 1}, {X: 1, Z: 2}, {Y: 1, Z: 1}}, sideFront},
		{"back", []math.Vec3{{Z: -1}, {X: 1, Z: -1}, {Y: 1, Z: -3}}, sideBack},
		{"on", []math.Vec3{{}, {X: 1}, {Y: 1, Z: 5e-5}}, sideOn},
		{"touching counts as front", []math.Vec3{{}, {X: 1}, {Y: 1, Z: 1}}, sideFront},
		{"spanning", []math.Vec3{{Z: -1}, {X: 1, Z: -1}, {Z: 1}}, sideSpanning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.verts, ground))
		})
	}
}

func TestClipKeepsBack(t *testing.T) {
	p := &bspPoly{verts: []math.Vec3{{X: -1, Z: -1}, {X: 1, Z: -1}, {Z: 1}}, plane: 3, used: true}

	back := p.clip(ground)
	assert.Equal(t, []math.Vec3{{X: -1, Z: -1}, {X: 1, Z: -1}, {X: 0.5}, {X: -0.5}}, back.verts)
	assert.Equal(t, uint16(3), back.plane)
	assert.True(t, back.used)

	front := p.clip(ground.Flip())
	require.Len(t, front.verts, 3)
	assert.Equal(t, math.Vec3{Z: 1}, front.verts[1])
}

func TestRate(t *testing.T) {
	c := newCompiler(New())
	ref, ok := c.planes.add(ground)
	require.True(t, ok)

	coplanar := &bspPoly{verts: []math.Vec3{{}, {X: 1}, {Y: 1}}, plane: ref}
	above := &bspPoly{verts: []math.Vec3{{Z: 1}, {X: 1, Z: 1}, {Y: 1, Z: 1}}, plane: 5}
	spanning := &bspPoly{verts: []math.Vec3{{Z: -1}, {X: 1, Z: -1}, {Z: 1}}, plane: 6}
	below := &bspPoly{verts: []math.Vec3{{Z: -1}, {X: 1, Z: -1}, {Y: 1, Z: -1}}, plane: 7}

	tests := []struct {
		name  string
		polys []*bspPoly
		want  int
	}{
		{"even", []*bspPoly{coplanar, above}, 1000},
		{"even with a split", []*bspPoly{coplanar, above, spanning}, 500},
		{"all behind", []*bspPoly{coplanar, below}, 0},
		{"nothing", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.rate(&bspNode{polys: tt.polys}, ref))
		})
	}
}

func TestXLog2X(t *testing.T) {
	assert.Zero(t, xlog2x(0))
	assert.Zero(t, xlog2x(1))
	assert.InDelta(t, -0.5, xlog2x(0.5), 1e-12)
}

func TestBSPHeightAndBalance(t *testing.T) {
	leaf := &bspNode{}
	n := &bspNode{front: &bspNode{front: leaf}, back: &bspNode{}}
	assert.Equal(t, 3, n.height())
	assert.Equal(t, 1, n.balance())
	assert.Zero(t, (*bspNode)(nil).height())
}

func TestCandidatesSkipUsed(t *testing.T) {
	n := &bspNode{polys: []*bspPoly{
		{plane: 2}, {plane: 1, used: true}, {plane: 2}, {plane: 0x8003},
	}}
	assert.Equal(t, []uint16{2, 0x8003}, candidates(n))
}

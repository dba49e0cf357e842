package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/difbuilder/pkg/dif"
	"github.com/Faultbox/difbuilder/pkg/math"
)

func TestVecPoolWelds(t *testing.T) {
	p := newVecPool(1e-3)
	a := p.add(math.Vec3{X: 1, Y: 2, Z: 3})
	assert.Equal(t, a, p.add(math.Vec3{X: 1.0005, Y: 2, Z: 2.9995}))
	assert.NotEqual(t, a, p.add(math.Vec3{X: 1.002, Y: 2, Z: 3}))

	// Straddles a cell boundary.
	b := p.add(math.Vec3{X: 0.0004})
	assert.Equal(t, b, p.add(math.Vec3{X: 0.0011}))
	assert.Len(t, p.items, 3)

	_, ok := p.find(math.Vec3{X: 50})
	assert.False(t, ok)
}

func TestQuantizeClamps(t *testing.T) {
	assert.Equal(t, int64(1<<62), quantize(3e38, 1e-6))
	assert.Equal(t, int64(-1<<62), quantize(-3e38, 1e-6))
	assert.Equal(t, int64(3), quantize(0.3, 0.1))
}

func TestPlanePool(t *testing.T) {
	p := newPlanePool()
	up := math.Plane{Normal: math.Vec3{Z: 1}, Distance: -2}

	ref, ok := p.add(up)
	require.True(t, ok)
	assert.Equal(t, uint16(0), ref)

	ref, ok = p.add(up.Flip())
	require.True(t, ok)
	assert.Equal(t, uint16(planeFlipBit), ref)
	assert.Equal(t, up.Flip(), p.plane(ref))

	ref, _ = p.add(math.Plane{Normal: math.Vec3{Z: 1}, Distance: 5})
	assert.Equal(t, uint16(1), ref)
	assert.Len(t, p.normals.items, 1, "parallel planes share a normal")
	assert.Equal(t, []dif.Plane{{NormalIndex: 0, Distance: -2}, {NormalIndex: 0, Distance: 5}}, p.planes)
}

func TestTexGenPoolDedups(t *testing.T) {
	p := newTexGenPool()
	eq := dif.TexGenEq{PlaneX: math.Plane{Normal: math.Vec3{X: 0.25}}, PlaneY: math.Plane{Distance: 1}}
	assert.Equal(t, uint32(0), p.add(eq))
	assert.Equal(t, uint32(0), p.add(eq))
	eq.PlaneY.Distance = 1.5
	assert.Equal(t, uint32(1), p.add(eq))
	assert.Len(t, p.eqs, 2)
}

func TestStringPool(t *testing.T) {
	p := newStringPool()
	assert.Equal(t, uint32(0), p.add([]byte{1, 2, 3}))
	assert.Equal(t, uint32(3), p.add([]byte{4}))
	assert.Equal(t, uint32(0), p.add([]byte{1, 2, 3}))
	assert.Equal(t, []byte{1, 2, 3, 4}, p.chars)
}

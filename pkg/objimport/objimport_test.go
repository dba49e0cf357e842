package objimport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/difbuilder/pkg/builder"
	"github.com/Faultbox/difbuilder/pkg/math"
)

const cubeOBJ = `# unit cube
mtllib cube.mtl
o Cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
usemtl stone
f 1/1 4/4 3/3 2/2
f 5/1 6/2 7/3 8/4
f 1/1 2/2 6/3 5/4
f 2/1 3/2 7/3 6/4
usemtl wood
f 3/1 4/2 8/3 7/4
f 4/1 1/2 5/3 8/4
`

func TestParseCube(t *testing.T) {
	m, err := Parse(strings.NewReader(cubeOBJ))
	require.NoError(t, err)
	require.Len(t, m.Faces, 12)
	assert.Equal(t, []string{"stone", "wood"}, m.Materials())

	first := m.Faces[0].Triangle
	assert.Equal(t, math.Vec3{}, first[0].Position)
	assert.Equal(t, math.Vec3{Y: 1}, first[1].Position)
	assert.Equal(t, math.Vec2{Y: 1}, first[1].UV)
	for _, v := range first {
		assert.Equal(t, math.Vec3{Z: -1}, v.Normal, "winding normal fills missing normals")
	}

	b := builder.New()
	require.NoError(t, m.AddTo(b))
	in, err := b.Build()
	require.NoError(t, err)
	assert.Len(t, in.Points, 8)
	assert.Len(t, in.Surfaces, 12)
	assert.Equal(t, []string{"stone", "wood"}, in.MaterialNames)
}

func TestParseFaceForms(t *testing.T) {
	src := `v 0 0 0
v 2 0 0
v 2 2 0
v 0 2 0
v 0 0 2
vt 0.5 0.25
vn 0 0 -1
f 1//1 2//1 3//1
f -5/1/1 -4/1/1 -2/1/1
f 1 2 3 4 5
`
	m, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Faces, 5)

	assert.Equal(t, math.Vec3{Z: -1}, m.Faces[0].Triangle[2].Normal)
	assert.Equal(t, builder.NullMaterial, m.Faces[0].Material)

	neg := m.Faces[1].Triangle
	assert.Equal(t, math.Vec3{}, neg[0].Position)
	assert.Equal(t, math.Vec3{X: 2}, neg[1].Position)
	assert.Equal(t, math.Vec3{Y: 2}, neg[2].Position)
	assert.Equal(t, math.Vec2{X: 0.5, Y: 0.25}, neg[2].UV)

	// Pentagon fan: (1 2 3) (1 3 4) (1 4 5).
	assert.Equal(t, math.Vec3{X: 2, Y: 2}, m.Faces[3].Triangle[1].Position)
	assert.Equal(t, math.Vec3{Z: 2}, m.Faces[4].Triangle[2].Position)
}

func TestParseMaterialEncoding(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl café tiles\nf 1 2 3\nusemtl\nf 1 2 3\n"
	m, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Faces, 2)
	assert.Equal(t, "caf\xe9 tiles", m.Faces[0].Material)
	assert.Equal(t, builder.NullMaterial, m.Faces[1].Material)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"short vertex", "v 1 2\n", "line 1"},
		{"bad float", "v 1 x 2\n", "line 1"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", "need at least 3"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "0 vertex index"},
		{"out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", "out of range"},
		{"negative out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 -4\n", "out of range"},
		{"missing uv", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/1 3/1\n", "uv of"},
		{"too many slashes", "v 0 0 0\nf 1/1/1/1 1 1\n", "bad face vertex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			require.ErrorIs(t, err, ErrInvalidOBJ)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.obj")
	require.NoError(t, os.WriteFile(path, []byte(cubeOBJ), 0o644))
	m, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, m.Faces, 12)

	_, err = Load(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)
}

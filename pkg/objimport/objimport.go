// Package objimport reads Wavefront OBJ meshes into triangles for the
// interior builder.
package objimport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/difbuilder/pkg/builder"
	"github.com/Faultbox/difbuilder/pkg/encoding"
	"github.com/Faultbox/difbuilder/pkg/math"
)

// ErrInvalidOBJ is returned for lines that cannot be parsed.
var ErrInvalidOBJ = errors.New("invalid OBJ")

// Face is one triangle and the material it was declared under.
type Face struct {
	Triangle math.Triangle
	Material string // DIF byte string, builder.NullMaterial when none is set
}

// Mesh is the triangulated content of an OBJ file.
type Mesh struct {
	Faces []Face
}

// Materials returns the distinct materials in first-use order.
func (m *Mesh) Materials() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range m.Faces {
		if !seen[f.Material] {
			seen[f.Material] = true
			out = append(out, f.Material)
		}
	}
	return out
}

// AddTo feeds every face to b.
func (m *Mesh) AddTo(b *builder.Builder) error {
	for i, f := range m.Faces {
		if err := b.AddTriangle(f.Triangle, f.Material); err != nil {
			return fmt.Errorf("face %d: %w", i, err)
		}
	}
	return nil
}

// importer accumulates the vertex pools while lines are read.
type importer struct {
	positions []math.Vec3
	uvs       []math.Vec2
	normals   []math.Vec3
	material  string
	mesh      Mesh
}

// Parse reads an OBJ document. Polygons are fanned around their first
// corner; corners without a normal get the polygon's winding normal.
func Parse(r io.Reader) (*Mesh, error) {
	imp := &importer{material: builder.NullMaterial}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if err := imp.readLine(strings.TrimSpace(scanner.Text())); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidOBJ, line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	return &imp.mesh, nil
}

// Load reads the OBJ file at path.
func Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func (imp *importer) readLine(line string) error {
	if line == "" || line[0] == '#' {
		return nil
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		imp.positions = append(imp.positions, math.Vec3{X: v[0], Y: v[1], Z: v[2]})
	case "vt":
		v, err := parseFloats(fields[1:], 2)
		if err != nil {
			return err
		}
		imp.uvs = append(imp.uvs, math.Vec2{X: v[0], Y: v[1]})
	case "vn":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		imp.normals = append(imp.normals, math.Vec3{X: v[0], Y: v[1], Z: v[2]})
	case "usemtl":
		if len(fields) < 2 {
			imp.material = builder.NullMaterial
			return nil
		}
		imp.material = encoding.ToDIF(strings.Join(fields[1:], " "))
	case "f":
		return imp.readFace(fields[1:])
	}
	return nil
}

func (imp *importer) readFace(corners []string) error {
	if len(corners) < 3 {
		return fmt.Errorf("face has %d vertices, need at least 3", len(corners))
	}
	verts := make([]math.TexturedVertex, len(corners))
	hasNormal := make([]bool, len(corners))
	for i, c := range corners {
		v, ok, err := imp.readFaceVertex(c)
		if err != nil {
			return err
		}
		verts[i], hasNormal[i] = v, ok
	}

	for j := 1; j+1 < len(verts); j++ {
		tri := math.Triangle{verts[0], verts[j], verts[j+1]}
		if pl, ok := tri.Plane(); ok {
			for k, idx := range [3]int{0, j, j + 1} {
				if !hasNormal[idx] {
					tri[k].Normal = pl.Normal
				}
			}
		}
		imp.mesh.Faces = append(imp.mesh.Faces, Face{Triangle: tri, Material: imp.material})
	}
	return nil
}

// readFaceVertex parses v, v/vt, v//vn or v/vt/vn.
func (imp *importer) readFaceVertex(s string) (math.TexturedVertex, bool, error) {
	var v math.TexturedVertex
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return v, false, fmt.Errorf("bad face vertex %q", s)
	}

	i, err := index(parts[0], len(imp.positions))
	if err != nil {
		return v, false, fmt.Errorf("position of %q: %w", s, err)
	}
	v.Position = imp.positions[i]

	if len(parts) > 1 && parts[1] != "" {
		i, err := index(parts[1], len(imp.uvs))
		if err != nil {
			return v, false, fmt.Errorf("uv of %q: %w", s, err)
		}
		v.UV = imp.uvs[i]
	}
	if len(parts) > 2 && parts[2] != "" {
		i, err := index(parts[2], len(imp.normals))
		if err != nil {
			return v, false, fmt.Errorf("normal of %q: %w", s, err)
		}
		v.Normal = imp.normals[i]
		return v, true, nil
	}
	return v, false, nil
}

// index resolves a 1-based or negative (relative to the end) OBJ index.
func index(s string, size int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0:
		n--
	case n < 0:
		n += size
	default:
		return 0, errors.New("0 vertex index")
	}
	if n < 0 || n >= size {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, size)
	}
	return n, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d coordinates, found %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

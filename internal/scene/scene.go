// Package scene reads the manifest that places moving platforms, triggers
// and game entities around a built interior.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/difbuilder/pkg/dif"
	"github.com/Faultbox/difbuilder/pkg/encoding"
	"github.com/Faultbox/difbuilder/pkg/math"
)

// ErrInvalidScene is returned for manifests that reference unknown objects
// or carry bad values.
var ErrInvalidScene = errors.New("invalid scene")

// Vec3 is written as [x, y, z].
type Vec3 [3]float32

func (v Vec3) vec() math.Vec3 { return math.Vec3{X: v[0], Y: v[1], Z: v[2]} }

// Scene is the manifest document.
type Scene struct {
	Interior        string           `yaml:"interior" toml:"interior"` // OBJ of the primary interior
	PathedInteriors []PathedInterior `yaml:"pathed_interiors" toml:"pathed_interiors"`
	Triggers        []Trigger        `yaml:"triggers" toml:"triggers"`
	Entities        []Entity         `yaml:"entities" toml:"entities"`

	// Dir resolves relative mesh paths. Load sets it to the manifest's directory.
	Dir string `yaml:"-" toml:"-"`
}

// PathedInterior is a moving platform.
type PathedInterior struct {
	Name            string     `yaml:"name" toml:"name"`
	Datablock       string     `yaml:"datablock" toml:"datablock"`
	Mesh            string     `yaml:"mesh" toml:"mesh"`
	Offset          Vec3       `yaml:"offset" toml:"offset"`
	Markers         []Marker   `yaml:"markers" toml:"markers"`
	InitialPosition uint32     `yaml:"initial_position" toml:"initial_position"`
	InitialTarget   int        `yaml:"initial_target" toml:"initial_target"`
	Properties      []Property `yaml:"properties" toml:"properties"`
}

// Property is one key/value pair. Lists keep their order and may repeat a key.
type Property struct {
	Key   string `yaml:"key" toml:"key"`
	Value string `yaml:"value" toml:"value"`
}

// Marker is one waypoint. A zero rotation means no rotation.
type Marker struct {
	Position  Vec3       `yaml:"position" toml:"position"`
	Rotation  [4]float32 `yaml:"rotation" toml:"rotation"` // quaternion x, y, z, w
	MSToNext  uint32     `yaml:"ms_to_next" toml:"ms_to_next"`
	Smoothing string     `yaml:"smoothing" toml:"smoothing"` // linear, spline, accelerate
}

// Trigger is a box volume. Path names the pathed interior it drives.
type Trigger struct {
	Name       string     `yaml:"name" toml:"name"`
	Datablock  string     `yaml:"datablock" toml:"datablock"`
	Position   Vec3       `yaml:"position" toml:"position"`
	Extents    Vec3       `yaml:"extents" toml:"extents"`
	Path       string     `yaml:"path" toml:"path"`
	Properties []Property `yaml:"properties" toml:"properties"`
}

// Entity is a static game object.
type Entity struct {
	Class      string     `yaml:"class" toml:"class"`
	Datablock  string     `yaml:"datablock" toml:"datablock"`
	Position   Vec3       `yaml:"position" toml:"position"`
	Properties []Property `yaml:"properties" toml:"properties"`
}

// Parse decodes a manifest. Unknown keys are errors so typos do not pass
// silently.
func Parse(data []byte, isTOML bool) (*Scene, error) {
	s := &Scene{}
	var err error
	if isTOML {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(s)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(s)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return s, nil
}

// Load reads the manifest at path; a .toml extension selects TOML.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	s, err := Parse(data, strings.EqualFold(filepath.Ext(path), ".toml"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Dir = filepath.Dir(path)
	return s, nil
}

// MeshPath resolves a mesh reference against Dir.
func (s *Scene) MeshPath(mesh string) string {
	if mesh == "" || filepath.IsAbs(mesh) || s.Dir == "" {
		return mesh
	}
	return filepath.Join(s.Dir, mesh)
}

// BuildFunc compiles the OBJ at path into an interior.
type BuildFunc func(path string) (*dif.Interior, error)

// Apply attaches the pathed interiors, triggers and entities of s to d.
// Each pathed interior mesh is compiled with build. The primary interior is
// left to the caller.
func (s *Scene) Apply(d *dif.DIF, build BuildFunc) error {
	followers := make(map[string]int)
	for i, p := range s.PathedInteriors {
		if p.Mesh == "" {
			return fmt.Errorf("%w: pathed interior %d has no mesh", ErrInvalidScene, i)
		}
		in, err := build(s.MeshPath(p.Mesh))
		if err != nil {
			return fmt.Errorf("pathed interior %q: %w", p.Name, err)
		}
		path, err := p.path()
		if err != nil {
			return err
		}
		idx, err := d.AddPathedInterior(in, path)
		if err != nil {
			return fmt.Errorf("pathed interior %q: %w", p.Name, err)
		}
		if p.Name != "" {
			followers[p.Name] = idx
		}
	}

	for _, t := range s.Triggers {
		idx, err := d.AddTrigger(dif.Trigger{
			Name:       encoding.ToDIF(t.Name),
			Datablock:  encoding.ToDIF(t.Datablock),
			Properties: dictionary(t.Properties),
			Polyhedron: dif.BoxPolyhedron(t.Extents.vec()),
			Offset:     t.Position.vec(),
		})
		if err != nil {
			return err
		}
		if t.Path == "" {
			continue
		}
		follower, ok := followers[t.Path]
		if !ok {
			return fmt.Errorf("%w: trigger %q links unknown path %q", ErrInvalidScene, t.Name, t.Path)
		}
		if err := d.LinkTrigger(follower, idx); err != nil {
			return err
		}
	}

	for _, e := range s.Entities {
		err := d.AddGameEntity(dif.GameEntity{
			Datablock:  encoding.ToDIF(e.Datablock),
			GameClass:  encoding.ToDIF(e.Class),
			Position:   e.Position.vec(),
			Properties: dictionary(e.Properties),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (p PathedInterior) path() (dif.Path, error) {
	markers := make([]dif.WayPoint, len(p.Markers))
	for i, m := range p.Markers {
		smoothing, err := parseSmoothing(m.Smoothing)
		if err != nil {
			return dif.Path{}, fmt.Errorf("%w: pathed interior %q marker %d: %v", ErrInvalidScene, p.Name, i, err)
		}
		markers[i] = dif.WayPoint{
			Position:  m.Position.vec(),
			Rotation:  math.Quat{X: m.Rotation[0], Y: m.Rotation[1], Z: m.Rotation[2], W: m.Rotation[3]},
			MSToNext:  m.MSToNext,
			Smoothing: smoothing,
		}
	}
	return dif.Path{
		Name:            encoding.ToDIF(p.Name),
		Datablock:       encoding.ToDIF(p.Datablock),
		Offset:          p.Offset.vec(),
		Markers:         markers,
		InitialPosition: p.InitialPosition,
		InitialTarget:   p.InitialTarget,
		Properties:      dictionary(p.Properties),
	}, nil
}

func parseSmoothing(s string) (dif.SmoothingType, error) {
	switch strings.ToLower(s) {
	case "", "linear":
		return dif.SmoothingLinear, nil
	case "spline":
		return dif.SmoothingSpline, nil
	case "accelerate":
		return dif.SmoothingAccelerate, nil
	}
	return 0, fmt.Errorf("unknown smoothing %q", s)
}

// dictionary converts manifest properties in the order they were written.
func dictionary(props []Property) dif.Dictionary {
	if len(props) == 0 {
		return nil
	}
	d := make(dif.Dictionary, 0, len(props))
	for _, p := range props {
		d.Add(encoding.ToDIF(p.Key), encoding.ToDIF(p.Value))
	}
	return d
}

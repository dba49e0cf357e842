// Package builder compiles triangle soup into a DIF interior: welded point,
// plane and texgen pools, convex hulls with emit strings and poly lists, a BSP
// tree, coordinate bins and a single zone.
package builder

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/difbuilder/pkg/dif"
	"github.com/Faultbox/difbuilder/pkg/math"
)

// NullMaterial marks collision-only faces. They become null surfaces.
const NullMaterial = "NULL"

// SplitMethod selects how BSP splitting planes are chosen.
type SplitMethod int

const (
	// SplitFast rates a seeded random sample of the unused planes.
	SplitFast SplitMethod = iota
	// SplitExhaustive quantizes plane normals onto a hemisphere and rates the
	// median plane of each bucket.
	SplitExhaustive
	// SplitNone emits a single node with two empty leaves.
	SplitNone
)

// String returns the method name used in configuration files.
func (m SplitMethod) String() string {
	switch m {
	case SplitFast:
		return "fast"
	case SplitExhaustive:
		return "exhaustive"
	case SplitNone:
		return "none"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ErrUnknownSplitMethod is returned by ParseSplitMethod.
var ErrUnknownSplitMethod = errors.New("unknown split method")

// ParseSplitMethod parses "fast", "exhaustive" or "none".
func ParseSplitMethod(s string) (SplitMethod, error) {
	switch strings.ToLower(s) {
	case "fast", "":
		return SplitFast, nil
	case "exhaustive":
		return SplitExhaustive, nil
	case "none":
		return SplitNone, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSplitMethod, s)
}

// ProgressFunc receives build progress. total is the size of the current
// phase and status names it.
type ProgressFunc func(current, total int, status string)

// Option configures a Builder.
type Option func(*Builder)

// WithMBOnly skips hull poly lists and emit strings, writing the single
// placeholder entries Marble Blast reads instead.
func WithMBOnly(on bool) Option {
	return func(b *Builder) { b.mbOnly = on }
}

// WithSplitMethod sets the BSP splitter. The default is SplitFast.
func WithSplitMethod(m SplitMethod) Option {
	return func(b *Builder) { b.split = m }
}

// WithLogger sets the logger used for phase timings and the BSP report.
func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithProgress sets a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(b *Builder) { b.progress = fn }
}

// Builder accumulates triangles grouped by material. It is not safe for
// concurrent use.
type Builder struct {
	materials []string
	faces     map[string][]math.Triangle

	mbOnly   bool
	split    SplitMethod
	log      *zap.Logger
	progress ProgressFunc
}

// New returns an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		faces: make(map[string][]math.Triangle),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddTriangle queues tri under material. Any NaN or infinite position, UV or
// normal component is rejected with dif.ErrInvalidGeometry.
func (b *Builder) AddTriangle(tri math.Triangle, material string) error {
	if !tri.IsFinite() {
		return fmt.Errorf("%w: triangle %d has a non-finite component", dif.ErrInvalidGeometry, b.Len())
	}
	if _, ok := b.faces[material]; !ok {
		b.materials = append(b.materials, material)
	}
	b.faces[material] = append(b.faces[material], tri)
	return nil
}

// Len returns the number of queued triangles.
func (b *Builder) Len() int {
	n := 0
	for _, tris := range b.faces {
		n += len(tris)
	}
	return n
}

// Build compiles the queued triangles into a new Interior. Each call starts
// from scratch.
func (b *Builder) Build() (*dif.Interior, error) {
	in, _, err := b.BuildWithReport()
	return in, err
}

// BuildWithReport is Build plus the BSP raycast coverage report.
func (b *Builder) BuildWithReport() (*dif.Interior, Report, error) {
	c := newCompiler(b)
	for _, m := range b.materials {
		for _, tri := range b.faces[m] {
			c.addFace(tri, m)
		}
	}
	if len(c.faces) == 0 {
		return nil, Report{}, fmt.Errorf("%w: no usable triangles (%d degenerate)", dif.ErrInvalidGeometry, c.dropped)
	}
	if c.dropped > 0 {
		b.log.Debug("dropped degenerate triangles", zap.Int("count", c.dropped))
	}

	in, report, err := c.compile()
	if err != nil {
		return nil, Report{}, err
	}
	report.Dropped = c.dropped
	b.log.Info("BSP report",
		zap.Int("hit", report.Hit),
		zap.Int("total", report.Total),
		zap.Float32("hit_area_pct", report.HitAreaPercentage),
		zap.Int("balance", report.BalanceFactor),
	)
	return in, report, nil
}

func (b *Builder) report(current, total int, status string) {
	if b.progress != nil {
		b.progress(current, total, status)
	}
}

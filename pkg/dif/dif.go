// Package dif implements the Torque interior (DIF) data model, the version
// policy table and the versioned binary codec.
package dif

import (
	"fmt"

	"github.com/jinzhu/copier"

	"github.com/Faultbox/difbuilder/pkg/math"
)

// DIF is the top-level container written to a .dif file.
type DIF struct {
	Interiors        []*Interior // primary interior first
	SubObjects       []*Interior // moving platform interiors
	Triggers         []Trigger
	PathFollowers    []PathFollower
	ForceFields      []ForceField
	AISpecialNodes   []AISpecialNode
	VehicleCollision *VehicleCollision
	GameEntities     []GameEntity // non-nil and empty writes an empty block
	Preview          []byte       // optional PNG thumbnail

	// OmitTrailer drops the closing zero word, as older writers do.
	OmitTrailer  bool
	// CompactLists records compact-form lists outside the interiors; see
	// Interior.CompactLists.
	CompactLists map[int]uint8
}

// New returns a DIF holding the given interiors.
func New(interiors ...*Interior) *DIF {
	return &DIF{Interiors: interiors}
}

// Default path follower settings.
const (
	DefaultPathName      = "MustChange"
	DefaultPathDatablock = "PathedDefault"
)

// Initial target sentinels: instead of stopping at a marker the platform loops.
const (
	TargetLoopForward  = -1
	TargetLoopBackward = -2
)

// Path describes how AddPathedInterior moves its interior.
type Path struct {
	Name            string // DefaultPathName if empty
	Datablock       string // DefaultPathDatablock if empty
	Offset          math.Vec3
	Markers         []WayPoint
	InitialPosition uint32 // start time along the path, in ms
	InitialTarget   int    // marker index or a TargetLoop sentinel
	Properties      Dictionary
}

// AddPathedInterior stores a deep copy of interior as a sub-object and
// attaches a path follower that moves it along path. It returns the index of
// the new follower in PathFollowers. Markers with a zero rotation get the
// identity rotation.
func (d *DIF) AddPathedInterior(interior *Interior, path Path) (int, error) {
	if interior == nil {
		return 0, fmt.Errorf("%w: nil interior", ErrInvalidGeometry)
	}
	if len(path.Markers) == 0 {
		return 0, ErrEmptyMarkerList
	}
	if t := path.InitialTarget; t >= len(path.Markers) || (t < 0 && t != TargetLoopForward && t != TargetLoopBackward) {
		return 0, fmt.Errorf("%w: initial target %d with %d markers", ErrMarkerOutOfRange, t, len(path.Markers))
	}

	sub, err := interior.Clone()
	if err != nil {
		return 0, err
	}

	waypoints := make([]WayPoint, len(path.Markers))
	var total uint32
	for i, m := range path.Markers {
		if !m.Position.IsFinite() || !m.Rotation.IsFinite() {
			return 0, fmt.Errorf("%w: marker %d is not finite", ErrInvalidGeometry, i)
		}
		if m.Rotation == (math.Quat{}) {
			m.Rotation = math.QuatIdentity()
		}
		waypoints[i] = m
		total += m.MSToNext
	}

	props := path.Properties.Clone()
	if path.InitialPosition != 0 {
		props.Add("initialPosition", fmt.Sprint(path.InitialPosition))
	}
	if path.InitialTarget != 0 {
		props.Add("initialTargetPosition", fmt.Sprint(path.InitialTarget))
	}

	follower := PathFollower{
		Name:          orDefault(path.Name, DefaultPathName),
		Datablock:     orDefault(path.Datablock, DefaultPathDatablock),
		InteriorIndex: uint32(len(d.SubObjects)),
		Offset:        path.Offset,
		Properties:    props,
		WayPoints:     waypoints,
		TotalMS:       total,
	}
	d.SubObjects = append(d.SubObjects, sub)
	d.PathFollowers = append(d.PathFollowers, follower)
	return len(d.PathFollowers) - 1, nil
}

// AddTrigger stores a deep copy of trigger and returns its index.
func (d *DIF) AddTrigger(trigger Trigger) (int, error) {
	if !trigger.Offset.IsFinite() {
		return 0, fmt.Errorf("%w: trigger %q position is not finite", ErrInvalidGeometry, trigger.Name)
	}
	t, err := deepCopy(&trigger)
	if err != nil {
		return 0, err
	}
	d.Triggers = append(d.Triggers, *t)
	return len(d.Triggers) - 1, nil
}

// LinkTrigger makes the path follower at index follower listen to trigger.
func (d *DIF) LinkTrigger(follower, trigger int) error {
	if follower < 0 || follower >= len(d.PathFollowers) {
		return fmt.Errorf("%w: path follower %d", ErrMarkerOutOfRange, follower)
	}
	if trigger < 0 || trigger >= len(d.Triggers) {
		return fmt.Errorf("%w: trigger %d", ErrMarkerOutOfRange, trigger)
	}
	pf := &d.PathFollowers[follower]
	pf.TriggerIDs = append(pf.TriggerIDs, uint32(trigger))
	return nil
}

// AddGameEntity appends a game entity. The caller's properties are copied and
// followed by static=1 and rotate=1; entities carry no orientation.
func (d *DIF) AddGameEntity(entity GameEntity) error {
	if !entity.Position.IsFinite() {
		return fmt.Errorf("%w: entity %q position is not finite", ErrInvalidGeometry, entity.GameClass)
	}
	props := entity.Properties.Clone()
	props.Add("static", "1")
	props.Add("rotate", "1")
	entity.Properties = props
	d.GameEntities = append(d.GameEntities, entity)
	return nil
}

// Retarget prepares d, read under another policy, for writing with v. The
// recorded compact list forms are dropped because list positions change
// between layouts, and interiors whose layout v cannot write fall back to
// v's own.
func (d *DIF) Retarget(v Version) {
	d.CompactLists = nil
	for _, in := range d.Interiors {
		retargetInterior(in, v)
	}
	for _, in := range d.SubObjects {
		retargetInterior(in, v)
	}
}

func retargetInterior(in *Interior, v Version) {
	if in == nil {
		return
	}
	in.CompactLists = nil
	if in.LayoutVersion == v.Interior || !v.AcceptsInterior(in.LayoutVersion) {
		in.LayoutVersion = 0
	}
}

// PathedInterior pairs a path follower with the sub-object it moves.
type PathedInterior struct {
	Follower *PathFollower
	Interior *Interior
}

// PathedInteriors returns every follower with its resolved sub-object.
// Followers whose interior index is out of range are skipped.
func (d *DIF) PathedInteriors() []PathedInterior {
	var out []PathedInterior
	for i := range d.PathFollowers {
		pf := &d.PathFollowers[i]
		if int(pf.InteriorIndex) >= len(d.SubObjects) {
			continue
		}
		out = append(out, PathedInterior{Follower: pf, Interior: d.SubObjects[pf.InteriorIndex]})
	}
	return out
}

// deepCopy copies src without sharing slices. Empty fields are skipped so
// nil lists stay nil in the copy.
func deepCopy[T any](src *T) (*T, error) {
	dst := new(T)
	if err := copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true, IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("copying %T: %w", src, err)
	}
	return dst, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

package dif

import (
	"bytes"
	"encoding/binary"
	"fmt"
	gomath "math"

	"github.com/Faultbox/difbuilder/pkg/math"
)

// NoLightMap marks a surface without an alarm/normal light map.
const NoLightMap uint32 = 0xFFFFFFFF

// encoder writes little-endian DIF fields into memory. Like decoder it keeps
// the first error and ignores later writes.
type encoder struct {
	buf     bytes.Buffer
	version Version
	section string
	err     error
	scratch [4]byte

	// lists and compact mirror the decoder's list numbering so compact
	// lists are written back in the form they were read in.
	lists   int
	compact map[int]uint8
}

func newEncoder(v Version) *encoder {
	return &encoder{version: v}
}

func (e *encoder) enter(section string) {
	e.section = section
}

// scope starts a fresh list numbering using the compact forms of the record
// about to be written and returns a func restoring the enclosing one.
func (e *encoder) scope(compact map[int]uint8) func() {
	lists, prev := e.lists, e.compact
	e.lists, e.compact = 0, compact
	return func() { e.lists, e.compact = lists, prev }
}

func (e *encoder) fail(err error, format string, args ...any) {
	if e.err != nil {
		return
	}
	e.err = fmt.Errorf("%w: %s %s", err, e.section, fmt.Sprintf(format, args...))
}

func (e *encoder) u8(v uint8) {
	if e.err == nil {
		e.buf.WriteByte(v)
	}
}

func (e *encoder) u16(v uint16) {
	if e.err == nil {
		binary.LittleEndian.PutUint16(e.scratch[:2], v)
		e.buf.Write(e.scratch[:2])
	}
}

func (e *encoder) u32(v uint32) {
	if e.err == nil {
		binary.LittleEndian.PutUint32(e.scratch[:4], v)
		e.buf.Write(e.scratch[:4])
	}
}

func (e *encoder) i32(v int32) {
	e.u32(uint32(v))
}

func (e *encoder) f32(v float32) {
	e.u32(gomath.Float32bits(v))
}

func (e *encoder) vec3(v math.Vec3) {
	e.f32(v.X)
	e.f32(v.Y)
	e.f32(v.Z)
}

// quat writes a QuatF, scalar first.
func (e *encoder) quat(q math.Quat) {
	e.f32(q.W)
	e.f32(q.X)
	e.f32(q.Y)
	e.f32(q.Z)
}

func (e *encoder) plane(p math.Plane) {
	e.vec3(p.Normal)
	e.f32(p.Distance)
}

func (e *encoder) box(b math.Box) {
	e.vec3(b.Min)
	e.vec3(b.Max)
}

func (e *encoder) sphere(s math.Sphere) {
	e.vec3(s.Origin)
	e.f32(s.Radius)
}

func (e *encoder) color(c Color) {
	e.u8(c.R)
	e.u8(c.G)
	e.u8(c.B)
	e.u8(c.A)
}

func (e *encoder) str(s string) {
	if len(s) > gomath.MaxUint8 {
		e.fail(ErrFieldOverflow, "string of %d bytes", len(s))
		return
	}
	e.u8(uint8(len(s)))
	e.raw([]byte(s))
}

func (e *encoder) raw(b []byte) {
	if e.err == nil {
		e.buf.Write(b)
	}
}

// png writes an embedded PNG. The reader finds its end by the IEND footer,
// so the footer must close the data and appear nowhere before.
func (e *encoder) png(b []byte) {
	if !bytes.HasSuffix(b, pngFooter) || bytes.Index(b, pngFooter) != len(b)-len(pngFooter) {
		e.fail(ErrMalformedChunk, "PNG data must end with a single IEND footer")
		return
	}
	e.raw(b)
}

// count writes a list length and reports whether the list is in compact
// form.
func (e *encoder) count(n int) (compact bool) {
	if !e.length(n) {
		return false
	}
	e.lists++
	param, compact := e.compact[e.lists]
	if compact {
		e.u32(uint32(n) | compactCountBit)
		e.u8(param)
		return true
	}
	e.u32(uint32(n))
	return false
}

// length checks that n fits a count word; it does not number a list.
func (e *encoder) length(n int) bool {
	if uint64(n) >= compactCountBit {
		e.fail(ErrFieldOverflow, "list of %d items", n)
		return false
	}
	return true
}

// narrow8 writes v as a byte, failing if it does not fit.
func (e *encoder) narrow8(v uint32, what string) {
	if v > gomath.MaxUint8 {
		e.fail(ErrFieldOverflow, "%s %d exceeds 8 bits", what, v)
		return
	}
	e.u8(uint8(v))
}

// sized writes v as a u32 on wide layouts and as a u8 otherwise.
func (e *encoder) sized(v uint32, wide bool, what string) {
	if wide {
		e.u32(v)
		return
	}
	e.narrow8(v, what)
}

func writeList[T any](e *encoder, items []T, write func(*encoder, T)) {
	e.count(len(items))
	for _, it := range items {
		if e.err != nil {
			return
		}
		write(e, it)
	}
}

func (e *encoder) writeU32List(v []uint32) { writeList(e, v, (*encoder).u32) }

// writeIndexList is the inverse of decoder.readU32List(true): a compact list
// holds 16-bit elements.
func (e *encoder) writeIndexList(v []uint32) {
	if !e.count(len(v)) {
		for _, x := range v {
			e.u32(x)
		}
		return
	}
	for _, x := range v {
		if x > gomath.MaxUint16 {
			e.fail(ErrFieldOverflow, "index %d in a compact list exceeds 16 bits", x)
			return
		}
		e.u16(uint16(x))
	}
}
func (e *encoder) writeU16List(v []uint16) { writeList(e, v, (*encoder).u16) }
func (e *encoder) writeStringList(v []string) { writeList(e, v, (*encoder).str) }

func (e *encoder) writeU8List(v []byte) {
	e.count(len(v))
	e.raw(v)
}

// writeNarrowList is the inverse of decoder.readNarrowList.
func (e *encoder) writeNarrowList(v []uint32, wide bool, what string) {
	if wide {
		e.writeU32List(v)
		return
	}
	writeList(e, v, func(e *encoder, x uint32) {
		if x == NoLightMap {
			e.u8(0xFF)
			return
		}
		if x == 0xFF {
			e.fail(ErrFieldOverflow, "%s 255 collides with the none sentinel", what)
			return
		}
		e.narrow8(x, what)
	})
}

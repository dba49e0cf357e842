package dif

import (
	"bytes"
	"encoding/binary"
	"fmt"
	gomath "math"

	"github.com/Faultbox/difbuilder/pkg/math"
)

// compactCountBit marks a list written with the engine's compact index form;
// a parameter byte follows the count.
const compactCountBit = 0x80000000

// pngFooter ends every embedded PNG (IEND chunk type and CRC).
var pngFooter = []byte{0x49, 0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82}

// decoder reads little-endian DIF fields. The first failure is kept and every
// later read is a no-op returning zero values, so record readers can be
// written straight through and checked once.
type decoder struct {
	data    []byte
	off     int
	version Version
	section string
	err     error

	// lists numbers the counted lists of the record being read; compact
	// collects the ones stored in compact form.
	lists   int
	compact map[int]uint8
}

func newDecoder(data []byte, v Version) *decoder {
	return &decoder{data: data, version: v}
}

// enter names the record being decoded for error context.
func (d *decoder) enter(section string) {
	d.section = section
}

// scope starts a fresh list numbering and returns a func restoring the
// enclosing one.
func (d *decoder) scope() func() {
	lists, compact := d.lists, d.compact
	d.lists, d.compact = 0, nil
	return func() { d.lists, d.compact = lists, compact }
}

func (d *decoder) fail(err error, format string, args ...any) {
	if d.err != nil {
		return
	}
	d.err = fmt.Errorf("%w: %s %s at offset %d", err, d.section, fmt.Sprintf(format, args...), d.off)
}

func (d *decoder) remaining() int {
	return len(d.data) - d.off
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.remaining() < n {
		d.fail(ErrTruncatedInput, "needs %d bytes, %d left", n, d.remaining())
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u16() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (d *decoder) u32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) i32() int32 {
	return int32(d.u32())
}

func (d *decoder) f32() float32 {
	return gomath.Float32frombits(d.u32())
}

func (d *decoder) vec3() math.Vec3 {
	return math.Vec3{X: d.f32(), Y: d.f32(), Z: d.f32()}
}

// quat reads a QuatF, stored scalar first.
func (d *decoder) quat() math.Quat {
	w := d.f32()
	return math.Quat{W: w, X: d.f32(), Y: d.f32(), Z: d.f32()}
}

func (d *decoder) plane() math.Plane {
	return math.Plane{Normal: d.vec3(), Distance: d.f32()}
}

func (d *decoder) box() math.Box {
	return math.Box{Min: d.vec3(), Max: d.vec3()}
}

func (d *decoder) sphere() math.Sphere {
	return math.Sphere{Origin: d.vec3(), Radius: d.f32()}
}

func (d *decoder) color() Color {
	return Color{R: d.u8(), G: d.u8(), B: d.u8(), A: d.u8()}
}

func (d *decoder) str() string {
	n := d.u8()
	return string(d.take(int(n)))
}

// bytesN copies n raw bytes.
func (d *decoder) bytesN(n int) []byte {
	b := d.take(n)
	if len(b) == 0 {
		return nil
	}
	return bytes.Clone(b)
}

// png reads bytes up to and including the PNG footer.
func (d *decoder) png() []byte {
	if d.err != nil {
		return nil
	}
	rest := d.data[d.off:]
	i := bytes.Index(rest, pngFooter)
	if i < 0 {
		d.fail(ErrTruncatedInput, "PNG has no IEND footer")
		return nil
	}
	return d.bytesN(i + len(pngFooter))
}

// count reads a list length. With the compact bit set it also reads the
// parameter byte, records it against the list's position and reports
// compact=true. minSize is the smallest encoded element size; counts that
// cannot fit in the remaining input fail before anything is allocated.
func (d *decoder) count(minSize int) (n int, compact bool) {
	c := d.u32()
	if d.err != nil {
		return 0, false
	}
	d.lists++
	if c&compactCountBit != 0 {
		c &^= compactCountBit
		compact = true
		param := d.u8()
		if d.compact == nil {
			d.compact = make(map[int]uint8)
		}
		d.compact[d.lists] = param
	}
	if uint64(c)*uint64(minSize) > uint64(d.remaining()) {
		d.fail(ErrTruncatedInput, "count %d exceeds remaining %d bytes", c, d.remaining())
		return 0, false
	}
	return int(c), compact
}

// readList reads a counted list of fixed-layout records.
func readList[T any](d *decoder, minSize int, read func(*decoder) T) []T {
	n, _ := d.count(minSize)
	if n == 0 || d.err != nil {
		return nil
	}
	out := make([]T, n)
	for i := range out {
		out[i] = read(d)
		if d.err != nil {
			return nil
		}
	}
	return out
}

// readU32List reads a u32 index list that the engine may have stored with
// 16-bit elements under the compact count form.
func (d *decoder) readU32List(compactNarrows bool) []uint32 {
	n, compact := d.count(2)
	if n == 0 || d.err != nil {
		return nil
	}
	out := make([]uint32, n)
	for i := range out {
		if compact && compactNarrows {
			out[i] = uint32(d.u16())
		} else {
			out[i] = d.u32()
		}
	}
	if d.err != nil {
		return nil
	}
	return out
}

// readU16List reads a list stored as u16 regardless of the compact form.
func (d *decoder) readU16List() []uint16 {
	return readList(d, 2, (*decoder).u16)
}

// readU8List reads a list of raw bytes.
func (d *decoder) readU8List() []byte {
	n, _ := d.count(1)
	if d.err != nil {
		return nil
	}
	return d.bytesN(n)
}

// readNarrowList reads a list stored as u8 on older interiors and u32 on
// newer ones. A stored 0xFF widens to the 0xFFFFFFFF "none" sentinel.
func (d *decoder) readNarrowList(wide bool) []uint32 {
	if wide {
		return readList(d, 4, (*decoder).u32)
	}
	return readList(d, 1, func(d *decoder) uint32 {
		v := d.u8()
		if v == 0xFF {
			return NoLightMap
		}
		return uint32(v)
	})
}

// readStringList reads a list of u8-length strings.
func (d *decoder) readStringList() []string {
	return readList(d, 1, (*decoder).str)
}

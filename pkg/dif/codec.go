package dif

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Write encodes d with the policy named by tag. The whole file is encoded in
// memory first; on error no bytes are returned.
func Write(d *DIF, tag string) ([]byte, error) {
	v, err := Lookup(tag)
	if err != nil {
		return nil, err
	}
	return Encode(d, v)
}

// Encode encodes d with policy v, which must be an entry of the policy table.
func Encode(d *DIF, v Version) ([]byte, error) {
	if err := checkPolicy(v); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	e := newEncoder(v)
	writeDIF(e, d)
	if e.err != nil {
		return nil, e.err
	}
	return e.buf.Bytes(), nil
}

// WriteTo encodes d and writes it to w.
func WriteTo(w io.Writer, d *DIF, tag string) (int64, error) {
	data, err := Write(d, tag)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return int64(n), nil
}

// WriteFile encodes d and writes it to path.
func WriteFile(path string, d *DIF, tag string) error {
	data, err := Write(d, tag)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrIOFailure, path, err)
	}
	return nil
}

// Read decodes a DIF, detecting which version policy produced it. Policies
// are tried in a fixed order and the first that consumes the whole input
// wins.
func Read(data []byte) (*DIF, Version, error) {
	var firstErr error
	for _, tag := range detectOrder {
		v := versionTable[tag]
		d, err := Decode(data, v)
		if err == nil {
			return d, v, nil
		}
		// A version mismatch says nothing about the input; prefer the error
		// of a policy that got further.
		if firstErr == nil || (errors.Is(firstErr, ErrUnsupportedVersion) && !errors.Is(err, ErrUnsupportedVersion)) {
			firstErr = err
		}
	}
	return nil, Version{}, firstErr
}

// ReadAs decodes a DIF with the policy named by tag.
func ReadAs(data []byte, tag string) (*DIF, error) {
	v, err := Lookup(tag)
	if err != nil {
		return nil, err
	}
	return Decode(data, v)
}

// Decode decodes a DIF with policy v, which must be an entry of the policy
// table. It never returns a partial DIF.
func Decode(data []byte, v Version) (*DIF, error) {
	if err := checkPolicy(v); err != nil {
		return nil, err
	}
	d := newDecoder(data, v)
	out := readDIF(d)
	if d.err != nil {
		return nil, d.err
	}
	if d.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes at offset %d", ErrMalformedChunk, d.remaining(), d.off)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// checkPolicy rejects versions that are not exactly a table entry.
func checkPolicy(v Version) error {
	if tv, ok := versionTable[v.Tag]; !ok || tv != v {
		return fmt.Errorf("%w: %s is not a known policy", ErrUnsupportedVersion, v)
	}
	return nil
}

// ReadFile reads and decodes the DIF at path.
func ReadFile(path string) (*DIF, Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Version{}, fmt.Errorf("%w: reading %s: %w", ErrIOFailure, path, err)
	}
	return Read(data)
}

// Game entity block markers.
const (
	noGameEntities  uint32 = 0
	hasGameEntities uint32 = 2
)

func readDIF(d *decoder) *DIF {
	v := d.version
	out := &DIF{}

	d.enter("header")
	if fv := d.u32(); d.err == nil && fv != v.DIF {
		d.fail(ErrUnsupportedVersion, "file version %d", fv)
		return nil
	}
	switch flag := d.u8(); flag {
	case 0:
	case 1:
		d.enter("preview")
		out.Preview = d.png()
	default:
		d.fail(ErrMalformedChunk, "preview flag %d", flag)
	}

	out.Interiors = readList(d, 4, readInterior)
	out.SubObjects = readList(d, 4, readInterior)
	d.enter("triggers")
	out.Triggers = readList(d, 26, readTrigger)
	d.enter("path followers")
	out.PathFollowers = readList(d, 34, readPathFollower)
	d.enter("force fields")
	out.ForceFields = readList(d, 6, readForceField)
	d.enter("AI special nodes")
	out.AISpecialNodes = readList(d, 13, readAISpecialNode)

	d.enter("vehicle collision")
	switch flag := d.u32(); flag {
	case 0:
	case 1:
		d.enter("vehicle collision")
		out.VehicleCollision = readVehicleCollision(d)
	default:
		d.fail(ErrMalformedChunk, "flag %d", flag)
	}

	d.enter("game entities")
	switch flag := d.u32(); {
	case flag == noGameEntities:
	case flag == hasGameEntities && v.GameEntities:
		out.GameEntities = readList(d, 14, readGameEntity)
		if out.GameEntities == nil {
			out.GameEntities = []GameEntity{}
		}
	default:
		d.fail(ErrMalformedChunk, "flag %d under %s", flag, v.Tag)
	}

	// Older writers stop before the closing zero word.
	d.enter("trailer")
	if d.err == nil {
		if d.remaining() < 4 {
			out.OmitTrailer = true
		} else if d.u32() != 0 {
			d.off -= 4
			d.fail(ErrMalformedChunk, "non-zero trailer")
		}
	}

	if d.err != nil {
		return nil
	}
	out.CompactLists = d.compact
	return out
}

func writeDIF(e *encoder, d *DIF) {
	v := e.version
	e.compact = d.CompactLists

	e.enter("header")
	e.u32(v.DIF)
	if len(d.Preview) > 0 {
		e.u8(1)
		e.enter("preview")
		e.png(d.Preview)
	} else {
		e.u8(0)
	}

	writeList(e, d.Interiors, writeInterior)
	writeList(e, d.SubObjects, writeInterior)
	e.enter("triggers")
	writeList(e, d.Triggers, writeTrigger)
	e.enter("path followers")
	writeList(e, d.PathFollowers, writePathFollower)
	e.enter("force fields")
	writeList(e, d.ForceFields, writeForceField)
	e.enter("AI special nodes")
	writeList(e, d.AISpecialNodes, writeAISpecialNode)

	e.enter("vehicle collision")
	if d.VehicleCollision != nil {
		e.u32(1)
		writeVehicleCollision(e, d.VehicleCollision)
	} else {
		e.u32(0)
	}

	e.enter("game entities")
	if v.GameEntities && d.GameEntities != nil {
		e.u32(hasGameEntities)
		writeList(e, d.GameEntities, writeGameEntity)
	} else {
		e.u32(noGameEntities)
	}
	if !d.OmitTrailer {
		e.u32(0)
	}
}

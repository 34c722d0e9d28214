package wad

import (
	"bytes"
	"encoding/binary"
	"unsafe"
)

type binThing struct {
	X     int16
	Y     int16
	Angle int16
	Type  uint16
	Flags uint16
}

// Thing is one actor placement: a player start, monster, item or decoration.
// Type and Flags carry packed sub-fields; use the accessors to read or set
// one sub-field without disturbing its sibling.
type Thing struct {
	X, Y  int
	Angle int
	Type  uint16 // param (high 4 bits) | editor number (low 12 bits)
	Flags uint16 // spawn height (high 12 bits) | option bits (low 4 bits)
}

// EdNum returns the editor number in the low 12 bits of Type.
func (t Thing) EdNum() int { return int(t.Type & 0x0fff) }

// SetEdNum sets the editor number, leaving the param nibble alone.
func (t *Thing) SetEdNum(n int) { t.Type = t.Type&0xf000 | uint16(n)&0x0fff }

// Param returns the parameter nibble in the high 4 bits of Type.
func (t Thing) Param() int { return int(t.Type >> 12) }

// SetParam sets the parameter nibble, leaving the editor number alone.
func (t *Thing) SetParam(p int) { t.Type = t.Type&0x0fff | uint16(p&0x0f)<<12 }

// Options returns the option bits in the low 4 bits of Flags.
func (t Thing) Options() int { return int(t.Flags & 0x000f) }

// SetOptions sets the option bits, leaving the spawn height alone.
func (t *Thing) SetOptions(o int) { t.Flags = t.Flags&0xfff0 | uint16(o)&0x000f }

// SpawnHeight returns the spawn height in the high 12 bits of Flags.
func (t Thing) SpawnHeight() int { return int(t.Flags >> 4) }

// SetSpawnHeight sets the spawn height, leaving the option bits alone.
func (t *Thing) SetSpawnHeight(h int) { t.Flags = t.Flags&0x000f | uint16(h&0x0fff)<<4 }

// Clone returns a field-wise copy of the thing.
func (t Thing) Clone() Thing { return t }

const thingSize = int(unsafe.Sizeof(binThing{}))

func decodeThings(data []byte) ([]Thing, error) {
	count, err := recordCount("THINGS", len(data), thingSize)
	if err != nil {
		return nil, err
	}
	binThings := make([]binThing, count)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, binThings); err != nil {
		return nil, err
	}
	things := make([]Thing, count)
	for i, t := range binThings {
		things[i] = Thing{
			X:     int(t.X),
			Y:     int(t.Y),
			Angle: int(t.Angle),
			Type:  t.Type,
			Flags: t.Flags,
		}
	}
	return things, nil
}

func encodeThings(things []Thing) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(things)*thingSize))
	for _, t := range things {
		binary.Write(buf, binary.LittleEndian, binThing{
			X:     int16(t.X),
			Y:     int16(t.Y),
			Angle: int16(t.Angle),
			Type:  t.Type,
			Flags: t.Flags,
		})
	}
	return buf.Bytes()
}

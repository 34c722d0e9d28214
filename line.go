package wad

import (
	"bytes"
	"encoding/binary"
	"unsafe"
)

type binLine struct {
	VertexStart int16
	VertexEnd   int16
	Flags       uint16
	Action      uint16
	SectorTag   uint16
	SideR       int16
	SideL       int16
}

// noSide is the on-disk sentinel for a linedef without a second side.
const noSide = -1

// Line is one linedef. V1, V2 reference vertexes and Side1, Side2
// reference sidedefs by 1-based position in the owning Level; Side2 is 0
// for a one-sided line. The disk format is 0-based with 0xFFFF as the
// missing-side sentinel; conversion happens only in the codec.
type Line struct {
	V1, V2 int
	Flags  uint16
	Action uint16
	Tag    uint16
	Side1  int
	Side2  int
}

// TwoSided reports whether the line has a second side.
func (l Line) TwoSided() bool { return l.Side2 != 0 }

// Clone returns a field-wise copy of the line.
func (l Line) Clone() Line { return l }

const lineSize = int(unsafe.Sizeof(binLine{}))

func decodeLines(data []byte) ([]Line, error) {
	count, err := recordCount("LINEDEFS", len(data), lineSize)
	if err != nil {
		return nil, err
	}
	binLines := make([]binLine, count)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, binLines); err != nil {
		return nil, err
	}
	lines := make([]Line, count)
	for i, l := range binLines {
		line := Line{
			V1:     int(l.VertexStart) + 1,
			V2:     int(l.VertexEnd) + 1,
			Flags:  l.Flags,
			Action: l.Action,
			Tag:    l.SectorTag,
			Side1:  int(l.SideR) + 1,
		}
		if l.SideL != noSide {
			line.Side2 = int(l.SideL) + 1
		}
		lines[i] = line
	}
	return lines, nil
}

func encodeLines(lines []Line) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(lines)*lineSize))
	for _, l := range lines {
		bin := binLine{
			VertexStart: int16(l.V1 - 1),
			VertexEnd:   int16(l.V2 - 1),
			Flags:       l.Flags,
			Action:      l.Action,
			SectorTag:   l.Tag,
			SideR:       int16(l.Side1 - 1),
			SideL:       noSide,
		}
		if l.Side2 != 0 {
			bin.SideL = int16(l.Side2 - 1)
		}
		binary.Write(buf, binary.LittleEndian, bin)
	}
	return buf.Bytes()
}

package wad

import (
	"bytes"
	"encoding/binary"
	"unsafe"
)

type binSide struct {
	XOffset       int16
	YOffset       int16
	UpperTexture  String8
	MiddleTexture String8
	LowerTexture  String8
	SectorNum     int16
}

// Side is one sidedef. Sector references a sector by 1-based position in
// the owning Level.
type Side struct {
	XOffset, YOffset     int
	Upper, Middle, Lower string
	Sector               int
}

// Clone returns a field-wise copy of the side.
func (s Side) Clone() Side { return s }

const sideSize = int(unsafe.Sizeof(binSide{}))

func decodeSides(data []byte) ([]Side, error) {
	count, err := recordCount("SIDEDEFS", len(data), sideSize)
	if err != nil {
		return nil, err
	}
	binSides := make([]binSide, count)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, binSides); err != nil {
		return nil, err
	}
	sides := make([]Side, count)
	for i, s := range binSides {
		sides[i] = Side{
			XOffset: int(s.XOffset),
			YOffset: int(s.YOffset),
			Upper:   s.UpperTexture.String(),
			Middle:  s.MiddleTexture.String(),
			Lower:   s.LowerTexture.String(),
			Sector:  int(s.SectorNum) + 1,
		}
	}
	return sides, nil
}

func encodeSides(sides []Side) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(sides)*sideSize))
	for _, s := range sides {
		binary.Write(buf, binary.LittleEndian, binSide{
			XOffset:       int16(s.XOffset),
			YOffset:       int16(s.YOffset),
			UpperTexture:  toString8(s.Upper),
			MiddleTexture: toString8(s.Middle),
			LowerTexture:  toString8(s.Lower),
			SectorNum:     int16(s.Sector - 1),
		})
	}
	return buf.Bytes()
}

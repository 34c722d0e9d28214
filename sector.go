package wad

import (
	"bytes"
	"encoding/binary"
	"unsafe"
)

type binSector struct {
	FloorHeight    int16
	CeilingHeight  int16
	FloorTexture   String8
	CeilingTexture String8
	LightLevel     int16
	Special        uint16
	TagNum         uint16
}

// Sector is one sector record. Special packs four independent 4-bit
// groups, group 1 in the lowest nibble; use SpecialGroup/SetSpecialGroup
// to touch one group without disturbing the others.
type Sector struct {
	FloorHeight, CeilingHeight   int
	FloorTexture, CeilingTexture string
	LightLevel                   int
	Special                      uint16
	Tag                          uint16
}

// SpecialGroup returns 4-bit group n (1 to 4) of the special field.
func (s Sector) SpecialGroup(n int) int {
	return int(s.Special>>(4*(n-1))) & 0x0f
}

// SetSpecialGroup sets 4-bit group n (1 to 4) of the special field.
func (s *Sector) SetSpecialGroup(n, v int) {
	shift := 4 * (n - 1)
	s.Special = s.Special&^(uint16(0x0f)<<shift) | uint16(v&0x0f)<<shift
}

// Clone returns a field-wise copy of the sector.
func (s Sector) Clone() Sector { return s }

const sectorSize = int(unsafe.Sizeof(binSector{}))

func decodeSectors(data []byte) ([]Sector, error) {
	count, err := recordCount("SECTORS", len(data), sectorSize)
	if err != nil {
		return nil, err
	}
	binSectors := make([]binSector, count)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, binSectors); err != nil {
		return nil, err
	}
	sectors := make([]Sector, count)
	for i, s := range binSectors {
		sectors[i] = Sector{
			FloorHeight:    int(s.FloorHeight),
			CeilingHeight:  int(s.CeilingHeight),
			FloorTexture:   s.FloorTexture.String(),
			CeilingTexture: s.CeilingTexture.String(),
			LightLevel:     int(s.LightLevel),
			Special:        s.Special,
			Tag:            s.TagNum,
		}
	}
	return sectors, nil
}

func encodeSectors(sectors []Sector) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(sectors)*sectorSize))
	for _, s := range sectors {
		binary.Write(buf, binary.LittleEndian, binSector{
			FloorHeight:    int16(s.FloorHeight),
			CeilingHeight:  int16(s.CeilingHeight),
			FloorTexture:   toString8(s.FloorTexture),
			CeilingTexture: toString8(s.CeilingTexture),
			LightLevel:     int16(s.LightLevel),
			Special:        s.Special,
			TagNum:         s.Tag,
		})
	}
	return buf.Bytes()
}

package wad

import "fmt"

// Level is the decoded, cross-referenced geometry of one map. Entities
// reference each other by 1-based position in their owning slice; index 0
// means "no reference" where a link is optional. The codecs keep these
// references exactly as stored; Validate checks them on request.
type Level struct {
	Name     string
	Things   []Thing
	Lines    []Line
	Sides    []Side
	Vertexes []Vertex
	Sectors  []Sector
}

// recordCount returns the number of fixed-size records in a lump of
// dataLen bytes, or ErrMalformedRecord when the length does not divide.
func recordCount(name string, dataLen, recSize int) (int, error) {
	if dataLen%recSize != 0 {
		return 0, fmt.Errorf("%w: %s length %d is not a multiple of %d", ErrMalformedRecord, name, dataLen, recSize)
	}
	return dataLen / recSize, nil
}

// LevelFromLumps decodes an extracted map lump group into a Level.
// Sectors and vertexes decode before sidedefs and linedefs so the record
// slices the latter reference exist first.
func LevelFromLumps(group []Lump) (*Level, error) {
	if err := validateMapGroup(group); err != nil {
		return nil, err
	}
	logger.Printf("Decoding map %s ...", group[0].Name)

	level := &Level{Name: group[0].Name}
	var err error
	if level.Things, err = decodeThings(group[1].Data); err != nil {
		return nil, err
	}
	if level.Sectors, err = decodeSectors(group[5].Data); err != nil {
		return nil, err
	}
	if level.Sides, err = decodeSides(group[3].Data); err != nil {
		return nil, err
	}
	if level.Vertexes, err = decodeVertexes(group[4].Data); err != nil {
		return nil, err
	}
	if level.Lines, err = decodeLines(group[2].Data); err != nil {
		return nil, err
	}
	logger.Printf("Decoded map %s: %v things, %v lines, %v sides, %v vertexes, %v sectors",
		level.Name, len(level.Things), len(level.Lines), len(level.Sides), len(level.Vertexes), len(level.Sectors))
	return level, nil
}

// ToLumps encodes the level back into the canonical map lump group order:
// marker, THINGS, LINEDEFS, SIDEDEFS, VERTEXES, SECTORS. The marker is
// empty. For a group produced by MapLumps and decoded unchanged, the
// output is byte-identical to the input.
func (l *Level) ToLumps() []Lump {
	return []Lump{
		{Name: l.Name},
		{Name: "THINGS", Data: encodeThings(l.Things)},
		{Name: "LINEDEFS", Data: encodeLines(l.Lines)},
		{Name: "SIDEDEFS", Data: encodeSides(l.Sides)},
		{Name: "VERTEXES", Data: encodeVertexes(l.Vertexes)},
		{Name: "SECTORS", Data: encodeSectors(l.Sectors)},
	}
}

// Validate checks every cross reference: line vertexes and first sides
// must resolve, a line's second side must resolve or be 0, and every
// side's sector must resolve. The codec itself never rejects out-of-range
// indexes; this is the explicit check for callers that persist a level.
func (l *Level) Validate() error {
	for i, line := range l.Lines {
		if line.V1 < 1 || line.V1 > len(l.Vertexes) || line.V2 < 1 || line.V2 > len(l.Vertexes) {
			return fmt.Errorf("%w: %s line %d vertexes (%d, %d)", ErrDanglingReference, l.Name, i, line.V1, line.V2)
		}
		if line.Side1 < 1 || line.Side1 > len(l.Sides) {
			return fmt.Errorf("%w: %s line %d side 1 (%d)", ErrDanglingReference, l.Name, i, line.Side1)
		}
		if line.Side2 < 0 || line.Side2 > len(l.Sides) {
			return fmt.Errorf("%w: %s line %d side 2 (%d)", ErrDanglingReference, l.Name, i, line.Side2)
		}
	}
	for i, side := range l.Sides {
		if side.Sector < 1 || side.Sector > len(l.Sectors) {
			return fmt.Errorf("%w: %s side %d sector (%d)", ErrDanglingReference, l.Name, i, side.Sector)
		}
	}
	return nil
}

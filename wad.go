// Package wad reads, rewrites, and writes Doom's data archives, known as
// WAD files. The file format is documented in The Unofficial DOOM Specs:
// http://www.gamers.org/dhs/helpdocs/dmsp1666.html
//
// Unlike a pure reader, the package keeps the whole archive resident as an
// ordered lump sequence so callers can replace map geometry and encode the
// result back to bytes.
package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Type is the archive's 4-byte tag: IWAD for a full game archive, PWAD for
// a patch archive layered on top of one.
type Type int

const (
	IWAD Type = iota
	PWAD
)

func (t Type) String() string {
	if t == IWAD {
		return "IWAD"
	}
	return "PWAD"
}

// WAD is an ordered sequence of named lumps plus a type tag. It is built
// once from bytes by Decode, mutated in place by the lump and map-group
// operations, and flattened back to bytes by Encode.
type WAD struct {
	Type  Type
	lumps []Lump
}

type binHeader struct {
	Magic        [4]byte
	NumLumps     int32
	InfoTableOfs int32
}

type binLumpInfo struct {
	Filepos int32
	Size    int32
	Name    String8
}

const headerSize = 12
const lumpInfoSize = 16

// New returns an empty archive of the given type.
func New(t Type) *WAD {
	return &WAD{Type: t}
}

// Decode parses a whole archive from bytes. It fails with ErrBadTag when
// the tag is unrecognized and ErrTruncated when any directory or lump byte
// range falls outside the buffer. Lump contents are copied out of data.
func Decode(data []byte) (*WAD, error) {
	r := bytes.NewReader(data)
	var header binHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: header", ErrTruncated)
	}

	var wadType Type
	switch string(header.Magic[:]) {
	case "IWAD":
		wadType = IWAD
	case "PWAD":
		wadType = PWAD
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadTag, header.Magic[:])
	}

	count := int64(header.NumLumps)
	dirOfs := int64(header.InfoTableOfs)
	if count < 0 || dirOfs < 0 || dirOfs+count*lumpInfoSize > int64(len(data)) {
		return nil, fmt.Errorf("%w: directory", ErrTruncated)
	}
	if _, err := r.Seek(dirOfs, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: directory", ErrTruncated)
	}

	binInfos := make([]binLumpInfo, count)
	if err := binary.Read(r, binary.LittleEndian, binInfos); err != nil {
		return nil, fmt.Errorf("%w: directory", ErrTruncated)
	}

	lumps := make([]Lump, count)
	for i, info := range binInfos {
		ofs, size := int64(info.Filepos), int64(info.Size)
		if ofs < 0 || size < 0 || ofs+size > int64(len(data)) {
			return nil, fmt.Errorf("%w: lump %s", ErrTruncated, info.Name)
		}
		lumps[i] = Lump{
			Name: info.Name.String(),
			Data: bytes.Clone(data[ofs : ofs+size]),
		}
	}

	logger.Printf("Decoded %v: %v lumps", wadType, count)
	return &WAD{Type: wadType, lumps: lumps}, nil
}

// Encode flattens the archive to bytes: header, lump contents in sequence
// order, then the directory with offsets recomputed from actual content
// sizes. It is the exact inverse of Decode for unmodified content.
func (w *WAD) Encode() []byte {
	contentSize := 0
	for _, l := range w.lumps {
		contentSize += len(l.Data)
	}
	buf := bytes.NewBuffer(make([]byte, 0, headerSize+contentSize+lumpInfoSize*len(w.lumps)))

	header := binHeader{
		Magic:        [4]byte{},
		NumLumps:     int32(len(w.lumps)),
		InfoTableOfs: int32(headerSize + contentSize),
	}
	copy(header.Magic[:], w.Type.String())
	binary.Write(buf, binary.LittleEndian, header)

	for _, l := range w.lumps {
		buf.Write(l.Data)
	}

	ofs := int32(headerSize)
	for _, l := range w.lumps {
		binary.Write(buf, binary.LittleEndian, binLumpInfo{
			Filepos: ofs,
			Size:    int32(len(l.Data)),
			Name:    toString8(l.Name),
		})
		ofs += int32(len(l.Data))
	}
	return buf.Bytes()
}

// NumLumps returns the number of lumps in the archive, shadowed or not.
func (w *WAD) NumLumps() int {
	return len(w.lumps)
}

// LumpIndex returns the index of the last lump with the given name.
// Later entries override earlier ones, mirroring engine lookup. The name
// is capped to LumpNameLen first, matching what insertion stores.
func (w *WAD) LumpIndex(name string) (int, bool) {
	name = capName(name)
	for i := len(w.lumps) - 1; i >= 0; i-- {
		if w.lumps[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// LumpAt returns a copy of the lump at index i.
func (w *WAD) LumpAt(i int) Lump {
	return w.lumps[i].clone()
}

// Lump returns a copy of the last lump with the given name.
func (w *WAD) Lump(name string) (Lump, bool) {
	i, ok := w.LumpIndex(name)
	if !ok {
		return Lump{}, false
	}
	return w.lumps[i].clone(), true
}

// IndexedLump pairs a lump copy with its position in the archive.
type IndexedLump struct {
	Index int
	Lump  Lump
}

// Iterate visits lumps in original order. When a name repeats and is not
// in the allow list, only its last occurrence is yielded; the earlier ones
// are shadowed by the override. Shadowing is resolved by scanning from the
// end, so queries over the result never see stale entries.
func (w *WAD) Iterate(allowDup ...string) []IndexedLump {
	allowed := make(map[string]bool, len(allowDup))
	for _, name := range allowDup {
		allowed[name] = true
	}

	visible := make([]bool, len(w.lumps))
	seen := make(map[string]bool, len(w.lumps))
	for i := len(w.lumps) - 1; i >= 0; i-- {
		name := w.lumps[i].Name
		visible[i] = allowed[name] || !seen[name]
		seen[name] = true
	}

	out := make([]IndexedLump, 0, len(w.lumps))
	for i, l := range w.lumps {
		if visible[i] {
			out = append(out, IndexedLump{Index: i, Lump: l.clone()})
		}
	}
	return out
}

// LumpsWithPrefix returns all non-shadowed lumps whose name starts with
// prefix, in original order.
func (w *WAD) LumpsWithPrefix(prefix string) []Lump {
	var out []Lump
	for _, il := range w.Iterate() {
		if strings.HasPrefix(il.Lump.Name, prefix) {
			out = append(out, il.Lump)
		}
	}
	return out
}

// LumpsBetween returns all non-shadowed lumps strictly between a
// zero-length NAME_START (or ALT_START) marker and the next zero-length
// NAME_END or ALT_END marker. Only zero-length lumps act as markers; a
// zero-length lump with any other name is ordinary content. A start
// marker with no closing end marker yields nothing.
func (w *WAD) LumpsBetween(name, altName string) []Lump {
	starts := []string{name + "_START"}
	ends := []string{name + "_END"}
	if altName != "" {
		starts = append(starts, altName+"_START")
		ends = append(ends, altName+"_END")
	}

	var out []Lump
	in := false
	for _, il := range w.Iterate() {
		l := il.Lump
		if l.IsMarker() {
			if !in && slices.Contains(starts, l.Name) {
				in = true
				continue
			}
			if in && slices.Contains(ends, l.Name) {
				return out
			}
		}
		if in {
			out = append(out, l)
		}
	}
	// The start marker was never closed.
	return nil
}

// AppendLump adds a copy of the lump at the end of the archive.
func (w *WAD) AppendLump(l Lump) {
	w.lumps = append(w.lumps, l.clone())
}

// AppendLumps adds copies of the lumps at the end, preserving their order.
func (w *WAD) AppendLumps(lumps []Lump) {
	w.lumps = append(w.lumps, cloneLumps(lumps)...)
}

// InsertLump inserts a copy of the lump before index at.
func (w *WAD) InsertLump(l Lump, at int) {
	w.lumps = slices.Insert(w.lumps, at, l.clone())
}

// InsertLumps inserts copies of the lumps before index at, preserving
// their relative order.
func (w *WAD) InsertLumps(lumps []Lump, at int) {
	w.lumps = slices.Insert(w.lumps, at, cloneLumps(lumps)...)
}

// ReplaceLump overwrites the lump found by LumpIndex(l.Name). It reports
// false, leaving the archive unchanged, when no lump has that name.
func (w *WAD) ReplaceLump(l Lump) bool {
	i, ok := w.LumpIndex(l.Name)
	if !ok {
		return false
	}
	w.lumps[i] = l.clone()
	return true
}

// SetLump replaces the lump if present, else appends it.
func (w *WAD) SetLump(l Lump) {
	if !w.ReplaceLump(l) {
		w.AppendLump(l)
	}
}

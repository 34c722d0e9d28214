package wad

import "bytes"

// LumpNameLen is the fixed width of a lump name in the archive directory.
const LumpNameLen = 8

// Lump is a named blob of bytes, the unit of storage in a WAD archive.
// Lumps have value semantics: the container hands out and accepts copies,
// never aliases into its own storage. A name longer than LumpNameLen is
// capped when the lump enters the archive, so the stored name always
// matches what the directory encodes.
type Lump struct {
	Name string
	Data []byte
}

func capName(name string) string {
	if len(name) > LumpNameLen {
		return name[:LumpNameLen]
	}
	return name
}

// IsMarker reports whether the lump is a zero-length marker.
func (l Lump) IsMarker() bool {
	return len(l.Data) == 0
}

func (l Lump) clone() Lump {
	return Lump{Name: capName(l.Name), Data: bytes.Clone(l.Data)}
}

func cloneLumps(lumps []Lump) []Lump {
	out := make([]Lump, len(lumps))
	for i, l := range lumps {
		out[i] = l.clone()
	}
	return out
}

// String8 is the WAD eight-character string type. Short strings are
// NUL-padded; a name of exactly eight significant characters has no
// terminator.
type String8 [8]byte

// String converts String8 to string, trimming at the first NUL.
func (s String8) String() string {
	i := bytes.IndexByte(s[:], 0)
	if i == -1 {
		i = len(s)
	}
	return string(s[0:i])
}

func toString8(name string) String8 {
	var s String8
	copy(s[:], name)
	return s
}

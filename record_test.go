package wad_test

import (
	"bytes"
	"reflect"
	"testing"

	wad "github.com/stuarthighley/wadforge"
)

// Encoded record widths are part of the on-disk contract.
func TestRecordSizes(t *testing.T) {
	l := testLevel("MAP01")
	group := l.ToLumps()

	sizes := map[string]int{
		"THINGS":   10,
		"LINEDEFS": 14,
		"SIDEDEFS": 30,
		"VERTEXES": 4,
		"SECTORS":  26,
	}
	counts := map[string]int{
		"THINGS":   len(l.Things),
		"LINEDEFS": len(l.Lines),
		"SIDEDEFS": len(l.Sides),
		"VERTEXES": len(l.Vertexes),
		"SECTORS":  len(l.Sectors),
	}
	for _, lump := range group[1:] {
		want := sizes[lump.Name] * counts[lump.Name]
		if len(lump.Data) != want {
			t.Errorf("%s encoded to %d bytes; want %d", lump.Name, len(lump.Data), want)
		}
	}
}

// One record of each kind against hand-assembled little-endian bytes.
func TestKnownEncodings(t *testing.T) {
	l := &wad.Level{
		Name:     "MAP01",
		Things:   []wad.Thing{{X: -2, Y: 3, Angle: 90, Type: 0xF123, Flags: 0xABC5}},
		Lines:    []wad.Line{{V1: 1, V2: 2, Flags: 4, Action: 0x1234, Tag: 9, Side1: 1, Side2: 2}},
		Sides:    []wad.Side{{XOffset: -8, YOffset: 16, Upper: "UP", Middle: "MIDTEX88", Lower: "LO", Sector: 1}},
		Vertexes: []wad.Vertex{{X: -1, Y: 256}, {X: 0, Y: 0}},
		Sectors:  []wad.Sector{{FloorHeight: -16, CeilingHeight: 128, FloorTexture: "FL", CeilingTexture: "CE", LightLevel: 255, Special: 0x4321, Tag: 7}},
	}
	group := l.ToLumps()

	want := map[string][]byte{
		"THINGS": {0xfe, 0xff, 3, 0, 90, 0, 0x23, 0xf1, 0xc5, 0xab},
		"LINEDEFS": {0, 0, 1, 0, 4, 0, 0x34, 0x12, 9, 0, 0, 0, 1, 0},
		"SIDEDEFS": {
			0xf8, 0xff, 16, 0,
			'U', 'P', 0, 0, 0, 0, 0, 0,
			'M', 'I', 'D', 'T', 'E', 'X', '8', '8',
			'L', 'O', 0, 0, 0, 0, 0, 0,
			0, 0,
		},
		"VERTEXES": {0xff, 0xff, 0, 1, 0, 0, 0, 0},
		"SECTORS": {
			0xf0, 0xff, 128, 0,
			'F', 'L', 0, 0, 0, 0, 0, 0,
			'C', 'E', 0, 0, 0, 0, 0, 0,
			255, 0, 0x21, 0x43, 7, 0,
		},
	}
	for _, lump := range group[1:] {
		if !bytes.Equal(lump.Data, want[lump.Name]) {
			t.Errorf("%s = % x; want % x", lump.Name, lump.Data, want[lump.Name])
		}
	}
}

func TestEntityRoundTrip(t *testing.T) {
	levels := []*wad.Level{
		testLevel("MAP01"),
		{
			// Boundary values: param nibble 0xF with editor number 0xFFF,
			// negative coordinates, one- and two-sided lines.
			Name:     "MAP02",
			Things:   []wad.Thing{{X: -32768, Y: 32767, Angle: -1, Type: 0xFFFF, Flags: 0xFFFF}, {}},
			Lines:    []wad.Line{{V1: 1, V2: 2, Side1: 1}, {V1: 2, V2: 1, Side1: 2, Side2: 1}},
			Sides:    []wad.Side{{Sector: 1}, {Upper: "EIGHTCHR", Lower: "-", Sector: 1}},
			Vertexes: []wad.Vertex{{X: -32768, Y: -32768}, {X: 32767, Y: 32767}},
			Sectors:  []wad.Sector{{Special: 0xFFFF, Tag: 0xFFFF}},
		},
	}

	for _, l := range levels {
		got, err := wad.LevelFromLumps(l.ToLumps())
		if err != nil {
			t.Fatalf("%s: LevelFromLumps: %v", l.Name, err)
		}
		if !reflect.DeepEqual(got, l) {
			t.Errorf("%s: round trip = %+v; want %+v", l.Name, got, l)
		}
	}
}

// The on-disk second-side sentinel 0xFFFF maps to in-memory 0 and back.
func TestLineNoSideSentinel(t *testing.T) {
	l := testLevel("MAP01") // its only line has Side2 == 0
	group := l.ToLumps()

	data, _ := func() ([]byte, bool) {
		for _, lump := range group {
			if lump.Name == "LINEDEFS" {
				return lump.Data, true
			}
		}
		return nil, false
	}()
	if data[12] != 0xff || data[13] != 0xff {
		t.Errorf("encoded second side = % x; want ff ff", data[12:14])
	}

	got, err := wad.LevelFromLumps(group)
	if err != nil {
		t.Fatalf("LevelFromLumps: %v", err)
	}
	if got.Lines[0].Side2 != 0 {
		t.Errorf("decoded Side2 = %d; want 0", got.Lines[0].Side2)
	}
	if got.Lines[0].TwoSided() {
		t.Error("TwoSided() = true for a one-sided line")
	}
}

func TestThingPacking(t *testing.T) {
	var th wad.Thing
	th.SetEdNum(0xFFF)
	th.SetParam(0xF)
	if th.EdNum() != 0xFFF || th.Param() != 0xF || th.Type != 0xFFFF {
		t.Errorf("Type packing = %#x (ed %d, param %d)", th.Type, th.EdNum(), th.Param())
	}

	th = wad.Thing{}
	th.SetEdNum(0x123)
	th.SetParam(0xA)
	th.SetParam(0x5) // repack must not disturb the editor number
	if th.EdNum() != 0x123 {
		t.Errorf("SetParam changed EdNum to %#x", th.EdNum())
	}
	th.SetEdNum(0x456)
	if th.Param() != 0x5 {
		t.Errorf("SetEdNum changed Param to %#x", th.Param())
	}

	th = wad.Thing{}
	th.SetSpawnHeight(0xABC)
	th.SetOptions(0x9)
	if th.SpawnHeight() != 0xABC || th.Options() != 0x9 {
		t.Errorf("Flags packing = %#x (height %d, options %d)", th.Flags, th.SpawnHeight(), th.Options())
	}
	th.SetOptions(0x2)
	if th.SpawnHeight() != 0xABC {
		t.Errorf("SetOptions changed SpawnHeight to %#x", th.SpawnHeight())
	}
	th.SetSpawnHeight(0x111)
	if th.Options() != 0x2 {
		t.Errorf("SetSpawnHeight changed Options to %#x", th.Options())
	}
}

func TestSectorSpecialGroups(t *testing.T) {
	var s wad.Sector
	for n := 1; n <= 4; n++ {
		s.SetSpecialGroup(n, n+8)
	}
	for n := 1; n <= 4; n++ {
		if got := s.SpecialGroup(n); got != n+8 {
			t.Errorf("group %d = %d; want %d", n, got, n+8)
		}
	}

	// Rewriting one group leaves the other three alone.
	s.SetSpecialGroup(2, 0)
	for n := 1; n <= 4; n++ {
		want := n + 8
		if n == 2 {
			want = 0
		}
		if got := s.SpecialGroup(n); got != want {
			t.Errorf("after clearing group 2, group %d = %d; want %d", n, got, want)
		}
	}
}

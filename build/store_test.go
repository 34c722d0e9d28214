package build_test

import (
	"errors"
	"testing"

	wad "github.com/stuarthighley/wadforge"
	"github.com/stuarthighley/wadforge/build"
)

func buildLevel(name string) *wad.Level {
	return &wad.Level{
		Name:     name,
		Things:   []wad.Thing{{X: 32, Y: -64, Angle: 90, Type: 1, Flags: 7}},
		Lines:    []wad.Line{{V1: 1, V2: 2, Side1: 1}},
		Sides:    []wad.Side{{Middle: "STARTAN3", Sector: 1}},
		Vertexes: []wad.Vertex{{X: 0, Y: 0}, {X: 128, Y: 0}},
		Sectors:  []wad.Sector{{CeilingHeight: 128, FloorTexture: "FLOOR4_8", CeilingTexture: "CEIL3_5", LightLevel: 160}},
	}
}

func buildArchive(names ...string) *wad.WAD {
	w := wad.New(wad.PWAD)
	for _, name := range names {
		w.AppendLumps(buildLevel(name).ToLumps())
	}
	return w
}

func TestStoreMapNames(t *testing.T) {
	store := build.NewStore(buildArchive("MAP03", "MAP01"))
	got := store.MapNames()
	if len(got) != 2 || got[0] != "MAP03" || got[1] != "MAP01" {
		t.Errorf("MapNames = %v; want archive order [MAP03 MAP01]", got)
	}
}

func TestStoreMemoizes(t *testing.T) {
	store := build.NewStore(buildArchive("MAP01"))

	first, err := store.GetOrLoad("MAP01")
	if err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}
	second, err := store.GetOrLoad("MAP01")
	if err != nil {
		t.Fatalf("GetOrLoad again: %v", err)
	}
	if first != second {
		t.Error("GetOrLoad decoded twice; want the cached instance")
	}

	if _, err := store.GetOrLoad("MAP99"); !errors.Is(err, wad.ErrMissingMarker) {
		t.Errorf("GetOrLoad(MAP99) = %v; want ErrMissingMarker", err)
	}
}

func TestStorePutWritesThrough(t *testing.T) {
	archive := buildArchive("MAP01")
	store := build.NewStore(archive)

	level, err := store.GetOrLoad("MAP01")
	if err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}
	level.Vertexes[0].X = 777
	if err := store.Put(level); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// The archive's VERTEXES lump now encodes the mutation.
	index, _ := archive.LumpIndex("MAP01")
	group, err := archive.MapLumps(index)
	if err != nil {
		t.Fatalf("MapLumps: %v", err)
	}
	decoded, err := wad.LevelFromLumps(group)
	if err != nil {
		t.Fatalf("LevelFromLumps: %v", err)
	}
	if decoded.Vertexes[0].X != 777 {
		t.Errorf("archive vertex x = %d; want 777", decoded.Vertexes[0].X)
	}

	// Putting a brand-new map appends its group.
	if err := store.Put(buildLevel("MAP15")); err != nil {
		t.Fatalf("Put new map: %v", err)
	}
	if _, ok := archive.LumpIndex("MAP15"); !ok {
		t.Error("new map marker not in the archive")
	}
	if got := store.MapNames(); len(got) != 2 || got[1] != "MAP15" {
		t.Errorf("MapNames after put = %v; want [MAP01 MAP15]", got)
	}
}

package build_test

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	wad "github.com/stuarthighley/wadforge"
	"github.com/stuarthighley/wadforge/build"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func testConfig(dir string) *build.Config {
	return &build.Config{
		Source: filepath.Join(dir, "source.wad"),
		Output: filepath.Join(dir, "out.wad"),
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestBuilderRun(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Scripts = []build.ScriptConfig{
		{Map: "MAP01", Script: filepath.Join(dir, "raise.tengo")},
	}

	writeFile(t, cfg.Source, buildArchive("MAP01").Encode())
	writeFile(t, cfg.Scripts[0].Script, []byte(`
m := get_map(map_name)
m.sectors[0].floor_height += 8
m.things = append(m.things, {x: 96, y: 96, angle: 0, type: 2014, flags: 7})
`))

	if err := build.New(cfg, quietLogger()).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	out, err := wad.Decode(data)
	if err != nil {
		t.Fatalf("Decode output: %v", err)
	}
	index, ok := out.LumpIndex("MAP01")
	if !ok {
		t.Fatal("output lost the MAP01 marker")
	}
	group, err := out.MapLumps(index)
	if err != nil {
		t.Fatalf("MapLumps: %v", err)
	}
	level, err := wad.LevelFromLumps(group)
	if err != nil {
		t.Fatalf("LevelFromLumps: %v", err)
	}
	if level.Sectors[0].FloorHeight != 8 {
		t.Errorf("floor height = %d; want 8", level.Sectors[0].FloorHeight)
	}
	if len(level.Things) != 2 || level.Things[1].Type != 2014 {
		t.Errorf("things = %+v; want the appended type 2014", level.Things)
	}
}

func TestBuilderScriptFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Scripts = []build.ScriptConfig{
		{Map: "MAP01", Script: filepath.Join(dir, "bad.tengo")},
	}

	writeFile(t, cfg.Source, buildArchive("MAP01").Encode())
	// Calling a non-callable value aborts the script at runtime.
	writeFile(t, cfg.Scripts[0].Script, []byte(`
m := get_map(map_name)
m.vertexes[0].x = m.vertexes[0].y()
`))

	if err := build.New(cfg, quietLogger()).Run(); err == nil {
		t.Fatal("Run succeeded; want script error")
	}
	if _, err := os.Stat(cfg.Output); !os.IsNotExist(err) {
		t.Error("output written despite the failed script")
	}
}

func TestBuilderNodeBuilderFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.NodeBuilder = []string{filepath.Join(dir, "no-such-tool")}

	writeFile(t, cfg.Source, buildArchive("MAP01").Encode())

	err := build.New(cfg, quietLogger()).Run()
	if err == nil {
		t.Fatal("Run succeeded; want node builder error")
	}
	// The archive itself is still written before the tool runs.
	if _, statErr := os.Stat(cfg.Output); statErr != nil {
		t.Errorf("output not written before node builder: %v", statErr)
	}
}

func TestBuilderWritesPreviews(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.PreviewDir = filepath.Join(dir, "previews")
	cfg.Scripts = []build.ScriptConfig{
		{Map: "MAP01", Script: filepath.Join(dir, "noop.tengo")},
	}

	writeFile(t, cfg.Source, buildArchive("MAP01").Encode())
	writeFile(t, cfg.Scripts[0].Script, []byte(`m := get_map(map_name)`))

	if err := build.New(cfg, quietLogger()).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.PreviewDir, "MAP01.webp")); err != nil {
		t.Errorf("preview missing: %v", err)
	}
}

package build

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	wad "github.com/stuarthighley/wadforge"
	"github.com/stuarthighley/wadforge/preview"
	"github.com/stuarthighley/wadforge/script"
)

// Builder runs one full build of a project.
type Builder struct {
	cfg    *Config
	logger *log.Logger
}

func New(cfg *Config, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Builder{cfg: cfg, logger: logger}
}

// Run executes the whole pipeline: decode the source archive, run every
// configured mutation script sequentially (container order for maps in
// the source, file order for scripts creating new maps), encode, write
// the output, then hand it to the node builder. The first error aborts
// with the output file untouched.
func (b *Builder) Run() error {
	data, err := os.ReadFile(b.cfg.Source)
	if err != nil {
		return err
	}
	archive, err := wad.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", b.cfg.Source, err)
	}

	store := NewStore(archive)
	host := script.NewHost(store)

	ran := map[string]bool{}
	touched := []string{}
	runScript := func(name, path string) error {
		b.logger.Printf("Running %s for %s", path, name)
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := host.Run(src, name); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		ran[name] = true
		touched = append(touched, name)
		return nil
	}

	// Maps present in the source run in archive order of appearance.
	for _, name := range store.MapNames() {
		path, ok := b.cfg.scriptFor(name)
		if !ok {
			continue
		}
		if err := runScript(name, path); err != nil {
			return err
		}
	}
	// Remaining scripts target maps the source does not have yet.
	for _, sc := range b.cfg.Scripts {
		if ran[sc.Map] {
			continue
		}
		if err := runScript(sc.Map, sc.Script); err != nil {
			return err
		}
	}

	if err := os.WriteFile(b.cfg.Output, archive.Encode(), 0o644); err != nil {
		return err
	}
	b.logger.Printf("Wrote %s: %v lumps", b.cfg.Output, archive.NumLumps())

	if len(b.cfg.NodeBuilder) > 0 {
		if err := b.runNodeBuilder(); err != nil {
			return err
		}
	}
	if b.cfg.PreviewDir != "" {
		if err := b.writePreviews(store, touched); err != nil {
			return err
		}
	}
	return nil
}

// runNodeBuilder regenerates SEGS/SSECTORS/NODES/REJECT/BLOCKMAP by
// invoking the configured external tool on the output file.
func (b *Builder) runNodeBuilder() error {
	argv := append(append([]string{}, b.cfg.NodeBuilder...), b.cfg.Output)
	b.logger.Printf("Node building: %v", argv)
	cmd := exec.Command(argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		b.logger.Printf("%s: %s", argv[0], out)
	}
	if err != nil {
		return fmt.Errorf("node builder: %w", err)
	}
	return nil
}

func (b *Builder) writePreviews(store *Store, names []string) error {
	if err := os.MkdirAll(b.cfg.PreviewDir, 0o755); err != nil {
		return err
	}
	for _, name := range names {
		level, err := store.GetOrLoad(name)
		if err != nil {
			return err
		}
		path := filepath.Join(b.cfg.PreviewDir, name+".webp")
		if err := preview.Save(path, level); err != nil {
			return fmt.Errorf("preview %s: %w", name, err)
		}
		b.logger.Printf("Preview %s", path)
	}
	return nil
}

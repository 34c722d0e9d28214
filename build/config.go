// Package build drives a whole archive build: load the source WAD, run
// each map's mutation script in archive order, serialize, hand the result
// to an external node builder, and write the output file. The first error
// anywhere aborts the build with no output written.
package build

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML project file.
type Config struct {
	// Source and Output are the input and result archive paths.
	Source string `yaml:"source"`
	Output string `yaml:"output"`

	// Scripts maps marker names to mutation scripts. Scripts for maps
	// present in the source run in archive order; scripts for absent maps
	// run afterwards in file order and are expected to create their map.
	Scripts []ScriptConfig `yaml:"scripts"`

	// NodeBuilder is the argv of an external node builder invoked on the
	// output file after a successful write; the output path is appended
	// as the final argument. Empty means no node building.
	NodeBuilder []string `yaml:"node_builder"`

	// PreviewDir, when set, receives a WebP render of every map that was
	// touched by a script.
	PreviewDir string `yaml:"preview_dir"`
}

// ScriptConfig names one mutation script and the map it targets.
type ScriptConfig struct {
	Map    string `yaml:"map"`
	Script string `yaml:"script"`
}

// LoadConfig reads and validates a project file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses and validates project file contents.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Source == "" {
		return nil, fmt.Errorf("project file: source is required")
	}
	if cfg.Output == "" {
		return nil, fmt.Errorf("project file: output is required")
	}
	if cfg.Source == cfg.Output {
		return nil, fmt.Errorf("project file: source and output are the same file")
	}
	seen := map[string]bool{}
	for i, sc := range cfg.Scripts {
		if sc.Map == "" || sc.Script == "" {
			return nil, fmt.Errorf("project file: scripts[%d]: map and script are required", i)
		}
		if seen[sc.Map] {
			return nil, fmt.Errorf("project file: scripts[%d]: duplicate map %s", i, sc.Map)
		}
		seen[sc.Map] = true
	}
	return &cfg, nil
}

// scriptFor returns the script path configured for a marker name.
func (c *Config) scriptFor(name string) (string, bool) {
	for _, sc := range c.Scripts {
		if sc.Map == name {
			return sc.Script, true
		}
	}
	return "", false
}

// WatchPaths lists the files whose changes should trigger a rebuild: the
// source archive and every mutation script.
func (c *Config) WatchPaths() []string {
	paths := []string{c.Source}
	for _, sc := range c.Scripts {
		paths = append(paths, sc.Script)
	}
	return paths
}

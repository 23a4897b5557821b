// Package config loads the optional coolc.yaml project file (SPEC_FULL.md
// "AMBIENT STACK"), mirroring the teacher's use of yaml.v3 for structured
// fixtures: a small typed struct, decoded with gopkg.in/yaml.v3, with every
// field optional. cmd/coolc has no flags for these fields; the file is their
// only source.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the decoded shape of coolc.yaml.
type Config struct {
	// RuntimePath overrides the runtime library concatenated onto emitted
	// MIPS (spec.md §1); empty means "use the library compiled into
	// internal/codegen/mips". Threaded into internal/pipeline.Options by
	// cmd/coolc/main.go.
	RuntimePath string `yaml:"runtime-path"`

	// OutputDir overrides where the output takes `.cl` → `.mips` renaming
	// relative to (spec.md §6); empty means "alongside the source file".
	OutputDir string `yaml:"output-dir"`
}

// Default returns the zero-value configuration coolc runs with when no
// coolc.yaml is present.
func Default() *Config {
	return &Config{}
}

// Load reads and decodes path. A missing file is returned as the read
// error; LoadOrDefault is the variant that falls back to Default() instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path if it exists, returning Default() when it does
// not, so cmd/coolc never has to special-case a missing project file.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

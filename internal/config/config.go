// Package config handles glide.toml project manifests.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest looked for in a project directory.
const FileName = "glide.toml"

type Manifest struct {
	Name        string   `toml:"name"`
	Entry       string   `toml:"entry"`
	StdRoot     string   `toml:"std_root"`
	ModulePaths []string `toml:"module_paths"`
	MaxDepth    int      `toml:"max_depth"`
	MaxSteps    int64    `toml:"max_steps"`

	// Dir is the directory containing the manifest (set at load time).
	Dir string `toml:"-"`
}

// LoadManifest parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if m.MaxDepth < 0 || m.MaxSteps < 0 {
		return nil, fmt.Errorf("%s: max_depth and max_steps must not be negative", path)
	}

	m.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	if m.Entry == "" {
		m.Entry = "main.glide"
	}
	return &m, nil
}

// Load parses glide.toml from dir.
func Load(dir string) (*Manifest, error) {
	return LoadManifest(filepath.Join(dir, FileName))
}

// FindAndLoad walks up from startDir to the nearest glide.toml. It returns
// nil, nil when there is none.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// EntryPath is the absolute path of the entry file.
func (m *Manifest) EntryPath() string {
	return m.abs(m.Entry)
}

// ResolvePaths returns the std root (defaultStd when unset) and the module
// search paths, all absolute.
func (m *Manifest) ResolvePaths(defaultStd string) (string, []string) {
	std := defaultStd
	if m.StdRoot != "" {
		std = m.abs(m.StdRoot)
	}
	paths := make([]string, 0, len(m.ModulePaths))
	for _, p := range m.ModulePaths {
		paths = append(paths, m.abs(p))
	}
	return std, paths
}

func (m *Manifest) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// Encode renders m as TOML, used by glide init.
func (m *Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

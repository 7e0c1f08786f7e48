package mods

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	pkgerrors "github.com/pkg/errors"
)

const ManifestFile = "mod.toml"

// Manifest is the optional description a mod ships next to its package.
type Manifest struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Description string   `toml:"description"`
	Authors     []string `toml:"authors"`
}

// LoadManifest reads dir/mod.toml. A missing file gives a nil manifest.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse %s", path)
	}
	return m, nil
}

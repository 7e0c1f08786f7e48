package mods

import (
	"errors"
	"os"
	"path/filepath"
	"plugin"
	"sync"

	pkgerrors "github.com/pkg/errors"
)

const (
	// EntryPoint is the symbol every mod package exports, a func() Mod.
	EntryPoint = "NewMod"
	// PluginFile is the plugin a mod directory ships, built with -buildmode=plugin.
	PluginFile = "mod.so"
)

var (
	ErrNoPackage    = errors.New("mod package not found")
	ErrNoEntryPoint = errors.New("mod package has no " + EntryPoint + " entry point")
)

type Factory func() Mod

// PackageOpener finds the entry point of the mod installed in dir.
type PackageOpener interface {
	Open(dir string) (Factory, error)
}

func factoryOf(sym any) (Factory, error) {
	switch f := sym.(type) {
	case func() Mod:
		return f, nil
	case *func() Mod:
		return *f, nil
	case Factory:
		return f, nil
	}
	return nil, pkgerrors.Wrapf(ErrNoEntryPoint, "%s is a %T, want func() mods.Mod", EntryPoint, sym)
}

// PluginOpener opens dir/mod.so with the plugin package.
type PluginOpener struct{}

func (PluginOpener) Open(dir string) (Factory, error) {
	path := filepath.Join(dir, PluginFile)
	if _, err := os.Stat(path); err != nil {
		return nil, pkgerrors.Wrapf(ErrNoPackage, "%s", path)
	}
	p, err := plugin.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open plugin %s", path)
	}
	sym, err := p.Lookup(EntryPoint)
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrNoEntryPoint, "%s: %s", path, err)
	}
	return factoryOf(sym)
}

// StaticOpener serves mods compiled into the binary. Packages are looked up
// by the base name of the mod directory and expose a symbol table like a plugin.
type StaticOpener struct {
	mu       sync.RWMutex
	packages map[string]map[string]any
}

func NewStaticOpener() *StaticOpener {
	return &StaticOpener{packages: make(map[string]map[string]any)}
}

// Register installs the symbols of the package served for directory name.
func (so *StaticOpener) Register(name string, symbols map[string]any) {
	so.mu.Lock()
	defer so.mu.Unlock()
	so.packages[name] = symbols
}

// RegisterFactory is Register for the common case of a single entry point.
func (so *StaticOpener) RegisterFactory(name string, factory func() Mod) {
	so.Register(name, map[string]any{EntryPoint: factory})
}

func (so *StaticOpener) Open(dir string) (Factory, error) {
	so.mu.RLock()
	symbols, ok := so.packages[filepath.Base(dir)]
	so.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.Wrapf(ErrNoPackage, "no static package for %s", dir)
	}
	sym, ok := symbols[EntryPoint]
	if !ok {
		return nil, pkgerrors.Wrapf(ErrNoEntryPoint, "static package %s", filepath.Base(dir))
	}
	return factoryOf(sym)
}

// MultiOpener asks each opener in turn until one finds a package.
type MultiOpener []PackageOpener

func (mo MultiOpener) Open(dir string) (Factory, error) {
	for _, o := range mo {
		f, err := o.Open(dir)
		if errors.Is(err, ErrNoPackage) {
			continue
		}
		return f, err
	}
	return nil, pkgerrors.Wrapf(ErrNoPackage, "%s", dir)
}

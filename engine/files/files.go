package files

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

var ErrOutsideRoot = errors.New("path escapes the mods root")

type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Manager resolves paths below the mods root and keeps an index of what
// each mod ships, so mods can discover their own content.
type Manager struct {
	modsRoot string

	mutex sync.RWMutex
	index map[string][]FileInfo // mod directory -> files
}

func NewManager(modsRoot string) *Manager {
	return &Manager{
		modsRoot: modsRoot,
		index:    make(map[string][]FileInfo),
	}
}

func (fm *Manager) ModsRoot() string {
	return fm.modsRoot
}

// ModDirectory returns the install directory of a mod directory name.
func (fm *Manager) ModDirectory(name string) string {
	return filepath.Join(fm.modsRoot, name)
}

// ModDirectories lists the subdirectories of the mods root in the order
// the file system returns them.
func (fm *Manager) ModDirectories() ([]string, error) {
	f, err := os.Open(fm.modsRoot)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs, nil
}

// Resolve joins elem below dir and refuses results that leave dir.
func (fm *Manager) Resolve(dir string, elem ...string) (string, error) {
	p := filepath.Join(append([]string{dir}, elem...)...)
	rel, err := filepath.Rel(dir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return p, nil
}

func (fm *Manager) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Index walks dir and records every regular file in it.
func (fm *Manager) Index(dir string) ([]FileInfo, error) {
	var found []FileInfo
	err := filepath.WalkDir(dir, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		found = append(found, FileInfo{Path: walkPath, Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })

	fm.mutex.Lock()
	fm.index[dir] = found
	fm.mutex.Unlock()
	return found, nil
}

// Find returns indexed files of dir with the given extension.
func (fm *Manager) Find(dir, ext string) []FileInfo {
	fm.mutex.RLock()
	defer fm.mutex.RUnlock()
	var out []FileInfo
	for _, f := range fm.index[dir] {
		if strings.EqualFold(filepath.Ext(f.Path), ext) {
			out = append(out, f)
		}
	}
	return out
}

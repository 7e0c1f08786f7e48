package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	pkgerrors "github.com/pkg/errors"

	"github.com/spaghettifunk/gameengine/engine/core"
)

// Settings is the persisted key/value store of one mod. Dotted keys
// address nested tables, e.g. "video.width".
type Settings struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
	dirty  bool
}

func newSettings(path string) *Settings {
	return &Settings{path: path, values: make(map[string]any)}
}

func (s *Settings) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	values := make(map[string]any)
	if err := toml.Unmarshal(data, &values); err != nil {
		return pkgerrors.Wrapf(err, "failed to decode settings %s", s.path)
	}
	s.mu.Lock()
	s.values = values
	s.dirty = false
	s.mu.Unlock()
	return nil
}

// Get returns the raw value under key.
func (s *Settings) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	table := s.values
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := table[p].(map[string]any)
		if !ok {
			return nil, false
		}
		table = next
	}
	v, ok := table[parts[len(parts)-1]]
	return v, ok
}

func (s *Settings) GetString(key, def string) string {
	if v, ok := s.Get(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return def
}

func (s *Settings) GetInt(key string, def int) int {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return def
}

func (s *Settings) GetFloat(key string, def float64) float64 {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return def
}

func (s *Settings) GetBool(key string, def bool) bool {
	if v, ok := s.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Set stores value under key, creating intermediate tables. A scalar in
// the way of a table is replaced.
func (s *Settings) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table := s.values
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := table[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			table[p] = next
		}
		table = next
	}
	table[parts[len(parts)-1]] = value
	s.dirty = true
}

func (s *Settings) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Save writes the settings if they changed since the last load or save.
func (s *Settings) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	data, err := toml.Marshal(s.values)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode settings %s", s.path)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

/** @brief Keeps one Settings per mod, persisted as <dir>/<modID>.toml. */
type Manager struct {
	dir string
	mu  sync.Mutex
	mod map[string]*Settings
}

func NewManager(dir string) *Manager {
	return &Manager{dir: dir, mod: make(map[string]*Settings)}
}

// Load (re)reads the persisted settings of modID. A missing file yields
// empty settings.
func (m *Manager) Load(modID string) (*Settings, error) {
	s := m.For(modID)
	if err := s.load(); err != nil {
		core.LogError("failed to load settings for mod '%s': %s", modID, err)
		return s, err
	}
	return s, nil
}

// For returns the settings of modID without touching the disk.
func (m *Manager) For(modID string) *Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.mod[modID]
	if !ok {
		s = newSettings(filepath.Join(m.dir, modID+".toml"))
		m.mod[modID] = s
	}
	return s
}

// Save persists the settings of modID.
func (m *Manager) Save(modID string) error {
	return m.For(modID).Save()
}

func (m *Manager) SaveAll() error {
	m.mu.Lock()
	all := make(map[string]*Settings, len(m.mod))
	for id, s := range m.mod {
		all[id] = s
	}
	m.mu.Unlock()

	var errs []error
	for id, s := range all {
		if err := s.Save(); err != nil {
			core.LogError("failed to save settings for mod '%s': %s", id, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

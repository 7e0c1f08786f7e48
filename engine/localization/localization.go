package localization

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-ini/ini"

	"github.com/spaghettifunk/gameengine/engine/core"
)

const (
	// Directory is where a mod keeps its language files.
	Directory = "localization"
	// Extension of a language file, e.g. localization/en.lang.
	Extension = ".lang"
)

// Source is one mod contributing translations.
type Source struct {
	ModID     string
	Directory string
}

// Manager holds the translation table of the current language. Keys are
// namespaced by mod, `modID:key`, or `modID:section.key` for keys below
// an ini section.
type Manager struct {
	mu       sync.RWMutex
	language string
	table    map[string]string
	events   *core.EventBus
}

func NewManager(language string, events *core.EventBus) *Manager {
	return &Manager{
		language: language,
		table:    make(map[string]string),
		events:   events,
	}
}

func (m *Manager) Language() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.language
}

// SetLanguage switches the language. The table is only refreshed by the next Reload.
func (m *Manager) SetLanguage(language string) {
	m.mu.Lock()
	m.language = language
	m.mu.Unlock()
}

// Reload drops every translation and rebuilds the table from the language
// file of each source. Sources without a file for the language are skipped.
// A broken file is logged and skipped; its error is returned after all
// sources were read.
func (m *Manager) Reload(sources []Source) error {
	language := m.Language()
	table := make(map[string]string)

	var errs []error
	for _, src := range sources {
		path := filepath.Join(src.Directory, Directory, language+Extension)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := readLanguageFile(path, src.ModID, table); err != nil {
			core.LogError("failed to read localization %s: %s", path, err)
			errs = append(errs, err)
		}
	}

	m.mu.Lock()
	m.table = table
	m.mu.Unlock()

	core.LogDebug("localization reloaded: %d keys for '%s'", len(table), language)
	if m.events != nil {
		m.events.Fire(core.EVENT_CODE_LOCALIZATION_RELOADED, m, core.EventContext{Name: language, Data: len(table)})
	}
	return errors.Join(errs...)
}

func readLanguageFile(path, modID string, table map[string]string) error {
	file, err := ini.LoadSources(ini.LoadOptions{KeyValueDelimiters: "="}, path)
	if err != nil {
		return err
	}
	for _, sec := range file.Sections() {
		prefix := modID + ":"
		if sec.Name() != ini.DefaultSection {
			prefix += sec.Name() + "."
		}
		for _, key := range sec.Keys() {
			table[prefix+key.Name()] = key.String()
		}
	}
	return nil
}

// Get returns the translation of key.
func (m *Manager) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.table[key]
	return v, ok
}

// Translate returns the translation of key, or the key itself when missing.
func (m *Manager) Translate(key string) string {
	if v, ok := m.Get(key); ok {
		return v
	}
	return key
}

func (m *Manager) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.table))
	for k := range m.table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

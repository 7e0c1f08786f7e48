package mods

import (
	"errors"
	"sort"
	"sync"

	"github.com/petar/GoLLRB/llrb"
	pkgerrors "github.com/pkg/errors"

	"github.com/spaghettifunk/gameengine/engine/core"
	"github.com/spaghettifunk/gameengine/engine/files"
	"github.com/spaghettifunk/gameengine/engine/localization"
)

var ErrNilMod = errors.New(EntryPoint + " returned no mod")

type installedMod struct {
	id  string
	mod Mod
	dir string
}

func (im *installedMod) Less(than llrb.Item) bool {
	return im.id < than.(*installedMod).id
}

// PriorityGroup lists the installed mods sharing one priority.
type PriorityGroup struct {
	Priority int
	Mods     []Mod
}

/**
 * @brief Manager discovers, installs and drives mods. The base mod is
 * loaded first and lives apart from the other installed mods, which are
 * kept ordered by identifier.
 */
type Manager struct {
	opener  PackageOpener
	files   *files.Manager
	baseDir string

	mu         sync.RWMutex
	services   *Services
	base       *installedMod
	installed  *llrb.LLRB
	priorities map[int][]Mod
}

func NewManager(opener PackageOpener, fm *files.Manager, baseMod string) *Manager {
	return &Manager{
		opener:     opener,
		files:      fm,
		baseDir:    baseMod,
		installed:  llrb.New(),
		priorities: make(map[int][]Mod),
	}
}

// Bind sets the services handed to every mod in OnLoad. It must be called before LoadMods.
func (m *Manager) Bind(services *Services) {
	m.mu.Lock()
	m.services = services
	m.mu.Unlock()
}

// LoadMods loads the base mod, then every other directory of the mods root
// in enumeration order. A mod that fails to load is logged and skipped.
// The returned error is only about the mods root itself.
func (m *Manager) LoadMods() error {
	m.loadIsolated(m.files.ModDirectory(m.baseDir), true)

	dirs, err := m.files.ModDirectories()
	if err != nil {
		core.LogError("failed to list mods in %s: %s", m.files.ModsRoot(), err)
		return err
	}
	for _, name := range dirs {
		if name == m.baseDir {
			continue
		}
		m.loadIsolated(m.files.ModDirectory(name), false)
	}

	core.LogInfo("Mods loaded: base=%t, %d installed.", m.Base() != nil, m.installed.Len())
	return nil
}

func (m *Manager) loadIsolated(dir string, isBase bool) {
	err := core.Guard("load mod "+dir, func() error {
		return m.loadMod(dir, isBase)
	})
	if err != nil {
		core.LogError("failed to load mod from %s: %+v", dir, err)
	}
}

func (m *Manager) loadMod(dir string, isBase bool) error {
	factory, err := m.opener.Open(dir)
	if err != nil {
		return err
	}
	mod := factory()
	if mod == nil {
		return pkgerrors.WithStack(ErrNilMod)
	}

	id := mod.ID()
	if err := ValidateID(id); err != nil {
		return pkgerrors.WithStack(err)
	}
	if !isBase {
		if err := ValidatePriority(mod.Priority()); err != nil {
			return pkgerrors.Wrapf(err, "mod '%s'", id)
		}
	}
	manifest, err := LoadManifest(dir)
	if err != nil {
		return err
	}
	if in, ok := mod.(installer); ok {
		in.install(dir, manifest)
	}

	entry := &installedMod{id: id, mod: mod, dir: dir}
	if err := m.install(entry, isBase); err != nil {
		return err
	}

	services := m.boundServices()
	if services != nil {
		m.reloadLocalization(services.Localization)
		if services.Settings != nil {
			// broken settings are logged by the settings manager and start empty
			_, _ = services.Settings.Load(id)
		}
	}

	if err := core.Guard("OnLoad "+id, func() error { return mod.OnLoad(m.servicesFor(services, id)) }); err != nil {
		m.uninstall(entry, isBase)
		if services != nil {
			m.reloadLocalization(services.Localization)
		}
		return pkgerrors.Wrapf(err, "mod '%s' failed in OnLoad", id)
	}

	core.LogInfo("Mod '%s' loaded from %s.", id, dir)
	if services != nil && services.Events != nil {
		services.Events.Fire(core.EVENT_CODE_MOD_LOADED, m, core.EventContext{Name: id, Data: dir})
	}
	return nil
}

func (m *Manager) boundServices() *Services {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.services
}

func (m *Manager) servicesFor(services *Services, id string) *Services {
	if services == nil {
		return nil
	}
	return services.forMod(id)
}

func (m *Manager) install(entry *installedMod, isBase bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if isBase {
		m.base = entry
		return nil
	}
	if m.installed.Has(entry) {
		return pkgerrors.Wrapf(ErrDuplicateMod, "mod '%s' from %s", entry.id, entry.dir)
	}
	m.installed.ReplaceOrInsert(entry)
	p := entry.mod.Priority()
	m.priorities[p] = append(m.priorities[p], entry.mod)
	return nil
}

func (m *Manager) uninstall(entry *installedMod, isBase bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if isBase {
		m.base = nil
		return
	}
	m.installed.Delete(entry)
	p := entry.mod.Priority()
	group := m.priorities[p][:0]
	for _, mod := range m.priorities[p] {
		if mod != entry.mod {
			group = append(group, mod)
		}
	}
	if len(group) == 0 {
		delete(m.priorities, p)
	} else {
		m.priorities[p] = group
	}
}

// reloadLocalization rebuilds the translations from every installed mod.
func (m *Manager) reloadLocalization(loc *localization.Manager) {
	if loc == nil {
		return
	}
	var sources []localization.Source
	m.each(func(e *installedMod) {
		sources = append(sources, localization.Source{ModID: e.id, Directory: e.dir})
	})
	if err := loc.Reload(sources); err != nil {
		core.LogWarn("localization reloaded with errors: %s", err)
	}
}

// each visits the base mod, then the installed mods in identifier order.
func (m *Manager) each(fn func(*installedMod)) {
	m.mu.RLock()
	entries := make([]*installedMod, 0, m.installed.Len()+1)
	if m.base != nil {
		entries = append(entries, m.base)
	}
	m.installed.AscendGreaterOrEqual(m.installed.Min(), func(i llrb.Item) bool {
		entries = append(entries, i.(*installedMod))
		return true
	})
	m.mu.RUnlock()

	for _, e := range entries {
		fn(e)
	}
}

// InitializeMods calls Initialize on the base mod, then on every installed
// mod in identifier order. Failures are logged and do not stop the others.
func (m *Manager) InitializeMods() error {
	var errs []error
	m.each(func(e *installedMod) {
		if err := core.Guard("Initialize "+e.id, e.mod.Initialize); err != nil {
			core.LogError("failed to initialize mod '%s': %+v", e.id, err)
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// Base returns the base mod, or nil if it failed to load.
func (m *Manager) Base() Mod {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.base == nil {
		return nil
	}
	return m.base.mod
}

// Mods returns the installed mods, without the base mod, in identifier order.
func (m *Manager) Mods() []Mod {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Mod, 0, m.installed.Len())
	m.installed.AscendGreaterOrEqual(m.installed.Min(), func(i llrb.Item) bool {
		out = append(out, i.(*installedMod).mod)
		return true
	})
	return out
}

// Mod returns the base mod or an installed mod by identifier.
func (m *Manager) Mod(id string) Mod {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.base != nil && m.base.id == id {
		return m.base.mod
	}
	if item := m.installed.Get(&installedMod{id: id}); item != nil {
		return item.(*installedMod).mod
	}
	return nil
}

// ByPriority groups the installed mods by priority, highest first.
func (m *Manager) ByPriority() []PriorityGroup {
	m.mu.RLock()
	defer m.mu.RUnlock()
	groups := make([]PriorityGroup, 0, len(m.priorities))
	for p, mods := range m.priorities {
		groups = append(groups, PriorityGroup{Priority: p, Mods: append([]Mod(nil), mods...)})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Priority > groups[j].Priority })
	return groups
}

// Shutdown runs the Shutdown hooks in reverse initialization order and
// saves every mod's settings.
func (m *Manager) Shutdown() error {
	var entries []*installedMod
	m.each(func(e *installedMod) { entries = append(entries, e) })

	services := m.boundServices()
	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if s, ok := e.mod.(Shutdowner); ok {
			if err := core.Guard("Shutdown "+e.id, s.Shutdown); err != nil {
				core.LogError("failed to shut down mod '%s': %+v", e.id, err)
				errs = append(errs, err)
			}
		}
		if services != nil && services.Settings != nil {
			if err := services.Settings.Save(e.id); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

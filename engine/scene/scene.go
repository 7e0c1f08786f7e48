package scene

import (
	"sync"

	"github.com/google/uuid"

	"github.com/spaghettifunk/gameengine/engine/core"
	"github.com/spaghettifunk/gameengine/engine/resources"
)

// Scene is whatever a mod puts on screen. Resources it loads with
// global=false are released when the next scene is loaded.
type Scene interface {
	Name() string
	OnEnter() error
	Update(delta float64) error
	OnExit()
}

type Manager struct {
	resources *resources.Manager
	events    *core.EventBus

	mu       sync.RWMutex
	current  Scene
	instance uuid.UUID
}

func NewManager(res *resources.Manager, events *core.EventBus) *Manager {
	return &Manager{
		resources: res,
		events:    events,
	}
}

// Load replaces the current scene. The previous scene exits first and
// all resident scene scoped resources are dropped before the new one
// enters. Scene loads the previous scene queued but that are still pending
// are not cancelled and land in the new scene's table.
func (m *Manager) Load(s Scene) error {
	m.mu.Lock()
	previous := m.current
	m.current = nil
	m.mu.Unlock()

	if previous != nil {
		if err := core.Guard("exit scene "+previous.Name(), func() error {
			previous.OnExit()
			return nil
		}); err != nil {
			core.LogError("%+v", err)
		}
	}
	dropped := m.resources.ClearSceneResources()
	core.LogDebug("released %d scene resources", dropped)

	if err := core.Guard("enter scene "+s.Name(), s.OnEnter); err != nil {
		core.LogError("failed to load scene '%s': %+v", s.Name(), err)
		return err
	}

	id := uuid.New()
	m.mu.Lock()
	m.current = s
	m.instance = id
	m.mu.Unlock()

	core.LogInfo("Scene '%s' loaded (%s).", s.Name(), id)
	if m.events != nil {
		m.events.Fire(core.EVENT_CODE_SCENE_LOADED, m, core.EventContext{Name: s.Name(), Data: id})
	}
	return nil
}

func (m *Manager) Current() Scene {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// InstanceID identifies the current scene instance; loading the same scene twice gives two ids.
func (m *Manager) InstanceID() uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instance
}

// Update ticks the current scene. A failing or panicking scene is logged
// and keeps running.
func (m *Manager) Update(delta float64) {
	s := m.Current()
	if s == nil {
		return
	}
	if err := core.Guard("update scene "+s.Name(), func() error { return s.Update(delta) }); err != nil {
		core.LogError("%+v", err)
	}
}

// Unload exits the current scene and drops its resources.
func (m *Manager) Unload() {
	m.mu.Lock()
	s := m.current
	m.current = nil
	m.instance = uuid.Nil
	m.mu.Unlock()
	if s != nil {
		s.OnExit()
	}
	m.resources.ClearSceneResources()
}

package resources

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/xiaonanln/go-xnsyncutil/xnsyncutil"

	"github.com/spaghettifunk/gameengine/engine/core"
)

/** @brief The configuration for the resource manager */
type ManagerConfig struct {
	/** @brief Receives EVENT_CODE_RESOURCE_LOADED after each publication. Optional. */
	Events *core.EventBus
}

// Owner is the mod a mod-facing load is issued for.
type Owner interface {
	ID() string
	Directory() string
}

type pendingLoad struct {
	task *Task
	done *xnsyncutil.OneTimeCond
}

type residentEntry struct {
	tag      any
	resource any
	task     *Task
}

// Manager schedules resource loads. Load may be called from any goroutine;
// ContinueLoading must only be called from the game thread, once per tick.
type Manager struct {
	registry *loaderRegistry
	events   *core.EventBus

	// mu guards queue and makes enqueue atomic with the queued insert.
	mu    sync.Mutex
	queue *loadingQueue

	// identifier -> *pendingLoad, covering both queued and loading.
	queued      sync.Map
	queuedCount atomic.Int64

	tablesMu sync.RWMutex
	global   map[string]*residentEntry
	scene    map[string]*residentEntry

	closed xnsyncutil.AtomicBool
}

func NewManager(config ManagerConfig) *Manager {
	m := &Manager{
		registry: newLoaderRegistry(),
		events:   config.Events,
		queue:    newLoadingQueue(),
		global:   make(map[string]*residentEntry),
		scene:    make(map[string]*residentEntry),
	}
	core.LogInfo("Resource manager initialized.")
	return m
}

// Load queues identifier for loading with the engine-facing path rules:
// file paths are used exactly as given.
func Load[R any, P Parameters](m *Manager, identifier string, params P, priority int, global bool) error {
	task, err := newTask[R](identifier, params, priority, global)
	if err != nil {
		return err
	}
	return m.enqueue(task, nil)
}

// LoadFromMod queues identifier on behalf of owner. Relative file paths are
// rewritten to live under the owner's install directory once the task is
// accepted; a rejected load leaves params untouched.
func LoadFromMod[R any, P Parameters](m *Manager, owner Owner, identifier string, params P, priority int, global bool) error {
	if owner == nil || owner.ID() == "" || owner.Directory() == "" {
		core.LogError("failed to load resource '%s': %s", identifier, ErrUnknownOwner)
		return ErrUnknownOwner
	}
	task, err := newTask[R](identifier, params, priority, global)
	if err != nil {
		return err
	}
	return m.enqueue(task, func() { rootPaths(params, owner.Directory()) })
}

func rootPaths(params Parameters, dir string) {
	paths := params.FilePaths()
	if paths == nil {
		return
	}
	rooted := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) {
			rooted[i] = p
		} else {
			rooted[i] = filepath.Join(dir, p)
		}
	}
	params.SetFilePaths(rooted)
}

// enqueue pushes task unless the manager is closed or the identifier is
// pending. accepted runs under the queue lock right before the push.
func (m *Manager) enqueue(task *Task, accepted func()) error {
	m.mu.Lock()
	if m.closed.Load() {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	if _, loaded := m.queued.LoadOrStore(task.Identifier, &pendingLoad{task: task, done: xnsyncutil.NewOneTimeCond()}); loaded {
		m.mu.Unlock()
		core.LogError("failed to queue resource '%s': %s", task.Identifier, ErrDuplicateResource)
		return ErrDuplicateResource
	}
	if accepted != nil {
		accepted()
	}
	m.queuedCount.Add(1)
	m.queue.push(task)
	m.mu.Unlock()

	core.LogDebug("queued resource %s", task)
	return nil
}

// ContinueLoading loads the highest priority pending task, if any. Within
// one priority, tasks load in the order they were queued.
func (m *Manager) ContinueLoading() {
	m.mu.Lock()
	task, ok := m.queue.pop()
	m.mu.Unlock()
	if !ok {
		return
	}
	// the identifier stays pending until the resource is published
	defer m.release(task.Identifier)

	loader, ok := m.registry.get(loaderKey{resource: task.resourceTag, parameters: task.parametersTag})
	if !ok {
		core.LogError("failed to load resource %s: %s (%s / %s)", task, ErrLoaderNotFound,
			tagName(task.resourceTag), tagName(task.parametersTag))
		return
	}

	var resource any
	err := core.Guard("load "+task.Identifier, func() error {
		var err error
		resource, err = loader.load(task.Identifier, task.Parameters.FilePaths(), task.Parameters)
		return err
	})
	if err != nil {
		core.LogError("loader failed for resource %s: %+v", task, err)
	}
	if resource == nil {
		return
	}

	m.publish(task, resource)
	core.LogDebug("loaded resource %s", task)

	if m.events != nil {
		m.events.Fire(core.EVENT_CODE_RESOURCE_LOADED, m, core.EventContext{
			Name: task.Identifier,
			Data: task.Global,
		})
	}
}

func (m *Manager) publish(task *Task, resource any) {
	entry := &residentEntry{tag: task.resourceTag, resource: resource, task: task}

	m.tablesMu.Lock()
	defer m.tablesMu.Unlock()
	if task.Global {
		delete(m.scene, task.Identifier)
		m.global[task.Identifier] = entry
	} else {
		delete(m.global, task.Identifier)
		m.scene[task.Identifier] = entry
	}
}

func (m *Manager) release(identifier string) {
	v, ok := m.queued.LoadAndDelete(identifier)
	if !ok {
		return
	}
	m.queuedCount.Add(-1)
	v.(*pendingLoad).done.Signal()
}

func (m *Manager) lookup(identifier string) (*residentEntry, bool) {
	m.tablesMu.RLock()
	defer m.tablesMu.RUnlock()
	if e, ok := m.scene[identifier]; ok {
		return e, true
	}
	e, ok := m.global[identifier]
	return e, ok
}

// TryGet returns the resident resource for identifier. A resource stored
// under a different type is a miss. With wait set, a pending identifier
// blocks the caller until its task has been processed.
func TryGet[R any](m *Manager, identifier string, wait bool) (*Resource[R], bool) {
	if r, ok := typedLookup[R](m, identifier); ok || !wait {
		return r, ok
	}
	if v, pending := m.queued.Load(identifier); pending {
		v.(*pendingLoad).done.Wait()
	}
	// also covers a task that was published between the first lookup and the pending check
	return typedLookup[R](m, identifier)
}

func typedLookup[R any](m *Manager, identifier string) (*Resource[R], bool) {
	e, ok := m.lookup(identifier)
	if !ok {
		return nil, false
	}
	r, ok := e.resource.(*Resource[R])
	if !ok {
		core.LogDebug("resource '%s' is a %s, not a %s", identifier, tagName(e.tag), tagName(tagOf[R]()))
		return nil, false
	}
	return r, true
}

// Unload drops a global resource. Scene resources are only released by
// ClearSceneResources.
func (m *Manager) Unload(identifier string) bool {
	m.tablesMu.Lock()
	defer m.tablesMu.Unlock()
	if _, ok := m.global[identifier]; !ok {
		return false
	}
	delete(m.global, identifier)
	return true
}

// ClearSceneResources drops every resident scene scoped resource and returns
// how many were dropped. Pending scene loads are left queued.
func (m *Manager) ClearSceneResources() int {
	m.tablesMu.Lock()
	defer m.tablesMu.Unlock()
	n := len(m.scene)
	m.scene = make(map[string]*residentEntry)
	return n
}

// Reload queues a resident resource again with its original parameters,
// scope and priority. The old value stays visible until the new one is published.
func (m *Manager) Reload(identifier string) error {
	e, ok := m.lookup(identifier)
	if !ok {
		return ErrNotResident
	}
	return m.enqueue(e.task.retry(), nil)
}

// FilePaths returns the files a resident resource was loaded from.
func (m *Manager) FilePaths(identifier string) []string {
	e, ok := m.lookup(identifier)
	if !ok {
		return nil
	}
	return append([]string(nil), e.task.Parameters.FilePaths()...)
}

func (m *Manager) IsResident(identifier string) bool {
	_, ok := m.lookup(identifier)
	return ok
}

func (m *Manager) IsPending(identifier string) bool {
	_, ok := m.queued.Load(identifier)
	return ok
}

// Pending counts identifiers that are queued or loading.
func (m *Manager) Pending() int {
	return int(m.queuedCount.Load())
}

func (m *Manager) IsLoading() bool {
	return m.Pending() > 0
}

// Shutdown drops every queued task, wakes all waiters and releases the tables.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	m.closed.Store(true)
	dropped := m.queue.drain()
	m.mu.Unlock()
	for _, t := range dropped {
		m.release(t.Identifier)
	}

	m.tablesMu.Lock()
	m.global = make(map[string]*residentEntry)
	m.scene = make(map[string]*residentEntry)
	m.tablesMu.Unlock()

	core.LogInfo("Resource manager shut down, %d pending loads dropped.", len(dropped))
	return nil
}

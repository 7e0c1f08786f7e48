package resources

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/gameengine/engine/core"
)

var ErrWatcherClosed = errors.New("resource watcher already closed")

// Watcher reloads resident resources when one of their files is written.
// It learns about files from EVENT_CODE_RESOURCE_LOADED, so the manager
// must have been created with the same event bus.
type Watcher struct {
	manager *Manager
	events  *core.EventBus

	mu       sync.Mutex
	files    map[string]map[string]struct{} // file -> identifiers
	dirs     map[string]int                 // watched dir -> tracked files
	isClosed bool

	fsnotify *fsnotify.Watcher
	done     chan struct{}
}

func NewWatcher(m *Manager, events *core.EventBus) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		manager:  m,
		events:   events,
		files:    make(map[string]map[string]struct{}),
		dirs:     make(map[string]int),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}, nil
}

// Start subscribes to resource publications and begins watching.
func (w *Watcher) Start() {
	if w.events != nil {
		w.events.Register(core.EVENT_CODE_RESOURCE_LOADED, w, w.onResourceLoaded)
	}
	go w.run()
}

func (w *Watcher) onResourceLoaded(_ core.SystemEventCode, _ interface{}, _ interface{}, ctx core.EventContext) bool {
	if err := w.Track(ctx.Name, w.manager.FilePaths(ctx.Name)); err != nil {
		core.LogWarn("hot reload disabled for '%s': %s", ctx.Name, err)
	}
	// other listeners still want this event
	return false
}

// Track associates identifier with paths and watches their directories.
func (w *Watcher) Track(identifier string, paths []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isClosed {
		return ErrWatcherClosed
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		ids, ok := w.files[abs]
		if !ok {
			ids = make(map[string]struct{})
			w.files[abs] = ids
			dir := filepath.Dir(abs)
			if w.dirs[dir] == 0 {
				// fsnotify is more reliable on directories than on single files
				if err := w.fsnotify.Add(dir); err != nil {
					delete(w.files, abs)
					return err
				}
			}
			w.dirs[dir]++
		}
		ids[identifier] = struct{}{}
	}
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			w.handleFileEvent(e)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("resource watcher: %s", err)

		case <-w.done:
			return
		}
	}
}

// Handle the creation or modification of a file
func (w *Watcher) handleFileEvent(e fsnotify.Event) {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}
	abs, err := filepath.Abs(e.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	var ids []string
	for id := range w.files[abs] {
		ids = append(ids, id)
	}
	w.mu.Unlock()

	for _, id := range ids {
		switch err := w.manager.Reload(id); {
		case err == nil:
			core.LogInfo("reloading '%s' after change to %s", id, e.Name)
		case errors.Is(err, ErrNotResident):
			w.forget(id)
		case errors.Is(err, ErrDuplicateResource):
			// a reload is already pending and will pick up this write
		default:
			core.LogError("failed to reload '%s': %s", id, err)
		}
	}
}

// forget drops an identifier that is no longer resident.
func (w *Watcher) forget(identifier string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for file, ids := range w.files {
		if _, ok := ids[identifier]; !ok {
			continue
		}
		delete(ids, identifier)
		if len(ids) > 0 {
			continue
		}
		delete(w.files, file)
		dir := filepath.Dir(file)
		w.dirs[dir]--
		if w.dirs[dir] <= 0 {
			delete(w.dirs, dir)
			_ = w.fsnotify.Remove(dir)
		}
	}
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.isClosed {
		w.mu.Unlock()
		return nil
	}
	w.isClosed = true
	w.mu.Unlock()

	if w.events != nil {
		w.events.Unregister(core.EVENT_CODE_RESOURCE_LOADED, w)
	}
	close(w.done)
	return w.fsnotify.Close()
}

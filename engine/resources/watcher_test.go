package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bmizerany/assert"
	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/gameengine/engine/core"
)

func TestWatcherReloadsTrackedResourceOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "greeting.txt")
	assert.Equal(t, nil, os.WriteFile(file, []byte("hi"), 0o644))

	events := core.NewEventBus()
	m := NewManager(ManagerConfig{Events: events})
	RegisterLoader[string, *nameParams](m, LoaderFunc[string, *nameParams](func(paths []string, _ *nameParams) (string, error) {
		b, err := os.ReadFile(paths[0])
		return string(b), err
	}))

	w, err := NewWatcher(m, events)
	assert.Equal(t, nil, err)
	defer w.Close()
	// subscribe without running the fsnotify loop; events are fed by hand
	events.Register(core.EVENT_CODE_RESOURCE_LOADED, w, w.onResourceLoaded)

	Load[string](m, "greeting", params("greeting", file), 0, true)
	m.ContinueLoading()
	assert.Equal(t, 1, len(w.files))

	assert.Equal(t, nil, os.WriteFile(file, []byte("hello"), 0o644))
	w.handleFileEvent(fsnotify.Event{Name: file, Op: fsnotify.Write})
	assert.T(t, m.IsPending("greeting"))

	// a second write while the reload is pending is absorbed
	w.handleFileEvent(fsnotify.Event{Name: file, Op: fsnotify.Write})
	assert.Equal(t, 1, m.Pending())

	m.ContinueLoading()
	r, ok := TryGet[string](m, "greeting", false)
	assert.T(t, ok)
	assert.Equal(t, "hello", r.Data)
}

func TestWatcherForgetsUnloadedResources(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	assert.Equal(t, nil, os.WriteFile(file, []byte("a"), 0o644))

	m := newTestManager(nil)
	w, err := NewWatcher(m, nil)
	assert.Equal(t, nil, err)
	defer w.Close()

	assert.Equal(t, nil, w.Track("gone", []string{file}))
	assert.Equal(t, 1, len(w.dirs))

	// "gone" was never resident, so the first event drops it
	w.handleFileEvent(fsnotify.Event{Name: file, Op: fsnotify.Write})
	assert.Equal(t, 0, len(w.files))
	assert.Equal(t, 0, len(w.dirs))
	assert.T(t, !m.IsPending("gone"))
}

func TestWatcherIgnoresRemoveEvents(t *testing.T) {
	m := newTestManager(nil)
	Load[string](m, "x", params("x", "x.txt"), 0, true)
	m.ContinueLoading()

	w, err := NewWatcher(m, nil)
	assert.Equal(t, nil, err)
	defer w.Close()
	w.files[mustAbs(t, "x.txt")] = map[string]struct{}{"x": {}}

	w.handleFileEvent(fsnotify.Event{Name: "x.txt", Op: fsnotify.Remove})
	assert.T(t, !m.IsPending("x"))
}

func TestWatcherTrackAfterClose(t *testing.T) {
	w, err := NewWatcher(newTestManager(nil), nil)
	assert.Equal(t, nil, err)
	assert.Equal(t, nil, w.Close())
	assert.Equal(t, ErrWatcherClosed, w.Track("x", []string{"x.txt"}))
}

func mustAbs(t *testing.T, p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		t.Fatal(err)
	}
	return abs
}

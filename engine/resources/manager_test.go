package resources

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bmizerany/assert"

	"github.com/spaghettifunk/gameengine/engine/core"
)

type nameParams struct {
	Files
	Name string
}

type otherParams struct {
	Files
}

type testOwner struct {
	id, dir string
}

func (o testOwner) ID() string        { return o.id }
func (o testOwner) Directory() string { return o.dir }

// newTestManager registers a string loader that records the order of loads.
func newTestManager(order *[]string) *Manager {
	m := NewManager(ManagerConfig{})
	RegisterLoader[string, *nameParams](m, LoaderFunc[string, *nameParams](func(paths []string, p *nameParams) (string, error) {
		if order != nil {
			*order = append(*order, p.Name)
		}
		return p.Name + ":" + strings.Join(paths, ","), nil
	}))
	return m
}

func params(name string, paths ...string) *nameParams {
	return &nameParams{Files: Files{Paths: paths}, Name: name}
}

func drain(m *Manager) {
	for m.IsLoading() {
		m.ContinueLoading()
	}
}

func TestLoadRejectsDuplicatesWhilePending(t *testing.T) {
	m := newTestManager(nil)

	assert.Equal(t, nil, Load[string](m, "hero", params("first"), 1, true))
	assert.Equal(t, ErrDuplicateResource, Load[string](m, "hero", params("second"), 9, false))
	assert.Equal(t, 1, m.Pending())

	m.ContinueLoading()
	r, ok := TryGet[string](m, "hero", false)
	assert.T(t, ok)
	assert.Equal(t, "first:", r.Data)
	assert.T(t, !m.IsPending("hero"))

	// once resolved the identifier can be queued again
	assert.Equal(t, nil, Load[string](m, "hero", params("third"), 1, true))
	m.ContinueLoading()
	r, _ = TryGet[string](m, "hero", false)
	assert.Equal(t, "third:", r.Data)
}

func TestLoadValidatesTask(t *testing.T) {
	m := newTestManager(nil)
	assert.Equal(t, ErrEmptyIdentifier, Load[string](m, "", params("x"), 0, true))
	assert.Equal(t, ErrInvalidPriority, Load[string](m, "neg", params("x"), -1, true))
	assert.Equal(t, 0, m.Pending())
}

func TestContinueLoadingDrainsByPriorityThenFIFO(t *testing.T) {
	var order []string
	m := newTestManager(&order)

	Load[string](m, "low-1", params("low-1"), 1, true)
	Load[string](m, "high-1", params("high-1"), 3, true)
	Load[string](m, "mid", params("mid"), 2, true)
	Load[string](m, "low-2", params("low-2"), 1, true)
	Load[string](m, "high-2", params("high-2"), 3, true)

	m.ContinueLoading()
	m.ContinueLoading()
	// a later, higher priority task jumps ahead of what is still pending
	Load[string](m, "urgent", params("urgent"), 7, true)
	drain(m)

	assert.Equal(t, []string{"high-1", "high-2", "urgent", "mid", "low-1", "low-2"}, order)

	// nothing left: a no-op
	m.ContinueLoading()
	assert.Equal(t, 6, len(order))
}

func TestWatermarkSkipsDrainedBuckets(t *testing.T) {
	var order []string
	m := newTestManager(&order)

	Load[string](m, "a", params("a"), 100, true)
	m.ContinueLoading()
	Load[string](m, "b", params("b"), 0, true)
	Load[string](m, "c", params("c"), 50, true)
	drain(m)
	assert.Equal(t, []string{"a", "c", "b"}, order)
}

func TestSceneClearKeepsGlobalResources(t *testing.T) {
	m := newTestManager(nil)
	Load[string](m, "ui-font", params("g"), 0, true)
	Load[string](m, "level-map", params("s"), 0, false)
	drain(m)

	assert.T(t, m.IsResident("ui-font"))
	assert.T(t, m.IsResident("level-map"))

	assert.Equal(t, 1, m.ClearSceneResources())
	_, ok := TryGet[string](m, "ui-font", false)
	assert.T(t, ok)
	_, ok = TryGet[string](m, "level-map", false)
	assert.T(t, !ok)
}

func TestUnloadOnlyAffectsGlobal(t *testing.T) {
	m := newTestManager(nil)
	Load[string](m, "g", params("g"), 0, true)
	Load[string](m, "s", params("s"), 0, false)
	drain(m)

	assert.T(t, !m.Unload("s"))
	assert.T(t, m.IsResident("s"))
	assert.T(t, m.Unload("g"))
	assert.T(t, !m.IsResident("g"))
	assert.T(t, !m.Unload("missing"))
}

func TestTryGetWithWrongTypeIsAMiss(t *testing.T) {
	m := newTestManager(nil)
	Load[string](m, "x", params("x"), 0, true)
	drain(m)

	r, ok := TryGet[int](m, "x", false)
	assert.T(t, !ok)
	assert.T(t, r == nil)
	// waiting does not turn a mismatch into a hang
	_, ok = TryGet[int](m, "x", true)
	assert.T(t, !ok)

	s, ok := TryGet[string](m, "x", false)
	assert.T(t, ok)
	assert.Equal(t, "x:", s.Data)
}

func TestTryGetWaitsForPublication(t *testing.T) {
	m := newTestManager(nil)
	assert.Equal(t, nil, Load[string](m, "slow", params("slow", "a.txt"), 0, true))

	got := make(chan *Resource[string], 1)
	go func() {
		r, ok := TryGet[string](m, "slow", true)
		if !ok {
			got <- nil
			return
		}
		got <- r
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-got:
		t.Fatal("TryGet returned before the task was loaded")
	default:
	}

	m.ContinueLoading()
	select {
	case r := <-got:
		assert.T(t, r != nil)
		assert.Equal(t, "slow:a.txt", r.Data)
		assert.Equal(t, []string{"a.txt"}, r.FilePaths)
	case <-time.After(2 * time.Second):
		t.Fatal("TryGet did not return after publication")
	}
}

func TestTryGetWithoutWaitMissesPending(t *testing.T) {
	m := newTestManager(nil)
	Load[string](m, "p", params("p"), 0, true)
	_, ok := TryGet[string](m, "p", false)
	assert.T(t, !ok)
	assert.T(t, m.IsPending("p"))
}

func TestLoaderMissReleasesWaiters(t *testing.T) {
	m := newTestManager(nil)
	// no loader for (string, *otherParams)
	assert.Equal(t, nil, Load[string](m, "orphan", &otherParams{}, 0, true))

	done := make(chan bool, 1)
	go func() {
		_, ok := TryGet[string](m, "orphan", true)
		done <- ok
	}()
	time.Sleep(10 * time.Millisecond)
	m.ContinueLoading()

	select {
	case ok := <-done:
		assert.T(t, !ok)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter was not released after loader miss")
	}
	assert.T(t, !m.IsPending("orphan"))
	assert.T(t, !m.IsLoading())
}

func TestLoaderErrorStillPublishes(t *testing.T) {
	m := NewManager(ManagerConfig{})
	RegisterLoader[[]byte, *otherParams](m, LoaderFunc[[]byte, *otherParams](func(paths []string, _ *otherParams) ([]byte, error) {
		return nil, errors.New("missing file")
	}))
	Load[[]byte](m, "broken", &otherParams{Files{Paths: []string{"nope.bin"}}}, 0, true)
	m.ContinueLoading()

	r, ok := TryGet[[]byte](m, "broken", false)
	assert.T(t, ok)
	assert.T(t, r.Data == nil)
}

func TestLoaderPanicIsContained(t *testing.T) {
	m := NewManager(ManagerConfig{})
	RegisterLoader[int, *otherParams](m, LoaderFunc[int, *otherParams](func([]string, *otherParams) (int, error) {
		panic("corrupt")
	}))
	Load[int](m, "boom", &otherParams{}, 0, true)
	m.ContinueLoading()

	assert.T(t, !m.IsPending("boom"))
	assert.T(t, !m.IsResident("boom"))
}

func TestRegisterLoaderLastWins(t *testing.T) {
	m := newTestManager(nil)
	assert.T(t, HasLoader[string, *nameParams](m))
	assert.T(t, !HasLoader[string, *otherParams](m))

	RegisterLoader[string, *nameParams](m, LoaderFunc[string, *nameParams](func([]string, *nameParams) (string, error) {
		return "replaced", nil
	}))
	Load[string](m, "r", params("r"), 0, true)
	m.ContinueLoading()
	r, _ := TryGet[string](m, "r", false)
	assert.Equal(t, "replaced", r.Data)
}

func TestLoadFromModRootsRelativePaths(t *testing.T) {
	m := newTestManager(nil)
	owner := testOwner{id: "testgame", dir: filepath.Join("mods", "testgame")}
	abs, _ := filepath.Abs("shared.txt")

	p := params("m", "textures/a.png", abs)
	assert.Equal(t, nil, LoadFromMod[string](m, owner, "mod-res", p, 0, true))
	assert.Equal(t, []string{filepath.Join("mods", "testgame", "textures", "a.png"), abs}, p.FilePaths())

	assert.Equal(t, ErrUnknownOwner, LoadFromMod[string](m, nil, "x", params("x"), 0, true))
	assert.Equal(t, ErrUnknownOwner, LoadFromMod[string](m, testOwner{id: "x"}, "x", params("x"), 0, true))
}

func TestRejectedLoadFromModLeavesParamsUntouched(t *testing.T) {
	m := newTestManager(nil)
	owner := testOwner{id: "testgame", dir: filepath.Join("mods", "testgame")}
	assert.Equal(t, nil, LoadFromMod[string](m, owner, "intro", params("a", "data/intro.txt"), 0, true))

	p := params("b", "data/intro.txt")
	assert.Equal(t, ErrDuplicateResource, LoadFromMod[string](m, owner, "intro", p, 0, true))
	assert.Equal(t, []string{"data/intro.txt"}, p.FilePaths())

	drain(m)
	assert.Equal(t, nil, LoadFromMod[string](m, owner, "intro", p, 0, true))
	assert.Equal(t, []string{filepath.Join("mods", "testgame", "data", "intro.txt")}, p.FilePaths())
}

func TestReloadQueuesResidentResourceAgain(t *testing.T) {
	var order []string
	m := newTestManager(&order)
	Load[string](m, "cfg", params("cfg", "cfg.txt"), 4, false)
	drain(m)

	assert.Equal(t, ErrNotResident, m.Reload("missing"))
	assert.Equal(t, nil, m.Reload("cfg"))
	assert.T(t, m.IsPending("cfg"))
	// the previous value stays readable while the reload is pending
	assert.T(t, m.IsResident("cfg"))
	drain(m)
	assert.Equal(t, []string{"cfg", "cfg"}, order)
	assert.Equal(t, []string{"cfg.txt"}, m.FilePaths("cfg"))
}

func TestContinueLoadingFiresResourceLoaded(t *testing.T) {
	events := core.NewEventBus()
	m := NewManager(ManagerConfig{Events: events})
	RegisterLoader[string, *nameParams](m, LoaderFunc[string, *nameParams](func(_ []string, p *nameParams) (string, error) {
		return p.Name, nil
	}))

	var loaded []string
	events.Register(core.EVENT_CODE_RESOURCE_LOADED, t, func(_ core.SystemEventCode, _, _ interface{}, ctx core.EventContext) bool {
		loaded = append(loaded, ctx.Name)
		return false
	})
	Load[string](m, "a", params("a"), 0, true)
	drain(m)
	assert.Equal(t, []string{"a"}, loaded)
}

func TestShutdownReleasesWaiters(t *testing.T) {
	m := newTestManager(nil)
	Load[string](m, "never", params("never"), 0, true)

	done := make(chan struct{})
	go func() {
		TryGet[string](m, "never", true)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, nil, m.Shutdown())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter was not released on shutdown")
	}
	assert.Equal(t, ErrManagerClosed, Load[string](m, "late", params("late"), 0, true))
}

func TestLoadRacingShutdownNeverStrandsWaiters(t *testing.T) {
	m := newTestManager(nil)

	const loaders = 16
	accepted := make(chan string, loaders)
	var wg sync.WaitGroup
	for i := 0; i < loaders; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if Load[string](m, id, params(id), 0, true) == nil {
				accepted <- id
			}
		}(fmt.Sprintf("res-%d", i))
	}
	assert.Equal(t, nil, m.Shutdown())
	wg.Wait()
	close(accepted)

	for id := range accepted {
		done := make(chan struct{})
		go func() {
			TryGet[string](m, id, true)
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("waiter on '%s' was stranded by shutdown", id)
		}
	}
	assert.Equal(t, 0, m.Pending())
}

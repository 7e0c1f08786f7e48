package resources

import (
	"sync"

	"github.com/spaghettifunk/gameengine/engine/core"
)

type loaderKey struct {
	resource   any
	parameters any
}

// erasedLoader is what the registry stores: a typed loader behind a
// uniform call that yields a *Resource[R] as any.
type erasedLoader interface {
	load(identifier string, paths []string, params Parameters) (any, error)
}

type typedLoader[R any, P Parameters] struct {
	loader Loader[R, P]
}

func (tl typedLoader[R, P]) load(identifier string, paths []string, params Parameters) (any, error) {
	p, ok := params.(P)
	if !ok {
		return nil, ErrParametersType
	}
	data, err := tl.loader.Load(paths, p)
	return &Resource[R]{
		ID:        identifier,
		FilePaths: append([]string(nil), paths...),
		Data:      data,
	}, err
}

type loaderRegistry struct {
	mu      sync.RWMutex
	loaders map[loaderKey]erasedLoader
}

func newLoaderRegistry() *loaderRegistry {
	return &loaderRegistry{
		loaders: make(map[loaderKey]erasedLoader),
	}
}

func (lr *loaderRegistry) register(key loaderKey, l erasedLoader) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	if _, exists := lr.loaders[key]; exists {
		core.LogDebug("replacing loader for %s / %s", tagName(key.resource), tagName(key.parameters))
	}
	lr.loaders[key] = l
}

func (lr *loaderRegistry) get(key loaderKey) (erasedLoader, bool) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	l, ok := lr.loaders[key]
	return l, ok
}

// RegisterLoader installs the loader for the (R, P) pair. There is exactly
// one loader per pair; registering again replaces the previous one.
func RegisterLoader[R any, P Parameters](m *Manager, loader Loader[R, P]) {
	m.registry.register(loaderKey{resource: tagOf[R](), parameters: tagOf[P]()}, typedLoader[R, P]{loader: loader})
	core.LogDebug("Loader registered for %s / %s.", tagName(tagOf[R]()), tagName(tagOf[P]()))
}

// HasLoader reports whether a loader is registered for the (R, P) pair.
func HasLoader[R any, P Parameters](m *Manager) bool {
	_, ok := m.registry.get(loaderKey{resource: tagOf[R](), parameters: tagOf[P]()})
	return ok
}

package backend

import (
	"slices"
	"sync"

	"github.com/gogpu/framebuffer"
)

// BinderFactory creates a new binder instance.
// A factory may return nil when its backend cannot run on this system.
type BinderFactory func() Binder

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]BinderFactory)
	// Priority order for backend selection (first available wins).
	backendPriority = []string{BackendNative, BackendSoftware}
)

// Register registers a binder factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory BinderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory

	framebuffer.Logger().Info("backend: registered", "name", name)
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a binder by name.
// Returns nil if the backend is not registered.
func Get(name string) Binder {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available binder based on priority
// (native, then software, then any other registered backend in name order).
// Returns nil if no backend can be created.
func Default() Binder {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			if b := factory(); b != nil {
				return b
			}
		}
	}

	names := make([]string, 0, len(backends))
	for name := range backends {
		if !slices.Contains(backendPriority, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	for _, name := range names {
		if b := backends[name](); b != nil {
			return b
		}
	}

	return nil
}

// MustDefault returns the default binder or panics.
func MustDefault() Binder {
	b := Default()
	if b == nil {
		panic("backend: no backend available")
	}
	return b
}

// Open returns the named binder, or the default one when name is empty.
func Open(name string) (Binder, error) {
	var b Binder
	if name == "" {
		b = Default()
	} else {
		b = Get(name)
	}
	if b == nil {
		return nil, ErrBackendNotAvailable
	}
	return b, nil
}

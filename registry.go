package grain

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a fresh Generator instance for a registered dataset.
type Factory func() Generator

var registry = struct {
	mu        sync.RWMutex
	factories map[string]Factory
}{factories: make(map[string]Factory)}

// Register makes a dataset constructible by name, typically called
// from an init function of the package defining it. Registering the
// same name twice panics.
func Register(name string, factory Factory) {
	if name == "" || factory == nil {
		panic("grain: Register requires a name and a factory")
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, dup := registry.factories[name]; dup {
		panic(fmt.Sprintf("grain: dataset %q registered twice", name))
	}
	registry.factories[name] = factory
}

// New builds the named registered dataset. A generator whose info
// leaves Name empty takes the registered name.
func New(name string, opts ...Option) (*Builder, error) {
	registry.mu.RLock()
	factory, ok := registry.factories[name]
	registry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("dataset %q: %w", name, ErrNotRegistered)
	}
	return newBuilder(factory(), name, opts...), nil
}

// List returns all registered dataset names, sorted.
func List() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	names := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

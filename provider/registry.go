package provider

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrNotRegistered is returned by Create for an unknown name.
var ErrNotRegistered = errors.New("provider: not registered")

// Registry maps names to factories. It is safe for concurrent use.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry returns an empty registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{factories: map[string]Factory[T]{}}
}

// RegisterFactory binds name to factory. A later call with the same name wins.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	r.mu.Lock()
	r.factories[name] = factory
	r.mu.Unlock()
}

// Has reports whether name is bound.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.lookup(name)
	return ok
}

// Create builds the provider bound to name from cfg.
func (r *Registry[T]) Create(name string, cfg map[string]any) (T, error) {
	factory, ok := r.lookup(name)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return factory(cfg)
}

// List returns the bound names in sorted order.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

func (r *Registry[T]) lookup(name string) (Factory[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

package render

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is a named set of renderers.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Renderer
}

// NewRegistry creates a registry holding renderers.
func NewRegistry(renderers ...Renderer) *Registry {
	r := &Registry{items: make(map[string]Renderer)}
	for _, rd := range renderers {
		r.Register(rd)
	}
	return r
}

// Register adds a renderer.
// Panics if a renderer with the same name is already registered.
func (r *Registry) Register(rd Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := rd.Name()
	if _, exists := r.items[name]; exists {
		panic(fmt.Sprintf("render: renderer %q already registered", name))
	}
	r.items[name] = rd
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get looks a renderer up by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rd, ok := r.items[name]
	if !ok {
		return nil, fmt.Errorf("render: unknown renderer %q", name)
	}
	return rd, nil
}

// Exists checks if a renderer with the given name is registered.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[name]
	return ok
}

// Next returns the name after current in sorted order, wrapping around.
func (r *Registry) Next(current string) string {
	names := r.List()
	if len(names) == 0 {
		return ""
	}
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// All returns every registered renderer in name order.
func (r *Registry) All() []Renderer {
	names := r.List()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Renderer, 0, len(names))
	for _, name := range names {
		out = append(out, r.items[name])
	}
	return out
}

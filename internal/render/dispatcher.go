package render

import (
	"sync"

	"github.com/vovakirdan/tui-pinball/internal/field"
)

// Source supplies the snapshots to draw.
type Source interface {
	Snapshot() field.Snapshot
}

// Dispatcher forwards draw requests to the single active renderer.
// Switching renderers and drawing share one lock, so a switch waits for an
// in-flight draw and no renderer is drawn after it was deactivated.
type Dispatcher struct {
	mu       sync.Mutex
	source   Source
	registry *Registry
	active   Renderer
}

// NewDispatcher creates a dispatcher with no active renderer.
func NewDispatcher(source Source, registry *Registry) *Dispatcher {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Dispatcher{source: source, registry: registry}
}

// SetActive makes next the active renderer. A nil next leaves none active.
func (d *Dispatcher) SetActive(next Renderer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active == next {
		return
	}
	if d.active != nil {
		d.active.Deactivate()
	}
	d.active = next
	if next != nil {
		next.Activate()
	}
}

// Use activates the registered renderer called name.
func (d *Dispatcher) Use(name string) error {
	rd, err := d.registry.Get(name)
	if err != nil {
		return err
	}
	d.SetActive(rd)
	return nil
}

// Active returns the active renderer, or nil.
func (d *Dispatcher) Active() Renderer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// ActiveName returns the active renderer's name, or "".
func (d *Dispatcher) ActiveName() string {
	if rd := d.Active(); rd != nil {
		return rd.Name()
	}
	return ""
}

// Registry returns the renderers the dispatcher can switch between.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Draw snapshots the source and draws it with the active renderer.
// Does nothing when no renderer is active.
func (d *Dispatcher) Draw() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active == nil {
		return nil
	}
	return d.active.Draw(d.source.Snapshot())
}

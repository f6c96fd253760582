package patchbay

import (
	"fmt"

	"github.com/rs/xid"

	"github.com/dudk/patchbay/internal/spsc"
	"github.com/dudk/patchbay/metric"
)

// Builder registers components and builds the graph. It's not safe for
// concurrent use.
type Builder[E any] struct {
	registry *registry[E]
	built    bool
}

// NewBuilder returns builder with boundary input and output components
// registered.
func NewBuilder[E any]() *Builder[E] {
	return &Builder[E]{
		registry: newRegistry[E](),
	}
}

// Register adds user component.
func (b *Builder[E]) Register(spec ComponentSpec[E]) (ComponentID, error) {
	if b.built {
		return 0, ErrBuilt
	}
	return b.registry.register(spec)
}

// newUID returns new unique id value.
func newUID() string {
	return xid.New().String()
}

// Build freezes the registry and returns execution and control handles.
// Runtime must be driven from a single goroutine, router can be shared.
func (b *Builder[E]) Build(options ...Option) (*Runtime[E], *Router[E], error) {
	if b.built {
		return nil, nil, ErrBuilt
	}
	c := defaultConfig()
	for _, option := range options {
		if err := option(&c); err != nil {
			return nil, nil, err
		}
	}
	b.built = true

	uid := newUID()
	updates := spsc.New[Command](c.updateCapacity)
	events := spsc.New[E](c.eventCapacity)
	a := newAllocator(b.registry)
	runtime := newRuntime(b.registry, a.outputs(), a.topology(a.order, a.routes), c, updates, events)
	if c.metric {
		name := c.name
		if name == "" {
			name = uid
		}
		runtime.measure = metric.New(name, c.sampleRate)
	}
	router := &Router[E]{
		uid:     uid,
		name:    c.name,
		alloc:   a,
		updates: updates,
		events:  events,
		log:     c.log,
	}
	router.log.Debug(fmt.Sprintf("%v: built %d components, %d buffers of %d samples",
		router, len(b.registry.components), len(runtime.buffers), c.blockSize))
	return runtime, router, nil
}

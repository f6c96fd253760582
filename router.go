package patchbay

import (
	"fmt"
	"sync"

	"github.com/dudk/patchbay/internal/spsc"
)

// Router is the control surface of the graph. It's safe for concurrent
// use. Calls never wait for the runtime: accepted changes are queued and
// picked up at the start of the next block.
type Router[E any] struct {
	uid  string
	name string

	// mu serializes allocator access and makes router the single producer
	// of both queues.
	mu      sync.Mutex
	alloc   *allocator[E]
	updates *spsc.Queue[Command]
	events  *spsc.Queue[E]
	log     Logger
}

// Connect routes output port to input port. If the input is already
// connected, it's re-routed to the new source. Rejected requests return
// *RoutingError and leave the graph unchanged.
func (r *Router[E]) Connect(from, to PortRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.alloc.connect(from, to)
	if err != nil {
		err = &RoutingError{Op: "connect", From: from, To: to, Err: err}
		r.log.Debug(fmt.Sprintf("%v: %v", r, err))
		return err
	}
	if p == nil {
		return nil
	}
	if err := r.push(p); err != nil {
		return fmt.Errorf("connect %v -> %v: %w", from, to, err)
	}
	r.log.Debug(fmt.Sprintf("%v: connected %v -> %v", r, from, to))
	return nil
}

// Patch routes output port to input port. It's the same as Connect, but
// port directions are checked at compile time.
func (r *Router[E]) Patch(from OutPort, to InPort) error {
	return r.Connect(from.PortRef, to.PortRef)
}

// Disconnect removes the route into the input port.
func (r *Router[E]) Disconnect(to PortRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.alloc.disconnect(to)
	if err != nil {
		err = &RoutingError{Op: "disconnect", To: to, Err: err}
		r.log.Debug(fmt.Sprintf("%v: %v", r, err))
		return err
	}
	if err := r.push(p); err != nil {
		return fmt.Errorf("disconnect %v: %w", to, err)
	}
	r.log.Debug(fmt.Sprintf("%v: disconnected %v", r, to))
	return nil
}

// push sends topology of the plan to the runtime and commits the plan.
func (r *Router[E]) push(p *plan) error {
	if !r.updates.Push(p.update) {
		return ErrUpdateQueueFull
	}
	r.alloc.commit(p)
	return nil
}

// SendEvent queues the event. It's delivered in the batch of the next
// block.
func (r *Router[E]) SendEvent(e E) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.events.Push(e) {
		return ErrEventQueueFull
	}
	return nil
}

// Routes returns current routes sorted by destination.
func (r *Router[E]) Routes() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.alloc.currentRoutes()
}

// Order returns all components, including boundary ones, in the execution
// order of the latest accepted topology.
func (r *Router[E]) Order() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]Key, 0, len(r.alloc.order))
	for _, id := range r.alloc.order {
		keys = append(keys, r.alloc.registry.components[id].Key)
	}
	return keys
}

// Ports returns port descriptors of the component.
func (r *Router[E]) Ports(k Key) ([]Port, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.alloc.registry.index[k]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrComponentNotFound, k)
	}
	ports := r.alloc.registry.components[id].ports
	result := make([]Port, len(ports))
	copy(result, ports)
	return result, nil
}

// String returns graph name and uid.
func (r *Router[E]) String() string {
	if r.name == "" {
		return r.uid
	}
	return fmt.Sprintf("%v %v", r.name, r.uid)
}

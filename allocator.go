package patchbay

import (
	"sort"

	"github.com/dudk/patchbay/internal/graph"
)

// endpoint is a resolved port: component id and port index.
type endpoint struct {
	id   ComponentID
	port int
}

// allocator validates routes and computes physical buffer placement. It
// exclusively owns the registry and the route set. It's not safe for
// concurrent use, router serializes access.
type allocator[E any] struct {
	registry *registry[E]
	// routes maps input endpoint to the output endpoint that feeds it.
	routes map[endpoint]endpoint
	deps   *graph.Graph
	order  []ComponentID
}

// plan is a candidate state of allocator. It becomes current only after
// topology was delivered to the runtime.
type plan struct {
	routes map[endpoint]endpoint
	deps   *graph.Graph
	order  []ComponentID
	update ApplyTopology
}

func newAllocator[E any](r *registry[E]) *allocator[E] {
	a := &allocator[E]{
		registry: r,
		routes:   make(map[endpoint]endpoint),
		deps:     graph.New(len(r.components)),
	}
	order, err := a.deps.Sort()
	if err != nil {
		panic("patchbay: empty graph is not sortable")
	}
	a.order = toIDs(order)
	return a
}

// resolve validates both references in the order components, ports,
// directions, signal types.
func (a *allocator[E]) resolve(from, to PortRef) (endpoint, endpoint, error) {
	fc, fp, ferr := a.registry.lookup(from)
	tc, tp, terr := a.registry.lookup(to)
	if fc == nil || tc == nil {
		return endpoint{}, endpoint{}, ErrComponentNotFound
	}
	if ferr != nil {
		return endpoint{}, endpoint{}, ferr
	}
	if terr != nil {
		return endpoint{}, endpoint{}, terr
	}
	if fp.Direction != Output {
		return endpoint{}, endpoint{}, ErrFromPortIsInput
	}
	if tp.Direction != Input {
		return endpoint{}, endpoint{}, ErrToPortIsOutput
	}
	if fp.Type != tp.Type {
		return endpoint{}, endpoint{}, ErrTypeMismatch
	}
	return endpoint{id: fc.handle.ID, port: from.Index}, endpoint{id: tc.handle.ID, port: to.Index}, nil
}

// connect returns plan with the new route. Nil plan without error means
// the route already exists.
func (a *allocator[E]) connect(from, to PortRef) (*plan, error) {
	src, dst, err := a.resolve(from, to)
	if err != nil {
		return nil, err
	}
	old, routed := a.routes[dst]
	if routed && old == src {
		return nil, nil
	}
	// does the destination already reach the source?
	if a.deps.Reaches(int(dst.id), int(src.id)) {
		return nil, ErrCycleDetected
	}

	deps := a.deps.Clone()
	if routed {
		deps.Remove(int(old.id), int(dst.id))
	}
	deps.Add(int(src.id), int(dst.id))
	routes := a.copyRoutes()
	routes[dst] = src
	return a.newPlan(routes, deps)
}

// disconnect returns plan without the route into provided input.
func (a *allocator[E]) disconnect(to PortRef) (*plan, error) {
	c, p, err := a.registry.lookup(to)
	if err != nil {
		return nil, err
	}
	if p.Direction != Input {
		return nil, ErrToPortIsOutput
	}
	dst := endpoint{id: c.handle.ID, port: to.Index}
	src, ok := a.routes[dst]
	if !ok {
		return nil, ErrNotConnected
	}
	deps := a.deps.Clone()
	deps.Remove(int(src.id), int(dst.id))
	routes := a.copyRoutes()
	delete(routes, dst)
	return a.newPlan(routes, deps)
}

func (a *allocator[E]) newPlan(routes map[endpoint]endpoint, deps *graph.Graph) (*plan, error) {
	sorted, err := deps.Sort()
	if err != nil {
		// reachability check must have rejected this route.
		return nil, ErrCycleDetected
	}
	order := toIDs(sorted)
	return &plan{
		routes: routes,
		deps:   deps,
		order:  order,
		update: a.topology(order, routes),
	}, nil
}

// commit makes the plan current.
func (a *allocator[E]) commit(p *plan) {
	a.routes = p.routes
	a.deps = p.deps
	a.order = p.order
}

// topology assigns physical slots and builds the buffer-index table. Every
// output port gets a fresh slot, numbered in execution order. Inputs
// resolve to the slot of their source, this is the only aliasing allowed.
func (a *allocator[E]) topology(order []ComponentID, routes map[endpoint]endpoint) ApplyTopology {
	table := make([]int32, a.registry.buffers)
	for i := range table {
		table[i] = noBuffer
	}
	users := make([]ComponentID, 0, len(order))
	var slot int32
	for _, id := range order {
		c := &a.registry.components[id]
		for i, p := range c.ports {
			if p.Direction == Output {
				table[c.handle.BufferStart+i] = slot
				slot++
			}
		}
		if c.kind == User {
			users = append(users, id)
		}
	}
	for dst, src := range routes {
		table[a.index(dst)] = table[a.index(src)]
	}
	return ApplyTopology{Table: table, Order: users}
}

// index returns logical buffer index of the endpoint.
func (a *allocator[E]) index(e endpoint) int {
	return a.registry.components[e.id].handle.BufferStart + e.port
}

func (a *allocator[E]) copyRoutes() map[endpoint]endpoint {
	routes := make(map[endpoint]endpoint, len(a.routes)+1)
	for k, v := range a.routes {
		routes[k] = v
	}
	return routes
}

// currentRoutes returns sorted list of routes.
func (a *allocator[E]) currentRoutes() []Route {
	result := make([]Route, 0, len(a.routes))
	for dst, src := range a.routes {
		result = append(result, Route{
			From: a.registry.components[src.id].Key.Port(src.port),
			To:   a.registry.components[dst.id].Key.Port(dst.port),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return a.less(result[i].To, result[j].To)
	})
	return result
}

func (a *allocator[E]) less(x, y PortRef) bool {
	xid, yid := a.registry.index[x.Key], a.registry.index[y.Key]
	if xid != yid {
		return xid < yid
	}
	return x.Index < y.Index
}

// outputs returns total number of output ports, that is the number of
// physical buffers.
func (a *allocator[E]) outputs() int {
	n := 0
	for _, c := range a.registry.components {
		for _, p := range c.ports {
			if p.Direction == Output {
				n++
			}
		}
	}
	return n
}

func toIDs(order []int) []ComponentID {
	ids := make([]ComponentID, len(order))
	for i, v := range order {
		ids[i] = ComponentID(v)
	}
	return ids
}

// Route is a connection from an output port to an input port.
type Route struct {
	From PortRef
	To   PortRef
}

package patchbay

import "fmt"

// ComponentID is a dense index of component in the graph. It's assigned
// in registration order.
type ComponentID int

const (
	// InputID is the id of boundary input component.
	InputID ComponentID = iota
	// OutputID is the id of boundary output component.
	OutputID
)

// Kind tells if component is fixed-function system boundary or user
// processing unit.
type Kind int

const (
	// Boundary components move block signal in and out of the graph.
	Boundary Kind = iota
	// User components run their entry point every block.
	User
)

func (k Kind) String() string {
	if k == Boundary {
		return "boundary"
	}
	return "user"
}

// EntryFunc is called once per block for every user component in the
// execution order. Block view is valid only for the duration of the call.
type EntryFunc[E any] func(b *Block[E], h Handle)

// ComponentSpec describes a component to register.
//
// Every port of the component gets one entry in the buffer-index table.
// State holds initial values of persistent state slots; length of the slice
// is the state slot count. Use pointers, so entry point is able to mutate
// the state in place.
type ComponentSpec[E any] struct {
	Type  string
	Name  string
	Ports []Port
	State []any
	Entry EntryFunc[E]
}

// Handle locates component buffers and state within runtime storage.
type Handle struct {
	ID          ComponentID
	BufferStart int
	StateStart  int
}

// component is a registered component.
type component[E any] struct {
	Key
	kind   Kind
	ports  []Port
	state  []any
	entry  EntryFunc[E]
	handle Handle
}

// registry is the append-only set of components. It's frozen when graph
// is built.
type registry[E any] struct {
	components []component[E]
	index      map[Key]ComponentID
	buffers    int // total number of ports
	slots      int // total number of state slots
}

func newRegistry[E any]() *registry[E] {
	r := &registry[E]{
		index: make(map[Key]ComponentID),
	}
	r.add(inputKey, Boundary, []Port{{Name: "out", Direction: Output, Type: Audio}}, nil, nil)
	r.add(outputKey, Boundary, []Port{{Name: "in", Direction: Input, Type: Audio}}, nil, nil)
	return r
}

// register validates spec and adds user component.
func (r *registry[E]) register(spec ComponentSpec[E]) (ComponentID, error) {
	if spec.Name == "" || spec.Type == "" {
		return 0, fmt.Errorf("%w: empty type or name", ErrInvalidSpec)
	}
	if spec.Entry == nil {
		return 0, fmt.Errorf("%w: %s/%s has no entry point", ErrInvalidSpec, spec.Type, spec.Name)
	}
	k := Key{Type: spec.Type, Name: spec.Name}
	if _, ok := r.index[k]; ok {
		return 0, fmt.Errorf("%w: %v", ErrDuplicateName, k)
	}
	ports := make([]Port, len(spec.Ports))
	for i, p := range spec.Ports {
		if p.Direction < Input || p.Direction > Events {
			return 0, fmt.Errorf("%w: %v port %d has unknown direction", ErrInvalidSpec, k, i)
		}
		p.Type = p.Type.normalize()
		ports[i] = p
	}
	state := make([]any, len(spec.State))
	copy(state, spec.State)
	return r.add(k, User, ports, state, spec.Entry), nil
}

func (r *registry[E]) add(k Key, kind Kind, ports []Port, state []any, entry EntryFunc[E]) ComponentID {
	id := ComponentID(len(r.components))
	r.components = append(r.components, component[E]{
		Key:   k,
		kind:  kind,
		ports: ports,
		state: state,
		entry: entry,
		handle: Handle{
			ID:          id,
			BufferStart: r.buffers,
			StateStart:  r.slots,
		},
	})
	r.index[k] = id
	r.buffers += len(ports)
	r.slots += len(state)
	return id
}

// lookup returns component and port for the reference.
func (r *registry[E]) lookup(ref PortRef) (*component[E], *Port, error) {
	id, ok := r.index[ref.Key]
	if !ok {
		return nil, nil, ErrComponentNotFound
	}
	c := &r.components[id]
	if ref.Index < 0 || ref.Index >= len(c.ports) {
		return c, nil, ErrPortNotFound
	}
	return c, &c.ports[ref.Index], nil
}

package patchbay

import "fmt"

// Direction is a port kind. Only Output -> Input connections are
// routable, State and Events ports only describe component fields.
type Direction int

const (
	// Input port reads the buffer of a routed output.
	Input Direction = iota
	// Output port writes its own buffer.
	Output
	// State describes a persistent state field.
	State
	// Events describes an event batch field.
	Events
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	case State:
		return "state"
	case Events:
		return "events"
	}
	return "unknown"
}

// SignalType is a port capability. Connected ports must carry the same
// signal type.
type SignalType string

const (
	// Audio is audio-rate signal. Empty signal type is treated as audio.
	Audio SignalType = "audio"
	// Control is block-rate control signal carried in audio buffers.
	Control SignalType = "control"
)

func (t SignalType) normalize() SignalType {
	if t == "" {
		return Audio
	}
	return t
}

// Port describes a field of a component.
type Port struct {
	Name      string
	Direction Direction
	Type      SignalType
}

// Key identifies registered component by its type and instance name.
type Key struct {
	Type string
	Name string
}

func (k Key) String() string {
	return k.Type + "/" + k.Name
}

// Port returns reference to the port of the component.
func (k Key) Port(index int) PortRef {
	return PortRef{Key: k, Index: index}
}

// PortRef references a port by the component key and the port index.
type PortRef struct {
	Key
	Index int
}

func (r PortRef) String() string {
	return fmt.Sprintf("%v[%d]", r.Key, r.Index)
}

// OutPort is a reference that is known to be an output port at compile
// time.
type OutPort struct {
	PortRef
}

// InPort is a reference that is known to be an input port at compile
// time.
type InPort struct {
	PortRef
}

// Out marks reference as output.
func Out(r PortRef) OutPort {
	return OutPort{PortRef: r}
}

// In marks reference as input.
func In(r PortRef) InPort {
	return InPort{PortRef: r}
}

const systemType = "system"

var (
	inputKey  = Key{Type: systemType, Name: "input"}
	outputKey = Key{Type: systemType, Name: "output"}
)

// SystemInput returns the output port of the boundary input component. Block
// input signal enters the graph through it.
func SystemInput() OutPort {
	return Out(inputKey.Port(0))
}

// SystemOutput returns the input port of the boundary output component.
// Block output signal leaves the graph through it.
func SystemOutput() InPort {
	return In(outputKey.Port(0))
}

// Package mock provides components for testing graphs.
package mock

import (
	"github.com/dudk/patchbay"
)

// Type is the component type of all mock components.
const Type = "mock"

// Copy returns spec of a component with one input and one output. Input is
// copied to output, absent input leaves output silent.
func Copy[E any](name string) patchbay.ComponentSpec[E] {
	return patchbay.ComponentSpec[E]{
		Type: Type,
		Name: name,
		Ports: []patchbay.Port{
			{Name: "in", Direction: patchbay.Input},
			{Name: "out", Direction: patchbay.Output},
		},
		Entry: func(b *patchbay.Block[E], _ patchbay.Handle) {
			if in := b.Input(0); in != nil {
				copy(b.Output(1), in)
			}
		},
	}
}

// Constant returns spec of a component with a single output filled with
// the value.
func Constant[E any](name string, value float32) patchbay.ComponentSpec[E] {
	return patchbay.ComponentSpec[E]{
		Type:  Type,
		Name:  name,
		Ports: []patchbay.Port{{Name: "out", Direction: patchbay.Output}},
		Entry: func(b *patchbay.Block[E], _ patchbay.Handle) {
			out := b.Output(0)
			for i := range out {
				out[i] = value
			}
		},
	}
}

// Sum returns spec of a component with two inputs and one output that
// receives the sum of inputs.
func Sum[E any](name string) patchbay.ComponentSpec[E] {
	return patchbay.ComponentSpec[E]{
		Type: Type,
		Name: name,
		Ports: []patchbay.Port{
			{Name: "a", Direction: patchbay.Input},
			{Name: "b", Direction: patchbay.Input},
			{Name: "out", Direction: patchbay.Output},
		},
		Entry: func(b *patchbay.Block[E], _ patchbay.Handle) {
			out := b.Output(2)
			for port := 0; port < 2; port++ {
				if in := b.Input(port); in != nil {
					for i := range out {
						out[i] += in[i]
					}
				}
			}
		},
	}
}

// Counter holds the number of calls of a counting component.
type Counter struct {
	Calls int
}

// Counting returns spec of a component with one output and a *Counter
// state slot. Every call increments the counter and writes its value to
// the output.
func Counting[E any](name string) patchbay.ComponentSpec[E] {
	return patchbay.ComponentSpec[E]{
		Type:  Type,
		Name:  name,
		Ports: []patchbay.Port{{Name: "out", Direction: patchbay.Output}, {Name: "counter", Direction: patchbay.State}},
		State: []any{&Counter{}},
		Entry: func(b *patchbay.Block[E], _ patchbay.Handle) {
			c := patchbay.StateOf[Counter](b, 0)
			c.Calls++
			out := b.Output(0)
			for i := range out {
				out[i] = float32(c.Calls)
			}
		},
	}
}

// Recorder captures what component observed during every block.
type Recorder[E any] struct {
	Name   string
	Calls  int
	Inputs [][]float32
	Absent []bool
	Events [][]E
}

// Spec returns spec of a recording component with one input and one
// output. Input is copied to output.
func (r *Recorder[E]) Spec() patchbay.ComponentSpec[E] {
	return patchbay.ComponentSpec[E]{
		Type: Type,
		Name: r.Name,
		Ports: []patchbay.Port{
			{Name: "in", Direction: patchbay.Input},
			{Name: "out", Direction: patchbay.Output},
			{Name: "events", Direction: patchbay.Events},
		},
		Entry: r.entry,
	}
}

func (r *Recorder[E]) entry(b *patchbay.Block[E], _ patchbay.Handle) {
	r.Calls++
	in := b.Input(0)
	r.Absent = append(r.Absent, in == nil)
	r.Inputs = append(r.Inputs, append([]float32(nil), in...))
	r.Events = append(r.Events, append([]E(nil), b.Events()...))
	if in != nil {
		copy(b.Output(1), in)
	}
}

// Last returns input observed during the latest call.
func (r *Recorder[E]) Last() []float32 {
	if len(r.Inputs) == 0 {
		return nil
	}
	return r.Inputs[len(r.Inputs)-1]
}

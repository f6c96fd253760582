package processor

import (
	"fmt"

	"github.com/dudk/patchbay"
)

// Processor types.
const (
	GainType     = "gain"
	MixType      = "mix"
	DelayType    = "delay"
	InvertType   = "invert"
	ConstantType = "constant"
)

// Gain ports.
const (
	GainIn = iota
	GainOut
	GainGain
	GainEvents
	// GainMod is a control input. When it's connected, its first sample
	// of the block is multiplied with the gain.
	GainMod
)

// Gain returns spec of a component that multiplies input by gain. Gain is
// changed with "gain" events.
func Gain(name string, gain float32) patchbay.ComponentSpec[Event] {
	return patchbay.ComponentSpec[Event]{
		Type: GainType,
		Name: name,
		Ports: []patchbay.Port{
			GainIn:     {Name: "in", Direction: patchbay.Input},
			GainOut:    {Name: "out", Direction: patchbay.Output},
			GainGain:   {Name: "gain", Direction: patchbay.State},
			GainEvents: {Name: "events", Direction: patchbay.Events},
			GainMod:    {Name: "mod", Direction: patchbay.Input, Type: patchbay.Control},
		},
		State: []any{&gain},
		Entry: gainEntry,
	}
}

func gainEntry(b *patchbay.Block[Event], _ patchbay.Handle) {
	gain := patchbay.StateOf[float32](b, 0)
	setParam(b, "gain", gain)
	in := b.Input(GainIn)
	if in == nil {
		return
	}
	g := *gain
	if mod := b.Input(GainMod); mod != nil {
		g *= mod[0]
	}
	out := b.Output(GainOut)
	for i := range out {
		out[i] = in[i] * g
	}
}

// setParam applies the latest event of the block addressed to the
// parameter of executed component.
func setParam(b *patchbay.Block[Event], param string, v *float32) {
	name := b.Name()
	for _, e := range b.Events() {
		if e.Target == name && e.Param == param {
			*v = e.Value
		}
	}
}

// Mix returns spec of a component that sums n inputs. Output is port n.
func Mix(name string, n int) patchbay.ComponentSpec[Event] {
	ports := make([]patchbay.Port, 0, n+1)
	for i := 0; i < n; i++ {
		ports = append(ports, patchbay.Port{Name: fmt.Sprintf("in%d", i), Direction: patchbay.Input})
	}
	ports = append(ports, patchbay.Port{Name: "out", Direction: patchbay.Output})
	return patchbay.ComponentSpec[Event]{
		Type:  MixType,
		Name:  name,
		Ports: ports,
		Entry: func(b *patchbay.Block[Event], _ patchbay.Handle) {
			out := b.Output(n)
			for port := 0; port < n; port++ {
				in := b.Input(port)
				if in == nil {
					continue
				}
				for i := range out {
					out[i] += in[i]
				}
			}
		},
	}
}

// DelayLine is the state of delay component.
type DelayLine struct {
	line []float32
	pos  int
}

// Delay returns spec of a component that delays input by number of
// samples. Delay line is allocated here, so entry point never allocates.
func Delay(name string, samples int) patchbay.ComponentSpec[Event] {
	return patchbay.ComponentSpec[Event]{
		Type: DelayType,
		Name: name,
		Ports: []patchbay.Port{
			{Name: "in", Direction: patchbay.Input},
			{Name: "out", Direction: patchbay.Output},
			{Name: "line", Direction: patchbay.State},
		},
		State: []any{&DelayLine{line: make([]float32, samples)}},
		Entry: delayEntry,
	}
}

func delayEntry(b *patchbay.Block[Event], _ patchbay.Handle) {
	d := patchbay.StateOf[DelayLine](b, 0)
	in := b.Input(0)
	out := b.Output(1)
	if len(d.line) == 0 {
		copy(out, in)
		return
	}
	for i := range out {
		out[i] = d.line[d.pos]
		if in != nil {
			d.line[d.pos] = in[i]
		} else {
			d.line[d.pos] = 0
		}
		d.pos++
		if d.pos == len(d.line) {
			d.pos = 0
		}
	}
}

// Invert returns spec of a component that inverts signal polarity.
func Invert(name string) patchbay.ComponentSpec[Event] {
	return patchbay.ComponentSpec[Event]{
		Type: InvertType,
		Name: name,
		Ports: []patchbay.Port{
			{Name: "in", Direction: patchbay.Input},
			{Name: "out", Direction: patchbay.Output},
		},
		Entry: func(b *patchbay.Block[Event], _ patchbay.Handle) {
			in := b.Input(0)
			if in == nil {
				return
			}
			out := b.Output(1)
			for i := range out {
				out[i] = -in[i]
			}
		},
	}
}

// Constant returns spec of a component with control output filled with the
// value. Value is changed with "value" events.
func Constant(name string, value float32) patchbay.ComponentSpec[Event] {
	return patchbay.ComponentSpec[Event]{
		Type: ConstantType,
		Name: name,
		Ports: []patchbay.Port{
			{Name: "out", Direction: patchbay.Output, Type: patchbay.Control},
			{Name: "value", Direction: patchbay.State},
			{Name: "events", Direction: patchbay.Events},
		},
		State: []any{&value},
		Entry: func(b *patchbay.Block[Event], _ patchbay.Handle) {
			v := patchbay.StateOf[float32](b, 0)
			setParam(b, "value", v)
			out := b.Output(0)
			for i := range out {
				out[i] = *v
			}
		},
	}
}

// Package processor provides built-in audio components.
//
// All components share Event as the graph event type. Components pick
// events addressed to them by instance name and ignore the rest.
package processor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dudk/patchbay"
)

// Event changes a parameter of the component instance.
type Event struct {
	Target string
	Param  string
	Value  float32
}

// Params are construction parameters of a component.
type Params map[string]float64

// ErrUnknownType is returned when there is no processor of requested
// type.
var ErrUnknownType = errors.New("unknown processor type")

// Constructor creates component spec from instance name and params.
type Constructor func(name string, p Params) (patchbay.ComponentSpec[Event], error)

// Info describes available processor type.
type Info struct {
	Type   string
	Help   string
	Params []string
	New    Constructor
}

var types = map[string]Info{
	GainType: {
		Type:   GainType,
		Help:   "multiply signal by gain, accepts gain events",
		Params: []string{"gain"},
		New: func(name string, p Params) (patchbay.ComponentSpec[Event], error) {
			return Gain(name, float32(p.get("gain", 1))), nil
		},
	},
	MixType: {
		Type:   MixType,
		Help:   "sum of inputs",
		Params: []string{"inputs"},
		New: func(name string, p Params) (patchbay.ComponentSpec[Event], error) {
			n := int(p.get("inputs", 2))
			if n < 1 {
				return patchbay.ComponentSpec[Event]{}, fmt.Errorf("mix %s: invalid number of inputs: %d", name, n)
			}
			return Mix(name, n), nil
		},
	},
	DelayType: {
		Type:   DelayType,
		Help:   "delay signal by number of samples",
		Params: []string{"samples"},
		New: func(name string, p Params) (patchbay.ComponentSpec[Event], error) {
			n := int(p.get("samples", 0))
			if n < 0 {
				return patchbay.ComponentSpec[Event]{}, fmt.Errorf("delay %s: invalid number of samples: %d", name, n)
			}
			return Delay(name, n), nil
		},
	},
	InvertType: {
		Type: InvertType,
		Help: "invert signal polarity",
		New: func(name string, _ Params) (patchbay.ComponentSpec[Event], error) {
			return Invert(name), nil
		},
	},
	ConstantType: {
		Type:   ConstantType,
		Help:   "constant control signal, accepts value events",
		Params: []string{"value"},
		New: func(name string, p Params) (patchbay.ComponentSpec[Event], error) {
			return Constant(name, float32(p.get("value", 0))), nil
		},
	},
}

func (p Params) get(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// New returns spec of the processor type.
func New(typ, name string, p Params) (patchbay.ComponentSpec[Event], error) {
	info, ok := types[typ]
	if !ok {
		return patchbay.ComponentSpec[Event]{}, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
	return info.New(name, p)
}

// Types returns all processor types sorted by name.
func Types() []Info {
	result := make([]Info, 0, len(types))
	for _, info := range types {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Type < result[j].Type
	})
	return result
}

// Package patch loads graph description from YAML.
//
// Patch lists processors and routes between their ports:
//
//	name: demo
//	block_size: 256
//	components:
//	  - type: gain
//	    name: half
//	    params:
//	      gain: 0.5
//	routes:
//	  - from: input
//	    to: half.in
//	  - from: half.out
//	    to: output
//
// Ports are referenced as "component.port". Words "input" and "output"
// refer to the boundary ports of the graph.
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dudk/patchbay"
	"github.com/dudk/patchbay/processor"
)

const (
	inputName  = "input"
	outputName = "output"
)

var (
	// ErrUnknownComponent is returned when route refers to component that
	// is not listed in the patch.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrUnknownPort is returned when route refers to port that component
	// doesn't have.
	ErrUnknownPort = errors.New("unknown port")
)

type (
	// Patch is a graph description.
	Patch struct {
		Name       string      `yaml:"name"`
		BlockSize  int         `yaml:"block_size"`
		SampleRate int         `yaml:"sample_rate"`
		Components []Component `yaml:"components"`
		Routes     []Route     `yaml:"routes"`
		Events     []Event     `yaml:"events"`
	}

	// Component is a processor instance.
	Component struct {
		Type   string           `yaml:"type"`
		Name   string           `yaml:"name"`
		Params processor.Params `yaml:"params"`
	}

	// Route connects ports.
	Route struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	}

	// Event is sent to the graph right after it's built.
	Event struct {
		Target string  `yaml:"target"`
		Param  string  `yaml:"param"`
		Value  float32 `yaml:"value"`
	}
)

// Load reads patch from file.
func Load(path string) (*Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return p, nil
}

// Parse decodes patch. Unknown fields are rejected.
func Parse(data []byte) (*Patch, error) {
	var p Patch
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	return &p, nil
}

// Build registers components, applies routes and sends initial events.
// Patch settings are applied before provided options. Queue capacities are
// raised to fit all routes and events of the patch.
func (p *Patch) Build(options ...patchbay.Option) (*patchbay.Runtime[processor.Event], *patchbay.Router[processor.Event], error) {
	b := patchbay.NewBuilder[processor.Event]()
	specs := make(map[string]patchbay.ComponentSpec[processor.Event], len(p.Components))
	for _, c := range p.Components {
		spec, err := processor.New(c.Type, c.Name, c.Params)
		if err != nil {
			return nil, nil, err
		}
		if _, err := b.Register(spec); err != nil {
			return nil, nil, fmt.Errorf("register %v: %w", c.Name, err)
		}
		specs[c.Name] = spec
	}

	var opts []patchbay.Option
	if p.Name != "" {
		opts = append(opts, patchbay.WithName(p.Name))
	}
	if p.BlockSize != 0 {
		opts = append(opts, patchbay.BlockSize(p.BlockSize))
	}
	if p.SampleRate != 0 {
		opts = append(opts, patchbay.SampleRate(p.SampleRate))
	}
	// every route and event is queued before the first block.
	if n := len(p.Routes); n > patchbay.DefaultUpdateCapacity {
		opts = append(opts, patchbay.UpdateCapacity(n))
	}
	if n := len(p.Events); n > patchbay.DefaultEventCapacity {
		opts = append(opts, patchbay.EventCapacity(n))
	}
	rt, r, err := b.Build(append(opts, options...)...)
	if err != nil {
		return nil, nil, err
	}

	for _, route := range p.Routes {
		from, err := resolve(specs, route.From, inputName)
		if err != nil {
			return nil, nil, err
		}
		to, err := resolve(specs, route.To, outputName)
		if err != nil {
			return nil, nil, err
		}
		if err := r.Connect(from, to); err != nil {
			return nil, nil, err
		}
	}
	for _, e := range p.Events {
		if err := r.SendEvent(processor.Event(e)); err != nil {
			return nil, nil, fmt.Errorf("send event to %v: %w", e.Target, err)
		}
	}
	return rt, r, nil
}

// resolve turns "component.port" into port reference. Boundary is the
// boundary component name allowed at this end of the route.
func resolve(specs map[string]patchbay.ComponentSpec[processor.Event], ref, boundary string) (patchbay.PortRef, error) {
	switch ref {
	case inputName:
		if boundary == inputName {
			return patchbay.SystemInput().PortRef, nil
		}
	case outputName:
		if boundary == outputName {
			return patchbay.SystemOutput().PortRef, nil
		}
	}
	name, port, ok := strings.Cut(ref, ".")
	if !ok {
		return patchbay.PortRef{}, fmt.Errorf("%w: %q", ErrUnknownPort, ref)
	}
	spec, ok := specs[name]
	if !ok {
		return patchbay.PortRef{}, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	k := patchbay.Key{Type: spec.Type, Name: spec.Name}
	for i := range spec.Ports {
		if spec.Ports[i].Name == port {
			return k.Port(i), nil
		}
	}
	return patchbay.PortRef{}, fmt.Errorf("%w: %q", ErrUnknownPort, ref)
}

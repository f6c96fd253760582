package processor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dudk/patchbay"
	"github.com/dudk/patchbay/processor"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type chain struct {
	rt *patchbay.Runtime[processor.Event]
	r  *patchbay.Router[processor.Event]
}

// build returns graph with components connected in a chain between
// boundary ports. Every component's first port is input, second is
// output.
func build(t *testing.T, specs ...patchbay.ComponentSpec[processor.Event]) chain {
	t.Helper()
	b := patchbay.NewBuilder[processor.Event]()
	for _, spec := range specs {
		_, err := b.Register(spec)
		require.NoError(t, err)
	}
	rt, r, err := b.Build(patchbay.BlockSize(4))
	require.NoError(t, err)
	from := patchbay.SystemInput().PortRef
	for _, spec := range specs {
		k := patchbay.Key{Type: spec.Type, Name: spec.Name}
		require.NoError(t, r.Connect(from, k.Port(0)))
		from = k.Port(1)
	}
	require.NoError(t, r.Connect(from, patchbay.SystemOutput().PortRef))
	return chain{rt: rt, r: r}
}

func (c chain) process(in ...float32) []float32 {
	out := make([]float32, c.rt.BlockSize())
	c.rt.Process(in, out)
	return out
}

func TestGain(t *testing.T) {
	c := build(t, processor.Gain("g", 2))
	assert.Equal(t, []float32{2, 4, -2, 0}, c.process(1, 2, -1, 0))

	require.NoError(t, c.r.SendEvent(processor.Event{Target: "other", Param: "gain", Value: 10}))
	require.NoError(t, c.r.SendEvent(processor.Event{Target: "g", Param: "gain", Value: 3}))
	require.NoError(t, c.r.SendEvent(processor.Event{Target: "g", Param: "gain", Value: 0.5}))
	assert.Equal(t, []float32{0.5, 1, 1.5, 2}, c.process(1, 2, 3, 4))
	// gain is persistent.
	assert.Equal(t, []float32{0.5, 0.5, 0.5, 0.5}, c.process(1, 1, 1, 1))
}

func TestGainModulation(t *testing.T) {
	c := build(t, processor.Gain("g", 2))
	_, err := c.r.Ports(patchbay.Key{Type: processor.GainType, Name: "g"})
	require.NoError(t, err)
	// audio can't be routed to control port.
	err = c.r.Connect(patchbay.SystemInput().PortRef, patchbay.Key{Type: processor.GainType, Name: "g"}.Port(processor.GainMod))
	assert.ErrorIs(t, err, patchbay.ErrTypeMismatch)
}

func TestControlModulation(t *testing.T) {
	b := patchbay.NewBuilder[processor.Event]()
	_, err := b.Register(processor.Gain("g", 2))
	require.NoError(t, err)
	_, err = b.Register(processor.Constant("lfo", 0.25))
	require.NoError(t, err)
	rt, r, err := b.Build(patchbay.BlockSize(2))
	require.NoError(t, err)

	g := patchbay.Key{Type: processor.GainType, Name: "g"}
	lfo := patchbay.Key{Type: processor.ConstantType, Name: "lfo"}
	require.NoError(t, r.Connect(patchbay.SystemInput().PortRef, g.Port(processor.GainIn)))
	require.NoError(t, r.Connect(lfo.Port(0), g.Port(processor.GainMod)))
	require.NoError(t, r.Connect(g.Port(processor.GainOut), patchbay.SystemOutput().PortRef))
	assert.Equal(t, []patchbay.Key{patchbay.SystemInput().Key, lfo, g, patchbay.SystemOutput().Key}, r.Order())

	out := make([]float32, 2)
	rt.Process([]float32{4, 8}, out)
	assert.Equal(t, []float32{2, 4}, out)

	require.NoError(t, r.SendEvent(processor.Event{Target: "lfo", Param: "value", Value: 1}))
	rt.Process([]float32{4, 8}, out)
	assert.Equal(t, []float32{8, 16}, out)
}

func TestMix(t *testing.T) {
	b := patchbay.NewBuilder[processor.Event]()
	_, err := b.Register(processor.Mix("m", 3))
	require.NoError(t, err)
	_, err = b.Register(processor.Invert("i"))
	require.NoError(t, err)
	rt, r, err := b.Build(patchbay.BlockSize(2))
	require.NoError(t, err)

	m := patchbay.Key{Type: processor.MixType, Name: "m"}
	i := patchbay.Key{Type: processor.InvertType, Name: "i"}
	require.NoError(t, r.Connect(patchbay.SystemInput().PortRef, m.Port(0)))
	require.NoError(t, r.Connect(patchbay.SystemInput().PortRef, i.Port(0)))
	require.NoError(t, r.Connect(i.Port(1), m.Port(2)))
	require.NoError(t, r.Connect(m.Port(3), patchbay.SystemOutput().PortRef))

	out := make([]float32, 2)
	rt.Process([]float32{1, 2}, out)
	// signal and its inversion cancel out, unconnected input is silent.
	assert.Equal(t, []float32{0, 0}, out)

	require.NoError(t, r.Disconnect(m.Port(2)))
	rt.Process([]float32{1, 2}, out)
	assert.Equal(t, []float32{1, 2}, out)
}

func TestDelay(t *testing.T) {
	tests := []struct {
		samples  int
		in       [][]float32
		expected [][]float32
	}{
		{
			samples:  0,
			in:       [][]float32{{1, 2, 3, 4}},
			expected: [][]float32{{1, 2, 3, 4}},
		},
		{
			samples:  1,
			in:       [][]float32{{1, 2, 3, 4}, {5, 6, 7, 8}},
			expected: [][]float32{{0, 1, 2, 3}, {4, 5, 6, 7}},
		},
		{
			samples:  6,
			in:       [][]float32{{1, 2, 3, 4}, {5, 6, 7, 8}, {0, 0, 0, 0}},
			expected: [][]float32{{0, 0, 0, 0}, {0, 0, 1, 2}, {3, 4, 5, 6}},
		},
	}
	for _, test := range tests {
		c := build(t, processor.Delay("d", test.samples))
		for i := range test.in {
			assert.Equal(t, test.expected[i], c.process(test.in[i]...), "samples %d block %d", test.samples, i)
		}
	}
}

func TestNew(t *testing.T) {
	for _, info := range processor.Types() {
		spec, err := processor.New(info.Type, "x", nil)
		require.NoError(t, err, info.Type)
		assert.Equal(t, info.Type, spec.Type)
		assert.NotNil(t, spec.Entry)
	}
	spec, err := processor.New(processor.MixType, "m", processor.Params{"inputs": 4})
	require.NoError(t, err)
	assert.Len(t, spec.Ports, 5)

	_, err = processor.New("reverb", "r", nil)
	assert.ErrorIs(t, err, processor.ErrUnknownType)
	_, err = processor.New(processor.MixType, "m", processor.Params{"inputs": 0})
	assert.Error(t, err)
	_, err = processor.New(processor.DelayType, "d", processor.Params{"samples": -1})
	assert.Error(t, err)
}

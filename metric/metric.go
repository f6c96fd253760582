// Package metric exposes runtime counters through expvar.
//
// Counters of every graph are published as a map under the
// "patchbay.graphs" variable, keyed by graph name. Runtimes with the same
// graph name share counters.
package metric

import (
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Counter names.
const (
	// BlockCounter measures number of processed blocks.
	BlockCounter = "Blocks"
	// SampleCounter measures number of samples.
	SampleCounter = "Samples"
	// LatencyCounter measures latency between block calls.
	LatencyCounter = "Latency"
	// DurationCounter counts what's the duration of signal.
	DurationCounter = "Duration"
	// RuntimeCounter counts number of metered runtimes.
	RuntimeCounter = "Runtimes"
)

var (
	mu     sync.Mutex
	graphs = expvar.NewMap("patchbay.graphs")
)

// Meter captures counters of a single runtime. Measure must be called from
// one goroutine.
type Meter struct {
	blocks   *expvar.Int
	samples  *expvar.Int
	latency  *duration
	duration *duration

	sampleRate    int
	blockSize     int64
	blockDuration time.Duration
	last          time.Time
}

// New returns meter of the graph.
func New(name string, sampleRate int) *Meter {
	mu.Lock()
	defer mu.Unlock()
	counters, ok := graphs.Get(name).(*expvar.Map)
	if !ok {
		counters = new(expvar.Map)
		counters.Set(BlockCounter, new(expvar.Int))
		counters.Set(SampleCounter, new(expvar.Int))
		counters.Set(RuntimeCounter, new(expvar.Int))
		counters.Set(LatencyCounter, new(duration))
		counters.Set(DurationCounter, new(duration))
		graphs.Set(name, counters)
	}
	counters.Get(RuntimeCounter).(*expvar.Int).Add(1)
	return &Meter{
		blocks:     counters.Get(BlockCounter).(*expvar.Int),
		samples:    counters.Get(SampleCounter).(*expvar.Int),
		latency:    counters.Get(LatencyCounter).(*duration),
		duration:   counters.Get(DurationCounter).(*duration),
		sampleRate: sampleRate,
	}
}

// Measure captures a processed block. It doesn't allocate. Latency is
// measured from the previous call, the first call only starts the clock.
func (m *Meter) Measure(blockSize int64) {
	now := time.Now()
	if !m.last.IsZero() {
		m.latency.set(now.Sub(m.last))
	}
	m.last = now
	m.blocks.Add(1)
	m.samples.Add(blockSize)
	if m.blockSize != blockSize {
		m.blockSize = blockSize
		m.blockDuration = DurationOf(m.sampleRate, blockSize)
	}
	m.duration.add(m.blockDuration)
}

// Get returns counter values of the graph. Result is empty if graph was
// never metered.
func Get(name string) map[string]string {
	counters, _ := graphs.Get(name).(*expvar.Map)
	return valuesOf(counters)
}

// GetAll returns counters for all metered graphs.
func GetAll() map[string]map[string]string {
	all := make(map[string]map[string]string)
	graphs.Do(func(kv expvar.KeyValue) {
		counters, _ := kv.Value.(*expvar.Map)
		all[kv.Key] = valuesOf(counters)
	})
	return all
}

func valuesOf(counters *expvar.Map) map[string]string {
	values := make(map[string]string)
	if counters == nil {
		return values
	}
	counters.Do(func(kv expvar.KeyValue) {
		if d, ok := kv.Value.(*duration); ok {
			values[kv.Key] = d.value().String()
			return
		}
		values[kv.Key] = kv.Value.String()
	})
	return values
}

// DurationOf returns time duration of passed samples for this sample rate.
func DurationOf(sampleRate int, samples int64) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// duration allows to format time.Duration metric values.
type duration struct {
	d atomic.Int64
}

// String returns JSON string, as expvar requires.
func (v *duration) String() string {
	return fmt.Sprintf("%q", v.value().String())
}

func (v *duration) value() time.Duration {
	return time.Duration(v.d.Load())
}

func (v *duration) add(delta time.Duration) {
	v.d.Add(int64(delta))
}

func (v *duration) set(value time.Duration) {
	v.d.Store(int64(value))
}

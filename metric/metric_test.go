package metric_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/patchbay/metric"
)

func TestMeter(t *testing.T) {
	sampleRate := 44100
	// test cases
	var tests = []struct {
		name             string
		routines         int
		blocks           int
		blockSize        int64
		expectedSamples  string
		expectedBlocks   string
		expectedRuntimes string
	}{
		{
			name:             "meter test",
			routines:         2,
			blocks:           10,
			blockSize:        100,
			expectedSamples:  "2000",
			expectedBlocks:   "20",
			expectedRuntimes: "2",
		},
		{
			name:             "meter test",
			routines:         2,
			blocks:           10,
			blockSize:        100,
			expectedSamples:  "4000",
			expectedBlocks:   "40",
			expectedRuntimes: "4",
		},
	}
	// function to test meter.
	testFn := func(m *metric.Meter, wg *sync.WaitGroup, blocks int, blockSize int64) {
		for i := 0; i < blocks; i++ {
			m.Measure(blockSize)
		}
		wg.Done()
	}

	for _, c := range tests {
		wg := &sync.WaitGroup{}
		wg.Add(c.routines)
		for i := 0; i < c.routines; i++ {
			go testFn(metric.New(c.name, sampleRate), wg, c.blocks, c.blockSize)
		}
		// check if no data race.
		wg.Wait()
		values := metric.Get(c.name)
		assert.Equal(t, c.expectedSamples, values[metric.SampleCounter])
		assert.Equal(t, c.expectedBlocks, values[metric.BlockCounter])
		assert.Equal(t, c.expectedRuntimes, values[metric.RuntimeCounter])
	}
	assert.Contains(t, metric.GetAll(), "meter test")
	// 40 blocks of 100 samples at 44100 Hz.
	assert.Equal(t, (40 * metric.DurationOf(sampleRate, 100)).String(), metric.Get("meter test")[metric.DurationCounter])
	assert.Empty(t, metric.Get("never metered"))
}

func TestDurationOf(t *testing.T) {
	assert.Equal(t, time.Second, metric.DurationOf(44100, 44100))
	assert.Equal(t, 500*time.Millisecond, metric.DurationOf(48000, 24000))
}

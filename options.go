package patchbay

import (
	"fmt"
)

const (
	defaultBlockSize  = 512
	defaultSampleRate = 44100
)

// Default queue capacities.
const (
	DefaultUpdateCapacity = 16
	DefaultEventCapacity  = 1024
)

// Logger is a global interface for patchbay loggers.
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
}

type silentLogger struct{}

func (silentLogger) Debug(args ...interface{}) {}

func (silentLogger) Info(args ...interface{}) {}

var defaultLogger silentLogger

// config holds build parameters.
type config struct {
	name           string
	blockSize      int
	sampleRate     int
	updateCapacity int
	eventCapacity  int
	metric         bool
	lockMemory     bool
	log            Logger
}

func defaultConfig() config {
	return config{
		blockSize:      defaultBlockSize,
		sampleRate:     defaultSampleRate,
		updateCapacity: DefaultUpdateCapacity,
		eventCapacity:  DefaultEventCapacity,
		log:            defaultLogger,
	}
}

// Option provides a way to set functional parameters to the graph.
type Option func(c *config) error

// BlockSize sets number of samples processed per block.
func BlockSize(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidBlockSize, n)
		}
		c.blockSize = n
		return nil
	}
}

// SampleRate sets sample rate of the signal. It's only used to measure
// signal duration.
func SampleRate(rate int) Option {
	return func(c *config) error {
		if rate <= 0 {
			return fmt.Errorf("invalid sample rate: %d", rate)
		}
		c.sampleRate = rate
		return nil
	}
}

// UpdateCapacity sets how many topology updates can be pending before
// routing calls start to fail with ErrUpdateQueueFull.
func UpdateCapacity(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("invalid update capacity: %d", n)
		}
		c.updateCapacity = n
		return nil
	}
}

// EventCapacity sets how many events can be pending before SendEvent
// starts to fail with ErrEventQueueFull.
func EventCapacity(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("invalid event capacity: %d", n)
		}
		c.eventCapacity = n
		return nil
	}
}

// WithName sets name to the graph.
func WithName(n string) Option {
	return func(c *config) error {
		c.name = n
		return nil
	}
}

// WithLogger sets logger to the router. If this option is not provided,
// silent logger is used.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.log = logger
		return nil
	}
}

// WithMetric enables block metrics of the runtime.
func WithMetric() Option {
	return func(c *config) error {
		c.metric = true
		return nil
	}
}

// LockMemory makes Runtime.Run lock process memory in RAM, so the block
// loop doesn't page fault.
func LockMemory() Option {
	return func(c *config) error {
		c.lockMemory = true
		return nil
	}
}

package patchbay

import (
	"context"
	"fmt"
	"io"

	"github.com/dudk/patchbay/internal/rt"
	"github.com/dudk/patchbay/internal/spsc"
	"github.com/dudk/patchbay/metric"
)

// RuntimeState is the phase of block execution.
type RuntimeState int

const (
	// Idle means runtime is between blocks.
	Idle RuntimeState = iota
	// Reconfiguring means runtime drains updates and events.
	Reconfiguring
	// Executing means runtime calls entry points.
	Executing
)

func (s RuntimeState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Reconfiguring:
		return "reconfiguring"
	case Executing:
		return "executing"
	}
	return "unknown"
}

type (
	// Source fills the block with input signal. It returns number of
	// samples written and io.EOF when signal is over.
	Source interface {
		Read(block []float32) (int, error)
	}

	// Sink consumes the block of output signal.
	Sink interface {
		Write(block []float32) error
	}
)

// proc is the runtime copy of component descriptor.
type proc[E any] struct {
	name   string
	ports  []Port
	slots  int
	entry  EntryFunc[E]
	handle Handle
}

// Runtime executes the graph block by block. It owns buffer storage, state
// storage and the applied topology. All methods must be called from the
// same goroutine.
type Runtime[E any] struct {
	blockSize  int
	lockMemory bool
	procs      []proc[E]
	buffers    [][]float32
	states     []any
	table      []int32
	order      []ComponentID
	updates    *spsc.Queue[Command]
	events     *spsc.Queue[E]
	batch      []E
	state      RuntimeState
	view       Block[E]
	in, out    int // logical indices of boundary ports
	measure    *metric.Meter
}

func newRuntime[E any](r *registry[E], outputs int, initial ApplyTopology, c config, updates *spsc.Queue[Command], events *spsc.Queue[E]) *Runtime[E] {
	run := &Runtime[E]{
		blockSize:  c.blockSize,
		lockMemory: c.lockMemory,
		procs:      make([]proc[E], len(r.components)),
		buffers:    make([][]float32, outputs),
		states:     make([]any, 0, r.slots),
		updates:    updates,
		events:     events,
		batch:      make([]E, 0, events.Cap()),
		in:         r.components[InputID].handle.BufferStart,
		out:        r.components[OutputID].handle.BufferStart,
	}
	arena := make([]float32, outputs*c.blockSize)
	for i := range run.buffers {
		run.buffers[i] = arena[i*c.blockSize : (i+1)*c.blockSize : (i+1)*c.blockSize]
	}
	for i := range r.components {
		comp := &r.components[i]
		run.procs[i] = proc[E]{
			name:   comp.Name,
			ports:  comp.ports,
			slots:  len(comp.state),
			entry:  comp.entry,
			handle: comp.handle,
		}
		run.states = append(run.states, comp.state...)
	}
	run.view.rt = run
	run.apply(initial)
	return run
}

// BlockSize returns number of samples in a block.
func (r *Runtime[E]) BlockSize() int {
	return r.blockSize
}

// State returns current execution phase.
func (r *Runtime[E]) State() RuntimeState {
	return r.state
}

// Process executes a single block. Input signal is copied into the boundary
// input buffer, shorter or nil input is padded with silence. Output signal
// is copied from the buffer routed to the boundary output, silence is
// written if nothing is routed there.
func (r *Runtime[E]) Process(in, out []float32) {
	if r.state != Idle {
		panic(fmt.Sprintf("patchbay: process called while %v", r.state))
	}
	r.state = Reconfiguring
	r.reconfigure()
	r.drainEvents()

	r.state = Executing
	r.execute(in, out)

	clear(r.batch)
	r.batch = r.batch[:0]
	r.state = Idle
	if r.measure != nil {
		r.measure.Measure(int64(r.blockSize))
	}
}

// Run executes blocks until source is done, sink fails or context is
// done. It locks the calling goroutine to its thread for the duration.
func (r *Runtime[E]) Run(ctx context.Context, source Source, sink Sink) error {
	unlock := rt.LockThread()
	defer unlock()
	if r.lockMemory {
		unlockMemory, err := rt.LockMemory()
		if err != nil {
			return fmt.Errorf("lock memory: %w", err)
		}
		defer unlockMemory()
	}

	in := make([]float32, r.blockSize)
	out := make([]float32, r.blockSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, readErr := source.Read(in)
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("source: %w", readErr)
		}
		if n > 0 {
			r.Process(in[:n], out)
			if err := sink.Write(out[:n]); err != nil {
				return fmt.Errorf("sink: %w", err)
			}
		}
		if readErr == io.EOF {
			return nil
		}
	}
}

// reconfigure applies the latest pending command. Every topology command
// is a full snapshot, so older ones are skipped.
func (r *Runtime[E]) reconfigure() {
	var latest Command
	for {
		c, ok := r.updates.Pop()
		if !ok {
			break
		}
		latest = c
	}
	if latest != nil {
		r.apply(latest)
	}
}

func (r *Runtime[E]) apply(c Command) {
	switch c := c.(type) {
	case ApplyTopology:
		if len(c.Table) != len(r.table) && r.table != nil {
			panic(fmt.Sprintf("patchbay: topology table has %d entries, expected %d", len(c.Table), len(r.table)))
		}
		for _, slot := range c.Table {
			if slot != noBuffer && (slot < 0 || int(slot) >= len(r.buffers)) {
				panic(fmt.Sprintf("patchbay: topology refers to buffer %d of %d", slot, len(r.buffers)))
			}
		}
		for _, id := range c.Order {
			if id < 0 || int(id) >= len(r.procs) || r.procs[id].entry == nil {
				panic(fmt.Sprintf("patchbay: topology order refers to component %d", id))
			}
		}
		r.table = c.Table
		r.order = c.Order
	default:
		panic(fmt.Sprintf("patchbay: unknown command %T", c))
	}
}

// drainEvents moves pending events into the batch. Batch capacity is equal
// to the queue capacity, so append never grows it.
func (r *Runtime[E]) drainEvents() {
	for len(r.batch) < cap(r.batch) {
		e, ok := r.events.Pop()
		if !ok {
			return
		}
		r.batch = append(r.batch, e)
	}
}

func (r *Runtime[E]) execute(in, out []float32) {
	input := r.buffer(r.table[r.in])
	n := copy(input, in)
	clear(input[n:])

	for _, id := range r.order {
		p := &r.procs[id]
		for i := range p.ports {
			if p.ports[i].Direction == Output {
				clear(r.buffer(r.table[p.handle.BufferStart+i]))
			}
		}
		r.view.proc = p
		p.entry(&r.view, p.handle)
		r.view.proc = nil
	}

	if slot := r.table[r.out]; slot != noBuffer {
		n = copy(out, r.buffer(slot))
	} else {
		n = 0
	}
	clear(out[n:])
}

// buffer returns physical buffer by slot. Invalid slot is a bug in
// allocation.
func (r *Runtime[E]) buffer(slot int32) []float32 {
	if slot < 0 || int(slot) >= len(r.buffers) {
		panic(fmt.Sprintf("patchbay: buffer slot %d out of %d", slot, len(r.buffers)))
	}
	return r.buffers[slot]
}

// Block is the runtime view passed to entry points. It resolves logical
// ports of the currently executed component into physical storage and is
// only valid for the duration of the entry point call.
type Block[E any] struct {
	rt   *Runtime[E]
	proc *proc[E]
}

func (b *Block[E]) current() *proc[E] {
	if b.proc == nil {
		panic("patchbay: block used outside of entry point")
	}
	return b.proc
}

// logical returns index in the buffer-index table for the port.
func (b *Block[E]) logical(port int, d Direction) int {
	p := b.current()
	if port < 0 || port >= len(p.ports) {
		panic(fmt.Sprintf("patchbay: %s has no port %d", p.name, port))
	}
	if p.ports[port].Direction != d {
		panic(fmt.Sprintf("patchbay: %s port %d is %v, not %v", p.name, port, p.ports[port].Direction, d))
	}
	idx := p.handle.BufferStart + port
	if idx >= len(b.rt.table) {
		panic(fmt.Sprintf("patchbay: buffer index %d out of %d", idx, len(b.rt.table)))
	}
	return idx
}

// Input returns the buffer routed into the input port. Nil is returned if
// the port is not connected, it should be treated as silence. Returned
// slice must not be modified.
func (b *Block[E]) Input(port int) []float32 {
	slot := b.rt.table[b.logical(port, Input)]
	if slot == noBuffer {
		return nil
	}
	return b.rt.buffer(slot)
}

// Output returns the buffer of output port. It's zeroed before the call.
func (b *Block[E]) Output(port int) []float32 {
	return b.rt.buffer(b.rt.table[b.logical(port, Output)])
}

// Events returns events of current block in submission order. Returned
// slice must not be modified or retained.
func (b *Block[E]) Events() []E {
	b.current()
	return b.rt.batch
}

// Len returns block size.
func (b *Block[E]) Len() int {
	return b.rt.blockSize
}

// ID returns the id of executed component.
func (b *Block[E]) ID() ComponentID {
	return b.current().handle.ID
}

// Name returns instance name of executed component.
func (b *Block[E]) Name() string {
	return b.current().name
}

// StateOf returns persistent state slot of executed component. The slot
// must hold *T, any other type is a bug in component registration and
// causes panic.
func StateOf[T, E any](b *Block[E], slot int) *T {
	p := b.current()
	if slot < 0 || slot >= p.slots {
		panic(fmt.Sprintf("patchbay: %s has no state slot %d", p.name, slot))
	}
	idx := p.handle.StateStart + slot
	if idx >= len(b.rt.states) {
		panic(fmt.Sprintf("patchbay: state index %d out of %d", idx, len(b.rt.states)))
	}
	v, ok := b.rt.states[idx].(*T)
	if !ok {
		panic(fmt.Sprintf("patchbay: %s state slot %d is %T, not %T", p.name, slot, b.rt.states[idx], v))
	}
	return v
}

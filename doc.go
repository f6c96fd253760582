/*
Package patchbay allows to build and execute block-based audio graphs.

# Concept

The graph is a set of components connected with routes. It's executed block
by block: every block each component reads its inputs and writes its
outputs exactly once. The graph always has two boundary components:

	system/input - its single output carries block input signal;
	system/output - its single input receives block output signal.

Everything else is user components. Route connects an output port to an
input port. One output can feed many inputs, but every input has at most
one source. Routes that would close a cycle are rejected.

# Components

Component is described with ComponentSpec: type and instance name, list of
ports, initial state slots and entry point. Ports are one of:

	Input - reads the buffer of a routed output, nil if not routed;
	Output - writes its own buffer, zeroed before every call;
	State - describes persistent state slot;
	Events - describes event batch of the block.

Components are registered with Builder. Once all components are registered,
Build returns two handles:

	rt, router, err := b.Build(patchbay.BlockSize(256))

Runtime executes blocks and must be driven from a single goroutine. Router
changes routes and sends events. It can be shared between goroutines.

# Routing

Router validates every request against the current graph and computes new
buffer placement and execution order. Result is delivered to the runtime
through a bounded lock-free queue and applied at the beginning of the next
block. Control side never waits for the runtime, if the queue is full the
request fails with ErrUpdateQueueFull and the graph is left unchanged.

	err := router.Connect(patchbay.SystemInput().PortRef, gain.Port(0))

# Execution

Process executes a single block:

	rt.Process(in, out)

Run pulls blocks from Source and pushes them to Sink until source is over
or context is done. Entry points receive Block view that resolves port
indices into buffers. Buffers are allocated once when graph is built, block
execution doesn't allocate.
*/
package patchbay

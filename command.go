package patchbay

// Command is a deferred mutation sent from the router to the runtime. The
// set of commands is closed, runtime applies them with a type switch.
type Command interface {
	command()
}

// ApplyTopology replaces the buffer-index table and the execution order.
// Both slices are owned by the runtime once command is sent.
type ApplyTopology struct {
	// Table maps logical port index to physical buffer slot. Negative
	// value means the port has no buffer.
	Table []int32
	// Order contains user components in execution order.
	Order []ComponentID
}

func (ApplyTopology) command() {}

// noBuffer marks unrouted inputs and ports without storage.
const noBuffer int32 = -1

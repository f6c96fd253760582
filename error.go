package patchbay

import (
	"errors"
	"fmt"
)

// Construction errors.
var (
	// ErrDuplicateName is returned when component with the same type and
	// name is already registered.
	ErrDuplicateName = errors.New("duplicate component name")
	// ErrInvalidSpec is returned when component spec can't be registered.
	ErrInvalidSpec = errors.New("invalid component spec")
	// ErrInvalidBlockSize is returned when block size is not positive.
	ErrInvalidBlockSize = errors.New("invalid block size")
	// ErrBuilt is returned when builder is used after Build.
	ErrBuilt = errors.New("builder already built")
)

// Routing errors. They are always wrapped into *RoutingError.
var (
	ErrComponentNotFound = errors.New("component not found")
	ErrPortNotFound      = errors.New("port not found")
	ErrFromPortIsInput   = errors.New(`"from" must be an output port`)
	ErrToPortIsOutput    = errors.New(`"to" must be an input port`)
	ErrTypeMismatch      = errors.New("port signal types mismatch")
	ErrCycleDetected     = errors.New("cycle detected in routing graph")
	ErrNotConnected      = errors.New("input port is not connected")
)

// Saturation errors. Consumer doesn't drain the queue fast enough or is not
// running at all.
var (
	ErrUpdateQueueFull = errors.New("update queue is full")
	ErrEventQueueFull  = errors.New("event queue is full")
)

// RoutingError is returned when routing request is rejected. Graph state
// is not changed when this error is returned.
type RoutingError struct {
	Op   string
	From PortRef
	To   PortRef
	Err  error
}

func (e *RoutingError) Error() string {
	switch e.Op {
	case "disconnect":
		return fmt.Sprintf("%s %v: %v", e.Op, e.To, e.Err)
	}
	return fmt.Sprintf("%s %v -> %v: %v", e.Op, e.From, e.To, e.Err)
}

// Unwrap returns the sentinel error.
func (e *RoutingError) Unwrap() error {
	return e.Err
}

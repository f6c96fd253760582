//go:build !linux

package rt

import "errors"

// ErrNotSupported is returned when memory can't be locked on this platform.
var ErrNotSupported = errors.New("memory locking is not supported")

// LockMemory is not supported on this platform.
func LockMemory() (func(), error) {
	return nil, ErrNotSupported
}

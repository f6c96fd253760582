// Package rt prepares the goroutine that executes blocks.
package rt

import "runtime"

// LockThread wires calling goroutine to its current OS thread. Returned
// function undoes it.
func LockThread() func() {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}

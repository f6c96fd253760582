package rt

import "golang.org/x/sys/unix"

// LockMemory locks currently mapped pages of the process in RAM. Returned
// function unlocks them.
func LockMemory() (func(), error) {
	if err := unix.Mlockall(unix.MCL_CURRENT); err != nil {
		return nil, err
	}
	return func() { _ = unix.Munlockall() }, nil
}

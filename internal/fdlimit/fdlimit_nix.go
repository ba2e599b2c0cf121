// +build darwin freebsd linux netbsd openbsd

package fdlimit

import (
	"fmt"
	"syscall"
)

// Current returns the current file descriptor limit set in the OS.
func Current() (uint64, error) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, fmt.Errorf("unable to get RLIMIT: %w", err)
	}
	return rLimit.Cur, nil
}

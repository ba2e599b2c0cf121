// +build !darwin,!freebsd,!linux,!netbsd,!openbsd

package fdlimit

import (
	"fmt"
)

// Current returns the current file descriptor limit set in the OS.
// TODO: add implementations for all OS, especially Windows
func Current() (uint64, error) {
	return 0, fmt.Errorf("unable to get FD limit on this operating system")
}

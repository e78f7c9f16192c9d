//go:build !windows

package filesystem

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isBusy reports errors caused by another process holding the file.
// Permission errors are included: on some systems an open handle surfaces as EACCES/EPERM.
func isBusy(err error) bool {
	return errors.Is(err, unix.EBUSY) ||
		errors.Is(err, unix.ETXTBSY) ||
		errors.Is(err, unix.EACCES) ||
		errors.Is(err, unix.EPERM)
}

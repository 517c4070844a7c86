//go:build unix

package diagnostics

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func accessible(path string, dir bool) error {
	mode := uint32(unix.R_OK)
	if dir {
		mode |= unix.X_OK
	}
	if err := unix.Access(path, mode); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

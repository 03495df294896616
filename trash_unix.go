//go:build unix

package main

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// checkWritable fails with ErrPermission when entries of dir cannot be removed
func checkWritable(dir string) error {
	err := unix.Access(dir, unix.W_OK|unix.X_OK)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM), errors.Is(err, unix.EROFS):
		return fmt.Errorf("%w: %s: %v", ErrPermission, dir, err)
	default:
		// Let the trash command report anything else
		debugLog("access check on %s: %v", dir, err)
		return nil
	}
}

//go:build unix

package rarextract

import "golang.org/x/sys/unix"

// executable returns true if the current user is allowed to run the named file.
func executable(name string) bool {
	return unix.Access(name, unix.X_OK) == nil
}

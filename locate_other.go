//go:build !unix

package rarextract

import "os"

// executable returns true if the named file has any executable permission bit.
func executable(name string) bool {
	st, err := os.Stat(name)
	if err != nil {
		return false
	}
	return st.Mode().Perm()&0o111 != 0
}

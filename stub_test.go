package rarextract_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Tests that write and then run a stub program are not run in parallel,
// a concurrent fork can inherit the open file and fail the exec with "text file busy".

// stub writes an executable shell script to dir and returns its path.
func stub(t *testing.T, dir, name, body string) string {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("the stub programs require /bin/sh")
	}
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755)
	require.NoError(t, err)
	return path
}

// finder is a Finder that returns a fixed result and counts its calls.
type finder struct {
	path  string
	err   error
	calls int
}

func (f *finder) Locate() (string, error) {
	f.calls++
	return f.path, f.err
}

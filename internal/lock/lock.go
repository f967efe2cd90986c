// Package lock serializes extractions into the same destination directory
// using advisory file locks that are shared between processes.
package lock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrBusy is returned when another extraction holds the destination lock.
var ErrBusy = errors.New("destination is in use by another extraction")

// Lock is an acquired destination lock.
type Lock struct {
	fl *flock.Flock
}

// Path returns the lock file for the dst directory within the dir directory.
// When dir is empty the system temporary directory is used.
// The lock file is kept outside of dst so nothing is added to the extracted files.
func Path(dir, dst string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	abs, err := filepath.Abs(dst)
	if err != nil {
		abs = filepath.Clean(dst)
	}
	sum := sha256.Sum256([]byte(abs))
	const n = 8
	return filepath.Join(dir, "rarextract-"+hex.EncodeToString(sum[:n])+".lock")
}

// Acquire takes the lock for the dst directory without waiting.
// ErrBusy is returned if the lock is already held.
func Acquire(dir, dst string) (*Lock, error) {
	name := Path(dir, dst)
	fl := flock.New(name)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock acquire %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("lock acquire %w: %s", ErrBusy, dst)
	}
	return &Lock{fl: fl}, nil
}

// Release unlocks the destination. The lock file is left in place
// as removing it would let two processes hold locks on different files.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("lock release %w", err)
	}
	return nil
}

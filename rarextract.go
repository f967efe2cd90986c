// Package rarextract extracts RAR archives using the [unrar] program.
//
// The package does not decompress RAR data itself. It finds an installed
// unrar program, runs it against an archive and destination directory, and relays
// the program's combined output text to the caller as it arrives.
//
// The unrar program is searched for in the following order.
//
//  1. A copy bundled with the running application.
//  2. The Homebrew and system locations, /opt/homebrew/bin, /usr/local/bin and /usr/bin.
//  3. The result of the which command, using the inherited PATH.
//
// [unrar]: https://www.rarlab.com/rar_add.htm
package rarextract

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
)

// TimeoutLookup is the maximum time allowed for the which program to find unrar.
// There is no timeout for the extraction.
const TimeoutLookup = 2 * time.Second

var (
	ErrDest      = errors.New("destination is empty")
	ErrDirectory = errors.New("could not create the destination directory")
	ErrExit      = errors.New("unrar exited with an error")
	ErrFile      = errors.New("path is a directory")
	ErrLookup    = errors.New("which lookup failed")
	ErrMissing   = errors.New("path does not exist")
	ErrNotFound  = errors.New("unrar program was not found")
	ErrNotRar    = errors.New("file is not a rar archive")
	ErrSource    = errors.New("source is empty")
	ErrSpawn     = errors.New("unrar program could not be started")
)

// ExitError is returned when the unrar program runs but exits with a non-zero code
// or is terminated by a signal. No meaning is given to the unrar specific exit codes.
type ExitError struct {
	Code   int    // Code is the exit status of the program, or -1 when terminated by a signal.
	Signal string // Signal is the name of the terminating signal, if any.
}

func (e *ExitError) Error() string {
	if e.Signal != "" {
		return "process was terminated by signal " + e.Signal
	}
	return fmt.Sprintf("process exited with code %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return ErrExit
}

// SpawnError is returned when the unrar program cannot be started,
// such as when the located file is missing the executable permission.
type SpawnError struct {
	Path string // Path is the program that could not be started.
	Err  error  // Err is the operating system error.
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrSpawn, e.Path, e.Err)
}

func (e *SpawnError) Unwrap() []error {
	return []error{ErrSpawn, e.Err}
}

// Message returns a single human-readable sentence describing the err,
// suitable to replace a progress or status indicator.
// A nil err returns the success message.
func Message(err error) string {
	var exit *ExitError
	var spawn *SpawnError
	switch {
	case err == nil:
		return "Extraction completed successfully!"
	case errors.Is(err, ErrNotFound):
		return "The unrar program was not found. " +
			"Please install it with a package manager, for example: brew install unrar"
	case errors.Is(err, ErrDirectory):
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return "Error creating directory: " + pe.Error()
		}
		return "Error creating directory: " + cause(err)
	case errors.As(err, &exit):
		return "Extraction failed: " + exit.Error()
	case errors.As(err, &spawn):
		return "Extraction failed: " + spawn.Err.Error()
	}
	return "Error: " + cause(err)
}

// cause returns the text of the innermost wrapped error,
// which is the part of the chain that is meaningful to a user.
func cause(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return strings.TrimSpace(err.Error())
		}
		err = next
	}
}

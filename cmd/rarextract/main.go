// Package main provides the entry point for the rarextract command.
//
// rarextract extracts RAR archives into a directory named after the archive,
// next to it, using an installed unrar program.
//
// Usage:
//
//	rarextract GAME.RAR
//	rarextract extract --reveal GAME.RAR DEMO.RAR
//	rarextract locate
//
// See --help for all available options.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Defacto2/rarextract"
)

// Exit codes of the command.
const (
	exitOK       = 0 // Success
	exitError    = 1 // General error, such as invalid arguments or a file that is not an archive
	exitNotFound = 2 // The unrar program was not found
	exitFailed   = 3 // The unrar program could not be started or exited with an error
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the root command with args and returns the exit code.
// Errors that have not already been reported to the user are written to stderr.
// An interrupt stops the running unrar program.
func run(args []string, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(stderr, rarextract.Message(err))
	}
	return exitCode(err)
}

// exitCode maps the err to the exit code of the command.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, rarextract.ErrNotFound):
		return exitNotFound
	case errors.Is(err, rarextract.ErrExit), errors.Is(err, rarextract.ErrSpawn):
		return exitFailed
	}
	return exitError
}

// reportedError wraps an error whose message has already been printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

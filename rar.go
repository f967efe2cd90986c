package rarextract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/Defacto2/rarextract/command"
	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Package file rar.go contains the unrar program runner.

// Extractor runs the [unrar program] to extract the Source archive into the Destination directory.
//
// The Destination must already exist and neither path is checked before unrar is run,
// a missing or unreadable archive is reported by unrar and returned as an ExitError.
// Files already written to the Destination are left in place when the extraction fails.
//
//	func Extract() {
//	    x := rarextract.Extractor{
//	        Source:      "/home/user/GAME.RAR",
//	        Destination: "/home/user/GAME",
//	    }
//	    err := x.Extract(func(s string) {
//	        fmt.Print(s)
//	    })
//	    if err != nil {
//	        fmt.Fprintln(os.Stderr, rarextract.Message(err))
//	    }
//	}
//
// [unrar program]: https://www.rarlab.com/rar_add.htm
type Extractor struct {
	Source      string       // The source archive file.
	Destination string       // The extraction destination directory.
	Finder      Finder       // Finder locates the unrar program, when nil NewLocator is used.
	Logger      *slog.Logger // Logger is optional.
}

// Extract runs unrar and waits for it to exit. There is no timeout or cancellation.
//
// The progress func is called with each non-empty chunk of the combined standard output
// and standard error text, in the order it was written. A chunk is whatever the pipe
// delivered and is not guaranteed to be a whole line. The func is called from a
// separate goroutine, but every call has returned before Extract returns.
//
// The unrar program is located on every call, before the paths are checked. If it cannot
// be found an error matching ErrNotFound is returned and nothing is run. An empty Source or
// Destination returns ErrSource or ErrDest. A program that cannot be started returns a
// SpawnError and a non-zero exit code or a termination signal returns an ExitError.
func (x Extractor) Extract(progress func(string)) error {
	return x.ExtractContext(context.Background(), progress)
}

// ExtractContext is the same as Extract but the unrar process and any programs it
// started are killed when the ctx is done, in which case the ctx error is returned.
func (x Extractor) ExtractContext(ctx context.Context, progress func(string)) error {
	prog, err := x.finder().Locate()
	if err != nil {
		return fmt.Errorf("rarextract extract %w", err)
	}
	src, dst := x.Source, x.Destination
	if src == "" {
		return fmt.Errorf("rarextract extract %w", ErrSource)
	}
	if dst == "" {
		return fmt.Errorf("rarextract extract %w", ErrDest)
	}
	logger := x.logger().With("run", uuid.NewString())

	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("rarextract extract pipe %w", err)
	}
	defer r.Close()

	cmd := exec.CommandContext(ctx, prog, command.Args(src, dst)...)
	cmd.Stdout = w
	cmd.Stderr = w
	group(cmd)
	logger.Info("run unrar", "program", prog, "source", src, "destination", dst)
	if err := cmd.Start(); err != nil {
		w.Close()
		logger.Error("unrar did not start", "program", prog, "error", err)
		return fmt.Errorf("rarextract extract %w", &SpawnError{Path: prog, Err: err})
	}
	// the child holds its own copy of the write end,
	// so the read end sees EOF once the child exits
	w.Close()

	done := make(chan error, 1)
	go func() {
		done <- relay(r, progress)
	}()
	errWait := cmd.Wait()
	if ctx.Err() != nil {
		// a process outside the group may still hold the write end
		r.Close()
	}
	if err := <-done; err != nil && ctx.Err() == nil {
		logger.Warn("unrar output could not be read", "error", err)
	}

	if err := ctx.Err(); err != nil {
		logger.Info("unrar was cancelled", "error", err)
		return fmt.Errorf("rarextract extract %w", err)
	}
	if errWait != nil {
		var exit *exec.ExitError
		if errors.As(errWait, &exit) {
			e := &ExitError{Code: exit.ExitCode(), Signal: signaled(exit.ProcessState)}
			logger.Error("unrar failed", "code", e.Code, "signal", e.Signal)
			return fmt.Errorf("rarextract extract %w", e)
		}
		return fmt.Errorf("rarextract extract wait %w", errWait)
	}
	logger.Info("unrar finished", "destination", dst)
	return nil
}

// relay reads r until EOF and passes each non-empty chunk of text to the progress func.
// Invalid UTF-8 is replaced and a multi-byte character split between two reads
// is held back until it is complete.
func relay(r io.Reader, progress func(string)) error {
	const size = 4 * 1024
	buf := make([]byte, size)
	text := transform.NewReader(r, unicode.UTF8.NewDecoder())
	for {
		n, err := text.Read(buf)
		if n > 0 && progress != nil {
			progress(string(buf[:n]))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (x Extractor) finder() Finder {
	if x.Finder == nil {
		l := NewLocator()
		l.Logger = x.Logger
		return l
	}
	return x.Finder
}

func (x Extractor) logger() *slog.Logger {
	if x.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return x.Logger
}

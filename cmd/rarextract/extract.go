package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Defacto2/helper"
	"github.com/Defacto2/rarextract"
	"github.com/Defacto2/rarextract/internal/lock"
	"github.com/Defacto2/rarextract/internal/logging"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type extractOptions struct {
	quiet  bool
	reveal bool
	finder rarextract.Finder // finder replaces the default locator in tests
}

func addExtractFlags(cmd *cobra.Command, opts *extractOptions) {
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not show the unrar progress")
	cmd.Flags().BoolVar(&opts.reveal, "reveal", false, "Open the destination directory after a successful extraction")
}

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	return newExtractCmd(&extractOptions{})
}

func newExtractCmd(opts *extractOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <archive>...",
		Short: "Extract one or more RAR archives",
		Long: `Extract each RAR archive into a directory next to it named after the archive.
The archives are extracted one at a time, and unrar answers yes to all of its
questions, so existing files in the destination are overwritten.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts, args)
		},
	}
	addExtractFlags(cmd, opts)
	return cmd
}

// runExtract extracts every archive in args and returns the first error.
// Each result is printed as it happens.
func runExtract(cmd *cobra.Command, opts *extractOptions, args []string) error {
	logger, c, err := newLogger(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	var first error
	for _, src := range args {
		fmt.Fprintf(out, "Extracting %s...\n", filepath.Base(src))
		err := extract(ctx, cmd.ErrOrStderr(), logger, c.LockDir, opts, src)
		fmt.Fprintln(out, rarextract.Message(err))
		if err != nil && first == nil {
			first = err
		}
	}
	if first != nil {
		return &reportedError{err: first}
	}
	return nil
}

func extract(ctx context.Context, stderr io.Writer, logger *slog.Logger,
	lockDir string, opts *extractOptions, src string,
) error {
	x, err := rarextract.Prepare(src)
	if err != nil {
		return err
	}
	x.Logger = logger
	if opts.finder != nil {
		x.Finder = opts.finder
	}

	lk, err := lock.Acquire(lockDir, x.Destination)
	if err != nil {
		return err
	}
	defer func() {
		if err := lk.Release(); err != nil {
			logger.Warn("destination lock was not released", "error", err)
		}
	}()

	if n, err := helper.Count(x.Destination); err == nil && n > 0 {
		logger.Warn("destination is not empty, existing files may be overwritten",
			"destination", x.Destination, "files", n)
	}

	ind := newIndicator(stderr, !opts.quiet && logging.Terminal(stderr))
	for e := range x.Stream(ctx) {
		switch e.Kind {
		case rarextract.Started:
			ind.describe("Starting...")
		case rarextract.Progress:
			ind.describe(statusLine(e.Text))
		case rarextract.Completed:
			ind.finish()
			err = e.Err
		}
	}
	if err != nil {
		return err
	}
	if opts.reveal {
		if err := reveal(x.Destination); err != nil {
			logger.Warn("destination could not be opened", "destination", x.Destination, "error", err)
		}
	}
	return nil
}

// indicator shows a spinner with the latest unrar status line.
// The zero value shows nothing.
type indicator struct {
	bar *progressbar.ProgressBar
}

func newIndicator(w io.Writer, show bool) *indicator {
	if !show {
		return &indicator{}
	}
	const spinner = 14
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSpinnerType(spinner),
		progressbar.OptionClearOnFinish(),
	)
	return &indicator{bar: bar}
}

func (i *indicator) describe(s string) {
	if i.bar == nil {
		return
	}
	if s != "" {
		i.bar.Describe(s)
	}
	_ = i.bar.Add(1)
}

func (i *indicator) finish() {
	if i.bar == nil {
		return
	}
	_ = i.bar.Finish()
}

// statusLine returns the last non-empty line of an unrar output chunk.
// Backspace and carriage return move the cursor as they would in a terminal,
// unrar uses them to redraw the percentage of the file being extracted.
func statusLine(chunk string) string {
	var lines []string
	var line []rune
	pos := 0
	flush := func() {
		lines = append(lines, string(line))
		line, pos = line[:0], 0
	}
	for _, r := range chunk {
		switch r {
		case '\n':
			flush()
		case '\r':
			pos = 0
		case '\b':
			if pos > 0 {
				pos--
			}
		default:
			if pos < len(line) {
				line[pos] = r
			} else {
				line = append(line, r)
			}
			pos++
		}
	}
	flush()
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.Join(strings.Fields(lines[i]), " "); s != "" {
			return s
		}
	}
	return ""
}

var errReveal = errors.New("no program to open directories on this system")

// reveal opens the dir with the desktop file manager.
func reveal(dir string) error {
	name := "xdg-open"
	if runtime.GOOS == "darwin" {
		name = "open"
	}
	prog, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%w: %w", errReveal, err)
	}
	cmd := exec.Command(prog, dir)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("reveal %s: %w", name, err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// Package logging builds the slog loggers used by the rarextract command.
//
// Logs are written as text when the output is a terminal and as JSON
// otherwise, unless a format is requested.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	FormatAuto = "auto" // FormatAuto uses text for a terminal and JSON for anything else.
	FormatJSON = "json" // FormatJSON writes one JSON object per record.
	FormatText = "text" // FormatText writes key=value records.
)

var (
	ErrFormat = errors.New("unsupported log format")
	ErrLevel  = errors.New("unsupported log level")
)

// Options describes logger construction parameters.
type Options struct {
	Level  string    // Level is debug, info, warn or error, the default is info.
	Format string    // Format is auto, text or json, the default is auto.
	Writer io.Writer // Writer is the log output, the default is os.Stderr.
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	hopts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" || format == FormatAuto {
		format = FormatJSON
		if Terminal(w) {
			format = FormatText
		}
	}
	switch format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	case FormatText:
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	}
	return nil, fmt.Errorf("log format %w: %q", ErrFormat, opts.Format)
}

// ParseLevel returns the slog level of the named level.
// An empty name is the info level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log level %w: %q", ErrLevel, name)
}

// Terminal returns true if w is a terminal.
func Terminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

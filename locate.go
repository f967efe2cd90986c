package rarextract

// Package file locate.go contains the unrar program search.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Defacto2/rarextract/command"
)

var errEmpty = errors.New("no path was returned")

// Finder returns the absolute path of the unrar program,
// or an error matching ErrNotFound when there is none.
type Finder interface {
	Locate() (string, error)
}

// Tier is a step in the unrar program search order.
type Tier uint

const (
	Bundled      Tier = iota + 1 // Bundled is a copy packaged with the application.
	Conventional                 // Conventional are the Homebrew and system install paths.
	Lookup                       // Lookup is the which command using the PATH.
)

func (t Tier) String() string {
	switch t {
	case Bundled:
		return "bundled"
	case Conventional:
		return "conventional"
	case Lookup:
		return "which"
	}
	return fmt.Sprintf("tier(%d)", uint(t))
}

// Locator searches for the unrar program. The tiers are searched in order
// and the first existing file is returned, the remaining tiers are never consulted.
// The result is never cached, every call to Locate repeats the search.
//
//	func Find() {
//	    path, err := rarextract.NewLocator().Locate()
//	    if errors.Is(err, rarextract.ErrNotFound) {
//	        fmt.Fprintln(os.Stderr, "please install unrar")
//	        return
//	    }
//	    fmt.Println(path)
//	}
type Locator struct {
	Name    string   // Name of the program, when empty command.Unrar is used.
	Bundled []string // Bundled are directories that may hold a copy packaged with the application.
	Paths   []string // Paths are the conventional install locations of the program.
	Which   string   // Which is the PATH lookup program, when empty the lookup is skipped.

	// DegradeSilently treats any failure of the Which lookup,
	// including a failure to run it, as the program not being found.
	// When false the failure is returned wrapped in ErrLookup.
	DegradeSilently bool

	Logger *slog.Logger // Logger is optional.
}

// NewLocator returns the default Locator for the unrar program.
func NewLocator() Locator {
	return Locator{
		Name:            command.Unrar,
		Bundled:         bundleDirs(),
		Paths:           command.Paths(),
		Which:           command.Which,
		DegradeSilently: true,
	}
}

// bundleDirs returns the directory of the running executable and,
// for a macOS application package, its Contents/Resources directory.
func bundleDirs() []string {
	exe, err := os.Executable()
	if err != nil {
		return nil
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)
	return []string{dir, filepath.Join(dir, command.Resources)}
}

// Locate returns the path of the first unrar program found in the search order.
func (l Locator) Locate() (string, error) {
	name := l.name()
	logger := l.logger()
	for _, dir := range l.Bundled {
		path := filepath.Join(dir, name)
		if exists(path) {
			logger.Debug("found bundled program", "path", path)
			return path, nil
		}
	}
	for _, path := range l.Paths {
		if exists(path) {
			logger.Debug("found installed program", "path", path)
			return path, nil
		}
	}
	if l.Which == "" {
		return "", fmt.Errorf("rarextract locate %w: %s", ErrNotFound, name)
	}
	path, err := l.which(name)
	if err != nil {
		if l.DegradeSilently {
			logger.Debug("which lookup found nothing", "program", name, "error", err)
			return "", fmt.Errorf("rarextract locate %w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("rarextract locate %w, %w: %w", ErrNotFound, ErrLookup, err)
	}
	logger.Debug("found program in the path", "path", path)
	return path, nil
}

// which runs the Which program to find the named program in the PATH.
// Only the standard output is read and its whitespace is trimmed.
func (l Locator) which(name string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), TimeoutLookup)
	defer cancel()
	cmd := exec.CommandContext(ctx, l.Which, name)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", l.Which, name, err)
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", fmt.Errorf("%s %s: %w", l.Which, name, errEmpty)
	}
	if !exists(path) {
		return "", fmt.Errorf("%s %s: %w: %s", l.Which, name, ErrMissing, path)
	}
	return path, nil
}

// Candidate is a possible location of the unrar program.
type Candidate struct {
	Tier       Tier   // Tier is the search step of the path.
	Path       string // Path is the location checked, it is empty when the lookup found nothing.
	Exists     bool   // Exists is true if Path is an existing file.
	Executable bool   // Executable is true if Path can be run by the current user.
}

// Candidates returns every location checked by Locate, in the search order,
// without stopping at the first match. The Which lookup result is included
// whenever it returns a path.
func (l Locator) Candidates() []Candidate {
	name := l.name()
	var cs []Candidate
	add := func(tier Tier, path string) {
		ok := exists(path)
		cs = append(cs, Candidate{
			Tier:       tier,
			Path:       path,
			Exists:     ok,
			Executable: ok && executable(path),
		})
	}
	for _, dir := range l.Bundled {
		add(Bundled, filepath.Join(dir, name))
	}
	for _, path := range l.Paths {
		add(Conventional, path)
	}
	if l.Which == "" {
		return cs
	}
	path, err := l.which(name)
	if err != nil {
		cs = append(cs, Candidate{Tier: Lookup})
		return cs
	}
	add(Lookup, path)
	return cs
}

func (l Locator) name() string {
	if l.Name == "" {
		return command.Unrar
	}
	return l.Name
}

func (l Locator) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}

// exists returns true if the named path is an existing file that is not a directory.
func exists(name string) bool {
	st, err := os.Stat(name)
	if err != nil {
		return false
	}
	return !st.IsDir()
}

package rarextract

// Package file prepare.go contains the checks a caller makes before running an extraction.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Defacto2/magicnumber"
)

// DirMode is the file mode used to create a destination directory.
const DirMode os.FileMode = 0o755

// IsRar returns true if the named file has a RAR archive signature,
// either the RAR 1.5 to 4 format or the RAR 5 format.
// The filename extension is ignored.
func IsRar(name string) (bool, error) {
	r, err := os.Open(name)
	if err != nil {
		return false, fmt.Errorf("rarextract is rar open %w", err)
	}
	defer r.Close()
	sign, err := magicnumber.Archive(r)
	if err != nil {
		return false, fmt.Errorf("rarextract is rar magic %w", err)
	}
	switch sign { //nolint:exhaustive
	case magicnumber.RoshalARchive, magicnumber.RoshalARchivev5:
		return true, nil
	}
	return false, nil
}

// Destination returns the directory path to extract the src archive into.
// It is a sibling of the archive named after it without the file extension,
// so "/home/user/GAME.RAR" returns "/home/user/GAME".
//
// When removing the extension leaves nothing or does not change the name,
// an "_extracted" suffix is appended so the directory never shares the archive path.
func Destination(src string) string {
	const suffix = "_extracted"
	dir, name := filepath.Split(filepath.Clean(src))
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" || base == name {
		base = name + suffix
	}
	return filepath.Join(dir, base)
}

// Prepare returns an Extractor for the src archive. The src must be an existing
// RAR archive and its Destination directory is created if it does not exist.
//
// A destination that cannot be created returns an error matching ErrDirectory.
func Prepare(src string) (Extractor, error) {
	if src == "" {
		return Extractor{}, fmt.Errorf("rarextract prepare %w", ErrSource)
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return Extractor{}, fmt.Errorf("rarextract prepare abs %w", err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return Extractor{}, fmt.Errorf("rarextract prepare %w: %s", ErrMissing, abs)
	}
	if st.IsDir() {
		return Extractor{}, fmt.Errorf("rarextract prepare %w: %s", ErrFile, abs)
	}
	ok, err := IsRar(abs)
	if err != nil {
		return Extractor{}, fmt.Errorf("rarextract prepare %w", err)
	}
	if !ok {
		return Extractor{}, fmt.Errorf("rarextract prepare %w: %s", ErrNotRar, filepath.Base(abs))
	}
	dst := Destination(abs)
	if err := os.MkdirAll(dst, DirMode); err != nil {
		return Extractor{}, fmt.Errorf("rarextract prepare %w: %w", ErrDirectory, err)
	}
	return Extractor{Source: abs, Destination: dst}, nil
}

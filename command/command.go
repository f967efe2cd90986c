// Package command lists the unrar program name, its known install locations
// and the arguments used to extract an archive.
package command

// A note about unrar: On Linux there are incompatible variants of unrar.
// The common unrar-free application is incomplete and is incompatible with many
// .rar files, so the freeware unrar by Alexander Roshal should be installed.
//
// On macOS the program is usually installed with Homebrew, "brew install unrar",
// which places it in /opt/homebrew/bin on Apple Silicon and /usr/local/bin on Intel.

const (
	Unrar = "unrar"          // Unrar is the rar decompression command.
	Which = "/usr/bin/which" // Which is the program used to find a command in the PATH.

	// Resources is the directory, relative to the executable, that holds
	// bundled programs in a macOS application package.
	Resources = "../Resources"
)

const (
	eXtract = "x"  // x extract files with full path
	yes     = "-y" // -y assume yes to all queries
)

// Paths returns the conventional unrar install locations in search order.
func Paths() []string {
	return []string{
		"/opt/homebrew/bin/" + Unrar, // Apple Silicon Homebrew
		"/usr/local/bin/" + Unrar,    // Intel Homebrew and manual installs
		"/usr/bin/" + Unrar,          // system package managers
	}
}

// Args returns the unrar arguments to extract the src archive with
// full paths into the dst directory, answering yes to all queries.
func Args(src, dst string) []string {
	return []string{eXtract, yes, src, dst}
}

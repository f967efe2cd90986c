package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set with -ldflags "-X main.version=v1.2.3", otherwise the module version is used.
var version string

// build returns the version and the short VCS revision of the binary.
func build() (string, string) {
	ver, rev := version, "unknown"
	info, ok := debug.ReadBuildInfo()
	if ok {
		if ver == "" {
			ver = info.Main.Version
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				rev = s.Value[:min(len(s.Value), 7)]
			}
		}
	}
	if ver == "" {
		ver = "(devel)"
	}
	return ver, rev
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and commit of rarextract",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			ver, rev := build()
			fmt.Fprintf(cmd.OutOrStdout(), "rarextract %s (commit %s)\n", ver, rev)
		},
	}
}

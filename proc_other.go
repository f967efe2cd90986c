//go:build !unix

package rarextract

import (
	"os"
	"os/exec"
)

func group(*exec.Cmd) {}

func signaled(*os.ProcessState) string { return "" }

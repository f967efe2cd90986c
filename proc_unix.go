//go:build unix

package rarextract

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// group runs the cmd in a new process group and kills the whole group on cancel,
// so programs started by unrar do not outlive it.
func group(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
}

// signaled returns the name of the signal that terminated the process, if any.
func signaled(state *os.ProcessState) string {
	if state == nil {
		return ""
	}
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return ""
	}
	return ws.Signal().String()
}

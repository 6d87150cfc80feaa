//go:build !windows

package handoff

import (
	"os/exec"
	"syscall"
)

// setCmdLine is a no-op: argv was already split from the line.
func setCmdLine(*exec.Cmd, string) {}

// setDetachedProcAttr runs the child in a new session so it survives the
// launcher exiting.
func setDetachedProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}

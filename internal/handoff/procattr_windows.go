package handoff

import (
	"os/exec"
	"syscall"
)

// setCmdLine passes line to CreateProcess untouched so the child sees the
// exact quoting we built.
func setCmdLine(cmd *exec.Cmd, line string) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CmdLine = line
}

// setDetachedProcAttr puts the child in its own process group so it
// outlives the launcher.
func setDetachedProcAttr(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= syscall.CREATE_NEW_PROCESS_GROUP
}

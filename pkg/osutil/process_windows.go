//go:build windows

// Package osutil holds platform specific process handling for command steps.
package osutil

import (
	"os"
	"os/exec"
	"syscall"
)

// KillTreeOnCancel starts cmd in a new process group and kills it on
// context cancellation. Windows has no Unix-style process groups, so
// children of cmd may keep running.
func KillTreeOnCancel(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Kill)
	}
	cmd.WaitDelay = WaitDelay
}

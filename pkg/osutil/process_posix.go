//go:build unix

// Package osutil holds platform specific process handling for command steps.
package osutil

import (
	"os/exec"
	"syscall"
)

// KillTreeOnCancel runs cmd in its own process group and makes context
// cancellation kill the whole group, so background children of a shell
// step cannot outlive it or hold its output pipe open.
// Must be called before cmd.Start().
func KillTreeOnCancel(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = WaitDelay
}

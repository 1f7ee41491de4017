//go:build !windows

package core

import (
	"errors"
	"os/exec"
	"syscall"
)

// setProcAttr puts the child in its own process group so the shell and the
// node processes it forks can be signalled together.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateTree sends SIGTERM to the process group led by pid.
func terminateTree(pid int) error {
	return signalGroup(pid, syscall.SIGTERM)
}

// killTree sends SIGKILL to the process group led by pid.
func killTree(pid int) error {
	return signalGroup(pid, syscall.SIGKILL)
}

func signalGroup(pid int, sig syscall.Signal) error {
	err := syscall.Kill(-pid, sig)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}

//go:build windows

package core

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"syscall"
)

// createNoWindow keeps cmd.exe from flashing a console window.
const createNoWindow = 0x08000000

func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: createNoWindow,
	}
}

// terminateTree ends pid and every process it started. Windowless console
// processes ignore a polite taskkill, so this is forceful as well.
func terminateTree(pid int) error {
	return taskkillTree(pid)
}

func killTree(pid int) error {
	return taskkillTree(pid)
}

func taskkillTree(pid int) error {
	cmd := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid))
	setProcAttr(cmd)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("taskkill failed: %w, output: %s", err, out.String())
	}
	return nil
}

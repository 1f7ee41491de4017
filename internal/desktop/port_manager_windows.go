//go:build windows

package desktop

import (
	"bytes"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"syscall"
)

// CheckPortOccupied returns the PID listening on port, or -1 when free.
func CheckPortOccupied(port int) (int, error) {
	pid, err := getPIDByPort(port)
	if err != nil {
		return -1, fmt.Errorf("failed to check port: %w", err)
	}
	return pid, nil
}

// TerminateProcessByPort kills the process tree listening on port.
func TerminateProcessByPort(port int) error {
	pid, err := getPIDByPort(port)
	if err != nil {
		return err
	}

	if pid == -1 {
		log.Printf("[PortManager] Port %d is free, nothing to terminate", port)
		return nil
	}

	log.Printf("[PortManager] Port %d held by PID %d, terminating...", port, pid)

	cmd := hiddenCommand("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid))
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to terminate process: %w, output: %s", err, out.String())
	}

	log.Printf("[PortManager] Terminated PID %d (port %d)", pid, port)
	return nil
}

// getPIDByPort returns the PID listening on port, -1 when free.
func getPIDByPort(port int) (int, error) {
	cmd := hiddenCommand("netstat", "-ano", "-p", "TCP")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return -1, fmt.Errorf("failed to run netstat: %w", err)
	}

	return parseNetstatPID(out.String(), port), nil
}

func hiddenCommand(name string, args ...string) *exec.Cmd {
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	return cmd
}

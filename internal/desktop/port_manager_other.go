//go:build !windows

package desktop

import (
	"bytes"
	"errors"
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

// TerminateProcessByPort sends SIGTERM to the process listening on port.
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
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("failed to terminate PID %d: %w", pid, err)
	}

	log.Printf("[PortManager] Terminated PID %d (port %d)", pid, port)
	return nil
}

// getPIDByPort asks lsof for the listener on port.
func getPIDByPort(port int) (int, error) {
	cmd := exec.Command("lsof", "-t", "-iTCP:"+strconv.Itoa(port), "-sTCP:LISTEN")
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		// lsof exits 1 when nothing matches.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && out.Len() == 0 {
			return -1, nil
		}
		return -1, fmt.Errorf("failed to run lsof: %w", err)
	}

	return parseLsofPID(out.String()), nil
}

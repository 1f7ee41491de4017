package desktop

import (
	"strconv"
	"strings"
)

// parseNetstatPID finds the PID listening on port in `netstat -ano` output.
// It returns -1 when no line matches.
func parseNetstatPID(output string, port int) int {
	want := strconv.Itoa(port)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		localAddr := fields[1]
		pidStr := fields[len(fields)-1]

		lastColonIdx := strings.LastIndex(localAddr, ":")
		if lastColonIdx == -1 {
			continue
		}
		if localAddr[lastColonIdx+1:] != want {
			continue
		}
		// Listening sockets have no remote peer; the state column is localized.
		if !strings.HasSuffix(fields[2], ":0") {
			continue
		}

		pid, err := strconv.Atoi(pidStr)
		if err != nil || pid <= 0 {
			continue
		}
		return pid
	}
	return -1
}

// parseLsofPID reads the first PID from `lsof -t` output, -1 when empty.
func parseLsofPID(output string) int {
	for _, line := range strings.Split(output, "\n") {
		pid, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && pid > 0 {
			return pid
		}
	}
	return -1
}

package core

import (
	"os"
	"strconv"
	"strings"
)

// PortEnv is set on the child so an inherited PORT cannot move the server.
const PortEnv = "PORT"

// CommandLine appends the port pin to startCommand, producing e.g.
// "npm run start -- -p 3004".
func CommandLine(startCommand string, port int) string {
	return strings.TrimSpace(startCommand) + " -- -p " + strconv.Itoa(port)
}

// ShellCommand wraps line in the platform command interpreter for goos.
func ShellCommand(goos, line string) (name string, args []string) {
	if goos == "windows" {
		return "cmd", []string{"/C", line}
	}
	return "sh", []string{"-c", line}
}

// ServerEnv returns base with any PORT entry replaced by port.
func ServerEnv(base []string, port int) []string {
	env := make([]string, 0, len(base)+1)
	for _, kv := range base {
		if strings.HasPrefix(kv, PortEnv+"=") {
			continue
		}
		env = append(env, kv)
	}
	return append(env, PortEnv+"="+strconv.Itoa(port))
}

// NewProcessConfig builds the process description for the web server.
func NewProcessConfig(goos, startCommand string, port int, dir string) *ProcessConfig {
	line := CommandLine(startCommand, port)
	name, args := ShellCommand(goos, line)
	return &ProcessConfig{
		Name: name,
		Args: args,
		Dir:  dir,
		Env:  ServerEnv(os.Environ(), port),
		Port: port,
		Line: line,
	}
}

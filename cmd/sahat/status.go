package main

import (
	"fmt"
	"io"
	"time"

	"github.com/sahat-almajd/desktop/internal/config"
	"github.com/sahat-almajd/desktop/internal/core"
	"github.com/sahat-almajd/desktop/internal/desktop"
	"github.com/spf13/cobra"
)

// statusDialTimeout bounds the port check.
const statusDialTimeout = time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the recorded server run and whether its port answers",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	state, err := core.LoadState(cfg.StatePath())
	if err != nil {
		return err
	}
	listening := core.IsListening(cfg.Addr(), statusDialTimeout)

	holder := -1
	if listening {
		pid, err := desktop.CheckPortOccupied(cfg.Port)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		holder = pid
	}
	printStatus(cmd.OutOrStdout(), cfg, state, listening, holder, time.Now())
	return nil
}

// printStatus renders the port state and the recorded run. holder is the
// PID listening on the port, -1 when unknown.
func printStatus(w io.Writer, cfg *config.Config, state *core.RunState, listening bool, holder int, now time.Time) {
	portState := "closed"
	if listening {
		portState = "listening"
		if holder > 0 {
			portState = fmt.Sprintf("listening, pid %d", holder)
		}
	}
	fmt.Fprintf(w, "address: %s (%s)\n", cfg.ServerURL(), portState)

	if state == nil {
		fmt.Fprintln(w, "run:     none recorded")
		return
	}
	fmt.Fprintf(w, "run:     %s\n", state.RunID)
	fmt.Fprintf(w, "pid:     %d\n", state.PID)
	fmt.Fprintf(w, "root:    %s\n", state.Root)
	fmt.Fprintf(w, "command: %s\n", state.Command)
	fmt.Fprintf(w, "uptime:  %s\n", formatAge(state.StartedAt, now))
}

// formatAge renders the time since t compactly.
func formatAge(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/sahat-almajd/desktop/internal/core"
	"github.com/spf13/cobra"
)

var commandCmd = &cobra.Command{
	Use:   "command",
	Short: "Print the server command and its working directory",
	Args:  cobra.NoArgs,
	RunE:  runCommand,
}

func init() {
	rootCmd.AddCommand(commandCmd)
}

func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	root, err := resolveRoot(cfg)
	if err != nil {
		return err
	}

	pc := core.NewProcessConfig(runtime.GOOS, cfg.StartCommand, cfg.Port, root)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "dir:     %s\n", pc.Dir)
	fmt.Fprintf(out, "command: %s %s\n", pc.Name, quoteArgs(pc.Args))
	fmt.Fprintf(out, "url:     %s\n", cfg.ServerURL())
	return nil
}

// quoteArgs renders args the way a user would type them.
func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if strings.ContainsAny(a, " \t\"") {
			quoted[i] = fmt.Sprintf("%q", a)
		} else {
			quoted[i] = a
		}
	}
	return strings.Join(quoted, " ")
}

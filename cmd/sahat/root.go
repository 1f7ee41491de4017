package main

import (
	"fmt"
	"os"

	"github.com/sahat-almajd/desktop/internal/config"
	"github.com/sahat-almajd/desktop/internal/desktop"
	"github.com/sahat-almajd/desktop/internal/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dataDir    string
	rootDir    string
	port       int
)

var rootCmd = &cobra.Command{
	Use:   "sahat",
	Short: "Run the Sahat web server without the desktop window",
	Long: `sahat starts and inspects the background web server the desktop
application launches on startup. It reads the same configuration file
(<data dir>/sahat.yaml) and run state as the desktop shell.`,
	Example: `  sahat serve                 # Start the server and wait for Ctrl+C
  sahat command               # Show the command the launcher would run
  sahat status                # Show the recorded run and port state`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <data dir>/sahat.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Data directory (default: $SAHAT_DATA_DIR or ~/.config/sahat)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Application root the server is started from")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "Override the server port")

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version.Full()
	rootCmd.SetVersionTemplate(version.AppName + " {{.Version}}\n")
	return rootCmd.Execute()
}

// loadConfig applies CLI flags on top of the file and env configuration.
func loadConfig() (*config.Config, error) {
	dir := config.ResolveDataDir(dataDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	cfg, err := config.Load(dir, configPath)
	if err != nil {
		return nil, err
	}
	if rootDir != "" {
		cfg.WorkingDir = rootDir
	}
	if port != 0 {
		cfg.Port = port
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// resolveRoot returns the directory the server command runs in.
func resolveRoot(cfg *config.Config) (string, error) {
	return desktop.AppRoot(cfg.WorkingDir)
}

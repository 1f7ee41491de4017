package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sahat-almajd/desktop/internal/core"
	"github.com/sahat-almajd/desktop/internal/logfile"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server in the foreground",
	Long: `Starts the web server the way the desktop shell does, waits until its
port answers, and stops the whole process tree on Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if closer, err := logfile.Setup(cfg.LogPath()); err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
	} else {
		defer closer.Close()
	}

	root, err := resolveRoot(cfg)
	if err != nil {
		return err
	}

	if core.IsListening(cfg.Addr(), statusDialTimeout) {
		return fmt.Errorf("port %d is already in use", cfg.Port)
	}

	pc := core.NewProcessConfig(runtime.GOOS, cfg.StartCommand, cfg.Port, root)
	pc.Output = os.Stdout
	server := core.NewServerProcess(pc, nil)
	server.OnStarted = func(st core.ProcessStatus) {
		if err := core.SaveState(cfg.StatePath(), core.NewRunState(pc, st)); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	if err := server.Start(); err != nil {
		return err
	}
	defer func() {
		if err := core.ClearState(cfg.StatePath()); err != nil {
			log.Printf("Warning: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		waitCtx, cancel := context.WithTimeout(ctx, cfg.ReadyTimeout)
		defer cancel()
		if _, err := core.WaitReady(waitCtx, cfg.Addr(), cfg.ProbeInterval, server.Err); err != nil {
			log.Printf("[Serve] Warning: %v", err)
			return
		}
		log.Printf("[Serve] Ready at %s", cfg.ServerURL())
	}()

	select {
	case <-ctx.Done():
		log.Printf("[Serve] Shutting down...")
		return server.Stop(context.Background())
	case <-server.Exited():
		if err := server.Err(); err != nil {
			return err
		}
		log.Printf("[Serve] Server exited")
		return nil
	}
}

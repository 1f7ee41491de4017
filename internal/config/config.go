package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is the port the background web server is pinned to.
	DefaultPort = 3004
	// DefaultHost is the host the window and the readiness probe connect to.
	DefaultHost = "localhost"
	// DefaultStartCommand starts the web application from its project root.
	DefaultStartCommand = "npm run start"

	DefaultReadyTimeout  = 90 * time.Second
	DefaultProbeInterval = 500 * time.Millisecond

	// FileName is the optional config file looked up in the data directory.
	FileName = "sahat.yaml"

	// EnvDataDir overrides the data directory.
	EnvDataDir = "SAHAT_DATA_DIR"
	// EnvRoot overrides the application root the server is started from.
	EnvRoot = "SAHAT_ROOT"
)

// WindowConfig describes the native window.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	MinWidth   int    `yaml:"min_width"`
	MinHeight  int    `yaml:"min_height"`
	HideToTray bool   `yaml:"hide_to_tray"`
	Tray       bool   `yaml:"tray"`
	Debug      bool   `yaml:"debug"`
}

// Config holds everything the launcher and the window shell need.
type Config struct {
	Port             int           `yaml:"port"`
	Host             string        `yaml:"host"`
	StartCommand     string        `yaml:"start_command"`
	WorkingDir       string        `yaml:"working_directory"`
	ReadyTimeout     time.Duration `yaml:"ready_timeout"`
	ProbeInterval    time.Duration `yaml:"probe_interval"`
	ReclaimPort      bool          `yaml:"reclaim_port"`
	KeepServerOnExit bool          `yaml:"keep_server_on_exit"`
	LogServerOutput  bool          `yaml:"log_server_output"`
	Window           WindowConfig  `yaml:"window"`

	// DataDir is resolved at load time and never read from the file.
	DataDir string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:            DefaultPort,
		Host:            DefaultHost,
		StartCommand:    DefaultStartCommand,
		ReadyTimeout:    DefaultReadyTimeout,
		ProbeInterval:   DefaultProbeInterval,
		LogServerOutput: true,
		Window: WindowConfig{
			Title:     "ساحات المجد - نظام إدارة المخزون",
			Width:     1400,
			Height:    900,
			MinWidth:  800,
			MinHeight: 600,
			Tray:      true,
		},
	}
}

// DefaultDataDir returns the default data directory path (~/.config/sahat)
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir is unavailable
		return "."
	}
	return filepath.Join(homeDir, ".config", "sahat")
}

// ResolveDataDir picks the data directory: CLI flag > env var > default
func ResolveDataDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envDataDir := os.Getenv(EnvDataDir); envDataDir != "" {
		return envDataDir
	}
	return DefaultDataDir()
}

// Load builds the configuration for dataDir. When path is empty the optional
// file <dataDir>/sahat.yaml is used; a missing optional file is not an error,
// a missing explicit file is.
func Load(dataDir, path string) (*Config, error) {
	cfg := Default()
	cfg.DataDir = dataDir

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dataDir, FileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		log.Printf("[Config] Loaded %s", path)
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if envRoot := os.Getenv(EnvRoot); envRoot != "" && cfg.WorkingDir == "" {
		cfg.WorkingDir = envRoot
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Port == 0 {
		c.Port = def.Port
	}
	if strings.TrimSpace(c.Host) == "" {
		c.Host = def.Host
	}
	if strings.TrimSpace(c.StartCommand) == "" {
		c.StartCommand = def.StartCommand
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = def.ReadyTimeout
	}
	if c.ProbeInterval <= 0 {
		c.ProbeInterval = def.ProbeInterval
	}
	if c.Window.Title == "" {
		c.Window.Title = def.Window.Title
	}
	if c.Window.Width <= 0 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = def.Window.Height
	}
	if c.Window.MinWidth <= 0 {
		c.Window.MinWidth = def.Window.MinWidth
	}
	if c.Window.MinHeight <= 0 {
		c.Window.MinHeight = def.Window.MinHeight
	}
}

// Validate checks the values that would otherwise fail much later.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	if c.Window.MinWidth > c.Window.Width || c.Window.MinHeight > c.Window.Height {
		return fmt.Errorf("invalid window size %dx%d: smaller than minimum %dx%d",
			c.Window.Width, c.Window.Height, c.Window.MinWidth, c.Window.MinHeight)
	}
	return nil
}

// Addr returns host:port for the background server.
func (c *Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// ServerURL returns the address the window loads once the server is ready.
func (c *Config) ServerURL() string {
	return "http://" + c.Addr()
}

// StatePath returns the path of the run-state file.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "run.json")
}

// LogPath returns the path of the launcher log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "launcher.log")
}

// ServerLogPath returns the path the child's output is appended to.
func (c *Config) ServerLogPath() string {
	return filepath.Join(c.DataDir, "server.log")
}

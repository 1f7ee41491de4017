// Package logfile tees the standard logger to a file next to stdout.
package logfile

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Writer writes every log line to the console and to an append-only file.
type Writer struct {
	console io.Writer
	file    *os.File
}

// NewWriter opens path for appending.
func NewWriter(console io.Writer, path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &Writer{console: console, file: f}, nil
}

// Write never fails because of the console; a GUI build on Windows has no
// attached console and stdout writes return errors there.
func (w *Writer) Write(p []byte) (int, error) {
	if w.console != nil {
		w.console.Write(p)
	}
	return w.file.Write(p)
}

// Close closes the file.
func (w *Writer) Close() error {
	return w.file.Close()
}

// Setup points the standard logger at stdout and path. On failure the
// logger keeps writing to stderr and the error is returned.
func Setup(path string) (io.Closer, error) {
	w, err := NewWriter(os.Stdout, path)
	if err != nil {
		return nil, err
	}
	log.SetOutput(w)
	return w, nil
}

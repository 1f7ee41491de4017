package desktop

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// ManifestDir is the directory holding the desktop shell's build manifest.
// Release builds set it with
// -ldflags "-X github.com/sahat-almajd/desktop/internal/desktop.ManifestDir=...".
// When empty, it is derived from the running executable's location, see
// manifestDirFor.
var ManifestDir = ""

// ErrNoRoot is returned when the manifest directory has no parent.
var ErrNoRoot = errors.New("application root not found")

// ResolveRoot returns the application root for manifestDir: its parent
// directory. The result depends only on the argument.
func ResolveRoot(manifestDir string) (string, error) {
	if manifestDir == "" {
		return "", fmt.Errorf("%w: empty manifest directory", ErrNoRoot)
	}
	abs, err := filepath.Abs(manifestDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoRoot, err)
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return "", fmt.Errorf("%w: %s has no parent", ErrNoRoot, abs)
	}
	return parent, nil
}

var defaultRoot = sync.OnceValues(func() (string, error) {
	dir := ManifestDir
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoRoot, err)
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir = manifestDirFor(filepath.Dir(exe))
		log.Printf("[Launcher] Warning: ManifestDir not set at build time, assuming %s", dir)
	}
	return ResolveRoot(dir)
})

// manifestDirFor maps the executable's directory to the desktop project
// directory. wails build writes binaries to <project>/build/bin; any other
// layout is taken to be the project directory itself.
func manifestDirFor(exeDir string) string {
	clean := filepath.Clean(exeDir)
	buildDir := filepath.Dir(clean)
	if filepath.Base(clean) == "bin" && filepath.Base(buildDir) == "build" {
		return filepath.Dir(buildDir)
	}
	return clean
}

// DefaultRoot resolves the application root once per process.
func DefaultRoot() (string, error) {
	return defaultRoot()
}

// AppRoot returns workingDir when set, otherwise DefaultRoot.
func AppRoot(workingDir string) (string, error) {
	if workingDir != "" {
		return filepath.Abs(workingDir)
	}
	return DefaultRoot()
}

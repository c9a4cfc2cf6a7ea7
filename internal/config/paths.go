package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths anchors relative file paths. The base is SHARKDASH_HOME when set,
// otherwise the current working directory.
type Paths struct {
	BaseDir    string
	DataDir    string
	LogsDir    string
	ReportsDir string
}

// GetPaths returns the application paths
func GetPaths() (*Paths, error) {
	base := os.Getenv(EnvHome)
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	return NewPaths(base)
}

// NewPaths returns the paths rooted at base
func NewPaths(base string) (*Paths, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %q: %w", base, err)
	}
	return &Paths{
		BaseDir:    abs,
		DataDir:    filepath.Join(abs, "data"),
		LogsDir:    filepath.Join(abs, "logs"),
		ReportsDir: filepath.Join(abs, DefaultReportsDir),
	}, nil
}

// Resolve returns p unchanged when absolute or empty, else joined to BaseDir
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.BaseDir, path)
}

// EnsureDir creates dir and its parents
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

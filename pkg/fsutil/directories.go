// Package fsutil provides small filesystem helpers shared by the fetcher, the
// synchronizer and the installers.
package fsutil

import (
	"os"
	"path/filepath"
)

// EnsureDir creates a directory and all missing parents with DirModeDefault.
// It is a no-op when the directory already exists.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirModeDefault)
}

// EnsureFileDir creates the parent directory of filePath.
func EnsureFileDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

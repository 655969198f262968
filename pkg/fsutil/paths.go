package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the user's data and config dirs.
const AppName = "mcsync"

// DataDir returns the default game root.
// On Linux: $XDG_DATA_HOME/mcsync or ~/.local/share/mcsync
// On macOS: ~/Library/Application Support/mcsync
// On Windows: %APPDATA%\mcsync
func DataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName), nil
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", AppName), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}

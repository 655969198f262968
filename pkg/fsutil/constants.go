package fsutil

// File and directory permission constants used for everything mcsync writes.
const (
	FileModeDefault = 0o644 // -rw-r--r--: downloaded objects, jars, indexes
	FileModeSecure  = 0o640 // -rw-r-----: config files
	FileModeExec    = 0o755 // -rwxr-xr-x: extracted natives keep their own mode when set

	DirModeDefault = 0o755 // drwxr-xr-x: game directory tree
	DirModeSecure  = 0o750 // drwxr-x---: config directory
)

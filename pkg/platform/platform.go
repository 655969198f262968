// Package platform maps the Go runtime's notion of an operating system onto the
// OS tags used by version descriptors.
package platform

import (
	"runtime"
	"slices"
	"strings"
)

// Current returns the OS tag of the running process.
func Current() string {
	return NormalizeOS(runtime.GOOS)
}

// NormalizeOS maps common OS spellings to a descriptor OS tag. Unknown unix-likes
// fall back to linux, which is what their natives are built for.
func NormalizeOS(goos string) string {
	switch strings.ToLower(strings.TrimSpace(goos)) {
	case "windows", "win", "win32":
		return OSWindows
	case "darwin", "macos", "mac", "osx":
		return OSMac
	default:
		return OSLinux
	}
}

// IsValidOS reports whether tag is one of ValidOS.
func IsValidOS(tag string) bool {
	return slices.Contains(ValidOS(), tag)
}

// NativesClassifier returns the classifier key for native archives on tag,
// e.g. "natives-windows".
func NativesClassifier(tag string) string {
	return NativesPrefix + tag
}

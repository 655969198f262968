package platform

// OS tags as they appear in version descriptors and native classifier names.
const (
	// OSWindows is the tag for Windows.
	OSWindows = "windows"
	// OSMac is the tag for macOS; descriptors call it "osx", not "darwin".
	OSMac = "osx"
	// OSLinux is the tag for Linux and other unix-likes.
	OSLinux = "linux"

	// NativesPrefix prefixes the OS tag in a library's classifier key.
	NativesPrefix = "natives-"
)

// ValidOS returns the OS tags a descriptor can carry.
func ValidOS() []string {
	return []string{OSWindows, OSMac, OSLinux}
}

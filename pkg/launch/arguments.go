// Package launch assembles the argument lists of a game launch.
package launch

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/glorpus-work/mcsync/pkg/platform"
	"github.com/glorpus-work/mcsync/pkg/version"
)

// Defaults for optional endpoints.
const (
	DefaultServerPort = 25565
	DefaultProxyPort  = 8080
)

// Auth is the identity the game is launched with.
type Auth struct {
	AccessToken    string
	Name           string
	UUID           string
	UserProperties string
}

// Server makes the client connect straight to a server.
type Server struct {
	Host string
	Port int
}

// Proxy routes the client through a proxy.
type Proxy struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Options describe one launch.
type Options struct {
	Root          string
	Auth          Auth
	VersionNumber string // defaults to the descriptor id
	VersionType   string // defaults to the descriptor type
	Server        *Server
	Proxy         *Proxy
}

// AssetsRoot returns the asset directory the game should read from.
func AssetsRoot(root string, desc *version.Descriptor) string {
	if desc.IsLegacyAssets() {
		return filepath.Join(root, "assets", "legacy")
	}
	return filepath.Join(root, "assets")
}

// GameArguments returns the game argument list. The overlay's arguments win
// over the descriptor's when an overlay is given and has any. Placeholders that
// make up a whole argument are substituted; anything else is kept verbatim.
// Neither input is modified.
func GameArguments(desc *version.Descriptor, overlay *version.ForgeProfile, opts Options) []string {
	template := templateFor(desc, overlay)

	assets := AssetsRoot(opts.Root, desc)
	fields := map[string]string{
		"${auth_access_token}": opts.Auth.AccessToken,
		"${auth_session}":      opts.Auth.AccessToken,
		"${auth_player_name}":  opts.Auth.Name,
		"${auth_uuid}":         authUUID(opts.Auth),
		"${user_properties}":   valueOr(opts.Auth.UserProperties, "{}"),
		"${user_type}":         "mojang",
		"${version_name}":      valueOr(opts.VersionNumber, desc.ID),
		"${assets_index_name}": desc.AssetIndex.ID,
		"${game_directory}":    filepath.Clean(opts.Root),
		"${assets_root}":       assets,
		"${game_assets}":       assets,
		"${version_type}":      valueOr(opts.VersionType, desc.Type),
	}

	args := make([]string, 0, len(template)+12)
	for _, arg := range template {
		if v, ok := fields[arg]; ok {
			arg = v
		}
		args = append(args, arg)
	}

	if s := opts.Server; s != nil {
		args = append(args, "--server", s.Host, "--port", portOr(s.Port, DefaultServerPort))
	}
	if p := opts.Proxy; p != nil {
		args = append(args,
			"--proxyHost", p.Host,
			"--proxyPort", portOr(p.Port, DefaultProxyPort),
			"--proxyUser", p.Username,
			"--proxyPass", p.Password,
		)
	}
	return args
}

func templateFor(desc *version.Descriptor, overlay *version.ForgeProfile) []string {
	if overlay != nil {
		if overlay.MinecraftArguments != "" {
			return strings.Fields(overlay.MinecraftArguments)
		}
		if overlay.Arguments != nil && len(overlay.Arguments.Game) > 0 {
			return overlay.Arguments.Game
		}
	}
	if desc.MinecraftArguments != "" {
		return strings.Fields(desc.MinecraftArguments)
	}
	if desc.Arguments != nil {
		return desc.Arguments.Game
	}
	return nil
}

func authUUID(a Auth) string {
	if a.UUID != "" {
		return a.UUID
	}
	return strings.ReplaceAll(OfflineUUID(a.Name), "-", "")
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func portOr(port, fallback int) string {
	if port <= 0 {
		port = fallback
	}
	return strconv.Itoa(port)
}

// JVMArguments returns the platform specific JVM flags for osTag.
func JVMArguments(osTag string) []string {
	switch osTag {
	case platform.OSWindows:
		return []string{"-XX:HeapDumpPath=MojangTricksIntelDriversForPerformance_javaw.exe_minecraft.exe.heapdump"}
	case platform.OSMac:
		return []string{"-XstartOnFirstThread"}
	case platform.OSLinux:
		return []string{"-Xss1M"}
	default:
		return nil
	}
}

// ClasspathString joins classpath entries with the separator of osTag.
func ClasspathString(paths []string, osTag string) string {
	sep := ":"
	if osTag == platform.OSWindows {
		sep = ";"
	}
	return strings.Join(paths, sep)
}

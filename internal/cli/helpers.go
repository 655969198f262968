package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/mcsync/internal/logger"
	"github.com/glorpus-work/mcsync/pkg/config"
	"github.com/glorpus-work/mcsync/pkg/launch"
	"github.com/glorpus-work/mcsync/pkg/platform"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	OutputFormat *string
	RootDir      *string
	OSTag        *string
)

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		logger.Warn("Failed to get default config path, using empty path", logger.Fields{"error": err})
		return ""
	}
	return defaultPath
}

// loadConfig reads the configuration, applies the global flag overrides and
// configures the logger from the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if RootDir != nil && *RootDir != "" {
		cfg.Settings.RootDir = *RootDir
	}
	if OSTag != nil && *OSTag != "" {
		cfg.Settings.OS = platform.NormalizeOS(*OSTag)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		level = "debug"
	}
	logger.InitLogger(level, logger.FormatText)
	return cfg, nil
}

// launchFlags are the identity and endpoint flags shared by args and prepare.
type launchFlags struct {
	name        string
	uuid        string
	accessToken string
	versionName string
	versionType string
	server      string
	proxy       string
	proxyUser   string
	proxyPass   string
}

func (f *launchFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Player name (defaults to config player.name)")
	cmd.Flags().StringVar(&f.uuid, "uuid", "", "Player UUID (defaults to the offline UUID of the name)")
	cmd.Flags().StringVar(&f.accessToken, "access-token", "", "Session access token")
	cmd.Flags().StringVar(&f.versionName, "version-name", "", "Version name shown in game (defaults to the version id)")
	cmd.Flags().StringVar(&f.versionType, "version-type", "", "Version type shown in game (defaults to the descriptor type)")
	cmd.Flags().StringVar(&f.server, "server", "", "Connect to HOST[:PORT] on start")
	cmd.Flags().StringVar(&f.proxy, "proxy", "", "Route traffic through HOST[:PORT]")
	cmd.Flags().StringVar(&f.proxyUser, "proxy-user", "", "Proxy user name")
	cmd.Flags().StringVar(&f.proxyPass, "proxy-pass", "", "Proxy password")
}

func (f *launchFlags) options(cfg *config.Config) (launch.Options, error) {
	opts := launch.Options{
		Root: cfg.Settings.RootDir,
		Auth: launch.Auth{
			AccessToken: f.accessToken,
			Name:        cfg.Player.Name,
			UUID:        cfg.Player.UUID,
		},
		VersionNumber: f.versionName,
		VersionType:   f.versionType,
	}
	if f.name != "" {
		opts.Auth.Name = f.name
		opts.Auth.UUID = ""
	}
	if f.uuid != "" {
		opts.Auth.UUID = f.uuid
	}
	if f.server != "" {
		host, port, err := splitHostPort(f.server)
		if err != nil {
			return opts, fmt.Errorf("invalid --server: %w", err)
		}
		opts.Server = &launch.Server{Host: host, Port: port}
	}
	if f.proxy != "" {
		host, port, err := splitHostPort(f.proxy)
		if err != nil {
			return opts, fmt.Errorf("invalid --proxy: %w", err)
		}
		opts.Proxy = &launch.Proxy{Host: host, Port: port, Username: f.proxyUser, Password: f.proxyPass}
	}
	return opts, nil
}

// splitHostPort accepts HOST or HOST:PORT; a missing port is returned as 0.
func splitHostPort(s string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return s, 0, nil //nolint:nilerr // no port given
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("bad port %q", portStr)
	}
	return host, port, nil
}

// Package config provides configuration management for mcsync.
// It handles loading, validating and saving the YAML settings file and provides
// defaults for every setting, so a missing file is the same as an empty one.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/mcsync/pkg/errors"
	"github.com/glorpus-work/mcsync/pkg/fsutil"
	"github.com/glorpus-work/mcsync/pkg/platform"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
	Player   Player   `yaml:"player"`
}

// Settings represents general application settings.
type Settings struct {
	// Game root holding versions, libraries, assets and natives.
	RootDir string `yaml:"root_dir,omitempty"`
	// OS tag natives and JVM flags are chosen for (windows, osx, linux).
	OS string `yaml:"os,omitempty"`

	// Network settings
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	StallTimeout  time.Duration `yaml:"stall_timeout"`
	MaxConcurrent int           `yaml:"max_concurrent"`
	UserAgent     string        `yaml:"user_agent,omitempty"`

	// Asset retry policy. Zero caps mean unlimited, a zero initial backoff
	// disables pausing between passes.
	MaxPasses            int           `yaml:"max_passes"`
	MaxIntegrityFailures int           `yaml:"max_integrity_failures"`
	InitialBackoff       time.Duration `yaml:"initial_backoff"`
	MaxBackoff           time.Duration `yaml:"max_backoff"`
	BackoffMultiplier    float64       `yaml:"backoff_multiplier"`

	// Remote endpoints
	ManifestURL   string `yaml:"manifest_url"`
	AssetsURL     string `yaml:"assets_url"`
	ForgeMavenURL string `yaml:"forge_maven_url"`
	LibrariesURL  string `yaml:"libraries_url"`

	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// Player holds the identity used for offline launches.
type Player struct {
	Name string `yaml:"name,omitempty"`
	UUID string `yaml:"uuid,omitempty"`
}

// Default configuration values.
const (
	DefaultHTTPTimeout          = 3 * time.Second
	DefaultStallTimeout         = 30 * time.Second
	DefaultMaxConcurrent        = 16
	DefaultMaxIntegrityFailures = 0
	DefaultInitialBackoff       = 500 * time.Millisecond
	DefaultMaxBackoff           = 30 * time.Second
	DefaultBackoffMultiplier    = 2.0

	DefaultManifestURL   = "https://launchermeta.mojang.com/mc/game/version_manifest.json"
	DefaultAssetsURL     = "https://resources.download.minecraft.net"
	DefaultForgeMavenURL = "https://maven.minecraftforge.net/"
	DefaultLibrariesURL  = "https://libraries.minecraft.net/"

	DefaultPlayerName = "Player"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	rootDir, err := fsutil.DataDir()
	if err != nil {
		// Fallback to current directory if we can't determine the data dir
		rootDir = fsutil.AppName
	}

	return &Config{
		Settings: Settings{
			RootDir:              rootDir,
			OS:                   platform.Current(),
			HTTPTimeout:          DefaultHTTPTimeout,
			StallTimeout:         DefaultStallTimeout,
			MaxConcurrent:        DefaultMaxConcurrent,
			MaxIntegrityFailures: DefaultMaxIntegrityFailures,
			InitialBackoff:       DefaultInitialBackoff,
			MaxBackoff:           DefaultMaxBackoff,
			BackoffMultiplier:    DefaultBackoffMultiplier,
			ManifestURL:          DefaultManifestURL,
			AssetsURL:            DefaultAssetsURL,
			ForgeMavenURL:        DefaultForgeMavenURL,
			LibrariesURL:         DefaultLibrariesURL,
			LogLevel:             "info",
		},
		Player: Player{Name: DefaultPlayerName},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader. Keys absent from
// the document keep their default values.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes the configuration to path, replacing any existing file
// atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrConfigDirectory, err.Error())
	}

	file, err := fsutil.TempFileIn(absPath)
	if err != nil {
		return fmt.Errorf("%w: %s", errors.ErrConfigFileCreate, err.Error())
	}
	tempPath := file.Name()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("%w: %s", errors.ErrConfigEncode, err.Error())
	}
	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("%w: %s", errors.ErrConfigFileRename, err.Error())
	}
	return os.Chmod(absPath, fsutil.FileModeDefault)
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateSettings(c.Settings); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrConfigValidation, err.Error())
	}
	return nil
}

func validateSettings(s Settings) error {
	if !platform.IsValidOS(s.OS) {
		return fmt.Errorf("invalid os %q, valid values: %s", s.OS, strings.Join(platform.ValidOS(), ", "))
	}
	if s.HTTPTimeout < 0 || s.StallTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}
	if s.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1")
	}
	if s.MaxPasses < 0 || s.MaxIntegrityFailures < 0 {
		return fmt.Errorf("retry caps cannot be negative")
	}
	if s.InitialBackoff < 0 || s.MaxBackoff < 0 {
		return fmt.Errorf("backoff durations cannot be negative")
	}
	if s.BackoffMultiplier < 1 {
		return fmt.Errorf("backoff_multiplier must be at least 1")
	}
	for key, u := range map[string]string{
		"manifest_url":    s.ManifestURL,
		"assets_url":      s.AssetsURL,
		"forge_maven_url": s.ForgeMavenURL,
		"libraries_url":   s.LibrariesURL,
	} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", key, u)
		}
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return fmt.Errorf("invalid log level %q", s.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, fsutil.AppName, "config.yaml"), nil
}

// VersionsDir returns the directory version descriptors are cached in.
func (c *Config) VersionsDir() string {
	return filepath.Join(c.Settings.RootDir, "versions")
}

// applyDefaults fills in values a document blanked out explicitly.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.RootDir == "" {
		c.Settings.RootDir = defaults.Settings.RootDir
	}
	if c.Settings.OS == "" {
		c.Settings.OS = defaults.Settings.OS
	} else {
		c.Settings.OS = platform.NormalizeOS(c.Settings.OS)
	}
	if c.Settings.MaxConcurrent == 0 {
		c.Settings.MaxConcurrent = defaults.Settings.MaxConcurrent
	}
	if c.Settings.BackoffMultiplier == 0 {
		c.Settings.BackoffMultiplier = defaults.Settings.BackoffMultiplier
	}
	if c.Settings.ManifestURL == "" {
		c.Settings.ManifestURL = defaults.Settings.ManifestURL
	}
	if c.Settings.AssetsURL == "" {
		c.Settings.AssetsURL = defaults.Settings.AssetsURL
	}
	if c.Settings.ForgeMavenURL == "" {
		c.Settings.ForgeMavenURL = defaults.Settings.ForgeMavenURL
	}
	if c.Settings.LibrariesURL == "" {
		c.Settings.LibrariesURL = defaults.Settings.LibrariesURL
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Player.Name == "" {
		c.Player.Name = defaults.Player.Name
	}
}

// Package errors holds the sentinel errors shared across mcsync and small helpers
// for adding context to them.
package errors

import "fmt"

// Engine errors.
var (
	// ErrTransport marks a failed remote transfer (connect, timeout, status, stream).
	ErrTransport = fmt.Errorf("transfer failed")
	// ErrIntegrity marks a local file whose digest does not match the expected one.
	ErrIntegrity = fmt.Errorf("integrity check failed")
	// ErrNotFound marks a local file that was expected to exist.
	ErrNotFound = fmt.Errorf("file not found")
	// ErrArchive marks a malformed or conflicting archive entry.
	ErrArchive = fmt.Errorf("archive error")
	// ErrManifest marks a remote manifest, version or index document that could not be
	// fetched or did not pass validation.
	ErrManifest = fmt.Errorf("manifest error")
	// ErrVersionNotFound is returned when the manifest does not list a version.
	ErrVersionNotFound = fmt.Errorf("version not found in manifest")
	// ErrRetriesExhausted is returned when a retry policy cap is hit before convergence.
	ErrRetriesExhausted = fmt.Errorf("retries exhausted")
	// ErrInvalidPath marks a path argument that cannot be used.
	ErrInvalidPath = fmt.Errorf("invalid path")
)

// Config errors.
var (
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileRename  = fmt.Errorf("failed to replace config file")
	ErrConfigFileExists  = fmt.Errorf("config file already exists")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

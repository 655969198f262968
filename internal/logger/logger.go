// Package logger is the process-wide structured logger used by mcsync.
// It wraps log/slog with a level switch and a Fields helper so call sites stay terse.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
)

// Fields holds structured key/value pairs attached to a log line.
type Fields map[string]interface{}

// OutputFormat selects the slog handler.
type OutputFormat string

const (
	// FormatText writes logfmt-style key=value lines.
	FormatText OutputFormat = "text"
	// FormatJSON writes one JSON object per line.
	FormatJSON OutputFormat = "json"
)

var (
	mu         sync.RWMutex
	logger     *slog.Logger
	testOutput io.Writer
)

// SetTestOutput redirects all subsequently initialized loggers to w.
func SetTestOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	testOutput = w
}

// UnsetTestOutput restores stdout as the output of subsequently initialized loggers.
func UnsetTestOutput() {
	mu.Lock()
	defer mu.Unlock()
	testOutput = nil
}

// ParseLevel maps a config level name to a slog level; unknown names mean info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger (re)configures the global logger at the given level and format.
func InitLogger(level string, format OutputFormat) {
	mu.Lock()
	defer mu.Unlock()

	var out io.Writer = os.Stderr
	if testOutput != nil {
		out = testOutput
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if format == FormatJSON {
		logger = slog.New(slog.NewJSONHandler(out, opts))
		return
	}
	logger = slog.New(slog.NewTextHandler(out, opts))
}

// GetLogger returns the configured logger, initializing it at info level if needed.
func GetLogger() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	InitLogger("info", FormatText)
	return GetLogger()
}

// Info logs an info message.
func Info(msg string, fields ...Fields) {
	GetLogger().Info(msg, mergeFields(fields...)...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	GetLogger().Info(fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func Debug(msg string, fields ...Fields) {
	GetLogger().Debug(msg, mergeFields(fields...)...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	GetLogger().Debug(fmt.Sprintf(format, args...))
}

// Warn logs a warning.
func Warn(msg string, fields ...Fields) {
	GetLogger().Warn(msg, mergeFields(fields...)...)
}

// Warnf logs a formatted warning.
func Warnf(format string, args ...interface{}) {
	GetLogger().Warn(fmt.Sprintf(format, args...))
}

// Error logs an error message.
func Error(msg string, fields ...Fields) {
	GetLogger().Error(msg, mergeFields(fields...)...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	GetLogger().Error(fmt.Sprintf(format, args...))
}

// Success logs an info message tagged with status=success.
func Success(msg string, fields ...Fields) {
	attrs := mergeFields(fields...)
	attrs = append(attrs, "status", "success")
	GetLogger().Info(msg, attrs...)
}

// mergeFields flattens field maps into slog key/value pairs, keys sorted so
// output is stable.
func mergeFields(fields ...Fields) []interface{} {
	var result []interface{}
	for _, field := range fields {
		keys := make([]string, 0, len(field))
		for k := range field {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			result = append(result, k, field[k])
		}
	}
	return result
}

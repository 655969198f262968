package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, format OutputFormat, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	InitLogger(level, format)
	fn()
	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:     "info log",
			level:    "info",
			logFn:    func() { Info("asset index cached") },
			contains: []string{"asset index cached", "level=INFO"},
		},
		{
			name:     "debug log with debug level",
			level:    "debug",
			logFn:    func() { Debug("verified asset") },
			contains: []string{"verified asset", "level=DEBUG"},
		},
		{
			name:     "debug log with info level",
			level:    "info",
			logFn:    func() { Debug("verified asset") },
			excludes: []string{"verified asset"},
		},
		{
			name:     "warn log with fields",
			level:    "warn",
			logFn:    func() { Warn("hash mismatch", Fields{"name": "foo", "pass": 2}) },
			contains: []string{"hash mismatch", "level=WARN", "name=foo", "pass=2"},
		},
		{
			name:     "warn hidden at error level",
			level:    "error",
			logFn:    func() { Warnf("pass %d", 3) },
			excludes: []string{"pass 3"},
		},
		{
			name:     "error log",
			level:    "error",
			logFn:    func() { Errorf("fetch %s failed", "foo") },
			contains: []string{"fetch foo failed", "level=ERROR"},
		},
		{
			name:     "success log",
			level:    "info",
			logFn:    func() { Success("assets converged") },
			contains: []string{"assets converged", "status=success"},
		},
		{
			name:     "formatted info and debug",
			level:    "debug",
			logFn:    func() { Infof("passes=%d", 1); Debugf("entry %s", "bar") },
			contains: []string{"passes=1", "entry bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t, tt.level, FormatText, tt.logFn)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, notWant := range tt.excludes {
				assert.NotContains(t, out, notWant)
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	out := captureOutput(t, "info", FormatJSON, func() {
		Info("asset synced", Fields{"name": "foo", "size": 10, "fresh": true})
	})

	assert.Contains(t, out, `"msg":"asset synced"`)
	assert.Contains(t, out, `"level":"INFO"`)
	assert.Contains(t, out, `"name":"foo"`)
	assert.Contains(t, out, `"size":10`)
	assert.Contains(t, out, `"fresh":true`)
}

func TestGetLogger_InitializesIfNil(t *testing.T) {
	mu.Lock()
	logger = nil
	mu.Unlock()

	assert.NotPanics(t, func() {
		lg := GetLogger()
		assert.NotNil(t, lg)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLevel("debug").String())
	assert.Equal(t, "WARN", ParseLevel("Warning").String())
	assert.Equal(t, "ERROR", ParseLevel("error").String())
	assert.Equal(t, "INFO", ParseLevel("bogus").String())
}

func TestMergeFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []Fields
		expect []interface{}
	}{
		{
			name:   "no fields",
			expect: nil,
		},
		{
			name:   "keys are sorted",
			fields: []Fields{{"total": 2, "name": "foo"}},
			expect: []interface{}{"name", "foo", "total", 2},
		},
		{
			name:   "maps are appended in order",
			fields: []Fields{{"b": 1}, {"a": 2}},
			expect: []interface{}{"b", 1, "a", 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, mergeFields(tt.fields...))
		})
	}
}

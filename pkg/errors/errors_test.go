package errors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		expected string
	}{
		{
			name:     "wrap nil error",
			err:      nil,
			msg:      "fetch asset index",
			expected: "",
		},
		{
			name:     "wrap standard error",
			err:      errors.New("original error"),
			msg:      "fetch asset index",
			expected: "fetch asset index: original error",
		},
		{
			name:     "wrap with empty message",
			err:      errors.New("original error"),
			msg:      "",
			expected: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.err, tt.msg)
			if tt.err == nil {
				if result != nil {
					t.Errorf("Expected nil, got %v", result)
				}
				return
			}
			if result.Error() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Error())
			}
			// Test that the original error is wrapped
			if !errors.Is(result, tt.err) {
				t.Errorf("Expected wrapped error to contain original error")
			}
		})
	}
}

func TestWrapf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		format   string
		args     []interface{}
		expected string
	}{
		{
			name:     "wrapf nil error",
			err:      nil,
			format:   "formatted: %s",
			args:     []interface{}{"test"},
			expected: "",
		},
		{
			name:     "wrapf standard error",
			err:      errors.New("original error"),
			format:   "download %s",
			args:     []interface{}{"1.12.2.jar"},
			expected: "download 1.12.2.jar: original error",
		},
		{
			name:     "wrapf with multiple args",
			err:      errors.New("original error"),
			format:   "sync %s after %d passes",
			args:     []interface{}{"1.12.2.jar", 3},
			expected: "sync 1.12.2.jar after 3 passes: original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrapf(tt.err, tt.format, tt.args...)
			if tt.err == nil {
				if result != nil {
					t.Errorf("Expected nil, got %v", result)
				}
				return
			}
			if result.Error() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Error())
			}
			// Test that the original error is wrapped
			if !errors.Is(result, tt.err) {
				t.Errorf("Expected wrapped error to contain original error")
			}
		})
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	sentinels := []error{ErrTransport, ErrIntegrity, ErrNotFound, ErrArchive, ErrManifest, ErrRetriesExhausted}
	for _, sentinel := range sentinels {
		t.Run(sentinel.Error(), func(t *testing.T) {
			wrapped := Wrapf(Wrap(sentinel, "inner"), "outer %d", 1)
			if !errors.Is(wrapped, sentinel) {
				t.Errorf("expected %q to match %q", wrapped, sentinel)
			}
			for _, other := range sentinels {
				if other != sentinel && errors.Is(wrapped, other) {
					t.Errorf("%q unexpectedly matched %q", wrapped, other)
				}
			}
		})
	}
}

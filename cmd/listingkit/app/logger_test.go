package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestDetermineLogLevel tests the log level precedence logic.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
		warning  string
	}{
		{
			name:     "default level when no flags set",
			config:   &Config{},
			expected: "info",
		},
		{
			name:     "verbose flag sets debug",
			config:   &Config{Verbose: true},
			expected: "debug",
		},
		{
			name:     "quiet flag sets warn",
			config:   &Config{Quiet: true},
			expected: "warn",
		},
		{
			name:     "explicit log-level overrides verbose",
			config:   &Config{LogLevel: "error", Verbose: true},
			expected: "error",
		},
		{
			name:     "explicit log-level overrides quiet",
			config:   &Config{LogLevel: "trace", Quiet: true},
			expected: "trace",
		},
		{
			name:     "both verbose and quiet prefers quiet",
			config:   &Config{Verbose: true, Quiet: true},
			expected: "warn",
			warning:  "both --verbose and --quiet",
		},
		{
			name:     "env LOG_LEVEL used without flags",
			config:   &Config{EnvLogLevel: "error"},
			expected: "error",
		},
		{
			name:     "verbose beats env LOG_LEVEL",
			config:   &Config{EnvLogLevel: "error", Verbose: true},
			expected: "debug",
		},
		{
			name:     "quiet beats env LOG_LEVEL",
			config:   &Config{EnvLogLevel: "trace", Quiet: true},
			expected: "warn",
		},
		{
			name:     "invalid env LOG_LEVEL falls back to info",
			config:   &Config{EnvLogLevel: "loud"},
			expected: "info",
		},
		{
			name:     "invalid log level falls back to info",
			config:   &Config{LogLevel: "invalid"},
			expected: "info",
			warning:  `invalid log level "invalid"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warnings bytes.Buffer
			result := determineLogLevel(tt.config, &warnings)
			if result != tt.expected {
				t.Errorf("determineLogLevel() = %q, want %q", result, tt.expected)
			}
			if tt.warning == "" && warnings.Len() > 0 {
				t.Errorf("unexpected warning: %s", warnings.String())
			}
			if tt.warning != "" && !strings.Contains(warnings.String(), tt.warning) {
				t.Errorf("warning %q not found in %q", tt.warning, warnings.String())
			}
		})
	}
}

// TestValidateLogLevel tests log level validation.
func TestValidateLogLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		if got := validateLogLevel(level); got != level {
			t.Errorf("validateLogLevel(%q) = %q, want %q", level, got, level)
		}
	}
	for _, level := range []string{"", "DEBUG", "fatal", "verbose"} {
		if got := validateLogLevel(level); got != "info" {
			t.Errorf("validateLogLevel(%q) = %q, want info", level, got)
		}
	}
}

// TestNewLogger verifies the logger honours the resolved level.
func TestNewLogger(t *testing.T) {
	original := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(original) })

	tests := []struct {
		name   string
		config *Config
		level  zerolog.Level
	}{
		{name: "default", config: &Config{LogOutput: "discard"}, level: zerolog.InfoLevel},
		{name: "verbose", config: &Config{Verbose: true, LogOutput: "discard"}, level: zerolog.DebugLevel},
		{name: "quiet", config: &Config{Quiet: true, LogOutput: "discard"}, level: zerolog.WarnLevel},
		{name: "explicit", config: &Config{LogLevel: "error", LogOutput: "discard"}, level: zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := newLogger(tt.config, &bytes.Buffer{})
			if logger.GetLevel() != tt.level {
				t.Errorf("logger level = %v, want %v", logger.GetLevel(), tt.level)
			}
		})
	}
}

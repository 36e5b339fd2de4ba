package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carefinder/listingkit/pkg/logging"
)

func TestSetDefault(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logging.SetDefault(logging.New(buf))

	logging.FromContext(context.Background()).Debug().Msg("hidden")
	logging.FromContext(context.Background()).Info().Msg("visible")

	assert.Contains(t, buf.String(), "visible")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestContextTags(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithSource(ctx, "seniorly")
	ctx = logging.WithOperation(ctx, "match")
	ctx = logging.WithRun(ctx, "run-1")
	ctx = logging.WithRecord(ctx, "42")

	logging.FromContext(ctx).Info().Msg("matched records")

	tl.AssertCount(t, 1)
	entry := tl.Entries()[0]
	assert.Equal(t, "seniorly", entry[logging.FieldSource])
	assert.Equal(t, "match", entry[logging.FieldOperation])
	assert.Equal(t, "run-1", entry[logging.FieldRun])
	assert.Equal(t, "42", entry[logging.FieldRecord])
	assert.Equal(t, "matched records", entry["message"])
}

func TestTagsDoNotLeakToParent(t *testing.T) {
	tl := logging.NewTestLogger(t)
	parent := logging.WithLogger(context.Background(), tl.Logger)
	_ = logging.WithSource(parent, "crm")

	logging.FromContext(parent).Info().Msg("parent")
	tl.AssertNotContains(t, `"source"`)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Same(t, logging.Default(), logging.FromContext(logging.WithLogger(context.Background(), nil)))
}

func TestNewLoggerFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		present []string
		absent  []string
	}{
		{name: "debug", level: "debug", present: []string{`"level":"debug"`, `"level":"info"`, `"caller"`}},
		{name: "error only", level: "error", present: []string{`"level":"error"`}, absent: []string{`"level":"info"`}},
		{name: "warning alias", level: "warning", present: []string{`"level":"error"`}, absent: []string{`"level":"info"`}},
		{name: "invalid falls back to info", level: "loud", present: []string{`"level":"info"`}, absent: []string{`"level":"debug"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.NewLoggerFromConfig(&logging.Config{Level: tt.level, Format: "json", Output: "discard"})
			logger = logger.Output(buf)

			logger.Debug().Msg("debug")
			logger.Info().Msg("info")
			logger.Error().Msg("error")

			for _, s := range tt.present {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestNewLoggerFromConfigDisabled(t *testing.T) {
	logger := logging.NewLoggerFromConfig(&logging.Config{Level: "off", Output: "discard"})
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listingkit.log")
	logger := logging.NewLoggerFromConfig(&logging.Config{Level: "info", Format: "auto", Output: path})
	logger.Info().Str("snapshot", "monday").Msg("written to file")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	// Files never get the console writer, even in auto mode.
	assert.Contains(t, string(content), `"message":"written to file"`)
	assert.Contains(t, string(content), `"snapshot":"monday"`)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "1")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_OUTPUT", "stdout")

	cfg := logging.ConfigFromEnv()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)

	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, "warn", logging.ConfigFromEnv().Level)
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)
}

func TestTestLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	tl.Logger.Info().Msg("message 1")
	tl.Logger.Error().Msg("message 2")

	tl.AssertContains(t, "message 1")
	tl.AssertNotContains(t, "message 3")
	tl.AssertCount(t, 2)
	assert.Len(t, tl.Entries(), 2)

	tl.Buffer.Reset()
	assert.Empty(t, tl.Lines())
}

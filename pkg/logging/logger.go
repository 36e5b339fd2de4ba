// Package logging wraps zerolog for listingkit.
//
// Loggers travel in the context: commands attach one with WithLogger and tag
// it with the record source, pipeline stage and run ID as work proceeds.
// FromContext falls back to a process-wide default configured from
// LOG_LEVEL, LOG_FORMAT and LOG_OUTPUT.
//
//	ctx = logging.WithSource(ctx, "crm")
//	logging.FromContext(ctx).Info().Int("records", 812).Msg("Loaded records")
package logging

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = NewLoggerFromConfig(ConfigFromEnv())

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger, including zerolog's global
// log.Logger so third-party code logging through it stays consistent.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// New returns an info-level JSON logger writing to w.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

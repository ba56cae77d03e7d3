package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSink is a Sink that writes notifications to the structured log.
// Used in local development and as a fallback when no platform channel
// is connected.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a log-backed notification sink.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Notify logs the notification.
func (s *LogSink) Notify(_ context.Context, title, body, dedupeKey string) error {
	s.logger.Info().
		Str("title", title).
		Str("body", body).
		Str("dedupe_key", dedupeKey).
		Msg("notification delivered")
	return nil
}

// Speak logs the spoken text.
func (s *LogSink) Speak(_ context.Context, text string) error {
	s.logger.Info().
		Str("text", text).
		Msg("speech delivered")
	return nil
}

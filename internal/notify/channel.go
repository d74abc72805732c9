package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Channel is the messaging capability used alongside email. A real provider
// (WhatsApp Business API or similar) can be bound here without touching the
// dispatcher or the submission pipeline.
type Channel interface {
	Send(ctx context.Context, numbers []string, text string) error
}

// LogChannel is the default Channel binding: a log-only no-op standing in
// for a real messaging integration. It never transmits and never fails.
type LogChannel struct {
	log zerolog.Logger
}

func NewLogChannel(log zerolog.Logger) *LogChannel {
	return &LogChannel{log: log.With().Str("component", "log_channel").Logger()}
}

func (c *LogChannel) Send(ctx context.Context, numbers []string, text string) error {
	c.log.Info().
		Strs("numbers", numbers).
		Str("text", text).
		Msg("WhatsApp send (stub)")
	return nil
}

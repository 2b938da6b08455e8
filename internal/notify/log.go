package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes notifications to the log instead of delivering them.
// It is the development transport.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	n.log.Info().
		Str("recipient", msg.Recipient).
		Str("kind", string(msg.Kind)).
		Interface("data", msg.Data).
		Int("attachments", len(msg.Attachments)).
		Msg("notification")
	return nil
}

package events

import (
	"context"

	"github.com/rs/zerolog"
)

// Emit publishes an event to whatever surface is attached. It defaults to a
// no-op so headless code paths and tests never need wiring.
var Emit = func(ctx context.Context, name string, evt Event) {}

// SetCustomEmitter routes events to f, stamping the session key from the
// context when the payload carries none. Passing nil restores the no-op.
func SetCustomEmitter(f func(ctx context.Context, name string, evt Event)) {
	if f == nil {
		Emit = func(context.Context, string, Event) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt Event) {
		if evt.SessionKey == "" {
			if session := SessionFromContext(ctx); session != "" {
				evt.SessionKey = session
			}
		}
		f(ctx, name, evt)
	}
}

// EnableLogEmitter wires events into the given structured logger.
func EnableLogEmitter(log zerolog.Logger) {
	SetCustomEmitter(func(ctx context.Context, name string, evt Event) {
		entry := log.Info()
		switch evt.Type {
		case EventError:
			entry = log.Error()
		case EventWarn:
			entry = log.Warn()
		}
		entry.Str("event", name).
			Str("session", evt.SessionKey).
			Str("type", string(evt.Type)).
			Msg(evt.Message)
	})
}

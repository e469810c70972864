package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

// Event names emitted by the assistant core. A UI layer subscribes to
// these through SetCustomEmitter.
const (
	AssistantMessage  = "events:assistant:message"
	AssistantNavigate = "events:assistant:navigate"
	AssistantState    = "events:assistant:state"
	AssistantDismiss  = "events:assistant:dismiss"
	ModelsRefreshed   = "events:models:refreshed"
	SettingsChanged   = "events:settings:changed"
)

// Event is the payload handed to the emitter.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	SessionKey string    `json:"sessionKey,omitempty"`
	Payload    any       `json:"payload,omitempty"`
}

type sessionKeyType struct{}

var sessionContextKey = sessionKeyType{}

// WithSession returns a derived context annotated with the given session key
// so emitters can automatically scope payloads.
func WithSession(ctx context.Context, sessionKey string) context.Context {
	if strings.TrimSpace(sessionKey) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey, sessionKey)
}

// SessionFromContext extracts the session key associated with ctx.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionContextKey).(string); ok {
		return v
	}
	return ""
}

func newEvent(eventType EventType, message string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func NewInfo(message string) Event    { return newEvent(EventInfo, message) }
func NewWarn(message string) Event    { return newEvent(EventWarn, message) }
func NewError(message string) Event   { return newEvent(EventError, message) }
func NewSuccess(message string) Event { return newEvent(EventSuccess, message) }

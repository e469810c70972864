// Package assistant implements the selectable assistant backends and the
// conversation session that drives them. A backend bundles settings
// persistence, availability checks, and a response strategy; the session
// owns the transcript and the in-flight guard.
package assistant

import (
	"context"
	"errors"
)

// Type tags one selectable backend kind. Exactly one type is "current" at
// a time, persisted by its raw string value.
type Type string

const (
	TypeURLBased   Type = "urlBased"
	TypeLocalModel Type = "localModel"
	TypeGeminiAPI  Type = "geminiAPI"

	// DefaultType is the fallback when the persisted choice is unknown,
	// blocked, or unavailable.
	DefaultType = TypeURLBased
)

// ParseType maps a persisted raw value to a known type.
func ParseType(raw string) (Type, bool) {
	switch Type(raw) {
	case TypeURLBased, TypeLocalModel, TypeGeminiAPI:
		return Type(raw), true
	}
	return "", false
}

var (
	// ErrPermissionDenied is surfaced when microphone or speech
	// authorization was refused. Recoverable by re-requesting.
	ErrPermissionDenied = errors.New("microphone or speech permission denied")

	// ErrCapabilityUnavailable is surfaced when a generation or speech
	// capability is not present on this host.
	ErrCapabilityUnavailable = errors.New("generation capability is not available on this device")
)

// Backend is one assistant implementation. Implementations load and save
// their own settings model and produce sessions bound to it.
type Backend interface {
	Type() Type
	Name() string
	Description() string

	// IsAvailable reports whether the backend can run on this host.
	IsAvailable(ctx context.Context) bool
	// IsBlocked reports whether the backend is restricted in the user's
	// region.
	IsBlocked() bool
	// IsValidSettings reports whether the persisted settings are usable.
	IsValidSettings(ctx context.Context) bool

	NewSession(ctx context.Context, cfg SessionConfig, hooks Hooks) (*Session, error)
}

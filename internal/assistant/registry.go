package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sidesearch/internal/services"
)

// Registry maps type tags to backend implementations, preserving
// registration order for presentation.
type Registry struct {
	backends map[Type]Backend
	order    []Type
}

func NewRegistry(backends ...Backend) *Registry {
	r := &Registry{backends: make(map[Type]Backend)}
	for _, b := range backends {
		if _, exists := r.backends[b.Type()]; exists {
			continue
		}
		r.backends[b.Type()] = b
		r.order = append(r.order, b.Type())
	}
	return r
}

func (r *Registry) Get(t Type) (Backend, bool) {
	b, ok := r.backends[t]
	return b, ok
}

func (r *Registry) All() []Backend {
	out := make([]Backend, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.backends[t])
	}
	return out
}

// Selector resolves the current backend from the persisted choice, with
// fallback to the default when the choice is unknown, blocked in this
// region, or unavailable on this host.
type Selector struct {
	registry *Registry
	settings services.AppSettingsService
	log      zerolog.Logger
}

func NewSelector(registry *Registry, settings services.AppSettingsService, log zerolog.Logger) *Selector {
	return &Selector{registry: registry, settings: settings, log: log}
}

func (s *Selector) Registry() *Registry { return s.registry }

// Current returns the backend to use right now.
func (s *Selector) Current(ctx context.Context) Backend {
	raw := s.settings.CurrentAssistantID(ctx)
	if t, ok := ParseType(raw); ok {
		if b, found := s.registry.Get(t); found && !b.IsBlocked() && b.IsAvailable(ctx) {
			return b
		}
		s.log.Debug().Str("persisted", raw).Msg("persisted assistant not usable, falling back to default")
	}
	b, _ := s.registry.Get(DefaultType)
	return b
}

// SetCurrent persists the choice immediately (write-through). Unknown
// types are rejected; blocked or unavailable ones are allowed to be
// chosen and simply fall back at resolution time.
func (s *Selector) SetCurrent(ctx context.Context, t Type) error {
	if _, found := s.registry.Get(t); !found {
		return fmt.Errorf("unknown assistant type %q", t)
	}
	return s.settings.SetCurrentAssistantID(ctx, string(t))
}

// NewSession builds a session for the current backend, configured from
// the global preferences.
func (s *Selector) NewSession(ctx context.Context, capture SpeechCapture, hooks Hooks) (*Session, error) {
	backend := s.Current(ctx)

	prefs, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg := SessionConfig{
		AutoSubmitOnSilence: prefs.AutoSubmitOnSilence,
		SilenceDuration:     time.Duration(prefs.SilenceDuration * float64(time.Second)),
		StartWithMicMuted:   prefs.StartWithMicMuted,
		Capture:             capture,
	}
	return backend.NewSession(ctx, cfg, hooks)
}

package assistant

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"sidesearch/internal/models"
)

type fakeBackend struct {
	typ       Type
	available bool
	blocked   bool
}

func (b *fakeBackend) Type() Type                               { return b.typ }
func (b *fakeBackend) Name() string                             { return string(b.typ) }
func (b *fakeBackend) Description() string                      { return "" }
func (b *fakeBackend) IsAvailable(ctx context.Context) bool     { return b.available }
func (b *fakeBackend) IsBlocked() bool                          { return b.blocked }
func (b *fakeBackend) IsValidSettings(ctx context.Context) bool { return true }
func (b *fakeBackend) NewSession(ctx context.Context, cfg SessionConfig, hooks Hooks) (*Session, error) {
	return newSession(b.typ, responderFunc(func(ctx context.Context, input string) (*reply, error) {
		return &reply{}, nil
	}), cfg, hooks, zerolog.Nop()), nil
}

type fakeSettings struct {
	settings models.AppSettings
}

func (s *fakeSettings) Get(ctx context.Context) (*models.AppSettings, error) {
	copied := s.settings
	return &copied, nil
}

func (s *fakeSettings) Update(ctx context.Context, mutate func(*models.AppSettings)) (*models.AppSettings, error) {
	mutate(&s.settings)
	copied := s.settings
	return &copied, nil
}

func (s *fakeSettings) CurrentAssistantID(ctx context.Context) string {
	return s.settings.CurrentAssistant
}

func (s *fakeSettings) SetCurrentAssistantID(ctx context.Context, id string) error {
	s.settings.CurrentAssistant = id
	return nil
}

func newTestSelector(persisted string, backends ...Backend) (*Selector, *fakeSettings) {
	settings := &fakeSettings{settings: models.AppSettings{CurrentAssistant: persisted}}
	return NewSelector(NewRegistry(backends...), settings, zerolog.Nop()), settings
}

func TestRegistryPreservesOrder(t *testing.T) {
	r := NewRegistry(
		&fakeBackend{typ: TypeURLBased, available: true},
		&fakeBackend{typ: TypeLocalModel, available: true},
		&fakeBackend{typ: TypeGeminiAPI, available: true},
	)
	all := r.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 backends, got %d", len(all))
	}
	want := []Type{TypeURLBased, TypeLocalModel, TypeGeminiAPI}
	for i, b := range all {
		if b.Type() != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, b.Type(), want[i])
		}
	}
}

func TestCurrentReturnsPersistedChoice(t *testing.T) {
	sel, _ := newTestSelector("geminiAPI",
		&fakeBackend{typ: TypeURLBased, available: true},
		&fakeBackend{typ: TypeGeminiAPI, available: true},
	)
	if got := sel.Current(context.Background()).Type(); got != TypeGeminiAPI {
		t.Fatalf("got %s, want geminiAPI", got)
	}
}

func TestCurrentFallsBackToDefault(t *testing.T) {
	cases := []struct {
		name      string
		persisted string
		gemini    fakeBackend
	}{
		{"unknown id", "somethingElse", fakeBackend{typ: TypeGeminiAPI, available: true}},
		{"empty id", "", fakeBackend{typ: TypeGeminiAPI, available: true}},
		{"blocked", "geminiAPI", fakeBackend{typ: TypeGeminiAPI, available: true, blocked: true}},
		{"unavailable", "geminiAPI", fakeBackend{typ: TypeGeminiAPI, available: false}},
	}
	for _, tc := range cases {
		sel, _ := newTestSelector(tc.persisted,
			&fakeBackend{typ: TypeURLBased, available: true},
			&tc.gemini,
		)
		if got := sel.Current(context.Background()).Type(); got != DefaultType {
			t.Fatalf("%s: got %s, want default", tc.name, got)
		}
	}
}

func TestSetCurrentPersistsImmediately(t *testing.T) {
	sel, settings := newTestSelector("",
		&fakeBackend{typ: TypeURLBased, available: true},
		&fakeBackend{typ: TypeLocalModel, available: true},
	)

	if err := sel.SetCurrent(context.Background(), TypeLocalModel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.settings.CurrentAssistant != "localModel" {
		t.Fatalf("persisted %q, want localModel", settings.settings.CurrentAssistant)
	}
}

func TestSetCurrentRejectsUnregisteredType(t *testing.T) {
	sel, _ := newTestSelector("", &fakeBackend{typ: TypeURLBased, available: true})
	if err := sel.SetCurrent(context.Background(), TypeGeminiAPI); err == nil {
		t.Fatal("expected error for unregistered type")
	}
}

func TestNewSessionUsesPreferences(t *testing.T) {
	sel, settings := newTestSelector("", &fakeBackend{typ: TypeURLBased, available: true})
	settings.settings.AutoSubmitOnSilence = true
	settings.settings.SilenceDuration = 1.5

	session, err := sel.NewSession(context.Background(), nil, Hooks{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.BackendType() != TypeURLBased {
		t.Fatalf("got %s, want urlBased", session.BackendType())
	}
}

package assistant

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"sidesearch/internal/models"
	"sidesearch/internal/repositories"
	"sidesearch/internal/services"
	"sidesearch/internal/urltemplate"
)

// urlSettingsKey is the fixed store key for the default search engine.
const urlSettingsKey = "defaultSearchEngine"

// URLBackend redirects the query to a configured URL template. It is the
// default backend: always available, never blocked.
type URLBackend struct {
	blobs   repositories.SettingBlobRepository
	presets *services.PresetService
	log     zerolog.Logger
}

func NewURLBackend(blobs repositories.SettingBlobRepository, presets *services.PresetService, log zerolog.Logger) *URLBackend {
	return &URLBackend{blobs: blobs, presets: presets, log: log}
}

func (b *URLBackend) Type() Type   { return TypeURLBased }
func (b *URLBackend) Name() string { return "Search Engine" }
func (b *URLBackend) Description() string {
	return "Opens your query with a URL you configure: an AI assistant, a search engine, or any app URL scheme. The destination opens in the in-app browser or the default app."
}

func (b *URLBackend) IsAvailable(ctx context.Context) bool { return true }
func (b *URLBackend) IsBlocked() bool                      { return false }

func (b *URLBackend) IsValidSettings(ctx context.Context) bool {
	engine := b.Load(ctx)
	_, err := urltemplate.BuildURL(engine.URL, "test", buildOptions(engine))
	return err == nil
}

// Load returns the saved engine, or the regional default when nothing is
// saved or the blob does not decode.
func (b *URLBackend) Load(ctx context.Context) models.SearchEngineModel {
	data, err := b.blobs.Load(ctx, urlSettingsKey)
	if err != nil {
		b.log.Warn().Err(err).Msg("load search engine settings")
	}
	if len(data) > 0 {
		if engine, err := models.SearchEngineModelFromJSON(data); err == nil {
			return *engine
		}
	}
	return b.presets.DefaultEngine()
}

func (b *URLBackend) Save(ctx context.Context, engine models.SearchEngineModel) error {
	// The embedded browser cannot load non-web schemes; pin the preference
	// whenever the template points outside the web.
	engine.OpenIn = EffectiveOpenIn(engine.URL, engine.OpenIn)
	data, err := engine.ToJSON()
	if err != nil {
		return fmt.Errorf("encode search engine settings: %w", err)
	}
	return b.blobs.Save(ctx, urlSettingsKey, data)
}

// NeedsQueryInput reports whether the configured template requires input
// before dispatch. A literal destination can be opened immediately.
func (b *URLBackend) NeedsQueryInput(ctx context.Context) bool {
	return urltemplate.NeedsQueryInput(b.Load(ctx).URL)
}

// OpenDirect resolves a literal template (no placeholder) into an open
// action without running a session.
func (b *URLBackend) OpenDirect(ctx context.Context) (*OpenAction, error) {
	engine := b.Load(ctx)
	u, err := urltemplate.BuildURL(engine.URL, "", buildOptions(engine))
	if err != nil {
		return nil, err
	}
	action := DecideOpen(u, EffectiveOpenIn(engine.URL, engine.OpenIn))
	return &action, nil
}

func (b *URLBackend) NewSession(ctx context.Context, cfg SessionConfig, hooks Hooks) (*Session, error) {
	engine := b.Load(ctx)
	return newSession(TypeURLBased, &urlResponder{engine: engine}, cfg, hooks, b.log), nil
}

type urlResponder struct {
	engine models.SearchEngineModel
}

func (r *urlResponder) respond(ctx context.Context, input string) (*reply, error) {
	u, err := urltemplate.BuildURL(r.engine.URL, input, buildOptions(r.engine))
	if err != nil {
		return nil, fmt.Errorf("invalid search URL, check your search engine settings: %w", err)
	}

	action := DecideOpen(u, EffectiveOpenIn(r.engine.URL, r.engine.OpenIn))
	return &reply{
		navigate: &action,
		sources:  []models.MessageSource{{Title: r.engine.Name, URL: u.String()}},
		dismiss:  action.Dismiss,
	}, nil
}

func buildOptions(engine models.SearchEngineModel) urltemplate.Options {
	opts := urltemplate.Options{DisablePercentEncoding: engine.DisablePercentEncoding}
	if engine.MaxQueryLength != nil {
		opts.MaxQueryLength = *engine.MaxQueryLength
	}
	return opts
}

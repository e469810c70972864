package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sidesearch/internal/llm/gemini"
	"sidesearch/internal/models"
	"sidesearch/internal/repositories"
	"sidesearch/internal/services"
)

const geminiSettingsKey = "geminiAPIAssistantSettings"

// GeminiBackend converses through the Gemini generateContent API with
// Google Search grounding. The API key lives in the system keyring.
type GeminiBackend struct {
	blobs   repositories.SettingBlobRepository
	keyring *services.KeyringService
	geo     *services.GeoService
	log     zerolog.Logger
	baseURL string
}

type GeminiBackendOption func(*GeminiBackend)

// WithGeminiBaseURL points sessions at a non-default API host.
func WithGeminiBaseURL(baseURL string) GeminiBackendOption {
	return func(b *GeminiBackend) { b.baseURL = baseURL }
}

func NewGeminiBackend(blobs repositories.SettingBlobRepository, keyring *services.KeyringService, geo *services.GeoService, log zerolog.Logger, opts ...GeminiBackendOption) *GeminiBackend {
	b := &GeminiBackend{blobs: blobs, keyring: keyring, geo: geo, log: log}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *GeminiBackend) Type() Type   { return TypeGeminiAPI }
func (b *GeminiBackend) Name() string { return "Gemini API" }
func (b *GeminiBackend) Description() string {
	return "Converses using Gemini provided by Google. You need an API key from Google AI Studio; you are responsible for the costs and agreements related to your usage."
}

func (b *GeminiBackend) IsAvailable(ctx context.Context) bool { return true }

func (b *GeminiBackend) IsBlocked() bool {
	return b.geo.Region() == "CN"
}

// IsValidSettings requires a selected model and a stored credential. The
// model catalog cache is advisory and is deliberately not consulted here.
func (b *GeminiBackend) IsValidSettings(ctx context.Context) bool {
	settings := b.Load(ctx)
	return strings.TrimSpace(settings.Model) != "" && b.keyring.HasAPIKey(services.GeminiKeyAccount)
}

func (b *GeminiBackend) Load(ctx context.Context) models.GeminiSettings {
	data, err := b.blobs.Load(ctx, geminiSettingsKey)
	if err != nil {
		b.log.Warn().Err(err).Msg("load gemini settings")
	}
	if len(data) > 0 {
		if settings, err := models.GeminiSettingsFromJSON(data); err == nil {
			return *settings
		}
	}
	return models.GeminiSettings{}
}

func (b *GeminiBackend) Save(ctx context.Context, settings models.GeminiSettings) error {
	data, err := settings.ToJSON()
	if err != nil {
		return fmt.Errorf("encode gemini settings: %w", err)
	}
	return b.blobs.Save(ctx, geminiSettingsKey, data)
}

func (b *GeminiBackend) NewSession(ctx context.Context, cfg SessionConfig, hooks Hooks) (*Session, error) {
	settings := b.Load(ctx)
	if strings.TrimSpace(settings.Model) == "" {
		return nil, fmt.Errorf("no Gemini model selected")
	}
	apiKey, err := b.keyring.GetAPIKey(services.GeminiKeyAccount)
	if err != nil {
		return nil, fmt.Errorf("load API key: %w", err)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no Gemini API key configured")
	}

	var clientOpts []gemini.Option
	if b.baseURL != "" {
		clientOpts = append(clientOpts, gemini.WithBaseURL(b.baseURL))
	}
	responder := &geminiResponder{
		client:       gemini.NewClient(apiKey, clientOpts...),
		model:        settings.Model,
		instructions: settings.CustomInstructions,
	}
	return newSession(TypeGeminiAPI, responder, cfg, hooks, b.log), nil
}

// geminiResponder holds the role-tagged turn history sent as context on
// every call. This is distinct from the session's display transcript.
type geminiResponder struct {
	client       *gemini.Client
	model        string
	instructions string
	history      []gemini.Content
}

func (r *geminiResponder) respond(ctx context.Context, input string) (*reply, error) {
	userTurn := gemini.UserTurn(input)
	contents := make([]gemini.Content, 0, len(r.history)+1)
	contents = append(contents, r.history...)
	contents = append(contents, userTurn)

	candidate, err := r.client.Generate(ctx, r.model, contents, r.instructions)
	if err != nil {
		// No phantom turn for a failed call; history stays as it was.
		return nil, err
	}

	r.history = append(r.history, userTurn, candidate.Content)

	msg := models.NewAssistantMessage(models.SenderAssistant, candidate.Text())
	for _, src := range candidate.Sources() {
		msg.Sources = append(msg.Sources, models.MessageSource{Title: src.Title, URL: src.URI})
	}
	return &reply{message: &msg}, nil
}

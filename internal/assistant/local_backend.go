package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sidesearch/internal/llm/local"
	"sidesearch/internal/models"
	"sidesearch/internal/repositories"
)

const localSettingsKey = "localModelSettings"

// DefaultLocalModel is used when the settings do not name a model.
const DefaultLocalModel = "llama3.2"

// LocalModelBackend generates responses with a model runtime on this
// machine. Availability is a live probe; no network account is involved.
type LocalModelBackend struct {
	blobs repositories.SettingBlobRepository
	log   zerolog.Logger
}

func NewLocalModelBackend(blobs repositories.SettingBlobRepository, log zerolog.Logger) *LocalModelBackend {
	return &LocalModelBackend{blobs: blobs, log: log}
}

func (b *LocalModelBackend) Type() Type   { return TypeLocalModel }
func (b *LocalModelBackend) Name() string { return "Local Model" }
func (b *LocalModelBackend) Description() string {
	return "Converses with a language model running on this machine. Nothing leaves your device. Requires a local model runtime to be installed and running."
}

func (b *LocalModelBackend) IsAvailable(ctx context.Context) bool {
	settings := b.Load(ctx)
	return local.NewClient(settings.BaseURL).Available(ctx)
}

func (b *LocalModelBackend) IsBlocked() bool { return false }

// IsValidSettings only requires the local capability to be present; there
// is no credential or identifier to validate.
func (b *LocalModelBackend) IsValidSettings(ctx context.Context) bool {
	return b.IsAvailable(ctx)
}

func (b *LocalModelBackend) Load(ctx context.Context) models.LocalModelSettings {
	data, err := b.blobs.Load(ctx, localSettingsKey)
	if err != nil {
		b.log.Warn().Err(err).Msg("load local model settings")
	}
	if len(data) > 0 {
		if settings, err := models.LocalModelSettingsFromJSON(data); err == nil {
			return *settings
		}
	}
	return models.DefaultLocalModelSettings()
}

func (b *LocalModelBackend) Save(ctx context.Context, settings models.LocalModelSettings) error {
	data, err := settings.ToJSON()
	if err != nil {
		return fmt.Errorf("encode local model settings: %w", err)
	}
	return b.blobs.Save(ctx, localSettingsKey, data)
}

func (b *LocalModelBackend) NewSession(ctx context.Context, cfg SessionConfig, hooks Hooks) (*Session, error) {
	settings := b.Load(ctx)
	model := settings.Model
	if strings.TrimSpace(model) == "" {
		model = DefaultLocalModel
	}
	responder := &localResponder{
		client:       local.NewClient(settings.BaseURL),
		model:        model,
		instructions: settings.CustomInstructions,
	}
	return newSession(TypeLocalModel, responder, cfg, hooks, b.log), nil
}

// localResponder keeps its own turn history so each call carries the whole
// conversation, prefixed with the custom instructions when set.
type localResponder struct {
	client       *local.Client
	model        string
	instructions string
	history      []local.Message
}

func (r *localResponder) respond(ctx context.Context, input string) (*reply, error) {
	// The runtime may have gone away since the backend was selected.
	if !r.client.Available(ctx) {
		return nil, ErrCapabilityUnavailable
	}

	userTurn := local.Message{Role: "user", Content: input}
	messages := make([]local.Message, 0, len(r.history)+2)
	if strings.TrimSpace(r.instructions) != "" {
		messages = append(messages, local.Message{Role: "system", Content: r.instructions})
	}
	messages = append(messages, r.history...)
	messages = append(messages, userTurn)

	text, err := r.client.Chat(ctx, r.model, messages)
	if err != nil {
		// A failed call records no turn.
		return nil, err
	}

	r.history = append(r.history, userTurn, local.Message{Role: "assistant", Content: text})
	msg := models.NewAssistantMessage(models.SenderAssistant, text)
	return &reply{message: &msg}, nil
}

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm/logger"

	"sidesearch/internal/assistant"
	"sidesearch/internal/database"
	"sidesearch/internal/events"
	"sidesearch/internal/models"
	"sidesearch/internal/repositories"
	"sidesearch/internal/services"
)

// App wires the database, services, and assistant backends together. It is
// the single composition root shared by all commands.
type App struct {
	ctx context.Context
	log zerolog.Logger

	AppSettings services.AppSettingsService
	Keyring     *services.KeyringService
	Geo         *services.GeoService
	Presets     *services.PresetService
	Catalog     services.ModelCatalogService

	Blobs   repositories.SettingBlobRepository
	History repositories.ChatHistoryRepository

	URLBackend   *assistant.URLBackend
	LocalBackend *assistant.LocalModelBackend
	Gemini       *assistant.GeminiBackend
	Selector     *assistant.Selector

	dbClose func() error
}

func NewApp(log zerolog.Logger) *App {
	return &App{log: log}
}

// Startup opens the database and builds the service graph.
func (a *App) Startup(ctx context.Context, dbPath string) error {
	a.ctx = ctx

	db, err := database.Init(database.Config{
		Path:     dbPath,
		LogLevel: logger.Warn,
		Logger:   a.log,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		a.dbClose = sqlDB.Close
	}

	a.Blobs = repositories.NewSettingBlobRepository(db)
	a.History = repositories.NewChatHistoryRepository(db)
	a.AppSettings = services.NewAppSettingsService(repositories.NewAppSettingsRepository(db))

	a.Keyring = services.NewKeyringService()
	a.Geo = services.NewGeoService()
	a.Presets, err = services.NewPresetService(a.Geo)
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}
	a.Catalog = services.NewModelCatalogService(a.Keyring, a.log)

	a.URLBackend = assistant.NewURLBackend(a.Blobs, a.Presets, a.log)
	a.LocalBackend = assistant.NewLocalModelBackend(a.Blobs, a.log)
	a.Gemini = assistant.NewGeminiBackend(a.Blobs, a.Keyring, a.Geo, a.log)

	registry := assistant.NewRegistry(a.URLBackend, a.LocalBackend, a.Gemini)
	a.Selector = assistant.NewSelector(registry, a.AppSettings, a.log)
	return nil
}

// Shutdown releases the database connection.
func (a *App) Shutdown() {
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			a.log.Error().Err(err).Msg("close database")
		}
	}
}

// Activation is the outcome of activating the current assistant: either an
// immediate destination to open, or a live interactive session.
type Activation struct {
	Open    *assistant.OpenAction
	Session *assistant.Session
}

// emitHooks forwards session traffic to hooks and mirrors it onto the
// event emitter so an attached UI layer sees the same stream.
func emitHooks(ctx context.Context, hooks assistant.Hooks) assistant.Hooks {
	return assistant.Hooks{
		OnMessage: func(msg models.AssistantMessage) {
			evt := events.NewInfo(msg.Content)
			evt.Payload = msg
			events.Emit(ctx, events.AssistantMessage, evt)
			if hooks.OnMessage != nil {
				hooks.OnMessage(msg)
			}
		},
		OnNavigate: func(action assistant.OpenAction) {
			events.Emit(ctx, events.AssistantNavigate, events.NewInfo(action.URL.String()))
			if hooks.OnNavigate != nil {
				hooks.OnNavigate(action)
			}
		},
		OnDismiss: func() {
			events.Emit(ctx, events.AssistantDismiss, events.NewInfo("session dismissed"))
			if hooks.OnDismiss != nil {
				hooks.OnDismiss()
			}
		},
		OnStateChange: func(state assistant.State) {
			events.Emit(ctx, events.AssistantState, events.NewInfo(string(state)))
			if hooks.OnStateChange != nil {
				hooks.OnStateChange(state)
			}
		},
	}
}

// Activate resolves the current backend and decides between immediate
// dispatch and an interactive session. A URL backend whose template has no
// query placeholder is a plain bookmark: it opens right away, no session.
func (a *App) Activate(ctx context.Context, capture assistant.SpeechCapture, hooks assistant.Hooks) (*Activation, error) {
	backend := a.Selector.Current(ctx)

	if backend.Type() == assistant.TypeURLBased && !a.URLBackend.NeedsQueryInput(ctx) {
		engine := a.URLBackend.Load(ctx)
		action, err := a.URLBackend.OpenDirect(ctx)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", engine.Name, err)
		}
		return &Activation{Open: action}, nil
	}

	session, err := a.Selector.NewSession(ctx, capture, emitHooks(ctx, hooks))
	if err != nil {
		return nil, err
	}
	session.Start(ctx)
	return &Activation{Session: session}, nil
}

// SaveHistory persists a finished session's transcript. Empty transcripts
// are skipped.
func (a *App) SaveHistory(session *assistant.Session) error {
	messages := session.Messages()
	if len(messages) == 0 {
		return nil
	}
	history, err := models.NewChatHistory(string(session.BackendType()), messages)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return a.History.Create(history)
}

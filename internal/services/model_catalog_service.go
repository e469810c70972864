package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"sidesearch/internal/events"
	"sidesearch/internal/llm/gemini"
)

// GeminiKeyAccount is the fixed keyring account holding the Gemini API key.
const GeminiKeyAccount = "geminiAPIKey"

// ModelCatalogService keeps a process-wide cache of cloud model
// identifiers. The cache is advisory: settings validation must work with
// an empty cache, and concurrent refreshes are last-writer-wins.
type ModelCatalogService interface {
	Refresh(ctx context.Context) ([]string, error)
	Models() []string
}

type modelCatalogService struct {
	keyring *KeyringService
	log     zerolog.Logger
	baseURL string

	mu     sync.RWMutex
	models []string
}

type ModelCatalogOption func(*modelCatalogService)

// WithCatalogBaseURL points the service at a non-default API host.
func WithCatalogBaseURL(baseURL string) ModelCatalogOption {
	return func(s *modelCatalogService) { s.baseURL = baseURL }
}

func NewModelCatalogService(keyring *KeyringService, log zerolog.Logger, opts ...ModelCatalogOption) ModelCatalogService {
	s := &modelCatalogService{keyring: keyring, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *modelCatalogService) Refresh(ctx context.Context) ([]string, error) {
	apiKey, err := s.keyring.GetAPIKey(GeminiKeyAccount)
	if err != nil {
		return nil, fmt.Errorf("load API key: %w", err)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured for %s", GeminiKeyAccount)
	}

	var clientOpts []gemini.Option
	if s.baseURL != "" {
		clientOpts = append(clientOpts, gemini.WithBaseURL(s.baseURL))
	}
	ids, err := gemini.NewClient(apiKey, clientOpts...).ListModels(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("model catalog refresh failed")
		return nil, err
	}

	s.mu.Lock()
	s.models = ids
	s.mu.Unlock()

	s.log.Info().Int("count", len(ids)).Msg("model catalog refreshed")
	events.Emit(ctx, events.ModelsRefreshed, events.NewSuccess(fmt.Sprintf("%d models available", len(ids))))
	return ids, nil
}

// Models returns the cached identifiers; empty means "not refreshed yet"
// and is a valid state.
func (s *modelCatalogService) Models() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.models))
	copy(out, s.models)
	return out
}

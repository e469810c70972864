package services

import (
	"context"
	"errors"
	"time"

	"sidesearch/internal/events"
	"sidesearch/internal/models"
	"sidesearch/internal/repositories"
)

// AppSettingsService reads and writes the global preference row. Every
// change is written through immediately; there is no batching.
type AppSettingsService interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Update(ctx context.Context, mutate func(*models.AppSettings)) (*models.AppSettings, error)
	CurrentAssistantID(ctx context.Context) string
	SetCurrentAssistantID(ctx context.Context, id string) error
}

type appSettingsService struct {
	repo repositories.AppSettingsRepository
}

func NewAppSettingsService(repo repositories.AppSettingsRepository) AppSettingsService {
	return &appSettingsService{repo: repo}
}

func (s *appSettingsService) Get(ctx context.Context) (*models.AppSettings, error) {
	return s.repo.Get(ctx)
}

// Update applies mutate to the current row and persists the result.
func (s *appSettingsService) Update(ctx context.Context, mutate func(*models.AppSettings)) (*models.AppSettings, error) {
	if mutate == nil {
		return nil, errors.New("mutate function is required")
	}
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	mutate(current)
	current.OpenIn = string(models.ParseOpenInOption(current.OpenIn))
	if current.SilenceDuration <= 0 {
		current.SilenceDuration = 2.0
	}
	current.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	events.Emit(ctx, events.SettingsChanged, events.NewInfo("app settings updated"))
	return current, nil
}

func (s *appSettingsService) CurrentAssistantID(ctx context.Context) string {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return ""
	}
	return settings.CurrentAssistant
}

func (s *appSettingsService) SetCurrentAssistantID(ctx context.Context, id string) error {
	_, err := s.Update(ctx, func(settings *models.AppSettings) {
		settings.CurrentAssistant = id
	})
	return err
}

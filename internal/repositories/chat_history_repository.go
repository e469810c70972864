package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"sidesearch/internal/models"
)

type ChatHistoryRepository interface {
	Create(history *models.ChatHistory) error
	ListRecent(limit int) ([]models.ChatHistory, error)
	DeleteByID(id uint) error
	DeleteAll() error
}

type chatHistoryRepository struct {
	db *gorm.DB
}

func NewChatHistoryRepository(db *gorm.DB) ChatHistoryRepository {
	return &chatHistoryRepository{db: db}
}

func (r *chatHistoryRepository) Create(history *models.ChatHistory) error {
	if history == nil {
		return fmt.Errorf("history is required")
	}
	return r.db.Create(history).Error
}

func (r *chatHistoryRepository) ListRecent(limit int) ([]models.ChatHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	var histories []models.ChatHistory
	if err := r.db.Order("date desc").Limit(limit).Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}

func (r *chatHistoryRepository) DeleteByID(id uint) error {
	if id == 0 {
		return fmt.Errorf("history ID is required")
	}
	return r.db.Delete(&models.ChatHistory{}, id).Error
}

func (r *chatHistoryRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&models.ChatHistory{}).Error
}

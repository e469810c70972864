package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sidesearch/internal/models"
)

// SettingBlobRepository stores per-backend settings documents as opaque
// JSON, one row per fixed key. Saves overwrite the whole value; the store
// is atomic per key.
type SettingBlobRepository interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type settingBlobRepository struct {
	db *gorm.DB
}

func NewSettingBlobRepository(db *gorm.DB) SettingBlobRepository {
	return &settingBlobRepository{db: db}
}

// Load returns the stored document, or nil when no row exists. Callers fall
// back to a fresh default model on nil or on decode failure.
func (r *settingBlobRepository) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("settings key is required")
	}
	var blob models.SettingBlob
	if err := r.db.WithContext(ctx).Where("key = ?", key).Take(&blob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(blob.Value), nil
}

func (r *settingBlobRepository) Save(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("settings key is required")
	}
	blob := models.SettingBlob{Key: key, Value: string(value)}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      string(value),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&blob).Error
}

func (r *settingBlobRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("settings key is required")
	}
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.SettingBlob{}).Error
}

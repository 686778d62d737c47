package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// GetAll retrieves every stored setting override
func (r *settingsRepository) GetAll(ctx context.Context) ([]entity.AppSetting, error) {
	var settings []entity.AppSetting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}

// Upsert inserts or replaces a setting
func (r *settingsRepository) Upsert(ctx context.Context, setting *entity.AppSetting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(setting).Error
}

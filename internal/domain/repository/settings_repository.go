package repository

import (
	"context"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
)

// SettingsRepository defines the interface for engine settings overrides
type SettingsRepository interface {
	GetAll(ctx context.Context) ([]entity.AppSetting, error)
	Upsert(ctx context.Context, setting *entity.AppSetting) error
}

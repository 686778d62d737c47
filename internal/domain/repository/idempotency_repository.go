package repository

import (
	"context"
	"time"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	GetByKey(ctx context.Context, key string, actorID int64) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

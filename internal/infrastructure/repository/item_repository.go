package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	domainRepo "github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/pagination"
)

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) domainRepo.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) FindByID(ctx context.Context, id int64) (*entity.Item, error) {
	var item entity.Item
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, filter domainRepo.ItemFilter, params *pagination.PaginationParams) ([]entity.Item, int64, error) {
	var items []entity.Item
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Item{})
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR size_label ILIKE ?", search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).Order("name ASC, id ASC").Find(&items).Error
	return items, total, err
}

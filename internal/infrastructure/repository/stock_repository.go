package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	domainRepo "github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
)

type stockMovementRepository struct {
	db *gorm.DB
}

// NewStockMovementRepository creates a repository over sale and return lines
func NewStockMovementRepository(db *gorm.DB) domainRepo.StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) SumSold(ctx context.Context, itemID int64) (decimal.Decimal, error) {
	return r.sumQty(ctx, &entity.SaleLine{}, itemID)
}

func (r *stockMovementRepository) SumReturned(ctx context.Context, itemID int64) (decimal.Decimal, error) {
	return r.sumQty(ctx, &entity.ReturnLine{}, itemID)
}

func (r *stockMovementRepository) sumQty(ctx context.Context, model interface{}, itemID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(model).
		Select("COALESCE(SUM(qty), 0)").
		Where("item_id = ?", itemID).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *stockMovementRepository) CountSaleLines(ctx context.Context, itemID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.SaleLine{}).
		Where("item_id = ?", itemID).
		Count(&count).Error
	return count, err
}

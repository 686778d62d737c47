package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	domainRepo "github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) FindByID(ctx context.Context, id int64) (*entity.Receipt, error) {
	return r.find(r.db.WithContext(ctx), id)
}

func (r *receiptRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Receipt, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *receiptRepository) find(db *gorm.DB, id int64) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := db.First(&receipt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) ListByItem(ctx context.Context, itemID int64) ([]entity.Receipt, error) {
	var receipts []entity.Receipt
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("id ASC").
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

// Update overwrites every editable column, zero values included
func (r *receiptRepository) Update(ctx context.Context, receipt *entity.Receipt) error {
	return r.db.WithContext(ctx).
		Model(receipt).
		Select("qty_in", "qty_damaged", "price_per_unit", "price_per_area",
			"transport_pct", "transport_per_unit", "transport_total",
			"purchase_date", "purchase_date_raw", "vendor", "notes", "updated_at").
		Updates(receipt).Error
}

func (r *receiptRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&entity.Receipt{}, id).Error
}

package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	domainRepo "github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) FindByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).First(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ListIDs(ctx context.Context, from, to *time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&entity.Invoice{}).
		Scopes(DateBetween("invoice_date", from, to)).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *invoiceRepository) ListWithoutSalesUser(ctx context.Context) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).
		Where("sales_user_id IS NULL").
		Order("id ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) SetSalesUser(ctx context.Context, invoiceID, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&entity.Invoice{}).
		Where("id = ?", invoiceID).
		Updates(map[string]interface{}{
			"sales_user_id": userID,
			"updated_at":    time.Now(),
		}).Error
}

func (r *invoiceRepository) ListLines(ctx context.Context, invoiceID int64) ([]entity.SaleLine, error) {
	var lines []entity.SaleLine
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id ASC").
		Find(&lines).Error
	return lines, err
}

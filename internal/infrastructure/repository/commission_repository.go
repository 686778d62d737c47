package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
	domainRepo "github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/pagination"
)

type commissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository creates a new commission repository
func NewCommissionRepository(db *gorm.DB) domainRepo.CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) FindActiveRate(ctx context.Context, scope enum.CommissionScope, scopeID int64) (*entity.CommissionRate, error) {
	query := r.db.WithContext(ctx).Where("scope = ? AND active = ?", scope, true)
	if scope != enum.CommissionScopeGlobal {
		query = query.Where("scope_id = ?", scopeID)
	}

	var rate entity.CommissionRate
	err := query.Order("id DESC").First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *commissionRepository) FindRateByID(ctx context.Context, id int64) (*entity.CommissionRate, error) {
	var rate entity.CommissionRate
	err := r.db.WithContext(ctx).First(&rate, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *commissionRepository) CreateRate(ctx context.Context, rate *entity.CommissionRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *commissionRepository) DeactivateRate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&entity.CommissionRate{}).
		Where("id = ?", id).
		Update("active", false).Error
}

func (r *commissionRepository) ListRates(ctx context.Context, activeOnly bool) ([]entity.CommissionRate, error) {
	var rates []entity.CommissionRate
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("scope ASC, id DESC").Find(&rates).Error
	return rates, err
}

func (r *commissionRepository) FindLedgerByInvoice(ctx context.Context, invoiceID int64) (*entity.CommissionLedgerEntry, error) {
	var entry entity.CommissionLedgerEntry
	err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *commissionRepository) CreateLedger(ctx context.Context, entry *entity.CommissionLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *commissionRepository) UpdateLedger(ctx context.Context, entry *entity.CommissionLedgerEntry, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(entry).
		Select(columns).
		Updates(entry).Error
}

func (r *commissionRepository) ListLedger(ctx context.Context, filter domainRepo.LedgerFilter, params *pagination.PaginationParams) ([]entity.CommissionLedgerEntry, int64, error) {
	var entries []entity.CommissionLedgerEntry
	var total int64

	query := r.ledgerQuery(ctx, filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Invoice").
		Preload("Salesperson").
		Scopes(Paginate(params)).
		Order("commission_ledger.id DESC").
		Find(&entries).Error
	return entries, total, err
}

func (r *commissionRepository) AllLedger(ctx context.Context, filter domainRepo.LedgerFilter) ([]entity.CommissionLedgerEntry, error) {
	var entries []entity.CommissionLedgerEntry
	err := r.ledgerQuery(ctx, filter).
		Preload("Invoice").
		Preload("Salesperson").
		Order("commission_ledger.id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *commissionRepository) ledgerQuery(ctx context.Context, filter domainRepo.LedgerFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&entity.CommissionLedgerEntry{}).
		Joins("JOIN invoices ON invoices.id = commission_ledger.invoice_id")

	if filter.Status != nil {
		query = query.Where("commission_ledger.status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("commission_ledger.salesperson_user_id = ?", *filter.UserID)
	}
	return query.Scopes(DateBetween("invoices.invoice_date", filter.From, filter.To))
}

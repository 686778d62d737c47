package repository

import (
	"context"

	"gorm.io/gorm"

	domainRepo "github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
)

// NewRepositories binds every repository to db, which may be a transaction
func NewRepositories(db *gorm.DB) domainRepo.Repositories {
	return domainRepo.Repositories{
		Items:       NewItemRepository(db),
		Receipts:    NewReceiptRepository(db),
		Stock:       NewStockMovementRepository(db),
		Invoices:    NewInvoiceRepository(db),
		Users:       NewUserRepository(db),
		Commissions: NewCommissionRepository(db),
		Settings:    NewSettingsRepository(db),
	}
}

type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a unit of work over gorm transactions
func NewUnitOfWork(db *gorm.DB) domainRepo.UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(repos domainRepo.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

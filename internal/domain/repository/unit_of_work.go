package repository

import "context"

// Repositories groups the repositories bound to one connection or transaction
type Repositories struct {
	Items       ItemRepository
	Receipts    ReceiptRepository
	Stock       StockMovementRepository
	Invoices    InvoiceRepository
	Users       UserRepository
	Commissions CommissionRepository
	Settings    SettingsRepository
}

// UnitOfWork runs fn against repositories sharing a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}

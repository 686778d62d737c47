package repository

import (
	"context"
	"time"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/pagination"
)

// LedgerFilter narrows ledger listings
type LedgerFilter struct {
	Status *enum.CommissionStatus
	UserID *int64
	From   *time.Time
	To     *time.Time
}

// CommissionRepository defines the interface for commission rates and the ledger
type CommissionRepository interface {
	// FindActiveRate returns the most recently created active rate for the
	// scope. scopeID is ignored for GLOBAL.
	FindActiveRate(ctx context.Context, scope enum.CommissionScope, scopeID int64) (*entity.CommissionRate, error)
	FindRateByID(ctx context.Context, id int64) (*entity.CommissionRate, error)
	CreateRate(ctx context.Context, rate *entity.CommissionRate) error
	DeactivateRate(ctx context.Context, id int64) error
	ListRates(ctx context.Context, activeOnly bool) ([]entity.CommissionRate, error)

	FindLedgerByInvoice(ctx context.Context, invoiceID int64) (*entity.CommissionLedgerEntry, error)
	CreateLedger(ctx context.Context, entry *entity.CommissionLedgerEntry) error
	// UpdateLedger writes only the named columns of entry
	UpdateLedger(ctx context.Context, entry *entity.CommissionLedgerEntry, columns ...string) error
	ListLedger(ctx context.Context, filter LedgerFilter, params *pagination.PaginationParams) ([]entity.CommissionLedgerEntry, int64, error)
	// AllLedger returns every ledger entry matching filter, for exports
	AllLedger(ctx context.Context, filter LedgerFilter) ([]entity.CommissionLedgerEntry, error)
}

package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/pagination"
)

// ItemFilter narrows item listings
type ItemFilter struct {
	Kind   enum.ItemKind
	Search string
}

// ItemRepository defines the interface for item data access
type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Item, error)
	List(ctx context.Context, filter ItemFilter, params *pagination.PaginationParams) ([]entity.Item, int64, error)
}

// ReceiptRepository defines the interface for receipt data access
type ReceiptRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Receipt, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id int64) (*entity.Receipt, error)
	// ListByItem returns every receipt of an item ordered by id
	ListByItem(ctx context.Context, itemID int64) ([]entity.Receipt, error)
	Create(ctx context.Context, receipt *entity.Receipt) error
	Update(ctx context.Context, receipt *entity.Receipt) error
	Delete(ctx context.Context, id int64) error
}

// StockMovementRepository aggregates sale and return lines per item
type StockMovementRepository interface {
	SumSold(ctx context.Context, itemID int64) (decimal.Decimal, error)
	SumReturned(ctx context.Context, itemID int64) (decimal.Decimal, error)
	CountSaleLines(ctx context.Context, itemID int64) (int64, error)
}

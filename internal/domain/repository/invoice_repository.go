package repository

import (
	"context"
	"time"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Invoice, error)
	// ListIDs returns invoice ids dated within [from, to]. A nil bound is open.
	ListIDs(ctx context.Context, from, to *time.Time) ([]int64, error)
	// ListWithoutSalesUser returns invoices whose sales_user_id is not set
	ListWithoutSalesUser(ctx context.Context) ([]entity.Invoice, error)
	SetSalesUser(ctx context.Context, invoiceID, userID int64) error
	// ListLines returns the sale lines of an invoice ordered by id
	ListLines(ctx context.Context, invoiceID int64) ([]entity.SaleLine, error)
}

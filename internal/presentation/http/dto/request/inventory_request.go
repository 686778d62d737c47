package request

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/costing"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
)

// ReceiptRequest carries the editable fields of a receipt. Numbers may be
// sent as JSON numbers or strings.
type ReceiptRequest struct {
	QtyIn            decimal.Decimal `json:"qty_in"`
	QtyDamaged       decimal.Decimal `json:"qty_damaged"`
	PricePerUnit     decimal.Decimal `json:"price_per_unit"`
	PricePerArea     decimal.Decimal `json:"price_per_area"`
	TransportPct     decimal.Decimal `json:"transport_pct"`
	TransportPerUnit decimal.Decimal `json:"transport_per_unit"`
	TransportTotal   decimal.Decimal `json:"transport_total"`
	PurchaseDate     *string         `json:"purchase_date"`
	Vendor           string          `json:"vendor" binding:"omitempty,max=200"`
	Notes            string          `json:"notes" binding:"omitempty,max=2000"`
}

// ErrInvalidPurchaseDate is returned for dates not in YYYY-MM-DD or DD-MM-YYYY form
var ErrInvalidPurchaseDate = errors.New("purchase_date must be YYYY-MM-DD or DD-MM-YYYY")

// ToFields converts the request into receipt fields
func (r *ReceiptRequest) ToFields() (entity.ReceiptFields, error) {
	f := entity.ReceiptFields{
		QtyIn:            r.QtyIn,
		QtyDamaged:       r.QtyDamaged,
		PricePerUnit:     r.PricePerUnit,
		PricePerArea:     r.PricePerArea,
		TransportPct:     r.TransportPct,
		TransportPerUnit: r.TransportPerUnit,
		TransportTotal:   r.TransportTotal,
		Vendor:           strings.TrimSpace(r.Vendor),
		Notes:            r.Notes,
	}
	if r.PurchaseDate != nil && strings.TrimSpace(*r.PurchaseDate) != "" {
		d, ok := costing.ParseLegacyDate(*r.PurchaseDate)
		if !ok {
			return f, ErrInvalidPurchaseDate
		}
		f.PurchaseDate = &d
	}
	return f, nil
}

// LandedCostRequest previews costing for unsaved receipt values
type LandedCostRequest struct {
	ReceiptRequest
	Kind           enum.ItemKind   `json:"kind" binding:"required"`
	AreaPerPackage decimal.Decimal `json:"area_per_package"`
}

// ItemFilterRequest represents item filter parameters
type ItemFilterRequest struct {
	Kind    string `form:"kind"`
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

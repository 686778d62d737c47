package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is one purchase line for an item. Pricing and quantity fields are
// overwritten as a whole by inventory edits.
type Receipt struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID           int64           `gorm:"not null;index" json:"item_id"`
	QtyIn            decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"qty_in"`
	QtyDamaged       decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"qty_damaged"`
	PricePerUnit     decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"price_per_unit"`
	PricePerArea     decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"price_per_area"`
	TransportPct     decimal.Decimal `gorm:"type:numeric(7,4);not null;default:0" json:"transport_pct"`
	TransportPerUnit decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"transport_per_unit"`
	TransportTotal   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"transport_total"`
	PurchaseDate     *time.Time      `gorm:"type:date" json:"purchase_date,omitempty"`
	PurchaseDateRaw  *string         `gorm:"size:32" json:"-"` // legacy free-text date, read only for undated rows
	Vendor           string          `gorm:"size:200" json:"vendor,omitempty"`
	Notes            string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// ReceiptFields is the editable part of a receipt, shared by purchase entry
// and inventory edits.
type ReceiptFields struct {
	QtyIn            decimal.Decimal `json:"qty_in" validate:"gte=0"`
	QtyDamaged       decimal.Decimal `json:"qty_damaged" validate:"gte=0"`
	PricePerUnit     decimal.Decimal `json:"price_per_unit" validate:"gte=0"`
	PricePerArea     decimal.Decimal `json:"price_per_area" validate:"gte=0"`
	TransportPct     decimal.Decimal `json:"transport_pct" validate:"gte=0,lte=100"`
	TransportPerUnit decimal.Decimal `json:"transport_per_unit" validate:"gte=0"`
	TransportTotal   decimal.Decimal `json:"transport_total" validate:"gte=0"`
	PurchaseDate     *time.Time      `json:"purchase_date,omitempty"`
	Vendor           string          `json:"vendor" validate:"max=200"`
	Notes            string          `json:"notes"`
}

// Apply overwrites the receipt's editable fields.
func (r *Receipt) Apply(f ReceiptFields) {
	r.QtyIn = f.QtyIn
	r.QtyDamaged = f.QtyDamaged
	r.PricePerUnit = f.PricePerUnit
	r.PricePerArea = f.PricePerArea
	r.TransportPct = f.TransportPct
	r.TransportPerUnit = f.TransportPerUnit
	r.TransportTotal = f.TransportTotal
	r.PurchaseDate = f.PurchaseDate
	if f.PurchaseDate != nil {
		r.PurchaseDateRaw = nil
	}
	r.Vendor = f.Vendor
	r.Notes = f.Notes
}

// Fields returns the editable part of the receipt.
func (r *Receipt) Fields() ReceiptFields {
	return ReceiptFields{
		QtyIn:            r.QtyIn,
		QtyDamaged:       r.QtyDamaged,
		PricePerUnit:     r.PricePerUnit,
		PricePerArea:     r.PricePerArea,
		TransportPct:     r.TransportPct,
		TransportPerUnit: r.TransportPerUnit,
		TransportTotal:   r.TransportTotal,
		PurchaseDate:     r.PurchaseDate,
		Vendor:           r.Vendor,
		Notes:            r.Notes,
	}
}

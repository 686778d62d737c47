package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
)

// CommissionRate is a percentage scoped to an invoice, quotation, user or
// the whole business. Within a scope the most recently created active row wins.
type CommissionRate struct {
	ID        int64                `gorm:"primaryKey;autoIncrement" json:"id"`
	Scope     enum.CommissionScope `gorm:"type:varchar(16);not null;index:idx_commission_rates_scope" json:"scope"`
	ScopeID   *int64               `gorm:"index:idx_commission_rates_scope" json:"scope_id,omitempty"`
	Pct       decimal.Decimal      `gorm:"type:numeric(7,4);not null" json:"pct"`
	Active    bool                 `gorm:"not null;default:true" json:"active"`
	Notes     string               `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// TableName returns the table name for the CommissionRate model
func (CommissionRate) TableName() string {
	return "commission_rates"
}

// CommissionLedgerEntry is the persisted commission for one invoice.
type CommissionLedgerEntry struct {
	ID                int64                 `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceID         int64                 `gorm:"uniqueIndex;not null" json:"invoice_id"`
	SalespersonUserID int64                 `gorm:"not null;index" json:"salesperson_user_id"`
	BaseAmount        decimal.Decimal       `gorm:"type:numeric(14,2);not null" json:"base_amount"`
	Pct               decimal.Decimal       `gorm:"type:numeric(7,4);not null" json:"pct"`
	Amount            decimal.Decimal       `gorm:"type:numeric(14,2);not null" json:"amount"`
	Status            enum.CommissionStatus `gorm:"type:varchar(16);not null;default:PENDING;index" json:"status"`
	PaidOn            *time.Time            `json:"paid_on,omitempty"`
	Reference         string                `gorm:"size:100" json:"reference,omitempty"`
	Notes             string                `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`

	Invoice     *Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	Salesperson *User    `gorm:"foreignKey:SalespersonUserID" json:"salesperson,omitempty"`
}

// TableName returns the table name for the CommissionLedgerEntry model
func (CommissionLedgerEntry) TableName() string {
	return "commission_ledger"
}

// IsPaid reports whether the entry is frozen against automatic resync.
func (e *CommissionLedgerEntry) IsPaid() bool {
	return e.Status == enum.CommissionStatusPaid
}

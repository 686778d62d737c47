package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a completed sale. Total is the final, post-discount amount.
type Invoice struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceNo    string          `gorm:"size:50;uniqueIndex;not null" json:"invoice_no"`
	InvoiceDate  *time.Time      `gorm:"type:date;index" json:"invoice_date,omitempty"`
	CustomerName string          `gorm:"size:200" json:"customer_name,omitempty"`
	Subtotal     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"subtotal"`
	Discount     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"discount"`
	Total        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"total"`
	QuotationID  *int64          `gorm:"index" json:"quotation_id,omitempty"`
	SalesUserID  *int64          `gorm:"index" json:"sales_user_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	LegacySalesperson

	Lines []SaleLine `gorm:"foreignKey:InvoiceID" json:"lines,omitempty"`
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// LegacySalesperson holds the free-text salesperson columns written by the
// old invoicing screens. They are read only by the sales-user backfill.
type LegacySalesperson struct {
	LegacySalesUser     string `gorm:"column:sales_user;size:150" json:"-"`
	LegacySalesperson   string `gorm:"column:salesperson;size:150" json:"-"`
	LegacyCreatedBy     string `gorm:"column:created_by;size:150" json:"-"`
	LegacyUserName      string `gorm:"column:user_name;size:150" json:"-"`
	LegacyCreatedUser   string `gorm:"column:created_user;size:150" json:"-"`
	LegacyCreatedByUser string `gorm:"column:created_by_user;size:150" json:"-"`
}

// Candidates returns the non-empty legacy references in priority order.
func (l LegacySalesperson) Candidates() []string {
	ordered := []string{
		l.LegacySalesUser,
		l.LegacySalesperson,
		l.LegacyCreatedBy,
		l.LegacyUserName,
		l.LegacyCreatedUser,
		l.LegacyCreatedByUser,
	}
	out := make([]string, 0, len(ordered))
	for _, v := range ordered {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Quotation is a priced offer that may later become an invoice.
type Quotation struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	QuotationNo   string          `gorm:"size:50;uniqueIndex;not null" json:"quotation_no"`
	QuotationDate *time.Time      `gorm:"type:date" json:"quotation_date,omitempty"`
	CustomerName  string          `gorm:"size:200" json:"customer_name,omitempty"`
	Total         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"total"`
	SalesUserID   *int64          `gorm:"index" json:"sales_user_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName returns the table name for the Quotation model
func (Quotation) TableName() string {
	return "quotations"
}

// SaleLine is a quantity sold against an item. Lines are not tied to a receipt.
type SaleLine struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceID int64           `gorm:"not null;index" json:"invoice_id"`
	ItemID    int64           `gorm:"not null;index" json:"item_id"`
	Qty       decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"qty"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"line_total"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName returns the table name for the SaleLine model
func (SaleLine) TableName() string {
	return "sale_lines"
}

// ReturnLine is a quantity returned to stock.
type ReturnLine struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceID    *int64          `gorm:"index" json:"invoice_id,omitempty"`
	ItemID       int64           `gorm:"not null;index" json:"item_id"`
	Qty          decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"qty"`
	RefundAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"refund_amount"`
	ReturnedAt   time.Time       `json:"returned_at"`
}

// TableName returns the table name for the ReturnLine model
func (ReturnLine) TableName() string {
	return "return_lines"
}

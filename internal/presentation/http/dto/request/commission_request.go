package request

import (
	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
)

// RecomputeRequest bounds a batch recompute by invoice date
type RecomputeRequest struct {
	DateFrom string `json:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `json:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// SetLedgerStatusRequest changes a ledger entry's status
type SetLedgerStatusRequest struct {
	Status    string  `json:"status" binding:"required,oneof=PENDING APPROVED PAID pending approved paid"`
	Reference *string `json:"reference" binding:"omitempty,max=100"`
	Notes     *string `json:"notes"`
}

// CreateRateRequest defines a commission rate
type CreateRateRequest struct {
	Scope   enum.CommissionScope `json:"scope" binding:"required"`
	ScopeID *int64               `json:"scope_id"`
	Pct     decimal.Decimal      `json:"pct"`
	Notes   string               `json:"notes"`
}

// LedgerFilterRequest represents ledger filter parameters
type LedgerFilterRequest struct {
	Status   string `form:"status"`
	UserID   int64  `form:"user_id"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}

// UpdateSettingRequest stores an override for one engine setting
type UpdateSettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

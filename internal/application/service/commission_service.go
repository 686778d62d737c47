package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/apperror"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/metrics"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/pagination"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/validation"
)

// Sync outcomes
const (
	SyncStatusOK    = "ok"
	SyncStatusError = "error"
)

// RateSourceDefault marks a percentage taken from engine settings
const RateSourceDefault = "DEFAULT"

// CommissionSyncResult reports one invoice's commission sync
type CommissionSyncResult struct {
	Status       string                `json:"status"`
	InvoiceID    int64                 `json:"invoice_id"`
	SalesUserID  int64                 `json:"sales_user_id,omitempty"`
	Base         decimal.Decimal       `json:"base"`
	Pct          decimal.Decimal       `json:"pct"`
	Amount       decimal.Decimal       `json:"amount"`
	RateSource   string                `json:"rate_source,omitempty"`
	LedgerStatus enum.CommissionStatus `json:"ledger_status,omitempty"`
	Created      bool                  `json:"created"`
	Error        string                `json:"error,omitempty"`
}

// SyncFailure names an invoice a batch could not sync
type SyncFailure struct {
	InvoiceID int64  `json:"invoice_id"`
	Reason    string `json:"reason"`
}

// RecomputeResult summarises a batch recompute
type RecomputeResult struct {
	Synced   int           `json:"synced_count"`
	Total    int           `json:"total_count"`
	Failures []SyncFailure `json:"failures,omitempty"`
}

// SetLedgerStatusInput is an administrative status change
type SetLedgerStatusInput struct {
	Status    enum.CommissionStatus
	Reference *string
	Notes     *string
}

// CreateRateInput defines a scoped commission percentage
type CreateRateInput struct {
	Scope   enum.CommissionScope `json:"scope"`
	ScopeID *int64               `json:"scope_id"`
	Pct     decimal.Decimal      `json:"pct" validate:"gte=0,lte=100"`
	Notes   string               `json:"notes" validate:"max=500"`
}

// CommissionService computes and persists commission per invoice
type CommissionService struct {
	uow       repository.UnitOfWork
	repos     repository.Repositories
	settings  *SettingsService
	validator *validation.Validator
	now       func() time.Time
}

// NewCommissionService creates a new commission service
func NewCommissionService(uow repository.UnitOfWork, repos repository.Repositories, settings *SettingsService) *CommissionService {
	return &CommissionService{
		uow:       uow,
		repos:     repos,
		settings:  settings,
		validator: validation.New(),
		now:       time.Now,
	}
}

// SyncCommission resolves the rate for an invoice and upserts its ledger
// entry. When the invoice has no valid sales user nothing is written.
func (s *CommissionService) SyncCommission(ctx context.Context, invoiceID int64) (*CommissionSyncResult, error) {
	result := &CommissionSyncResult{Status: SyncStatusError, InvoiceID: invoiceID}

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		invoice, err := repos.Invoices.FindByID(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("load invoice: %w", err)
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}

		user, err := salesUserOf(ctx, repos, invoice)
		if err != nil {
			return err
		}

		settings, err := s.settings.Load(ctx, repos.Settings)
		if err != nil {
			return err
		}

		pct, source, err := resolveRate(ctx, repos, invoice, user.ID, settings)
		if err != nil {
			return err
		}

		base := invoice.Total
		amount := CommissionAmount(base, pct)

		entry, created, err := s.upsertLedger(ctx, repos, invoice.ID, user.ID, base, pct, amount)
		if err != nil {
			return err
		}

		result.SalesUserID = user.ID
		result.Base = base
		result.Pct = pct
		result.Amount = amount
		result.RateSource = source
		result.LedgerStatus = entry.Status
		result.Created = created
		return nil
	})
	if err != nil {
		result.Error = err.Error()
		metrics.CommissionSyncs.WithLabelValues(outcomeFor(err)).Inc()
		return result, err
	}

	result.Status = SyncStatusOK
	metrics.CommissionSyncs.WithLabelValues(metrics.OutcomeOK).Inc()
	log.Debug().
		Int64("invoice_id", invoiceID).
		Str("pct", result.Pct.String()).
		Str("amount", result.Amount.String()).
		Str("rate_source", result.RateSource).
		Msg("commission synced")
	return result, nil
}

// RecomputeCommissions syncs every invoice dated within [from, to]. Nil
// bounds are open. One invoice failing does not stop the batch.
func (s *CommissionService) RecomputeCommissions(ctx context.Context, from, to *time.Time) (*RecomputeResult, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, apperror.NewBadRequestError("date_from must not be after date_to")
	}

	ids, err := s.repos.Invoices.ListIDs(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	result := &RecomputeResult{Total: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := s.SyncCommission(ctx, id); err != nil {
			result.Failures = append(result.Failures, SyncFailure{InvoiceID: id, Reason: err.Error()})
			if IsUnmappedSalesUser(err) {
				log.Debug().Int64("invoice_id", id).Msg("skipping invoice without sales user")
			} else {
				log.Warn().Int64("invoice_id", id).Err(err).Msg("commission sync failed")
			}
			continue
		}
		result.Synced++
	}

	log.Info().Int("synced", result.Synced).Int("total", result.Total).Msg("commission recompute finished")
	return result, nil
}

// SetLedgerStatus applies an administrative status change. Marking an
// entry PAID stamps paid_on once; moving it back clears paid_on.
func (s *CommissionService) SetLedgerStatus(ctx context.Context, invoiceID int64, input SetLedgerStatusInput) (*entity.CommissionLedgerEntry, error) {
	if !input.Status.IsValid() {
		return nil, apperror.NewFieldError("status", "status must be one of PENDING, APPROVED, PAID")
	}

	var entry *entity.CommissionLedgerEntry
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		var err error
		entry, err = repos.Commissions.FindLedgerByInvoice(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("load ledger entry: %w", err)
		}
		if entry == nil {
			return apperror.NewNotFoundError("Commission ledger entry")
		}

		now := s.now()
		switch input.Status {
		case enum.CommissionStatusPaid:
			if !entry.IsPaid() || entry.PaidOn == nil {
				entry.PaidOn = &now
			}
		default:
			entry.PaidOn = nil
		}
		entry.Status = input.Status
		if input.Reference != nil {
			entry.Reference = *input.Reference
		}
		if input.Notes != nil {
			entry.Notes = *input.Notes
		}
		entry.UpdatedAt = now

		if err := repos.Commissions.UpdateLedger(ctx, entry, "status", "paid_on", "reference", "notes", "updated_at"); err != nil {
			return fmt.Errorf("update ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("invoice_id", invoiceID).Str("status", string(entry.Status)).Msg("commission status changed")
	return entry, nil
}

// CreateRate adds an active commission rate
func (s *CommissionService) CreateRate(ctx context.Context, input CreateRateInput) (*entity.CommissionRate, error) {
	fieldErrs := s.validator.Struct(input)
	if !input.Scope.IsValid() {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "scope", Message: "scope must be one of INVOICE, QUOTATION, USER, GLOBAL"})
	}
	if input.Scope.RequiresScopeID() && (input.ScopeID == nil || *input.ScopeID <= 0) {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "scope_id", Message: "scope_id is required for " + string(input.Scope) + " rates"})
	}
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	switch input.Scope {
	case enum.CommissionScopeGlobal:
		input.ScopeID = nil
	case enum.CommissionScopeInvoice:
		invoice, err := s.repos.Invoices.FindByID(ctx, *input.ScopeID)
		if err != nil {
			return nil, fmt.Errorf("load invoice: %w", err)
		}
		if invoice == nil {
			return nil, apperror.NewNotFoundError("Invoice")
		}
	case enum.CommissionScopeUser:
		user, err := s.repos.Users.FindByID(ctx, *input.ScopeID)
		if err != nil {
			return nil, fmt.Errorf("load user: %w", err)
		}
		if user == nil {
			return nil, apperror.NewNotFoundError("User")
		}
	}

	rate := &entity.CommissionRate{
		Scope:     input.Scope,
		ScopeID:   input.ScopeID,
		Pct:       input.Pct,
		Active:    true,
		Notes:     input.Notes,
		CreatedAt: s.now(),
	}
	if err := s.repos.Commissions.CreateRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("create rate: %w", err)
	}
	return rate, nil
}

// DeactivateRate switches a rate off without deleting it
func (s *CommissionService) DeactivateRate(ctx context.Context, id int64) error {
	rate, err := s.repos.Commissions.FindRateByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load rate: %w", err)
	}
	if rate == nil {
		return apperror.NewNotFoundError("Commission rate")
	}
	return s.repos.Commissions.DeactivateRate(ctx, id)
}

// ListRates returns rates grouped by scope, newest first
func (s *CommissionService) ListRates(ctx context.Context, activeOnly bool) ([]entity.CommissionRate, error) {
	return s.repos.Commissions.ListRates(ctx, activeOnly)
}

// ListLedger returns a page of ledger entries
func (s *CommissionService) ListLedger(ctx context.Context, filter repository.LedgerFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.CommissionLedgerEntry], error) {
	params.Validate()
	entries, total, err := s.repos.Commissions.ListLedger(ctx, filter, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(entries, params, total), nil
}

// CommissionAmount is base × pct / 100 rounded to two decimals
func CommissionAmount(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
}

func (s *CommissionService) upsertLedger(ctx context.Context, repos repository.Repositories, invoiceID, userID int64, base, pct, amount decimal.Decimal) (*entity.CommissionLedgerEntry, bool, error) {
	now := s.now()

	entry, err := repos.Commissions.FindLedgerByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, false, fmt.Errorf("load ledger entry: %w", err)
	}

	if entry == nil {
		entry = &entity.CommissionLedgerEntry{
			InvoiceID:         invoiceID,
			SalespersonUserID: userID,
			BaseAmount:        base,
			Pct:               pct,
			Amount:            amount,
			Status:            enum.CommissionStatusPending,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := repos.Commissions.CreateLedger(ctx, entry); err != nil {
			return nil, false, fmt.Errorf("create ledger entry: %w", err)
		}
		return entry, true, nil
	}

	entry.BaseAmount = base
	entry.Pct = pct
	entry.Amount = amount
	entry.UpdatedAt = now
	columns := []string{"base_amount", "pct", "amount", "updated_at"}

	if !entry.IsPaid() {
		entry.SalespersonUserID = userID
		entry.Status = enum.CommissionStatusPending
		columns = append(columns, "salesperson_user_id", "status")
	}

	if err := repos.Commissions.UpdateLedger(ctx, entry, columns...); err != nil {
		return nil, false, fmt.Errorf("update ledger entry: %w", err)
	}
	return entry, false, nil
}

// salesUserOf returns the invoice's sales user or ErrSalesUserUnmapped
func salesUserOf(ctx context.Context, repos repository.Repositories, invoice *entity.Invoice) (*entity.User, error) {
	if invoice.SalesUserID == nil {
		return nil, apperror.ErrSalesUserUnmapped
	}
	user, err := repos.Users.FindByID(ctx, *invoice.SalesUserID)
	if err != nil {
		return nil, fmt.Errorf("load sales user: %w", err)
	}
	if user == nil {
		return nil, apperror.ErrSalesUserUnmapped
	}
	return user, nil
}

// resolveRate walks INVOICE, QUOTATION, USER and GLOBAL scopes and falls
// back to the configured default. It returns the percentage and its source.
// An active 0% rate is a match and stops the walk, so a zero USER rate
// exempts that salesperson from a GLOBAL rate.
func resolveRate(ctx context.Context, repos repository.Repositories, invoice *entity.Invoice, userID int64, settings EngineSettings) (decimal.Decimal, string, error) {
	for _, scope := range enum.CommissionScopePrecedence {
		var scopeID int64
		switch scope {
		case enum.CommissionScopeInvoice:
			scopeID = invoice.ID
		case enum.CommissionScopeQuotation:
			if invoice.QuotationID == nil {
				continue
			}
			scopeID = *invoice.QuotationID
		case enum.CommissionScopeUser:
			scopeID = userID
		}

		rate, err := repos.Commissions.FindActiveRate(ctx, scope, scopeID)
		if err != nil {
			return decimal.Zero, "", fmt.Errorf("resolve %s rate: %w", scope, err)
		}
		if rate != nil {
			return rate.Pct, string(scope), nil
		}
	}
	return settings.DefaultCommissionPct, RateSourceDefault, nil
}

// IsUnmappedSalesUser reports whether err means the invoice has no
// resolvable sales user.
func IsUnmappedSalesUser(err error) bool {
	return errors.Is(err, apperror.ErrSalesUserUnmapped)
}

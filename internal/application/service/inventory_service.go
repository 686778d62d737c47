package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/costing"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/apperror"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/metrics"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/pagination"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/validation"
)

// Availability holds stock totals for one item
type Availability struct {
	ItemID    int64           `json:"item_id"`
	Received  decimal.Decimal `json:"received"`
	Damaged   decimal.Decimal `json:"damaged"`
	NetGood   decimal.Decimal `json:"net_good"`
	Sold      decimal.Decimal `json:"sold"`
	Returned  decimal.Decimal `json:"returned"`
	Available decimal.Decimal `json:"available"`
}

// InventorySummary adds valuation to the stock totals
type InventorySummary struct {
	Availability
	Item                *entity.Item    `json:"item"`
	ReceiptCount        int             `json:"receipt_count"`
	WeightedAverageCost decimal.Decimal `json:"weighted_average_cost"`
	InventoryValue      decimal.Decimal `json:"inventory_value"`
	TurnoverRate        decimal.Decimal `json:"turnover_rate"`
}

// ReceiptResult is a persisted receipt with its cost breakdown
type ReceiptResult struct {
	Receipt   *entity.Receipt    `json:"receipt"`
	Cost      costing.LandedCost `json:"cost"`
	Available decimal.Decimal    `json:"available"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// InventoryService reconciles receipts against sales and returns
type InventoryService struct {
	uow       repository.UnitOfWork
	repos     repository.Repositories
	settings  *SettingsService
	validator *validation.Validator
	now       func() time.Time
}

// NewInventoryService creates a new inventory service
func NewInventoryService(uow repository.UnitOfWork, repos repository.Repositories, settings *SettingsService) *InventoryService {
	v := validation.New()
	v.RegisterStructRule(receiptRule, map[string]string{
		"damaged_lte_received": "damaged quantity cannot exceed quantity received",
		"price_source":         "either price per unit or price per area must be positive",
	}, entity.ReceiptFields{})

	return &InventoryService{
		uow:       uow,
		repos:     repos,
		settings:  settings,
		validator: v,
		now:       time.Now,
	}
}

func receiptRule(sl validator.StructLevel) {
	f := sl.Current().Interface().(entity.ReceiptFields)
	if f.QtyDamaged.GreaterThan(f.QtyIn) {
		sl.ReportError(f.QtyDamaged, "qty_damaged", "QtyDamaged", "damaged_lte_received", "")
	}
	if !f.PricePerUnit.IsPositive() && !f.PricePerArea.IsPositive() {
		sl.ReportError(f.PricePerUnit, "price_per_unit", "PricePerUnit", "price_source", "")
	}
}

// ComputeAvailability returns Σ net good receipts − Σ sold + Σ returned, floored at zero
func (s *InventoryService) ComputeAvailability(ctx context.Context, itemID int64) (decimal.Decimal, error) {
	if _, err := s.findItem(ctx, s.repos, itemID); err != nil {
		return decimal.Zero, err
	}
	a, _, err := availability(ctx, s.repos, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Available, nil
}

// Summary returns stock totals and valuation for an item
func (s *InventoryService) Summary(ctx context.Context, itemID int64) (*InventorySummary, error) {
	item, err := s.findItem(ctx, s.repos, itemID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Load(ctx, s.repos.Settings)
	if err != nil {
		return nil, err
	}

	a, receipts, err := availability(ctx, s.repos, itemID)
	if err != nil {
		return nil, err
	}

	costs := make([]costing.LandedCost, 0, len(receipts))
	for _, r := range receipts {
		costs = append(costs, costing.ComputeLandedCost(r.Fields(), item.ConversionArea()))
	}

	places := item.Kind.CostPrecision()
	wac := costing.WeightedAverageCost(costs, settings.CostMode)
	summary := &InventorySummary{
		Availability:        a,
		Item:                item,
		ReceiptCount:        len(receipts),
		WeightedAverageCost: wac.Round(places),
		InventoryValue:      a.Available.Mul(wac).Round(2),
		TurnoverRate:        decimal.Zero,
	}
	if a.Received.IsPositive() {
		summary.TurnoverRate = a.Sold.Div(a.Received).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return summary, nil
}

// ListItems returns a page of items
func (s *InventoryService) ListItems(ctx context.Context, filter repository.ItemFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Item], error) {
	params.Validate()
	items, total, err := s.repos.Items.List(ctx, filter, params)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return pagination.NewPage(items, params, total), nil
}

// CreateReceipt records a purchase line for an item
func (s *InventoryService) CreateReceipt(ctx context.Context, itemID int64, fields entity.ReceiptFields) (*ReceiptResult, error) {
	var result *ReceiptResult

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		item, err := s.findItem(ctx, repos, itemID)
		if err != nil {
			return err
		}
		if fieldErrs := s.validateReceipt(item, fields); len(fieldErrs) > 0 {
			return apperror.NewValidationError(fieldErrs)
		}
		settings, err := s.settings.Load(ctx, repos.Settings)
		if err != nil {
			return err
		}

		receipt := &entity.Receipt{ItemID: item.ID}
		receipt.Apply(fields)
		if err := repos.Receipts.Create(ctx, receipt); err != nil {
			return fmt.Errorf("create receipt: %w", err)
		}

		a, _, err := availability(ctx, repos, item.ID)
		if err != nil {
			return err
		}

		result = &ReceiptResult{
			Receipt:   receipt,
			Cost:      costing.ComputeLandedCost(fields, item.ConversionArea()).Rounded(item.Kind.CostPrecision()),
			Available: a.Available,
			Warnings:  s.receiptWarnings(fields, settings),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("item_id", itemID).Int64("receipt_id", result.Receipt.ID).Msg("receipt created")
	return result, nil
}

// ValidateAndApplyReceiptEdit overwrites a receipt's pricing and quantity
// fields. A reduction in good quantity larger than the item's current
// availability is rejected, and nothing is written on any failure.
func (s *InventoryService) ValidateAndApplyReceiptEdit(ctx context.Context, receiptID int64, fields entity.ReceiptFields) (*ReceiptResult, error) {
	var result *ReceiptResult

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		receipt, err := repos.Receipts.FindByIDForUpdate(ctx, receiptID)
		if err != nil {
			return fmt.Errorf("load receipt: %w", err)
		}
		if receipt == nil {
			return apperror.NewNotFoundError("Receipt")
		}
		item, err := s.findItem(ctx, repos, receipt.ItemID)
		if err != nil {
			return err
		}

		if fieldErrs := s.validateReceipt(item, fields); len(fieldErrs) > 0 {
			return apperror.NewValidationError(fieldErrs)
		}

		current, _, err := availability(ctx, repos, item.ID)
		if err != nil {
			return err
		}

		oldNet := costing.NetGoodQty(receipt.QtyIn, receipt.QtyDamaged)
		newNet := costing.NetGoodQty(fields.QtyIn, fields.QtyDamaged)
		if reduction := oldNet.Sub(newNet); reduction.GreaterThan(current.Available) {
			return apperror.NewFieldError("qty_in", fmt.Sprintf(
				"cannot reduce good quantity by %s: only %s available after recorded sales",
				reduction.String(), current.Available.String()))
		}

		settings, err := s.settings.Load(ctx, repos.Settings)
		if err != nil {
			return err
		}

		receipt.Apply(fields)
		receipt.UpdatedAt = s.now()
		if err := repos.Receipts.Update(ctx, receipt); err != nil {
			return fmt.Errorf("update receipt: %w", err)
		}

		after, _, err := availability(ctx, repos, item.ID)
		if err != nil {
			return err
		}

		result = &ReceiptResult{
			Receipt:   receipt,
			Cost:      costing.ComputeLandedCost(fields, item.ConversionArea()).Rounded(item.Kind.CostPrecision()),
			Available: after.Available,
			Warnings:  s.receiptWarnings(fields, settings),
		}
		return nil
	})
	if err != nil {
		metrics.ReceiptEdits.WithLabelValues(outcomeFor(err)).Inc()
		return nil, err
	}

	metrics.ReceiptEdits.WithLabelValues(metrics.OutcomeOK).Inc()
	log.Info().Int64("receipt_id", receiptID).Str("available", result.Available.String()).Msg("receipt updated")
	return result, nil
}

// DeleteReceipt removes a receipt unless its item has recorded sales
func (s *InventoryService) DeleteReceipt(ctx context.Context, receiptID int64) error {
	return s.uow.Do(ctx, func(repos repository.Repositories) error {
		receipt, err := repos.Receipts.FindByIDForUpdate(ctx, receiptID)
		if err != nil {
			return fmt.Errorf("load receipt: %w", err)
		}
		if receipt == nil {
			return apperror.NewNotFoundError("Receipt")
		}

		sales, err := repos.Stock.CountSaleLines(ctx, receipt.ItemID)
		if err != nil {
			return fmt.Errorf("count sales: %w", err)
		}
		if sales > 0 {
			return apperror.NewConflictError("Cannot delete a receipt of an item that has recorded sales")
		}

		if err := repos.Receipts.Delete(ctx, receiptID); err != nil {
			return fmt.Errorf("delete receipt: %w", err)
		}
		log.Info().Int64("receipt_id", receiptID).Int64("item_id", receipt.ItemID).Msg("receipt deleted")
		return nil
	})
}

func (s *InventoryService) findItem(ctx context.Context, repos repository.Repositories, itemID int64) (*entity.Item, error) {
	item, err := repos.Items.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return item, nil
}

func (s *InventoryService) validateReceipt(item *entity.Item, fields entity.ReceiptFields) []apperror.FieldError {
	errs := s.validator.Struct(fields)
	if len(errs) > 0 {
		return errs
	}
	if !costing.BaseCost(fields, item.ConversionArea()).IsPositive() {
		errs = append(errs, apperror.FieldError{
			Field:   "price_per_area",
			Message: "price per area needs an item with a positive area per package",
		})
	}
	return errs
}

func (s *InventoryService) receiptWarnings(f entity.ReceiptFields, settings EngineSettings) []string {
	var warnings []string
	if f.QtyIn.IsPositive() {
		damagePct := f.QtyDamaged.Div(f.QtyIn).Mul(decimal.NewFromInt(100))
		if damagePct.GreaterThan(settings.DamageWarningPct) {
			warnings = append(warnings, fmt.Sprintf("high damage rate: %s%%", damagePct.Round(1).String()))
		}
	}
	if f.TransportPct.GreaterThan(settings.TransportWarningPct) {
		warnings = append(warnings, fmt.Sprintf("high transport percentage: %s%%", f.TransportPct.String()))
	}
	if f.Vendor == "" {
		warnings = append(warnings, "vendor is not set")
	}
	if f.PurchaseDate != nil && costing.CivilDate(*f.PurchaseDate).After(costing.CivilDate(s.now())) {
		warnings = append(warnings, "purchase date is in the future")
	}
	return warnings
}

// availability computes stock totals for an item through repos
func availability(ctx context.Context, repos repository.Repositories, itemID int64) (Availability, []entity.Receipt, error) {
	a := Availability{ItemID: itemID}

	receipts, err := repos.Receipts.ListByItem(ctx, itemID)
	if err != nil {
		return a, nil, fmt.Errorf("list receipts: %w", err)
	}
	sold, err := repos.Stock.SumSold(ctx, itemID)
	if err != nil {
		return a, nil, fmt.Errorf("sum sales: %w", err)
	}
	returned, err := repos.Stock.SumReturned(ctx, itemID)
	if err != nil {
		return a, nil, fmt.Errorf("sum returns: %w", err)
	}

	for _, r := range receipts {
		a.Received = a.Received.Add(r.QtyIn)
		a.Damaged = a.Damaged.Add(r.QtyDamaged)
		a.NetGood = a.NetGood.Add(costing.NetGoodQty(r.QtyIn, r.QtyDamaged))
	}
	a.Sold = sold
	a.Returned = returned
	a.Available = decimal.Max(decimal.Zero, a.NetGood.Sub(sold).Add(returned))
	return a, receipts, nil
}

func outcomeFor(err error) string {
	if apperror.IsAppError(err) && apperror.GetAppError(err).Code < 500 {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeError
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/costing"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/apperror"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/metrics"
)

// CostingService answers cost questions over stored receipts
type CostingService struct {
	repos    repository.Repositories
	settings *SettingsService
}

// NewCostingService creates a new costing service
func NewCostingService(repos repository.Repositories, settings *SettingsService) *CostingService {
	return &CostingService{repos: repos, settings: settings}
}

// SelectHistoricalCost picks the landed cost of an item as of a date. A nil
// mode uses the configured cost mode. A gap result is not an error.
func (s *CostingService) SelectHistoricalCost(ctx context.Context, itemID int64, asOf time.Time, mode *enum.CostMode) (*costing.HistoricalCost, error) {
	item, err := s.repos.Items.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}

	if mode == nil {
		settings, err := s.settings.Load(ctx, s.repos.Settings)
		if err != nil {
			return nil, err
		}
		mode = &settings.CostMode
	}

	receipts, err := s.repos.Receipts.ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}

	hc := costing.SelectHistoricalCost(*item, receipts, asOf, *mode)
	metrics.CostSelections.WithLabelValues(string(hc.Basis)).Inc()
	return &hc, nil
}

// PreviewLandedCost computes a breakdown for unsaved receipt values
func (s *CostingService) PreviewLandedCost(fields entity.ReceiptFields, kind enum.ItemKind, areaPerPackage decimal.Decimal) costing.LandedCost {
	if !kind.IsAreaBased() {
		areaPerPackage = decimal.Zero
	}
	return costing.ComputeLandedCost(fields, areaPerPackage).Rounded(kind.CostPrecision())
}

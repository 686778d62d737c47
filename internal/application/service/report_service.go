package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/costing"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/pagination"
)

// XLSXContentType is the media type of generated workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const reportDateLayout = "2006-01-02"

// ReportService renders ledger, stock and profit reports
type ReportService struct {
	repos    repository.Repositories
	settings *SettingsService
	costing  *CostingService
}

// NewReportService creates a new report service
func NewReportService(repos repository.Repositories, settings *SettingsService) *ReportService {
	return &ReportService{
		repos:    repos,
		settings: settings,
		costing:  NewCostingService(repos, settings),
	}
}

// ExportCommissionLedger writes the ledger entries matching filter
func (s *ReportService) ExportCommissionLedger(ctx context.Context, filter repository.LedgerFilter) (*bytes.Buffer, error) {
	entries, err := s.repos.Commissions.AllLedger(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		var invoiceNo, invoiceDate, salesperson, paidOn string
		if e.Invoice != nil {
			invoiceNo = e.Invoice.InvoiceNo
			if e.Invoice.InvoiceDate != nil {
				invoiceDate = e.Invoice.InvoiceDate.Format(reportDateLayout)
			}
		}
		if e.Salesperson != nil {
			salesperson = e.Salesperson.DisplayName()
		}
		if e.PaidOn != nil {
			paidOn = e.PaidOn.Format(reportDateLayout)
		}
		rows = append(rows, []interface{}{
			e.InvoiceID,
			invoiceNo,
			invoiceDate,
			salesperson,
			e.BaseAmount.InexactFloat64(),
			e.Pct.InexactFloat64(),
			e.Amount.InexactFloat64(),
			string(e.Status),
			paidOn,
			e.Reference,
		})
	}

	header := []interface{}{
		"invoice_id", "invoice_no", "invoice_date", "salesperson",
		"base_amount", "pct", "amount", "status", "paid_on", "reference",
	}
	return writeWorkbook("Commissions", header, rows)
}

// ExportInventory writes availability and valuation for every item
func (s *ReportService) ExportInventory(ctx context.Context, filter repository.ItemFilter) (*bytes.Buffer, error) {
	settings, err := s.settings.Load(ctx, s.repos.Settings)
	if err != nil {
		return nil, err
	}

	var rows [][]interface{}
	params := &pagination.PaginationParams{Page: 1, PerPage: 100}
	for {
		items, total, err := s.repos.Items.List(ctx, filter, params)
		if err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}

		for _, item := range items {
			a, receipts, err := availability(ctx, s.repos, item.ID)
			if err != nil {
				return nil, err
			}
			costs := make([]costing.LandedCost, 0, len(receipts))
			for _, r := range receipts {
				costs = append(costs, costing.ComputeLandedCost(r.Fields(), item.ConversionArea()))
			}
			wac := costing.WeightedAverageCost(costs, settings.CostMode)

			rows = append(rows, []interface{}{
				item.ID,
				item.Name,
				string(item.Kind),
				item.SizeLabel,
				a.Received.InexactFloat64(),
				a.Damaged.InexactFloat64(),
				a.Sold.InexactFloat64(),
				a.Returned.InexactFloat64(),
				a.Available.InexactFloat64(),
				wac.Round(item.Kind.CostPrecision()).InexactFloat64(),
				a.Available.Mul(wac).Round(2).InexactFloat64(),
			})
		}

		if int64(params.Page*params.PerPage) >= total || len(items) == 0 {
			break
		}
		params.Page++
	}

	header := []interface{}{
		"item_id", "name", "kind", "size", "received", "damaged",
		"sold", "returned", "available", "avg_cost", "value",
	}
	return writeWorkbook("Inventory", header, rows)
}

func writeWorkbook(sheet string, header []interface{}, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

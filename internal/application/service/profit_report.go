package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/costing"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/apperror"
)

// ProfitLine is the margin of one sale line against its historical cost.
// A line with CostGap set has no UnitCost, Cost or Profit.
type ProfitLine struct {
	SaleLineID int64            `json:"sale_line_id"`
	ItemID     int64            `json:"item_id"`
	Qty        decimal.Decimal  `json:"qty"`
	LineTotal  decimal.Decimal  `json:"line_total"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	Cost       *decimal.Decimal `json:"cost,omitempty"`
	Profit     *decimal.Decimal `json:"profit,omitempty"`
	CostGap    bool             `json:"cost_gap"`
	Basis      costing.Basis    `json:"basis_reason"`
}

// InvoiceProfit totals the costed lines of one invoice. Revenue, Cost and
// GrossProfit cover costed lines only; gap lines land in UncostedRevenue.
type InvoiceProfit struct {
	InvoiceID       int64           `json:"invoice_id"`
	InvoiceNo       string          `json:"invoice_no"`
	InvoiceDate     string          `json:"invoice_date"`
	Mode            enum.CostMode   `json:"mode"`
	Lines           []ProfitLine    `json:"lines"`
	Revenue         decimal.Decimal `json:"revenue"`
	UncostedRevenue decimal.Decimal `json:"uncosted_revenue"`
	Cost            decimal.Decimal `json:"cost"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	Commission      decimal.Decimal `json:"commission"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	MarginPct       decimal.Decimal `json:"margin_pct"`
	GapLines        int             `json:"gap_lines"`
}

// ProfitReport sums InvoiceProfit over a date range
type ProfitReport struct {
	From            *string         `json:"from,omitempty"`
	To              *string         `json:"to,omitempty"`
	Mode            enum.CostMode   `json:"mode"`
	Invoices        []InvoiceProfit `json:"invoices"`
	Revenue         decimal.Decimal `json:"revenue"`
	UncostedRevenue decimal.Decimal `json:"uncosted_revenue"`
	Cost            decimal.Decimal `json:"cost"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	Commission      decimal.Decimal `json:"commission"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	MarginPct       decimal.Decimal `json:"margin_pct"`
	GapLines        int             `json:"gap_lines"`
}

type costKey struct {
	itemID int64
	asOf   time.Time
}

// costCache memoizes historical costs for one report run
type costCache map[costKey]*costing.HistoricalCost

// InvoiceProfit computes line_total minus qty times the historical cost as
// of the invoice date for every line of the invoice.
func (s *ReportService) InvoiceProfit(ctx context.Context, invoiceID int64, mode *enum.CostMode) (*InvoiceProfit, error) {
	m, err := s.reportMode(ctx, mode)
	if err != nil {
		return nil, err
	}

	inv, err := s.repos.Invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	return s.invoiceProfit(ctx, inv, m, costCache{})
}

// ProfitReport computes InvoiceProfit for every invoice dated within
// [from, to]. Either bound may be nil.
func (s *ReportService) ProfitReport(ctx context.Context, from, to *time.Time, mode *enum.CostMode) (*ProfitReport, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, apperror.NewBadRequestError("from must not be after to")
	}
	m, err := s.reportMode(ctx, mode)
	if err != nil {
		return nil, err
	}

	ids, err := s.repos.Invoices.ListIDs(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	report := &ProfitReport{
		From:     formatDate(from),
		To:       formatDate(to),
		Mode:     m,
		Invoices: make([]InvoiceProfit, 0, len(ids)),
	}
	cache := costCache{}
	for _, id := range ids {
		inv, err := s.repos.Invoices.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load invoice %d: %w", id, err)
		}
		if inv == nil {
			continue
		}
		p, err := s.invoiceProfit(ctx, inv, m, cache)
		if err != nil {
			return nil, err
		}
		report.Invoices = append(report.Invoices, *p)
		report.Revenue = report.Revenue.Add(p.Revenue)
		report.UncostedRevenue = report.UncostedRevenue.Add(p.UncostedRevenue)
		report.Cost = report.Cost.Add(p.Cost)
		report.GrossProfit = report.GrossProfit.Add(p.GrossProfit)
		report.Commission = report.Commission.Add(p.Commission)
		report.NetProfit = report.NetProfit.Add(p.NetProfit)
		report.GapLines += p.GapLines
	}
	report.MarginPct = marginPct(report.NetProfit, report.Revenue)
	return report, nil
}

func (s *ReportService) reportMode(ctx context.Context, mode *enum.CostMode) (enum.CostMode, error) {
	if mode != nil {
		return *mode, nil
	}
	settings, err := s.settings.Load(ctx, s.repos.Settings)
	if err != nil {
		return 0, err
	}
	return settings.CostMode, nil
}

func (s *ReportService) invoiceProfit(ctx context.Context, inv *entity.Invoice, mode enum.CostMode, cache costCache) (*InvoiceProfit, error) {
	asOf := costing.CivilDate(inv.CreatedAt)
	if inv.InvoiceDate != nil {
		asOf = costing.CivilDate(*inv.InvoiceDate)
	}

	lines, err := s.repos.Invoices.ListLines(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("list lines of invoice %d: %w", inv.ID, err)
	}

	p := &InvoiceProfit{
		InvoiceID:   inv.ID,
		InvoiceNo:   inv.InvoiceNo,
		InvoiceDate: asOf.Format(reportDateLayout),
		Mode:        mode,
		Lines:       make([]ProfitLine, 0, len(lines)),
	}
	for _, line := range lines {
		key := costKey{itemID: line.ItemID, asOf: asOf}
		hc, ok := cache[key]
		if !ok {
			hc, err = s.costing.SelectHistoricalCost(ctx, line.ItemID, asOf, &mode)
			if err != nil {
				return nil, fmt.Errorf("cost item %d on invoice %d: %w", line.ItemID, inv.ID, err)
			}
			cache[key] = hc
		}

		pl := ProfitLine{
			SaleLineID: line.ID,
			ItemID:     line.ItemID,
			Qty:        line.Qty,
			LineTotal:  line.LineTotal,
			CostGap:    hc.Gap(),
			Basis:      hc.Basis,
		}
		if pl.CostGap {
			p.UncostedRevenue = p.UncostedRevenue.Add(line.LineTotal)
			p.GapLines++
		} else {
			unit := hc.LandedCostPerUnit
			cost := line.Qty.Mul(unit).Round(2)
			profit := line.LineTotal.Sub(cost)
			pl.UnitCost, pl.Cost, pl.Profit = &unit, &cost, &profit

			p.Revenue = p.Revenue.Add(line.LineTotal)
			p.Cost = p.Cost.Add(cost)
		}
		p.Lines = append(p.Lines, pl)
	}
	p.GrossProfit = p.Revenue.Sub(p.Cost)

	entry, err := s.repos.Commissions.FindLedgerByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("load commission of invoice %d: %w", inv.ID, err)
	}
	if entry != nil {
		p.Commission = entry.Amount
	}
	p.NetProfit = p.GrossProfit.Sub(p.Commission)
	p.MarginPct = marginPct(p.NetProfit, p.Revenue)
	return p, nil
}

func marginPct(net, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return net.Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(reportDateLayout)
	return &s
}

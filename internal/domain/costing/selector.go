package costing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
)

// Basis tags how a historical cost was chosen.
type Basis string

const (
	BasisAsOfHit        Basis = "asof-hit"
	BasisFallbackLatest Basis = "fallback-latest"
	BasisNoCostRows     Basis = "no-cost-rows"
)

// HistoricalCost is the landed cost picked for valuing an item at a date.
type HistoricalCost struct {
	ItemID            int64           `json:"item_id"`
	ReceiptID         *int64          `json:"receipt_id,omitempty"`
	ReceiptDate       *time.Time      `json:"receipt_date,omitempty"`
	BaseCost          decimal.Decimal `json:"base_cost"`
	LandedCostPerUnit decimal.Decimal `json:"landed_cost_per_unit"`
	LandedCostPerArea decimal.Decimal `json:"landed_cost_per_area"`
	Basis             Basis           `json:"basis_reason"`
	Mode              enum.CostMode   `json:"mode"`
}

// Gap reports whether no usable receipt was found. A gap is a missing
// number, not a zero cost.
func (h HistoricalCost) Gap() bool {
	return h.Basis == BasisNoCostRows
}

// ReceiptDate returns the receipt's calendar date. Legacy text dates are
// parsed; undated or unparseable receipts report ok == false.
func ReceiptDate(r entity.Receipt) (time.Time, bool) {
	if r.PurchaseDate != nil {
		return CivilDate(*r.PurchaseDate), true
	}
	if r.PurchaseDateRaw != nil {
		return ParseLegacyDate(*r.PurchaseDateRaw)
	}
	return time.Time{}, false
}

type datedReceipt struct {
	receipt entity.Receipt
	date    time.Time
	dated   bool
}

// SelectHistoricalCost picks the landed cost of item as of asOf.
//
// Receipts are ordered undated first, then by date and id descending. The
// first receipt with a positive base cost among those dated on or before
// asOf (undated receipts always qualify) wins. Failing that the same order
// is searched without the date filter. Otherwise the result is a gap.
func SelectHistoricalCost(item entity.Item, receipts []entity.Receipt, asOf time.Time, mode enum.CostMode) HistoricalCost {
	ordered := make([]datedReceipt, 0, len(receipts))
	for _, r := range receipts {
		d, ok := ReceiptDate(r)
		ordered = append(ordered, datedReceipt{receipt: r, date: d, dated: ok})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.dated != b.dated {
			return !a.dated
		}
		if a.dated && !a.date.Equal(b.date) {
			return a.date.After(b.date)
		}
		return a.receipt.ID > b.receipt.ID
	})

	cutoff := CivilDate(asOf)
	area := item.ConversionArea()

	for _, dr := range ordered {
		if dr.dated && dr.date.After(cutoff) {
			continue
		}
		if hc, ok := usable(item, dr, area, mode, BasisAsOfHit); ok {
			return hc
		}
	}
	for _, dr := range ordered {
		if hc, ok := usable(item, dr, area, mode, BasisFallbackLatest); ok {
			return hc
		}
	}

	return HistoricalCost{
		ItemID:            item.ID,
		BaseCost:          decimal.Zero,
		LandedCostPerUnit: decimal.Zero,
		LandedCostPerArea: decimal.Zero,
		Basis:             BasisNoCostRows,
		Mode:              mode,
	}
}

func usable(item entity.Item, dr datedReceipt, area decimal.Decimal, mode enum.CostMode, basis Basis) (HistoricalCost, bool) {
	lc := ComputeLandedCost(dr.receipt.Fields(), area)
	if !lc.BaseCost.IsPositive() {
		return HistoricalCost{}, false
	}

	places := item.Kind.CostPrecision()
	id := dr.receipt.ID
	hc := HistoricalCost{
		ItemID:            item.ID,
		ReceiptID:         &id,
		BaseCost:          lc.BaseCost.Round(places),
		LandedCostPerUnit: lc.PerUnit(mode).Round(places),
		LandedCostPerArea: lc.PerArea(mode).Round(places),
		Basis:             basis,
		Mode:              mode,
	}
	if dr.dated {
		d := dr.date
		hc.ReceiptDate = &d
	}
	return hc, true
}

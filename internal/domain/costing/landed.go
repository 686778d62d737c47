// Package costing holds the pure valuation rules: landed cost per receipt,
// weighted averages and as-of cost selection. Nothing here performs I/O.
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
)

var hundred = decimal.NewFromInt(100)

// LandedCost is the cost breakdown of a single receipt, per unit (box).
type LandedCost struct {
	BaseCost              decimal.Decimal `json:"base_cost"`
	NetGoodQty            decimal.Decimal `json:"net_good_qty"`
	TransportPctAmount    decimal.Decimal `json:"transport_pct_amount"`
	TransportPerUnitAdder decimal.Decimal `json:"transport_per_unit_adder"`
	TransportAllocPerUnit decimal.Decimal `json:"transport_alloc_per_unit"`
	TransportPerUnit      decimal.Decimal `json:"transport_per_unit"`
	LandedCostPerUnit     decimal.Decimal `json:"landed_cost_per_unit"`
	LandedCostPerArea     decimal.Decimal `json:"landed_cost_per_area"`
	TransportPctOfBase    decimal.Decimal `json:"transport_pct_of_base"`
	DamagePct             decimal.Decimal `json:"damage_pct"`
	DamageCost            decimal.Decimal `json:"damage_cost"`
	TotalLandedValue      decimal.Decimal `json:"total_landed_value"`

	areaPerPackage decimal.Decimal
}

// ComputeLandedCost derives the landed cost of a receipt. areaPerPackage is
// the area of one package for area-priced items and zero otherwise.
// Negative inputs count as zero and every division by zero yields zero.
func ComputeLandedCost(f entity.ReceiptFields, areaPerPackage decimal.Decimal) LandedCost {
	qtyIn := nonNeg(f.QtyIn)
	damaged := nonNeg(f.QtyDamaged)
	area := nonNeg(areaPerPackage)

	lc := LandedCost{
		BaseCost:       BaseCost(f, area),
		NetGoodQty:     NetGoodQty(f.QtyIn, f.QtyDamaged),
		areaPerPackage: area,
	}

	lc.TransportPctAmount = lc.BaseCost.Mul(nonNeg(f.TransportPct)).Div(hundred)
	lc.TransportPerUnitAdder = nonNeg(f.TransportPerUnit)
	if lump := nonNeg(f.TransportTotal); lump.IsPositive() && lc.NetGoodQty.IsPositive() {
		lc.TransportAllocPerUnit = lump.Div(lc.NetGoodQty)
	}
	lc.TransportPerUnit = lc.TransportPctAmount.Add(lc.TransportPerUnitAdder).Add(lc.TransportAllocPerUnit)
	lc.LandedCostPerUnit = lc.BaseCost.Add(lc.TransportPerUnit)
	lc.LandedCostPerArea = perArea(lc.LandedCostPerUnit, area)

	if lc.BaseCost.IsPositive() {
		lc.TransportPctOfBase = lc.TransportPerUnit.Div(lc.BaseCost).Mul(hundred)
	}
	if qtyIn.IsPositive() {
		lc.DamagePct = decimal.Min(damaged, qtyIn).Div(qtyIn).Mul(hundred)
	}
	lc.DamageCost = decimal.Min(damaged, qtyIn).Mul(lc.BaseCost)
	lc.TotalLandedValue = lc.LandedCostPerUnit.Mul(lc.NetGoodQty)

	return lc
}

// BaseCost is the per-unit price when positive, otherwise the per-area price
// times the area per package, otherwise zero.
func BaseCost(f entity.ReceiptFields, areaPerPackage decimal.Decimal) decimal.Decimal {
	if f.PricePerUnit.IsPositive() {
		return f.PricePerUnit
	}
	if f.PricePerArea.IsPositive() && areaPerPackage.IsPositive() {
		return f.PricePerArea.Mul(areaPerPackage)
	}
	return decimal.Zero
}

// NetGoodQty is received minus damaged, floored at zero.
func NetGoodQty(received, damaged decimal.Decimal) decimal.Decimal {
	return nonNeg(nonNeg(received).Sub(nonNeg(damaged)))
}

// PerUnit returns the landed cost per unit for mode. Simple mode leaves out
// the lump transport allocation.
func (lc LandedCost) PerUnit(mode enum.CostMode) decimal.Decimal {
	if mode == enum.CostModeSimple {
		return lc.BaseCost.Add(lc.TransportPctAmount).Add(lc.TransportPerUnitAdder)
	}
	return lc.LandedCostPerUnit
}

// PerArea returns the landed cost per area unit for mode.
func (lc LandedCost) PerArea(mode enum.CostMode) decimal.Decimal {
	return perArea(lc.PerUnit(mode), lc.areaPerPackage)
}

// Rounded returns a copy with the money fields rounded to places.
func (lc LandedCost) Rounded(places int32) LandedCost {
	out := lc
	out.BaseCost = lc.BaseCost.Round(places)
	out.TransportPctAmount = lc.TransportPctAmount.Round(places)
	out.TransportPerUnitAdder = lc.TransportPerUnitAdder.Round(places)
	out.TransportAllocPerUnit = lc.TransportAllocPerUnit.Round(places)
	out.TransportPerUnit = lc.TransportPerUnit.Round(places)
	out.LandedCostPerUnit = lc.LandedCostPerUnit.Round(places)
	out.LandedCostPerArea = lc.LandedCostPerArea.Round(places)
	out.TransportPctOfBase = lc.TransportPctOfBase.Round(2)
	out.DamagePct = lc.DamagePct.Round(2)
	out.DamageCost = lc.DamageCost.Round(2)
	out.TotalLandedValue = lc.TotalLandedValue.Round(2)
	return out
}

// WeightedAverageCost is Σ(cost per unit × net good qty) / Σ net good qty.
// It is zero when no receipt has good stock.
func WeightedAverageCost(costs []LandedCost, mode enum.CostMode) decimal.Decimal {
	totalValue := decimal.Zero
	totalQty := decimal.Zero
	for _, lc := range costs {
		if !lc.NetGoodQty.IsPositive() {
			continue
		}
		totalValue = totalValue.Add(lc.PerUnit(mode).Mul(lc.NetGoodQty))
		totalQty = totalQty.Add(lc.NetGoodQty)
	}
	if !totalQty.IsPositive() {
		return decimal.Zero
	}
	return totalValue.Div(totalQty)
}

func perArea(perUnit, area decimal.Decimal) decimal.Decimal {
	if !area.IsPositive() {
		return decimal.Zero
	}
	return perUnit.Div(area)
}

func nonNeg(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

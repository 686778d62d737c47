package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func TestNetGoodQty(t *testing.T) {
	cases := []struct {
		in, damaged, want string
	}{
		{"10", "1", "9"},
		{"10", "0", "10"},
		{"5", "5", "0"},
		{"3", "7", "0"},
		{"-2", "0", "0"},
		{"4", "-1", "4"},
	}
	for _, c := range cases {
		got := NetGoodQty(d(c.in), d(c.damaged))
		assertDec(t, c.want, got, c)
		assert.False(t, got.IsNegative())
	}
}

func TestComputeLandedCost_BaseFromUnitPrice(t *testing.T) {
	lc := ComputeLandedCost(entity.ReceiptFields{
		QtyIn:        d("10"),
		PricePerUnit: d("250"),
		PricePerArea: d("20"),
	}, d("15.5"))

	assertDec(t, "250", lc.BaseCost)
	assertDec(t, "250", lc.LandedCostPerUnit)
	assertDec(t, "0", lc.TransportPerUnit)
}

func TestComputeLandedCost_BaseFromAreaPrice(t *testing.T) {
	lc := ComputeLandedCost(entity.ReceiptFields{
		QtyIn:        d("10"),
		PricePerArea: d("20"),
	}, d("15"))

	assertDec(t, "300", lc.BaseCost)
	assertDec(t, "20", lc.LandedCostPerArea)
}

func TestComputeLandedCost_NoPriceSource(t *testing.T) {
	lc := ComputeLandedCost(entity.ReceiptFields{QtyIn: d("10"), PricePerArea: d("20")}, decimal.Zero)
	assertDec(t, "0", lc.BaseCost)
	assertDec(t, "0", lc.LandedCostPerUnit)
	assertDec(t, "0", lc.LandedCostPerArea)
}

func TestComputeLandedCost_AllTransportSources(t *testing.T) {
	lc := ComputeLandedCost(entity.ReceiptFields{
		QtyIn:            d("12"),
		QtyDamaged:       d("2"),
		PricePerUnit:     d("200"),
		TransportPct:     d("5"),
		TransportPerUnit: d("3"),
		TransportTotal:   d("150"),
	}, d("10"))

	assertDec(t, "10", lc.NetGoodQty)
	assertDec(t, "10", lc.TransportPctAmount)
	assertDec(t, "3", lc.TransportPerUnitAdder)
	assertDec(t, "15", lc.TransportAllocPerUnit)
	assertDec(t, "28", lc.TransportPerUnit)
	assertDec(t, "228", lc.LandedCostPerUnit)
	assertDec(t, "22.8", lc.LandedCostPerArea)
	assertDec(t, "2280", lc.TotalLandedValue)
	assertDec(t, "400", lc.DamageCost)
	assertDec(t, "14", lc.TransportPctOfBase)
	assert.True(t, lc.LandedCostPerUnit.GreaterThanOrEqual(lc.BaseCost))

	assertDec(t, "213", lc.PerUnit(enum.CostModeSimple))
	assertDec(t, "228", lc.PerUnit(enum.CostModeDetailed))
	assertDec(t, "21.3", lc.PerArea(enum.CostModeSimple))
}

func TestComputeLandedCost_LumpWithNoGoodQty(t *testing.T) {
	lc := ComputeLandedCost(entity.ReceiptFields{
		QtyIn:          d("4"),
		QtyDamaged:     d("4"),
		PricePerUnit:   d("100"),
		TransportTotal: d("500"),
	}, decimal.Zero)

	assertDec(t, "0", lc.TransportAllocPerUnit)
	assertDec(t, "100", lc.LandedCostPerUnit)
	assertDec(t, "100", lc.DamagePct)
}

func TestComputeLandedCost_NegativeInputsNeverProduceNegativeOutputs(t *testing.T) {
	lc := ComputeLandedCost(entity.ReceiptFields{
		QtyIn:            d("-5"),
		QtyDamaged:       d("-1"),
		PricePerUnit:     d("-10"),
		PricePerArea:     d("-3"),
		TransportPct:     d("-5"),
		TransportPerUnit: d("-2"),
		TransportTotal:   d("-100"),
	}, d("-1"))

	for name, v := range map[string]decimal.Decimal{
		"base":     lc.BaseCost,
		"net":      lc.NetGoodQty,
		"per_unit": lc.LandedCostPerUnit,
		"per_area": lc.LandedCostPerArea,
		"damage":   lc.DamageCost,
	} {
		assert.False(t, v.IsNegative(), name)
	}
}

func TestRounded(t *testing.T) {
	lc := ComputeLandedCost(entity.ReceiptFields{
		QtyIn:          d("3"),
		PricePerUnit:   d("10"),
		TransportTotal: d("1"),
	}, decimal.Zero)

	assertDec(t, "10.33", lc.Rounded(enum.ItemKindTile.CostPrecision()).LandedCostPerUnit)
	assertDec(t, "10.3333", lc.Rounded(enum.ItemKindMisc.CostPrecision()).LandedCostPerUnit)
}

func TestRounded_TotalRoundsUnroundedSum(t *testing.T) {
	lc := ComputeLandedCost(entity.ReceiptFields{
		QtyIn:          d("3"),
		PricePerUnit:   d("10"),
		TransportPct:   d("0.04"),
		TransportTotal: d("1.002"),
	}, decimal.Zero).Rounded(enum.ItemKindTile.CostPrecision())

	assertDec(t, "0", lc.TransportPctAmount)
	assertDec(t, "0.33", lc.TransportAllocPerUnit)
	// 10 + 0.004 + 0.334, rounded once
	assertDec(t, "10.34", lc.LandedCostPerUnit)
}

func TestWeightedAverageCost(t *testing.T) {
	a := ComputeLandedCost(entity.ReceiptFields{QtyIn: d("10"), PricePerUnit: d("100")}, decimal.Zero)
	b := ComputeLandedCost(entity.ReceiptFields{QtyIn: d("30"), PricePerUnit: d("200")}, decimal.Zero)
	empty := ComputeLandedCost(entity.ReceiptFields{QtyIn: d("5"), QtyDamaged: d("5"), PricePerUnit: d("999")}, decimal.Zero)

	assertDec(t, "175", WeightedAverageCost([]LandedCost{a, b, empty}, enum.CostModeDetailed))
	assertDec(t, "0", WeightedAverageCost(nil, enum.CostModeDetailed))
	assertDec(t, "0", WeightedAverageCost([]LandedCost{empty}, enum.CostModeDetailed))
}

package costing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func raw(s string) *string {
	return &s
}

var tile = entity.Item{ID: 7, Kind: enum.ItemKindTile, AreaPerPackage: d("10")}

func TestParseLegacyDate(t *testing.T) {
	got, ok := ParseLegacyDate("2024-01-31")
	require.True(t, ok)
	assert.Equal(t, "2024-01-31", got.Format("2006-01-02"))

	got, ok = ParseLegacyDate(" 31-01-2024 ")
	require.True(t, ok)
	assert.Equal(t, "2024-01-31", got.Format("2006-01-02"))

	for _, bad := range []string{"", "2024/01/31", "31/01/2024", "2024-13-01", "yesterday", "2024-1-5"} {
		_, ok := ParseLegacyDate(bad)
		assert.False(t, ok, bad)
	}
}

func TestSelectHistoricalCost_AsOfSkipsUnusableNewerReceipt(t *testing.T) {
	receipts := []entity.Receipt{
		{ID: 1, ItemID: 7, QtyIn: d("10"), PricePerUnit: d("100"), PurchaseDate: date("2023-06-01")},
		{ID: 2, ItemID: 7, QtyIn: d("10"), PricePerUnit: d("0"), PurchaseDate: date("2024-01-01")},
	}

	hc := SelectHistoricalCost(tile, receipts, *date("2024-06-01"), enum.CostModeDetailed)

	assert.Equal(t, BasisAsOfHit, hc.Basis)
	require.NotNil(t, hc.ReceiptID)
	assert.Equal(t, int64(1), *hc.ReceiptID)
	assertDec(t, "100", hc.LandedCostPerUnit)
	assert.False(t, hc.Gap())
}

func TestSelectHistoricalCost_OnlyUnusableReceiptIsGap(t *testing.T) {
	receipts := []entity.Receipt{
		{ID: 1, ItemID: 7, QtyIn: d("10"), PurchaseDate: date("2024-01-01")},
	}

	hc := SelectHistoricalCost(tile, receipts, *date("2024-06-01"), enum.CostModeDetailed)

	assert.Equal(t, BasisNoCostRows, hc.Basis)
	assert.True(t, hc.Gap())
	assert.Nil(t, hc.ReceiptID)
	assertDec(t, "0", hc.LandedCostPerUnit)
}

func TestSelectHistoricalCost_FallsBackToLatestAfterAsOf(t *testing.T) {
	receipts := []entity.Receipt{
		{ID: 3, ItemID: 7, QtyIn: d("10"), PricePerUnit: d("120"), PurchaseDate: date("2024-03-01")},
		{ID: 4, ItemID: 7, QtyIn: d("10"), PricePerUnit: d("130"), PurchaseDate: date("2024-05-01")},
	}

	hc := SelectHistoricalCost(tile, receipts, *date("2023-01-01"), enum.CostModeDetailed)

	assert.Equal(t, BasisFallbackLatest, hc.Basis)
	assert.Equal(t, int64(4), *hc.ReceiptID)
	assertDec(t, "130", hc.LandedCostPerUnit)
}

func TestSelectHistoricalCost_UndatedReceiptsComeFirst(t *testing.T) {
	receipts := []entity.Receipt{
		{ID: 1, ItemID: 7, QtyIn: d("10"), PricePerUnit: d("90"), PurchaseDate: date("2024-05-30")},
		{ID: 2, ItemID: 7, QtyIn: d("10"), PricePerUnit: d("80"), PurchaseDateRaw: raw("sometime in May")},
	}

	hc := SelectHistoricalCost(tile, receipts, *date("2024-06-01"), enum.CostModeDetailed)

	assert.Equal(t, BasisAsOfHit, hc.Basis)
	assert.Equal(t, int64(2), *hc.ReceiptID)
	assert.Nil(t, hc.ReceiptDate)
}

func TestSelectHistoricalCost_LegacyTextDatesAndIDTieBreak(t *testing.T) {
	receipts := []entity.Receipt{
		{ID: 10, ItemID: 7, QtyIn: d("10"), PricePerUnit: d("50"), PurchaseDateRaw: raw("15-02-2024")},
		{ID: 11, ItemID: 7, QtyIn: d("10"), PricePerUnit: d("55"), PurchaseDateRaw: raw("2024-02-15")},
		{ID: 12, ItemID: 7, QtyIn: d("10"), PricePerUnit: d("70"), PurchaseDateRaw: raw("01-04-2024")},
	}

	hc := SelectHistoricalCost(tile, receipts, *date("2024-03-01"), enum.CostModeDetailed)

	assert.Equal(t, BasisAsOfHit, hc.Basis)
	assert.Equal(t, int64(11), *hc.ReceiptID)
	assert.Equal(t, "2024-02-15", hc.ReceiptDate.Format("2006-01-02"))
}

func TestSelectHistoricalCost_ModeAndRounding(t *testing.T) {
	receipts := []entity.Receipt{
		{ID: 1, ItemID: 7, QtyIn: d("3"), PricePerUnit: d("10"), TransportTotal: d("1"), PurchaseDate: date("2024-01-01")},
	}
	asOf := *date("2024-06-01")

	detailed := SelectHistoricalCost(tile, receipts, asOf, enum.CostModeDetailed)
	simple := SelectHistoricalCost(tile, receipts, asOf, enum.CostModeSimple)
	assertDec(t, "10.33", detailed.LandedCostPerUnit)
	assertDec(t, "10", simple.LandedCostPerUnit)

	misc := entity.Item{ID: 8, Kind: enum.ItemKindMisc}
	hc := SelectHistoricalCost(misc, receipts, asOf, enum.CostModeDetailed)
	assertDec(t, "10.3333", hc.LandedCostPerUnit)
	assertDec(t, "0", hc.LandedCostPerArea)
}

func TestSelectHistoricalCost_NoReceipts(t *testing.T) {
	hc := SelectHistoricalCost(tile, nil, time.Now(), enum.CostModeDetailed)
	assert.True(t, hc.Gap())
}

package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/costing"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/apperror"
)

func TestSelectHistoricalCost_AsOfAndFallback(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	item := e.store.addItem(enum.ItemKindTile, "10")

	early := receiptFields("10", "0", "100")
	early.PurchaseDate = date("2024-01-10")
	e.store.addReceipt(item.ID, early)

	late := receiptFields("10", "0", "150")
	late.PurchaseDate = date("2024-03-01")
	latest := e.store.addReceipt(item.ID, late)

	hc, err := e.costing.SelectHistoricalCost(ctx, item.ID, *date("2024-02-01"), nil)
	require.NoError(t, err)
	assert.Equal(t, costing.BasisAsOfHit, hc.Basis)
	assert.True(t, d("100").Equal(hc.BaseCost))

	hc, err = e.costing.SelectHistoricalCost(ctx, item.ID, *date("2023-12-31"), nil)
	require.NoError(t, err)
	assert.Equal(t, costing.BasisFallbackLatest, hc.Basis)
	require.NotNil(t, hc.ReceiptID)
	assert.Equal(t, latest.ID, *hc.ReceiptID)
}

func TestSelectHistoricalCost_ModeFromSettings(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	item := e.store.addItem(enum.ItemKindMisc, "0")
	f := receiptFields("10", "0", "100")
	f.TransportTotal = d("50")
	e.store.addReceipt(item.ID, f)

	hc, err := e.costing.SelectHistoricalCost(ctx, item.ID, *date("2030-01-01"), nil)
	require.NoError(t, err)
	assert.Equal(t, enum.CostModeDetailed, hc.Mode)
	assert.True(t, d("105").Equal(hc.LandedCostPerUnit), hc.LandedCostPerUnit.String())

	e.store.settings[entity.SettingCostMode] = "simple"
	hc, err = e.costing.SelectHistoricalCost(ctx, item.ID, *date("2030-01-01"), nil)
	require.NoError(t, err)
	assert.Equal(t, enum.CostModeSimple, hc.Mode)
	assert.True(t, d("100").Equal(hc.LandedCostPerUnit), hc.LandedCostPerUnit.String())

	detailed := enum.CostModeDetailed
	hc, err = e.costing.SelectHistoricalCost(ctx, item.ID, *date("2030-01-01"), &detailed)
	require.NoError(t, err)
	assert.True(t, d("105").Equal(hc.LandedCostPerUnit))
}

func TestSelectHistoricalCost_GapIsNotAnError(t *testing.T) {
	e := newTestEngine()
	item := e.store.addItem(enum.ItemKindTile, "10")
	e.store.addReceipt(item.ID, receiptFields("10", "0", "0"))

	hc, err := e.costing.SelectHistoricalCost(context.Background(), item.ID, *date("2024-01-01"), nil)
	require.NoError(t, err)
	assert.True(t, hc.Gap())
	assert.Nil(t, hc.ReceiptID)
	assert.True(t, hc.LandedCostPerUnit.IsZero())
}

func TestSelectHistoricalCost_UnknownItem(t *testing.T) {
	e := newTestEngine()

	_, err := e.costing.SelectHistoricalCost(context.Background(), 1, *date("2024-01-01"), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestPreviewLandedCost_IgnoresAreaForMisc(t *testing.T) {
	e := newTestEngine()
	f := entity.ReceiptFields{QtyIn: d("3"), PricePerArea: d("12.5")}

	tile := e.costing.PreviewLandedCost(f, enum.ItemKindTile, d("4"))
	assert.True(t, d("50").Equal(tile.BaseCost))

	misc := e.costing.PreviewLandedCost(f, enum.ItemKindMisc, d("4"))
	assert.True(t, misc.BaseCost.IsZero())
}

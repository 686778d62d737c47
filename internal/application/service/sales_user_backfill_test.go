package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
)

func TestBackfillSalesUsers(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	ravi := e.store.addUser("ravi")
	meena := e.store.addUser("meena")
	meena.Mobile = "9876543210"
	meena.Email = "meena@example.com"
	meena.Name = "Meena Iyer"
	e.store.users[meena.ID] = meena

	byUsername := e.store.addInvoice(entity.Invoice{LegacySalesperson: entity.LegacySalesperson{LegacySalesUser: " ravi "}})
	byMobile := e.store.addInvoice(entity.Invoice{LegacySalesperson: entity.LegacySalesperson{LegacySalesperson: "9876543210"}})
	byLaterColumn := e.store.addInvoice(entity.Invoice{LegacySalesperson: entity.LegacySalesperson{
		LegacySalesUser: "someone-else",
		LegacyCreatedBy: "meena@example.com",
	}})
	byName := e.store.addInvoice(entity.Invoice{LegacySalesperson: entity.LegacySalesperson{LegacyCreatedByUser: "Meena Iyer"}})
	unknown := e.store.addInvoice(entity.Invoice{LegacySalesperson: entity.LegacySalesperson{LegacyUserName: "walk-in"}})
	empty := e.store.addInvoice(entity.Invoice{})
	already := e.store.addInvoice(entity.Invoice{SalesUserID: &meena.ID, LegacySalesperson: entity.LegacySalesperson{LegacySalesUser: "ravi"}})

	res, err := e.backfill.BackfillSalesUsers(ctx)
	require.NoError(t, err)

	assert.Equal(t, 6, res.Scanned)
	assert.Equal(t, 4, res.Resolved)
	assert.ElementsMatch(t, []int64{unknown.ID, empty.ID}, res.Unresolved)

	want := map[int64]int64{
		byUsername.ID:    ravi.ID,
		byMobile.ID:      meena.ID,
		byLaterColumn.ID: meena.ID,
		byName.ID:        meena.ID,
		already.ID:       meena.ID,
	}
	for invoiceID, userID := range want {
		got := e.store.invoices[invoiceID].SalesUserID
		require.NotNil(t, got, invoiceID)
		assert.Equal(t, userID, *got, invoiceID)
	}
	assert.Nil(t, e.store.invoices[unknown.ID].SalesUserID)

	again, err := e.backfill.BackfillSalesUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Scanned)
	assert.Equal(t, 0, again.Resolved)
}

func TestBackfillSalesUsers_ThenSyncSucceeds(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	e.store.addUser("ravi")
	inv := e.store.addInvoice(entity.Invoice{Total: d("1000"), LegacySalesperson: entity.LegacySalesperson{LegacySalesperson: "ravi"}})

	_, err := e.commissions.SyncCommission(ctx, inv.ID)
	require.Error(t, err)

	_, err = e.backfill.BackfillSalesUsers(ctx)
	require.NoError(t, err)

	res, err := e.commissions.SyncCommission(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, res.Created)
}

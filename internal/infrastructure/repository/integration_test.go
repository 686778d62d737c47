//go:build integration

// Run with: go test -tags integration ./internal/infrastructure/repository/...
package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/imranmdl/tile-granite-management-sub002/internal/application/service"
	"github.com/imranmdl/tile-granite-management-sub002/internal/config"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/costing"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
	"github.com/imranmdl/tile-granite-management-sub002/internal/infrastructure/database"
	"github.com/imranmdl/tile-granite-management-sub002/internal/infrastructure/repository"
)

type testEnv struct {
	db          *gorm.DB
	inventory   *service.InventoryService
	costing     *service.CostingService
	commissions *service.CommissionService
	resolver    *service.SalesUserResolver
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("tile_granite_test"),
		tcPostgres.WithUsername("tile"),
		tcPostgres.WithPassword("tile"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, database.MigrateDSN(ctx, dsn))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, database.NewSchemaInspector(db, 3).Verify(ctx))

	repos := repository.NewRepositories(db)
	uow := repository.NewUnitOfWork(db)
	settings := service.NewSettingsService(config.EngineConfig{
		DefaultCommissionPct: decimal.Zero,
		CostMode:             "detailed",
		DamageWarningPct:     decimal.NewFromInt(10),
		TransportWarningPct:  decimal.NewFromInt(20),
	}, repos.Settings)

	return &testEnv{
		db:          db,
		inventory:   service.NewInventoryService(uow, repos, settings),
		costing:     service.NewCostingService(repos, settings),
		commissions: service.NewCommissionService(uow, repos, settings),
		resolver:    service.NewSalesUserResolver(uow, repos),
	}
}

func (e *testEnv) exec(t *testing.T, sql string, args ...interface{}) {
	t.Helper()
	require.NoError(t, e.db.Exec(sql, args...).Error)
}

func TestInventoryAgainstPostgres(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	e.exec(t, `INSERT INTO items (id, kind, name, area_per_package) VALUES (1, 'TILE', 'Vitrified 600x600', 1.44)`)
	e.exec(t, `INSERT INTO invoices (id, invoice_no, invoice_date, total) VALUES (1, 'INV-1', '2024-03-01', 0)`)

	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	created, err := e.inventory.CreateReceipt(ctx, 1, entity.ReceiptFields{
		QtyIn:        decimal.NewFromInt(20),
		PricePerUnit: decimal.NewFromInt(100),
		PurchaseDate: &march,
	})
	require.NoError(t, err)

	e.exec(t, `INSERT INTO sale_lines (invoice_id, item_id, qty) VALUES (1, 1, 15)`)
	e.exec(t, `INSERT INTO return_lines (item_id, qty) VALUES (1, 2)`)

	avail, err := e.inventory.ComputeAvailability(ctx, 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(7).Equal(avail), avail.String())

	_, err = e.inventory.ValidateAndApplyReceiptEdit(ctx, created.Receipt.ID, entity.ReceiptFields{
		QtyIn:        decimal.NewFromInt(12),
		PricePerUnit: decimal.NewFromInt(100),
	})
	require.Error(t, err, "reducing by 8 exceeds availability of 7")

	res, err := e.inventory.ValidateAndApplyReceiptEdit(ctx, created.Receipt.ID, entity.ReceiptFields{
		QtyIn:        decimal.NewFromInt(13),
		PricePerUnit: decimal.NewFromInt(110),
		PurchaseDate: &march,
	})
	require.NoError(t, err)
	assert.True(t, res.Available.IsZero())

	hc, err := e.costing.SelectHistoricalCost(ctx, 1, march.AddDate(0, 0, 10), nil)
	require.NoError(t, err)
	assert.Equal(t, costing.BasisAsOfHit, hc.Basis)
	assert.True(t, decimal.NewFromInt(110).Equal(hc.LandedCostPerUnit), hc.LandedCostPerUnit.String())

	hc, err = e.costing.SelectHistoricalCost(ctx, 1, march.AddDate(0, 0, -1), nil)
	require.NoError(t, err)
	assert.Equal(t, costing.BasisFallbackLatest, hc.Basis)
}

func TestCommissionsAgainstPostgres(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	e.exec(t, `INSERT INTO users (id, username, name, mobile) VALUES (7, 'ravi', 'Ravi Kumar', '9800000000')`)
	e.exec(t, `INSERT INTO invoices (id, invoice_no, invoice_date, total, salesperson) VALUES (1, 'INV-1', '2024-03-01', 10000, 'Ravi Kumar')`)
	e.exec(t, `INSERT INTO invoices (id, invoice_no, invoice_date, total, created_by) VALUES (2, 'INV-2', '2024-03-02', 500, 'nobody')`)

	backfill, err := e.resolver.BackfillSalesUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, backfill.Scanned)
	assert.Equal(t, 1, backfill.Resolved)
	assert.Equal(t, []int64{2}, backfill.Unresolved)

	_, err = e.commissions.CreateRate(ctx, service.CreateRateInput{Scope: enum.CommissionScopeGlobal, Pct: decimal.NewFromInt(5)})
	require.NoError(t, err)

	res, err := e.commissions.SyncCommission(ctx, 1)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "500", res.Amount.String())

	paidRef := "NEFT-1"
	entry, err := e.commissions.SetLedgerStatus(ctx, 1, service.SetLedgerStatusInput{Status: enum.CommissionStatusPaid, Reference: &paidRef})
	require.NoError(t, err)
	require.NotNil(t, entry.PaidOn)

	userID := int64(7)
	_, err = e.commissions.CreateRate(ctx, service.CreateRateInput{Scope: enum.CommissionScopeUser, ScopeID: &userID, Pct: decimal.NewFromInt(3)})
	require.NoError(t, err)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	rc, err := e.commissions.RecomputeCommissions(ctx, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, 2, rc.Total)
	assert.Equal(t, 1, rc.Synced)
	require.Len(t, rc.Failures, 1)
	assert.Equal(t, int64(2), rc.Failures[0].InvoiceID)

	var stored entity.CommissionLedgerEntry
	require.NoError(t, e.db.Where("invoice_id = ?", 1).First(&stored).Error)
	assert.Equal(t, enum.CommissionStatusPaid, stored.Status)
	assert.Equal(t, "300", stored.Amount.String())
	assert.Equal(t, paidRef, stored.Reference)
	require.NotNil(t, stored.PaidOn)
	assert.True(t, entry.PaidOn.Equal(*stored.PaidOn))
}

func TestIdempotencyKeysAgainstPostgres(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()
	repo := repository.NewIdempotencyRepository(e.db)
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{Key: "k1", ActorID: 7, Endpoint: "POST /x", ResponseCode: 201, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{Key: "k2", ActorID: 7, Endpoint: "POST /x", ResponseCode: 201, ExpiresAt: now.Add(-time.Hour)}))

	got, err := repo.GetByKey(ctx, "k1", 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.ResponseCode)

	other, err := repo.GetByKey(ctx, "k1", 8)
	require.NoError(t, err)
	assert.Nil(t, other)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stale := &entity.IdempotencyKey{Key: "k3", ActorID: 7, Endpoint: "POST /x", ResponseCode: 201, ExpiresAt: now.Add(-time.Minute)}
	require.NoError(t, repo.Create(ctx, stale))
	fresh := &entity.IdempotencyKey{Key: "k3", ActorID: 7, Endpoint: "POST /y", ResponseCode: 200, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, fresh), "an unswept expired key is overwritten")

	got, err = repo.GetByKey(ctx, "k3", 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 200, got.ResponseCode)
	assert.Equal(t, "POST /y", got.Endpoint)
	assert.False(t, got.IsExpired(now))
}

package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/internal/config"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/pagination"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ptr[T any](v T) *T {
	return &v
}

// memStore backs every stub repository with plain maps
type memStore struct {
	nextID   int64
	items    map[int64]entity.Item
	receipts map[int64]entity.Receipt
	sales    []entity.SaleLine
	returns  []entity.ReturnLine
	invoices map[int64]entity.Invoice
	users    map[int64]entity.User
	rates    []entity.CommissionRate
	ledger   map[int64]entity.CommissionLedgerEntry
	settings map[entity.SettingKey]string
}

func newMemStore() *memStore {
	return &memStore{
		items:    map[int64]entity.Item{},
		receipts: map[int64]entity.Receipt{},
		invoices: map[int64]entity.Invoice{},
		users:    map[int64]entity.User{},
		ledger:   map[int64]entity.CommissionLedgerEntry{},
		settings: map[entity.SettingKey]string{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) repos() repository.Repositories {
	return repository.Repositories{
		Items:       &stubItems{m},
		Receipts:    &stubReceipts{m},
		Stock:       &stubStock{m},
		Invoices:    &stubInvoices{m},
		Users:       &stubUsers{m},
		Commissions: &stubCommissions{m},
		Settings:    &stubSettings{m},
	}
}

// fixtures

func (m *memStore) addItem(kind enum.ItemKind, area string) entity.Item {
	item := entity.Item{ID: m.id(), Kind: kind, Name: "Item", AreaPerPackage: d(area)}
	m.items[item.ID] = item
	return item
}

func (m *memStore) addReceipt(itemID int64, f entity.ReceiptFields) entity.Receipt {
	r := entity.Receipt{ID: m.id(), ItemID: itemID}
	r.Apply(f)
	m.receipts[r.ID] = r
	return r
}

func (m *memStore) addSale(itemID int64, qty string) {
	m.sales = append(m.sales, entity.SaleLine{ID: m.id(), ItemID: itemID, Qty: d(qty)})
}

func (m *memStore) addInvoiceLine(invoiceID, itemID int64, qty, lineTotal string) entity.SaleLine {
	line := entity.SaleLine{ID: m.id(), InvoiceID: invoiceID, ItemID: itemID, Qty: d(qty), LineTotal: d(lineTotal)}
	m.sales = append(m.sales, line)
	return line
}

func (m *memStore) addReturn(itemID int64, qty string) {
	m.returns = append(m.returns, entity.ReturnLine{ID: m.id(), ItemID: itemID, Qty: d(qty)})
}

func (m *memStore) addUser(username string) entity.User {
	u := entity.User{ID: m.id(), Username: username, Name: username, Active: true}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addInvoice(inv entity.Invoice) entity.Invoice {
	inv.ID = m.id()
	if inv.InvoiceNo == "" {
		inv.InvoiceNo = "INV-" + decimal.NewFromInt(inv.ID).String()
	}
	m.invoices[inv.ID] = inv
	return inv
}

func (m *memStore) addRate(scope enum.CommissionScope, scopeID *int64, pct string) entity.CommissionRate {
	r := entity.CommissionRate{ID: m.id(), Scope: scope, ScopeID: scopeID, Pct: d(pct), Active: true}
	m.rates = append(m.rates, r)
	return r
}

// stubUoW runs fn against the shared store without rollback
type stubUoW struct {
	store *memStore
	calls int
}

func (u *stubUoW) Do(ctx context.Context, fn func(repos repository.Repositories) error) error {
	u.calls++
	return fn(u.store.repos())
}

var (
	_ repository.ItemRepository          = (*stubItems)(nil)
	_ repository.ReceiptRepository       = (*stubReceipts)(nil)
	_ repository.StockMovementRepository = (*stubStock)(nil)
	_ repository.InvoiceRepository       = (*stubInvoices)(nil)
	_ repository.UserRepository          = (*stubUsers)(nil)
	_ repository.CommissionRepository    = (*stubCommissions)(nil)
	_ repository.SettingsRepository      = (*stubSettings)(nil)
	_ repository.UnitOfWork              = (*stubUoW)(nil)
)

type stubItems struct{ m *memStore }

func (s *stubItems) FindByID(ctx context.Context, id int64) (*entity.Item, error) {
	item, ok := s.m.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *stubItems) List(ctx context.Context, filter repository.ItemFilter, params *pagination.PaginationParams) ([]entity.Item, int64, error) {
	var all []entity.Item
	for _, item := range s.m.items {
		if filter.Kind != "" && item.Kind != filter.Kind {
			continue
		}
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	start := params.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + params.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

type stubReceipts struct{ m *memStore }

func (s *stubReceipts) FindByID(ctx context.Context, id int64) (*entity.Receipt, error) {
	r, ok := s.m.receipts[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *stubReceipts) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Receipt, error) {
	return s.FindByID(ctx, id)
}

func (s *stubReceipts) ListByItem(ctx context.Context, itemID int64) ([]entity.Receipt, error) {
	var out []entity.Receipt
	for _, r := range s.m.receipts {
		if r.ItemID == itemID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubReceipts) Create(ctx context.Context, receipt *entity.Receipt) error {
	receipt.ID = s.m.id()
	s.m.receipts[receipt.ID] = *receipt
	return nil
}

func (s *stubReceipts) Update(ctx context.Context, receipt *entity.Receipt) error {
	s.m.receipts[receipt.ID] = *receipt
	return nil
}

func (s *stubReceipts) Delete(ctx context.Context, id int64) error {
	delete(s.m.receipts, id)
	return nil
}

type stubStock struct{ m *memStore }

func (s *stubStock) SumSold(ctx context.Context, itemID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range s.m.sales {
		if l.ItemID == itemID {
			total = total.Add(l.Qty)
		}
	}
	return total, nil
}

func (s *stubStock) SumReturned(ctx context.Context, itemID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range s.m.returns {
		if l.ItemID == itemID {
			total = total.Add(l.Qty)
		}
	}
	return total, nil
}

func (s *stubStock) CountSaleLines(ctx context.Context, itemID int64) (int64, error) {
	var n int64
	for _, l := range s.m.sales {
		if l.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

type stubInvoices struct{ m *memStore }

func (s *stubInvoices) FindByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	inv, ok := s.m.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (s *stubInvoices) ListIDs(ctx context.Context, from, to *time.Time) ([]int64, error) {
	var ids []int64
	for id, inv := range s.m.invoices {
		if from != nil && (inv.InvoiceDate == nil || inv.InvoiceDate.Before(*from)) {
			continue
		}
		if to != nil && (inv.InvoiceDate == nil || inv.InvoiceDate.After(*to)) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *stubInvoices) ListWithoutSalesUser(ctx context.Context) ([]entity.Invoice, error) {
	var out []entity.Invoice
	for _, inv := range s.m.invoices {
		if inv.SalesUserID == nil {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubInvoices) ListLines(ctx context.Context, invoiceID int64) ([]entity.SaleLine, error) {
	var out []entity.SaleLine
	for _, line := range s.m.sales {
		if line.InvoiceID == invoiceID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (s *stubInvoices) SetSalesUser(ctx context.Context, invoiceID, userID int64) error {
	inv := s.m.invoices[invoiceID]
	inv.SalesUserID = &userID
	s.m.invoices[invoiceID] = inv
	return nil
}

type stubUsers struct{ m *memStore }

func (s *stubUsers) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	u, ok := s.m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *stubUsers) FindBy(ctx context.Context, field repository.UserLookupField, value string) (*entity.User, error) {
	ids := make([]int64, 0, len(s.m.users))
	for id := range s.m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		u := s.m.users[id]
		var got string
		switch field {
		case repository.UserLookupUsername:
			got = u.Username
		case repository.UserLookupMobile:
			got = u.Mobile
		case repository.UserLookupEmail:
			got = u.Email
		case repository.UserLookupName:
			got = u.Name
		}
		if got != "" && got == value {
			return &u, nil
		}
	}
	return nil, nil
}

type stubCommissions struct{ m *memStore }

func (s *stubCommissions) FindActiveRate(ctx context.Context, scope enum.CommissionScope, scopeID int64) (*entity.CommissionRate, error) {
	for i := len(s.m.rates) - 1; i >= 0; i-- {
		r := s.m.rates[i]
		if !r.Active || r.Scope != scope {
			continue
		}
		if scope != enum.CommissionScopeGlobal && (r.ScopeID == nil || *r.ScopeID != scopeID) {
			continue
		}
		return &r, nil
	}
	return nil, nil
}

func (s *stubCommissions) FindRateByID(ctx context.Context, id int64) (*entity.CommissionRate, error) {
	for _, r := range s.m.rates {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (s *stubCommissions) CreateRate(ctx context.Context, rate *entity.CommissionRate) error {
	rate.ID = s.m.id()
	s.m.rates = append(s.m.rates, *rate)
	return nil
}

func (s *stubCommissions) DeactivateRate(ctx context.Context, id int64) error {
	for i := range s.m.rates {
		if s.m.rates[i].ID == id {
			s.m.rates[i].Active = false
		}
	}
	return nil
}

func (s *stubCommissions) ListRates(ctx context.Context, activeOnly bool) ([]entity.CommissionRate, error) {
	var out []entity.CommissionRate
	for _, r := range s.m.rates {
		if activeOnly && !r.Active {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *stubCommissions) FindLedgerByInvoice(ctx context.Context, invoiceID int64) (*entity.CommissionLedgerEntry, error) {
	e, ok := s.m.ledger[invoiceID]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *stubCommissions) CreateLedger(ctx context.Context, entry *entity.CommissionLedgerEntry) error {
	entry.ID = s.m.id()
	s.m.ledger[entry.InvoiceID] = *entry
	return nil
}

func (s *stubCommissions) UpdateLedger(ctx context.Context, entry *entity.CommissionLedgerEntry, columns ...string) error {
	s.m.ledger[entry.InvoiceID] = *entry
	return nil
}

func (s *stubCommissions) ListLedger(ctx context.Context, filter repository.LedgerFilter, params *pagination.PaginationParams) ([]entity.CommissionLedgerEntry, int64, error) {
	all, _ := s.AllLedger(ctx, filter)
	start := params.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + params.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (s *stubCommissions) AllLedger(ctx context.Context, filter repository.LedgerFilter) ([]entity.CommissionLedgerEntry, error) {
	var out []entity.CommissionLedgerEntry
	for _, e := range s.m.ledger {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.UserID != nil && e.SalespersonUserID != *filter.UserID {
			continue
		}
		if inv, ok := s.m.invoices[e.InvoiceID]; ok {
			e.Invoice = &inv
		}
		if u, ok := s.m.users[e.SalespersonUserID]; ok {
			e.Salesperson = &u
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceID > out[j].InvoiceID })
	return out, nil
}

type stubSettings struct{ m *memStore }

func (s *stubSettings) GetAll(ctx context.Context) ([]entity.AppSetting, error) {
	var out []entity.AppSetting
	for k, v := range s.m.settings {
		out = append(out, entity.AppSetting{Key: k, Value: v})
	}
	return out, nil
}

func (s *stubSettings) Upsert(ctx context.Context, setting *entity.AppSetting) error {
	s.m.settings[setting.Key] = setting.Value
	return nil
}

// testEngine wires services over one memStore
type testEngine struct {
	store       *memStore
	uow         *stubUoW
	settings    *SettingsService
	inventory   *InventoryService
	costing     *CostingService
	commissions *CommissionService
	backfill    *SalesUserResolver
	reports     *ReportService
}

func newTestEngine() *testEngine {
	store := newMemStore()
	repos := store.repos()
	uow := &stubUoW{store: store}
	settings := NewSettingsService(config.EngineConfig{
		DefaultCommissionPct: decimal.Zero,
		CostMode:             "detailed",
		DamageWarningPct:     decimal.NewFromInt(10),
		TransportWarningPct:  decimal.NewFromInt(20),
	}, repos.Settings)

	return &testEngine{
		store:       store,
		uow:         uow,
		settings:    settings,
		inventory:   NewInventoryService(uow, repos, settings),
		costing:     NewCostingService(repos, settings),
		commissions: NewCommissionService(uow, repos, settings),
		backfill:    NewSalesUserResolver(uow, repos),
		reports:     NewReportService(repos, settings),
	}
}

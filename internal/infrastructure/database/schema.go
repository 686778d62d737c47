package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// RequiredSchema lists the tables and columns the engine reads or writes.
var RequiredSchema = map[string][]string{
	"items":             {"id", "kind", "area_per_package"},
	"receipts":          {"id", "item_id", "qty_in", "qty_damaged", "price_per_unit", "price_per_area", "transport_pct", "transport_per_unit", "transport_total", "purchase_date", "purchase_date_raw"},
	"sale_lines":        {"item_id", "qty"},
	"return_lines":      {"item_id", "qty"},
	"invoices":          {"id", "invoice_date", "total", "quotation_id", "sales_user_id", "sales_user", "salesperson", "created_by", "user_name", "created_user", "created_by_user"},
	"users":             {"id", "username", "mobile", "email", "name"},
	"commission_rates":  {"scope", "scope_id", "pct", "active"},
	"commission_ledger": {"invoice_id", "salesperson_user_id", "base_amount", "pct", "amount", "status", "paid_on"},
	"app_settings":      {"key", "value"},
}

// ErrSchemaVersion is returned when the database is not at the expected
// migration version.
var ErrSchemaVersion = errors.New("unexpected schema version")

// SchemaCatalog answers structural questions about the connected database.
type SchemaCatalog interface {
	HasTable(table string) bool
	HasColumn(table, column string) bool
	Version(ctx context.Context) (int64, error)
}

// SchemaInspector checks the database against the schema the engine was
// built for. It runs once at startup; the engine never inspects columns
// while serving requests.
type SchemaInspector struct {
	catalog  SchemaCatalog
	expected int64
}

// NewSchemaInspector creates an inspector backed by a gorm connection.
func NewSchemaInspector(db *gorm.DB, expectedVersion int64) *SchemaInspector {
	return NewSchemaInspectorWithCatalog(&gormCatalog{db: db}, expectedVersion)
}

// NewSchemaInspectorWithCatalog creates an inspector over an arbitrary catalog.
func NewSchemaInspectorWithCatalog(catalog SchemaCatalog, expectedVersion int64) *SchemaInspector {
	return &SchemaInspector{catalog: catalog, expected: expectedVersion}
}

// HasTable reports whether the table exists.
func (s *SchemaInspector) HasTable(table string) bool {
	return s.catalog.HasTable(table)
}

// HasColumn reports whether the column exists on the table.
func (s *SchemaInspector) HasColumn(table, column string) bool {
	return s.catalog.HasColumn(table, column)
}

// Verify fails when the migration version differs from the expected one or
// when any required table or column is missing.
func (s *SchemaInspector) Verify(ctx context.Context) error {
	version, err := s.catalog.Version(ctx)
	if err != nil {
		return err
	}
	if version != s.expected {
		return fmt.Errorf("%w: database at %d, engine expects %d", ErrSchemaVersion, version, s.expected)
	}

	var missing []error
	for table, columns := range RequiredSchema {
		if !s.catalog.HasTable(table) {
			missing = append(missing, fmt.Errorf("missing table %s", table))
			continue
		}
		for _, col := range columns {
			if !s.catalog.HasColumn(table, col) {
				missing = append(missing, fmt.Errorf("missing column %s.%s", table, col))
			}
		}
	}
	return errors.Join(missing...)
}

type gormCatalog struct {
	db *gorm.DB
}

func (p *gormCatalog) HasTable(table string) bool {
	return p.db.Migrator().HasTable(table)
}

func (p *gormCatalog) HasColumn(table, column string) bool {
	return p.db.Migrator().HasColumn(table, column)
}

func (p *gormCatalog) Version(ctx context.Context) (int64, error) {
	sqlDB, err := p.db.DB()
	if err != nil {
		return 0, err
	}
	return SchemaVersion(ctx, sqlDB)
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
)

// Item is a stocked product. Tiles carry an area-per-package constant
// (square feet per box); misc items are counted in plain units.
type Item struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind           enum.ItemKind   `gorm:"type:varchar(8);not null;default:TILE" json:"kind"`
	Name           string          `gorm:"size:200;not null" json:"name"`
	SizeLabel      string          `gorm:"size:100" json:"size_label,omitempty"`
	UnitLabel      string          `gorm:"size:20;not null;default:box" json:"unit_label"`
	AreaPerPackage decimal.Decimal `gorm:"type:numeric(12,4);not null;default:0" json:"area_per_package"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Receipts []Receipt `gorm:"foreignKey:ItemID" json:"receipts,omitempty"`
}

// TableName returns the table name for the Item model
func (Item) TableName() string {
	return "items"
}

// ConversionArea returns the area-per-package used for costing. Misc items
// have no area conversion.
func (i *Item) ConversionArea() decimal.Decimal {
	if !i.Kind.IsAreaBased() {
		return decimal.Zero
	}
	return i.AreaPerPackage
}

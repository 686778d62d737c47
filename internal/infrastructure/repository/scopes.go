package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/imranmdl/tile-granite-management-sub002/pkg/pagination"
)

// Paginate returns a GORM scope applying offset pagination
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			params = pagination.DefaultPagination()
		}
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// DateBetween returns a GORM scope filtering column to the inclusive range.
// A nil bound leaves that side open.
func DateBetween(column string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", from.Format("2006-01-02"))
		}
		if to != nil {
			db = db.Where(column+" <= ?", to.Format("2006-01-02"))
		}
		return db
	}
}

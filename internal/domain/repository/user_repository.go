package repository

import (
	"context"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
)

// UserLookupField is a users column a free-text salesperson reference may match
type UserLookupField string

const (
	UserLookupUsername UserLookupField = "username"
	UserLookupMobile   UserLookupField = "mobile"
	UserLookupEmail    UserLookupField = "email"
	UserLookupName     UserLookupField = "name"
)

// UserLookupOrder is the order in which lookup fields are tried
var UserLookupOrder = []UserLookupField{
	UserLookupUsername,
	UserLookupMobile,
	UserLookupEmail,
	UserLookupName,
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	// FindBy returns the first user whose field equals value, or nil
	FindBy(ctx context.Context, field UserLookupField, value string) (*entity.User, error)
}

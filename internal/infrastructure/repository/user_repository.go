package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	domainRepo "github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindBy(ctx context.Context, field domainRepo.UserLookupField, value string) (*entity.User, error) {
	switch field {
	case domainRepo.UserLookupUsername, domainRepo.UserLookupMobile, domainRepo.UserLookupEmail, domainRepo.UserLookupName:
	default:
		return nil, errors.New("unsupported user lookup field: " + string(field))
	}

	var user entity.User
	err := r.db.WithContext(ctx).
		Where(string(field)+" = ?", value).
		Order("id ASC").
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

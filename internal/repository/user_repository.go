package repository

import (
	"context"
	"errors"

	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/types"
	"gorm.io/gorm"
)

// UserRepository holds the user queries
type UserRepository struct {
	*Repository[models.User]
}

// NewUserRepository creates a UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Repository: New[models.User](db)}
}

// FindByLogin returns the user with login, or types.ErrNotFound
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EnsureLogin returns the user with login, creating it on first sight.
func (r *UserRepository) EnsureLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(models.User{Login: login}).FirstOrCreate(&user).Error
	if err != nil {
		// lost a create race to another request for the same login
		if existing, findErr := r.FindByLogin(ctx, login); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return &user, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/repository"
	"gorm.io/gorm"
)

// EnsureUser returns the local user record of login, creating it on first sight
func EnsureUser(ctx context.Context, db *gorm.DB, login string) (*models.User, error) {
	user, err := repository.NewUserRepository(db).EnsureLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to provision user %s: %w", login, err)
	}
	return user, nil
}

// ListUsers returns every local user record
func ListUsers(ctx context.Context, db *gorm.DB) ([]models.User, error) {
	users, err := repository.NewUserRepository(db).FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

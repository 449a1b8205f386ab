package userRepo

import (
	"context"

	"mindcare/models"
)

// UserRepository persists end-user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, userID string, fields map[string]interface{}) error
	SetPremium(ctx context.Context, userID string, premium bool) error
	Delete(ctx context.Context, userID string) error
}

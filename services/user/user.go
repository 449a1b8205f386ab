// Package user handles end-user accounts: registration, sign-in, profile
// updates, and session tokens.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	userRepo "mindcare/database/repository/user"
	"mindcare/models"
	"mindcare/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 72 * time.Hour

// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken is returned when registering with an email that already has an account.
var ErrEmailTaken = errors.New("email already registered")

// TokenCache stores hashed session tokens so they can be revoked.
type TokenCache interface {
	Put(ctx context.Context, subjectID, tokenHash string, ttl time.Duration) error
	Get(ctx context.Context, subjectID string) (string, error)
	Drop(ctx context.Context, subjectID string) error
}

// UserService defines user account operations.
type UserService interface {
	Register(ctx context.Context, req models.UserRegistration) (*models.User, string, error)
	Authenticate(ctx context.Context, creds models.Credentials) (*models.User, string, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, userID string, fields map[string]interface{}) (*models.User, error)
	UpdateFCMToken(ctx context.Context, userID, token string) error
	RevokeToken(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string) error
}

// DefaultUserService is the concrete implementation.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Tokens TokenCache
}

// Register creates the account and signs the user in.
func (s *DefaultUserService) Register(ctx context.Context, req models.UserRegistration) (*models.User, string, error) {
	existing, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		utils.GetLogger().Error("user: duplicate check failed", zap.Error(err))
		return nil, "", fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate verifies credentials and issues a fresh token.
func (s *DefaultUserService) Authenticate(ctx context.Context, creds models.Credentials) (*models.User, string, error) {
	user, err := s.Repo.GetByEmail(ctx, creds.Email)
	if err != nil {
		return nil, "", fmt.Errorf("sign-in failed, please try again")
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *DefaultUserService) issueToken(ctx context.Context, userID, email string) (string, error) {
	token, err := utils.GenerateToken(userID, email, "user", tokenDuration)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.Tokens.Put(ctx, userID, utils.HashToken(token), tokenDuration); err != nil {
		return "", fmt.Errorf("failed to cache session token: %w", err)
	}
	return token, nil
}

func (s *DefaultUserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", userID)
	}
	return user, nil
}

// Update applies a whitelisted set of profile fields.
func (s *DefaultUserService) Update(ctx context.Context, userID string, fields map[string]interface{}) (*models.User, error) {
	allowed := map[string]bool{"name": true, "phone": true}
	filtered := make(map[string]interface{})
	for k, v := range fields {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}
	if err := s.Repo.Update(ctx, userID, filtered); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

func (s *DefaultUserService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	return s.Repo.Update(ctx, userID, map[string]interface{}{"fcmToken": token})
}

// RevokeToken drops the cached token hash, invalidating the session.
func (s *DefaultUserService) RevokeToken(ctx context.Context, userID string) error {
	return s.Tokens.Drop(ctx, userID)
}

func (s *DefaultUserService) Delete(ctx context.Context, userID string) error {
	if err := s.Tokens.Drop(ctx, userID); err != nil {
		utils.GetLogger().Warn("user: token drop on delete failed", zap.String("userId", userID), zap.Error(err))
	}
	return s.Repo.Delete(ctx, userID)
}

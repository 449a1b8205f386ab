// Package psychologist handles provider accounts and discovery: onboarding,
// sign-in, profile search, and schedule management entry points.
package psychologist

import (
	"context"
	"fmt"
	"time"

	psychologistRepo "mindcare/database/repository/psychologist"
	"mindcare/models"
	"mindcare/services/availability"
	"mindcare/services/user"
	"mindcare/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 72 * time.Hour

// PsychologistService defines provider account and discovery operations.
type PsychologistService interface {
	Register(ctx context.Context, req models.PsychologistRegistration) (*models.Psychologist, string, error)
	Authenticate(ctx context.Context, creds models.Credentials) (*models.Psychologist, string, error)
	GetByID(ctx context.Context, psychologistID string) (*models.Psychologist, error)
	Discover(ctx context.Context, filter models.PsychologistFilter) ([]models.Psychologist, error)
	UpdateProfile(ctx context.Context, psychologistID string, fields map[string]interface{}) (*models.Psychologist, error)
	Rate(ctx context.Context, psychologistID string, rating float64) error
	SetSchedule(ctx context.Context, psychologistID string, day models.Weekday, slots []models.TimeSlot, isRecurring bool) (*models.Schedule, error)
	RevokeToken(ctx context.Context, psychologistID string) error
}

// DefaultPsychologistService is the concrete implementation.
type DefaultPsychologistService struct {
	Repo         psychologistRepo.PsychologistRepository
	Availability availability.AvailabilityService
	Tokens       user.TokenCache
}

// Register onboards a psychologist. New accounts start unverified; discovery
// hides them until an operator flips the verified flag.
func (s *DefaultPsychologistService) Register(ctx context.Context, req models.PsychologistRegistration) (*models.Psychologist, string, error) {
	existing, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, "", user.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	p := &models.Psychologist{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Email:           req.Email,
		PasswordHash:    string(hashed),
		Specializations: req.Specializations,
		Bio:             req.Bio,
		ExperienceYears: req.ExperienceYears,
		SessionFee:      req.SessionFee,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, p.ID, p.Email)
	if err != nil {
		return nil, "", err
	}
	return p, token, nil
}

// Authenticate verifies credentials and issues a fresh token.
func (s *DefaultPsychologistService) Authenticate(ctx context.Context, creds models.Credentials) (*models.Psychologist, string, error) {
	p, err := s.Repo.GetByEmail(ctx, creds.Email)
	if err != nil {
		return nil, "", fmt.Errorf("sign-in failed, please try again")
	}
	if p == nil {
		return nil, "", user.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, "", user.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, p.ID, p.Email)
	if err != nil {
		return nil, "", err
	}
	return p, token, nil
}

func (s *DefaultPsychologistService) issueToken(ctx context.Context, id, email string) (string, error) {
	token, err := utils.GenerateToken(id, email, "psychologist", tokenDuration)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.Tokens.Put(ctx, id, utils.HashToken(token), tokenDuration); err != nil {
		return "", fmt.Errorf("failed to cache session token: %w", err)
	}
	return token, nil
}

func (s *DefaultPsychologistService) GetByID(ctx context.Context, psychologistID string) (*models.Psychologist, error) {
	p, err := s.Repo.GetByID(ctx, psychologistID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("psychologist %s not found", psychologistID)
	}
	return p, nil
}

// Discover lists verified psychologists matching the filter.
func (s *DefaultPsychologistService) Discover(ctx context.Context, filter models.PsychologistFilter) ([]models.Psychologist, error) {
	filter.VerifiedOnly = true
	return s.Repo.List(ctx, filter)
}

// UpdateProfile applies a whitelisted set of profile fields.
func (s *DefaultPsychologistService) UpdateProfile(ctx context.Context, psychologistID string, fields map[string]interface{}) (*models.Psychologist, error) {
	allowed := map[string]bool{
		"name": true, "bio": true, "specializations": true,
		"experienceYears": true, "sessionFee": true, "profileImageUrl": true,
		"fcmToken": true,
	}
	filtered := make(map[string]interface{})
	for k, v := range fields {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}
	if err := s.Repo.Update(ctx, psychologistID, filtered); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, psychologistID)
}

// Rate folds a 1..5 rating into the running average.
func (s *DefaultPsychologistService) Rate(ctx context.Context, psychologistID string, rating float64) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return s.Repo.AddRating(ctx, psychologistID, rating)
}

// SetSchedule delegates to the availability manager, which validates and
// stores the full replacement slot list for the weekday.
func (s *DefaultPsychologistService) SetSchedule(ctx context.Context, psychologistID string, day models.Weekday, slots []models.TimeSlot, isRecurring bool) (*models.Schedule, error) {
	return s.Availability.UpsertSchedule(ctx, psychologistID, day, slots, isRecurring)
}

// RevokeToken invalidates the provider's session.
func (s *DefaultPsychologistService) RevokeToken(ctx context.Context, psychologistID string) error {
	return s.Tokens.Drop(ctx, psychologistID)
}

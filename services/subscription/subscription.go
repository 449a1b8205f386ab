// Package subscription manages the premium plan lifecycle. Payment runs
// through Stripe payment intents; the user record mirrors the active flag so
// premium checks never need a join.
package subscription

import (
	"context"
	"errors"
	"time"

	subscriptionRepo "mindcare/database/repository/subscription"
	userRepo "mindcare/database/repository/user"
	"mindcare/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrAlreadySubscribed is returned when an active subscription exists.
	ErrAlreadySubscribed = errors.New("user already has an active subscription")
	// ErrSubscriptionNotFound is returned for unknown or foreign subscriptions.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrUnknownPlan is returned for plans outside the catalogue.
	ErrUnknownPlan = errors.New("unknown subscription plan")
)

// Plan pricing in the major currency unit.
var planPrices = map[string]float64{
	"monthly": 14.99,
	"yearly":  129.99,
}

func planPeriod(plan string, from time.Time) time.Time {
	if plan == "yearly" {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}

// PaymentProvider creates a payment intent and returns (intentID, clientSecret).
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amount float64, metadata map[string]string) (string, string, error)
}

// CheckoutResult carries what the client needs to complete payment.
type CheckoutResult struct {
	Subscription *models.Subscription `json:"subscription"`
	ClientSecret string               `json:"clientSecret,omitempty"`
}

// SubscriptionService manages premium plans.
type SubscriptionService interface {
	Subscribe(ctx context.Context, userID, plan string) (*CheckoutResult, error)
	Activate(ctx context.Context, userID, subscriptionID string) (*models.Subscription, error)
	Cancel(ctx context.Context, userID, subscriptionID string) error
	Current(ctx context.Context, userID string) (*models.Subscription, error)
}

// DefaultSubscriptionService is the concrete implementation.
type DefaultSubscriptionService struct {
	Repo     subscriptionRepo.SubscriptionRepository
	Users    userRepo.UserRepository
	Payments PaymentProvider
}

// Subscribe opens a pending subscription and a payment intent for its price.
func (s *DefaultSubscriptionService) Subscribe(ctx context.Context, userID, plan string) (*CheckoutResult, error) {
	price, ok := planPrices[plan]
	if !ok {
		return nil, ErrUnknownPlan
	}
	if existing, err := s.Repo.GetActiveForUser(ctx, userID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrAlreadySubscribed
	}

	now := time.Now()
	sub := &models.Subscription{
		ID:          uuid.New().String(),
		UserID:      userID,
		Plan:        plan,
		Status:      models.SubscriptionPending,
		PeriodStart: now,
		PeriodEnd:   planPeriod(plan, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	intentID, clientSecret, err := s.Payments.CreateIntent(ctx, price, map[string]string{
		"subscriptionId": sub.ID,
		"userId":         userID,
		"plan":           plan,
	})
	if err != nil {
		return nil, err
	}
	sub.StripeIntentID = intentID

	if err := s.Repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return &CheckoutResult{Subscription: sub, ClientSecret: clientSecret}, nil
}

// Activate marks a pending subscription active after payment succeeded and
// mirrors the premium flag onto the user record.
func (s *DefaultSubscriptionService) Activate(ctx context.Context, userID, subscriptionID string) (*models.Subscription, error) {
	sub, err := s.ownedSubscription(ctx, userID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubscriptionActive {
		return sub, nil
	}
	if err := s.Repo.UpdateStatus(ctx, sub.ID, models.SubscriptionActive); err != nil {
		return nil, err
	}
	if err := s.Users.SetPremium(ctx, userID, true); err != nil {
		return nil, err
	}
	sub.Status = models.SubscriptionActive
	zap.L().Info("subscription activated",
		zap.String("userID", userID), zap.String("plan", sub.Plan))
	return sub, nil
}

// Cancel ends the subscription and clears the user's premium flag.
func (s *DefaultSubscriptionService) Cancel(ctx context.Context, userID, subscriptionID string) error {
	sub, err := s.ownedSubscription(ctx, userID, subscriptionID)
	if err != nil {
		return err
	}
	if sub.Status == models.SubscriptionCancelled {
		return nil
	}
	if err := s.Repo.UpdateStatus(ctx, sub.ID, models.SubscriptionCancelled); err != nil {
		return err
	}
	if err := s.Users.SetPremium(ctx, userID, false); err != nil {
		return err
	}
	zap.L().Info("subscription cancelled", zap.String("userID", userID))
	return nil
}

// Current returns the user's active subscription, or nil when there is none.
func (s *DefaultSubscriptionService) Current(ctx context.Context, userID string) (*models.Subscription, error) {
	return s.Repo.GetActiveForUser(ctx, userID)
}

func (s *DefaultSubscriptionService) ownedSubscription(ctx context.Context, userID, subscriptionID string) (*models.Subscription, error) {
	sub, err := s.Repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.UserID != userID {
		return nil, ErrSubscriptionNotFound
	}
	return sub, nil
}

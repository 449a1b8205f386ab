package subscriptionRepo

import (
	"context"

	"mindcare/models"
)

// SubscriptionRepository persists premium subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	GetActiveForUser(ctx context.Context, userID string) (*models.Subscription, error)
	GetByID(ctx context.Context, subscriptionID string) (*models.Subscription, error)
	UpdateStatus(ctx context.Context, subscriptionID, status string) error
}

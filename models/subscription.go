package models

import "time"

// Subscription statuses.
const (
	SubscriptionActive    = "active"
	SubscriptionPending   = "pending"
	SubscriptionCancelled = "cancelled"
)

// Subscription is a user's premium plan backed by Stripe.
type Subscription struct {
	ID               string    `bson:"id" json:"id"`
	UserID           string    `bson:"userId" json:"userId"`
	Plan             string    `bson:"plan" json:"plan"` // "monthly" or "yearly"
	Status           string    `bson:"status" json:"status"`
	StripeCustomerID string    `bson:"stripeCustomerId,omitempty" json:"-"`
	StripeIntentID   string    `bson:"stripeIntentId,omitempty" json:"-"`
	PeriodStart      time.Time `bson:"periodStart" json:"periodStart"`
	PeriodEnd        time.Time `bson:"periodEnd" json:"periodEnd"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

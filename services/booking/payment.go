package booking

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// StripePaymentProvider creates Stripe payment intents for session fees.
// Amounts are charged in the smallest currency unit.
type StripePaymentProvider struct {
	Currency string
	Logger   *zap.Logger
}

// NewStripePaymentProvider returns a provider charging in the given currency
// (defaults to USD).
func NewStripePaymentProvider(currency string, logger *zap.Logger) *StripePaymentProvider {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripePaymentProvider{Currency: currency, Logger: logger}
}

// amountInCents converts a decimal amount to the smallest currency unit.
// Rounding, not truncation: float64 cannot represent most decimal fees
// exactly, and int64(19.99*100) would yield 1998.
func amountInCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateIntent creates a payment intent for the given amount and returns its
// ID and client secret.
func (p *StripePaymentProvider) CreateIntent(ctx context.Context, amount float64, metadata map[string]string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amountInCents(amount)),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", "", fmt.Errorf("stripe payment intent failed: %w", err)
	}
	p.Logger.Info("created payment intent",
		zap.String("intentId", intent.ID), zap.Float64("amount", amount))
	return intent.ID, intent.ClientSecret, nil
}

// IntentSucceeded reports whether the payment intent has been charged. The
// client confirms the intent with its secret; the server never trusts that
// and re-reads the intent before recording a payment as settled.
func (p *StripePaymentProvider) IntentSucceeded(ctx context.Context, intentID string) (bool, error) {
	intent, err := paymentintent.Get(intentID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return false, fmt.Errorf("stripe payment intent lookup failed: %w", err)
	}
	return intent.Status == stripe.PaymentIntentStatusSucceeded, nil
}

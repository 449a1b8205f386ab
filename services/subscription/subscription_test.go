package subscription

import (
	"context"
	"testing"

	"mindcare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubRepo struct {
	byID map[string]*models.Subscription
}

func (f *fakeSubRepo) Create(ctx context.Context, sub *models.Subscription) error {
	f.byID[sub.ID] = sub
	return nil
}

func (f *fakeSubRepo) GetActiveForUser(ctx context.Context, userID string) (*models.Subscription, error) {
	for _, s := range f.byID {
		if s.UserID == userID && s.Status == models.SubscriptionActive {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSubRepo) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	return f.byID[id], nil
}

func (f *fakeSubRepo) UpdateStatus(ctx context.Context, id, status string) error {
	f.byID[id].Status = status
	return nil
}

type fakeUsers struct {
	premium map[string]bool
}

func (f *fakeUsers) Create(ctx context.Context, u *models.User) error                  { return nil }
func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error)      { return nil, nil }
func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) { return nil, nil }
func (f *fakeUsers) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return nil
}
func (f *fakeUsers) SetPremium(ctx context.Context, id string, premium bool) error {
	f.premium[id] = premium
	return nil
}
func (f *fakeUsers) Delete(ctx context.Context, id string) error { return nil }

type fakePayments struct {
	amounts []float64
}

func (f *fakePayments) CreateIntent(ctx context.Context, amount float64, metadata map[string]string) (string, string, error) {
	f.amounts = append(f.amounts, amount)
	return "pi_test", "secret_test", nil
}

func newService() (*DefaultSubscriptionService, *fakeSubRepo, *fakeUsers, *fakePayments) {
	repo := &fakeSubRepo{byID: map[string]*models.Subscription{}}
	users := &fakeUsers{premium: map[string]bool{}}
	pay := &fakePayments{}
	return &DefaultSubscriptionService{Repo: repo, Users: users, Payments: pay}, repo, users, pay
}

func TestSubscribeCreatesPendingWithIntent(t *testing.T) {
	svc, _, _, pay := newService()

	res, err := svc.Subscribe(context.Background(), "user-1", "monthly")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionPending, res.Subscription.Status)
	assert.Equal(t, "pi_test", res.Subscription.StripeIntentID)
	assert.Equal(t, "secret_test", res.ClientSecret)
	require.Len(t, pay.amounts, 1)
	assert.InDelta(t, 14.99, pay.amounts[0], 0.001)
	assert.True(t, res.Subscription.PeriodEnd.After(res.Subscription.PeriodStart))

	_, err = svc.Subscribe(context.Background(), "user-1", "weekly")
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestActivateMirrorsPremiumFlag(t *testing.T) {
	svc, _, users, _ := newService()

	res, err := svc.Subscribe(context.Background(), "user-1", "yearly")
	require.NoError(t, err)

	sub, err := svc.Activate(context.Background(), "user-1", res.Subscription.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.True(t, users.premium["user-1"])

	// active subscription blocks a second purchase
	_, err = svc.Subscribe(context.Background(), "user-1", "monthly")
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	// someone else cannot touch it
	_, err = svc.Activate(context.Background(), "user-2", res.Subscription.ID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestCancelClearsPremiumFlag(t *testing.T) {
	svc, repo, users, _ := newService()

	res, err := svc.Subscribe(context.Background(), "user-1", "monthly")
	require.NoError(t, err)
	_, err = svc.Activate(context.Background(), "user-1", res.Subscription.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), "user-1", res.Subscription.ID))
	assert.Equal(t, models.SubscriptionCancelled, repo.byID[res.Subscription.ID].Status)
	assert.False(t, users.premium["user-1"])

	current, err := svc.Current(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, current)
}

package user

import (
	"context"
	"testing"
	"time"

	"mindcare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*models.User{}, byEmail: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	u := f.byID[id]
	if name, ok := fields["name"].(string); ok {
		u.Name = name
	}
	if phone, ok := fields["phone"].(string); ok {
		u.Phone = phone
	}
	return nil
}

func (f *fakeUserRepo) SetPremium(ctx context.Context, id string, premium bool) error {
	f.byID[id].Premium = premium
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if u, ok := f.byID[id]; ok {
		delete(f.byEmail, u.Email)
		delete(f.byID, id)
	}
	return nil
}

type memoryTokenCache struct {
	hashes map[string]string
}

func newMemoryTokenCache() *memoryTokenCache {
	return &memoryTokenCache{hashes: map[string]string{}}
}

func (m *memoryTokenCache) Put(ctx context.Context, subjectID, tokenHash string, ttl time.Duration) error {
	m.hashes[subjectID] = tokenHash
	return nil
}

func (m *memoryTokenCache) Get(ctx context.Context, subjectID string) (string, error) {
	return m.hashes[subjectID], nil
}

func (m *memoryTokenCache) Drop(ctx context.Context, subjectID string) error {
	delete(m.hashes, subjectID)
	return nil
}

func newUserService() (*DefaultUserService, *fakeUserRepo, *memoryTokenCache) {
	repo := newFakeUserRepo()
	tokens := newMemoryTokenCache()
	return &DefaultUserService{Repo: repo, Tokens: tokens}, repo, tokens
}

func testRegistration() models.UserRegistration {
	return models.UserRegistration{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	}
}

func TestRegisterSignsInAndCachesToken(t *testing.T) {
	svc, repo, tokens := newUserService()

	u, token, err := svc.Register(context.Background(), testRegistration())
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "correct horse", u.PasswordHash)
	assert.NotEmpty(t, tokens.hashes[u.ID])
	assert.Contains(t, repo.byEmail, "ada@example.com")
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	svc, _, _ := newUserService()

	_, _, err := svc.Register(context.Background(), testRegistration())
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), testRegistration())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newUserService()

	registered, _, err := svc.Register(context.Background(), testRegistration())
	require.NoError(t, err)

	u, token, err := svc.Authenticate(context.Background(), models.Credentials{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.Authenticate(context.Background(), models.Credentials{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Authenticate(context.Background(), models.Credentials{
		Email:    "nobody@example.com",
		Password: "correct horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateWhitelistsFields(t *testing.T) {
	svc, repo, _ := newUserService()

	u, _, err := svc.Register(context.Background(), testRegistration())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), u.ID, map[string]interface{}{
		"name":  "Ada L.",
		"email": "hijack@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", repo.byID[u.ID].Name)
	assert.Equal(t, "ada@example.com", repo.byID[u.ID].Email)

	_, err = svc.Update(context.Background(), u.ID, map[string]interface{}{
		"premium": true,
	})
	assert.Error(t, err, "non-whitelisted fields alone must be rejected")
}

func TestRevokeTokenDropsSession(t *testing.T) {
	svc, _, tokens := newUserService()

	u, _, err := svc.Register(context.Background(), testRegistration())
	require.NoError(t, err)
	require.NotEmpty(t, tokens.hashes[u.ID])

	require.NoError(t, svc.RevokeToken(context.Background(), u.ID))
	assert.Empty(t, tokens.hashes[u.ID])
}

func TestDeleteRemovesAccountAndSession(t *testing.T) {
	svc, repo, tokens := newUserService()

	u, _, err := svc.Register(context.Background(), testRegistration())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), u.ID))
	assert.NotContains(t, repo.byID, u.ID)
	assert.Empty(t, tokens.hashes[u.ID])
}

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/profilehub/backend/internal/auth"
)

const testBcryptCost = 4 // low cost for fast tests

// memoryUsers is an in-memory UserRepository; expiry is judged against clock.
type memoryUsers struct {
	clock      *fakeClock
	users      map[string]*auth.User
	issueCalls int
}

func newMemoryUsers(clock *fakeClock) *memoryUsers {
	return &memoryUsers{clock: clock, users: map[string]*auth.User{}}
}

func (m *memoryUsers) live(u *auth.User) bool {
	return u.APIKey != nil && u.APIKeyExpiresAt != nil && u.APIKeyExpiresAt.After(m.clock.Now())
}

func (m *memoryUsers) Create(_ context.Context, u *auth.User) error {
	if _, ok := m.users[u.Email]; ok {
		return auth.ErrDuplicateEmail
	}
	u.ID = int64(len(m.users) + 1)
	m.users[u.Email] = u
	return nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *u
	cp.APIKeyLive = m.live(u)
	return &cp, nil
}

func (m *memoryUsers) FindByLiveKey(_ context.Context, key string) (*auth.User, error) {
	for _, u := range m.users {
		if u.APIKey != nil && *u.APIKey == key && m.live(u) {
			cp := *u
			cp.APIKeyLive = true
			return &cp, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (m *memoryUsers) IssueKey(_ context.Context, userID int64, key string, ttl time.Duration) (*auth.Credential, error) {
	m.issueCalls++
	for _, u := range m.users {
		if u.ID != userID {
			continue
		}
		if !m.live(u) {
			now := m.clock.Now()
			exp := now.Add(ttl)
			u.APIKey = &key
			u.APIKeyIssuedAt = &now
			u.APIKeyExpiresAt = &exp
		}
		return &auth.Credential{Key: *u.APIKey, IssuedAt: *u.APIKeyIssuedAt, ExpiresAt: *u.APIKeyExpiresAt}, nil
	}
	return nil, auth.ErrUserNotFound
}

func (m *memoryUsers) ClearExpiredKeys(_ context.Context) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.APIKey != nil && !m.live(u) {
			u.APIKey, u.APIKeyIssuedAt, u.APIKeyExpiresAt = nil, nil, nil
			n++
		}
	}
	return n, nil
}

func (m *memoryUsers) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	var found []int64
	for _, id := range ids {
		for _, u := range m.users {
			if u.ID == id {
				found = append(found, id)
			}
		}
	}
	return found, nil
}

// memorySettings is an in-memory SettingsRepository.
type memorySettings struct {
	clock  *fakeClock
	cred   *auth.Credential
	reads  int
	getErr error
}

func (m *memorySettings) GetLiveSuperuserKey(_ context.Context) (*auth.Credential, error) {
	m.reads++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cred == nil || !m.cred.ExpiresAt.After(m.clock.Now()) {
		return nil, auth.ErrNoLiveKey
	}
	cp := *m.cred
	return &cp, nil
}

func (m *memorySettings) UpsertSuperuserKey(_ context.Context, key string, ttl time.Duration) (*auth.Credential, error) {
	now := m.clock.Now()
	m.cred = &auth.Credential{Key: key, IssuedAt: now, ExpiresAt: now.Add(ttl)}
	cp := *m.cred
	return &cp, nil
}

type serviceFixture struct {
	svc      *auth.Service
	users    *memoryUsers
	settings *memorySettings
	clock    *fakeClock
}

func setupService(t *testing.T) *serviceFixture {
	t.Helper()

	clock := newFakeClock()
	users := newMemoryUsers(clock)
	settings := &memorySettings{clock: clock}
	cache := auth.NewKeyCache(settings, auth.DefaultKeyCacheTTL, clock.Now)
	svc := auth.NewService(users, settings, cache, auth.ServiceConfig{
		KeyTTL:     24 * time.Hour,
		BcryptCost: testBcryptCost,
	})

	return &serviceFixture{svc: svc, users: users, settings: settings, clock: clock}
}

func (f *serviceFixture) addUser(t *testing.T, email, password string, org *int64) *auth.User {
	t.Helper()
	hash, err := f.svc.HashPassword(password)
	require.NoError(t, err)
	u := &auth.User{Email: email, PasswordHash: hash, OrganizationID: org}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

// --- GenerateKey Tests ---

func TestGenerateKey_Format(t *testing.T) {
	key, err := auth.GenerateKey()
	require.NoError(t, err)

	assert.Len(t, key, 43, "32 bytes in unpadded base64url")
	assert.NotContains(t, key, "=")
}

func TestGenerateKey_Uniqueness(t *testing.T) {
	key1, err := auth.GenerateKey()
	require.NoError(t, err)
	key2, err := auth.GenerateKey()
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2)
}

func TestHashPassword_Verifies(t *testing.T) {
	f := setupService(t)

	hash, err := f.svc.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2hunter2")))
}

// --- Authenticate Tests ---

func TestAuthenticate_MissingKey(t *testing.T) {
	f := setupService(t)

	_, err := f.svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, auth.ErrMissingKey)
	assert.Equal(t, 0, f.settings.reads, "missing key must not touch the store")
}

func TestAuthenticate_SuperuserKey(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.RotateSuperuserKey(context.Background(), "S1-superuser")
	require.NoError(t, err)

	identity, err := f.svc.Authenticate(context.Background(), "S1-superuser")
	require.NoError(t, err)
	assert.True(t, identity.IsSuperuser)
	assert.Nil(t, identity.OrganizationID)
}

func TestAuthenticate_UnknownKey(t *testing.T) {
	f := setupService(t)
	_, err := f.svc.RotateSuperuserKey(context.Background(), "S1-superuser")
	require.NoError(t, err)

	_, err = f.svc.Authenticate(context.Background(), "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidKey)
}

func TestAuthenticate_UserKey(t *testing.T) {
	f := setupService(t)
	org := int64(3)
	u := f.addUser(t, "u@example.com", "password123", &org)

	cred, err := f.svc.Login(context.Background(), "u@example.com", "password123")
	require.NoError(t, err)

	identity, err := f.svc.Authenticate(context.Background(), cred.Key)
	require.NoError(t, err)
	assert.False(t, identity.IsSuperuser)
	assert.Equal(t, u.ID, identity.UserID)
	assert.Equal(t, "u@example.com", identity.Email)
	require.NotNil(t, identity.OrganizationID)
	assert.Equal(t, int64(3), *identity.OrganizationID)
	require.NotNil(t, identity.KeyExpiresAt)
	assert.Equal(t, cred.ExpiresAt, *identity.KeyExpiresAt)
}

func TestAuthenticate_ExpiredUserKey(t *testing.T) {
	f := setupService(t)
	f.addUser(t, "u@example.com", "password123", nil)

	cred, err := f.svc.Login(context.Background(), "u@example.com", "password123")
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)

	_, err = f.svc.Authenticate(context.Background(), cred.Key)
	assert.ErrorIs(t, err, auth.ErrInvalidKey)
}

func TestAuthenticate_StoreError(t *testing.T) {
	f := setupService(t)
	f.settings.getErr = errors.New("connection reset")

	_, err := f.svc.Authenticate(context.Background(), "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidKey)
}

// --- Login Tests ---

func TestLogin_UnknownEmail(t *testing.T) {
	f := setupService(t)

	_, err := f.svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := setupService(t)
	f.addUser(t, "u@example.com", "password123", nil)

	_, err := f.svc.Login(context.Background(), "u@example.com", "password124")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_ReusesLiveKey(t *testing.T) {
	f := setupService(t)
	f.addUser(t, "u@example.com", "password123", nil)

	first, err := f.svc.Login(context.Background(), "u@example.com", "password123")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)

	second, err := f.svc.Login(context.Background(), "u@example.com", "password123")
	require.NoError(t, err)

	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, first.ExpiresAt, second.ExpiresAt)
	assert.Equal(t, 1, f.users.issueCalls)
}

func TestLogin_ReissuesAfterExpiry(t *testing.T) {
	f := setupService(t)
	f.addUser(t, "u@example.com", "password123", nil)

	first, err := f.svc.Login(context.Background(), "u@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, first.ExpiresAt.Sub(first.IssuedAt))

	f.clock.Advance(25 * time.Hour)

	second, err := f.svc.Login(context.Background(), "u@example.com", "password123")
	require.NoError(t, err)
	assert.NotEqual(t, first.Key, second.Key)
	assert.True(t, second.ExpiresAt.After(first.ExpiresAt))
}

// --- Superuser lifecycle Tests ---

func TestBootstrapSuperuser_MintsWhenAbsent(t *testing.T) {
	f := setupService(t)

	key, err := f.svc.BootstrapSuperuser(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	identity, err := f.svc.Authenticate(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, identity.IsSuperuser)
}

func TestBootstrapSuperuser_KeepsLiveKey(t *testing.T) {
	f := setupService(t)

	first, err := f.svc.BootstrapSuperuser(context.Background())
	require.NoError(t, err)

	second, err := f.svc.BootstrapSuperuser(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, first, f.settings.cred.Key)
}

func TestBootstrapSuperuser_ReplacesExpiredKey(t *testing.T) {
	f := setupService(t)

	first, err := f.svc.BootstrapSuperuser(context.Background())
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)

	second, err := f.svc.BootstrapSuperuser(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
}

func TestRotateSuperuserKey_TooShort(t *testing.T) {
	f := setupService(t)

	_, err := f.svc.RotateSuperuserKey(context.Background(), "short")
	assert.ErrorIs(t, err, auth.ErrKeyTooShort)
	assert.Nil(t, f.settings.cred)
}

func TestRotateSuperuserKey_CountsCharacters(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	// Five characters, ten bytes.
	_, err := f.svc.RotateSuperuserKey(ctx, "ééééé")
	assert.ErrorIs(t, err, auth.ErrKeyTooShort)
	assert.Nil(t, f.settings.cred)

	cred, err := f.svc.RotateSuperuserKey(ctx, "éééééééé")
	require.NoError(t, err)
	assert.Equal(t, "éééééééé", cred.Key)
}

func TestRotateSuperuserKey_InvalidatesCache(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	_, err := f.svc.RotateSuperuserKey(ctx, "old-superuser-key")
	require.NoError(t, err)

	identity, err := f.svc.Authenticate(ctx, "old-superuser-key")
	require.NoError(t, err)
	require.True(t, identity.IsSuperuser)

	cred, err := f.svc.RotateSuperuserKey(ctx, "new-superuser-key")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cred.ExpiresAt.Sub(cred.IssuedAt))

	// Well within the cache TTL, the old key must already be rejected.
	f.clock.Advance(time.Second)

	_, err = f.svc.Authenticate(ctx, "old-superuser-key")
	assert.ErrorIs(t, err, auth.ErrInvalidKey)

	identity, err = f.svc.Authenticate(ctx, "new-superuser-key")
	require.NoError(t, err)
	assert.True(t, identity.IsSuperuser)
}

// --- KeyExpiry Tests ---

func TestKeyExpiry_Superuser(t *testing.T) {
	f := setupService(t)
	cred, err := f.svc.RotateSuperuserKey(context.Background(), "superuser-key")
	require.NoError(t, err)

	exp, err := f.svc.KeyExpiry(context.Background(), auth.SuperuserIdentity())
	require.NoError(t, err)
	assert.Equal(t, cred.ExpiresAt, exp)
}

func TestKeyExpiry_User(t *testing.T) {
	f := setupService(t)
	exp := f.clock.Now().Add(time.Hour)

	got, err := f.svc.KeyExpiry(context.Background(), &auth.Identity{UserID: 1, KeyExpiresAt: &exp})
	require.NoError(t, err)
	assert.Equal(t, exp, got)
}

func TestClearExpiredUserKeys(t *testing.T) {
	f := setupService(t)
	f.addUser(t, "a@example.com", "password123", nil)
	f.addUser(t, "b@example.com", "password123", nil)

	_, err := f.svc.Login(context.Background(), "a@example.com", "password123")
	require.NoError(t, err)
	f.clock.Advance(25 * time.Hour)
	_, err = f.svc.Login(context.Background(), "b@example.com", "password123")
	require.NoError(t, err)

	n, err := f.svc.ClearExpiredUserKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

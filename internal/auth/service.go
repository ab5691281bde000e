package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinKeyLength is the shortest accepted replacement superuser key, in characters.
const MinKeyLength = 8

var (
	// ErrMissingKey is returned when no API key was presented.
	ErrMissingKey = errors.New("API key is required")
	// ErrInvalidKey is returned when a presented key matches no live credential.
	ErrInvalidKey = errors.New("invalid or expired API key")
	// ErrForbidden is returned when an identity may not act on a resource.
	ErrForbidden = errors.New("access denied")
	// ErrInvalidCredentials is returned by Login for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrKeyTooShort is returned when a replacement superuser key is shorter than MinKeyLength.
	ErrKeyTooShort = fmt.Errorf("API key must be at least %d characters", MinKeyLength)
)

// ServiceConfig holds the credential policy.
type ServiceConfig struct {
	KeyTTL     time.Duration
	BcryptCost int
}

// Service authenticates API keys and manages the credential lifecycle.
type Service struct {
	users      UserRepository
	settings   SettingsRepository
	cache      *KeyCache
	keyTTL     time.Duration
	bcryptCost int
}

// NewService creates a new auth Service.
func NewService(users UserRepository, settings SettingsRepository, cache *KeyCache, cfg ServiceConfig) *Service {
	return &Service{
		users:      users,
		settings:   settings,
		cache:      cache,
		keyTTL:     cfg.KeyTTL,
		bcryptCost: cfg.BcryptCost,
	}
}

// GenerateKey returns 32 random bytes encoded as base64url without padding.
func GenerateKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashPassword returns the bcrypt hash of password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Authenticate resolves a presented key to an Identity.
func (s *Service) Authenticate(ctx context.Context, rawKey string) (*Identity, error) {
	if rawKey == "" {
		return nil, ErrMissingKey
	}

	superKey, ok, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	if ok && subtle.ConstantTimeCompare([]byte(superKey), []byte(rawKey)) == 1 {
		return SuperuserIdentity(), nil
	}

	u, err := s.users.FindByLiveKey(ctx, rawKey)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidKey
		}
		return nil, fmt.Errorf("looking up user key: %w", err)
	}

	return &Identity{
		UserID:         u.ID,
		Email:          u.Email,
		OrganizationID: u.OrganizationID,
		KeyExpiresAt:   u.APIKeyExpiresAt,
	}, nil
}

// Login verifies email and password and returns the user's live credential,
// issuing a new one when none is live.
func (s *Service) Login(ctx context.Context, email, password string) (*Credential, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if u.APIKeyLive && u.APIKey != nil && u.APIKeyExpiresAt != nil {
		cred := &Credential{Key: *u.APIKey, ExpiresAt: *u.APIKeyExpiresAt}
		if u.APIKeyIssuedAt != nil {
			cred.IssuedAt = *u.APIKeyIssuedAt
		}
		return cred, nil
	}

	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}

	cred, err := s.users.IssueKey(ctx, u.ID, key, s.keyTTL)
	if err != nil {
		return nil, fmt.Errorf("issuing key for user %d: %w", u.ID, err)
	}
	return cred, nil
}

// BootstrapSuperuser mints a superuser key when no live one exists.
// Returns the new key, or an empty string when a live key was already present.
func (s *Service) BootstrapSuperuser(ctx context.Context) (string, error) {
	_, err := s.settings.GetLiveSuperuserKey(ctx)
	if err == nil {
		return "", nil
	}
	if !errors.Is(err, ErrNoLiveKey) {
		return "", fmt.Errorf("checking superuser key: %w", err)
	}

	key, err := GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generating superuser key: %w", err)
	}

	cred, err := s.settings.UpsertSuperuserKey(ctx, key, s.keyTTL)
	if err != nil {
		return "", fmt.Errorf("storing superuser key: %w", err)
	}
	s.cache.Invalidate()

	slog.Info("Superuser API key created", "key", cred.Key, "expires_at", cred.ExpiresAt)

	return cred.Key, nil
}

// RotateSuperuserKey replaces the superuser key with newKey and a fresh TTL window.
func (s *Service) RotateSuperuserKey(ctx context.Context, newKey string) (*Credential, error) {
	if utf8.RuneCountInString(newKey) < MinKeyLength {
		return nil, ErrKeyTooShort
	}

	cred, err := s.settings.UpsertSuperuserKey(ctx, newKey, s.keyTTL)
	if err != nil {
		return nil, fmt.Errorf("rotating superuser key: %w", err)
	}
	s.cache.Invalidate()

	return cred, nil
}

// KeyExpiry returns when the credential behind identity expires.
func (s *Service) KeyExpiry(ctx context.Context, identity *Identity) (time.Time, error) {
	if identity == nil {
		return time.Time{}, ErrMissingKey
	}
	if !identity.IsSuperuser {
		if identity.KeyExpiresAt == nil {
			return time.Time{}, ErrInvalidKey
		}
		return *identity.KeyExpiresAt, nil
	}

	cred, err := s.settings.GetLiveSuperuserKey(ctx)
	if err != nil {
		if errors.Is(err, ErrNoLiveKey) {
			return time.Time{}, ErrInvalidKey
		}
		return time.Time{}, fmt.Errorf("reading superuser key: %w", err)
	}
	return cred.ExpiresAt, nil
}

// ClearExpiredUserKeys removes expired user credentials from the store.
func (s *Service) ClearExpiredUserKeys(ctx context.Context) (int64, error) {
	return s.users.ClearExpiredKeys(ctx)
}

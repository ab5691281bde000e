package auth

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when registering an email that already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrNoLiveKey is returned when no non-expired superuser key exists.
var ErrNoLiveKey = errors.New("no live superuser key")

// UserRepository provides operations on the users table.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	// FindByLiveKey returns the user holding key if it has not expired.
	FindByLiveKey(ctx context.Context, key string) (*User, error)
	// IssueKey stores key for the user unless the user already holds a live key,
	// in which case the existing credential is returned unchanged.
	IssueKey(ctx context.Context, userID int64, key string, ttl time.Duration) (*Credential, error)
	ClearExpiredKeys(ctx context.Context) (int64, error)
	// ExistingIDs returns the subset of ids that belong to existing users.
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// SettingsRepository stores the superuser credential in the settings table.
type SettingsRepository interface {
	SuperuserKeySource
	// UpsertSuperuserKey replaces the superuser key wholesale with a fresh TTL window.
	UpsertSuperuserKey(ctx context.Context, key string, ttl time.Duration) (*Credential, error)
}

// SuperuserKeySource returns the live superuser credential, or ErrNoLiveKey.
type SuperuserKeySource interface {
	GetLiveSuperuserKey(ctx context.Context) (*Credential, error)
}

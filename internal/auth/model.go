package auth

import "time"

// User represents a row in the users table.
type User struct {
	ID              int64
	Email           string
	PasswordHash    string
	OrganizationID  *int64 // nil when the user belongs to no organization
	APIKey          *string
	APIKeyIssuedAt  *time.Time
	APIKeyExpiresAt *time.Time
	APIKeyLive      bool // evaluated by the store against its own NOW()
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Credential is an issued API key and its validity window.
type Credential struct {
	Key       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is stored in the request context after authentication.
type Identity struct {
	IsSuperuser    bool
	UserID         int64      // zero for superuser
	Email          string     // empty for superuser
	OrganizationID *int64     // nil for superuser and for users outside any organization
	KeyExpiresAt   *time.Time // expiry of the presented user key; nil for superuser
}

// SuperuserIdentity returns the identity resolved from the superuser key.
func SuperuserIdentity() *Identity {
	return &Identity{IsSuperuser: true}
}

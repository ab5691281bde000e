package invite

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// DefaultMaxUses applies when an invite is created without a limit.
const DefaultMaxUses = 1

// Invite represents a row in the invites table.
type Invite struct {
	ID        int64
	Code      string
	MaxUses   int
	Uses      int
	CreatedAt time.Time
}

// Exhausted reports whether the invite has no registrations left.
func (i *Invite) Exhausted() bool {
	return i.Uses >= i.MaxUses
}

// GenerateCode returns 8 random bytes encoded as base64url without padding.
func GenerateCode() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating invite code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

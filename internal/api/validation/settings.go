package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/profilehub/backend/internal/auth"
)

// RotateKeyRequest mirrors the fields needed for key rotation validation.
type RotateKeyRequest struct {
	NewKey string
}

// ValidateRotateKeyRequest checks the replacement key length in characters.
func ValidateRotateKeyRequest(req RotateKeyRequest) []FieldError {
	if utf8.RuneCountInString(req.NewKey) < auth.MinKeyLength {
		return []FieldError{{Field: "newKey", Message: fmt.Sprintf("newKey must be at least %d characters", auth.MinKeyLength)}}
	}
	return nil
}

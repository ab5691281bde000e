package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// RegisterRequest mirrors the fields needed for registration validation.
type RegisterRequest struct {
	Email          string
	Password       string
	InviteCode     string
	OrganizationID *int64
}

// ValidateRegisterRequest validates the fields of a registration request.
func ValidateRegisterRequest(req RegisterRequest) []FieldError {
	var errs []FieldError

	errs = validateEmail(errs, req.Email)

	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	} else if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters"})
	} else if len(req.Password) > MaxPasswordBytes {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at most 72 bytes"})
	}

	if strings.TrimSpace(req.InviteCode) == "" {
		errs = append(errs, FieldError{Field: "inviteCode", Message: "inviteCode is required"})
	}

	return positiveID(errs, "organizationId", req.OrganizationID)
}

// LoginRequest mirrors the fields needed for login validation.
type LoginRequest struct {
	Email    string
	Password string
}

// ValidateLoginRequest only checks presence; wrong credentials are reported by login itself.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}
	return errs
}

func validateEmail(errs []FieldError, email string) []FieldError {
	if email == "" {
		return append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(addr.Address, "@") {
		return append(errs, FieldError{Field: "email", Message: "email must be a valid email address"})
	}
	return errs
}

package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	maxTitleLength = 255
	maxShortText   = 100
	dateLayout     = "2006-01-02"
)

func requiredText(errs []FieldError, field, value string, maxLen int) []FieldError {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return append(errs, FieldError{Field: field, Message: field + " is required"})
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return append(errs, FieldError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, maxLen)})
	}
	return errs
}

// optionalText rejects a provided value that is blank or too long.
func optionalText(errs []FieldError, field string, value *string, maxLen int) []FieldError {
	if value == nil {
		return errs
	}
	return requiredText(errs, field, *value, maxLen)
}

func positiveID(errs []FieldError, field string, value *int64) []FieldError {
	if value != nil && *value <= 0 {
		return append(errs, FieldError{Field: field, Message: field + " must be a positive integer"})
	}
	return errs
}

func positiveIDs(errs []FieldError, field string, values []int64) []FieldError {
	for _, v := range values {
		if v <= 0 {
			return append(errs, FieldError{Field: field, Message: field + " must contain positive integers"})
		}
	}
	return errs
}

func optionalDate(errs []FieldError, field string, value *string) []FieldError {
	if value == nil {
		return errs
	}
	if _, err := time.Parse(dateLayout, *value); err != nil {
		return append(errs, FieldError{Field: field, Message: field + " must be a date in YYYY-MM-DD format"})
	}
	return errs
}

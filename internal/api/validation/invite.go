package validation

// CreateInviteRequest mirrors the fields needed for create invite validation.
type CreateInviteRequest struct {
	Code    *string
	MaxUses *int
}

// ValidateCreateInviteRequest validates the fields of a create invite request.
// Both fields are optional.
func ValidateCreateInviteRequest(req CreateInviteRequest) []FieldError {
	var errs []FieldError

	errs = optionalText(errs, "code", req.Code, 64)

	if req.MaxUses != nil && *req.MaxUses < 1 {
		errs = append(errs, FieldError{Field: "maxUses", Message: "maxUses must be at least 1"})
	}

	return errs
}

package validation

import "math"

// ExpenseRequest mirrors the validated fields of an expense create or update.
type ExpenseRequest struct {
	Title        *string
	Amount       *float64
	Tag          *string
	Category     *string
	PayorID      *int64
	TripID       *int64
	Participants []int64
}

// ValidateCreateExpenseRequest validates the fields of a create expense request.
func ValidateCreateExpenseRequest(req ExpenseRequest) []FieldError {
	var errs []FieldError
	if req.Title == nil {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	}
	if req.Amount == nil {
		errs = append(errs, FieldError{Field: "amount", Message: "amount is required"})
	}
	return append(errs, ValidateUpdateExpenseRequest(req)...)
}

// ValidateUpdateExpenseRequest validates the provided fields of an expense update.
func ValidateUpdateExpenseRequest(req ExpenseRequest) []FieldError {
	var errs []FieldError

	errs = optionalText(errs, "title", req.Title, maxTitleLength)
	if req.Amount != nil && (math.IsNaN(*req.Amount) || math.IsInf(*req.Amount, 0)) {
		errs = append(errs, FieldError{Field: "amount", Message: "amount must be a finite number"})
	}
	errs = optionalText(errs, "tag", req.Tag, maxShortText)
	errs = optionalText(errs, "category", req.Category, maxShortText)
	errs = positiveID(errs, "payorId", req.PayorID)
	errs = positiveID(errs, "tripId", req.TripID)
	return positiveIDs(errs, "participants", req.Participants)
}

package validation

// TripRequest mirrors the validated fields of a trip create or update.
type TripRequest struct {
	Title        *string
	StartDate    *string
	EndDate      *string
	Participants []int64
}

// ValidateCreateTripRequest validates the fields of a create trip request.
func ValidateCreateTripRequest(req TripRequest) []FieldError {
	var errs []FieldError
	if req.Title == nil {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	}
	return append(errs, ValidateUpdateTripRequest(req)...)
}

// ValidateUpdateTripRequest validates the provided fields of a trip update.
func ValidateUpdateTripRequest(req TripRequest) []FieldError {
	var errs []FieldError

	errs = optionalText(errs, "title", req.Title, maxTitleLength)

	n := len(errs)
	errs = optionalDate(errs, "startDate", req.StartDate)
	errs = optionalDate(errs, "endDate", req.EndDate)
	if len(errs) == n && req.StartDate != nil && req.EndDate != nil && *req.EndDate < *req.StartDate {
		errs = append(errs, FieldError{Field: "endDate", Message: "endDate must not be before startDate"})
	}

	return positiveIDs(errs, "participants", req.Participants)
}

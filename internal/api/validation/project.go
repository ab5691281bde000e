package validation

// CreateProjectRequest mirrors the fields needed for create project validation.
type CreateProjectRequest struct {
	Title          string
	Description    *string
	Status         *string
	OrganizationID *int64
}

// ValidateCreateProjectRequest validates the fields of a create project request.
func ValidateCreateProjectRequest(req CreateProjectRequest) []FieldError {
	var errs []FieldError

	errs = requiredText(errs, "title", req.Title, maxTitleLength)
	errs = optionalText(errs, "status", req.Status, maxShortText)

	if req.OrganizationID == nil {
		errs = append(errs, FieldError{Field: "organizationId", Message: "organizationId is required"})
	}
	return positiveID(errs, "organizationId", req.OrganizationID)
}

// UpdateProjectRequest mirrors the fields of a project update.
type UpdateProjectRequest struct {
	Title          *string
	Status         *string
	OrganizationID *int64
}

// ValidateUpdateProjectRequest validates the provided fields of a project update.
func ValidateUpdateProjectRequest(req UpdateProjectRequest) []FieldError {
	var errs []FieldError
	errs = optionalText(errs, "title", req.Title, maxTitleLength)
	errs = optionalText(errs, "status", req.Status, maxShortText)
	return positiveID(errs, "organizationId", req.OrganizationID)
}

// EpicRequest mirrors the validated fields of an epic create or update. Title
// is required on create.
type EpicRequest struct {
	Title  *string
	Status *string
}

// ValidateCreateEpicRequest validates the fields of a create epic request.
func ValidateCreateEpicRequest(req EpicRequest) []FieldError {
	var errs []FieldError
	if req.Title == nil {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	}
	return append(errs, ValidateUpdateEpicRequest(req)...)
}

// ValidateUpdateEpicRequest validates the provided fields of an epic update.
func ValidateUpdateEpicRequest(req EpicRequest) []FieldError {
	var errs []FieldError
	errs = optionalText(errs, "title", req.Title, maxTitleLength)
	return optionalText(errs, "status", req.Status, maxShortText)
}

// TaskRequest mirrors the validated fields of a task create or update.
type TaskRequest struct {
	Title    *string
	Deadline *string
	Status   *string
	Label    *string
}

// ValidateCreateTaskRequest validates the fields of a create task request.
func ValidateCreateTaskRequest(req TaskRequest) []FieldError {
	var errs []FieldError
	if req.Title == nil {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	}
	return append(errs, ValidateUpdateTaskRequest(req)...)
}

// ValidateUpdateTaskRequest validates the provided fields of a task update.
func ValidateUpdateTaskRequest(req TaskRequest) []FieldError {
	var errs []FieldError
	errs = optionalText(errs, "title", req.Title, maxTitleLength)
	errs = optionalText(errs, "deadline", req.Deadline, maxShortText)
	errs = optionalText(errs, "status", req.Status, maxShortText)
	return optionalText(errs, "label", req.Label, maxShortText)
}

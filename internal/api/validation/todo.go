package validation

// ValidateTodoTitle validates the title of a created todo, or of an update
// that changes it.
func ValidateTodoTitle(title *string, required bool) []FieldError {
	if title == nil {
		if required {
			return []FieldError{{Field: "title", Message: "title is required"}}
		}
		return nil
	}
	return requiredText(nil, "title", *title, maxTitleLength)
}

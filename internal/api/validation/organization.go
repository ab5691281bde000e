package validation

// ValidateOrganizationName validates the name of a created or renamed organization.
func ValidateOrganizationName(name string) []FieldError {
	return requiredText(nil, "name", name, maxTitleLength)
}

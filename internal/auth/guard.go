package auth

// Authorize decides whether identity may act on a resource owned by
// resourceTenant. A nil tenant marks an unscoped resource. The caller must have
// confirmed that the resource exists.
func Authorize(identity *Identity, resourceTenant *int64) error {
	if identity == nil {
		return ErrMissingKey
	}
	if identity.IsSuperuser || resourceTenant == nil {
		return nil
	}
	if identity.OrganizationID != nil && *identity.OrganizationID == *resourceTenant {
		return nil
	}
	return ErrForbidden
}

// RequireSuperuser returns ErrForbidden unless identity is the superuser.
func RequireSuperuser(identity *Identity) error {
	if identity == nil {
		return ErrMissingKey
	}
	if !identity.IsSuperuser {
		return ErrForbidden
	}
	return nil
}

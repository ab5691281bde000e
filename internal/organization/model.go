package organization

import "time"

// Organization represents a row in the organizations table. It is the tenant
// that scopes projects and users.
type Organization struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

package project

import "time"

// Project represents a row in the projects table. OrganizationID is the
// tenant that scopes access to the project and everything nested under it.
type Project struct {
	ID             int64
	Title          string
	Description    *string
	Status         string
	OwnerID        *int64
	OrganizationID *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Epic represents a row in the epics table.
type Epic struct {
	ID          int64
	ProjectID   int64
	Title       string
	Description *string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Task represents a row in the tasks table.
type Task struct {
	ID          int64
	EpicID      int64
	Title       string
	Description *string
	Deadline    *string
	Status      string
	Label       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListFilter restricts project listings. When Scoped is set the listing holds
// the projects of OrganizationID plus unscoped ones; a nil OrganizationID then
// yields only unscoped projects.
type ListFilter struct {
	OrganizationID *int64
	Scoped         bool
}

// ProjectUpdate holds updatable project fields. Nil fields are not updated.
type ProjectUpdate struct {
	Title          *string
	Description    *string
	Status         *string
	OrganizationID *int64
}

// EpicUpdate holds updatable epic fields. Nil fields are not updated.
type EpicUpdate struct {
	Title       *string
	Description *string
	Status      *string
}

// TaskUpdate holds updatable task fields. Nil fields are not updated.
type TaskUpdate struct {
	Title       *string
	Description *string
	Deadline    *string
	Status      *string
	Label       *string
}

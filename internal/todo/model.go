package todo

import "time"

// Todo represents a row in the todos table.
type Todo struct {
	ID          int64
	Title       string
	Description *string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpdateFields holds updatable todo fields. Nil fields are not updated.
type UpdateFields struct {
	Title       *string
	Description *string
	Completed   *bool
}

package expense

import "time"

// Expense represents a row in the expenses table.
type Expense struct {
	ID           int64
	Title        string
	Amount       float64
	Tag          *string
	Category     *string
	Location     *string
	Description  *string
	PayorID      *int64
	Participants []int64
	TripID       *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UpdateFields holds updatable expense fields. Nil fields are not updated.
type UpdateFields struct {
	Title        *string
	Amount       *float64
	Tag          *string
	Category     *string
	Location     *string
	Description  *string
	PayorID      *int64
	Participants []int64
	TripID       *int64
}

package expense

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an expense record is not found.
var ErrNotFound = errors.New("expense not found")

// Repository provides CRUD operations on the expenses table.
type Repository interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, id int64) (*Expense, error)
	List(ctx context.Context) ([]Expense, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (*Expense, error)
	Delete(ctx context.Context, id int64) error
}

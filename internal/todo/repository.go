package todo

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a todo record is not found.
var ErrNotFound = errors.New("todo not found")

// Repository provides CRUD operations on the todos table.
type Repository interface {
	Create(ctx context.Context, t *Todo) error
	GetByID(ctx context.Context, id int64) (*Todo, error)
	List(ctx context.Context) ([]Todo, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (*Todo, error)
	Delete(ctx context.Context, id int64) error
}

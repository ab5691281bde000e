package trip

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a trip record is not found.
var ErrNotFound = errors.New("trip not found")

// Repository provides CRUD operations on the trips table.
type Repository interface {
	Create(ctx context.Context, t *Trip) error
	GetByID(ctx context.Context, id int64) (*Trip, error)
	List(ctx context.Context) ([]Trip, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (*Trip, error)
	Delete(ctx context.Context, id int64) error
}

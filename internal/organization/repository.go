package organization

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an organization record is not found.
var ErrNotFound = errors.New("organization not found")

// Repository provides CRUD operations on the organizations table.
type Repository interface {
	Create(ctx context.Context, org *Organization) error
	GetByID(ctx context.Context, id int64) (*Organization, error)
	List(ctx context.Context) ([]Organization, error)
	Rename(ctx context.Context, id int64, name string) (*Organization, error)
	Delete(ctx context.Context, id int64) error
}

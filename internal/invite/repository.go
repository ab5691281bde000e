package invite

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an invite record is not found.
var ErrNotFound = errors.New("invite not found")

// ErrDuplicateCode is returned when an invite with the same code already exists.
var ErrDuplicateCode = errors.New("invite code already exists")

// ErrExhausted is returned when an invite has reached its maximum uses.
var ErrExhausted = errors.New("invite code has reached its maximum uses")

// Repository provides operations on the invites table.
type Repository interface {
	Create(ctx context.Context, inv *Invite) error
	GetByCode(ctx context.Context, code string) (*Invite, error)
	List(ctx context.Context) ([]Invite, error)
	Delete(ctx context.Context, id int64) error
	// Redeem consumes one use of the invite, or returns ErrExhausted.
	Redeem(ctx context.Context, id int64) error
}

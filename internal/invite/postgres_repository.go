package invite

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new invite record.
func (r *PostgresRepository) Create(ctx context.Context, inv *Invite) error {
	query := `
		INSERT INTO invites (code, max_uses)
		VALUES ($1, $2)
		RETURNING id, uses, created_at`

	err := r.pool.QueryRow(ctx, query, inv.Code, inv.MaxUses).Scan(&inv.ID, &inv.Uses, &inv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCode
		}
		return fmt.Errorf("inserting invite: %w", err)
	}

	return nil
}

// GetByCode retrieves a single invite by its code.
func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*Invite, error) {
	query := `
		SELECT id, code, max_uses, uses, created_at
		FROM invites
		WHERE code = $1`

	var inv Invite
	err := r.pool.QueryRow(ctx, query, code).Scan(&inv.ID, &inv.Code, &inv.MaxUses, &inv.Uses, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying invite: %w", err)
	}

	return &inv, nil
}

// List retrieves all invites, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Invite, error) {
	query := `
		SELECT id, code, max_uses, uses, created_at
		FROM invites
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing invites: %w", err)
	}
	defer rows.Close()

	invites := []Invite{}
	for rows.Next() {
		var inv Invite
		if err := rows.Scan(&inv.ID, &inv.Code, &inv.MaxUses, &inv.Uses, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning invite row: %w", err)
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invite rows: %w", err)
	}

	return invites, nil
}

// Delete removes an invite by id.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM invites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting invite: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Redeem increments the use counter while uses remain.
func (r *PostgresRepository) Redeem(ctx context.Context, id int64) error {
	query := `
		UPDATE invites
		SET uses = uses + 1
		WHERE id = $1 AND uses < max_uses`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("redeeming invite: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrExhausted
	}

	return nil
}

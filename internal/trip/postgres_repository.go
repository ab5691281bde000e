package trip

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/profilehub/backend/internal/database"
)

const tripColumns = `id, title, description, start_date, end_date, participants, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new trip. An empty participant list is stored as NULL.
func (r *PostgresRepository) Create(ctx context.Context, t *Trip) error {
	query := `
		INSERT INTO trips (title, description, start_date, end_date, participants)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, t.Title, t.Description, t.StartDate, t.EndDate, nullableIDs(t.Participants)).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting trip: %w", err)
	}
	return nil
}

// GetByID retrieves a single trip.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Trip, error) {
	return scanTrip(r.pool.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, id))
}

// List retrieves all trips, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Trip, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tripColumns+` FROM trips ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	defer rows.Close()

	trips := []Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trip rows: %w", err)
	}
	return trips, nil
}

// Update modifies the non-nil fields of a trip.
func (r *PostgresRepository) Update(ctx context.Context, id int64, fields UpdateFields) (*Trip, error) {
	var a database.Assignments
	if fields.Title != nil {
		a.Set("title", *fields.Title)
	}
	if fields.Description != nil {
		a.Set("description", *fields.Description)
	}
	if fields.StartDate != nil {
		a.Set("start_date", *fields.StartDate)
	}
	if fields.EndDate != nil {
		a.Set("end_date", *fields.EndDate)
	}
	if fields.Participants != nil {
		a.Set("participants", nullableIDs(fields.Participants))
	}

	if a.Len() == 0 {
		return r.GetByID(ctx, id)
	}

	query, args := a.UpdateByID("trips", id, tripColumns)
	return scanTrip(r.pool.QueryRow(ctx, query, args...))
}

// Delete removes a trip. Expenses referencing it lose their trip.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTrip(row pgx.Row) (*Trip, error) {
	var t Trip
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.StartDate, &t.EndDate, &t.Participants, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning trip row: %w", err)
	}
	return &t, nil
}

func nullableIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	return ids
}

package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/profilehub/backend/internal/database"
)

const expenseColumns = `id, title, amount, tag, category, location, description,
		       payor_id, participants, trip_id, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new expense record.
func (r *PostgresRepository) Create(ctx context.Context, e *Expense) error {
	query := `
		INSERT INTO expenses (title, amount, tag, category, location, description, payor_id, participants, trip_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	var participants []int64
	if len(e.Participants) > 0 {
		participants = e.Participants
	}

	err := r.pool.QueryRow(ctx, query,
		e.Title, e.Amount, e.Tag, e.Category, e.Location, e.Description,
		e.PayorID, participants, e.TripID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting expense: %w", err)
	}
	return nil
}

// GetByID retrieves a single expense.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	return scanExpense(r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
}

// List retrieves all expenses, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Expense, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	expenses := []Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}
	return expenses, nil
}

// Update modifies the non-nil fields of an expense.
func (r *PostgresRepository) Update(ctx context.Context, id int64, fields UpdateFields) (*Expense, error) {
	var a database.Assignments
	if fields.Title != nil {
		a.Set("title", *fields.Title)
	}
	if fields.Amount != nil {
		a.Set("amount", *fields.Amount)
	}
	if fields.Tag != nil {
		a.Set("tag", *fields.Tag)
	}
	if fields.Category != nil {
		a.Set("category", *fields.Category)
	}
	if fields.Location != nil {
		a.Set("location", *fields.Location)
	}
	if fields.Description != nil {
		a.Set("description", *fields.Description)
	}
	if fields.PayorID != nil {
		a.Set("payor_id", *fields.PayorID)
	}
	if fields.Participants != nil {
		a.Set("participants", fields.Participants)
	}
	if fields.TripID != nil {
		a.Set("trip_id", *fields.TripID)
	}

	if a.Len() == 0 {
		return r.GetByID(ctx, id)
	}

	query, args := a.UpdateByID("expenses", id, expenseColumns)
	return scanExpense(r.pool.QueryRow(ctx, query, args...))
}

// Delete removes an expense.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanExpense(row pgx.Row) (*Expense, error) {
	var e Expense
	err := row.Scan(
		&e.ID, &e.Title, &e.Amount, &e.Tag, &e.Category, &e.Location, &e.Description,
		&e.PayorID, &e.Participants, &e.TripID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning expense row: %w", err)
	}
	return &e, nil
}

package todo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/profilehub/backend/internal/database"
)

const todoColumns = `id, title, description, completed, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new todo record.
func (r *PostgresRepository) Create(ctx context.Context, t *Todo) error {
	query := `
		INSERT INTO todos (title, description, completed)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, t.Title, t.Description, t.Completed).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting todo: %w", err)
	}
	return nil
}

// GetByID retrieves a single todo.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Todo, error) {
	return scanTodo(r.pool.QueryRow(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = $1`, id))
}

// List retrieves all todos, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Todo, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	defer rows.Close()

	todos := []Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todo rows: %w", err)
	}
	return todos, nil
}

// Update modifies the non-nil fields of a todo.
func (r *PostgresRepository) Update(ctx context.Context, id int64, fields UpdateFields) (*Todo, error) {
	var a database.Assignments
	if fields.Title != nil {
		a.Set("title", *fields.Title)
	}
	if fields.Description != nil {
		a.Set("description", *fields.Description)
	}
	if fields.Completed != nil {
		a.Set("completed", *fields.Completed)
	}

	if a.Len() == 0 {
		return r.GetByID(ctx, id)
	}

	query, args := a.UpdateByID("todos", id, todoColumns)
	return scanTodo(r.pool.QueryRow(ctx, query, args...))
}

// Delete removes a todo.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTodo(row pgx.Row) (*Todo, error) {
	var t Todo
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning todo row: %w", err)
	}
	return &t, nil
}

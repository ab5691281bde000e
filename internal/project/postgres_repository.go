package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/profilehub/backend/internal/database"
)

// Column contracts; the matching scan helpers destructure rows in this order.
const (
	projectColumns = `id, title, description, status, owner_id, organization_id, created_at, updated_at`
	epicColumns    = `id, project_id, title, description, status, created_at, updated_at`
	taskColumns    = `id, epic_id, title, description, deadline, status, label, created_at, updated_at`
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// --- Projects ---

// Create inserts a new project. An empty Status takes the column default.
func (r *PostgresRepository) Create(ctx context.Context, p *Project) error {
	if p.Status == "" {
		p.Status = "active"
	}

	query := `
		INSERT INTO projects (title, description, status, owner_id, organization_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, p.Title, p.Description, p.Status, p.OwnerID, p.OrganizationID).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isOrganizationViolation(err) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("inserting project: %w", err)
	}

	return nil
}

// GetByID retrieves a single project.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

// List retrieves projects, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []any

	if filter.Scoped {
		query += ` WHERE organization_id IS NULL OR organization_id = $1`
		args = append(args, filter.OrganizationID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}

	return projects, nil
}

// Update modifies the non-nil fields of a project.
func (r *PostgresRepository) Update(ctx context.Context, id int64, fields ProjectUpdate) (*Project, error) {
	var a database.Assignments
	if fields.Title != nil {
		a.Set("title", *fields.Title)
	}
	if fields.Description != nil {
		a.Set("description", *fields.Description)
	}
	if fields.Status != nil {
		a.Set("status", *fields.Status)
	}
	if fields.OrganizationID != nil {
		a.Set("organization_id", *fields.OrganizationID)
	}

	if a.Len() == 0 {
		return r.GetByID(ctx, id)
	}

	query, args := a.UpdateByID("projects", id, projectColumns)
	p, err := scanProject(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isOrganizationViolation(err) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return p, nil
}

// Delete removes a project together with its epics and tasks.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Epics ---

// CreateEpic inserts a new epic under e.ProjectID.
func (r *PostgresRepository) CreateEpic(ctx context.Context, e *Epic) error {
	if e.Status == "" {
		e.Status = "active"
	}

	query := `
		INSERT INTO epics (project_id, title, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, e.ProjectID, e.Title, e.Description, e.Status).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("inserting epic: %w", err)
	}

	return nil
}

// GetEpic retrieves an epic belonging to the given project.
func (r *PostgresRepository) GetEpic(ctx context.Context, projectID, epicID int64) (*Epic, error) {
	query := `SELECT ` + epicColumns + ` FROM epics WHERE id = $1 AND project_id = $2`
	return scanEpic(r.pool.QueryRow(ctx, query, epicID, projectID))
}

// ListEpics retrieves the epics of a project, newest first.
func (r *PostgresRepository) ListEpics(ctx context.Context, projectID int64) ([]Epic, error) {
	query := `SELECT ` + epicColumns + `
		FROM epics
		WHERE project_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing epics: %w", err)
	}
	defer rows.Close()

	epics := []Epic{}
	for rows.Next() {
		e, err := scanEpic(rows)
		if err != nil {
			return nil, err
		}
		epics = append(epics, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating epic rows: %w", err)
	}

	return epics, nil
}

// UpdateEpic modifies the non-nil fields of an epic within its project.
func (r *PostgresRepository) UpdateEpic(ctx context.Context, projectID, epicID int64, fields EpicUpdate) (*Epic, error) {
	var a database.Assignments
	if fields.Title != nil {
		a.Set("title", *fields.Title)
	}
	if fields.Description != nil {
		a.Set("description", *fields.Description)
	}
	if fields.Status != nil {
		a.Set("status", *fields.Status)
	}

	if a.Len() == 0 {
		return r.GetEpic(ctx, projectID, epicID)
	}

	query, args := a.Update("epics", epicColumns,
		database.Key{Column: "id", Value: epicID},
		database.Key{Column: "project_id", Value: projectID},
	)
	return scanEpic(r.pool.QueryRow(ctx, query, args...))
}

// DeleteEpic removes an epic and its tasks.
func (r *PostgresRepository) DeleteEpic(ctx context.Context, projectID, epicID int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM epics WHERE id = $1 AND project_id = $2`, epicID, projectID)
	if err != nil {
		return fmt.Errorf("deleting epic: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrEpicNotFound
	}
	return nil
}

// --- Tasks ---

// CreateTask inserts a new task under t.EpicID.
func (r *PostgresRepository) CreateTask(ctx context.Context, t *Task) error {
	if t.Status == "" {
		t.Status = "todo"
	}

	query := `
		INSERT INTO tasks (epic_id, title, description, deadline, status, label)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, t.EpicID, t.Title, t.Description, t.Deadline, t.Status, t.Label).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrEpicNotFound
		}
		return fmt.Errorf("inserting task: %w", err)
	}

	return nil
}

// GetTask retrieves a task belonging to the given epic.
func (r *PostgresRepository) GetTask(ctx context.Context, epicID, taskID int64) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND epic_id = $2`
	return scanTask(r.pool.QueryRow(ctx, query, taskID, epicID))
}

// ListTasks retrieves the tasks of an epic, newest first.
func (r *PostgresRepository) ListTasks(ctx context.Context, epicID int64) ([]Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE epic_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, epicID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}

	return tasks, nil
}

// UpdateTask modifies the non-nil fields of a task within its epic.
func (r *PostgresRepository) UpdateTask(ctx context.Context, epicID, taskID int64, fields TaskUpdate) (*Task, error) {
	var a database.Assignments
	if fields.Title != nil {
		a.Set("title", *fields.Title)
	}
	if fields.Description != nil {
		a.Set("description", *fields.Description)
	}
	if fields.Deadline != nil {
		a.Set("deadline", *fields.Deadline)
	}
	if fields.Status != nil {
		a.Set("status", *fields.Status)
	}
	if fields.Label != nil {
		a.Set("label", *fields.Label)
	}

	if a.Len() == 0 {
		return r.GetTask(ctx, epicID, taskID)
	}

	query, args := a.Update("tasks", taskColumns,
		database.Key{Column: "id", Value: taskID},
		database.Key{Column: "epic_id", Value: epicID},
	)
	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// DeleteTask removes a task.
func (r *PostgresRepository) DeleteTask(ctx context.Context, epicID, taskID int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND epic_id = $2`, taskID, epicID)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// --- row decoding ---

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.OwnerID, &p.OrganizationID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning project row: %w", err)
	}
	return &p, nil
}

func scanEpic(row pgx.Row) (*Epic, error) {
	var e Epic
	err := row.Scan(&e.ID, &e.ProjectID, &e.Title, &e.Description, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEpicNotFound
		}
		return nil, fmt.Errorf("scanning epic row: %w", err)
	}
	return &e, nil
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.EpicID, &t.Title, &t.Description, &t.Deadline, &t.Status, &t.Label, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("scanning task row: %w", err)
	}
	return &t, nil
}

// isOrganizationViolation reports a foreign key violation on projects.organization_id.
func isOrganizationViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503" && pgErr.ConstraintName == "projects_organization_id_fkey"
}

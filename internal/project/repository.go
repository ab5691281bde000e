package project

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a project record is not found.
	ErrNotFound = errors.New("project not found")
	// ErrEpicNotFound is returned when an epic is not found within its project.
	ErrEpicNotFound = errors.New("epic not found")
	// ErrTaskNotFound is returned when a task is not found within its epic.
	ErrTaskNotFound = errors.New("task not found")
	// ErrOrganizationNotFound is returned when a project references a missing organization.
	ErrOrganizationNotFound = errors.New("organization not found")
)

// Repository provides CRUD operations on projects and their nested epics and tasks.
// Epic and task lookups are always qualified by their parent ids.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context, filter ListFilter) ([]Project, error)
	Update(ctx context.Context, id int64, fields ProjectUpdate) (*Project, error)
	Delete(ctx context.Context, id int64) error

	CreateEpic(ctx context.Context, e *Epic) error
	GetEpic(ctx context.Context, projectID, epicID int64) (*Epic, error)
	ListEpics(ctx context.Context, projectID int64) ([]Epic, error)
	UpdateEpic(ctx context.Context, projectID, epicID int64, fields EpicUpdate) (*Epic, error)
	DeleteEpic(ctx context.Context, projectID, epicID int64) error

	CreateTask(ctx context.Context, t *Task) error
	GetTask(ctx context.Context, epicID, taskID int64) (*Task, error)
	ListTasks(ctx context.Context, epicID int64) ([]Task, error)
	UpdateTask(ctx context.Context, epicID, taskID int64, fields TaskUpdate) (*Task, error)
	DeleteTask(ctx context.Context, epicID, taskID int64) error
}

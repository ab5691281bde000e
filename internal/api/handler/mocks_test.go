package handler_test

import (
	"context"
	"time"

	"github.com/profilehub/backend/internal/auth"
	"github.com/profilehub/backend/internal/expense"
	"github.com/profilehub/backend/internal/invite"
	"github.com/profilehub/backend/internal/organization"
	"github.com/profilehub/backend/internal/project"
	"github.com/profilehub/backend/internal/rag"
	"github.com/profilehub/backend/internal/todo"
	"github.com/profilehub/backend/internal/trip"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// --- Organizations ---

type mockOrgRepo struct {
	createFn  func(ctx context.Context, org *organization.Organization) error
	getByIDFn func(ctx context.Context, id int64) (*organization.Organization, error)
	listFn    func(ctx context.Context) ([]organization.Organization, error)
	renameFn  func(ctx context.Context, id int64, name string) (*organization.Organization, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockOrgRepo) Create(ctx context.Context, org *organization.Organization) error {
	if m.createFn != nil {
		return m.createFn(ctx, org)
	}
	org.ID = 1
	org.CreatedAt = fixedTime
	org.UpdatedAt = fixedTime
	return nil
}

func (m *mockOrgRepo) GetByID(ctx context.Context, id int64) (*organization.Organization, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, organization.ErrNotFound
}

func (m *mockOrgRepo) List(ctx context.Context) ([]organization.Organization, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []organization.Organization{}, nil
}

func (m *mockOrgRepo) Rename(ctx context.Context, id int64, name string) (*organization.Organization, error) {
	if m.renameFn != nil {
		return m.renameFn(ctx, id, name)
	}
	return nil, organization.ErrNotFound
}

func (m *mockOrgRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// orgsWith returns a repository where the given organization ids exist.
func orgsWith(ids ...int64) *mockOrgRepo {
	return &mockOrgRepo{
		getByIDFn: func(_ context.Context, id int64) (*organization.Organization, error) {
			for _, known := range ids {
				if known == id {
					return &organization.Organization{ID: id, Name: "org", CreatedAt: fixedTime, UpdatedAt: fixedTime}, nil
				}
			}
			return nil, organization.ErrNotFound
		},
	}
}

// --- Invites ---

type mockInviteRepo struct {
	createFn    func(ctx context.Context, inv *invite.Invite) error
	getByCodeFn func(ctx context.Context, code string) (*invite.Invite, error)
	listFn      func(ctx context.Context) ([]invite.Invite, error)
	deleteFn    func(ctx context.Context, id int64) error
	redeemFn    func(ctx context.Context, id int64) error
}

func (m *mockInviteRepo) Create(ctx context.Context, inv *invite.Invite) error {
	if m.createFn != nil {
		return m.createFn(ctx, inv)
	}
	inv.ID = 1
	inv.CreatedAt = fixedTime
	return nil
}

func (m *mockInviteRepo) GetByCode(ctx context.Context, code string) (*invite.Invite, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, invite.ErrNotFound
}

func (m *mockInviteRepo) List(ctx context.Context) ([]invite.Invite, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []invite.Invite{}, nil
}

func (m *mockInviteRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockInviteRepo) Redeem(ctx context.Context, id int64) error {
	if m.redeemFn != nil {
		return m.redeemFn(ctx, id)
	}
	return nil
}

// --- Users and credentials ---

type mockUserRepo struct {
	createFn      func(ctx context.Context, u *auth.User) error
	getByEmailFn  func(ctx context.Context, email string) (*auth.User, error)
	existingIDsFn func(ctx context.Context, ids []int64) ([]int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *auth.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	u.ID = 1
	u.CreatedAt = fixedTime
	u.UpdatedAt = fixedTime
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, auth.ErrUserNotFound
}

func (m *mockUserRepo) FindByLiveKey(_ context.Context, _ string) (*auth.User, error) {
	return nil, auth.ErrUserNotFound
}

func (m *mockUserRepo) IssueKey(_ context.Context, _ int64, _ string, _ time.Duration) (*auth.Credential, error) {
	return nil, nil
}

func (m *mockUserRepo) ClearExpiredKeys(_ context.Context) (int64, error) { return 0, nil }

func (m *mockUserRepo) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if m.existingIDsFn != nil {
		return m.existingIDsFn(ctx, ids)
	}
	return ids, nil
}

// usersWith returns a directory where only the given user ids exist.
func usersWith(known ...int64) *mockUserRepo {
	return &mockUserRepo{
		existingIDsFn: func(_ context.Context, ids []int64) ([]int64, error) {
			found := []int64{}
			for _, id := range ids {
				for _, k := range known {
					if k == id {
						found = append(found, id)
					}
				}
			}
			return found, nil
		},
	}
}

type mockCredentials struct {
	hashFn  func(password string) (string, error)
	loginFn func(ctx context.Context, email, password string) (*auth.Credential, error)
}

func (m *mockCredentials) HashPassword(password string) (string, error) {
	if m.hashFn != nil {
		return m.hashFn(password)
	}
	return "hashed:" + password, nil
}

func (m *mockCredentials) Login(ctx context.Context, email, password string) (*auth.Credential, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return nil, auth.ErrInvalidCredentials
}

type mockKeyManager struct {
	expiryFn func(ctx context.Context, identity *auth.Identity) (time.Time, error)
	rotateFn func(ctx context.Context, newKey string) (*auth.Credential, error)
}

func (m *mockKeyManager) KeyExpiry(ctx context.Context, identity *auth.Identity) (time.Time, error) {
	if m.expiryFn != nil {
		return m.expiryFn(ctx, identity)
	}
	return fixedTime, nil
}

func (m *mockKeyManager) RotateSuperuserKey(ctx context.Context, newKey string) (*auth.Credential, error) {
	if m.rotateFn != nil {
		return m.rotateFn(ctx, newKey)
	}
	return &auth.Credential{Key: newKey, IssuedAt: fixedTime, ExpiresAt: fixedTime.Add(24 * time.Hour)}, nil
}

// --- Projects ---

type mockProjectRepo struct {
	createFn     func(ctx context.Context, p *project.Project) error
	getByIDFn    func(ctx context.Context, id int64) (*project.Project, error)
	listFn       func(ctx context.Context, filter project.ListFilter) ([]project.Project, error)
	updateFn     func(ctx context.Context, id int64, fields project.ProjectUpdate) (*project.Project, error)
	deleteFn     func(ctx context.Context, id int64) error
	createEpicFn func(ctx context.Context, e *project.Epic) error
	getEpicFn    func(ctx context.Context, projectID, epicID int64) (*project.Epic, error)
	createTaskFn func(ctx context.Context, t *project.Task) error
	getTaskFn    func(ctx context.Context, epicID, taskID int64) (*project.Task, error)
	deleteTaskFn func(ctx context.Context, epicID, taskID int64) error
}

func (m *mockProjectRepo) Create(ctx context.Context, p *project.Project) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	p.ID = 1
	if p.Status == "" {
		p.Status = "active"
	}
	p.CreatedAt = fixedTime
	p.UpdatedAt = fixedTime
	return nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id int64) (*project.Project, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, project.ErrNotFound
}

func (m *mockProjectRepo) List(ctx context.Context, filter project.ListFilter) ([]project.Project, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return []project.Project{}, nil
}

func (m *mockProjectRepo) Update(ctx context.Context, id int64, fields project.ProjectUpdate) (*project.Project, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil, project.ErrNotFound
}

func (m *mockProjectRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockProjectRepo) CreateEpic(ctx context.Context, e *project.Epic) error {
	if m.createEpicFn != nil {
		return m.createEpicFn(ctx, e)
	}
	e.ID = 1
	if e.Status == "" {
		e.Status = "active"
	}
	e.CreatedAt = fixedTime
	e.UpdatedAt = fixedTime
	return nil
}

func (m *mockProjectRepo) GetEpic(ctx context.Context, projectID, epicID int64) (*project.Epic, error) {
	if m.getEpicFn != nil {
		return m.getEpicFn(ctx, projectID, epicID)
	}
	return nil, project.ErrEpicNotFound
}

func (m *mockProjectRepo) ListEpics(_ context.Context, _ int64) ([]project.Epic, error) {
	return []project.Epic{}, nil
}

func (m *mockProjectRepo) UpdateEpic(_ context.Context, _, _ int64, _ project.EpicUpdate) (*project.Epic, error) {
	return nil, project.ErrEpicNotFound
}

func (m *mockProjectRepo) DeleteEpic(_ context.Context, _, _ int64) error { return nil }

func (m *mockProjectRepo) CreateTask(ctx context.Context, t *project.Task) error {
	if m.createTaskFn != nil {
		return m.createTaskFn(ctx, t)
	}
	t.ID = 1
	if t.Status == "" {
		t.Status = "todo"
	}
	t.CreatedAt = fixedTime
	t.UpdatedAt = fixedTime
	return nil
}

func (m *mockProjectRepo) GetTask(ctx context.Context, epicID, taskID int64) (*project.Task, error) {
	if m.getTaskFn != nil {
		return m.getTaskFn(ctx, epicID, taskID)
	}
	return nil, project.ErrTaskNotFound
}

func (m *mockProjectRepo) ListTasks(_ context.Context, _ int64) ([]project.Task, error) {
	return []project.Task{}, nil
}

func (m *mockProjectRepo) UpdateTask(_ context.Context, _, _ int64, _ project.TaskUpdate) (*project.Task, error) {
	return nil, project.ErrTaskNotFound
}

func (m *mockProjectRepo) DeleteTask(ctx context.Context, epicID, taskID int64) error {
	if m.deleteTaskFn != nil {
		return m.deleteTaskFn(ctx, epicID, taskID)
	}
	return nil
}

// --- Todos ---

type mockTodoRepo struct {
	createFn  func(ctx context.Context, t *todo.Todo) error
	getByIDFn func(ctx context.Context, id int64) (*todo.Todo, error)
	updateFn  func(ctx context.Context, id int64, fields todo.UpdateFields) (*todo.Todo, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockTodoRepo) Create(ctx context.Context, t *todo.Todo) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	t.ID = 1
	t.CreatedAt = fixedTime
	t.UpdatedAt = fixedTime
	return nil
}

func (m *mockTodoRepo) GetByID(ctx context.Context, id int64) (*todo.Todo, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, todo.ErrNotFound
}

func (m *mockTodoRepo) List(_ context.Context) ([]todo.Todo, error) {
	return []todo.Todo{}, nil
}

func (m *mockTodoRepo) Update(ctx context.Context, id int64, fields todo.UpdateFields) (*todo.Todo, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil, todo.ErrNotFound
}

func (m *mockTodoRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Trips ---

type mockTripRepo struct {
	createFn  func(ctx context.Context, t *trip.Trip) error
	getByIDFn func(ctx context.Context, id int64) (*trip.Trip, error)
	updateFn  func(ctx context.Context, id int64, fields trip.UpdateFields) (*trip.Trip, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockTripRepo) Create(ctx context.Context, t *trip.Trip) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	t.ID = 1
	t.CreatedAt = fixedTime
	t.UpdatedAt = fixedTime
	return nil
}

func (m *mockTripRepo) GetByID(ctx context.Context, id int64) (*trip.Trip, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, trip.ErrNotFound
}

func (m *mockTripRepo) List(_ context.Context) ([]trip.Trip, error) {
	return []trip.Trip{}, nil
}

func (m *mockTripRepo) Update(ctx context.Context, id int64, fields trip.UpdateFields) (*trip.Trip, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil, trip.ErrNotFound
}

func (m *mockTripRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// tripsWith returns a repository holding one trip with the given participants.
func tripsWith(id int64, participants ...int64) *mockTripRepo {
	return &mockTripRepo{
		getByIDFn: func(_ context.Context, got int64) (*trip.Trip, error) {
			if got != id {
				return nil, trip.ErrNotFound
			}
			return &trip.Trip{ID: id, Title: "Lisbon", Participants: participants, CreatedAt: fixedTime, UpdatedAt: fixedTime}, nil
		},
	}
}

// --- Expenses ---

type mockExpenseRepo struct {
	createFn  func(ctx context.Context, e *expense.Expense) error
	getByIDFn func(ctx context.Context, id int64) (*expense.Expense, error)
	updateFn  func(ctx context.Context, id int64, fields expense.UpdateFields) (*expense.Expense, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockExpenseRepo) Create(ctx context.Context, e *expense.Expense) error {
	if m.createFn != nil {
		return m.createFn(ctx, e)
	}
	e.ID = 1
	e.CreatedAt = fixedTime
	e.UpdatedAt = fixedTime
	return nil
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, id int64) (*expense.Expense, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, expense.ErrNotFound
}

func (m *mockExpenseRepo) List(_ context.Context) ([]expense.Expense, error) {
	return []expense.Expense{}, nil
}

func (m *mockExpenseRepo) Update(ctx context.Context, id int64, fields expense.UpdateFields) (*expense.Expense, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil, expense.ErrNotFound
}

func (m *mockExpenseRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- RAG ---

type mockRAG struct {
	ingestFn func(ctx context.Context, title, content string) (*rag.IngestResult, error)
	queryFn  func(ctx context.Context, question string, documentID *int64) (*rag.Answer, error)
	listFn   func(ctx context.Context) ([]rag.Document, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockRAG) Ingest(ctx context.Context, title, content string) (*rag.IngestResult, error) {
	if m.ingestFn != nil {
		return m.ingestFn(ctx, title, content)
	}
	return &rag.IngestResult{DocumentID: 1, ChunksCreated: 1, Message: rag.MessageIngested}, nil
}

func (m *mockRAG) Query(ctx context.Context, question string, documentID *int64) (*rag.Answer, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, question, documentID)
	}
	return nil, rag.ErrNoDocuments
}

func (m *mockRAG) ListDocuments(ctx context.Context) ([]rag.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []rag.Document{}, nil
}

func (m *mockRAG) DeleteDocument(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

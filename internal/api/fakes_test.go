package api_test

import (
	"context"
	"sync"
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

// --- Settings store holding the superuser key ---

type memSettings struct {
	mu      sync.Mutex
	key     string
	expires time.Time
	reads   int
}

func (m *memSettings) GetLiveSuperuserKey(_ context.Context) (*auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.key == "" || !time.Now().Before(m.expires) {
		return nil, auth.ErrNoLiveKey
	}
	return &auth.Credential{Key: m.key, ExpiresAt: m.expires}, nil
}

func (m *memSettings) UpsertSuperuserKey(_ context.Context, key string, ttl time.Duration) (*auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	m.key = key
	m.expires = now.Add(ttl)
	return &auth.Credential{Key: key, IssuedAt: now, ExpiresAt: m.expires}, nil
}

// --- User store keyed by API key ---

type memUsers struct {
	byKey map[string]*auth.User
}

func (m *memUsers) Create(_ context.Context, _ *auth.User) error { return nil }
func (m *memUsers) GetByEmail(_ context.Context, _ string) (*auth.User, error) {
	return nil, auth.ErrUserNotFound
}

func (m *memUsers) FindByLiveKey(_ context.Context, key string) (*auth.User, error) {
	if u, ok := m.byKey[key]; ok {
		return u, nil
	}
	return nil, auth.ErrUserNotFound
}

func (m *memUsers) IssueKey(_ context.Context, _ int64, key string, ttl time.Duration) (*auth.Credential, error) {
	now := time.Now().UTC()
	return &auth.Credential{Key: key, IssuedAt: now, ExpiresAt: now.Add(ttl)}, nil
}
func (m *memUsers) ClearExpiredKeys(_ context.Context) (int64, error) { return 0, nil }
func (m *memUsers) ExistingIDs(_ context.Context, _ []int64) ([]int64, error) {
	return []int64{}, nil
}

// --- Organizations ---

type memOrgs struct {
	orgs map[int64]*organization.Organization
}

func (m *memOrgs) Create(_ context.Context, org *organization.Organization) error {
	org.ID = int64(len(m.orgs) + 1)
	return nil
}

func (m *memOrgs) GetByID(_ context.Context, id int64) (*organization.Organization, error) {
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return nil, organization.ErrNotFound
}

func (m *memOrgs) List(_ context.Context) ([]organization.Organization, error) {
	out := []organization.Organization{}
	for _, o := range m.orgs {
		out = append(out, *o)
	}
	return out, nil
}

func (m *memOrgs) Rename(_ context.Context, _ int64, _ string) (*organization.Organization, error) {
	return nil, organization.ErrNotFound
}
func (m *memOrgs) Delete(_ context.Context, _ int64) error { return organization.ErrNotFound }

// --- Projects; epics and tasks are never found ---

type memProjects struct {
	projects map[int64]*project.Project
}

func (m *memProjects) Create(_ context.Context, p *project.Project) error {
	p.ID = int64(len(m.projects) + 1)
	return nil
}

func (m *memProjects) GetByID(_ context.Context, id int64) (*project.Project, error) {
	if p, ok := m.projects[id]; ok {
		return p, nil
	}
	return nil, project.ErrNotFound
}

func (m *memProjects) List(_ context.Context, _ project.ListFilter) ([]project.Project, error) {
	return []project.Project{}, nil
}

func (m *memProjects) Update(_ context.Context, _ int64, _ project.ProjectUpdate) (*project.Project, error) {
	return nil, project.ErrNotFound
}
func (m *memProjects) Delete(_ context.Context, _ int64) error        { return project.ErrNotFound }
func (m *memProjects) CreateEpic(_ context.Context, _ *project.Epic) error { return nil }
func (m *memProjects) GetEpic(_ context.Context, _, _ int64) (*project.Epic, error) {
	return nil, project.ErrEpicNotFound
}
func (m *memProjects) ListEpics(_ context.Context, _ int64) ([]project.Epic, error) {
	return []project.Epic{}, nil
}
func (m *memProjects) UpdateEpic(_ context.Context, _, _ int64, _ project.EpicUpdate) (*project.Epic, error) {
	return nil, project.ErrEpicNotFound
}
func (m *memProjects) DeleteEpic(_ context.Context, _, _ int64) error  { return project.ErrEpicNotFound }
func (m *memProjects) CreateTask(_ context.Context, _ *project.Task) error { return nil }
func (m *memProjects) GetTask(_ context.Context, _, _ int64) (*project.Task, error) {
	return nil, project.ErrTaskNotFound
}
func (m *memProjects) ListTasks(_ context.Context, _ int64) ([]project.Task, error) {
	return []project.Task{}, nil
}
func (m *memProjects) UpdateTask(_ context.Context, _, _ int64, _ project.TaskUpdate) (*project.Task, error) {
	return nil, project.ErrTaskNotFound
}
func (m *memProjects) DeleteTask(_ context.Context, _, _ int64) error { return project.ErrTaskNotFound }

// --- Noop stores for the remaining resources ---

type noopInvites struct{}

func (noopInvites) Create(_ context.Context, _ *invite.Invite) error { return nil }
func (noopInvites) GetByCode(_ context.Context, _ string) (*invite.Invite, error) {
	return nil, invite.ErrNotFound
}
func (noopInvites) List(_ context.Context) ([]invite.Invite, error) { return []invite.Invite{}, nil }
func (noopInvites) Delete(_ context.Context, _ int64) error        { return invite.ErrNotFound }
func (noopInvites) Redeem(_ context.Context, _ int64) error        { return invite.ErrExhausted }

type noopTodos struct{}

func (noopTodos) Create(_ context.Context, t *todo.Todo) error {
	t.ID = 1
	return nil
}
func (noopTodos) GetByID(_ context.Context, _ int64) (*todo.Todo, error) { return nil, todo.ErrNotFound }
func (noopTodos) List(_ context.Context) ([]todo.Todo, error)           { return []todo.Todo{}, nil }
func (noopTodos) Update(_ context.Context, _ int64, _ todo.UpdateFields) (*todo.Todo, error) {
	return nil, todo.ErrNotFound
}
func (noopTodos) Delete(_ context.Context, _ int64) error { return todo.ErrNotFound }

type noopTrips struct{}

func (noopTrips) Create(_ context.Context, _ *trip.Trip) error            { return nil }
func (noopTrips) GetByID(_ context.Context, _ int64) (*trip.Trip, error) { return nil, trip.ErrNotFound }
func (noopTrips) List(_ context.Context) ([]trip.Trip, error)            { return []trip.Trip{}, nil }
func (noopTrips) Update(_ context.Context, _ int64, _ trip.UpdateFields) (*trip.Trip, error) {
	return nil, trip.ErrNotFound
}
func (noopTrips) Delete(_ context.Context, _ int64) error { return trip.ErrNotFound }

type noopExpenses struct{}

func (noopExpenses) Create(_ context.Context, _ *expense.Expense) error { return nil }
func (noopExpenses) GetByID(_ context.Context, _ int64) (*expense.Expense, error) {
	return nil, expense.ErrNotFound
}
func (noopExpenses) List(_ context.Context) ([]expense.Expense, error) {
	return []expense.Expense{}, nil
}
func (noopExpenses) Update(_ context.Context, _ int64, _ expense.UpdateFields) (*expense.Expense, error) {
	return nil, expense.ErrNotFound
}
func (noopExpenses) Delete(_ context.Context, _ int64) error { return expense.ErrNotFound }

type noopRAG struct{}

func (noopRAG) Ingest(_ context.Context, _, _ string) (*rag.IngestResult, error) {
	return &rag.IngestResult{DocumentID: 1, Message: rag.MessageEmpty}, nil
}
func (noopRAG) Query(_ context.Context, _ string, _ *int64) (*rag.Answer, error) {
	return nil, rag.ErrNoDocuments
}
func (noopRAG) ListDocuments(_ context.Context) ([]rag.Document, error) {
	return []rag.Document{}, nil
}
func (noopRAG) DeleteDocument(_ context.Context, _ int64) error { return rag.ErrDocumentNotFound }

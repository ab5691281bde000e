package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/profilehub/backend/internal/api/middleware"
	"github.com/profilehub/backend/internal/api/response"
	"github.com/profilehub/backend/internal/api/validation"
	"github.com/profilehub/backend/internal/organization"
	"github.com/profilehub/backend/internal/project"
)

type createProjectRequest struct {
	Title          string  `json:"title"`
	Description    *string `json:"description"`
	Status         *string `json:"status"`
	OrganizationID *int64  `json:"organizationId"`
}

type updateProjectRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Status         *string `json:"status"`
	OrganizationID *int64  `json:"organizationId"`
}

func (r updateProjectRequest) empty() bool {
	return r.Title == nil && r.Description == nil && r.Status == nil && r.OrganizationID == nil
}

type epicRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (r epicRequest) empty() bool {
	return r.Title == nil && r.Description == nil && r.Status == nil
}

type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Status      *string `json:"status"`
	Label       *string `json:"label"`
}

func (r taskRequest) empty() bool {
	return r.Title == nil && r.Description == nil && r.Deadline == nil && r.Status == nil && r.Label == nil
}

type projectResponse struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Description    *string `json:"description"`
	Status         string  `json:"status"`
	OwnerID        *int64  `json:"ownerId"`
	OrganizationID *int64  `json:"organizationId"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

type epicResponse struct {
	ID          int64   `json:"id"`
	ProjectID   int64   `json:"projectId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type taskResponse struct {
	ID          int64   `json:"id"`
	EpicID      int64   `json:"epicId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Status      string  `json:"status"`
	Label       *string `json:"label"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toProjectResponse(p *project.Project) projectResponse {
	return projectResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Status:         p.Status,
		OwnerID:        p.OwnerID,
		OrganizationID: p.OrganizationID,
		CreatedAt:      response.FormatTime(p.CreatedAt),
		UpdatedAt:      response.FormatTime(p.UpdatedAt),
	}
}

func toEpicResponse(e *project.Epic) epicResponse {
	return epicResponse{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		Title:       e.Title,
		Description: e.Description,
		Status:      e.Status,
		CreatedAt:   response.FormatTime(e.CreatedAt),
		UpdatedAt:   response.FormatTime(e.UpdatedAt),
	}
}

func toTaskResponse(t *project.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		EpicID:      t.EpicID,
		Title:       t.Title,
		Description: t.Description,
		Deadline:    t.Deadline,
		Status:      t.Status,
		Label:       t.Label,
		CreatedAt:   response.FormatTime(t.CreatedAt),
		UpdatedAt:   response.FormatTime(t.UpdatedAt),
	}
}

// ProjectHandler handles projects and the epics and tasks nested under them.
// Nested resources are authorized against their project's organization.
type ProjectHandler struct {
	repo project.Repository
	orgs organization.Repository
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(repo project.Repository, orgs organization.Repository) *ProjectHandler {
	return &ProjectHandler{repo: repo, orgs: orgs}
}

// writeError maps repository errors to responses.
func (h *ProjectHandler) writeError(w http.ResponseWriter, requestID, action string, err error) {
	switch {
	case errors.Is(err, project.ErrNotFound):
		notFound(w, "Project not found", requestID)
	case errors.Is(err, project.ErrEpicNotFound):
		notFound(w, "Epic not found", requestID)
	case errors.Is(err, project.ErrTaskNotFound):
		notFound(w, "Task not found", requestID)
	case errors.Is(err, project.ErrOrganizationNotFound), errors.Is(err, organization.ErrNotFound):
		notFound(w, "Organization not found", requestID)
	default:
		internalError(w, requestID, action, err)
	}
}

// loadProject resolves {id}, then authorizes the caller against the project.
func (h *ProjectHandler) loadProject(w http.ResponseWriter, r *http.Request, requestID, action string) (*project.Project, bool) {
	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return nil, false
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, requestID, action, err)
		return nil, false
	}

	if !authorize(w, r, p.OrganizationID, requestID) {
		return nil, false
	}
	return p, true
}

// loadEpic resolves the project and then {epicId} within it.
func (h *ProjectHandler) loadEpic(w http.ResponseWriter, r *http.Request, requestID, action string) (*project.Epic, bool) {
	p, ok := h.loadProject(w, r, requestID, action)
	if !ok {
		return nil, false
	}

	epicID, ok := parseID(w, r, "epicId", requestID)
	if !ok {
		return nil, false
	}

	e, err := h.repo.GetEpic(r.Context(), p.ID, epicID)
	if err != nil {
		h.writeError(w, requestID, action, err)
		return nil, false
	}
	return e, true
}

// --- Projects ---

// Create handles POST /api/projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createProjectRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Status = trimmed(req.Status)
	if invalid(w, validation.ValidateCreateProjectRequest(validation.CreateProjectRequest{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		OrganizationID: req.OrganizationID,
	}), requestID) {
		return
	}

	org, err := h.orgs.GetByID(r.Context(), *req.OrganizationID)
	if err != nil {
		h.writeError(w, requestID, "create project", err)
		return
	}
	if !authorize(w, r, &org.ID, requestID) {
		return
	}

	p := &project.Project{
		Title:          req.Title,
		Description:    req.Description,
		OrganizationID: &org.ID,
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if identity := middleware.GetIdentity(r.Context()); identity != nil && !identity.IsSuperuser {
		owner := identity.UserID
		p.OwnerID = &owner
	}

	if err := h.repo.Create(r.Context(), p); err != nil {
		h.writeError(w, requestID, "create project", err)
		return
	}

	response.Success(w, http.StatusCreated, toProjectResponse(p), requestID)
}

// List handles GET /api/projects. Tenant users see their organization's
// projects and unscoped ones.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var filter project.ListFilter
	if identity := middleware.GetIdentity(r.Context()); identity != nil && !identity.IsSuperuser {
		filter = project.ListFilter{OrganizationID: identity.OrganizationID, Scoped: true}
	}

	projects, err := h.repo.List(r.Context(), filter)
	if err != nil {
		internalError(w, requestID, "list projects", err)
		return
	}

	items := make([]projectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, toProjectResponse(&projects[i]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /api/projects/{id}.
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	p, ok := h.loadProject(w, r, requestID, "get project")
	if !ok {
		return
	}

	response.Success(w, http.StatusOK, toProjectResponse(p), requestID)
}

// Update handles PATCH /api/projects/{id}. Moving a project to another
// organization requires access to the target organization as well.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req updateProjectRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	p, ok := h.loadProject(w, r, requestID, "update project")
	if !ok {
		return
	}

	if req.empty() {
		noFields(w, requestID)
		return
	}
	req.Title = trimmed(req.Title)
	req.Status = trimmed(req.Status)
	if invalid(w, validation.ValidateUpdateProjectRequest(validation.UpdateProjectRequest{
		Title:          req.Title,
		Status:         req.Status,
		OrganizationID: req.OrganizationID,
	}), requestID) {
		return
	}

	if req.OrganizationID != nil {
		target, err := h.orgs.GetByID(r.Context(), *req.OrganizationID)
		if err != nil {
			h.writeError(w, requestID, "update project", err)
			return
		}
		if !authorize(w, r, &target.ID, requestID) {
			return
		}
	}

	updated, err := h.repo.Update(r.Context(), p.ID, project.ProjectUpdate{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		h.writeError(w, requestID, "update project", err)
		return
	}

	response.Success(w, http.StatusOK, toProjectResponse(updated), requestID)
}

// Delete handles DELETE /api/projects/{id}.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	p, ok := h.loadProject(w, r, requestID, "delete project")
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), p.ID); err != nil {
		h.writeError(w, requestID, "delete project", err)
		return
	}

	response.NoContent(w)
}

// --- Epics ---

// CreateEpic handles POST /api/projects/{id}/epics.
func (h *ProjectHandler) CreateEpic(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req epicRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	p, ok := h.loadProject(w, r, requestID, "create epic")
	if !ok {
		return
	}

	req.Title = trimmed(req.Title)
	req.Status = trimmed(req.Status)
	if invalid(w, validation.ValidateCreateEpicRequest(validation.EpicRequest{
		Title:  req.Title,
		Status: req.Status,
	}), requestID) {
		return
	}

	e := &project.Epic{
		ProjectID:   p.ID,
		Title:       *req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		e.Status = *req.Status
	}

	if err := h.repo.CreateEpic(r.Context(), e); err != nil {
		h.writeError(w, requestID, "create epic", err)
		return
	}

	response.Success(w, http.StatusCreated, toEpicResponse(e), requestID)
}

// ListEpics handles GET /api/projects/{id}/epics.
func (h *ProjectHandler) ListEpics(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	p, ok := h.loadProject(w, r, requestID, "list epics")
	if !ok {
		return
	}

	epics, err := h.repo.ListEpics(r.Context(), p.ID)
	if err != nil {
		internalError(w, requestID, "list epics", err, "projectId", p.ID)
		return
	}

	items := make([]epicResponse, 0, len(epics))
	for i := range epics {
		items = append(items, toEpicResponse(&epics[i]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetEpic handles GET /api/projects/{id}/epics/{epicId}.
func (h *ProjectHandler) GetEpic(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	e, ok := h.loadEpic(w, r, requestID, "get epic")
	if !ok {
		return
	}

	response.Success(w, http.StatusOK, toEpicResponse(e), requestID)
}

// UpdateEpic handles PATCH /api/projects/{id}/epics/{epicId}.
func (h *ProjectHandler) UpdateEpic(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req epicRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	e, ok := h.loadEpic(w, r, requestID, "update epic")
	if !ok {
		return
	}

	if req.empty() {
		noFields(w, requestID)
		return
	}
	req.Title = trimmed(req.Title)
	req.Status = trimmed(req.Status)
	if invalid(w, validation.ValidateUpdateEpicRequest(validation.EpicRequest{
		Title:  req.Title,
		Status: req.Status,
	}), requestID) {
		return
	}

	updated, err := h.repo.UpdateEpic(r.Context(), e.ProjectID, e.ID, project.EpicUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.writeError(w, requestID, "update epic", err)
		return
	}

	response.Success(w, http.StatusOK, toEpicResponse(updated), requestID)
}

// DeleteEpic handles DELETE /api/projects/{id}/epics/{epicId}.
func (h *ProjectHandler) DeleteEpic(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	e, ok := h.loadEpic(w, r, requestID, "delete epic")
	if !ok {
		return
	}

	if err := h.repo.DeleteEpic(r.Context(), e.ProjectID, e.ID); err != nil {
		h.writeError(w, requestID, "delete epic", err)
		return
	}

	response.NoContent(w)
}

// --- Tasks ---

// CreateTask handles POST /api/projects/{id}/epics/{epicId}/tasks.
func (h *ProjectHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req taskRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	e, ok := h.loadEpic(w, r, requestID, "create task")
	if !ok {
		return
	}

	req.Title = trimmed(req.Title)
	req.Status = trimmed(req.Status)
	if invalid(w, validation.ValidateCreateTaskRequest(validation.TaskRequest{
		Title:    req.Title,
		Deadline: req.Deadline,
		Status:   req.Status,
		Label:    req.Label,
	}), requestID) {
		return
	}

	t := &project.Task{
		EpicID:      e.ID,
		Title:       *req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Label:       req.Label,
	}
	if req.Status != nil {
		t.Status = *req.Status
	}

	if err := h.repo.CreateTask(r.Context(), t); err != nil {
		h.writeError(w, requestID, "create task", err)
		return
	}

	response.Success(w, http.StatusCreated, toTaskResponse(t), requestID)
}

// ListTasks handles GET /api/projects/{id}/epics/{epicId}/tasks.
func (h *ProjectHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	e, ok := h.loadEpic(w, r, requestID, "list tasks")
	if !ok {
		return
	}

	tasks, err := h.repo.ListTasks(r.Context(), e.ID)
	if err != nil {
		internalError(w, requestID, "list tasks", err, "epicId", e.ID)
		return
	}

	items := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, toTaskResponse(&tasks[i]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// loadTask resolves the epic and then {taskId} within it.
func (h *ProjectHandler) loadTask(w http.ResponseWriter, r *http.Request, requestID, action string) (*project.Task, bool) {
	e, ok := h.loadEpic(w, r, requestID, action)
	if !ok {
		return nil, false
	}

	taskID, ok := parseID(w, r, "taskId", requestID)
	if !ok {
		return nil, false
	}

	t, err := h.repo.GetTask(r.Context(), e.ID, taskID)
	if err != nil {
		h.writeError(w, requestID, action, err)
		return nil, false
	}
	return t, true
}

// GetTask handles GET /api/projects/{id}/epics/{epicId}/tasks/{taskId}.
func (h *ProjectHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	t, ok := h.loadTask(w, r, requestID, "get task")
	if !ok {
		return
	}

	response.Success(w, http.StatusOK, toTaskResponse(t), requestID)
}

// UpdateTask handles PATCH /api/projects/{id}/epics/{epicId}/tasks/{taskId}.
func (h *ProjectHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req taskRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	t, ok := h.loadTask(w, r, requestID, "update task")
	if !ok {
		return
	}

	if req.empty() {
		noFields(w, requestID)
		return
	}
	req.Title = trimmed(req.Title)
	req.Status = trimmed(req.Status)
	if invalid(w, validation.ValidateUpdateTaskRequest(validation.TaskRequest{
		Title:    req.Title,
		Deadline: req.Deadline,
		Status:   req.Status,
		Label:    req.Label,
	}), requestID) {
		return
	}

	updated, err := h.repo.UpdateTask(r.Context(), t.EpicID, t.ID, project.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Status:      req.Status,
		Label:       req.Label,
	})
	if err != nil {
		h.writeError(w, requestID, "update task", err)
		return
	}

	response.Success(w, http.StatusOK, toTaskResponse(updated), requestID)
}

// DeleteTask handles DELETE /api/projects/{id}/epics/{epicId}/tasks/{taskId}.
func (h *ProjectHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	t, ok := h.loadTask(w, r, requestID, "delete task")
	if !ok {
		return
	}

	if err := h.repo.DeleteTask(r.Context(), t.EpicID, t.ID); err != nil {
		h.writeError(w, requestID, "delete task", err)
		return
	}

	response.NoContent(w)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/profilehub/backend/internal/api/middleware"
	"github.com/profilehub/backend/internal/api/response"
	"github.com/profilehub/backend/internal/api/validation"
	"github.com/profilehub/backend/internal/todo"
)

type todoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type todoResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toTodoResponse(t *todo.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   response.FormatTime(t.CreatedAt),
		UpdatedAt:   response.FormatTime(t.UpdatedAt),
	}
}

// TodoHandler handles todo CRUD endpoints.
type TodoHandler struct {
	repo todo.Repository
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(repo todo.Repository) *TodoHandler {
	return &TodoHandler{repo: repo}
}

// Create handles POST /api/todos. New todos start uncompleted.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req todoRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	req.Title = trimmed(req.Title)
	if invalid(w, validation.ValidateTodoTitle(req.Title, true), requestID) {
		return
	}

	t := &todo.Todo{Title: *req.Title, Description: req.Description}
	if err := h.repo.Create(r.Context(), t); err != nil {
		internalError(w, requestID, "create todo", err)
		return
	}

	response.Success(w, http.StatusCreated, toTodoResponse(t), requestID)
}

// List handles GET /api/todos.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	todos, err := h.repo.List(r.Context())
	if err != nil {
		internalError(w, requestID, "list todos", err)
		return
	}

	items := make([]todoResponse, 0, len(todos))
	for i := range todos {
		items = append(items, toTodoResponse(&todos[i]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /api/todos/{id}.
func (h *TodoHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	t, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			notFound(w, "Todo not found", requestID)
			return
		}
		internalError(w, requestID, "get todo", err, "id", id)
		return
	}

	response.Success(w, http.StatusOK, toTodoResponse(t), requestID)
}

// Update handles PATCH /api/todos/{id}.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	var req todoRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if _, err := h.repo.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			notFound(w, "Todo not found", requestID)
			return
		}
		internalError(w, requestID, "update todo", err, "id", id)
		return
	}

	if req.Title == nil && req.Description == nil && req.Completed == nil {
		noFields(w, requestID)
		return
	}
	req.Title = trimmed(req.Title)
	if invalid(w, validation.ValidateTodoTitle(req.Title, false), requestID) {
		return
	}

	t, err := h.repo.Update(r.Context(), id, todo.UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			notFound(w, "Todo not found", requestID)
			return
		}
		internalError(w, requestID, "update todo", err, "id", id)
		return
	}

	response.Success(w, http.StatusOK, toTodoResponse(t), requestID)
}

// Delete handles DELETE /api/todos/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			notFound(w, "Todo not found", requestID)
			return
		}
		internalError(w, requestID, "delete todo", err, "id", id)
		return
	}

	response.NoContent(w)
}

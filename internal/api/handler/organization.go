package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/profilehub/backend/internal/api/middleware"
	"github.com/profilehub/backend/internal/api/response"
	"github.com/profilehub/backend/internal/api/validation"
	"github.com/profilehub/backend/internal/organization"
)

type organizationRequest struct {
	Name *string `json:"name"`
}

type organizationResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toOrganizationResponse(o *organization.Organization) organizationResponse {
	return organizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		CreatedAt: response.FormatTime(o.CreatedAt),
		UpdatedAt: response.FormatTime(o.UpdatedAt),
	}
}

// OrganizationHandler handles organization CRUD endpoints. Writes are routed
// behind the superuser gate.
type OrganizationHandler struct {
	repo organization.Repository
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(repo organization.Repository) *OrganizationHandler {
	return &OrganizationHandler{repo: repo}
}

// Create handles POST /api/organizations.
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req organizationRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if invalid(w, validation.ValidateOrganizationName(name), requestID) {
		return
	}

	o := &organization.Organization{Name: name}
	if err := h.repo.Create(r.Context(), o); err != nil {
		internalError(w, requestID, "create organization", err)
		return
	}

	response.Success(w, http.StatusCreated, toOrganizationResponse(o), requestID)
}

// List handles GET /api/organizations.
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	orgs, err := h.repo.List(r.Context())
	if err != nil {
		internalError(w, requestID, "list organizations", err)
		return
	}

	items := make([]organizationResponse, 0, len(orgs))
	for i := range orgs {
		items = append(items, toOrganizationResponse(&orgs[i]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /api/organizations/{id}.
func (h *OrganizationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	o, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			notFound(w, "Organization not found", requestID)
			return
		}
		internalError(w, requestID, "get organization", err, "id", id)
		return
	}

	response.Success(w, http.StatusOK, toOrganizationResponse(o), requestID)
}

// Update handles PATCH /api/organizations/{id}. Only the name can change.
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	var req organizationRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if _, err := h.repo.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			notFound(w, "Organization not found", requestID)
			return
		}
		internalError(w, requestID, "update organization", err, "id", id)
		return
	}

	if req.Name == nil {
		noFields(w, requestID)
		return
	}
	name := strings.TrimSpace(*req.Name)
	if invalid(w, validation.ValidateOrganizationName(name), requestID) {
		return
	}

	o, err := h.repo.Rename(r.Context(), id, name)
	if err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			notFound(w, "Organization not found", requestID)
			return
		}
		internalError(w, requestID, "update organization", err, "id", id)
		return
	}

	response.Success(w, http.StatusOK, toOrganizationResponse(o), requestID)
}

// Delete handles DELETE /api/organizations/{id}. Members and projects of the
// organization become unscoped.
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			notFound(w, "Organization not found", requestID)
			return
		}
		internalError(w, requestID, "delete organization", err, "id", id)
		return
	}

	response.NoContent(w)
}

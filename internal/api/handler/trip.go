package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/profilehub/backend/internal/api/middleware"
	"github.com/profilehub/backend/internal/api/response"
	"github.com/profilehub/backend/internal/api/validation"
	"github.com/profilehub/backend/internal/trip"
)

// UserDirectory reports which user ids exist.
type UserDirectory interface {
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

type tripRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Participants []int64 `json:"participants"`
}

type tripResponse struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Participants []int64 `json:"participants"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

func toTripResponse(t *trip.Trip) tripResponse {
	participants := t.Participants
	if participants == nil {
		participants = []int64{}
	}
	return tripResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		StartDate:    t.StartDate,
		EndDate:      t.EndDate,
		Participants: participants,
		CreatedAt:    response.FormatTime(t.CreatedAt),
		UpdatedAt:    response.FormatTime(t.UpdatedAt),
	}
}

// missingUsers writes a 404 listing the ids that are not registered users.
func missingUsers(ctx context.Context, w http.ResponseWriter, users UserDirectory, ids []int64, requestID, action string) bool {
	if len(ids) == 0 {
		return false
	}

	found, err := users.ExistingIDs(ctx, ids)
	if err != nil {
		internalError(w, requestID, action, err)
		return true
	}

	missing := []int64{}
	for _, id := range ids {
		if !slices.Contains(found, id) && !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return false
	}

	response.ErrWithDetails(w, http.StatusNotFound, "NOT_FOUND",
		fmt.Sprintf("Users not found: %v", missing), map[string][]int64{"missing": missing}, requestID)
	return true
}

// TripHandler handles trip CRUD endpoints.
type TripHandler struct {
	repo  trip.Repository
	users UserDirectory
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(repo trip.Repository, users UserDirectory) *TripHandler {
	return &TripHandler{repo: repo, users: users}
}

// Create handles POST /api/trips. Every participant must be a registered user.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req tripRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	req.Title = trimmed(req.Title)
	if invalid(w, validation.ValidateCreateTripRequest(validation.TripRequest{
		Title:        req.Title,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Participants: req.Participants,
	}), requestID) {
		return
	}

	if missingUsers(r.Context(), w, h.users, req.Participants, requestID, "create trip") {
		return
	}

	t := &trip.Trip{
		Title:        *req.Title,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Participants: req.Participants,
	}
	if err := h.repo.Create(r.Context(), t); err != nil {
		internalError(w, requestID, "create trip", err)
		return
	}

	response.Success(w, http.StatusCreated, toTripResponse(t), requestID)
}

// List handles GET /api/trips.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	trips, err := h.repo.List(r.Context())
	if err != nil {
		internalError(w, requestID, "list trips", err)
		return
	}

	items := make([]tripResponse, 0, len(trips))
	for i := range trips {
		items = append(items, toTripResponse(&trips[i]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /api/trips/{id}.
func (h *TripHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	t, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			notFound(w, "Trip not found", requestID)
			return
		}
		internalError(w, requestID, "get trip", err, "id", id)
		return
	}

	response.Success(w, http.StatusOK, toTripResponse(t), requestID)
}

// Update handles PATCH /api/trips/{id}.
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	var req tripRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			notFound(w, "Trip not found", requestID)
			return
		}
		internalError(w, requestID, "update trip", err, "id", id)
		return
	}

	if req.Title == nil && req.Description == nil && req.StartDate == nil && req.EndDate == nil && req.Participants == nil {
		noFields(w, requestID)
		return
	}

	// A date left out of the update is checked against its stored value.
	start, end := req.StartDate, req.EndDate
	if start == nil {
		start = existing.StartDate
	}
	if end == nil {
		end = existing.EndDate
	}

	req.Title = trimmed(req.Title)
	if invalid(w, validation.ValidateUpdateTripRequest(validation.TripRequest{
		Title:        req.Title,
		StartDate:    start,
		EndDate:      end,
		Participants: req.Participants,
	}), requestID) {
		return
	}

	if missingUsers(r.Context(), w, h.users, req.Participants, requestID, "update trip") {
		return
	}

	t, err := h.repo.Update(r.Context(), id, trip.UpdateFields{
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Participants: req.Participants,
	})
	if err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			notFound(w, "Trip not found", requestID)
			return
		}
		internalError(w, requestID, "update trip", err, "id", id)
		return
	}

	response.Success(w, http.StatusOK, toTripResponse(t), requestID)
}

// Delete handles DELETE /api/trips/{id}. Expenses of the trip keep existing
// without a trip.
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			notFound(w, "Trip not found", requestID)
			return
		}
		internalError(w, requestID, "delete trip", err, "id", id)
		return
	}

	response.NoContent(w)
}

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/profilehub/backend/internal/api/middleware"
	"github.com/profilehub/backend/internal/api/response"
	"github.com/profilehub/backend/internal/api/validation"
	"github.com/profilehub/backend/internal/expense"
	"github.com/profilehub/backend/internal/trip"
)

type expenseRequest struct {
	Title        *string  `json:"title"`
	Amount       *float64 `json:"amount"`
	Tag          *string  `json:"tag"`
	Category     *string  `json:"category"`
	Location     *string  `json:"location"`
	Description  *string  `json:"description"`
	PayorID      *int64   `json:"payorId"`
	Participants []int64  `json:"participants"`
	TripID       *int64   `json:"tripId"`
}

func (r expenseRequest) empty() bool {
	return r.Title == nil && r.Amount == nil && r.Tag == nil && r.Category == nil &&
		r.Location == nil && r.Description == nil && r.PayorID == nil &&
		r.Participants == nil && r.TripID == nil
}

func (r expenseRequest) validationInput() validation.ExpenseRequest {
	return validation.ExpenseRequest{
		Title:        r.Title,
		Amount:       r.Amount,
		Tag:          r.Tag,
		Category:     r.Category,
		PayorID:      r.PayorID,
		TripID:       r.TripID,
		Participants: r.Participants,
	}
}

type expenseResponse struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Amount       float64 `json:"amount"`
	Tag          *string `json:"tag"`
	Category     *string `json:"category"`
	Location     *string `json:"location"`
	Description  *string `json:"description"`
	PayorID      *int64  `json:"payorId"`
	Participants []int64 `json:"participants"`
	TripID       *int64  `json:"tripId"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

func toExpenseResponse(e *expense.Expense) expenseResponse {
	participants := e.Participants
	if participants == nil {
		participants = []int64{}
	}
	return expenseResponse{
		ID:           e.ID,
		Title:        e.Title,
		Amount:       e.Amount,
		Tag:          e.Tag,
		Category:     e.Category,
		Location:     e.Location,
		Description:  e.Description,
		PayorID:      e.PayorID,
		Participants: participants,
		TripID:       e.TripID,
		CreatedAt:    response.FormatTime(e.CreatedAt),
		UpdatedAt:    response.FormatTime(e.UpdatedAt),
	}
}

// ExpenseHandler handles expense CRUD endpoints.
type ExpenseHandler struct {
	repo  expense.Repository
	trips trip.Repository
	users UserDirectory
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(repo expense.Repository, trips trip.Repository, users UserDirectory) *ExpenseHandler {
	return &ExpenseHandler{repo: repo, trips: trips, users: users}
}

// checkReferences verifies the payor, the trip and that every participant
// belongs to the trip. tripID is the trip the participants are checked against.
func (h *ExpenseHandler) checkReferences(w http.ResponseWriter, r *http.Request, req expenseRequest, tripID *int64, requestID, action string) bool {
	if req.PayorID != nil {
		found, err := h.users.ExistingIDs(r.Context(), []int64{*req.PayorID})
		if err != nil {
			internalError(w, requestID, action, err)
			return false
		}
		if len(found) == 0 {
			notFound(w, "Payor not found", requestID)
			return false
		}
	}

	if len(req.Participants) > 0 {
		if tripID == nil {
			invalid(w, []validation.FieldError{{Field: "tripId", Message: "tripId is required when participants are specified"}}, requestID)
			return false
		}
		t, ok := h.loadTrip(w, r, *tripID, requestID, action)
		if !ok {
			return false
		}
		if missing := t.NotParticipating(req.Participants); len(missing) > 0 {
			response.ErrWithDetails(w, http.StatusNotFound, "NOT_FOUND",
				fmt.Sprintf("Participants not in trip: %v", missing), map[string][]int64{"missing": missing}, requestID)
			return false
		}
		return true
	}

	if req.TripID != nil {
		_, ok := h.loadTrip(w, r, *req.TripID, requestID, action)
		return ok
	}
	return true
}

func (h *ExpenseHandler) loadTrip(w http.ResponseWriter, r *http.Request, id int64, requestID, action string) (*trip.Trip, bool) {
	t, err := h.trips.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			notFound(w, "Trip not found", requestID)
			return nil, false
		}
		internalError(w, requestID, action, err, "tripId", id)
		return nil, false
	}
	return t, true
}

// Create handles POST /api/expenses.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req expenseRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	req.Title = trimmed(req.Title)
	if invalid(w, validation.ValidateCreateExpenseRequest(req.validationInput()), requestID) {
		return
	}

	if !h.checkReferences(w, r, req, req.TripID, requestID, "create expense") {
		return
	}

	e := &expense.Expense{
		Title:        *req.Title,
		Amount:       *req.Amount,
		Tag:          req.Tag,
		Category:     req.Category,
		Location:     req.Location,
		Description:  req.Description,
		PayorID:      req.PayorID,
		Participants: req.Participants,
		TripID:       req.TripID,
	}
	if err := h.repo.Create(r.Context(), e); err != nil {
		internalError(w, requestID, "create expense", err)
		return
	}

	response.Success(w, http.StatusCreated, toExpenseResponse(e), requestID)
}

// List handles GET /api/expenses.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	expenses, err := h.repo.List(r.Context())
	if err != nil {
		internalError(w, requestID, "list expenses", err)
		return
	}

	items := make([]expenseResponse, 0, len(expenses))
	for i := range expenses {
		items = append(items, toExpenseResponse(&expenses[i]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /api/expenses/{id}.
func (h *ExpenseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	e, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			notFound(w, "Expense not found", requestID)
			return
		}
		internalError(w, requestID, "get expense", err, "id", id)
		return
	}

	response.Success(w, http.StatusOK, toExpenseResponse(e), requestID)
}

// Update handles PATCH /api/expenses/{id}. New participants are checked
// against the trip given in the same update, or else the expense's trip.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	var req expenseRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			notFound(w, "Expense not found", requestID)
			return
		}
		internalError(w, requestID, "update expense", err, "id", id)
		return
	}

	if req.empty() {
		noFields(w, requestID)
		return
	}
	req.Title = trimmed(req.Title)
	if invalid(w, validation.ValidateUpdateExpenseRequest(req.validationInput()), requestID) {
		return
	}

	tripID := req.TripID
	if tripID == nil {
		tripID = existing.TripID
	}
	if !h.checkReferences(w, r, req, tripID, requestID, "update expense") {
		return
	}

	e, err := h.repo.Update(r.Context(), id, expense.UpdateFields{
		Title:        req.Title,
		Amount:       req.Amount,
		Tag:          req.Tag,
		Category:     req.Category,
		Location:     req.Location,
		Description:  req.Description,
		PayorID:      req.PayorID,
		Participants: req.Participants,
		TripID:       req.TripID,
	})
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			notFound(w, "Expense not found", requestID)
			return
		}
		internalError(w, requestID, "update expense", err, "id", id)
		return
	}

	response.Success(w, http.StatusOK, toExpenseResponse(e), requestID)
}

// Delete handles DELETE /api/expenses/{id}.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			notFound(w, "Expense not found", requestID)
			return
		}
		internalError(w, requestID, "delete expense", err, "id", id)
		return
	}

	response.NoContent(w)
}

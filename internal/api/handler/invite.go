package handler

import (
	"errors"
	"net/http"

	"github.com/profilehub/backend/internal/api/middleware"
	"github.com/profilehub/backend/internal/api/response"
	"github.com/profilehub/backend/internal/api/validation"
	"github.com/profilehub/backend/internal/invite"
)

type createInviteRequest struct {
	Code    *string `json:"code"`
	MaxUses *int    `json:"maxUses"`
}

type inviteResponse struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	MaxUses   int    `json:"maxUses"`
	Uses      int    `json:"uses"`
	CreatedAt string `json:"createdAt"`
}

func toInviteResponse(i *invite.Invite) inviteResponse {
	return inviteResponse{
		ID:        i.ID,
		Code:      i.Code,
		MaxUses:   i.MaxUses,
		Uses:      i.Uses,
		CreatedAt: response.FormatTime(i.CreatedAt),
	}
}

// InviteHandler handles the superuser-only invite endpoints.
type InviteHandler struct {
	repo invite.Repository
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(repo invite.Repository) *InviteHandler {
	return &InviteHandler{repo: repo}
}

// Create handles POST /api/invites. A code is generated when none is given.
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createInviteRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	req.Code = trimmed(req.Code)
	if invalid(w, validation.ValidateCreateInviteRequest(validation.CreateInviteRequest{
		Code:    req.Code,
		MaxUses: req.MaxUses,
	}), requestID) {
		return
	}

	inv := &invite.Invite{MaxUses: invite.DefaultMaxUses}
	if req.MaxUses != nil {
		inv.MaxUses = *req.MaxUses
	}
	if req.Code != nil {
		inv.Code = *req.Code
	} else {
		code, err := invite.GenerateCode()
		if err != nil {
			internalError(w, requestID, "create invite", err)
			return
		}
		inv.Code = code
	}

	if err := h.repo.Create(r.Context(), inv); err != nil {
		if errors.Is(err, invite.ErrDuplicateCode) {
			response.Err(w, http.StatusConflict, "CONFLICT", "Invite code already exists", requestID)
			return
		}
		internalError(w, requestID, "create invite", err)
		return
	}

	response.Success(w, http.StatusCreated, toInviteResponse(inv), requestID)
}

// List handles GET /api/invites.
func (h *InviteHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	invites, err := h.repo.List(r.Context())
	if err != nil {
		internalError(w, requestID, "list invites", err)
		return
	}

	items := make([]inviteResponse, 0, len(invites))
	for i := range invites {
		items = append(items, toInviteResponse(&invites[i]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Delete handles DELETE /api/invites/{id}.
func (h *InviteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, invite.ErrNotFound) {
			notFound(w, "Invite not found", requestID)
			return
		}
		internalError(w, requestID, "delete invite", err, "id", id)
		return
	}

	response.NoContent(w)
}

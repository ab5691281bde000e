package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/profilehub/backend/internal/api/middleware"
	"github.com/profilehub/backend/internal/api/response"
	"github.com/profilehub/backend/internal/api/validation"
	"github.com/profilehub/backend/internal/auth"
	"github.com/profilehub/backend/internal/invite"
	"github.com/profilehub/backend/internal/organization"
)

// Credentials hashes passwords and performs logins.
type Credentials interface {
	HashPassword(password string) (string, error)
	Login(ctx context.Context, email, password string) (*auth.Credential, error)
}

type registerRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	InviteCode     string `json:"inviteCode"`
	OrganizationID *int64 `json:"organizationId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	OrganizationID *int64 `json:"organizationId"`
	CreatedAt      string `json:"createdAt"`
}

type loginResponse struct {
	APIKey    string `json:"apiKey"`
	ExpiresAt string `json:"expiresAt"`
}

// UserHandler handles registration and login.
type UserHandler struct {
	creds   Credentials
	users   auth.UserRepository
	invites invite.Repository
	orgs    organization.Repository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(creds Credentials, users auth.UserRepository, invites invite.Repository, orgs organization.Repository) *UserHandler {
	return &UserHandler{
		creds:   creds,
		users:   users,
		invites: invites,
		orgs:    orgs,
	}
}

// Register handles POST /api/users/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req registerRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if invalid(w, validation.ValidateRegisterRequest(validation.RegisterRequest{
		Email:          req.Email,
		Password:       req.Password,
		InviteCode:     req.InviteCode,
		OrganizationID: req.OrganizationID,
	}), requestID) {
		return
	}

	inv, err := h.invites.GetByCode(r.Context(), req.InviteCode)
	if err != nil {
		if errors.Is(err, invite.ErrNotFound) {
			notFound(w, "Invalid invite code", requestID)
			return
		}
		internalError(w, requestID, "register user", err)
		return
	}
	if inv.Exhausted() {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Invite code exhausted", requestID)
		return
	}

	if req.OrganizationID != nil {
		if _, err := h.orgs.GetByID(r.Context(), *req.OrganizationID); err != nil {
			if errors.Is(err, organization.ErrNotFound) {
				notFound(w, "Organization not found", requestID)
				return
			}
			internalError(w, requestID, "register user", err)
			return
		}
	}

	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		response.Err(w, http.StatusConflict, "CONFLICT", "Email already registered", requestID)
		return
	} else if !errors.Is(err, auth.ErrUserNotFound) {
		internalError(w, requestID, "register user", err)
		return
	}

	hash, err := h.creds.HashPassword(req.Password)
	if err != nil {
		internalError(w, requestID, "register user", err)
		return
	}

	// Redeem only succeeds while uses < max_uses, so it runs before the insert.
	if err := h.invites.Redeem(r.Context(), inv.ID); err != nil {
		if errors.Is(err, invite.ErrExhausted) {
			response.Err(w, http.StatusForbidden, "FORBIDDEN", "Invite code exhausted", requestID)
			return
		}
		internalError(w, requestID, "register user", err)
		return
	}

	u := &auth.User{
		Email:          req.Email,
		PasswordHash:   hash,
		OrganizationID: req.OrganizationID,
	}
	if err := h.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			response.Err(w, http.StatusConflict, "CONFLICT", "Email already registered", requestID)
			return
		}
		internalError(w, requestID, "register user", err)
		return
	}

	response.Success(w, http.StatusCreated, userResponse{
		ID:             u.ID,
		Email:          u.Email,
		OrganizationID: u.OrganizationID,
		CreatedAt:      response.FormatTime(u.CreatedAt),
	}, requestID)
}

// Login handles POST /api/users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req loginRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if invalid(w, validation.ValidateLoginRequest(validation.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	}), requestID) {
		return
	}

	cred, err := h.creds.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", requestID)
			return
		}
		internalError(w, requestID, "log in", err)
		return
	}

	response.Success(w, http.StatusOK, loginResponse{
		APIKey:    cred.Key,
		ExpiresAt: response.FormatTime(cred.ExpiresAt),
	}, requestID)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/profilehub/backend/internal/api/middleware"
	"github.com/profilehub/backend/internal/api/response"
	"github.com/profilehub/backend/internal/api/validation"
	"github.com/profilehub/backend/internal/auth"
)

// KeyManager reports and replaces credentials.
type KeyManager interface {
	KeyExpiry(ctx context.Context, identity *auth.Identity) (time.Time, error)
	RotateSuperuserKey(ctx context.Context, newKey string) (*auth.Credential, error)
}

type rotateKeyRequest struct {
	NewKey string `json:"newKey"`
}

type verifyKeyResponse struct {
	Valid     bool   `json:"valid"`
	ExpiresAt string `json:"expiresAt"`
}

type rotateKeyResponse struct {
	Message   string `json:"message"`
	ExpiresAt string `json:"expiresAt"`
}

// SettingsHandler handles the credential endpoints under /api/settings.
type SettingsHandler struct {
	keys KeyManager
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(keys KeyManager) *SettingsHandler {
	return &SettingsHandler{keys: keys}
}

// VerifyKey handles GET /api/settings/verify-key.
func (h *SettingsHandler) VerifyKey(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	expiresAt, err := h.keys.KeyExpiry(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingKey):
			response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
		case errors.Is(err, auth.ErrInvalidKey):
			// The key expired or was rotated between authentication and this read.
			response.Err(w, http.StatusForbidden, "FORBIDDEN", "Invalid or expired API key", requestID)
		default:
			internalError(w, requestID, "verify API key", err)
		}
		return
	}

	response.Success(w, http.StatusOK, verifyKeyResponse{
		Valid:     true,
		ExpiresAt: response.FormatTime(expiresAt),
	}, requestID)
}

// RotateKey handles POST /api/settings/rotate-key.
func (h *SettingsHandler) RotateKey(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req rotateKeyRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if invalid(w, validation.ValidateRotateKeyRequest(validation.RotateKeyRequest{NewKey: req.NewKey}), requestID) {
		return
	}

	cred, err := h.keys.RotateSuperuserKey(r.Context(), req.NewKey)
	if err != nil {
		if errors.Is(err, auth.ErrKeyTooShort) {
			invalid(w, []validation.FieldError{{Field: "newKey", Message: auth.ErrKeyTooShort.Error()}}, requestID)
			return
		}
		internalError(w, requestID, "rotate API key", err)
		return
	}

	response.Success(w, http.StatusOK, rotateKeyResponse{
		Message:   "API key rotated",
		ExpiresAt: response.FormatTime(cred.ExpiresAt),
	}, requestID)
}

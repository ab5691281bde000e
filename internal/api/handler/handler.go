// Package handler implements the HTTP endpoints. Every handler writes the
// response envelope and follows the same order: parse the request, load the
// resource, authorize, validate the payload, then mutate.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/profilehub/backend/internal/api/middleware"
	"github.com/profilehub/backend/internal/api/response"
	"github.com/profilehub/backend/internal/api/validation"
	"github.com/profilehub/backend/internal/auth"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return false
	}
	return true
}

// parseID reads a positive integer URL parameter.
func parseID(w http.ResponseWriter, r *http.Request, param, requestID string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", param+" must be a positive integer", requestID)
		return 0, false
	}
	return id, true
}

func invalid(w http.ResponseWriter, errs []validation.FieldError, requestID string) bool {
	if len(errs) == 0 {
		return false
	}
	response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", errs, requestID)
	return true
}

func noFields(w http.ResponseWriter, requestID string) {
	response.Err(w, http.StatusBadRequest, "NO_FIELDS", "No fields to update", requestID)
}

func notFound(w http.ResponseWriter, message, requestID string) {
	response.Err(w, http.StatusNotFound, "NOT_FOUND", message, requestID)
}

// authorize runs the tenant guard for the request identity and writes 401 or
// 403 when it fails. The resource must already be known to exist.
func authorize(w http.ResponseWriter, r *http.Request, tenant *int64, requestID string) bool {
	err := auth.Authorize(middleware.GetIdentity(r.Context()), tenant)
	if err == nil {
		return true
	}
	if errors.Is(err, auth.ErrMissingKey) {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
		return false
	}
	response.Err(w, http.StatusForbidden, "FORBIDDEN", "Access denied", requestID)
	return false
}

// internalError logs "failed to <action>" and writes a 500 envelope.
func internalError(w http.ResponseWriter, requestID, action string, err error, attrs ...any) {
	slog.Error("failed to "+action, append([]any{"error", err, "requestId", requestID}, attrs...)...)
	response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+action, requestID)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

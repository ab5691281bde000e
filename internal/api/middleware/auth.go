package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/profilehub/backend/internal/api/response"
	"github.com/profilehub/backend/internal/auth"
)

// APIKeyHeader carries the credential on every protected request.
const APIKeyHeader = "X-API-Key"

const identityKey contextKey = "identity"

// Authenticator resolves a presented API key to an Identity.
type Authenticator interface {
	Authenticate(ctx context.Context, rawKey string) (*auth.Identity, error)
}

// Auth is middleware that extracts the X-API-Key header and resolves it
// to an Identity. A missing key returns 401, an unknown or expired key 403.
func Auth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			rawKey := r.Header.Get(APIKeyHeader)
			if rawKey == "" {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
				return
			}

			identity, err := authenticator.Authenticate(r.Context(), rawKey)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrMissingKey):
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
				case errors.Is(err, auth.ErrInvalidKey):
					response.Err(w, http.StatusForbidden, "FORBIDDEN", "Invalid or expired API key", requestID)
				default:
					slog.Error("failed to authenticate request", "error", err, "requestId", requestID)
					response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the authenticated Identity from the request context.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return id
	}
	return nil
}

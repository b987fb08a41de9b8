package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "crewmatch/internal/delivery/http/helpers"
	"crewmatch/internal/domain"
)

type contextKey string

const crewIDKey contextKey = "crewID"

// SetCrewID returns a context carrying the authenticated crew ID.
func SetCrewID(ctx context.Context, crewID string) context.Context {
	return context.WithValue(ctx, crewIDKey, crewID)
}

// CrewIDFromContext returns the authenticated crew ID, if present.
func CrewIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(crewIDKey).(string)
	return id, ok && id != ""
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the crew ID in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			token, found := strings.CutPrefix(auth, "Bearer ")
			if !found {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token = strings.TrimSpace(token)
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			crewID, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetCrewID(r.Context(), crewID)))
		}
	}
}

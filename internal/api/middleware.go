package api

import (
	"context"
	"fmt"
	"net/http"

	app_errors "lumen-ai/backend/internal/errors"
	"lumen-ai/backend/internal/interfaces"
)

// Session and OAuth mechanics live in an upstream auth proxy; by the
// time a request reaches this service the proxy has resolved the
// session and forwards the stable user id in a trusted header.
const userIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "userID"

// RequireUser rejects requests that carry no authenticated identity and
// stores the user id in the request context for handlers.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(userIDHeader)
		if userID == "" {
			respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Authentication required."})
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userID returns the authenticated user id placed by RequireUser.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// RequireAdmin loads the acting user and rejects non-admins and
// deactivated accounts. Must be nested inside RequireUser.
func RequireAdmin(users interfaces.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := users.GetCurrentUser(r.Context(), userID(r))
			if err != nil {
				respondWithError(w, err)
				return
			}
			if !user.IsAdmin || !user.IsActive {
				respondWithError(w, fmt.Errorf("%w: admin access required", app_errors.ErrPermission))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

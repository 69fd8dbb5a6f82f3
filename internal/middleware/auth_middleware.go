package middleware

import (
	"context"
	"net/http"

	"github.com/Vulture98/student-courses-backend/internal/auth"
)

type contextKey string

// UserIDKey is the request-context key carrying the authenticated user's ID.
const UserIDKey contextKey = "userID"

// UserID extracts the authenticated user's ID from the request context.
func UserID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(UserIDKey).(string)
	return id, ok
}

// AdminAuthMiddleware requires a valid admin token cookie.
func AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("token")
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ValidateJWT(cookie.Value)
		if err != nil || claims.Role != "admin" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

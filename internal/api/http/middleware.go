package http

import (
	"context"
	"net/http"
	"strings"

	"arendol-backend/internal/metrics"
)

type contextKey string

const userIDKey contextKey = "user_id"

// authMiddleware validates the bearer token and stores the caller's user id in
// the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.IncHTTP(r.URL.Path)

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := s.tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeErrorMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userID extracts the authenticated caller from the request context.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"notekeeper-server/pkg/jwt"
	"notekeeper-server/pkg/response"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UsernameKey contextKey = "username"
)

// AuthMiddleware verifies the bearer token and places the authenticated
// principal's id in the request context. It only establishes identity;
// per-record ownership is enforced again in the repositories.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := jwt.ValidateToken(parts[1], jwtSecret)
			if err != nil {
				// Garbled input reads as no credentials at all; a real
				// token that fails verification or expired is forbidden.
				if errors.Is(err, jwt.ErrTokenMalformed) {
					response.Unauthorized(w, "Invalid token")
					return
				}
				response.Forbidden(w, "Invalid or expired token")
				return
			}

			if p, ok := r.Context().Value(principalKey).(*principal); ok {
				p.id = claims.UserID
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(r *http.Request) string {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

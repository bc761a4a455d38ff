package middleware

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// principal carries the authenticated user id from the auth middleware back
// out to the request logger, which runs outside it and would otherwise only
// see the pre-authentication request context.
type principal struct {
	id string
}

const principalKey contextKey = "principal"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func LoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			p := &principal{}
			r = r.WithContext(context.WithValue(r.Context(), principalKey, p))

			next.ServeHTTP(rw, r)

			userID := p.id
			if userID == "" {
				userID = "anonymous"
			}

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote", r.RemoteAddr),
				zap.Int("status", rw.statusCode),
				zap.Duration("duration", time.Since(start)),
				zap.String("user_id", userID),
			)
		})
	}
}
